package repository

import (
	"time"

	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/models"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task and its assignments
	Delete(id uint64) error

	// AssignUsers assigns multiple users to a task
	AssignUsers(taskID uint64, userIDs []uint64) error

	// UnassignUsers removes user assignments from a task
	UnassignUsers(taskID uint64, userIDs []uint64) error

	// AddWorkLog appends a work log entry to a task
	AddWorkLog(log *models.WorkLog) error

	// AddSubtask appends a subtask to a task
	AddSubtask(subtask *models.Subtask) error

	// SetSubtaskCompleted marks a subtask of a task as completed or not
	SetSubtaskCompleted(taskID, subtaskID uint64, completed bool) error

	// CountUsersByIDs counts how many of the given user IDs exist
	CountUsersByIDs(userIDs []uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OwnerID        *uint64
	AssignedUserID *uint64
	TeamID         *uint64
	Status         *models.TaskStatus
	DeadlineFrom   *time.Time
	DeadlineTo     *time.Time
	SortByDeadline bool
	Page           int
	PageSize       int
}

// RecipientTotal is one grouped row of an aggregate score query.
type RecipientTotal struct {
	RecipientID uint64  `gorm:"column:recipient_id"`
	Points      float64 `gorm:"column:points"`
}

// ScoreRepository defines the interface for score record data access
type ScoreRepository interface {
	// RecordScoringEvent persists every record of one scoring event in a
	// single transaction. Records already present for the same
	// (task, recipient, event) key are skipped, so replaying an event is a
	// no-op.
	RecordScoringEvent(scores []models.Score, teamScore *models.TeamScore) error

	// SumForUser sums a user's points, optionally within one period bucket
	SumForUser(userID uint64, period string) (float64, error)

	// SumForTeam sums a team's points, optionally within one period bucket
	SumForTeam(teamID uint64, period string) (float64, error)

	// SumForUserSince sums a user's points awarded at or after the given time
	SumForUserSince(userID uint64, since time.Time) (float64, error)

	// TopUsers returns per-user point totals, highest first
	TopUsers(period string, limit int) ([]RecipientTotal, error)

	// TopTeams returns per-team point totals, highest first
	TopTeams(period string, limit int) ([]RecipientTotal, error)

	// ListForUser returns a user's most recent score records
	ListForUser(userID uint64, limit int) ([]models.Score, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByIDs finds all users matching the given IDs
	FindByIDs(ids []uint64) ([]models.User, error)
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// Create creates a new team
	Create(team *models.Team) error

	// FindByID finds a team by ID with its members
	FindByID(id uint64) (*models.Team, error)

	// FindByIDs finds all teams matching the given IDs
	FindByIDs(ids []uint64) ([]models.Team, error)
}
