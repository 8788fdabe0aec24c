package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "low"
	TaskPriorityMedium   TaskPriority = "medium"
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityCritical TaskPriority = "critical"
)

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	Difficulty  int          `gorm:"not null;default:3" json:"difficulty"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Deadline    *time.Time   `json:"deadline"`
	// QualityRating is assigned when completion is recorded, 1-5.
	QualityRating *int       `json:"quality_rating"`
	StartedAt     *time.Time `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	OwnerID       uint64     `gorm:"not null;index" json:"owner_id"`
	TeamID        *uint64    `gorm:"index" json:"team_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner       User             `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Team        *Team            `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Assignments []TaskAssignment `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
	WorkLogs    []WorkLog        `gorm:"foreignKey:TaskID" json:"work_logs,omitempty"`
	Subtasks    []Subtask        `gorm:"foreignKey:TaskID" json:"subtasks,omitempty"`
}

// ContributorIDs returns the owner plus every assigned user, deduplicated.
func (t *Task) ContributorIDs() []uint64 {
	seen := map[uint64]struct{}{t.OwnerID: {}}
	ids := []uint64{t.OwnerID}

	for _, assignment := range t.Assignments {
		if _, ok := seen[assignment.UserID]; ok {
			continue
		}
		seen[assignment.UserID] = struct{}{}
		ids = append(ids, assignment.UserID)
	}

	return ids
}

// WorkMinutesByUser sums the logged minutes of every work log entry per
// contributor.
func (t *Task) WorkMinutesByUser() map[uint64]int {
	minutes := make(map[uint64]int, len(t.WorkLogs))
	for _, log := range t.WorkLogs {
		minutes[log.UserID] += log.Minutes
	}
	return minutes
}

// TotalWorkMinutes sums the logged minutes across all contributors.
func (t *Task) TotalWorkMinutes() int {
	total := 0
	for _, log := range t.WorkLogs {
		total += log.Minutes
	}
	return total
}

// SubtaskProgress returns the total and completed subtask counts.
func (t *Task) SubtaskProgress() (total, completed int) {
	for _, subtask := range t.Subtasks {
		total++
		if subtask.Completed {
			completed++
		}
	}
	return total, completed
}
