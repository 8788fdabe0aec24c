package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/models"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrNotTaskOwner         = errors.New("only the task owner can perform this action")
	ErrTaskPermissionDenied = errors.New("user does not have permission to modify this task")
	ErrTitleRequired        = errors.New("title is required")
	ErrTitleEmpty           = errors.New("title cannot be empty")
	ErrInvalidDifficulty    = errors.New("difficulty must be between 1 and 5")
	ErrInvalidPriority      = errors.New("unknown priority label")
	ErrInvalidQualityRating = errors.New("quality rating must be between 1 and 5")
	ErrInvalidMinutes       = errors.New("logged minutes must be positive")
	ErrTaskAlreadyCompleted = errors.New("task is already completed")
	ErrNoUserIDsProvided    = errors.New("at least one user ID is required")
	ErrInvalidTaskAssignee  = errors.New("one or more users do not exist")
	ErrSubtaskNotFound      = errors.New("subtask not found")
)

var validPriorities = map[models.TaskPriority]struct{}{
	models.TaskPriorityLow:      {},
	models.TaskPriorityMedium:   {},
	models.TaskPriorityHigh:     {},
	models.TaskPriorityCritical: {},
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	scoreService *ScoreService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, scoreService *ScoreService) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		scoreService: scoreService,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID         uint64
	OwnedOnly      bool
	AssignedToMe   bool
	TeamID         *uint64
	Status         *models.TaskStatus
	DueToday       bool
	SortByDeadline bool
	Page           int
	PageSize       int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Difficulty  int
	Priority    models.TaskPriority
	Deadline    *time.Time
	OwnerID     uint64
	TeamID      *uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Difficulty    *int
	Priority      *models.TaskPriority
	Deadline      *time.Time
	ClearDeadline bool
}

// CompleteTaskInput represents input for recording a task completion
type CompleteTaskInput struct {
	// CompletedAt is the explicit completion timestamp; back-dated values
	// are allowed. Zero means now.
	CompletedAt   time.Time
	QualityRating *int
}

// ListTasks returns tasks visible to a user based on the provided filters
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		TeamID:         input.TeamID,
		Status:         input.Status,
		SortByDeadline: input.SortByDeadline,
		Page:           input.Page,
		PageSize:       input.PageSize,
	}

	if input.OwnedOnly {
		filter.OwnerID = &input.UserID
	}
	if input.AssignedToMe {
		filter.AssignedUserID = &input.UserID
	}
	if input.DueToday {
		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)
		filter.DeadlineFrom = &startOfDay
		filter.DeadlineTo = &endOfDay
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with related data
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID,
		"Owner", "Team", "Assignments", "Assignments.User", "WorkLogs", "Subtasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task with validation and assigns the owner
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}
	if input.Difficulty != 0 && (input.Difficulty < 1 || input.Difficulty > 5) {
		return nil, ErrInvalidDifficulty
	}
	if input.Priority != "" {
		if _, ok := validPriorities[input.Priority]; !ok {
			return nil, ErrInvalidPriority
		}
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusTodo,
		Difficulty:  input.Difficulty,
		Priority:    input.Priority,
		Deadline:    input.Deadline,
		OwnerID:     input.OwnerID,
		TeamID:      input.TeamID,
	}
	if task.Difficulty == 0 {
		task.Difficulty = 3
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if err := s.taskRepo.AssignUsers(task.ID, []uint64{input.OwnerID}); err != nil {
		return nil, fmt.Errorf("failed to assign owner to task: %w", err)
	}

	return s.GetTask(task.ID)
}

// UpdateTask updates an existing task
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Difficulty != nil {
		if *input.Difficulty < 1 || *input.Difficulty > 5 {
			return nil, ErrInvalidDifficulty
		}
		task.Difficulty = *input.Difficulty
	}
	if input.Priority != nil {
		if _, ok := validPriorities[*input.Priority]; !ok {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDeadline {
		task.Deadline = nil
	} else if input.Deadline != nil {
		task.Deadline = input.Deadline
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(task.ID)
}

// DeleteTask deletes a task if the actor is the owner
func (s *TaskService) DeleteTask(taskID, actorID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != actorID {
		return ErrNotTaskOwner
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AssignUsers assigns multiple users to a task with validation
func (s *TaskService) AssignUsers(taskID, actorID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return ErrNoUserIDsProvided
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != actorID {
		return ErrNotTaskOwner
	}

	uniqueIDs := uniqueUint64(userIDs)

	count, err := s.taskRepo.CountUsersByIDs(uniqueIDs)
	if err != nil {
		return fmt.Errorf("failed to verify users: %w", err)
	}
	if int(count) != len(uniqueIDs) {
		return ErrInvalidTaskAssignee
	}

	if err := s.taskRepo.AssignUsers(task.ID, uniqueIDs); err != nil {
		return fmt.Errorf("failed to assign users: %w", err)
	}

	return nil
}

// UnassignUsers removes user assignments from a task
func (s *TaskService) UnassignUsers(taskID, actorID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return ErrNoUserIDsProvided
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if task.OwnerID != actorID {
		return ErrNotTaskOwner
	}

	if err := s.taskRepo.UnassignUsers(taskID, uniqueUint64(userIDs)); err != nil {
		return fmt.Errorf("failed to unassign users: %w", err)
	}

	return nil
}

// StartTask moves a task into progress and stamps StartedAt on first start
func (s *TaskService) StartTask(taskID, actorID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !isContributor(task, actorID) {
		return nil, ErrTaskPermissionDenied
	}
	if task.Status == models.TaskStatusDone {
		return nil, ErrTaskAlreadyCompleted
	}

	task.Status = models.TaskStatusInProgress
	if task.StartedAt == nil {
		now := time.Now()
		task.StartedAt = &now
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to start task: %w", err)
	}

	return task, nil
}

// LogWork appends an immutable work log entry for a contributor
func (s *TaskService) LogWork(taskID, actorID uint64, minutes int, note string) (*models.WorkLog, error) {
	if minutes <= 0 {
		return nil, ErrInvalidMinutes
	}

	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !isContributor(task, actorID) {
		return nil, ErrTaskPermissionDenied
	}

	log := &models.WorkLog{
		TaskID:  task.ID,
		UserID:  actorID,
		Minutes: minutes,
		Note:    note,
	}

	if err := s.taskRepo.AddWorkLog(log); err != nil {
		return nil, fmt.Errorf("failed to log work: %w", err)
	}

	return log, nil
}

// AddSubtask appends a subtask to a task
func (s *TaskService) AddSubtask(taskID, actorID uint64, title string) (*models.Subtask, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}

	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !isContributor(task, actorID) {
		return nil, ErrTaskPermissionDenied
	}

	subtask := &models.Subtask{
		TaskID: task.ID,
		Title:  title,
	}

	if err := s.taskRepo.AddSubtask(subtask); err != nil {
		return nil, fmt.Errorf("failed to add subtask: %w", err)
	}

	return subtask, nil
}

// SetSubtaskCompleted marks a subtask as completed or reopens it
func (s *TaskService) SetSubtaskCompleted(taskID, subtaskID, actorID uint64, completed bool) error {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if !isContributor(task, actorID) {
		return ErrTaskPermissionDenied
	}

	if err := s.taskRepo.SetSubtaskCompleted(taskID, subtaskID, completed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubtaskNotFound
		}
		return fmt.Errorf("failed to update subtask: %w", err)
	}

	return nil
}

// CompleteTask records a task completion and triggers scoring exactly once.
// Returns the updated task and the owner's computed point value.
func (s *TaskService) CompleteTask(taskID, actorID uint64, input CompleteTaskInput) (*models.Task, float64, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrTaskNotFound
		}
		return nil, 0, fmt.Errorf("failed to find task: %w", err)
	}

	if !isContributor(task, actorID) {
		return nil, 0, ErrTaskPermissionDenied
	}
	if task.Status == models.TaskStatusDone {
		return nil, 0, ErrTaskAlreadyCompleted
	}

	completedAt := input.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	if input.QualityRating != nil {
		if *input.QualityRating < 1 || *input.QualityRating > 5 {
			return nil, 0, ErrInvalidQualityRating
		}
		task.QualityRating = input.QualityRating
	}

	task.Status = models.TaskStatusDone
	task.CompletedAt = &completedAt

	if err := s.taskRepo.Update(task); err != nil {
		return nil, 0, fmt.Errorf("failed to complete task: %w", err)
	}

	points, err := s.scoreService.ScoreTask(task.ID, completedAt, "")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to score task: %w", err)
	}

	return task, points, nil
}

// isContributor reports whether the user is the owner or assigned to the task
func isContributor(task *models.Task, userID uint64) bool {
	if task.OwnerID == userID {
		return true
	}
	for _, assignment := range task.Assignments {
		if assignment.UserID == userID {
			return true
		}
	}
	return false
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
