package dto

import (
	"time"

	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID      uint64  `json:"id"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Surname string  `json:"surname"`
	Avatar  string  `json:"avatar,omitempty"`
	TeamID  *uint64 `json:"team_id,omitempty"`
}

// TeamDTO represents a team in API responses
type TeamDTO struct {
	ID      uint64    `json:"id"`
	Name    string    `json:"name"`
	Color   string    `json:"color,omitempty"`
	Members []UserDTO `json:"members,omitempty"`
}

// TaskAssignmentDTO represents a task assignment in API responses
type TaskAssignmentDTO struct {
	User UserDTO `json:"user"`
}

// WorkLogDTO represents a work log entry in API responses
type WorkLogDTO struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Minutes   int       `json:"minutes"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SubtaskDTO represents a subtask in API responses
type SubtaskDTO struct {
	ID        uint64 `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID            uint64              `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Status        models.TaskStatus   `json:"status"`
	Difficulty    int                 `json:"difficulty"`
	Priority      models.TaskPriority `json:"priority"`
	Deadline      *time.Time          `json:"deadline"`
	QualityRating *int                `json:"quality_rating,omitempty"`
	StartedAt     *time.Time          `json:"started_at,omitempty"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	OwnerID       uint64              `json:"owner_id"`
	TeamID        *uint64             `json:"team_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Owner         *UserDTO            `json:"owner,omitempty"`
	Team          *TeamDTO            `json:"team,omitempty"`
	Assignments   []TaskAssignmentDTO `json:"assignments,omitempty"`
	WorkLogs      []WorkLogDTO        `json:"work_logs,omitempty"`
	Subtasks      []SubtaskDTO        `json:"subtasks,omitempty"`
}

// TaskListItemDTO represents a task in list responses (minimal data)
type TaskListItemDTO struct {
	ID         uint64              `json:"id"`
	Title      string              `json:"title"`
	Status     models.TaskStatus   `json:"status"`
	Difficulty int                 `json:"difficulty"`
	Priority   models.TaskPriority `json:"priority"`
	Deadline   *time.Time          `json:"deadline"`
	OwnerID    uint64              `json:"owner_id"`
	Owner      *UserDTO            `json:"owner,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskListItemDTO `json:"tasks"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalCount int64             `json:"total_count"`
	TotalPages int               `json:"total_pages"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Surname: user.Surname,
		Avatar:  user.Avatar,
		TeamID:  user.TeamID,
	}
}

// ToTeamDTO converts a Team model to TeamDTO
func ToTeamDTO(team models.Team, includeMembers bool) TeamDTO {
	dto := TeamDTO{
		ID:    team.ID,
		Name:  team.Name,
		Color: team.Color,
	}
	if includeMembers && len(team.Members) > 0 {
		dto.Members = make([]UserDTO, len(team.Members))
		for i, member := range team.Members {
			dto.Members[i] = ToUserDTO(member)
		}
	}
	return dto
}

// ToWorkLogDTO converts a WorkLog model to WorkLogDTO
func ToWorkLogDTO(log models.WorkLog) WorkLogDTO {
	return WorkLogDTO{
		ID:        log.ID,
		UserID:    log.UserID,
		Minutes:   log.Minutes,
		Note:      log.Note,
		CreatedAt: log.CreatedAt,
	}
}

// ToSubtaskDTO converts a Subtask model to SubtaskDTO
func ToSubtaskDTO(subtask models.Subtask) SubtaskDTO {
	return SubtaskDTO{
		ID:        subtask.ID,
		Title:     subtask.Title,
		Completed: subtask.Completed,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        task.Status,
		Difficulty:    task.Difficulty,
		Priority:      task.Priority,
		Deadline:      task.Deadline,
		QualityRating: task.QualityRating,
		StartedAt:     task.StartedAt,
		CompletedAt:   task.CompletedAt,
		OwnerID:       task.OwnerID,
		TeamID:        task.TeamID,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
	}

	// Include owner if preloaded
	if task.Owner.ID != 0 {
		owner := ToUserDTO(task.Owner)
		dto.Owner = &owner
	}

	// Include team if preloaded
	if task.Team != nil && task.Team.ID != 0 {
		team := ToTeamDTO(*task.Team, false)
		dto.Team = &team
	}

	// Include assignments if preloaded
	if len(task.Assignments) > 0 {
		dto.Assignments = make([]TaskAssignmentDTO, len(task.Assignments))
		for i, assignment := range task.Assignments {
			dto.Assignments[i] = TaskAssignmentDTO{
				User: ToUserDTO(assignment.User),
			}
		}
	}

	// Include work logs if preloaded
	if len(task.WorkLogs) > 0 {
		dto.WorkLogs = make([]WorkLogDTO, len(task.WorkLogs))
		for i, log := range task.WorkLogs {
			dto.WorkLogs[i] = ToWorkLogDTO(log)
		}
	}

	// Include subtasks if preloaded
	if len(task.Subtasks) > 0 {
		dto.Subtasks = make([]SubtaskDTO, len(task.Subtasks))
		for i, subtask := range task.Subtasks {
			dto.Subtasks[i] = ToSubtaskDTO(subtask)
		}
	}

	return dto
}

// ToTaskListItemDTO converts a Task model to TaskListItemDTO
func ToTaskListItemDTO(task models.Task) TaskListItemDTO {
	dto := TaskListItemDTO{
		ID:         task.ID,
		Title:      task.Title,
		Status:     task.Status,
		Difficulty: task.Difficulty,
		Priority:   task.Priority,
		Deadline:   task.Deadline,
		OwnerID:    task.OwnerID,
		CreatedAt:  task.CreatedAt,
	}

	// Include owner if preloaded
	if task.Owner.ID != 0 {
		owner := ToUserDTO(task.Owner)
		dto.Owner = &owner
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskListItemDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskListItemDTO(task)
	}

	totalPages := int(totalCount) / pageSize
	if int(totalCount)%pageSize > 0 {
		totalPages++
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
