package middleware

import (
	"strconv"

	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/constants"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/database"
	apierrors "github.com/NicolasMainieri/Task-manager-platform-sub002/internal/errors"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireTaskAccess checks if the user has access to a task.
// Access is granted to the owner, any assigned user, and any member of the
// task's team.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get task ID from URL parameter
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		// Get current user ID
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Check if task exists and load relations
		var task models.Task
		if err := database.GetDB().
			Preload("Owner").
			Preload("Team").
			Preload("Assignments").
			Preload("Assignments.User").
			Preload("WorkLogs").
			Preload("Subtasks").
			First(&task, taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		if !userCanAccessTask(&task, userID) {
			// Return 404 instead of 403 to avoid leaking task existence
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task stored in context by RequireTaskAccess
func GetTask(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}

	task, ok := value.(models.Task)
	return task, ok
}

func userCanAccessTask(task *models.Task, userID uint64) bool {
	if task.OwnerID == userID {
		return true
	}
	for _, assignment := range task.Assignments {
		if assignment.UserID == userID {
			return true
		}
	}
	if task.TeamID != nil {
		var count int64
		database.GetDB().Model(&models.User{}).
			Where("id = ? AND team_id = ?", userID, *task.TeamID).
			Count(&count)
		return count > 0
	}
	return false
}
