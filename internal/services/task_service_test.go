package services

import (
	"testing"
	"time"

	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/models"
	"github.com/stretchr/testify/require"
)

func TestTaskService_CreateTask(t *testing.T) {
	env := setupScoreTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")

	task, err := env.taskService.CreateTask(CreateTaskInput{
		Title:   "Draft proposal",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusTodo, task.Status)
	require.Equal(t, 3, task.Difficulty, "difficulty defaults to 3")
	require.Equal(t, models.TaskPriorityMedium, task.Priority, "priority defaults to medium")
	require.Len(t, task.Assignments, 1, "owner is assigned on creation")
	require.Equal(t, owner.ID, task.Assignments[0].UserID)
}

func TestTaskService_CreateTaskValidation(t *testing.T) {
	env := setupScoreTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")

	_, err := env.taskService.CreateTask(CreateTaskInput{OwnerID: owner.ID})
	require.ErrorIs(t, err, ErrTitleRequired)

	_, err = env.taskService.CreateTask(CreateTaskInput{
		Title:      "x",
		Difficulty: 6,
		OwnerID:    owner.ID,
	})
	require.ErrorIs(t, err, ErrInvalidDifficulty)

	_, err = env.taskService.CreateTask(CreateTaskInput{
		Title:    "x",
		Priority: "urgent",
		OwnerID:  owner.ID,
	})
	require.ErrorIs(t, err, ErrInvalidPriority)
}

func TestTaskService_CompleteTaskScoresOnce(t *testing.T) {
	env := setupScoreTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")

	task, err := env.taskService.CreateTask(CreateTaskInput{
		Title:   "Quarterly report",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	quality := 5
	updated, points, err := env.taskService.CompleteTask(task.ID, owner.ID, CompleteTaskInput{
		QualityRating: &quality,
	})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusDone, updated.Status)
	require.NotNil(t, updated.CompletedAt)
	require.InDelta(t, 140.0, points, 1e-9, "difficulty 3, medium, quality 5: 100*1.0*1.0*1.4")

	var count int64
	require.NoError(t, env.db.Model(&models.Score{}).Count(&count).Error)
	require.Equal(t, int64(1), count)

	// Completing an already-done task must not score again.
	_, _, err = env.taskService.CompleteTask(task.ID, owner.ID, CompleteTaskInput{})
	require.ErrorIs(t, err, ErrTaskAlreadyCompleted)

	require.NoError(t, env.db.Model(&models.Score{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestTaskService_CompleteTaskBackdated(t *testing.T) {
	env := setupScoreTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")

	deadline := time.Now().Add(24 * time.Hour)
	task, err := env.taskService.CreateTask(CreateTaskInput{
		Title:    "Pay invoice",
		Deadline: &deadline,
		OwnerID:  owner.ID,
	})
	require.NoError(t, err)

	// Completed well before the deadline: early-completion bonus applies.
	completedAt := time.Now().Add(-8 * 24 * time.Hour)
	_, points, err := env.taskService.CompleteTask(task.ID, owner.ID, CompleteTaskInput{
		CompletedAt: completedAt,
	})
	require.NoError(t, err)
	require.InDelta(t, 120.0, points, 1e-9)
}

func TestTaskService_CompleteTaskPermission(t *testing.T) {
	env := setupScoreTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")
	stranger := createTestUser(t, env.db, "stranger@example.com")

	task, err := env.taskService.CreateTask(CreateTaskInput{
		Title:   "Private task",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	_, _, err = env.taskService.CompleteTask(task.ID, stranger.ID, CompleteTaskInput{})
	require.ErrorIs(t, err, ErrTaskPermissionDenied)

	badQuality := 6
	_, _, err = env.taskService.CompleteTask(task.ID, owner.ID, CompleteTaskInput{
		QualityRating: &badQuality,
	})
	require.ErrorIs(t, err, ErrInvalidQualityRating)
}

func TestTaskService_StartTask(t *testing.T) {
	env := setupScoreTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")

	task, err := env.taskService.CreateTask(CreateTaskInput{
		Title:   "Research",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	started, err := env.taskService.StartTask(task.ID, owner.ID)
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusInProgress, started.Status)
	require.NotNil(t, started.StartedAt)

	firstStart := *started.StartedAt

	// Restarting keeps the original start timestamp.
	started, err = env.taskService.StartTask(task.ID, owner.ID)
	require.NoError(t, err)
	require.WithinDuration(t, firstStart, *started.StartedAt, time.Second)
}

func TestTaskService_LogWork(t *testing.T) {
	env := setupScoreTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")
	stranger := createTestUser(t, env.db, "stranger@example.com")

	task, err := env.taskService.CreateTask(CreateTaskInput{
		Title:   "Refactor",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	log, err := env.taskService.LogWork(task.ID, owner.ID, 45, "initial pass")
	require.NoError(t, err)
	require.Equal(t, 45, log.Minutes)

	_, err = env.taskService.LogWork(task.ID, owner.ID, 0, "")
	require.ErrorIs(t, err, ErrInvalidMinutes)

	_, err = env.taskService.LogWork(task.ID, stranger.ID, 30, "")
	require.ErrorIs(t, err, ErrTaskPermissionDenied)
}

func TestTaskService_AssignUsers(t *testing.T) {
	env := setupScoreTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")
	alice := createTestUser(t, env.db, "alice@example.com")

	task, err := env.taskService.CreateTask(CreateTaskInput{
		Title:   "Pair task",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.taskService.AssignUsers(task.ID, owner.ID, []uint64{alice.ID}))

	loaded, err := env.taskService.GetTask(task.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Assignments, 2)

	err = env.taskService.AssignUsers(task.ID, alice.ID, []uint64{alice.ID})
	require.ErrorIs(t, err, ErrNotTaskOwner)

	err = env.taskService.AssignUsers(task.ID, owner.ID, []uint64{999})
	require.ErrorIs(t, err, ErrInvalidTaskAssignee)

	err = env.taskService.AssignUsers(task.ID, owner.ID, nil)
	require.ErrorIs(t, err, ErrNoUserIDsProvided)
}

func TestTaskService_Subtasks(t *testing.T) {
	env := setupScoreTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")

	task, err := env.taskService.CreateTask(CreateTaskInput{
		Title:   "Checklist",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	subtask, err := env.taskService.AddSubtask(task.ID, owner.ID, "step one")
	require.NoError(t, err)
	require.False(t, subtask.Completed)

	require.NoError(t, env.taskService.SetSubtaskCompleted(task.ID, subtask.ID, owner.ID, true))

	loaded, err := env.taskService.GetTask(task.ID)
	require.NoError(t, err)
	total, completed := loaded.SubtaskProgress()
	require.Equal(t, 1, total)
	require.Equal(t, 1, completed)

	err = env.taskService.SetSubtaskCompleted(task.ID, 999, owner.ID, true)
	require.ErrorIs(t, err, ErrSubtaskNotFound)
}

func TestTaskService_DeleteTask(t *testing.T) {
	env := setupScoreTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")
	stranger := createTestUser(t, env.db, "stranger@example.com")

	task, err := env.taskService.CreateTask(CreateTaskInput{
		Title:   "Disposable",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)

	err = env.taskService.DeleteTask(task.ID, stranger.ID)
	require.ErrorIs(t, err, ErrNotTaskOwner)

	require.NoError(t, env.taskService.DeleteTask(task.ID, owner.ID))

	_, err = env.taskService.GetTask(task.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskService_ListTasks(t *testing.T) {
	env := setupScoreTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")
	other := createTestUser(t, env.db, "other@example.com")

	for _, title := range []string{"one", "two"} {
		_, err := env.taskService.CreateTask(CreateTaskInput{Title: title, OwnerID: owner.ID})
		require.NoError(t, err)
	}
	_, err := env.taskService.CreateTask(CreateTaskInput{Title: "three", OwnerID: other.ID})
	require.NoError(t, err)

	tasks, total, err := env.taskService.ListTasks(ListTasksInput{
		UserID:    owner.ID,
		OwnedOnly: true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, tasks, 2)

	tasks, total, err = env.taskService.ListTasks(ListTasksInput{
		UserID:       other.ID,
		AssignedToMe: true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, tasks, 1)
	require.Equal(t, "three", tasks[0].Title)
}
