package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/constants"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/database"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/dto"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/models"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/repository"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/scoring"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	handler     *TaskHandler
	taskService *services.TaskService
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Task{},
		&models.TaskAssignment{},
		&models.WorkLog{},
		&models.Subtask{},
		&models.Score{},
		&models.TeamScore{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	scoreRepo := repository.NewScoreRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	teamRepo := repository.NewTeamRepository(suite.db)

	scoreService := services.NewScoreService(scoring.DefaultConfig(), taskRepo, scoreRepo, userRepo, teamRepo)
	suite.taskService = services.NewTaskService(taskRepo, scoreService)

	// Create handler (without AI service for tests)
	suite.handler = NewTaskHandler(suite.taskService, nil)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *TaskHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, ownerID uint64) *models.Task {
	task, err := suite.taskService.CreateTask(services.CreateTaskInput{
		Title:   title,
		OwnerID: ownerID,
	})
	suite.Require().NoError(err)
	return task
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

// Helper function to set task context (simulates RequireTaskAccess middleware)
func (suite *TaskHandlerTestSuite) setTaskContext(c *gin.Context, task models.Task) {
	c.Set(constants.ContextKeyTask, task)
}

// TestListTasks_Success tests successful task listing
func (suite *TaskHandlerTestSuite) TestListTasks_Success() {
	user := suite.createTestUser("test@example.com")
	task := suite.createTestTask("Test Task", user.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user.ID)
	c.Request.URL.RawQuery = "owned=true"

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskListResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), response.TotalCount)
	assert.Len(suite.T(), response.Tasks, 1)
	assert.Equal(suite.T(), task.Title, response.Tasks[0].Title)
}

// TestListTasks_Unauthorized tests listing without authentication
func (suite *TaskHandlerTestSuite) TestListTasks_Unauthorized() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/tasks", nil)
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestGetTask_Success tests successful task retrieval
func (suite *TaskHandlerTestSuite) TestGetTask_Success() {
	user := suite.createTestUser("test@example.com")
	task := suite.createTestTask("Test Task", user.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), task.ID, response.ID)
	assert.Equal(suite.T(), task.Title, response.Title)
}

// TestGetTask_NotFoundInContext tests when task is not in context
func (suite *TaskHandlerTestSuite) TestGetTask_NotFoundInContext() {
	user := suite.createTestUser("test@example.com")
	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, user.ID)

	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusInternalServerError, w.Code)
}

// TestCreateTask_Success tests successful task creation
func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	user := suite.createTestUser("test@example.com")

	requestBody := map[string]interface{}{
		"title":       "New Task",
		"description": "Task Description",
		"difficulty":  4,
		"priority":    "high",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "New Task", response.Title)
	assert.Equal(suite.T(), 4, response.Difficulty)
	assert.Equal(suite.T(), models.TaskPriorityHigh, response.Priority)
	assert.Equal(suite.T(), user.ID, response.OwnerID)
}

// TestCreateTask_InvalidRequest tests task creation with invalid request
func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidRequest() {
	user := suite.createTestUser("test@example.com")

	// Missing required field: title
	requestBody := map[string]interface{}{
		"description": "no title",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateTask_InvalidDifficulty tests task creation with an out-of-range difficulty
func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidDifficulty() {
	user := suite.createTestUser("test@example.com")

	requestBody := map[string]interface{}{
		"title":      "New Task",
		"difficulty": 9,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCompleteTask_Success tests that completing a task awards points
func (suite *TaskHandlerTestSuite) TestCompleteTask_Success() {
	user := suite.createTestUser("test@example.com")
	task := suite.createTestTask("Finish me", user.ID)

	requestBody := map[string]interface{}{
		"quality_rating": 5,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks/1/complete", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.CompleteTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Task   dto.TaskDTO `json:"task"`
		Points float64     `json:"points"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.TaskStatusDone, response.Task.Status)
	assert.InDelta(suite.T(), 140.0, response.Points, 1e-9)

	var scoreCount int64
	suite.db.Model(&models.Score{}).Count(&scoreCount)
	assert.Equal(suite.T(), int64(1), scoreCount)
}

// TestCompleteTask_AlreadyCompleted tests repeated completion
func (suite *TaskHandlerTestSuite) TestCompleteTask_AlreadyCompleted() {
	user := suite.createTestUser("test@example.com")
	task := suite.createTestTask("Finish me", user.ID)

	_, _, err := suite.taskService.CompleteTask(task.ID, user.ID, services.CompleteTaskInput{})
	suite.Require().NoError(err)

	body, _ := json.Marshal(map[string]interface{}{})
	c, w := suite.createAuthContext("POST", "/api/tasks/1/complete", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.CompleteTask(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	var scoreCount int64
	suite.db.Model(&models.Score{}).Count(&scoreCount)
	assert.Equal(suite.T(), int64(1), scoreCount)
}

// TestLogWork_Success tests logging work on a task
func (suite *TaskHandlerTestSuite) TestLogWork_Success() {
	user := suite.createTestUser("test@example.com")
	task := suite.createTestTask("Work on me", user.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"minutes": 90,
		"note":    "first session",
	})
	c, w := suite.createAuthContext("POST", "/api/tasks/1/worklogs", body, user.ID)
	suite.setTaskContext(c, *task)

	suite.handler.LogWork(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.WorkLogDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 90, response.Minutes)
}

// TestAssignTask_NotOwner tests assigning as a non-owner
func (suite *TaskHandlerTestSuite) TestAssignTask_NotOwner() {
	owner := suite.createTestUser("owner@example.com")
	other := suite.createTestUser("other@example.com")
	task := suite.createTestTask("Owned task", owner.ID)

	body, _ := json.Marshal(map[string]interface{}{
		"user_ids": []uint64{other.ID},
	})
	c, w := suite.createAuthContext("POST", "/api/tasks/1/assign", body, other.ID)
	suite.setTaskContext(c, *task)

	suite.handler.AssignTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
