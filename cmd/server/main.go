package main

import (
	"log"

	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/config"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/constants"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/database"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/handlers"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/middleware"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/repository"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/services"
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize repositories
	db := database.GetDB()
	taskRepo := repository.NewTaskRepository(db)
	scoreRepo := repository.NewScoreRepository(db)
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)

	// Initialize services
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}
	authService := services.NewAuthService(userRepo)
	scoreService := services.NewScoreService(cfg.Scoring, taskRepo, scoreRepo, userRepo, teamRepo)
	taskService := services.NewTaskService(taskRepo, scoreService)
	teamService := services.NewTeamService(teamRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService, aiService)
	teamHandler := handlers.NewTeamHandler(teamService)
	scoreHandler := handlers.NewScoreHandler(scoreService, aiService, cfg.Scoring)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task platform API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Team routes (protected)
		teams := api.Group("/teams")
		teams.Use(middleware.RequireAuth())
		{
			teams.POST("", teamHandler.CreateTeam)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.POST("/:id/join", teamHandler.JoinTeam)
			teams.POST("/leave", teamHandler.LeaveTeam)
			teams.GET("/:id/score", scoreHandler.GetTeamScore)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", middleware.RequireTaskAccess(), taskHandler.GetTask)
			tasks.PATCH("/:id", middleware.RequireTaskAccess(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskAccess(), taskHandler.DeleteTask)
			tasks.POST("/:id/assign", middleware.RequireTaskAccess(), taskHandler.AssignTask)
			tasks.POST("/:id/unassign", middleware.RequireTaskAccess(), taskHandler.UnassignTask)
			tasks.POST("/:id/start", middleware.RequireTaskAccess(), taskHandler.StartTask)
			tasks.POST("/:id/worklogs", middleware.RequireTaskAccess(), taskHandler.LogWork)
			tasks.POST("/:id/subtasks", middleware.RequireTaskAccess(), taskHandler.AddSubtask)
			tasks.PATCH("/:id/subtasks/:subtask_id", middleware.RequireTaskAccess(), taskHandler.ToggleSubtask)
			tasks.POST("/:id/complete", middleware.RequireTaskAccess(), taskHandler.CompleteTask)
		}

		// Score routes (protected)
		scores := api.Group("/scores")
		scores.Use(middleware.RequireAuth())
		{
			scores.GET("/me", scoreHandler.GetMyScore)
			scores.GET("/me/recent", scoreHandler.GetRecentScores)
			scores.GET("/me/summary", scoreHandler.SummarizeScores)
			scores.GET("/me/daily-limit", scoreHandler.GetDailyLimit)
			scores.GET("/users/:id", scoreHandler.GetUserScore)
			scores.GET("/leaderboard", scoreHandler.GetLeaderboard)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
