package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/constants"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/dto"
	apierrors "github.com/NicolasMainieri/Task-manager-platform-sub002/internal/errors"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/middleware"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/scoring"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/services"
	"github.com/gin-gonic/gin"
)

// ScoreHandler coordinates score and leaderboard HTTP handlers.
type ScoreHandler struct {
	scoreService *services.ScoreService
	aiService    *services.AIService
	scoringCfg   scoring.Config
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(scoreService *services.ScoreService, aiService *services.AIService, scoringCfg scoring.Config) *ScoreHandler {
	return &ScoreHandler{
		scoreService: scoreService,
		aiService:    aiService,
		scoringCfg:   scoringCfg,
	}
}

// GetMyScore returns the current user's point total, optionally filtered by
// the period query parameter (YYYY-MM).
func (h *ScoreHandler) GetMyScore(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	period := c.Query("period")
	total, err := h.scoreService.UserScore(userID, period)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch score")
		return
	}

	c.JSON(http.StatusOK, dto.ScoreTotalResponse{
		Points: total,
		Period: period,
	})
}

// GetUserScore returns another user's point total.
func (h *ScoreHandler) GetUserScore(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	period := c.Query("period")
	total, err := h.scoreService.UserScore(userID, period)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch score")
		return
	}

	c.JSON(http.StatusOK, dto.ScoreTotalResponse{
		Points: total,
		Period: period,
	})
}

// GetTeamScore returns a team's point total.
func (h *ScoreHandler) GetTeamScore(c *gin.Context) {
	teamID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid team ID")
		return
	}

	period := c.Query("period")
	total, err := h.scoreService.TeamScore(teamID, period)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch team score")
		return
	}

	c.JSON(http.StatusOK, dto.ScoreTotalResponse{
		Points: total,
		Period: period,
	})
}

// GetLeaderboard returns a ranked leaderboard. The scope query parameter
// selects user (default) or team ranking; period and limit are optional.
func (h *ScoreHandler) GetLeaderboard(c *gin.Context) {
	scope := services.LeaderboardScope(c.DefaultQuery("scope", string(services.LeaderboardScopeUser)))
	period := c.Query("period")

	limit := constants.DefaultLeaderboardLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			apierrors.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.scoreService.Leaderboard(scope, period, limit)
	if err != nil {
		if errors.Is(err, services.ErrInvalidLeaderboardScope) {
			apierrors.BadRequest(c, err.Error())
			return
		}
		apierrors.InternalError(c, "Failed to build leaderboard")
		return
	}

	c.JSON(http.StatusOK, dto.ToLeaderboardResponse(scope, period, entries))
}

// GetDailyLimit reports whether the current user can still earn points today.
func (h *ScoreHandler) GetDailyLimit(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	under, err := h.scoreService.IsUnderDailyLimit(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to check daily limit")
		return
	}

	c.JSON(http.StatusOK, dto.DailyLimitResponse{
		UnderLimit: under,
		MaxDaily:   h.scoringCfg.MaxDailyScore,
	})
}

// GetRecentScores returns the current user's most recent awards.
func (h *ScoreHandler) GetRecentScores(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	limit := constants.DefaultPageSize
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 || parsed > constants.MaxPageSize {
			apierrors.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	scores, err := h.scoreService.RecentScores(userID, limit)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch scores")
		return
	}

	items := make([]dto.ScoreDTO, len(scores))
	for i, score := range scores {
		items[i] = dto.ToScoreDTO(score)
	}

	c.JSON(http.StatusOK, gin.H{
		"scores": items,
	})
}

// SummarizeScores returns an AI generated summary of the current user's
// recent performance.
func (h *ScoreHandler) SummarizeScores(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "AI service is not configured. Please set OPENAI_API_KEY environment variable.")
		return
	}

	scores, err := h.scoreService.RecentScores(userID, constants.DefaultPageSize)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch scores")
		return
	}

	summary, err := h.aiService.SummarizeScores(context.Background(), scores)
	if err != nil {
		apierrors.InternalError(c, fmt.Sprintf("Failed to summarize scores: %v", err))
		return
	}

	c.JSON(http.StatusOK, dto.ScoreSummaryResponse{
		Summary: summary,
	})
}
