package dto

import (
	"time"

	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/models"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/services"
)

// ScoreDTO represents one point award in API responses
type ScoreDTO struct {
	ID        uint64                `json:"id"`
	TaskID    uint64                `json:"task_id"`
	Points    float64               `json:"points"`
	Breakdown models.ScoreBreakdown `json:"breakdown"`
	Period    string                `json:"period"`
	CreatedAt time.Time             `json:"created_at"`
	TaskTitle string                `json:"task_title,omitempty"`
}

// ScoreTotalResponse represents an aggregated score total
type ScoreTotalResponse struct {
	Points float64 `json:"points"`
	Period string  `json:"period,omitempty"`
}

// DailyLimitResponse reports whether more points can be earned today
type DailyLimitResponse struct {
	UnderLimit bool    `json:"under_limit"`
	MaxDaily   float64 `json:"max_daily"`
}

// LeaderboardEntryDTO represents one ranked leaderboard row
type LeaderboardEntryDTO struct {
	Position int      `json:"position"`
	Points   float64  `json:"points"`
	User     *UserDTO `json:"user,omitempty"`
	Team     *TeamDTO `json:"team,omitempty"`
}

// LeaderboardResponse represents a ranked leaderboard
type LeaderboardResponse struct {
	Scope   services.LeaderboardScope `json:"scope"`
	Period  string                    `json:"period,omitempty"`
	Entries []LeaderboardEntryDTO     `json:"entries"`
}

// ScoreSummaryResponse carries an AI generated performance summary
type ScoreSummaryResponse struct {
	Summary string `json:"summary"`
}

// ToScoreDTO converts a Score model to ScoreDTO
func ToScoreDTO(score models.Score) ScoreDTO {
	dto := ScoreDTO{
		ID:        score.ID,
		TaskID:    score.TaskID,
		Points:    score.Points,
		Breakdown: score.Breakdown,
		Period:    score.Period,
		CreatedAt: score.CreatedAt,
	}
	if score.Task.ID != 0 {
		dto.TaskTitle = score.Task.Title
	}
	return dto
}

// ToLeaderboardResponse converts ranked entries to LeaderboardResponse
func ToLeaderboardResponse(scope services.LeaderboardScope, period string, entries []services.LeaderboardEntry) LeaderboardResponse {
	rows := make([]LeaderboardEntryDTO, len(entries))
	for i, entry := range entries {
		rows[i] = LeaderboardEntryDTO{
			Position: entry.Position,
			Points:   entry.Points,
		}
		if entry.User != nil {
			user := ToUserDTO(*entry.User)
			rows[i].User = &user
		}
		if entry.Team != nil {
			team := ToTeamDTO(*entry.Team, false)
			rows[i].Team = &team
		}
	}

	return LeaderboardResponse{
		Scope:   scope,
		Period:  period,
		Entries: rows,
	}
}
