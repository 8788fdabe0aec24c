package models

import (
	"time"

	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/scoring"
)

// BreakdownKind discriminates how a score record was earned.
type BreakdownKind string

const (
	// BreakdownKindDirect marks points computed directly from a completed
	// task.
	BreakdownKindDirect BreakdownKind = "direct"
	// BreakdownKindTeam marks points received as a share of a team
	// distribution.
	BreakdownKindTeam BreakdownKind = "team"
)

// ScoreBreakdown is the audit payload stored next to every score record.
// Exactly one of Direct and Team is set, matching Kind.
type ScoreBreakdown struct {
	Kind   BreakdownKind            `json:"kind"`
	Direct *scoring.DirectBreakdown `json:"direct,omitempty"`
	Team   *TeamShareBreakdown      `json:"team,omitempty"`
}

// TeamShareBreakdown records how one contributor's slice of a team score was
// derived.
type TeamShareBreakdown struct {
	TeamTotal float64 `json:"team_total"`
	Minutes   int     `json:"minutes"`
	// Share is the fraction of the team total this contributor received.
	Share float64 `json:"share"`
}

// DirectScoreBreakdown wraps a calculator breakdown as an audit payload.
func DirectScoreBreakdown(b scoring.DirectBreakdown) ScoreBreakdown {
	return ScoreBreakdown{Kind: BreakdownKindDirect, Direct: &b}
}

// TeamScoreBreakdown wraps a distribution share as an audit payload.
func TeamScoreBreakdown(teamTotal float64, share scoring.ContributorShare) ScoreBreakdown {
	fraction := 0.0
	if teamTotal > 0 {
		fraction = share.Points / teamTotal
	}
	return ScoreBreakdown{
		Kind: BreakdownKindTeam,
		Team: &TeamShareBreakdown{
			TeamTotal: teamTotal,
			Minutes:   share.Minutes,
			Share:     fraction,
		},
	}
}

// Score is an immutable per-user, per-task point award. The unique index on
// (task_id, user_id, event_id) makes re-scoring the same completion event an
// idempotent no-op.
type Score struct {
	ID uint64 `gorm:"primarykey" json:"id"`
	UserID  uint64 `gorm:"not null;index;uniqueIndex:idx_scores_task_user_event,priority:2" json:"user_id"`
	TaskID  uint64 `gorm:"not null;uniqueIndex:idx_scores_task_user_event,priority:1" json:"task_id"`
	EventID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_scores_task_user_event,priority:3" json:"event_id"`
	Points    float64        `gorm:"not null" json:"points"`
	Breakdown ScoreBreakdown `gorm:"serializer:json;type:text" json:"breakdown"`
	// Period is the YYYY-MM bucket the award belongs to.
	Period    string    `gorm:"type:varchar(7);not null;index" json:"period"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}

// TeamScore is an immutable per-team, per-task aggregate award, created at
// most once per scoring event.
type TeamScore struct {
	ID      uint64 `gorm:"primarykey" json:"id"`
	TeamID  uint64 `gorm:"not null;index;uniqueIndex:idx_team_scores_task_event,priority:2" json:"team_id"`
	TaskID  uint64 `gorm:"not null;uniqueIndex:idx_team_scores_task_event,priority:1" json:"task_id"`
	EventID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_team_scores_task_event,priority:3" json:"event_id"`
	Points       float64              `gorm:"not null" json:"points"`
	Distribution scoring.Distribution `gorm:"serializer:json;type:text" json:"distribution"`
	Period       string               `gorm:"type:varchar(7);not null;index" json:"period"`
	CreatedAt    time.Time            `gorm:"index" json:"created_at"`

	// Relations
	Team Team `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
}
