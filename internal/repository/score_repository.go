package repository

import (
	"time"

	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormScoreRepository is a GORM implementation of ScoreRepository
type GormScoreRepository struct {
	db *gorm.DB
}

// NewScoreRepository creates a new ScoreRepository
func NewScoreRepository(db *gorm.DB) ScoreRepository {
	return &GormScoreRepository{db: db}
}

// RecordScoringEvent persists every record of one scoring event atomically.
// Inserts are keyed on (task_id, recipient, event_id); rows that already
// exist are left untouched, so replaying the same completion event never
// duplicates an award and never partially overwrites one.
func (r *GormScoreRepository) RecordScoringEvent(scores []models.Score, teamScore *models.TeamScore) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(scores) > 0 {
			if err := tx.
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(&scores).Error; err != nil {
				return err
			}
		}

		if teamScore != nil {
			if err := tx.
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(teamScore).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// SumForUser sums a user's points, optionally within one period bucket
func (r *GormScoreRepository) SumForUser(userID uint64, period string) (float64, error) {
	query := r.db.Model(&models.Score{}).Where("user_id = ?", userID)
	if period != "" {
		query = query.Where("period = ?", period)
	}

	var total float64
	err := query.Select("COALESCE(SUM(points), 0)").Scan(&total).Error
	return total, err
}

// SumForTeam sums a team's points, optionally within one period bucket
func (r *GormScoreRepository) SumForTeam(teamID uint64, period string) (float64, error) {
	query := r.db.Model(&models.TeamScore{}).Where("team_id = ?", teamID)
	if period != "" {
		query = query.Where("period = ?", period)
	}

	var total float64
	err := query.Select("COALESCE(SUM(points), 0)").Scan(&total).Error
	return total, err
}

// SumForUserSince sums a user's points awarded at or after the given time
func (r *GormScoreRepository) SumForUserSince(userID uint64, since time.Time) (float64, error) {
	var total float64
	err := r.db.Model(&models.Score{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	return total, err
}

// TopUsers returns per-user point totals, highest first
func (r *GormScoreRepository) TopUsers(period string, limit int) ([]RecipientTotal, error) {
	query := r.db.Model(&models.Score{})
	if period != "" {
		query = query.Where("period = ?", period)
	}

	var totals []RecipientTotal
	err := query.
		Select("user_id AS recipient_id, SUM(points) AS points").
		Group("user_id").
		Order("points DESC").
		Limit(limit).
		Scan(&totals).Error
	return totals, err
}

// TopTeams returns per-team point totals, highest first
func (r *GormScoreRepository) TopTeams(period string, limit int) ([]RecipientTotal, error) {
	query := r.db.Model(&models.TeamScore{})
	if period != "" {
		query = query.Where("period = ?", period)
	}

	var totals []RecipientTotal
	err := query.
		Select("team_id AS recipient_id, SUM(points) AS points").
		Group("team_id").
		Order("points DESC").
		Limit(limit).
		Scan(&totals).Error
	return totals, err
}

// ListForUser returns a user's most recent score records
func (r *GormScoreRepository) ListForUser(userID uint64, limit int) ([]models.Score, error) {
	var scores []models.Score
	err := r.db.
		Preload("Task").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&scores).Error
	return scores, err
}
