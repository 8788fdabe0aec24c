package repository

import (
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/models"
	"gorm.io/gorm"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a new team
func (r *GormTeamRepository) Create(team *models.Team) error {
	return r.db.Create(team).Error
}

// FindByID finds a team by ID with its members
func (r *GormTeamRepository) FindByID(id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.Preload("Members").First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindByIDs finds all teams matching the given IDs
func (r *GormTeamRepository) FindByIDs(ids []uint64) ([]models.Team, error) {
	if len(ids) == 0 {
		return []models.Team{}, nil
	}

	var teams []models.Team
	if err := r.db.Where("id IN ?", ids).Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}
