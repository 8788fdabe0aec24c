package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/models"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTeamNameRequired = errors.New("team name is required")
	ErrTeamNotFound     = errors.New("team not found")
	ErrAlreadyInTeam    = errors.New("user already belongs to a team")
	ErrNotInTeam        = errors.New("user does not belong to a team")
)

// TeamService handles team membership business logic.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// CreateTeamInput represents input for creating a team.
type CreateTeamInput struct {
	Name      string
	Color     string
	CreatorID uint64
}

// CreateTeam creates a team and moves the creator into it. The creator must
// not already belong to a team.
func (s *TeamService) CreateTeam(input CreateTeamInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	creator, err := s.userRepo.FindByID(input.CreatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if creator.TeamID != nil {
		return nil, ErrAlreadyInTeam
	}

	team := &models.Team{
		Name:  name,
		Color: input.Color,
	}
	if err := s.teamRepo.Create(team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	creator.TeamID = &team.ID
	if err := s.userRepo.Update(creator); err != nil {
		return nil, fmt.Errorf("failed to add creator to team: %w", err)
	}

	return s.GetTeam(team.ID)
}

// GetTeam retrieves a team with its members.
func (s *TeamService) GetTeam(teamID uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	return team, nil
}

// JoinTeam moves a user into a team. Users belong to at most one team.
func (s *TeamService) JoinTeam(teamID, userID uint64) error {
	if _, err := s.teamRepo.FindByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to find team: %w", err)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user.TeamID != nil {
		return ErrAlreadyInTeam
	}

	user.TeamID = &teamID
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to join team: %w", err)
	}

	return nil
}

// LeaveTeam removes a user from their current team.
func (s *TeamService) LeaveTeam(userID uint64) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user.TeamID == nil {
		return ErrNotInTeam
	}

	user.TeamID = nil
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to leave team: %w", err)
	}

	return nil
}
