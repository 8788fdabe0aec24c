package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/models"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/repository"
	"github.com/NicolasMainieri/Task-manager-platform-sub002/internal/scoring"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound            = errors.New("task not found")
	ErrInvalidLeaderboardScope = errors.New("leaderboard scope must be user or team")
)

// LeaderboardScope selects whether a leaderboard ranks users or teams.
type LeaderboardScope string

const (
	LeaderboardScopeUser LeaderboardScope = "user"
	LeaderboardScopeTeam LeaderboardScope = "team"
)

// LeaderboardEntry is one ranked row of a leaderboard. User is set for the
// user scope, Team for the team scope.
type LeaderboardEntry struct {
	Position int
	Points   float64
	User     *models.User
	Team     *models.Team
}

// ScoreService implements the scoring engine's read/compute/write cycle and
// the aggregate queries built on top of the recorded awards.
type ScoreService struct {
	cfg       scoring.Config
	taskRepo  repository.TaskRepository
	scoreRepo repository.ScoreRepository
	userRepo  repository.UserRepository
	teamRepo  repository.TeamRepository
}

// NewScoreService creates a new ScoreService.
func NewScoreService(
	cfg scoring.Config,
	taskRepo repository.TaskRepository,
	scoreRepo repository.ScoreRepository,
	userRepo repository.UserRepository,
	teamRepo repository.TeamRepository,
) *ScoreService {
	return &ScoreService{
		cfg:       cfg,
		taskRepo:  taskRepo,
		scoreRepo: scoreRepo,
		userRepo:  userRepo,
		teamRepo:  teamRepo,
	}
}

// CurrentPeriod formats a time as the YYYY-MM period bucket awards are
// grouped under.
func CurrentPeriod(t time.Time) string {
	return t.Format("2006-01")
}

// ScoreTask converts one task completion into persisted score records.
//
// The owner always receives a direct award for the computed value. When the
// task has more than one contributor the value is additionally distributed
// across the team: every non-owner contributor receives a team-derived award
// and, if the task belongs to a team, one team score record is written. All
// records of the event are persisted in a single transaction and keyed on
// eventID, so replaying the same event writes nothing new. An empty eventID
// is replaced with a fresh one.
//
// The period bucket comes from the wall clock at scoring time, not from
// completedAt, so back-dated completions land in the current period.
func (s *ScoreService) ScoreTask(taskID uint64, completedAt time.Time, eventID string) (float64, error) {
	task, err := s.taskRepo.FindByID(taskID, "Assignments", "WorkLogs", "Subtasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrTaskNotFound
		}
		return 0, fmt.Errorf("failed to find task: %w", err)
	}

	if eventID == "" {
		eventID = uuid.NewString()
	}

	subtasksTotal, subtasksCompleted := task.SubtaskProgress()
	breakdown := s.cfg.ComputeTaskScore(scoring.TaskInput{
		Difficulty:        task.Difficulty,
		Priority:          string(task.Priority),
		Deadline:          task.Deadline,
		QualityRating:     task.QualityRating,
		StartedAt:         task.StartedAt,
		SubtasksTotal:     subtasksTotal,
		SubtasksCompleted: subtasksCompleted,
		WorkMinutes:       task.TotalWorkMinutes(),
	}, completedAt)

	period := CurrentPeriod(time.Now())

	scores := []models.Score{{
		UserID:    task.OwnerID,
		TaskID:    task.ID,
		EventID:   eventID,
		Points:    breakdown.FinalScore,
		Breakdown: models.DirectScoreBreakdown(breakdown),
		Period:    period,
	}}

	var teamScore *models.TeamScore

	contributors := task.ContributorIDs()
	if len(contributors) > 1 {
		dist := s.cfg.DistributeTeamScore(task.OwnerID, contributors, task.WorkMinutesByUser(), breakdown.FinalScore)

		for _, share := range dist.Shares {
			if share.UserID == task.OwnerID {
				continue
			}
			scores = append(scores, models.Score{
				UserID:    share.UserID,
				TaskID:    task.ID,
				EventID:   eventID,
				Points:    share.Points,
				Breakdown: models.TeamScoreBreakdown(dist.TeamTotal, share),
				Period:    period,
			})
		}

		if task.TeamID != nil {
			teamScore = &models.TeamScore{
				TeamID:       *task.TeamID,
				TaskID:       task.ID,
				EventID:      eventID,
				Points:       dist.TeamTotal,
				Distribution: dist,
				Period:       period,
			}
		}
	}

	if err := s.scoreRepo.RecordScoringEvent(scores, teamScore); err != nil {
		return 0, fmt.Errorf("failed to record scoring event: %w", err)
	}

	return breakdown.FinalScore, nil
}

// UserScore sums a user's points, optionally within one period bucket.
// A user without records scores zero.
func (s *ScoreService) UserScore(userID uint64, period string) (float64, error) {
	total, err := s.scoreRepo.SumForUser(userID, period)
	if err != nil {
		return 0, fmt.Errorf("failed to sum user score: %w", err)
	}
	return total, nil
}

// TeamScore sums a team's points, optionally within one period bucket.
func (s *ScoreService) TeamScore(teamID uint64, period string) (float64, error) {
	total, err := s.scoreRepo.SumForTeam(teamID, period)
	if err != nil {
		return 0, fmt.Errorf("failed to sum team score: %w", err)
	}
	return total, nil
}

// Leaderboard ranks users or teams by summed points, highest first, and
// joins in the display attributes of each ranked recipient. Limit values
// below one fall back to the default of 10.
func (s *ScoreService) Leaderboard(scope LeaderboardScope, period string, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 {
		limit = 10
	}

	switch scope {
	case LeaderboardScopeUser:
		totals, err := s.scoreRepo.TopUsers(period, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to rank users: %w", err)
		}
		return s.joinUserEntries(totals)
	case LeaderboardScopeTeam:
		totals, err := s.scoreRepo.TopTeams(period, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to rank teams: %w", err)
		}
		return s.joinTeamEntries(totals)
	default:
		return nil, ErrInvalidLeaderboardScope
	}
}

// IsUnderDailyLimit reports whether the points a user earned since the start
// of the current local day are strictly below the configured daily maximum.
// The check is advisory: ScoreTask never consults it, callers decide whether
// to gate further scoring on it.
func (s *ScoreService) IsUnderDailyLimit(userID uint64) (bool, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	total, err := s.scoreRepo.SumForUserSince(userID, startOfDay)
	if err != nil {
		return false, fmt.Errorf("failed to sum today's score: %w", err)
	}

	return total < s.cfg.MaxDailyScore, nil
}

// RecentScores returns a user's most recent awards with their breakdowns.
func (s *ScoreService) RecentScores(userID uint64, limit int) ([]models.Score, error) {
	scores, err := s.scoreRepo.ListForUser(userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	return scores, nil
}

func (s *ScoreService) joinUserEntries(totals []repository.RecipientTotal) ([]LeaderboardEntry, error) {
	ids := make([]uint64, 0, len(totals))
	for _, t := range totals {
		ids = append(ids, t.RecipientID)
	}

	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranked users: %w", err)
	}

	byID := make(map[uint64]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	entries := make([]LeaderboardEntry, 0, len(totals))
	for i, t := range totals {
		entries = append(entries, LeaderboardEntry{
			Position: i + 1,
			Points:   t.Points,
			User:     byID[t.RecipientID],
		})
	}
	return entries, nil
}

func (s *ScoreService) joinTeamEntries(totals []repository.RecipientTotal) ([]LeaderboardEntry, error) {
	ids := make([]uint64, 0, len(totals))
	for _, t := range totals {
		ids = append(ids, t.RecipientID)
	}

	teams, err := s.teamRepo.FindByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load ranked teams: %w", err)
	}

	byID := make(map[uint64]*models.Team, len(teams))
	for i := range teams {
		byID[teams[i].ID] = &teams[i]
	}

	entries := make([]LeaderboardEntry, 0, len(totals))
	for i, t := range totals {
		entries = append(entries, LeaderboardEntry{
			Position: i + 1,
			Points:   t.Points,
			Team:     byID[t.RecipientID],
		})
	}
	return entries, nil
}
