package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTaskScoreScenario(t *testing.T) {
	// base=100, difficulty=3 (x1.0), priority=high (x1.3), two days late
	// (-10%), quality=5 (x1.4): 100 * 1.0 * 1.3 * 0.9 * 1.4 = 163.8
	deadline := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	quality := 5

	breakdown := DefaultConfig().ComputeTaskScore(TaskInput{
		Difficulty:    3,
		Priority:      "high",
		Deadline:      &deadline,
		QualityRating: &quality,
	}, deadline.AddDate(0, 0, 2))

	assert.InDelta(t, 163.8, breakdown.FinalScore, 1e-9)
	assert.Equal(t, 1.0, breakdown.DifficultyMultiplier)
	assert.Equal(t, 1.3, breakdown.PriorityMultiplier)
	assert.Equal(t, 0.1, breakdown.LatenessPenalty)
	assert.Equal(t, 1.4, breakdown.QualityMultiplier)
}

func TestComputeTaskScoreDifficultyMonotonic(t *testing.T) {
	cfg := DefaultConfig()
	completedAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	previous := -1.0
	for difficulty := 1; difficulty <= 5; difficulty++ {
		breakdown := cfg.ComputeTaskScore(TaskInput{
			Difficulty: difficulty,
			Priority:   "medium",
		}, completedAt)

		require.Greater(t, breakdown.FinalScore, previous,
			"score must strictly increase from difficulty %d", difficulty)
		previous = breakdown.FinalScore
	}
}

func TestComputeTaskScoreNeutralDefaults(t *testing.T) {
	// No deadline, no quality, no subtasks, no logged work, no start date:
	// every optional factor must be neutral.
	breakdown := DefaultConfig().ComputeTaskScore(TaskInput{
		Difficulty: 3,
		Priority:   "medium",
	}, time.Now())

	assert.Equal(t, 100.0, breakdown.FinalScore)
	assert.Zero(t, breakdown.PunctualityBonus)
	assert.Zero(t, breakdown.LatenessPenalty)
	assert.Zero(t, breakdown.SubtaskBonus)
	assert.Zero(t, breakdown.WorkTimeBonus)
	assert.Zero(t, breakdown.EfficiencyBonus)
}

func TestComputeTaskScoreSubtaskBonus(t *testing.T) {
	cfg := DefaultConfig()
	completedAt := time.Now()

	tests := []struct {
		total, completed int
		bonus            float64
	}{
		{4, 4, 0.2},
		{5, 4, 0.1},
		{4, 2, 0.05},
		{4, 1, 0},
		{0, 0, 0},
	}

	for _, tt := range tests {
		breakdown := cfg.ComputeTaskScore(TaskInput{
			Difficulty:        3,
			Priority:          "medium",
			SubtasksTotal:     tt.total,
			SubtasksCompleted: tt.completed,
		}, completedAt)
		assert.Equal(t, tt.bonus, breakdown.SubtaskBonus, "%d/%d subtasks", tt.completed, tt.total)
	}
}

func TestComputeTaskScoreWorkTimeBonus(t *testing.T) {
	cfg := DefaultConfig()
	completedAt := time.Now()

	tests := []struct {
		minutes int
		bonus   float64
	}{
		{8 * 60, 0.15},
		{4 * 60, 0.1},
		{2 * 60, 0.05},
		{90, 0},
		{0, 0},
	}

	for _, tt := range tests {
		breakdown := cfg.ComputeTaskScore(TaskInput{
			Difficulty:  3,
			Priority:    "medium",
			WorkMinutes: tt.minutes,
		}, completedAt)
		assert.Equal(t, tt.bonus, breakdown.WorkTimeBonus, "%d minutes", tt.minutes)
	}
}

func TestComputeTaskScoreEfficiencyBonus(t *testing.T) {
	cfg := DefaultConfig()
	quality := 5
	lowQuality := 3

	// Difficulty 4 gives an expected duration of 8 days.
	completedAt := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	fastStart := completedAt.AddDate(0, 0, -3)
	slowStart := completedAt.AddDate(0, 0, -10)

	fast := cfg.ComputeTaskScore(TaskInput{
		Difficulty:    4,
		Priority:      "medium",
		StartedAt:     &fastStart,
		QualityRating: &quality,
	}, completedAt)
	assert.Equal(t, 0.15, fast.EfficiencyBonus)

	slow := cfg.ComputeTaskScore(TaskInput{
		Difficulty:    4,
		Priority:      "medium",
		StartedAt:     &slowStart,
		QualityRating: &quality,
	}, completedAt)
	assert.Zero(t, slow.EfficiencyBonus)

	mediocre := cfg.ComputeTaskScore(TaskInput{
		Difficulty:    4,
		Priority:      "medium",
		StartedAt:     &fastStart,
		QualityRating: &lowQuality,
	}, completedAt)
	assert.Zero(t, mediocre.EfficiencyBonus, "quality below 4 earns no efficiency bonus")
}

func TestComputeTaskScoreNeverNegative(t *testing.T) {
	// Combining the heaviest penalty with the lowest multipliers stays at or
	// above zero even with a hostile configuration.
	cfg := Config{BaseScore: 100, TeamFactor: 1.2, MaxDailyScore: 2000}
	deadline := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	quality := 1

	breakdown := cfg.ComputeTaskScore(TaskInput{
		Difficulty:    1,
		Priority:      "low",
		Deadline:      &deadline,
		QualityRating: &quality,
	}, deadline.AddDate(0, 1, 0))

	assert.GreaterOrEqual(t, breakdown.FinalScore, 0.0)
}
