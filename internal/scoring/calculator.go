package scoring

import (
	"math"
	"time"
)

// TaskInput carries the scoring-relevant attributes of a completed task.
// Optional attributes are pointers or zero values; every absent input
// contributes a neutral factor.
type TaskInput struct {
	Difficulty    int
	Priority      string
	Deadline      *time.Time
	QualityRating *int

	// StartedAt enables the efficiency bonus when set.
	StartedAt *time.Time
	// SubtasksTotal and SubtasksCompleted enable the subtask completion bonus.
	SubtasksTotal     int
	SubtasksCompleted int
	// WorkMinutes is the total effort logged on the task by all contributors.
	WorkMinutes int
}

// DirectBreakdown records every intermediate factor of a score calculation
// so the stored award can be audited later.
type DirectBreakdown struct {
	BaseScore            float64 `json:"base_score"`
	DifficultyMultiplier float64 `json:"difficulty_multiplier"`
	PriorityMultiplier   float64 `json:"priority_multiplier"`
	PunctualityBonus     float64 `json:"punctuality_bonus"`
	LatenessPenalty      float64 `json:"lateness_penalty"`
	QualityMultiplier    float64 `json:"quality_multiplier"`
	SubtaskBonus         float64 `json:"subtask_bonus"`
	WorkTimeBonus        float64 `json:"work_time_bonus"`
	EfficiencyBonus      float64 `json:"efficiency_bonus"`
	FinalScore           float64 `json:"final_score"`
}

// ComputeTaskScore computes the point value of one completed task.
//
// The value starts from the configured base score, is scaled by the
// difficulty, priority and quality multipliers, and adjusted by a single
// factor combining the punctuality tier with the optional subtask, work-time
// and efficiency bonuses. The result is floored at zero.
func (c Config) ComputeTaskScore(in TaskInput, completedAt time.Time) DirectBreakdown {
	diffMultiplier := DifficultyMultiplier(in.Difficulty)
	prioMultiplier := PriorityMultiplier(in.Priority)
	bonus, penalty := Punctuality(completedAt, in.Deadline)
	qualMultiplier := QualityMultiplier(in.QualityRating)

	subtaskBonus := subtaskBonus(in.SubtasksTotal, in.SubtasksCompleted)
	workTimeBonus := workTimeBonus(in.WorkMinutes)
	efficiencyBonus := efficiencyBonus(in.StartedAt, completedAt, in.Difficulty, in.QualityRating)

	finalScore := c.BaseScore *
		diffMultiplier *
		prioMultiplier *
		qualMultiplier *
		(1 + bonus - penalty + subtaskBonus + workTimeBonus + efficiencyBonus)

	return DirectBreakdown{
		BaseScore:            c.BaseScore,
		DifficultyMultiplier: diffMultiplier,
		PriorityMultiplier:   prioMultiplier,
		PunctualityBonus:     bonus,
		LatenessPenalty:      penalty,
		QualityMultiplier:    qualMultiplier,
		SubtaskBonus:         subtaskBonus,
		WorkTimeBonus:        workTimeBonus,
		EfficiencyBonus:      efficiencyBonus,
		FinalScore:           math.Max(0, finalScore),
	}
}

// subtaskBonus rewards finishing the task's subtasks: 100% done is worth
// +20%, at least 80% +10%, at least 50% +5%.
func subtaskBonus(total, completed int) float64 {
	if total == 0 {
		return 0
	}

	rate := float64(completed) / float64(total)
	switch {
	case rate >= 1:
		return 0.2
	case rate >= 0.8:
		return 0.1
	case rate >= 0.5:
		return 0.05
	default:
		return 0
	}
}

// workTimeBonus rewards logged effort, capped at +15% for eight or more
// hours.
func workTimeBonus(minutes int) float64 {
	hours := float64(minutes) / 60

	switch {
	case hours >= 8:
		return 0.15
	case hours >= 4:
		return 0.1
	case hours >= 2:
		return 0.05
	default:
		return 0
	}
}

// efficiencyBonus rewards finishing well under the expected duration
// (two days per difficulty level) while keeping quality at 4 or above.
func efficiencyBonus(startedAt *time.Time, completedAt time.Time, difficulty int, quality *int) float64 {
	if startedAt == nil || quality == nil || *quality < 4 {
		return 0
	}

	if difficulty == 0 {
		difficulty = 3
	}

	daysTaken := completedAt.Sub(*startedAt).Hours() / hoursPerDay
	expectedDays := float64(difficulty) * 2

	switch {
	case daysTaken < expectedDays*0.5:
		return 0.15
	case daysTaken < expectedDays*0.75:
		return 0.1
	default:
		return 0
	}
}
