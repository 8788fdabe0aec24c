package scoring

import (
	"strings"
	"time"
)

const hoursPerDay = 24

var difficultyMultipliers = map[int]float64{
	1: 0.5,
	2: 0.75,
	3: 1.0,
	4: 1.5,
	5: 2.0,
}

var priorityMultipliers = map[string]float64{
	"low":      0.8,
	"medium":   1.0,
	"high":     1.3,
	"critical": 1.6,
}

var qualityMultipliers = map[int]float64{
	1: 0.6,
	2: 0.8,
	3: 1.0,
	4: 1.2,
	5: 1.4,
}

// DifficultyMultiplier maps a 1-5 difficulty level to its multiplier.
// Unknown levels are neutral.
func DifficultyMultiplier(difficulty int) float64 {
	if m, ok := difficultyMultipliers[difficulty]; ok {
		return m
	}
	return 1.0
}

// PriorityMultiplier maps a priority label to its multiplier. Matching is
// case-insensitive; unknown labels are neutral.
func PriorityMultiplier(priority string) float64 {
	if m, ok := priorityMultipliers[strings.ToLower(priority)]; ok {
		return m
	}
	return 1.0
}

// QualityMultiplier maps an optional 1-5 final quality rating to its
// multiplier. A missing rating is neutral.
func QualityMultiplier(quality *int) float64 {
	if quality == nil {
		return 1.0
	}
	if m, ok := qualityMultipliers[*quality]; ok {
		return m
	}
	return 1.0
}

// Punctuality compares the completion time against the deadline and returns
// the bonus and penalty fractions for the matching tier. Exactly one of the
// two is non-zero. Without a deadline both are zero.
//
// Tiers, in days relative to the deadline (negative = early):
//
//	< -7   +20%
//	< 0    +10%
//	<= 1   no adjustment
//	<= 3   -10%
//	<= 7   -20%
//	> 7    -30%
func Punctuality(completedAt time.Time, deadline *time.Time) (bonus, penalty float64) {
	if deadline == nil {
		return 0, 0
	}

	diffDays := completedAt.Sub(*deadline).Hours() / hoursPerDay

	switch {
	case diffDays < -7:
		return 0.2, 0
	case diffDays < 0:
		return 0.1, 0
	case diffDays <= 1:
		return 0, 0
	case diffDays <= 3:
		return 0, 0.1
	case diffDays <= 7:
		return 0, 0.2
	default:
		return 0, 0.3
	}
}
