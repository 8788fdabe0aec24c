// Package scoring implements the point engine: per-task score calculation,
// team credit distribution and the constants both of them share. It is pure
// computation over values passed in by the caller; persistence lives in the
// repository layer.
package scoring

// Default engine constants. Overridable through environment configuration,
// see config.Load.
const (
	DefaultBaseScore     = 100
	DefaultTeamFactor    = 1.2
	DefaultMaxDailyScore = 2000
)

// Config holds the tunable constants of the scoring engine. A Config is
// threaded explicitly into the calculator and the score service so tests can
// vary the constants deterministically.
type Config struct {
	// BaseScore is the starting point value before any multiplier.
	BaseScore float64
	// TeamFactor scales the base score when credit is split across a team.
	TeamFactor float64
	// MaxDailyScore is the advisory ceiling used by the daily limit check.
	MaxDailyScore float64
}

// DefaultConfig returns a Config populated with the default constants.
func DefaultConfig() Config {
	return Config{
		BaseScore:     DefaultBaseScore,
		TeamFactor:    DefaultTeamFactor,
		MaxDailyScore: DefaultMaxDailyScore,
	}
}
