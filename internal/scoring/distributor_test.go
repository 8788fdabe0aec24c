package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumShares(d Distribution) float64 {
	total := 0.0
	for _, s := range d.Shares {
		total += s.Points
	}
	return total
}

func TestDistributeTeamScoreConservation(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name         string
		owner        uint64
		contributors []uint64
		minutes      map[uint64]int
		baseScore    float64
	}{
		{
			name:         "proportional split",
			owner:        1,
			contributors: []uint64{1, 2, 3},
			minutes:      map[uint64]int{1: 60, 2: 120, 3: 180},
			baseScore:    163.8,
		},
		{
			name:         "owner logged nothing",
			owner:        1,
			contributors: []uint64{1, 2, 3},
			minutes:      map[uint64]int{2: 45, 3: 90},
			baseScore:    100,
		},
		{
			name:         "no effort logged at all",
			owner:        1,
			contributors: []uint64{1, 2, 3, 4},
			minutes:      map[uint64]int{},
			baseScore:    250,
		},
		{
			name:         "single non-owner contributor",
			owner:        7,
			contributors: []uint64{7, 9},
			minutes:      map[uint64]int{9: 30},
			baseScore:    80,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := cfg.DistributeTeamScore(tt.owner, tt.contributors, tt.minutes, tt.baseScore)

			expectedTotal := tt.baseScore * cfg.TeamFactor
			assert.InDelta(t, expectedTotal, d.TeamTotal, 1e-9)
			assert.InEpsilon(t, expectedTotal, sumShares(d), 1e-9,
				"shares must add up to the team total")
		})
	}
}

func TestDistributeTeamScoreOwnerFloor(t *testing.T) {
	cfg := DefaultConfig()

	// The owner logged nothing while others logged heavily; the 40%
	// reservation still applies.
	d := cfg.DistributeTeamScore(1, []uint64{1, 2, 3}, map[uint64]int{2: 600, 3: 900}, 100)

	owner, ok := d.Share(1)
	require.True(t, ok)
	assert.InDelta(t, d.TeamTotal*0.4, owner.Points, 1e-9)
}

func TestDistributeTeamScoreOwnerAlsoLogsEffort(t *testing.T) {
	cfg := DefaultConfig()

	// Owner logged half of all minutes: 40% reservation plus half of the 60%
	// pool.
	d := cfg.DistributeTeamScore(1, []uint64{1, 2}, map[uint64]int{1: 120, 2: 120}, 100)

	owner, ok := d.Share(1)
	require.True(t, ok)
	assert.InDelta(t, d.TeamTotal*(0.4+0.3), owner.Points, 1e-9)

	other, ok := d.Share(2)
	require.True(t, ok)
	assert.InDelta(t, d.TeamTotal*0.3, other.Points, 1e-9)
}

func TestDistributeTeamScoreZeroMinutesEvenSplit(t *testing.T) {
	cfg := DefaultConfig()

	// Nobody logged effort and there is exactly one non-owner contributor:
	// that contributor receives the entire 60% pool.
	d := cfg.DistributeTeamScore(1, []uint64{1, 2}, nil, 100)

	other, ok := d.Share(2)
	require.True(t, ok)
	assert.InDelta(t, d.TeamTotal*0.6, other.Points, 1e-9)
}

func TestDistributeTeamScoreDegenerateOwnerOnly(t *testing.T) {
	cfg := DefaultConfig()

	// Zero minutes, zero non-owner contributors: the effort pool is
	// unclaimed and only the owner reservation is distributed.
	d := cfg.DistributeTeamScore(1, []uint64{1}, nil, 100)

	require.Len(t, d.Shares, 1)
	assert.Equal(t, uint64(1), d.Shares[0].UserID)
	assert.InDelta(t, d.TeamTotal*0.4, d.Shares[0].Points, 1e-9)
}

func TestDistributeTeamScoreNoZeroValueShares(t *testing.T) {
	cfg := DefaultConfig()

	// Contributor 3 never logged effort while others did; they must not
	// appear with a zero-value share.
	d := cfg.DistributeTeamScore(1, []uint64{1, 2, 3}, map[uint64]int{2: 60}, 100)

	_, ok := d.Share(3)
	assert.False(t, ok)
	for _, s := range d.Shares {
		assert.Greater(t, s.Points, 0.0)
	}
}

func TestDistributeTeamScoreDuplicateContributors(t *testing.T) {
	cfg := DefaultConfig()

	d := cfg.DistributeTeamScore(1, []uint64{1, 2, 2, 2}, map[uint64]int{2: 60}, 100)

	require.Len(t, d.Shares, 2)
	assert.InEpsilon(t, d.TeamTotal, sumShares(d), 1e-9)
}
