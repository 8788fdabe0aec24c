package scoring

import "sort"

// Owner floor and proportional pool fractions of the team total.
const (
	ownerReserveFraction = 0.4
	effortPoolFraction   = 0.6
)

// ContributorShare is one contributor's slice of a team score.
type ContributorShare struct {
	UserID  uint64  `json:"user_id"`
	Minutes int     `json:"minutes"`
	Points  float64 `json:"points"`
}

// Distribution is the result of splitting a team score across contributors.
// Shares is sorted by user ID and omits contributors whose share rounded out
// to nothing, so no zero-value award is ever written.
type Distribution struct {
	TeamTotal    float64            `json:"team_total"`
	OwnerID      uint64             `json:"owner_id"`
	TotalMinutes int                `json:"total_minutes"`
	Shares       []ContributorShare `json:"shares"`
}

// Share returns the share for the given user and whether one exists.
func (d Distribution) Share(userID uint64) (ContributorShare, bool) {
	for _, s := range d.Shares {
		if s.UserID == userID {
			return s, true
		}
	}
	return ContributorShare{}, false
}

// DistributeTeamScore splits baseScore across a team.
//
// The team total is baseScore scaled by the team factor. 40% of it is
// reserved for the owner unconditionally; the remaining 60% is split across
// all contributors (owner included) proportionally to their logged minutes.
// When nobody logged effort the pool is split evenly across the non-owner
// contributors. With no non-owner contributors at all the pool stays
// unclaimed and the owner's reservation is the only share.
//
// minutesByUser holds each contributor's summed work-log minutes; users
// absent from contributorIDs are ignored even if they logged time.
func (c Config) DistributeTeamScore(ownerID uint64, contributorIDs []uint64, minutesByUser map[uint64]int, baseScore float64) Distribution {
	teamTotal := baseScore * c.TeamFactor
	ownerReserve := teamTotal * ownerReserveFraction
	remaining := teamTotal * effortPoolFraction

	points := map[uint64]float64{ownerID: ownerReserve}
	minutes := map[uint64]int{ownerID: minutesByUser[ownerID]}
	totalMinutes := minutes[ownerID]

	var others []uint64
	for _, id := range contributorIDs {
		if _, seen := minutes[id]; seen {
			continue
		}
		minutes[id] = minutesByUser[id]
		totalMinutes += minutes[id]
		others = append(others, id)
	}

	switch {
	case totalMinutes > 0:
		for id, m := range minutes {
			if m == 0 {
				continue
			}
			points[id] += remaining * float64(m) / float64(totalMinutes)
		}
	case len(others) > 0:
		even := remaining / float64(len(others))
		for _, id := range others {
			points[id] += even
		}
	}
	// totalMinutes == 0 with no non-owner contributors: the effort pool is
	// unclaimed, only the owner reservation is distributed.

	shares := make([]ContributorShare, 0, len(points))
	for id, p := range points {
		if p <= 0 {
			continue
		}
		shares = append(shares, ContributorShare{
			UserID:  id,
			Minutes: minutes[id],
			Points:  p,
		})
	}
	sort.Slice(shares, func(i, j int) bool { return shares[i].UserID < shares[j].UserID })

	return Distribution{
		TeamTotal:    teamTotal,
		OwnerID:      ownerID,
		TotalMinutes: totalMinutes,
		Shares:       shares,
	}
}
