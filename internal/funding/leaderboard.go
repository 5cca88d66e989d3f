package funding

import "github.com/phattraset/crowdfunding-01/pkg/models"

// Leaderboard tier thresholds and quotas. Quotas limit how many backers may
// hold a label per computation regardless of how many totals qualify;
// Bronze has no quota.
const (
	GoldMin   int64 = 1000
	SilverMin int64 = 300
	BronzeMin int64 = 100

	GoldQuota   = 3
	SilverQuota = 10
)

const (
	TierGold   = "Gold"
	TierSilver = "Silver"
	TierBronze = "Bronze"
	TierNone   = "None"
)

// LeaderboardEntry is one ranked backer on a project leaderboard.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Total    int64  `json:"total"`
	Tier     string `json:"tier"`
}

// BuildLeaderboard ranks per-backer accepted totals and assigns tier labels
// in a single forward pass. Totals must already be sorted descending; ties
// keep the order they arrive in (the store orders equal totals by ascending
// user id). A backer whose total clears a band with an exhausted quota falls
// to the next band down the fixed Gold, Silver, Bronze, None ladder, never
// back up.
func BuildLeaderboard(totals []models.UserTotal) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(totals))

	goldCount := 0
	silverCount := 0
	for i, row := range totals {
		tier := TierNone
		switch {
		case row.Total >= GoldMin && goldCount < GoldQuota:
			tier = TierGold
			goldCount++
		case row.Total >= SilverMin && silverCount < SilverQuota:
			tier = TierSilver
			silverCount++
		case row.Total >= BronzeMin:
			tier = TierBronze
		}

		entries = append(entries, LeaderboardEntry{
			Rank:     i + 1,
			Username: row.Username,
			Total:    row.Total,
			Tier:     tier,
		})
	}

	return entries
}
