package funding_test

import (
	"fmt"
	"testing"

	"github.com/phattraset/crowdfunding-01/internal/funding"
	"github.com/phattraset/crowdfunding-01/pkg/models"
)

func totals(amounts ...int64) []models.UserTotal {
	out := make([]models.UserTotal, 0, len(amounts))
	for i, a := range amounts {
		out = append(out, models.UserTotal{
			UserID:   int64(i + 1),
			Username: fmt.Sprintf("user%d", i+1),
			Total:    a,
		})
	}
	return out
}

func tiers(entries []funding.LeaderboardEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Tier)
	}
	return out
}

func TestBuildLeaderboard_Empty(t *testing.T) {
	entries := funding.BuildLeaderboard(nil)
	if len(entries) != 0 {
		t.Fatalf("expected empty leaderboard, got %d entries", len(entries))
	}
}

func TestBuildLeaderboard_Ranks(t *testing.T) {
	entries := funding.BuildLeaderboard(totals(500, 400, 300))
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Fatalf("expected rank %d, got %d", i+1, e.Rank)
		}
	}
	if entries[0].Username != "user1" || entries[0].Total != 500 {
		t.Fatalf("unexpected top entry: %+v", entries[0])
	}
}

func TestBuildLeaderboard_GoldQuota(t *testing.T) {
	// four Gold-qualified totals, only three Gold slots: the fourth falls
	// down the ladder to Silver
	entries := funding.BuildLeaderboard(totals(1200, 1100, 1050, 1000))
	want := []string{"Gold", "Gold", "Gold", "Silver"}
	for i, w := range want {
		if entries[i].Tier != w {
			t.Fatalf("entry %d: expected %s, got %s (all: %v)", i, w, entries[i].Tier, tiers(entries))
		}
	}
}

func TestBuildLeaderboard_GoldOverflowToBronze(t *testing.T) {
	// totals 1200, 1100, 1050, 900 with Gold quota 3; the
	// fourth backer clears Silver's threshold so lands there, never Gold
	entries := funding.BuildLeaderboard(totals(1200, 1100, 1050, 900))
	want := []string{"Gold", "Gold", "Gold", "Silver"}
	for i, w := range want {
		if entries[i].Tier != w {
			t.Fatalf("entry %d: expected %s, got %s", i, w, entries[i].Tier)
		}
	}

	gold := 0
	for _, e := range entries {
		if e.Tier == funding.TierGold {
			gold++
		}
	}
	if gold != 3 {
		t.Fatalf("expected exactly 3 Gold, got %d", gold)
	}
}

func TestBuildLeaderboard_SilverQuota(t *testing.T) {
	// 14 backers all at 300+: first ten hold Silver, the rest Bronze
	amounts := make([]int64, 14)
	for i := range amounts {
		amounts[i] = 500
	}
	entries := funding.BuildLeaderboard(totals(amounts...))

	silver, bronze := 0, 0
	for _, e := range entries {
		switch e.Tier {
		case funding.TierSilver:
			silver++
		case funding.TierBronze:
			bronze++
		}
	}
	if silver != funding.SilverQuota {
		t.Fatalf("expected %d Silver, got %d", funding.SilverQuota, silver)
	}
	if bronze != 4 {
		t.Fatalf("expected 4 Bronze, got %d", bronze)
	}
}

func TestBuildLeaderboard_Thresholds(t *testing.T) {
	entries := funding.BuildLeaderboard(totals(1000, 999, 300, 299, 100, 99, 1))
	want := []string{"Gold", "Silver", "Silver", "Bronze", "Bronze", "None", "None"}
	got := tiers(entries)
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestBuildLeaderboard_QuotasResetPerCall(t *testing.T) {
	in := totals(1500, 1400, 1300)
	first := funding.BuildLeaderboard(in)
	second := funding.BuildLeaderboard(in)
	for i := range first {
		if first[i].Tier != funding.TierGold || second[i].Tier != funding.TierGold {
			t.Fatalf("quotas must reset between calls: %v vs %v", tiers(first), tiers(second))
		}
	}
}

func TestBuildLeaderboard_SubGoldNeverGold(t *testing.T) {
	// a total below 1000 never takes a Gold slot even when slots are free
	entries := funding.BuildLeaderboard(totals(999))
	if entries[0].Tier == funding.TierGold {
		t.Fatalf("total 999 must not be Gold")
	}
}
