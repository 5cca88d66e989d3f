package funding

import "github.com/phattraset/crowdfunding-01/pkg/models"

// TierProgress describes one reward tier relative to a backer's accepted
// total on the project.
type TierProgress struct {
	TierID       int64  `json:"tier_id"`
	Name         string `json:"name"`
	MinAmount    int64  `json:"min_amount"`
	QtyRemaining *int64 `json:"qty_remaining,omitempty"`
	Achieved     bool   `json:"achieved"`
	Missing      int64  `json:"missing"`
}

// Progress is a backer's reward standing on one project. NextMissing is the
// shortfall to the first unachieved tier in ascending threshold order (nil
// when every tier is achieved, or there are none); Highest is the achieved
// tier with the largest threshold (nil when none is achieved).
type Progress struct {
	Total       int64          `json:"total"`
	Tiers       []TierProgress `json:"tiers"`
	NextMissing *int64         `json:"next_missing,omitempty"`
	Highest     *TierProgress  `json:"highest,omitempty"`
}

// BuildProgress computes reward progress from a backer's accepted total and
// the project's tiers, which must be ordered ascending by min_amount.
func BuildProgress(total int64, tiers []models.RewardTier) Progress {
	prog := Progress{
		Total: total,
		Tiers: make([]TierProgress, 0, len(tiers)),
	}

	for _, t := range tiers {
		achieved := total >= t.MinAmount
		missing := t.MinAmount - total
		if missing < 0 {
			missing = 0
		}
		prog.Tiers = append(prog.Tiers, TierProgress{
			TierID:       t.ID,
			Name:         t.Description,
			MinAmount:    t.MinAmount,
			QtyRemaining: t.QtyRemaining,
			Achieved:     achieved,
			Missing:      missing,
		})
		if !achieved && prog.NextMissing == nil {
			m := missing
			prog.NextMissing = &m
		}
	}

	for i := len(prog.Tiers) - 1; i >= 0; i-- {
		if prog.Tiers[i].Achieved {
			prog.Highest = &prog.Tiers[i]
			break
		}
	}

	return prog
}
