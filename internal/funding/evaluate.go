package funding

import (
	"time"

	"github.com/phattraset/crowdfunding-01/pkg/models"
)

// PledgeRequest is a single pledge submission. RewardTierID is nil when the
// backer selected no reward.
type PledgeRequest struct {
	UserID       int64
	ProjectID    string
	RewardTierID *int64
	Amount       int64
	SubmittedAt  time.Time
}

// Outcome is the evaluator's decision plus the state to persist. A business
// rejection is a normal outcome, not an error: the pledge is recorded either
// way. Project and RewardTier carry the post-decision snapshots; they are
// only mutated when the pledge was accepted.
type Outcome struct {
	Accepted       bool
	RejectedReason models.RejectReason
	RewardTierID   *int64
	Project        *models.Project
	RewardTier     *models.RewardTier
}

// Evaluate applies the acceptance rules to a pledge request against the
// current project and tier snapshots. The caller must have resolved the
// project already; tier is nil when no reward tier id was supplied or when
// the supplied id matched nothing. The rules are ordered and the first
// failing one wins:
//
//  1. deadline passed
//  2. reward tier missing or owned by another project
//  3. amount below the tier minimum
//  4. tier inventory exhausted
//  5. non-positive amount
//
// On acceptance the project's current_amount grows by the pledge amount and
// a finite tier inventory shrinks by one. Evaluate copies its inputs; the
// snapshots passed in are never written to.
func Evaluate(req PledgeRequest, project *models.Project, tier *models.RewardTier, now time.Time) Outcome {
	p := *project
	out := Outcome{Project: &p}
	if tier != nil {
		t := *tier
		out.RewardTier = &t
	}

	if project.Deadline <= now.UnixMilli() {
		out.RejectedReason = models.RejectDeadlinePassed
		return out
	}

	if req.RewardTierID != nil {
		if out.RewardTier == nil || out.RewardTier.ProjectID != req.ProjectID {
			out.RejectedReason = models.RejectInvalidReward
			return out
		}
	} else {
		// a tier snapshot without a requested id plays no part in the decision
		out.RewardTier = nil
	}

	if out.RewardTier != nil && req.Amount < out.RewardTier.MinAmount {
		out.RejectedReason = models.RejectAmountBelowTierMin
		return out
	}
	if out.RewardTier != nil && out.RewardTier.QtyRemaining != nil && *out.RewardTier.QtyRemaining <= 0 {
		out.RejectedReason = models.RejectRewardSoldOut
		return out
	}
	if req.Amount <= 0 {
		out.RejectedReason = models.RejectInvalidAmount
		return out
	}

	out.Accepted = true
	out.Project.CurrentAmount += req.Amount
	if out.RewardTier != nil {
		out.RewardTierID = &out.RewardTier.ID
		if out.RewardTier.QtyRemaining != nil {
			qty := *out.RewardTier.QtyRemaining - 1
			out.RewardTier.QtyRemaining = &qty
		}
	}

	return out
}
