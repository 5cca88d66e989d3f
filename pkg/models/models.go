package models

// Domain models matching the database schema in db/migrations/0001_init.sql.
// All timestamps are Unix milliseconds UTC.

type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username" validate:"required"`
	PasswordHash string `json:"password_hash,omitempty" db:"password_hash"`
	Created      int64  `json:"created" db:"created"`
}

type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name" validate:"required"`
}

// Project identifiers are 8-digit numeric strings with a non-zero first
// digit. Uniqueness is enforced by a check-and-retry loop at creation, not
// by the generator itself.
type Project struct {
	ID            string `json:"id" db:"id"`
	Title         string `json:"title" db:"title" validate:"required"`
	Description   string `json:"description" db:"description"`
	GoalAmount    int64  `json:"goal_amount" db:"goal_amount"`
	CurrentAmount int64  `json:"current_amount" db:"current_amount"`
	Deadline      int64  `json:"deadline" db:"deadline"`
	CreatedAt     int64  `json:"created_at" db:"created_at"`
	CategoryID    int64  `json:"category_id" db:"category_id"`
}

// RewardTier.QtyRemaining is nil for unlimited inventory.
type RewardTier struct {
	ID           int64  `json:"id" db:"id"`
	ProjectID    string `json:"project_id" db:"project_id"`
	Description  string `json:"description" db:"description"`
	MinAmount    int64  `json:"min_amount" db:"min_amount"`
	QtyRemaining *int64 `json:"qty_remaining,omitempty" db:"qty_remaining"`
}

// RejectReason is the fixed enumeration of business rejection codes. A
// rejected pledge is still persisted, with the reason attached, so the
// store keeps a permanent audit trail of refused attempts.
type RejectReason string

const (
	RejectDeadlinePassed     RejectReason = "deadline_passed"
	RejectInvalidReward      RejectReason = "invalid_reward"
	RejectAmountBelowTierMin RejectReason = "amount_less_than_reward_min"
	RejectRewardSoldOut      RejectReason = "reward_sold_out"
	RejectInvalidAmount      RejectReason = "invalid_amount"
)

type Pledge struct {
	ID             int64        `json:"id" db:"id"`
	UserID         int64        `json:"user_id" db:"user_id"`
	ProjectID      string       `json:"project_id" db:"project_id"`
	RewardTierID   *int64       `json:"reward_tier_id,omitempty" db:"reward_tier_id"`
	Amount         int64        `json:"amount" db:"amount"`
	Time           int64        `json:"time" db:"time"`
	Accepted       bool         `json:"accepted" db:"accepted"`
	RejectedReason RejectReason `json:"rejected_reason,omitempty" db:"rejected_reason"`
}

// UserTotal is one row of the accepted-pledge aggregation used by the
// leaderboard: a backer and the sum of their accepted pledges on a project.
type UserTotal struct {
	UserID   int64  `json:"user_id" db:"user_id"`
	Username string `json:"username" db:"username"`
	Total    int64  `json:"total" db:"total"`
}

// ProjectFilter narrows and orders project listings. Sort is one of
// "newest" (default), "ending_soon" or "most_funded".
type ProjectFilter struct {
	Query    string
	Category string
	Sort     string
}

// PledgeStats is the accepted/rejected split over all persisted pledges.
type PledgeStats struct {
	Accepted int64 `json:"accepted"`
	Rejected int64 `json:"rejected"`
}
