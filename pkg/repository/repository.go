package repository

import (
	"context"

	"github.com/phattraset/crowdfunding-01/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.

type UserRepo interface {
	CreateUser(ctx context.Context, u *models.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type CategoryRepo interface {
	CreateCategory(ctx context.Context, c *models.Category) (int64, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

type ProjectRepo interface {
	CreateProject(ctx context.Context, p *models.Project) error
	GetProjectByID(ctx context.Context, id string) (*models.Project, error)
	ListProjects(ctx context.Context, f models.ProjectFilter) ([]models.Project, error)
}

type RewardTierRepo interface {
	CreateRewardTier(ctx context.Context, t *models.RewardTier) (int64, error)
	GetRewardTierByID(ctx context.Context, id int64) (*models.RewardTier, error)
	// ListTiersByProject returns the project's tiers ordered ascending by
	// min_amount, the order the progress calculator depends on.
	ListTiersByProject(ctx context.Context, projectID string) ([]models.RewardTier, error)
}

type PledgeRepo interface {
	// SavePledge persists the evaluator outcome in a single transaction:
	// the pledge row is inserted and, when the pledge was accepted, the
	// project's current_amount and the selected tier's qty_remaining are
	// written back from the supplied snapshots.
	SavePledge(ctx context.Context, p *models.Pledge, project *models.Project, tier *models.RewardTier) (int64, error)
	// AcceptedTotalsByProject sums accepted pledge amounts per backer,
	// ordered by total descending then user id ascending.
	AcceptedTotalsByProject(ctx context.Context, projectID string) ([]models.UserTotal, error)
	AcceptedTotalForUser(ctx context.Context, projectID string, userID int64) (int64, error)
	CountPledges(ctx context.Context) (*models.PledgeStats, error)
}
