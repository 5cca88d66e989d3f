package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	dbfs "github.com/phattraset/crowdfunding-01/db"
	"github.com/phattraset/crowdfunding-01/internal/config"
	"github.com/phattraset/crowdfunding-01/internal/db"
	"github.com/phattraset/crowdfunding-01/internal/funding"
	"github.com/phattraset/crowdfunding-01/internal/repository/sqlite"
	"github.com/phattraset/crowdfunding-01/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo dataset: 10 users, 3 categories, 8 projects with 3 reward
// tiers each, then 10 accepted and 10 rejected pledges. Pledges go through
// the real evaluator so the stored counters stay consistent.
func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		fmt.Fprintf(os.Stderr, "Migration error: %v\n", err)
		os.Exit(1)
	}

	repo := sqlite.New(database)
	svc := funding.NewService(repo, repo, repo, repo, nil)

	if err := seed(ctx, repo, svc); err != nil {
		fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database seeded with successful and rejected pledges.")
}

func seed(ctx context.Context, repo *sqlite.SQLiteRepo, svc *funding.Service) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("pass123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	userIDs := make([]int64, 0, 10)
	for i := 1; i <= 10; i++ {
		id, err := repo.CreateUser(ctx, &models.User{
			Username:     fmt.Sprintf("user%d", i),
			PasswordHash: string(hash),
		})
		if err != nil {
			return fmt.Errorf("create user%d: %w", i, err)
		}
		userIDs = append(userIDs, id)
	}

	// categories come from the seed SQL; resolve their ids
	categories, err := repo.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if len(categories) == 0 {
		return fmt.Errorf("no categories seeded")
	}

	now := time.Now().UTC()
	projectIDs := make([]string, 0, 8)
	for i := 1; i <= 8; i++ {
		p := &models.Project{
			Title:       fmt.Sprintf("Project %d", i),
			Description: fmt.Sprintf("This is description for project %d.", i),
			GoalAmount:  int64(5000 + rand.Intn(15001)),
			Deadline:    now.AddDate(0, 0, 5+rand.Intn(26)).UnixMilli(),
			CategoryID:  categories[rand.Intn(len(categories))].ID,
		}
		if err := svc.CreateProject(ctx, p); err != nil {
			return fmt.Errorf("create project %d: %w", i, err)
		}
		projectIDs = append(projectIDs, p.ID)
	}

	tiersByProject := map[string][]models.RewardTier{}
	for _, pid := range projectIDs {
		for r := 1; r <= 3; r++ {
			qty := int64(5 + rand.Intn(16))
			tier := &models.RewardTier{
				ProjectID:    pid,
				Description:  fmt.Sprintf("Reward %d for project %s", r, pid),
				MinAmount:    int64(100 * r),
				QtyRemaining: &qty,
			}
			id, err := repo.CreateRewardTier(ctx, tier)
			if err != nil {
				return fmt.Errorf("create tier: %w", err)
			}
			tier.ID = id
			tiersByProject[pid] = append(tiersByProject[pid], *tier)
		}
	}

	// accepted pledges: amount at or above the tier minimum
	for i := 0; i < 10; i++ {
		pid := projectIDs[rand.Intn(len(projectIDs))]
		tier := tiersByProject[pid][rand.Intn(len(tiersByProject[pid]))]
		pledge, err := svc.SubmitPledge(ctx, funding.PledgeRequest{
			UserID:       userIDs[rand.Intn(len(userIDs))],
			ProjectID:    pid,
			RewardTierID: &tier.ID,
			Amount:       tier.MinAmount + int64(rand.Intn(201)),
		})
		if err != nil {
			return fmt.Errorf("submit pledge: %w", err)
		}
		if !pledge.Accepted {
			return fmt.Errorf("expected seeded pledge to be accepted, got %s", pledge.RejectedReason)
		}
	}

	// rejected pledges: amount below the tier minimum
	for i := 0; i < 10; i++ {
		pid := projectIDs[rand.Intn(len(projectIDs))]
		tier := tiersByProject[pid][rand.Intn(len(tiersByProject[pid]))]
		if _, err := svc.SubmitPledge(ctx, funding.PledgeRequest{
			UserID:       userIDs[rand.Intn(len(userIDs))],
			ProjectID:    pid,
			RewardTierID: &tier.ID,
			Amount:       tier.MinAmount - 50,
		}); err != nil {
			return fmt.Errorf("submit rejected pledge: %w", err)
		}
	}

	return nil
}
