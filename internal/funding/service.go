package funding

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/phattraset/crowdfunding-01/pkg/models"
	"github.com/phattraset/crowdfunding-01/pkg/repository"
)

// Structural failures: the referenced record does not exist at all. These
// terminate the operation; they are distinct from business rejections,
// which are recorded outcomes.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProjectNotFound = errors.New("project not found")
)

// ErrIDSpaceExhausted is returned when repeated draws of a fresh project id
// keep colliding with stored projects.
var ErrIDSpaceExhausted = errors.New("could not generate a unique project id")

const projectIDAttempts = 10

// Service is the pledge-acceptance and reward computation engine over the
// entity store. Pledge submission serializes per project so two concurrent
// pledges never both read the pre-update counters.
type Service struct {
	users    repository.UserRepo
	projects repository.ProjectRepo
	tiers    repository.RewardTierRepo
	pledges  repository.PledgeRepo
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(users repository.UserRepo, projects repository.ProjectRepo, tiers repository.RewardTierRepo, pledges repository.PledgeRepo, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:    users,
		projects: projects,
		tiers:    tiers,
		pledges:  pledges,
		logger:   logger,
		locks:    map[string]*sync.Mutex{},
	}
}

// projectLock returns the mutex serializing writes for one project id.
// Locks are never released from the map; the id space is small enough that
// this does not matter in practice.
func (s *Service) projectLock(projectID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[projectID] = l
	}
	return l
}

// SubmitPledge evaluates and persists one pledge submission. The returned
// pledge carries the acceptance decision; a business rejection is not an
// error. ErrUserNotFound and ErrProjectNotFound report structural failures
// before evaluation.
func (s *Service) SubmitPledge(ctx context.Context, req PledgeRequest) (*models.Pledge, error) {
	user, err := s.users.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := req.SubmittedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	lock := s.projectLock(req.ProjectID)
	lock.Lock()
	defer lock.Unlock()

	project, err := s.projects.GetProjectByID(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	var tier *models.RewardTier
	if req.RewardTierID != nil {
		// a missing or foreign tier is the invalid_reward rejection, not a
		// structural failure; the evaluator decides
		tier, err = s.tiers.GetRewardTierByID(ctx, *req.RewardTierID)
		if err != nil {
			return nil, fmt.Errorf("load reward tier: %w", err)
		}
	}

	out := Evaluate(req, project, tier, now)

	pledge := &models.Pledge{
		UserID:         req.UserID,
		ProjectID:      req.ProjectID,
		RewardTierID:   out.RewardTierID,
		Amount:         req.Amount,
		Time:           now.UnixMilli(),
		Accepted:       out.Accepted,
		RejectedReason: out.RejectedReason,
	}

	var projectUpdate *models.Project
	var tierUpdate *models.RewardTier
	if out.Accepted {
		projectUpdate = out.Project
		tierUpdate = out.RewardTier
	}
	id, err := s.pledges.SavePledge(ctx, pledge, projectUpdate, tierUpdate)
	if err != nil {
		return nil, fmt.Errorf("save pledge: %w", err)
	}
	pledge.ID = id

	if !out.Accepted {
		s.logger.Info("pledge rejected",
			slog.String("project_id", req.ProjectID),
			slog.Int64("user_id", req.UserID),
			slog.String("reason", string(out.RejectedReason)),
		)
	}

	return pledge, nil
}

// Leaderboard ranks the project's backers by accepted total and assigns
// quota-limited tier labels. Quotas reset on every call.
func (s *Service) Leaderboard(ctx context.Context, projectID string) ([]LeaderboardEntry, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	totals, err := s.pledges.AcceptedTotalsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("aggregate pledges: %w", err)
	}

	return BuildLeaderboard(totals), nil
}

// Progress reports a backer's reward-tier standing on a project. A backer
// with no accepted pledges gets a zero total and no achieved tiers.
func (s *Service) Progress(ctx context.Context, projectID string, userID int64) (*Progress, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	total, err := s.pledges.AcceptedTotalForUser(ctx, projectID, userID)
	if err != nil {
		return nil, fmt.Errorf("sum pledges: %w", err)
	}

	tiers, err := s.tiers.ListTiersByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tiers: %w", err)
	}

	prog := BuildProgress(total, tiers)
	return &prog, nil
}

// CreateProject stores a new project under a freshly generated 8-digit id,
// retrying on the (unlikely) collision with an existing project.
func (s *Service) CreateProject(ctx context.Context, p *models.Project) error {
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UTC().UnixMilli()
	}
	for attempt := 0; attempt < projectIDAttempts; attempt++ {
		id, err := newProjectID()
		if err != nil {
			return err
		}
		existing, err := s.projects.GetProjectByID(ctx, id)
		if err != nil {
			return fmt.Errorf("check project id: %w", err)
		}
		if existing != nil {
			continue
		}
		p.ID = id
		return s.projects.CreateProject(ctx, p)
	}
	return ErrIDSpaceExhausted
}

// newProjectID draws an 8-digit numeric id whose first digit is 1-9.
func newProjectID() (string, error) {
	// range [10000000, 99999999]
	n, err := rand.Int(rand.Reader, big.NewInt(90000000))
	if err != nil {
		return "", fmt.Errorf("generate project id: %w", err)
	}
	return fmt.Sprintf("%08d", n.Int64()+10000000), nil
}
