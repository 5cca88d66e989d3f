package mock

import (
	"context"
	"sort"

	"github.com/phattraset/crowdfunding-01/pkg/models"
)

// Test helpers and mocks
type Mocks struct {
	Users      *UserRepo
	Categories *CategoryRepo
	Projects   *ProjectRepo
	Tiers      *TierRepo
	Pledges    *PledgeRepo
}

func NewMocks() *Mocks {
	return &Mocks{
		Users:      &UserRepo{},
		Categories: &CategoryRepo{},
		Projects:   &ProjectRepo{ByID: map[string]*models.Project{}},
		Tiers:      &TierRepo{ByID: map[int64]*models.RewardTier{}},
		Pledges:    &PledgeRepo{TotalForUser: map[int64]int64{}},
	}
}

type UserRepo struct {
	Stored    *models.User
	CreateErr error
}

func (m *UserRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.Stored = &models.User{ID: 1, Username: u.Username, PasswordHash: u.PasswordHash}
	return 1, nil
}

func (m *UserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if m.Stored != nil && m.Stored.ID == id {
		return m.Stored, nil
	}
	return nil, nil
}

func (m *UserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.Stored != nil && m.Stored.Username == username {
		return m.Stored, nil
	}
	return nil, nil
}

type CategoryRepo struct {
	Stored []models.Category
}

func (m *CategoryRepo) CreateCategory(ctx context.Context, c *models.Category) (int64, error) {
	id := int64(len(m.Stored) + 1)
	m.Stored = append(m.Stored, models.Category{ID: id, Name: c.Name})
	return id, nil
}

func (m *CategoryRepo) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	for i := range m.Stored {
		if m.Stored[i].Name == name {
			return &m.Stored[i], nil
		}
	}
	return nil, nil
}

func (m *CategoryRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	return m.Stored, nil
}

type ProjectRepo struct {
	ByID      map[string]*models.Project
	CreateErr error
}

func (m *ProjectRepo) CreateProject(ctx context.Context, p *models.Project) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	cp := *p
	m.ByID[p.ID] = &cp
	return nil
}

func (m *ProjectRepo) GetProjectByID(ctx context.Context, id string) (*models.Project, error) {
	if p, ok := m.ByID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *ProjectRepo) ListProjects(ctx context.Context, f models.ProjectFilter) ([]models.Project, error) {
	out := make([]models.Project, 0, len(m.ByID))
	for _, p := range m.ByID {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type TierRepo struct {
	ByID map[int64]*models.RewardTier
}

func (m *TierRepo) CreateRewardTier(ctx context.Context, t *models.RewardTier) (int64, error) {
	id := int64(len(m.ByID) + 1)
	cp := *t
	cp.ID = id
	m.ByID[id] = &cp
	return id, nil
}

func (m *TierRepo) GetRewardTierByID(ctx context.Context, id int64) (*models.RewardTier, error) {
	if t, ok := m.ByID[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (m *TierRepo) ListTiersByProject(ctx context.Context, projectID string) ([]models.RewardTier, error) {
	var out []models.RewardTier
	for _, t := range m.ByID {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinAmount < out[j].MinAmount })
	return out, nil
}

type PledgeRepo struct {
	Saved        []models.Pledge
	LastProject  *models.Project
	LastTier     *models.RewardTier
	SaveErr      error
	Totals       []models.UserTotal
	TotalForUser map[int64]int64
}

func (m *PledgeRepo) SavePledge(ctx context.Context, p *models.Pledge, project *models.Project, tier *models.RewardTier) (int64, error) {
	if m.SaveErr != nil {
		return 0, m.SaveErr
	}
	id := int64(len(m.Saved) + 1)
	cp := *p
	cp.ID = id
	m.Saved = append(m.Saved, cp)
	m.LastProject = project
	m.LastTier = tier
	return id, nil
}

func (m *PledgeRepo) AcceptedTotalsByProject(ctx context.Context, projectID string) ([]models.UserTotal, error) {
	return m.Totals, nil
}

func (m *PledgeRepo) AcceptedTotalForUser(ctx context.Context, projectID string, userID int64) (int64, error) {
	return m.TotalForUser[userID], nil
}

func (m *PledgeRepo) CountPledges(ctx context.Context) (*models.PledgeStats, error) {
	stats := &models.PledgeStats{}
	for _, p := range m.Saved {
		if p.Accepted {
			stats.Accepted++
		} else {
			stats.Rejected++
		}
	}
	return stats, nil
}
