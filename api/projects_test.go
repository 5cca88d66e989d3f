package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/phattraset/crowdfunding-01/api"
	"github.com/phattraset/crowdfunding-01/internal/funding"
	"github.com/phattraset/crowdfunding-01/pkg/models"
	"github.com/phattraset/crowdfunding-01/pkg/repository/mock"
)

func newProjectsHandler(mocks *mock.Mocks) *api.ProjectsHandler {
	return api.NewProjectsHandler(newTestService(mocks), mocks.Projects, mocks.Tiers, mocks.Categories, testSecret)
}

func signTestToken(t *testing.T, userID int64) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func TestListProjects(t *testing.T) {
	mocks := mock.NewMocks()
	mocks.Projects.ByID["10000001"] = &models.Project{ID: "10000001", Title: "Solar Lamp"}
	mocks.Projects.ByID["10000002"] = &models.Project{ID: "10000002", Title: "Mural"}
	h := newProjectsHandler(mocks)

	req := httptest.NewRequest(http.MethodGet, "/v1/projects?q=solar&sort=ending_soon", nil)
	rec := httptest.NewRecorder()
	h.ListProjects(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Items []models.Project `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(resp.Items))
	}
}

func TestListProjectsEmpty(t *testing.T) {
	h := newProjectsHandler(mock.NewMocks())

	req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
	rec := httptest.NewRecorder()
	h.ListProjects(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]json.RawMessage
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if string(resp["items"]) != "[]" {
		t.Fatalf("expected empty items array, got %s", resp["items"])
	}
}

func TestGetProject(t *testing.T) {
	mocks := mock.NewMocks()
	mocks.Projects.ByID["10000001"] = &models.Project{ID: "10000001", Title: "Solar Lamp", GoalAmount: 1000, CurrentAmount: 350}
	mocks.Tiers.ByID[1] = &models.RewardTier{ID: 1, ProjectID: "10000001", Description: "Sticker", MinAmount: 100}
	mocks.Tiers.ByID[2] = &models.RewardTier{ID: 2, ProjectID: "10000001", Description: "Lamp", MinAmount: 300}
	mocks.Pledges.Totals = []models.UserTotal{
		{UserID: 1, Username: "alice", Total: 1200},
		{UserID: 2, Username: "bob", Total: 350},
	}
	h := newProjectsHandler(mocks)

	req := httptest.NewRequest(http.MethodGet, "/v1/projects/10000001", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "10000001"})
	rec := httptest.NewRecorder()
	h.GetProject(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Project     *models.Project            `json:"project"`
		RewardTiers []models.RewardTier        `json:"reward_tiers"`
		Leaderboard []funding.LeaderboardEntry `json:"leaderboard"`
		Progress    *funding.Progress          `json:"progress"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Project == nil || resp.Project.Title != "Solar Lamp" {
		t.Fatalf("unexpected project: %#v", resp.Project)
	}
	if len(resp.RewardTiers) != 2 || resp.RewardTiers[0].MinAmount != 100 {
		t.Fatalf("unexpected tiers: %#v", resp.RewardTiers)
	}
	if len(resp.Leaderboard) != 2 {
		t.Fatalf("unexpected leaderboard: %#v", resp.Leaderboard)
	}
	if resp.Leaderboard[0].Tier != funding.TierGold || resp.Leaderboard[1].Tier != funding.TierSilver {
		t.Fatalf("unexpected tiers on leaderboard: %#v", resp.Leaderboard)
	}
	if resp.Progress != nil {
		t.Fatalf("expected no progress for anonymous request")
	}
}

func TestGetProjectWithIdentityIncludesProgress(t *testing.T) {
	mocks := mock.NewMocks()
	mocks.Projects.ByID["10000001"] = &models.Project{ID: "10000001", Title: "Solar Lamp"}
	mocks.Tiers.ByID[1] = &models.RewardTier{ID: 1, ProjectID: "10000001", Description: "Sticker", MinAmount: 100}
	mocks.Pledges.TotalForUser[7] = 250
	h := newProjectsHandler(mocks)

	req := httptest.NewRequest(http.MethodGet, "/v1/projects/10000001", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, 7))
	req = mux.SetURLVars(req, map[string]string{"id": "10000001"})
	rec := httptest.NewRecorder()
	h.GetProject(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Progress *funding.Progress `json:"progress"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Progress == nil {
		t.Fatalf("expected progress for authenticated request")
	}
	if resp.Progress.Total != 250 {
		t.Fatalf("expected total 250, got %d", resp.Progress.Total)
	}
	if len(resp.Progress.Tiers) != 1 || !resp.Progress.Tiers[0].Achieved {
		t.Fatalf("unexpected progress tiers: %#v", resp.Progress.Tiers)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	h := newProjectsHandler(mock.NewMocks())

	req := httptest.NewRequest(http.MethodGet, "/v1/projects/99999999", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "99999999"})
	rec := httptest.NewRecorder()
	h.GetProject(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetLeaderboard(t *testing.T) {
	mocks := mock.NewMocks()
	mocks.Projects.ByID["10000001"] = &models.Project{ID: "10000001"}
	mocks.Pledges.Totals = []models.UserTotal{
		{UserID: 1, Username: "alice", Total: 500},
	}
	h := newProjectsHandler(mocks)

	req := httptest.NewRequest(http.MethodGet, "/v1/projects/10000001/leaderboard", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "10000001"})
	rec := httptest.NewRecorder()
	h.GetLeaderboard(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Items []funding.LeaderboardEntry `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].Tier != funding.TierSilver || resp.Items[0].Rank != 1 {
		t.Fatalf("unexpected leaderboard: %#v", resp.Items)
	}
}

func TestGetLeaderboardProjectNotFound(t *testing.T) {
	h := newProjectsHandler(mock.NewMocks())

	req := httptest.NewRequest(http.MethodGet, "/v1/projects/99999999/leaderboard", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "99999999"})
	rec := httptest.NewRecorder()
	h.GetLeaderboard(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetProgress(t *testing.T) {
	mocks := mock.NewMocks()
	mocks.Projects.ByID["10000001"] = &models.Project{ID: "10000001"}
	mocks.Tiers.ByID[1] = &models.RewardTier{ID: 1, ProjectID: "10000001", Description: "Sticker", MinAmount: 100}
	mocks.Tiers.ByID[2] = &models.RewardTier{ID: 2, ProjectID: "10000001", Description: "Lamp", MinAmount: 300}
	mocks.Pledges.TotalForUser[1] = 150
	h := newProjectsHandler(mocks)

	req := authedRequest(http.MethodGet, "/v1/projects/10000001/progress", "", 1)
	req = mux.SetURLVars(req, map[string]string{"id": "10000001"})
	rec := httptest.NewRecorder()
	h.GetProgress(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var prog funding.Progress
	if err := json.NewDecoder(rec.Body).Decode(&prog); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if prog.Total != 150 {
		t.Fatalf("expected total 150, got %d", prog.Total)
	}
	if prog.NextMissing == nil || *prog.NextMissing != 150 {
		t.Fatalf("expected next_missing 150, got %v", prog.NextMissing)
	}
	if prog.Highest == nil || prog.Highest.MinAmount != 100 {
		t.Fatalf("unexpected highest tier: %#v", prog.Highest)
	}
}

func TestGetProgressRequiresIdentity(t *testing.T) {
	h := newProjectsHandler(mock.NewMocks())

	req := httptest.NewRequest(http.MethodGet, "/v1/projects/10000001/progress", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "10000001"})
	rec := httptest.NewRecorder()
	h.GetProgress(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateProject(t *testing.T) {
	deadline := time.Now().Add(30 * 24 * time.Hour).UnixMilli()

	tests := []struct {
		name       string
		body       string
		setup      func(m *mock.Mocks)
		wantStatus int
	}{
		{
			name: "valid project",
			body: fmt.Sprintf(`{"title":"Solar Lamp","description":"d","goal_amount":1000,"deadline":%d,"category":"Technology"}`, deadline),
			setup: func(m *mock.Mocks) {
				m.Categories.Stored = []models.Category{{ID: 1, Name: "Technology"}}
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid json",
			body:       `{`,
			setup:      func(m *mock.Mocks) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing title",
			body:       fmt.Sprintf(`{"goal_amount":1000,"deadline":%d,"category":"Technology"}`, deadline),
			setup:      func(m *mock.Mocks) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-positive goal",
			body:       fmt.Sprintf(`{"title":"T","goal_amount":0,"deadline":%d,"category":"Technology"}`, deadline),
			setup:      func(m *mock.Mocks) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "deadline in the past",
			body:       `{"title":"T","goal_amount":1000,"deadline":1000,"category":"Technology"}`,
			setup:      func(m *mock.Mocks) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown category",
			body:       fmt.Sprintf(`{"title":"T","goal_amount":1000,"deadline":%d,"category":"Gaming"}`, deadline),
			setup:      func(m *mock.Mocks) {},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			tt.setup(mocks)
			h := newProjectsHandler(mocks)

			req := authedRequest(http.MethodPost, "/v1/projects", tt.body, 1)
			rec := httptest.NewRecorder()
			h.CreateProject(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}

			var project models.Project
			if err := json.NewDecoder(rec.Body).Decode(&project); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if len(project.ID) != 8 {
				t.Fatalf("expected an 8-digit id, got %q", project.ID)
			}
			if project.CreatedAt == 0 {
				t.Fatalf("expected created_at to be set")
			}
			if _, ok := mocks.Projects.ByID[project.ID]; !ok {
				t.Fatalf("expected project to be stored")
			}
		})
	}
}

func TestCreateRewardTier(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *mock.Mocks)
		wantStatus int
	}{
		{
			name: "valid tier",
			body: `{"description":"Sticker","min_amount":100,"qty_remaining":5}`,
			setup: func(m *mock.Mocks) {
				m.Projects.ByID["10000001"] = &models.Project{ID: "10000001"}
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "unlimited tier",
			body: `{"description":"Thanks","min_amount":10}`,
			setup: func(m *mock.Mocks) {
				m.Projects.ByID["10000001"] = &models.Project{ID: "10000001"}
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "non-positive minimum",
			body:       `{"description":"Sticker","min_amount":0}`,
			setup:      func(m *mock.Mocks) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "negative quantity",
			body: `{"description":"Sticker","min_amount":100,"qty_remaining":-1}`,
			setup: func(m *mock.Mocks) {
				m.Projects.ByID["10000001"] = &models.Project{ID: "10000001"}
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown project",
			body:       `{"description":"Sticker","min_amount":100}`,
			setup:      func(m *mock.Mocks) {},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mocks := mock.NewMocks()
			tt.setup(mocks)
			h := newProjectsHandler(mocks)

			req := authedRequest(http.MethodPost, "/v1/projects/10000001/tiers", tt.body, 1)
			req = mux.SetURLVars(req, map[string]string{"id": "10000001"})
			rec := httptest.NewRecorder()
			h.CreateRewardTier(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}

			var tier models.RewardTier
			if err := json.NewDecoder(rec.Body).Decode(&tier); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if tier.ID == 0 {
				t.Fatalf("expected a tier id")
			}
			if tier.ProjectID != "10000001" {
				t.Fatalf("expected tier bound to project, got %q", tier.ProjectID)
			}
		})
	}
}

func TestListCategories(t *testing.T) {
	mocks := mock.NewMocks()
	mocks.Categories.Stored = []models.Category{
		{ID: 1, Name: "Art"},
		{ID: 2, Name: "Technology"},
	}
	h := newProjectsHandler(mocks)

	req := httptest.NewRequest(http.MethodGet, "/v1/categories", nil)
	rec := httptest.NewRecorder()
	h.ListCategories(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Items []models.Category `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 2 || resp.Items[0].Name != "Art" {
		t.Fatalf("unexpected categories: %#v", resp.Items)
	}
}
