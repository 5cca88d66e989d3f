package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/phattraset/crowdfunding-01/internal/funding"
	"github.com/phattraset/crowdfunding-01/pkg/models"
	"github.com/phattraset/crowdfunding-01/pkg/repository"
)

type ProjectsHandler struct {
	svc          *funding.Service
	projectRepo  repository.ProjectRepo
	tierRepo     repository.RewardTierRepo
	categoryRepo repository.CategoryRepo
	jwtSecret    string
}

func NewProjectsHandler(svc *funding.Service, pr repository.ProjectRepo, tr repository.RewardTierRepo, cr repository.CategoryRepo, jwtSecret string) *ProjectsHandler {
	return &ProjectsHandler{svc: svc, projectRepo: pr, tierRepo: tr, categoryRepo: cr, jwtSecret: jwtSecret}
}

func (h *ProjectsHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.ProjectFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Sort:     q.Get("sort"),
	}

	projects, err := h.projectRepo.ListProjects(r.Context(), filter)
	if err != nil {
		http.Error(w, "failed to list projects", http.StatusInternalServerError)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}

	writeJSON(w, map[string]any{"items": projects}, http.StatusOK)
}

type projectDetailResponse struct {
	Project     *models.Project            `json:"project"`
	RewardTiers []models.RewardTier        `json:"reward_tiers"`
	Leaderboard []funding.LeaderboardEntry `json:"leaderboard"`
	Progress    *funding.Progress          `json:"progress,omitempty"`
}

// GetProject returns the project with its tiers and leaderboard. When the
// request carries a valid bearer token the caller's reward progress is
// included as well, mirroring the logged-in project page of the UI.
func (h *ProjectsHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]
	ctx := r.Context()

	project, err := h.projectRepo.GetProjectByID(ctx, projectID)
	if err != nil {
		http.Error(w, "failed to load project", http.StatusInternalServerError)
		return
	}
	if project == nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	tiers, err := h.tierRepo.ListTiersByProject(ctx, projectID)
	if err != nil {
		http.Error(w, "failed to list reward tiers", http.StatusInternalServerError)
		return
	}
	if tiers == nil {
		tiers = []models.RewardTier{}
	}

	board, err := h.svc.Leaderboard(ctx, projectID)
	if err != nil {
		http.Error(w, "failed to build leaderboard", http.StatusInternalServerError)
		return
	}

	resp := projectDetailResponse{
		Project:     project,
		RewardTiers: tiers,
		Leaderboard: board,
	}

	if userID, ok := userIDFromRequest(h.jwtSecret, r); ok {
		prog, err := h.svc.Progress(ctx, projectID, userID)
		if err != nil {
			http.Error(w, "failed to compute progress", http.StatusInternalServerError)
			return
		}
		resp.Progress = prog
	}

	writeJSON(w, resp, http.StatusOK)
}

func (h *ProjectsHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]

	board, err := h.svc.Leaderboard(r.Context(), projectID)
	if err != nil {
		if errors.Is(err, funding.ErrProjectNotFound) {
			http.Error(w, "project not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to build leaderboard", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{"items": board}, http.StatusOK)
}

func (h *ProjectsHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing identity", http.StatusUnauthorized)
		return
	}

	prog, err := h.svc.Progress(r.Context(), projectID, userID)
	if err != nil {
		if errors.Is(err, funding.ErrProjectNotFound) {
			http.Error(w, "project not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to compute progress", http.StatusInternalServerError)
		return
	}

	writeJSON(w, prog, http.StatusOK)
}

type createProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	GoalAmount  int64  `json:"goal_amount"`
	Deadline    int64  `json:"deadline"`
	Category    string `json:"category"`
}

func (h *ProjectsHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.Category == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}
	if req.GoalAmount <= 0 {
		http.Error(w, "goal_amount must be positive", http.StatusBadRequest)
		return
	}
	if req.Deadline <= time.Now().UnixMilli() {
		http.Error(w, "deadline must be in the future", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	category, err := h.categoryRepo.GetCategoryByName(ctx, req.Category)
	if err != nil {
		http.Error(w, "failed to resolve category", http.StatusInternalServerError)
		return
	}
	if category == nil {
		http.Error(w, "category not found", http.StatusNotFound)
		return
	}

	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		Deadline:    req.Deadline,
		CategoryID:  category.ID,
	}
	if err := h.svc.CreateProject(ctx, project); err != nil {
		http.Error(w, "failed to create project", http.StatusInternalServerError)
		return
	}

	writeJSON(w, project, http.StatusCreated)
}

type createTierRequest struct {
	Description  string `json:"description"`
	MinAmount    int64  `json:"min_amount"`
	QtyRemaining *int64 `json:"qty_remaining,omitempty"`
}

func (h *ProjectsHandler) CreateRewardTier(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["id"]

	var req createTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.MinAmount <= 0 {
		http.Error(w, "min_amount must be positive", http.StatusBadRequest)
		return
	}
	if req.QtyRemaining != nil && *req.QtyRemaining < 0 {
		http.Error(w, "qty_remaining must not be negative", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	project, err := h.projectRepo.GetProjectByID(ctx, projectID)
	if err != nil {
		http.Error(w, "failed to load project", http.StatusInternalServerError)
		return
	}
	if project == nil {
		http.Error(w, "project not found", http.StatusNotFound)
		return
	}

	tier := &models.RewardTier{
		ProjectID:    projectID,
		Description:  req.Description,
		MinAmount:    req.MinAmount,
		QtyRemaining: req.QtyRemaining,
	}
	id, err := h.tierRepo.CreateRewardTier(ctx, tier)
	if err != nil {
		http.Error(w, "failed to create reward tier", http.StatusInternalServerError)
		return
	}
	tier.ID = id

	writeJSON(w, tier, http.StatusCreated)
}

func (h *ProjectsHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.ListCategories(r.Context())
	if err != nil {
		http.Error(w, "failed to list categories", http.StatusInternalServerError)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}

	writeJSON(w, map[string]any{"items": categories}, http.StatusOK)
}
