package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/phattraset/crowdfunding-01/internal/funding"
	"github.com/phattraset/crowdfunding-01/pkg/models"
)

type PledgesHandler struct {
	svc *funding.Service
}

func NewPledgesHandler(svc *funding.Service) *PledgesHandler {
	return &PledgesHandler{svc: svc}
}

type postPledgeRequest struct {
	ProjectID    string `json:"project_id"`
	RewardTierID *int64 `json:"reward_tier_id,omitempty"`
	Amount       int64  `json:"amount"`
}

type postPledgeResponse struct {
	ID             int64               `json:"id"`
	Accepted       bool                `json:"accepted"`
	RejectedReason models.RejectReason `json:"rejected_reason,omitempty"`
	RewardTierID   *int64              `json:"reward_tier_id,omitempty"`
}

// SubmitPledge runs one pledge submission through the evaluator. A business
// rejection still responds 200: the pledge was recorded, just not accepted.
func (h *PledgesHandler) SubmitPledge(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing identity", http.StatusUnauthorized)
		return
	}

	var req postPledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.ProjectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}

	pledge, err := h.svc.SubmitPledge(r.Context(), funding.PledgeRequest{
		UserID:       userID,
		ProjectID:    req.ProjectID,
		RewardTierID: req.RewardTierID,
		Amount:       req.Amount,
		SubmittedAt:  time.Now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, funding.ErrProjectNotFound):
			http.Error(w, "project not found", http.StatusNotFound)
		case errors.Is(err, funding.ErrUserNotFound):
			http.Error(w, "user not found", http.StatusNotFound)
		default:
			http.Error(w, "failed to submit pledge", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, postPledgeResponse{
		ID:             pledge.ID,
		Accepted:       pledge.Accepted,
		RejectedReason: pledge.RejectedReason,
		RewardTierID:   pledge.RewardTierID,
	}, http.StatusOK)
}
