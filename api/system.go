package api

import (
	"fmt"
	"net/http"

	"github.com/phattraset/crowdfunding-01/pkg/repository"
)

type SystemHandler struct {
	pledgeRepo repository.PledgeRepo
}

func NewSystemHandler(pr repository.PledgeRepo) *SystemHandler {
	return &SystemHandler{pledgeRepo: pr}
}

func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"status":"ok","service":"crowdfunding"}`)
}

func (h *SystemHandler) VersionHandler(version, buildTime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"version":"%s","buildTime":"%s"}`, version, buildTime)
	}
}

// StatsHandler reports the accepted/rejected split over all stored pledges.
func (h *SystemHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.pledgeRepo.CountPledges(r.Context())
	if err != nil {
		http.Error(w, "failed to count pledges", http.StatusInternalServerError)
		return
	}

	writeJSON(w, stats, http.StatusOK)
}
