package api

import (
	"github.com/gorilla/mux"
	"github.com/phattraset/crowdfunding-01/internal/config"
	"github.com/phattraset/crowdfunding-01/internal/db"
	"github.com/phattraset/crowdfunding-01/internal/funding"
	"github.com/phattraset/crowdfunding-01/internal/repository/sqlite"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository and core service
	repo := sqlite.New(db)
	svc := funding.NewService(repo, repo, repo, repo, logger)

	// Create handlers
	systemHandler := NewSystemHandler(repo)
	authHandler := NewAuthHandler(repo, cfg.JWTSecret, cfg.TokenDuration)
	projectsHandler := NewProjectsHandler(svc, repo, repo, repo, cfg.JWTSecret)
	pledgesHandler := NewPledgesHandler(svc)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// Browsing needs no identity; project detail enriches itself when a
	// valid token happens to be present.
	r.HandleFunc("/v1/projects", projectsHandler.ListProjects).Methods("GET")
	r.HandleFunc("/v1/projects/{id}", projectsHandler.GetProject).Methods("GET")
	r.HandleFunc("/v1/projects/{id}/leaderboard", projectsHandler.GetLeaderboard).Methods("GET")
	r.HandleFunc("/v1/categories", projectsHandler.ListCategories).Methods("GET")
	r.HandleFunc("/v1/stats", systemHandler.StatsHandler).Methods("GET")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Pledge and administration endpoints
	apiV1.HandleFunc("/pledges", pledgesHandler.SubmitPledge).Methods("POST")
	apiV1.HandleFunc("/projects", projectsHandler.CreateProject).Methods("POST")
	apiV1.HandleFunc("/projects/{id}/tiers", projectsHandler.CreateRewardTier).Methods("POST")
	apiV1.HandleFunc("/projects/{id}/progress", projectsHandler.GetProgress).Methods("GET")

	return r
}
