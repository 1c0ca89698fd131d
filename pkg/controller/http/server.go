package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/civicsnap/pkg/usecase"
)

// UseCases bundles the use cases served over HTTP
type UseCases struct {
	Auth  usecase.AuthUseCase
	Issue usecase.IssueUseCase
	Image usecase.ImageUseCase
}

// Server represents the sandbox HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates the HTTP server exposing the backend contract under /api
// and uploaded images under /uploads. publicURL may be empty.
func NewServer(ctx context.Context, addr string, uc *UseCases, publicURL string) *Server {
	router := chi.NewRouter()
	mw := NewMiddleware(ctx, uc.Auth)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)
	router.Use(mw.CORS)
	router.Use(mw.Authenticate)

	issueHandler := NewIssueHandler(uc.Issue)
	authHandler := NewAuthHandler(uc.Auth)
	uploadHandler := NewUploadHandler(uc.Image, publicURL)

	// Health check
	router.Get("/health", handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.With(mw.RequireAuth).Get("/me", authHandler.HandleMe)
		})

		r.Route("/issues", func(r chi.Router) {
			r.Get("/", issueHandler.HandleList)
			r.Post("/", issueHandler.HandleCreate)
			r.Get("/stats", issueHandler.HandleStats)
			r.Get("/{id}", issueHandler.HandleGet)
			r.Post("/{id}/vote", issueHandler.HandleVote)

			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAdmin)
				r.Patch("/{id}", issueHandler.HandleUpdate)
				r.Delete("/{id}", issueHandler.HandleDelete)
			})
		})

		r.Post("/upload/image", uploadHandler.HandleUpload)
	})

	router.Get("/uploads/{name}", uploadHandler.HandleServe)

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "civicsnap-sandbox",
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
	}
}
