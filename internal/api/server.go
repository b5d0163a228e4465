package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/freeform/internal/config"
	"github.com/dgallion1/freeform/internal/pipeline"
	"github.com/dgallion1/freeform/internal/signature"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for freeform.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	signer       *signature.Signer
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		signer:       orch.Signer(),
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/ajax", s.handleAjax)

		r.Post("/api/signature", s.handleSignature)
		r.Post("/api/compare", s.handleCompare)
		r.Post("/api/classify", s.handleClassify)

		r.Post("/api/render/expression", s.handleRenderExpression)
		r.Post("/api/render/document", s.handleRenderDocument)

		r.Post("/api/import", s.handleImport)
		r.Get("/api/import/{jobID}/status", s.handleImportStatus)
		r.Get("/api/import/{jobID}", s.handleImportResult)

		r.Get("/api/stats/signatures", s.handleSignatureStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
