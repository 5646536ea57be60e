package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/notedoc/internal/config"
	"github.com/dgallion1/notedoc/internal/pipeline"
	"github.com/dgallion1/notedoc/internal/stats"
	"github.com/dgallion1/notedoc/internal/tools"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for notedoc.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	tools        *tools.Registry
	ops          *stats.Ops
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, ops *stats.Ops, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		tools:        tools.NewRegistry(),
		ops:          ops,
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

		r.Post("/api/convert", s.handleConvert)
		r.Post("/api/text", s.handleText)
		r.Post("/api/preview", s.handlePreview)
		r.Post("/api/validate", s.handleValidate)
		r.Post("/api/append", s.handleAppend)
		r.Post("/api/replace", s.handleReplace)
		r.Post("/api/delete", s.handleDelete)

		r.Get("/api/tools", s.handleListTools)
		r.Post("/api/tools/{name}", s.handleCallTool)

		r.Post("/api/import", s.handleImport)
		r.Post("/api/import/batch", s.handleBatchImport)
		r.Get("/api/import/{jobID}", s.handleImportStatus)

		r.Get("/api/prompts/kinds", s.handlePromptKinds)
		r.Post("/api/prompts/transform", s.handleTransformPrompt)

		r.Get("/api/stats/ops", s.handleOpStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// track times an operation when stats are enabled.
func (s *Server) track(op string) func() {
	if s.ops == nil {
		return func() {}
	}
	return s.ops.Track(op)
}
