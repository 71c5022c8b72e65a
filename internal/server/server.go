// Package server exposes the dashboard over HTTP.
//
// Two kinds of endpoints are served. Stateless chart endpoints render one
// chart of one year through the pipeline runner and its cache. Session
// endpoints keep a dashboard per viewer, so a browser can select years and
// brush the electoral-vote bar the way the interactive page does.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/matzehuels/electoral/pkg/chart"
	"github.com/matzehuels/electoral/pkg/pipeline"
	"github.com/matzehuels/electoral/pkg/session"
)

// Config holds server configuration.
type Config struct {
	Addr        string
	CORSOrigins []string
	Width       float64
	Logger      *log.Logger
	Runner      *pipeline.Runner
	Sessions    *session.Manager
}

// Server represents the HTTP server.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	logger   *log.Logger
	runner   *pipeline.Runner
	sessions *session.Manager
	width    float64
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	width := cfg.Width
	if width <= 0 {
		width = chart.DefaultWidth
	}

	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger.WithPrefix("server"),
		runner:   cfg.Runner,
		sessions: cfg.Sessions,
		width:    width,
	}

	s.setupMiddleware(cfg.CORSOrigins)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Addr is the listen address.
func (s *Server) Addr() string { return s.server.Addr }

func (s *Server) setupMiddleware(origins []string) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	s.router.Use(middleware.Compress(5, "image/svg+xml", "application/json", "text/html"))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/", s.handleIndex)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/years", func(r chi.Router) {
			r.Get("/", s.handleYears)
			r.Get("/{year}", s.handleDataset)
			r.Get("/{year}/charts/{chart}.{format}", s.handleChart)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/year/{year}", s.handleSelect)
				r.Get("/charts/{chart}.{format}", s.handleSessionChart)
				r.Post("/brush", s.handleBrush)
				r.Delete("/brush", s.handleClearBrush)
			})
		})
	})
}

// Start listens until Shutdown is called. It returns nil after a clean
// shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// requestID tags every request with a UUID, reusing a valid incoming
// X-Request-Id header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs HTTP requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
