// Package server provides the web dashboard of the job tracker.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/job-tracker/internal/metrics"
	"github.com/jonathan/job-tracker/internal/rendering"
	"github.com/jonathan/job-tracker/internal/stats"
	"github.com/jonathan/job-tracker/internal/types"
	"github.com/jonathan/job-tracker/internal/upload"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/*.html
var templateFS embed.FS

// Store is the record store the dashboard works on.
type Store interface {
	Insert(ctx context.Context, f types.ApplicationFields) (int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, search string) ([]types.JobApplication, error)
	ListRange(ctx context.Context, start, end string) ([]types.JobApplication, error)
	ListAll(ctx context.Context) ([]types.JobApplication, error)
	Backup(ctx context.Context, w io.Writer) error
}

// Uploader hands a date range to the automation agent.
type Uploader interface {
	Upload(ctx context.Context, start, end string) (upload.Result, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      Store
	uploader   Uploader
	engine     *stats.Engine
	report     *rendering.ActivityReport
	index      *template.Template
	validate   *validator.Validate
	metrics    *metrics.Metrics
	logger     *zap.Logger
	tagOptions []string
	now        func() time.Time
}

// Config holds server configuration
type Config struct {
	Port       int
	TagOptions []string
	FontDir    string
	Now        func() time.Time // defaults to time.Now
}

// New creates a new server instance
func New(cfg Config, store Store, uploader Uploader, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	index, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	statsCfg := stats.DefaultConfig(cfg.TagOptions)
	statsCfg.Now = cfg.Now
	engine := stats.New(statsCfg)

	s := &Server{
		store:      store,
		uploader:   uploader,
		engine:     engine,
		report:     rendering.NewActivityReport(engine, cfg.FontDir),
		index:      index,
		validate:   types.NewValidator(),
		metrics:    metrics.New(),
		logger:     logger,
		tagOptions: cfg.TagOptions,
		now:        cfg.Now,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /{$}", s.handleCreate)
	mux.HandleFunc("POST /monthly_report_json", s.handleMonthlyReportJSON)
	mux.HandleFunc("POST /render_report", s.handleRenderReport)
	mux.HandleFunc("POST /upload_to_af", s.handleUploadToAF)
	mux.HandleFunc("POST /update_status/{id}", s.handleUpdateStatus)
	mux.HandleFunc("POST /delete_job/{id}", s.handleDeleteJob)
	mux.HandleFunc("GET /backup_db", s.handleBackupDB)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	return s.withLogging(mux)
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging and request counting
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.HTTPRequests.WithLabelValues(route, fmt.Sprintf("%d", rec.status)).Inc()
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse logs err and writes a plain-text error with the matching status.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}

	message := http.StatusText(status)
	var validationErr *ErrValidation
	if errors.As(err, &validationErr) {
		message = validationErr.Error()
	}
	http.Error(w, message, status)
}

// redirectHome sends the browser back to the dashboard.
func (s *Server) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
