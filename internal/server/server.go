package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/san-kum/gapdash/internal/chart"
	"github.com/san-kum/gapdash/internal/dashboard"
	"github.com/san-kum/gapdash/internal/export"
	"github.com/san-kum/gapdash/internal/gapminder"
	"github.com/san-kum/gapdash/internal/metrics"
	"github.com/san-kum/gapdash/internal/session"
)

const (
	plotlyOrigin = "https://cdn.plot.ly"
	plotlyScript = plotlyOrigin + "/plotly-2.35.2.min.js"
)

//go:embed web/index.html web/static
var webFS embed.FS

var pageTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

// Server serves one shared dataset to many sessions.
type Server struct {
	addr       string
	ds         *gapminder.Dataset
	opts       chart.Options
	logger     *slog.Logger
	sessions   *session.Manager
	registry   *export.Registry
	headers    HeaderConfig
	sessionTTL time.Duration
	router     chi.Router
}

type Option func(*Server)

func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

func WithChartOptions(opts chart.Options) Option {
	return func(s *Server) { s.opts = opts }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithSessionTTL sets how long an idle session survives.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Server) { s.sessionTTL = d }
}

// WithHeaders replaces the security headers set on every response.
func WithHeaders(cfg HeaderConfig) Option {
	return func(s *Server) { s.headers = cfg }
}

// WithRegistry sets the renderers behind /export.
func WithRegistry(r *export.Registry) Option {
	return func(s *Server) { s.registry = r }
}

func New(ds *gapminder.Dataset, opts ...Option) *Server {
	s := &Server{
		addr:       ":7860",
		ds:         ds,
		opts:       chart.DefaultOptions(),
		logger:     slog.Default(),
		registry:   export.NewRegistry(),
		headers:    DefaultHeaders(),
		sessionTTL: 30 * time.Minute,
	}

	for _, o := range opts {
		o(s)
	}

	s.sessions = session.NewManager(s.newController,
		session.WithTTL(s.sessionTTL),
		session.WithLogger(s.logger),
	)
	s.router = s.routes()
	return s
}

func (s *Server) newController() *dashboard.Controller {
	return dashboard.New(s.ds,
		dashboard.WithChartOptions(s.opts),
		dashboard.WithLogger(s.logger),
	)
}

// Sessions exposes the session registry.
func (s *Server) Sessions() *session.Manager { return s.sessions }

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders(s.headers))

	static, _ := fs.Sub(webFS, "web")
	r.Handle("/static/*", http.FileServer(http.FS(static)))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/export/{name}", s.handleExport)

	r.Group(func(r chi.Router) {
		r.Use(s.sessions.Middleware)
		r.Get("/", s.handleIndex)

		r.Route("/api", func(r chi.Router) {
			r.Use(maxBody(MaxBodyBytes))
			r.Get("/view", s.handleView)
			r.Get("/years", s.handleYears)
			r.Post("/year", s.handleYear)
			r.Post("/click", s.handleClick)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully. The
// session janitor runs for the same lifetime.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go s.sessions.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.addr, "records", s.ds.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen %s: %w", s.addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// renderPage fills the page template for the current selection.
func (s *Server) renderPage(w io.Writer, v dashboard.View) error {
	return pageTemplate.Execute(w, pageData{
		Title:     "Gapminder",
		Years:     v.Years,
		Selection: v.Selection,
		YearIndex: indexOf(v.Years, v.Selection.Year),
		MaxIndex:  max(len(v.Years)-1, 0),
		Plotly:    plotlyScript,
	})
}

type pageData struct {
	Title     string
	Years     []int
	Selection dashboard.Selection
	YearIndex int
	MaxIndex  int
	Plotly    string
}

func indexOf(years []int, year int) int {
	for i, y := range years {
		if y == year {
			return i
		}
	}
	return 0
}
