package web

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hpungsan/solefit/internal/catalog"
	"github.com/hpungsan/solefit/internal/config"
	"github.com/hpungsan/solefit/internal/linebreak"
	"github.com/hpungsan/solefit/internal/logging"
	"github.com/hpungsan/solefit/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Deps groups what the web UI reads from and writes to.
type Deps struct {
	DB        *sql.DB
	Config    *config.Config
	Catalog   *catalog.Catalog
	Questions *catalog.QuestionBank
	Version   string
}

// NewServer creates and configures the HTTP server for the Solefit web UI.
func NewServer(deps Deps, bind string, port int) (*http.Server, error) {
	h, err := newHandlers(deps)
	if err != nil {
		return nil, err
	}

	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static sub-FS: %w", err)
	}

	mux := http.NewServeMux()
	route := func(pattern, name string, fn http.HandlerFunc) {
		mux.Handle(pattern, instrument(name, fn))
	}

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/quiz", http.StatusFound)
	})
	route("GET /quiz", "quiz", h.HandleQuiz)
	route("POST /quiz", "quiz_submit", h.limiter.Wrap(h.HandleSubmit))
	route("GET /results", "results", h.HandleResults)
	route("GET /results/{id}", "result", h.HandleResult)
	route("DELETE /results/{id}", "result_delete", h.HandleDelete)
	route("GET /catalog", "catalog", h.HandleCatalog)
	route("GET /api/linebreak", "api_linebreak", h.HandleLineBreak)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, port),
		Handler:           securityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// instrument counts requests per route and status code.
func instrument(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.RecordHTTPRequest(route, rec.status)
	})
}

// Run serves until ctx is cancelled, then drains in-flight requests for up
// to five seconds.
func Run(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	logging.Info().Str("addr", srv.Addr).Msgf("solefit UI at http://%s", srv.Addr)
	if host, _, err := net.SplitHostPort(srv.Addr); err == nil {
		if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
			logging.Warn().Str("addr", srv.Addr).Msg("listening on all interfaces")
		}
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logging.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// newHandlers wires renderer, line-break cache and rate limiter.
func newHandlers(deps Deps) (*Handlers, error) {
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("template sub-FS: %w", err)
	}
	renderer, err := NewRenderer(templateSub, deps.Version)
	if err != nil {
		return nil, err
	}

	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Handlers{
		db:       deps.DB,
		cfg:      cfg,
		cat:      deps.Catalog,
		bank:     deps.Questions,
		cache:    linebreak.NewCache(cfg.LineBreakCacheSize),
		limiter:  NewRateLimiter(cfg.RateLimitPerMinute, time.Minute),
		renderer: renderer,
	}, nil
}
