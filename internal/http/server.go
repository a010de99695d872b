// Package http exposes the application over form-encoded POST and JSON
// GET endpoints, serves the embedded pages and runs the live-refresh
// websocket hub.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/store"
	"fintrack/internal/view"
	appweb "fintrack/web"
)

// Publisher hands work to the background worker over the broker.
type Publisher interface {
	PublishRateRefresh(ctx context.Context, code string) error
	PublishMirror(ctx context.Context, transactionID int64) error
}

// RateFetcher fetches a GBP exchange rate inline. Used as the fallback
// when no broker is configured.
type RateFetcher interface {
	Rate(ctx context.Context, code string) (float64, error)
}

type Server struct {
	http.Server

	cfg       *config.Config
	store     store.Store
	session   *view.Session
	stats     *cache.StatsCache
	hub       *Hub
	templates *template.Template

	publisher Publisher
	rates     RateFetcher
	logger    *applog.StructuredLogger

	limiter  *ratelimit.Limiter
	detector *security.Detector

	shutdownOnce sync.Once
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithPublisher wires the AMQP publisher for rate refreshes and sheet
// mirroring.
func WithPublisher(p Publisher) Option {
	return func(s *Server) { s.publisher = p }
}

// WithRateFetcher wires the inline exchange rate fallback.
func WithRateFetcher(r RateFetcher) Option {
	return func(s *Server) { s.rates = r }
}

// NewServer configures routes, middleware and templates. The transaction
// snapshot is loaded from the store before the server starts answering.
func NewServer(cfg *config.Config, st store.Store, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		store:    st,
		session:  view.NewSession(cfg.PageSize),
		stats:    cache.NewStatsCache(100, 5*time.Minute),
		hub:      NewHub(),
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector: security.NewDetector(),
		logger:   applog.NewStructuredLogger(applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.reloadSnapshot(context.Background()); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	s.Server = http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.hub.Run()

	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /{$}", s.handleDetailPage)
	mux.HandleFunc("GET /statistics", s.handleStatisticsPage)
	mux.HandleFunc("GET /management", s.handleManagementPage)

	// Transaction mutations
	mux.HandleFunc("POST /add-transaction", s.handleAddTransaction)
	mux.HandleFunc("POST /update-transaction", s.handleUpdateTransaction)
	mux.HandleFunc("POST /delete-transaction", s.handleDeleteTransaction)
	mux.HandleFunc("POST /toggle-save-transaction", s.handleToggleSave)

	// View state
	mux.HandleFunc("GET /view/tables", s.handleTables)
	mux.HandleFunc("POST /view/filter", s.handleSetFilter)
	mux.HandleFunc("POST /view/page", s.handleSetPage)
	mux.HandleFunc("POST /view/page-size", s.handleSetPageSize)
	mux.HandleFunc("POST /view/tab", s.handleTabSwitch)
	mux.HandleFunc("GET /export-csv", s.handleExportCSV)

	// Categories
	mux.HandleFunc("GET /get-categories", s.handleGetCategories)
	mux.HandleFunc("POST /add-category", s.handleAddCategory)
	mux.HandleFunc("POST /delete-category", s.handleDeleteCategory)

	// Budgets
	mux.HandleFunc("GET /get-budgets", s.handleGetBudgets)
	mux.HandleFunc("POST /add-budget", s.handleAddBudget)
	mux.HandleFunc("POST /update-budget", s.handleUpdateBudget)
	mux.HandleFunc("POST /delete-budget", s.handleDeleteBudget)

	// Currencies
	mux.HandleFunc("GET /get-currencies", s.handleGetCurrencies)
	mux.HandleFunc("GET /get-available-currencies", s.handleAvailableCurrencies)
	mux.HandleFunc("POST /add-currency", s.handleAddCurrency)
	mux.HandleFunc("POST /delete-currency", s.handleDeleteCurrency)

	// Accounts
	mux.HandleFunc("GET /get-accounts", s.handleGetAccounts)
	mux.HandleFunc("POST /add-account", s.handleAddAccount)
	mux.HandleFunc("POST /delete-account", s.handleDeleteAccount)
	mux.HandleFunc("POST /order-accounts", s.handleOrderAccounts)

	// Statistics
	mux.HandleFunc("GET /api/transactions/dates", s.handleTransactionDates)
	mux.HandleFunc("GET /api/statistics/data", s.handleStatisticsData)
	mux.HandleFunc("GET /api/statistics/charts", s.handleStatisticsCharts)

	// Live refresh
	mux.HandleFunc("GET /ws", s.hub.handleWebsocket)

	// Operational
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	// Static assets from the embedded FS
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP)
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, nil)

	var handler http.Handler = mux
	handler = s.guard(handler)
	handler = limitPosts(limited, handler)
	handler = headers.Middleware(handler)
	handler = tracer.Middleware(handler)
	return handler
}

// limitPosts applies the rate limiter to mutating requests only.
func limitPosts(limited func(http.Handler) http.Handler, next http.Handler) http.Handler {
	limitedNext := limited(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodDelete {
			limitedNext.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// guard rejects requests the detector flags as hostile.
func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Blocked suspicious request",
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StatsCache exposes the statistics cache for the cleanup manager.
func (s *Server) StatsCache() *cache.StatsCache {
	return s.stats
}

// reloadSnapshot replaces the view snapshot from the store.
func (s *Server) reloadSnapshot(ctx context.Context) error {
	txs, err := s.store.ListTransactions(ctx)
	if err != nil {
		return err
	}
	s.session.Load(txs)
	return nil
}

// notifyMutation invalidates derived caches and pings open views.
func (s *Server) notifyMutation() {
	s.stats.Invalidate()
	s.hub.Broadcast(EventTablesRefresh)
	s.hub.Broadcast(EventStatsRefresh)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.ListCategories(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "storage not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops the hub and limiter, then drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.hub.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
