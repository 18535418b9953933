package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"haulbooks/internal/cache"
	"haulbooks/internal/core"
	"haulbooks/internal/ledger"
	"haulbooks/internal/middleware/ratelimit"
	"haulbooks/internal/middleware/security"
	"haulbooks/internal/middleware/trace"
)

type Server struct {
	http.Server
	ledger *ledger.Service

	detector    *security.Detector
	tracer      *trace.Middleware
	rateLimiter *ratelimit.Limiter

	// Summary caches. Week summaries are cheap enough to recompute; month
	// and year walk every bucket so they get cached with invalidation on
	// writes.
	monthCache *cache.LRUCache[core.MonthSummary]
	yearCache  *cache.LRUCache[core.YearSummary]
	cacheMgr   *cache.Manager

	appMetrics   appMetrics
	shutdownOnce sync.Once
}

// appMetrics tracks write counters exposed on /metrics.
type appMetrics struct {
	expensesCreated int64
	incomesCreated  int64
	recordsUpdated  int64
	recordsDeleted  int64
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, svc *ledger.Service) *Server {
	mux := http.NewServeMux()

	detector := security.NewDetector()
	s := &Server{
		ledger:      svc,
		detector:    detector,
		tracer:      trace.NewMiddleware(detector.ExtractClientIP),
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		monthCache:  cache.NewLRUCache[core.MonthSummary](100, 5*time.Minute),
		yearCache:   cache.NewLRUCache[core.YearSummary](20, 5*time.Minute),
		cacheMgr:    cache.NewManager(),
	}

	s.cacheMgr.Register(s.monthCache)
	s.cacheMgr.Register(s.yearCache)
	s.cacheMgr.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("GET /api/weeks", s.handleListWeeks)
	mux.HandleFunc("GET /api/weeks/current", s.handleCurrentWeek)
	mux.HandleFunc("POST /api/weeks/select", s.handleSelectWeek)

	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("POST /api/incomes", s.handleCreateIncome)
	mux.HandleFunc("PUT /api/incomes/{id}", s.handleUpdateIncome)
	mux.HandleFunc("DELETE /api/incomes/{id}", s.handleDeleteIncome)

	mux.HandleFunc("GET /api/summary/week", s.handleWeekSummary)
	mux.HandleFunc("GET /api/summary/month", s.handleMonthSummary)
	mux.HandleFunc("GET /api/summary/year", s.handleYearSummary)

	headers := security.NewHeadersMiddleware(security.APIHeadersConfig())

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.tracer.Middleware(headers.Middleware(s.withSecurity(mux))),
	}

	return s
}

// withSecurity runs every request through the probe detector and rate
// limits mutating requests. Suspicious traffic is counted and logged,
// never blocked; reads are served from state or cache and stay cheap.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := s.detector.ExtractClientIP(r)
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request detected",
				"client_ip", ip,
				"method", r.Method,
				"path", r.URL.Path)
		}

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.rateLimiter.Allow(ip) {
				w.Header().Set("Retry-After", "60")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the HTTP server and background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheMgr.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.tracer.GetMetrics()
	securityMetrics := s.detector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	writeJSON(w, http.StatusOK, map[string]any{
		"total_requests":        traceMetrics.TotalRequests,
		"avg_response_time_us":  traceMetrics.AverageResponseTime,
		"expenses_created":      atomic.LoadInt64(&s.appMetrics.expensesCreated),
		"incomes_created":       atomic.LoadInt64(&s.appMetrics.incomesCreated),
		"records_updated":       atomic.LoadInt64(&s.appMetrics.recordsUpdated),
		"records_deleted":       atomic.LoadInt64(&s.appMetrics.recordsDeleted),
		"month_cache_entries":   s.monthCache.Size(),
		"year_cache_entries":    s.yearCache.Size(),
		"suspicious_requests":   securityMetrics.SuspiciousRequests,
		"invalid_ip_attempts":   securityMetrics.InvalidIPAttempts,
		"rate_limited_requests": rateLimitMetrics.TotalHits,
		"rate_limited_clients":  rateLimitMetrics.ClientCount,
	})
}
