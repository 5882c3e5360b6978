package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"pembukuan/internal/core"
	"pembukuan/internal/log"
	"pembukuan/internal/middleware/ratelimit"
	"pembukuan/internal/middleware/security"
	"pembukuan/internal/middleware/trace"
)

// AccountAPI is the account surface the handlers need.
type AccountAPI interface {
	CreateAccount(ctx context.Context, owner string, in core.AccountInput) (core.Account, error)
	GetAccount(ctx context.Context, owner, id string) (core.Account, error)
	ListAccounts(ctx context.Context, owner string) ([]core.Account, error)
	DeleteAccount(ctx context.Context, owner, id string) error
	EnsureDefaultAccounts(ctx context.Context, owner string) (bool, error)
}

// LedgerAPI is the transaction surface the handlers need.
type LedgerAPI interface {
	CreateTransaction(ctx context.Context, owner string, in core.TransactionInput) (core.Transaction, error)
	CreateFromReceipt(ctx context.Context, owner, accountID string, c core.ReceiptCandidate) (core.Transaction, error)
	GetTransaction(ctx context.Context, owner, id string) (core.Transaction, error)
	ListTransactions(ctx context.Context, owner string, f core.TransactionFilter) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, owner, id string) error
}

// ReportAPI is the reporting surface the handlers need.
type ReportAPI interface {
	FinancialSummary(ctx context.Context, owner string) (core.FinancialSummary, error)
	ProfitAndLoss(ctx context.Context, owner string, start, end core.Date) (core.ProfitAndLoss, error)
	BalanceSheet(ctx context.Context, owner string, asOf core.Date) (core.BalanceSheet, error)
}

type Options struct {
	Accounts AccountAPI
	Ledger   LedgerAPI
	Reports  ReportAPI

	// Ready reports whether the backing store can serve requests.
	Ready func(ctx context.Context) error

	Logger             *log.Logger
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	accounts AccountAPI
	ledger   LedgerAPI
	reports  ReportAPI
	ready    func(ctx context.Context) error

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	started  time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		accounts: opts.Accounts,
		ledger:   opts.Ledger,
		reports:  opts.Reports,
		ready:    opts.Ready,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(),
		started:  time.Now(),
	}
	s.tracer = trace.NewMiddleware(logger, core.KindOf, s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/bootstrap", s.withOwner(s.handleBootstrap))

	mux.HandleFunc("GET /api/accounts", s.withOwner(s.handleListAccounts))
	mux.HandleFunc("POST /api/accounts", s.withOwner(s.handleCreateAccount))
	mux.HandleFunc("GET /api/accounts/{id}", s.withOwner(s.handleGetAccount))
	mux.HandleFunc("DELETE /api/accounts/{id}", s.withOwner(s.handleDeleteAccount))

	mux.HandleFunc("GET /api/transactions", s.withOwner(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withOwner(s.handleCreateTransaction))
	mux.HandleFunc("POST /api/transactions/receipt", s.withOwner(s.handleCreateFromReceipt))
	mux.HandleFunc("GET /api/transactions/{id}", s.withOwner(s.handleGetTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withOwner(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/financial-summary", s.withOwner(s.handleFinancialSummary))
	mux.HandleFunc("GET /api/reports/profit-loss", s.withOwner(s.handleProfitAndLoss))
	mux.HandleFunc("GET /api/reports/balance-sheet", s.withOwner(s.handleBalanceSheet))

	limited := s.limiter.Middleware(s.detector.ExtractClientIP, ratelimit.WritesOnly, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r),
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path)
		TooManyRequestsError().Write(w)
	})
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	var h http.Handler = mux
	h = limited(h)
	h = headers.Middleware(h)
	h = s.detector.Middleware(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops background routines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

type ownerHandler func(w http.ResponseWriter, r *http.Request, owner string)

// withOwner rejects requests without an owner id.
func (s *Server) withOwner(next ownerHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := ownerFrom(r)
		if err != nil {
			UnauthorizedError(err.Error()).Write(w)
			return
		}
		ctx := log.WithLogger(r.Context(), log.FromContext(r.Context()).With(log.FieldOwner, owner))
		next(w, r.WithContext(ctx), owner)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	}).Write(w)
}

// handleReady checks the store and reports limiter and security counters.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, code := "ready", http.StatusOK
	checks := map[string]any{}
	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["store"] = "failed: " + err.Error()
			status, code = "not_ready", http.StatusServiceUnavailable
		} else {
			checks["store"] = "ok"
		}
	} else {
		checks["store"] = "not_configured"
	}

	rl := s.limiter.GetMetrics()
	checks["rate_limiter"] = map[string]any{"active_clients": rl.ClientCount, "rejected": rl.TotalHits}
	sec := s.detector.GetMetrics()
	checks["security"] = map[string]any{"suspicious_requests": sec.SuspiciousRequests, "blocked_methods": sec.BlockedMethods}
	checks["requests_total"] = s.tracer.GetMetrics().TotalRequests

	NewResponse().Status(code).JSON(map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}
