package httpx

import (
	"log/slog"
	"net/http"

	"github.com/bountylab/scoring-api/internal/core"
	"github.com/bountylab/scoring-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Jobs      *service.ScoringJobService
	Logs      *service.LogService
	Screeners core.ScreenerRegistry
	// Sessions resolves established sessions; nil means every request is anonymous.
	Sessions SessionResolver
	// CookieName is the session cookie name.
	CookieName string
	Logger     *slog.Logger
}

// NewRouter creates and configures a new HTTP router.
//
// The screener report endpoint is unauthenticated: status updates arrive from
// the external screener relay, which authenticates at the network boundary.
// Everything else resolves the viewer session; admin checks live in the
// services so forbidden/not-found semantics stay consistent with direct calls.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	jobHandlers := &JobHandlers{Svc: services.Jobs}
	logHandlers := &LogHandlers{Svc: services.Logs}

	registerJobRoutes(mux, jobHandlers)
	registerLogRoutes(mux, logHandlers)
	if services.Screeners != nil {
		screenerHandlers := &ScreenerHandlers{Registry: services.Screeners}
		mux.Handle("GET /api/screeners", RequireAuth()(http.HandlerFunc(screenerHandlers.List)))
	}
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var handler http.Handler = mux
	handler = ResolveSession(SessionConfig{
		Resolver:   services.Sessions,
		CookieName: services.CookieName,
	})(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers) {
	auth := RequireAuth()
	mux.Handle("GET /api/jobs", auth(http.HandlerFunc(h.List)))
	mux.Handle("GET /api/jobs/stats", auth(http.HandlerFunc(h.Stats)))
	mux.Handle("GET /api/jobs/{id}", auth(http.HandlerFunc(h.Get)))
	mux.HandleFunc("POST /api/jobs/{id}/status", h.Report)
	mux.Handle("POST /api/submissions/{id}/rescore", auth(http.HandlerFunc(h.Rescore)))
	// Leaderboard is public; anonymous viewers get fully redacted entries.
	mux.HandleFunc("GET /api/bounties/{id}/leaderboard", h.Leaderboard)
}

func registerLogRoutes(mux *http.ServeMux, h *LogHandlers) {
	auth := RequireAuth()
	mux.Handle("GET /api/jobs/{id}/logs", auth(http.HandlerFunc(h.Page)))
	mux.Handle("GET /api/jobs/{id}/logs/export", auth(http.HandlerFunc(h.Export)))
}
