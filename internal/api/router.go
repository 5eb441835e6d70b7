package api

import (
	"net/http"
	"time"

	"matchsim/internal/sim"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// EngineInterface defines the live-engine methods used by the API.
// This interface enables mocking for tests without spinning up the full
// tick loop. Keep this minimal - only include methods the API layer
// actually calls.
type EngineInterface interface {
	// Snapshot returns the latest immutable match state
	Snapshot() *sim.MatchState
	// Result returns the final result, nil until the match finishes
	Result() *sim.MatchResult
	// Pause freezes the match clock
	Pause()
	// Resume unfreezes the match clock
	Resume()
	// SetSpeed changes the wall time per simulated minute
	SetSpeed(interval time.Duration)
}

// RouterConfig contains all dependencies needed to construct the HTTP
// router. This struct is designed for dependency injection and
// testability.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Engine: engine,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Engine is the live match engine (required)
	Engine EngineInterface

	// HomeName and AwayName label the fixture in API responses.
	HomeName string
	AwayName string

	// EventLog is the optional persistent match log; only its stats are
	// exposed here.
	EventLog *sim.EventLog

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is optional configuration for the rate limiter.
	// Only used if RateLimiter is nil. If both are nil, uses
	// DefaultRateLimitConfig.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins is an optional list of allowed CORS origins.
	// If nil, uses the default local origins.
	CORSOrigins []string

	// DisableLogging disables the request logger middleware (useful for
	// benchmarks).
	DisableLogging bool
}

// routerHandlers holds the handler dependencies for the router.
type routerHandlers struct {
	engine   EngineInterface
	homeName string
	awayName string
	eventLog *sim.EventLog
	limiter  *IPRateLimiter
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// IMPORTANT: This function is PURE - it has no side effects:
//   - No goroutines are started
//   - No network listeners are opened
//   - No background workers are launched
//
// This makes it safe to use in tests with httptest.NewServer.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware - order matters
	if !cfg.DisableLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)

	// Rate limiting before CORS to reject early and save CPU
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)
	r.Use(requestMetrics)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = []string{
			"http://localhost:*",
			"http://127.0.0.1:*",
		}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	h := &routerHandlers{
		engine:   cfg.Engine,
		homeName: cfg.HomeName,
		awayName: cfg.AwayName,
		eventLog: cfg.EventLog,
		limiter:  rateLimiter,
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/match", func(r chi.Router) {
			r.Get("/state", h.handleGetState)
			r.Get("/events", h.handleGetEvents)
			r.Get("/result", h.handleGetResult)

			// Match clock control
			r.Post("/pause", h.handlePause)
			r.Post("/resume", h.handleResume)
			r.Post("/speed", h.handleSetSpeed)
		})

		r.Get("/stats", h.handleGetStats)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/match/state", http.StatusFound)
	})

	return r
}

// requestMetrics records latency and status per route pattern. The
// pattern, not the raw path, keeps label cardinality bounded.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		RecordRequest(r.Method, chi.RouteContext(r.Context()).RoutePattern(), ww.Status(), time.Since(start))
	})
}
