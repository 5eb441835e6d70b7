package api

import (
	"log"
	"net/http"

	"matchsim/internal/sim"

	"github.com/go-chi/chi/v5"
)

// Server is the HTTP API server with WebSocket support. It combines
// the HTTP router with a watcher hub for real-time match updates.
type Server struct {
	engine      EngineInterface
	homeName    string
	awayName    string
	router      *chi.Mux
	wsHub       *WebSocketHub
	rateLimiter *IPRateLimiter
}

// NewServer creates a new API server with default production
// configuration.
//
// IMPORTANT: Background workers do NOT start until Start() is called.
// This enables testing by allowing the server to be constructed without
// starting goroutines or opening network listeners.
//
// For testing HTTP endpoints without WebSocket support, use NewRouter()
// directly.
func NewServer(engine EngineInterface, homeName, awayName string, eventLog *sim.EventLog) *Server {
	s := &Server{
		engine:   engine,
		homeName: homeName,
		awayName: awayName,
		wsHub:    NewWebSocketHub(),
	}

	s.rateLimiter = NewIPRateLimiter(DefaultRateLimitConfig)

	s.router = NewRouter(RouterConfig{
		Engine:      engine,
		HomeName:    homeName,
		AwayName:    awayName,
		EventLog:    eventLog,
		RateLimiter: s.rateLimiter,
	})

	// WebSocket route needs the hub instance, so it cannot be part of
	// the pure NewRouter factory.
	s.router.Get("/ws", s.handleWS)

	return s
}

// Hub exposes the watcher hub so the engine's event callback can feed
// it.
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// Start begins the HTTP server AND starts background workers.
// This is the ONLY method that starts goroutines or opens network
// listeners. Call it once.
func (s *Server) Start(addr string) error {
	go s.wsHub.Run()
	s.wsHub.StartBroadcastLoop(s.engine, s.homeName, s.awayName)

	log.Printf("🌐 API server starting on %s", addr)
	log.Printf("📺 Live feed: ws://localhost%s/ws", addr)

	return http.ListenAndServe(addr, s.router)
}

// Router returns the HTTP handler for use with httptest.
// Use this in integration tests instead of calling Start().
func (s *Server) Router() http.Handler {
	return s.router
}

// Stop performs graceful shutdown of background workers.
func (s *Server) Stop() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}
