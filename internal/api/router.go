package api

import (
	"net/http"

	"github.com/blockboard/eventlog/internal/engine"
	"github.com/blockboard/eventlog/internal/group"
	"github.com/blockboard/eventlog/internal/store"
	ws "github.com/blockboard/eventlog/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(pgStore *store.PostgresStore, tracker *group.Tracker, limiter *engine.RateLimiter, hub *ws.Hub, ingestLimit int) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// CORS for browser-based editors
	r.Use(corsMiddleware)

	// Handlers
	eventHandler := NewEventHandler(pgStore, tracker, limiter, hub, ingestLimit)
	groupHandler := NewGroupHandler(pgStore, tracker)

	// Live event feed
	r.Get("/ws", hub.HandleWebSocket)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", HealthHandler())

		r.Route("/events", func(r chi.Router) {
			r.Post("/", eventHandler.Append)
			r.Get("/", eventHandler.List)
			r.Get("/{seq}", eventHandler.Get)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Post("/", groupHandler.Open)
			r.Get("/{id}", groupHandler.Get)
			r.Delete("/{id}", groupHandler.Close)
		})
	})

	return r
}

// corsMiddleware adds CORS headers for editor clients served elsewhere.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
