package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"transitpos/internal/config"
	"transitpos/internal/gtfs"
	"transitpos/internal/handler"
)

// Server is the HTTP gateway for transitpos.
type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Server with all routes registered against store. store
// may not be ready yet — handlers check readiness per request, not at
// registration time, so a Server over a store that has not been
// installed answers 503 until Install runs.
func New(cfg *config.Config, store *gtfs.Store, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	h := handler.New(store, logger)

	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("GET /shapes", h.Shapes)
	mux.HandleFunc("GET /shapes/{id}", h.ShapeByID)

	mux.HandleFunc("GET /stops", h.Stops)
	mux.HandleFunc("GET /stops/{id}", h.StopByID)

	mux.HandleFunc("GET /routes", h.Routes)
	mux.HandleFunc("GET /routes/{id}", h.RouteByID)

	mux.HandleFunc("GET /trips", h.Trips)
	mux.HandleFunc("GET /trips/{id}", h.TripByID)
	mux.HandleFunc("GET /trips/on/{date}", h.TripsByDate)

	mux.HandleFunc("GET /services/on/{date}", h.ServicesByDate)

	mux.HandleFunc("GET /vehicles/at/{datetime}", h.Vehicles)

	return &Server{mux: mux, cfg: cfg, logger: logger}
}

// Handler returns the fully wrapped handler, for use in tests and by
// ListenAndServe alike.
func (s *Server) Handler() http.Handler {
	return withMiddleware(s.mux, s.logger)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.logger.Info("server starting", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}
