// Package api provides the HTTP API server and handlers for the VenueTable application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/venuetable/venuetable-server/internal/http/response"
	"github.com/venuetable/venuetable-server/internal/service"
	"github.com/venuetable/venuetable-server/internal/sse"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	venueService     *service.VenueService
	bookingService   *service.BookingService
	timetableService *service.TimetableService
	sseHandler       *sse.Handler
	router           *chi.Mux
	logger           *slog.Logger
	corsOrigin       string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(venueService *service.VenueService, bookingService *service.BookingService, timetableService *service.TimetableService, sseHandler *sse.Handler, corsOrigin string, logger *slog.Logger) *Server {
	s := &Server{
		venueService:     venueService,
		bookingService:   bookingService,
		timetableService: timetableService,
		sseHandler:       sseHandler,
		router:           chi.NewRouter(),
		logger:           logger,
		corsOrigin:       corsOrigin,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	origin := s.corsOrigin
	if origin == "" {
		origin = "*"
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{origin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Venues.
		r.Route("/venues", func(r chi.Router) {
			r.Get("/", s.handleListVenues)
			r.Post("/", s.handleCreateVenue)
			r.Get("/{id}", s.handleGetVenue)
			r.Put("/{id}", s.handleUpdateVenue)
			r.Delete("/{id}", s.handleDeleteVenue)
		})

		// Events (bookings).
		r.Route("/events", func(r chi.Router) {
			r.Get("/", s.handleListEvents)
			r.Post("/", s.handleCreateEvent)
			r.Get("/{id}", s.handleGetEvent)
			r.Put("/{id}", s.handleUpdateEvent)
			r.Delete("/{id}", s.handleDeleteEvent)
		})

		// Availability checks for the booking form.
		r.Route("/availability", func(r chi.Router) {
			r.Get("/", s.handleCheckAvailability)
			r.Get("/endslots", s.handleEndSlots)
		})

		// Day timeline.
		r.Route("/timetable", func(r chi.Router) {
			r.Get("/", s.handleTimetable)
			r.Get("/days", s.handleTimetableDays)
			r.Get("/stream", s.sseHandler.ServeHTTP)
		})

		// Scroll synchronization.
		r.Post("/scroll/{pane}", s.handleScroll)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
