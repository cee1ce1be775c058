package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/venuetable/venuetable-server/internal/http/response"
	"github.com/venuetable/venuetable-server/internal/service"
)

// handleListVenues returns all venues in timeline column order.
func (s *Server) handleListVenues(w http.ResponseWriter, r *http.Request) {
	venues, err := s.venueService.ListVenues(r.Context())
	if err != nil {
		s.logger.Error("Failed to list venues", "error", err)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, venues, s.logger)
}

// handleGetVenue returns a single venue by ID.
func (s *Server) handleGetVenue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	venue, err := s.venueService.GetVenue(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, venue, s.logger)
}

// handleCreateVenue creates a new venue.
func (s *Server) handleCreateVenue(w http.ResponseWriter, r *http.Request) {
	var req service.VenueRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	venue, err := s.venueService.CreateVenue(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, venue, s.logger)
}

// handleUpdateVenue replaces a venue's fields.
func (s *Server) handleUpdateVenue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req service.VenueRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	venue, err := s.venueService.UpdateVenue(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, venue, s.logger)
}

// handleDeleteVenue deletes a venue and cascades through its bookings.
// The response body carries the cascade summary so clients can reconcile
// their local event state.
func (s *Server) handleDeleteVenue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := s.venueService.DeleteVenue(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}
