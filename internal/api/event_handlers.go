package api

import (
	"encoding/json/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/venuetable/venuetable-server/internal/http/response"
	"github.com/venuetable/venuetable-server/internal/service"
)

// handleListEvents returns events, optionally filtered to one day via ?day=.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if dayStr := r.URL.Query().Get("day"); dayStr != "" {
		day, err := time.ParseInLocation("2006-01-02", dayStr, time.Local)
		if err != nil {
			response.BadRequest(w, "day must be formatted as 2006-01-02", s.logger)
			return
		}

		events, err := s.bookingService.ListBookingsByDay(ctx, day)
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}
		response.Success(w, events, s.logger)
		return
	}

	events, err := s.bookingService.ListBookings(ctx)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, events, s.logger)
}

// handleGetEvent returns a single event by ID.
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	event, err := s.bookingService.GetBooking(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, event, s.logger)
}

// handleCreateEvent books a new event after conflict checking.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req service.BookingRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	event, err := s.bookingService.CreateBooking(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, event, s.logger)
}

// handleUpdateEvent replaces an event after re-running conflict checks.
func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req service.BookingRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	event, err := s.bookingService.UpdateBooking(r.Context(), id, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, event, s.logger)
}

// handleDeleteEvent deletes an event. Deleting a missing event succeeds.
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.bookingService.DeleteBooking(r.Context(), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleCheckAvailability reports whether every requested venue is free for a
// proposed interval. Query: date, start, end, venue (repeatable), exclude.
func (s *Server) handleCheckAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := service.AvailabilityRequest{
		Date:           query.Get("date"),
		StartSlot:      query.Get("start"),
		EndSlot:        query.Get("end"),
		VenueIDs:       query["venue"],
		ExcludeEventID: query.Get("exclude"),
	}

	available, err := s.bookingService.CheckAvailability(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]bool{"available": available}, s.logger)
}

// handleEndSlots lists the legal "HH:MM" end bounds for a booking starting at
// the given slot. Query: date, start, venue (repeatable), exclude.
func (s *Server) handleEndSlots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := service.EndSlotsRequest{
		Date:           query.Get("date"),
		StartSlot:      query.Get("start"),
		VenueIDs:       query["venue"],
		ExcludeEventID: query.Get("exclude"),
	}

	slots, err := s.bookingService.EndSlots(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string][]string{"end_slots": slots}, s.logger)
}
