package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/venuetable/venuetable-server/internal/booking"
	"github.com/venuetable/venuetable-server/internal/domain"
	"github.com/venuetable/venuetable-server/internal/errors"
	"github.com/venuetable/venuetable-server/internal/id"
	"github.com/venuetable/venuetable-server/internal/store"
	"github.com/venuetable/venuetable-server/internal/timegrid"
	"github.com/venuetable/venuetable-server/internal/validation"
)

// BookingService orchestrates event booking with conflict checking.
type BookingService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
}

// NewBookingService creates a new booking service.
func NewBookingService(store *store.Store, logger *slog.Logger) *BookingService {
	return &BookingService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
	}
}

// BookingRequest contains fields for creating or replacing an event.
// StartSlot and EndSlot are "HH:MM" strings on the 15-minute grid; "24:00" is
// a valid end bound. All-day bookings may omit both slots.
type BookingRequest struct {
	ID          string   `json:"id"` // Optional; a deterministic id is derived when empty.
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Date        string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartSlot   string   `json:"start_slot" validate:"omitempty,timeslot"`
	EndSlot     string   `json:"end_slot" validate:"omitempty,timeslot"`
	Color       string   `json:"color" validate:"omitempty,hexcolor"`
	AllDay      bool     `json:"all_day"`
	VenueIDs    []string `json:"venue_ids" validate:"required,min=1,unique"`
}

// GetBooking returns a single event.
func (s *BookingService) GetBooking(ctx context.Context, eventID string) (*domain.Event, error) {
	return s.store.Events.Get(ctx, eventID)
}

// ListBookings returns every event, in id order.
func (s *BookingService) ListBookings(ctx context.Context) ([]*domain.Event, error) {
	var events []*domain.Event
	for event, err := range s.store.Events.List(ctx) {
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

// ListBookingsByDay returns every event starting on the given local calendar
// date.
func (s *BookingService) ListBookingsByDay(ctx context.Context, day time.Time) ([]*domain.Event, error) {
	return s.store.Events.ListByIndex(ctx, "day", day.Format("2006-01-02"))
}

// CreateBooking validates, conflict-checks, and persists a new event.
// Checks run in order: field validation, venue existence, then per-venue
// availability across the whole venue set (all-or-nothing). A duplicate id
// surfaces as an ALREADY_EXISTS error, never a silent overwrite.
func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (*domain.Event, error) {
	start, end, err := s.resolveInterval(req)
	if err != nil {
		return nil, err
	}

	if err := s.checkVenuesExist(ctx, req.VenueIDs); err != nil {
		return nil, err
	}

	dayEvents, err := s.ListBookingsByDay(ctx, start)
	if err != nil {
		return nil, err
	}
	if err := booking.CheckAll(dayEvents, req.VenueIDs, start, end, ""); err != nil {
		return nil, err
	}

	eventID := req.ID
	if eventID == "" {
		eventID = id.Booking(start, req.VenueIDs)
	}

	event := &domain.Event{
		ID:          eventID,
		Title:       req.Title,
		Description: req.Description,
		Start:       start,
		End:         end,
		Color:       req.Color,
		AllDay:      req.AllDay,
		VenueIDs:    req.VenueIDs,
	}
	event.InitTimestamps()

	if err := s.store.Events.Create(ctx, eventID, event); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		"id", eventID,
		"title", req.Title,
		"day", event.DayKey(),
		"venues", len(req.VenueIDs))
	return event, nil
}

// UpdateBooking replaces an event after re-running the create-time checks.
// The event itself is excluded from conflict checking so it never collides
// with its own previous interval.
func (s *BookingService) UpdateBooking(ctx context.Context, eventID string, req BookingRequest) (*domain.Event, error) {
	existing, err := s.store.Events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	start, end, err := s.resolveInterval(req)
	if err != nil {
		return nil, err
	}

	if err := s.checkVenuesExist(ctx, req.VenueIDs); err != nil {
		return nil, err
	}

	dayEvents, err := s.ListBookingsByDay(ctx, start)
	if err != nil {
		return nil, err
	}
	if err := booking.CheckAll(dayEvents, req.VenueIDs, start, end, eventID); err != nil {
		return nil, err
	}

	event := &domain.Event{
		Timestamps:  existing.Timestamps,
		ID:          eventID,
		Title:       req.Title,
		Description: req.Description,
		Start:       start,
		End:         end,
		Color:       req.Color,
		AllDay:      req.AllDay,
		VenueIDs:    req.VenueIDs,
	}
	event.Touch()

	if err := s.store.Events.Update(ctx, eventID, event); err != nil {
		return nil, err
	}

	s.logger.Info("booking updated", "id", eventID, "day", event.DayKey())
	return event, nil
}

// DeleteBooking deletes an event. Deleting a missing event is not an error.
func (s *BookingService) DeleteBooking(ctx context.Context, eventID string) error {
	return s.store.Events.Delete(ctx, eventID)
}

// AvailabilityRequest describes a proposed interval to check.
type AvailabilityRequest struct {
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartSlot      string   `json:"start_slot" validate:"required,timeslot"`
	EndSlot        string   `json:"end_slot" validate:"required,timeslot"`
	VenueIDs       []string `json:"venue_ids" validate:"required,min=1,unique"`
	ExcludeEventID string   `json:"exclude_event_id"`
}

// CheckAvailability reports whether every requested venue is free for the
// interval. A conflict yields (false, nil); only parse and storage failures
// return an error.
func (s *BookingService) CheckAvailability(ctx context.Context, req AvailabilityRequest) (bool, error) {
	if err := s.validator.Validate(req); err != nil {
		return false, err
	}

	start, end, err := s.parseInterval(req.Date, req.StartSlot, req.EndSlot)
	if err != nil {
		return false, err
	}

	dayEvents, err := s.ListBookingsByDay(ctx, start)
	if err != nil {
		return false, err
	}

	if err := booking.CheckAll(dayEvents, req.VenueIDs, start, end, req.ExcludeEventID); err != nil {
		if errors.Is(err, errors.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EndSlotsRequest describes a start bound to enumerate legal end bounds for.
type EndSlotsRequest struct {
	Date           string   `json:"date" validate:"required,datetime=2006-01-02"`
	StartSlot      string   `json:"start_slot" validate:"required,timeslot"`
	VenueIDs       []string `json:"venue_ids" validate:"required,min=1,unique"`
	ExcludeEventID string   `json:"exclude_event_id"`
}

// EndSlots returns the "HH:MM" end bounds reachable from the start without
// conflicting on any requested venue. Used by booking forms to offer only
// valid end times.
func (s *BookingService) EndSlots(ctx context.Context, req EndSlotsRequest) ([]string, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	startMins, err := timegrid.ParseSlot(req.StartSlot)
	if err != nil {
		return nil, errors.Validationf("invalid start slot: %v", err)
	}
	if startMins >= timegrid.MinutesPerDay {
		return nil, errors.Validation("start slot must be before 24:00")
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, errors.Validationf("invalid date: %v", err)
	}
	start := timegrid.SlotTime(day, startMins)

	dayEvents, err := s.ListBookingsByDay(ctx, start)
	if err != nil {
		return nil, err
	}

	return booking.FreeEndSlots(dayEvents, req.VenueIDs, start, req.ExcludeEventID), nil
}

// resolveInterval validates a booking request and produces its [start, end)
// interval. All-day bookings span the whole day regardless of slots.
func (s *BookingService) resolveInterval(req BookingRequest) (start, end time.Time, err error) {
	if err := s.validator.Validate(req); err != nil {
		return time.Time{}, time.Time{}, err
	}

	if req.AllDay {
		day, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, errors.Validationf("invalid date: %v", err)
		}
		return timegrid.Midnight(day), timegrid.SlotTime(day, timegrid.MinutesPerDay), nil
	}

	if req.StartSlot == "" || req.EndSlot == "" {
		return time.Time{}, time.Time{}, errors.Validation("start_slot and end_slot are required for timed bookings")
	}
	return s.parseInterval(req.Date, req.StartSlot, req.EndSlot)
}

// parseInterval turns a date plus two slot strings into concrete instants,
// enforcing that the end is strictly after the start.
func (s *BookingService) parseInterval(date, startSlot, endSlot string) (start, end time.Time, err error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Validationf("invalid date: %v", err)
	}

	startMins, err := timegrid.ParseSlot(startSlot)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Validationf("invalid start slot: %v", err)
	}
	endMins, err := timegrid.ParseSlot(endSlot)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Validationf("invalid end slot: %v", err)
	}

	if startMins >= timegrid.MinutesPerDay {
		return time.Time{}, time.Time{}, errors.Validation("start slot must be before 24:00")
	}
	if endMins <= startMins {
		return time.Time{}, time.Time{}, errors.Validation("end slot must be after start slot")
	}

	return timegrid.SlotTime(day, startMins), timegrid.SlotTime(day, endMins), nil
}

// checkVenuesExist rejects bookings that reference unknown venues.
func (s *BookingService) checkVenuesExist(ctx context.Context, venueIDs []string) error {
	for _, venueID := range venueIDs {
		if _, err := s.store.Venues.Get(ctx, venueID); err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				return errors.Validationf("venue %s does not exist", venueID).
					WithDetails(map[string]string{"venue_id": venueID})
			}
			return err
		}
	}
	return nil
}
