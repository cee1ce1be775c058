package api

import (
	"bytes"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venuetable/venuetable-server/internal/http/response"
	"github.com/venuetable/venuetable-server/internal/scroll"
	"github.com/venuetable/venuetable-server/internal/service"
	"github.com/venuetable/venuetable-server/internal/sse"
	"github.com/venuetable/venuetable-server/internal/store"
)

// setupTestServer creates a test server with all dependencies.
func setupTestServer(t *testing.T) *Server {
	t.Helper()

	// Create a no-op logger for tests (discards all logs).
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// Create SSE manager for testing.
	sseManager := sse.NewManager(logger)
	sseHandler := sse.NewHandler(sseManager, logger)

	// Create store with SSE manager.
	s, err := store.New(t.TempDir(), logger, sseManager)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close() //nolint:errcheck // Cleanup function
	})

	coord := scroll.NewCoordinator(scroll.FrameScheduler{Interval: time.Millisecond})

	venueService := service.NewVenueService(s, logger)
	bookingService := service.NewBookingService(s, logger)
	timetableService := service.NewTimetableService(s, venueService, coord, logger)

	return NewServer(venueService, bookingService, timetableService, sseHandler, "*", logger)
}

// doJSON performs a request with an optional JSON body and decodes the envelope.
func doJSON(t *testing.T, server *Server, method, path string, body any) (int, response.Envelope) {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)

	var envelope response.Envelope
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w.Code, envelope
}

// createVenue creates a venue through the API and returns its id.
func createVenue(t *testing.T, server *Server, name string) string {
	t.Helper()

	code, envelope := doJSON(t, server, http.MethodPost, "/api/v1/venues", service.VenueRequest{Name: name})
	require.Equal(t, http.StatusCreated, code)

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	id, ok := data["id"].(string)
	require.True(t, ok)
	return id
}

func TestHealthCheck(t *testing.T) {
	server := setupTestServer(t)

	code, envelope := doJSON(t, server, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, envelope.Success)
	assert.NotNil(t, envelope.Data)
}

func TestVenueCRUD(t *testing.T) {
	server := setupTestServer(t)

	venueID := createVenue(t, server, "Main Hall")

	code, envelope := doJSON(t, server, http.MethodGet, "/api/v1/venues/"+venueID, nil)
	require.Equal(t, http.StatusOK, code)
	data := envelope.Data.(map[string]any)
	assert.Equal(t, "Main Hall", data["name"])

	code, envelope = doJSON(t, server, http.MethodPut, "/api/v1/venues/"+venueID, service.VenueRequest{
		Name:     "Grand Hall",
		Capacity: 300,
	})
	require.Equal(t, http.StatusOK, code)
	data = envelope.Data.(map[string]any)
	assert.Equal(t, "Grand Hall", data["name"])

	code, envelope = doJSON(t, server, http.MethodGet, "/api/v1/venues", nil)
	require.Equal(t, http.StatusOK, code)
	venues := envelope.Data.([]any)
	assert.Len(t, venues, 1)
}

func TestCreateVenue_ValidationError(t *testing.T) {
	server := setupTestServer(t)

	code, envelope := doJSON(t, server, http.MethodPost, "/api/v1/venues", service.VenueRequest{Name: ""})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION", envelope.Error.Code)
}

func TestGetVenue_NotFound(t *testing.T) {
	server := setupTestServer(t)

	code, envelope := doJSON(t, server, http.MethodGet, "/api/v1/venues/venue-missing", nil)

	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestEventBookingFlow(t *testing.T) {
	server := setupTestServer(t)
	venueID := createVenue(t, server, "Hall")

	code, envelope := doJSON(t, server, http.MethodPost, "/api/v1/events", service.BookingRequest{
		Title:     "Team Sync",
		Date:      "2026-08-28",
		StartSlot: "10:00",
		EndSlot:   "11:00",
		VenueIDs:  []string{venueID},
	})
	require.Equal(t, http.StatusCreated, code)
	data := envelope.Data.(map[string]any)
	eventID := data["id"].(string)
	assert.NotEmpty(t, eventID)

	// Overlapping booking on the same venue is a conflict.
	code, envelope = doJSON(t, server, http.MethodPost, "/api/v1/events", service.BookingRequest{
		Title:     "Overlap",
		Date:      "2026-08-28",
		StartSlot: "10:30",
		EndSlot:   "11:30",
		VenueIDs:  []string{venueID},
	})
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "CONFLICT", envelope.Error.Code)

	// Back-to-back booking is legal.
	code, _ = doJSON(t, server, http.MethodPost, "/api/v1/events", service.BookingRequest{
		Title:     "After",
		Date:      "2026-08-28",
		StartSlot: "11:00",
		EndSlot:   "12:00",
		VenueIDs:  []string{venueID},
	})
	assert.Equal(t, http.StatusCreated, code)

	// Day filter returns both bookings.
	code, envelope = doJSON(t, server, http.MethodGet, "/api/v1/events?day=2026-08-28", nil)
	require.Equal(t, http.StatusOK, code)
	events := envelope.Data.([]any)
	assert.Len(t, events, 2)

	// Delete is idempotent.
	code, _ = doJSON(t, server, http.MethodDelete, "/api/v1/events/"+eventID, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = doJSON(t, server, http.MethodDelete, "/api/v1/events/"+eventID, nil)
	assert.Equal(t, http.StatusNoContent, code)
}

func TestCreateEvent_UnknownVenue(t *testing.T) {
	server := setupTestServer(t)

	code, envelope := doJSON(t, server, http.MethodPost, "/api/v1/events", service.BookingRequest{
		Title:     "Ghost",
		Date:      "2026-08-28",
		StartSlot: "10:00",
		EndSlot:   "11:00",
		VenueIDs:  []string{"venue-missing"},
	})

	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION", envelope.Error.Code)
}

func TestDeleteVenue_CascadeResponse(t *testing.T) {
	server := setupTestServer(t)
	venueID := createVenue(t, server, "Hall")

	code, _ := doJSON(t, server, http.MethodPost, "/api/v1/events", service.BookingRequest{
		Title:     "Solo",
		Date:      "2026-08-28",
		StartSlot: "09:00",
		EndSlot:   "10:00",
		VenueIDs:  []string{venueID},
	})
	require.Equal(t, http.StatusCreated, code)

	code, envelope := doJSON(t, server, http.MethodDelete, "/api/v1/venues/"+venueID, nil)
	require.Equal(t, http.StatusOK, code)

	data := envelope.Data.(map[string]any)
	deleted := data["deleted_event_ids"].([]any)
	assert.Len(t, deleted, 1)
}

func TestAvailability(t *testing.T) {
	server := setupTestServer(t)
	venueID := createVenue(t, server, "Hall")

	code, _ := doJSON(t, server, http.MethodPost, "/api/v1/events", service.BookingRequest{
		Title:     "Busy",
		Date:      "2026-08-28",
		StartSlot: "10:00",
		EndSlot:   "11:00",
		VenueIDs:  []string{venueID},
	})
	require.Equal(t, http.StatusCreated, code)

	code, envelope := doJSON(t, server, http.MethodGet,
		"/api/v1/availability?date=2026-08-28&start=10:30&end=11:30&venue="+venueID, nil)
	require.Equal(t, http.StatusOK, code)
	data := envelope.Data.(map[string]any)
	assert.Equal(t, false, data["available"])

	code, envelope = doJSON(t, server, http.MethodGet,
		"/api/v1/availability?date=2026-08-28&start=11:00&end=12:00&venue="+venueID, nil)
	require.Equal(t, http.StatusOK, code)
	data = envelope.Data.(map[string]any)
	assert.Equal(t, true, data["available"])
}

func TestEndSlots(t *testing.T) {
	server := setupTestServer(t)
	venueID := createVenue(t, server, "Hall")

	code, _ := doJSON(t, server, http.MethodPost, "/api/v1/events", service.BookingRequest{
		Title:     "Later",
		Date:      "2026-08-28",
		StartSlot: "11:00",
		EndSlot:   "12:00",
		VenueIDs:  []string{venueID},
	})
	require.Equal(t, http.StatusCreated, code)

	code, envelope := doJSON(t, server, http.MethodGet,
		"/api/v1/availability/endslots?date=2026-08-28&start=10:00&venue="+venueID, nil)
	require.Equal(t, http.StatusOK, code)

	data := envelope.Data.(map[string]any)
	slots := data["end_slots"].([]any)
	assert.Equal(t, []any{"10:15", "10:30", "10:45", "11:00"}, slots)
}

func TestTimetable(t *testing.T) {
	server := setupTestServer(t)
	venueID := createVenue(t, server, "Hall")

	code, _ := doJSON(t, server, http.MethodPost, "/api/v1/events", service.BookingRequest{
		Title:     "Sync",
		Date:      "2026-08-28",
		StartSlot: "10:00",
		EndSlot:   "11:00",
		VenueIDs:  []string{venueID},
	})
	require.Equal(t, http.StatusCreated, code)

	code, envelope := doJSON(t, server, http.MethodGet, "/api/v1/timetable?day=2026-08-28", nil)
	require.Equal(t, http.StatusOK, code)

	data := envelope.Data.(map[string]any)
	assert.Equal(t, "2026-08-28", data["day"])
	assert.Len(t, data["labels"].([]any), 96)
	assert.Len(t, data["blocks"].([]any), 1)

	grid := data["grid"].(map[string]any)
	assert.Equal(t, 80.0, grid["slot_height"])
	assert.Equal(t, 250.0, grid["venue_width"])
}

func TestTimetable_BadDay(t *testing.T) {
	server := setupTestServer(t)

	code, envelope := doJSON(t, server, http.MethodGet, "/api/v1/timetable?day=28-08-2026", nil)

	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, envelope.Error)
}

func TestTimetableDays(t *testing.T) {
	server := setupTestServer(t)

	code, envelope := doJSON(t, server, http.MethodGet,
		"/api/v1/timetable/days?from=2026-08-27&to=2026-08-29", nil)
	require.Equal(t, http.StatusOK, code)

	days := envelope.Data.([]any)
	require.Len(t, days, 3)
	first := days[0].(map[string]any)
	assert.Equal(t, "2026-08-27", first["date"])
}

func TestScroll(t *testing.T) {
	server := setupTestServer(t)

	code, envelope := doJSON(t, server, http.MethodPost, "/api/v1/scroll/body",
		scroll.Offsets{Left: 250, Top: 640})
	require.Equal(t, http.StatusOK, code)

	data := envelope.Data.(map[string]any)
	assert.Equal(t, true, data["accepted"])

	offsets := data["offsets"].(map[string]any)
	ruler := offsets["ruler"].(map[string]any)
	assert.Equal(t, 640.0, ruler["top"])
}

func TestScroll_InvalidPane(t *testing.T) {
	server := setupTestServer(t)

	code, envelope := doJSON(t, server, http.MethodPost, "/api/v1/scroll/sidebar",
		scroll.Offsets{Top: 100})

	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, envelope.Error)
}
