package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/venuetable/venuetable-server/internal/scroll"
	"github.com/venuetable/venuetable-server/internal/store"
)

// manualScheduler collects tick callbacks so tests control frame timing.
type manualScheduler struct {
	pending []func()
}

func (s *manualScheduler) OnNextTick(fn func()) {
	s.pending = append(s.pending, fn)
}

func (s *manualScheduler) Tick() {
	pending := s.pending
	s.pending = nil
	for _, fn := range pending {
		fn()
	}
}

type testEnv struct {
	store     *store.Store
	venues    *VenueService
	bookings  *BookingService
	timetable *TimetableService
	scheduler *manualScheduler
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := store.New(t.TempDir(), logger, store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})

	scheduler := &manualScheduler{}
	venues := NewVenueService(s, logger)
	coord := scroll.NewCoordinator(scheduler)

	return &testEnv{
		store:     s,
		venues:    venues,
		bookings:  NewBookingService(s, logger),
		timetable: NewTimetableService(s, venues, coord, logger),
		scheduler: scheduler,
	}
}

// addVenue creates a venue and returns its id.
func (env *testEnv) addVenue(t *testing.T, name string) string {
	t.Helper()
	venue, err := env.venues.CreateVenue(context.Background(), VenueRequest{Name: name})
	require.NoError(t, err)
	return venue.ID
}
