package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/venuetable/venuetable-server/internal/errors"
)

func TestDeleteVenueCascade_StripsAndDeletes(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)

	require.NoError(t, s.Venues.Create(ctx, "venue-a", testVenue("venue-a", "A")))
	require.NoError(t, s.Venues.Create(ctx, "venue-b", testVenue("venue-b", "B")))

	// Booked only in A: the cascade must delete it.
	only := testEvent("ev-only", "Solo", day.Add(9*time.Hour), day.Add(10*time.Hour), "venue-a")
	// Booked in A and B: the cascade must keep it with A stripped.
	both := testEvent("ev-both", "Joint", day.Add(11*time.Hour), day.Add(12*time.Hour), "venue-a", "venue-b")
	// Not booked in A: the cascade must not touch it.
	other := testEvent("ev-other", "Elsewhere", day.Add(13*time.Hour), day.Add(14*time.Hour), "venue-b")

	require.NoError(t, s.Events.Create(ctx, only.ID, only))
	require.NoError(t, s.Events.Create(ctx, both.ID, both))
	require.NoError(t, s.Events.Create(ctx, other.ID, other))

	result, err := s.DeleteVenueCascade(ctx, "venue-a")
	require.NoError(t, err)

	assert.Equal(t, "A", result.Venue.Name)
	assert.Equal(t, []string{"ev-only"}, result.DeletedEventIDs)
	require.Len(t, result.UpdatedEvents, 1)
	assert.Equal(t, []string{"venue-b"}, result.UpdatedEvents[0].VenueIDs)

	_, err = s.Venues.Get(ctx, "venue-a")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = s.Events.Get(ctx, "ev-only")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	kept, err := s.Events.Get(ctx, "ev-both")
	require.NoError(t, err)
	assert.Equal(t, []string{"venue-b"}, kept.VenueIDs)

	untouched, err := s.Events.Get(ctx, "ev-other")
	require.NoError(t, err)
	assert.Equal(t, []string{"venue-b"}, untouched.VenueIDs)
}

func TestDeleteVenueCascade_MissingVenue(t *testing.T) {
	s, _ := setupTestStore(t)

	_, err := s.DeleteVenueCascade(context.Background(), "nope")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestDeleteVenueCascade_CleansDayIndexOfDeletedEvents(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)

	require.NoError(t, s.Venues.Create(ctx, "venue-a", testVenue("venue-a", "A")))
	ev := testEvent("ev-1", "Solo", day.Add(9*time.Hour), day.Add(10*time.Hour), "venue-a")
	require.NoError(t, s.Events.Create(ctx, ev.ID, ev))

	_, err := s.DeleteVenueCascade(ctx, "venue-a")
	require.NoError(t, err)

	events, err := s.Events.ListByIndex(ctx, "day", "2026-08-28")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestDeleteVenueCascade_EmitsAfterCommit(t *testing.T) {
	s, emitter := setupTestStore(t)
	ctx := context.Background()

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)

	require.NoError(t, s.Venues.Create(ctx, "venue-a", testVenue("venue-a", "A")))
	require.NoError(t, s.Venues.Create(ctx, "venue-b", testVenue("venue-b", "B")))

	only := testEvent("ev-only", "Solo", day.Add(9*time.Hour), day.Add(10*time.Hour), "venue-a")
	both := testEvent("ev-both", "Joint", day.Add(11*time.Hour), day.Add(12*time.Hour), "venue-a", "venue-b")
	require.NoError(t, s.Events.Create(ctx, only.ID, only))
	require.NoError(t, s.Events.Create(ctx, both.ID, both))

	before := len(emitter.all())
	_, err := s.DeleteVenueCascade(ctx, "venue-a")
	require.NoError(t, err)

	changes := emitter.all()[before:]
	require.Len(t, changes, 3)
	assert.Equal(t, Change{Kind: "venue", Op: OpDeleted, ID: "venue-a"}, changes[0])
	assert.Equal(t, "ev-both", changes[1].ID)
	assert.Equal(t, OpUpdated, changes[1].Op)
	assert.Equal(t, "ev-only", changes[2].ID)
	assert.Equal(t, OpDeleted, changes[2].Op)
}
