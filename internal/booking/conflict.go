// Package booking implements the conflict engine that decides whether a
// proposed event/venue/time combination is legal. All checks are pure
// functions over an in-memory snapshot of the event collection.
package booking

import (
	"time"

	"github.com/venuetable/venuetable-server/internal/domain"
	"github.com/venuetable/venuetable-server/internal/errors"
)

// Available reports whether a venue is free for the half-open interval
// [start, end) on start's calendar day. Candidates are events on the same
// local date that reference the venue; excludeEventID skips the event being
// edited so it never conflicts with itself. Boundary-touching intervals are
// not conflicts.
func Available(events []*domain.Event, venueID string, start, end time.Time, excludeEventID string) bool {
	for _, event := range events {
		if event.ID == excludeEventID {
			continue
		}
		if !event.OnDay(start) {
			continue
		}
		if !event.HasVenue(venueID) {
			continue
		}
		if event.Overlaps(start, end) {
			return false
		}
	}
	return true
}

// CheckAll verifies that every requested venue is independently available for
// the full interval. A booking across venues is all-or-nothing: the first
// unavailable venue fails the whole request with a conflict error naming the
// venue and day.
func CheckAll(events []*domain.Event, venueIDs []string, start, end time.Time, excludeEventID string) error {
	for _, venueID := range venueIDs {
		if !Available(events, venueID, start, end, excludeEventID) {
			return errors.Conflictf("venue %s is not available on %s for %s-%s",
				venueID,
				start.Format("2006-01-02"),
				start.Format("15:04"),
				end.Format("15:04"),
			).WithDetails(map[string]string{
				"venue_id": venueID,
				"day":      start.Format("2006-01-02"),
			})
		}
	}
	return nil
}

// FreeEndSlots returns the "HH:MM" end bounds reachable from start without
// colliding on any requested venue: slot boundaries strictly after start, up
// to and including the start of the earliest conflicting event (half-open
// intervals make that boundary itself a legal end). Used by the booking form
// to offer valid end times.
func FreeEndSlots(events []*domain.Event, venueIDs []string, start time.Time, excludeEventID string) []string {
	limit := endOfDay(start)
	for _, event := range events {
		if event.ID == excludeEventID || !event.OnDay(start) {
			continue
		}
		if !event.Start.After(start) {
			continue
		}
		for _, venueID := range venueIDs {
			if event.HasVenue(venueID) && event.Start.Before(limit) {
				limit = event.Start
			}
		}
	}

	var slots []string
	for t := start.Add(15 * time.Minute); !t.After(limit); t = t.Add(15 * time.Minute) {
		slots = append(slots, endLabel(t, start))
	}
	return slots
}

// endOfDay returns midnight at the end of t's calendar day.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}

// endLabel formats an end bound as "HH:MM", rendering next-midnight as the
// inclusive "24:00" boundary slot.
func endLabel(t, start time.Time) string {
	if t.Before(endOfDay(start)) {
		return t.Format("15:04")
	}
	return "24:00"
}
