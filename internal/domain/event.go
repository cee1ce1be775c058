package domain

import (
	"slices"
	"time"
)

// Event represents a booking of one or more venues for a time interval on a
// single day. Start and End are stored with full precision; the 15-minute slot
// grid is a layout concern only. VenueIDs is an ordered set: ids are unique
// within it and must be non-empty at creation time.
type Event struct {
	Timestamps
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Color       string    `json:"color,omitempty"`
	AllDay      bool      `json:"all_day"`
	VenueIDs    []string  `json:"venue_ids"`
}

// Duration returns the event length.
func (e *Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// Day returns the event's calendar day, keyed by the local date of Start.
// Events spanning midnight are out of scope; date-of-start is authoritative.
func (e *Event) Day() time.Time {
	y, m, d := e.Start.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.Start.Location())
}

// DayKey returns the store index key for the event's day ("2006-01-02").
func (e *Event) DayKey() string {
	return e.Start.Format("2006-01-02")
}

// OnDay reports whether the event's start falls on the same local calendar
// date as day.
func (e *Event) OnDay(day time.Time) bool {
	y1, m1, d1 := e.Start.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// HasVenue reports whether the event is assigned to the given venue.
func (e *Event) HasVenue(venueID string) bool {
	return slices.Contains(e.VenueIDs, venueID)
}

// Overlaps reports whether [start, end) intersects the event's own half-open
// interval. Boundary-touching intervals do not overlap.
func (e *Event) Overlaps(start, end time.Time) bool {
	return start.Before(e.End) && end.After(e.Start)
}

// RemoveVenue removes a venue id from the event's venue set.
// Returns false if the venue was not assigned. Updates UpdatedAt on success.
func (e *Event) RemoveVenue(venueID string) bool {
	for i, id := range e.VenueIDs {
		if id == venueID {
			e.VenueIDs = append(e.VenueIDs[:i], e.VenueIDs[i+1:]...)
			e.Touch()
			return true
		}
	}
	return false
}
