// Package sse implements Server-Sent Events for real-time timetable updates and event broadcasting.
package sse

import (
	"time"

	"github.com/venuetable/venuetable-server/internal/scroll"
	"github.com/venuetable/venuetable-server/internal/store"
)

// All timetable interactions follow a request/response pattern, so SSE covers
// the server-to-client direction: store mutations and scroll position fanout.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventVenueCreated represents a venue creation event.
	EventVenueCreated EventType = "venue.created"
	// EventVenueUpdated represents a venue update event.
	EventVenueUpdated EventType = "venue.updated"
	// EventVenueDeleted represents a venue deletion event.
	EventVenueDeleted EventType = "venue.deleted"

	// EventBookingCreated represents an event creation.
	EventBookingCreated EventType = "event.created"
	// EventBookingUpdated represents an event update.
	EventBookingUpdated EventType = "event.updated"
	// EventBookingDeleted represents an event deletion.
	EventBookingDeleted EventType = "event.deleted"

	// EventScroll represents a scroll position broadcast.
	EventScroll EventType = "timetable.scroll"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// ChangeEventData is the data payload for store change events.
type ChangeEventData struct {
	ID   string `json:"id"`
	Data any    `json:"data,omitempty"`
}

// ScrollEventData is the data payload for scroll broadcasts.
type ScrollEventData struct {
	Pane    scroll.Pane    `json:"pane"`
	Offsets scroll.Offsets `json:"offsets"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
		Data:      HeartbeatEventData{ServerTime: time.Now()},
	}
}

// NewChangeEvent converts a store change into an SSE event.
func NewChangeEvent(change store.Change) Event {
	return Event{
		Type:      EventType(change.Kind + "." + change.Op),
		Timestamp: time.Now(),
		Data:      ChangeEventData{ID: change.ID, Data: change.Data},
	}
}

// NewScrollEvent creates a scroll broadcast event.
func NewScrollEvent(pane scroll.Pane, offsets scroll.Offsets) Event {
	return Event{
		Type:      EventScroll,
		Timestamp: time.Now(),
		Data:      ScrollEventData{Pane: pane, Offsets: offsets},
	}
}
