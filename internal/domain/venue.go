package domain

// Venue represents a bookable physical space. Venues are referenced by ID from
// events, never embedded, and their order on the timeline is supplied
// externally (see layout.Order).
type Venue struct {
	Timestamps
	ID       string `json:"id"`
	Name     string `json:"name"`               // Display name: "Main Auditorium"
	Color    string `json:"color,omitempty"`    // Hex color for the header and blocks
	Capacity int    `json:"capacity,omitempty"` // Seats, 0 means unspecified
}
