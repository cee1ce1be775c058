package layout

// Order is the externally supplied display order of venues on the grid.
// Position 0 is the leftmost column. The order is owned by the caller; the
// layout engine only reads it.
type Order []string

// IndexOf returns the column position of a venue id, or -1 if the id is not
// part of the displayed order (a stale reference).
func (o Order) IndexOf(venueID string) int {
	for i, id := range o {
		if id == venueID {
			return i
		}
	}
	return -1
}
