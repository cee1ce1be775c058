// Package layout converts a day's events into pixel-accurate visual blocks on
// the multi-venue grid. It is a pure function of its inputs: no mutation, no
// I/O, and identical inputs produce identical, order-stable output.
package layout

import (
	"sort"
	"time"

	"github.com/venuetable/venuetable-server/internal/domain"
	"github.com/venuetable/venuetable-server/internal/timegrid"
)

// VenueWidth is the rendered width of one venue column in pixels.
const VenueWidth = 250.0

// VisualBlock is one contiguous-venue-run rendering of (part of) an event.
// An event assigned to non-consecutive venues produces multiple blocks, all
// carrying the same event id and time; GroupIndex distinguishes them.
type VisualBlock struct {
	EventID    string  `json:"event_id"`
	Top        float64 `json:"top"`
	Height     float64 `json:"height"`
	Left       float64 `json:"left"`
	Width      float64 `json:"width"`
	GroupIndex int     `json:"group_index"`
}

// Day computes the visual blocks for every event starting on the given local
// calendar date. Venue ids with no position in the order contribute no
// geometry; an event whose venues all resolve to nothing yields zero blocks.
// Blocks are returned sorted by (EventID, Left) so output order is stable
// across calls.
func Day(events []*domain.Event, order Order, day time.Time) []VisualBlock {
	var blocks []VisualBlock

	for _, event := range events {
		if !event.OnDay(day) {
			continue
		}

		top := timegrid.Top(event.Start)
		height := timegrid.Height(event.Start, event.End)

		for i, run := range venueRuns(event, order) {
			blocks = append(blocks, VisualBlock{
				EventID:    event.ID,
				Top:        top,
				Height:     height,
				Left:       float64(run.first) * VenueWidth,
				Width:      float64(run.length) * VenueWidth,
				GroupIndex: i,
			})
		}
	}

	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].EventID != blocks[j].EventID {
			return blocks[i].EventID < blocks[j].EventID
		}
		return blocks[i].Left < blocks[j].Left
	})

	return blocks
}

// run is a maximal sequence of consecutive venue positions.
type run struct {
	first  int
	length int
}

// venueRuns resolves an event's venue ids to column positions and partitions
// them into maximal runs of consecutive integers.
func venueRuns(event *domain.Event, order Order) []run {
	positions := make([]int, 0, len(event.VenueIDs))
	for _, id := range event.VenueIDs {
		if pos := order.IndexOf(id); pos >= 0 {
			positions = append(positions, pos)
		}
	}
	if len(positions) == 0 {
		return nil
	}
	sort.Ints(positions)

	runs := []run{{first: positions[0], length: 1}}
	for _, pos := range positions[1:] {
		last := &runs[len(runs)-1]
		switch {
		case pos == last.first+last.length:
			last.length++
		case pos > last.first+last.length:
			runs = append(runs, run{first: pos, length: 1})
		}
		// Duplicate positions fold into the current run.
	}
	return runs
}
