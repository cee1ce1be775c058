package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/venuetable/venuetable-server/internal/domain"
	"github.com/venuetable/venuetable-server/internal/layout"
	"github.com/venuetable/venuetable-server/internal/scroll"
	"github.com/venuetable/venuetable-server/internal/store"
	"github.com/venuetable/venuetable-server/internal/timegrid"
)

// TimetableService assembles the day timeline rendering contract.
type TimetableService struct {
	store  *store.Store
	venues *VenueService
	coord  *scroll.Coordinator
	logger *slog.Logger
}

// NewTimetableService creates a new timetable service.
func NewTimetableService(store *store.Store, venues *VenueService, coord *scroll.Coordinator, logger *slog.Logger) *TimetableService {
	return &TimetableService{
		store:  store,
		venues: venues,
		coord:  coord,
		logger: logger,
	}
}

// Geometry carries the pixel constants clients need to render the grid.
type Geometry struct {
	SlotMinutes int     `json:"slot_minutes"`
	SlotsPerDay int     `json:"slots_per_day"`
	SlotHeight  float64 `json:"slot_height"`
	VenueWidth  float64 `json:"venue_width"`
}

// View is everything needed to render one day of the timetable.
type View struct {
	Day     string                         `json:"day"`
	Venues  []*domain.Venue                `json:"venues"`
	Events  []*domain.Event                `json:"events"`
	Blocks  []layout.VisualBlock           `json:"blocks"`
	Labels  []string                       `json:"labels"`
	Grid    Geometry                       `json:"grid"`
	Offsets map[scroll.Pane]scroll.Offsets `json:"offsets"`
}

// Timetable computes the full rendering contract for a day: the venue columns
// in order, the day's events, their visual blocks, the ruler labels, the grid
// constants, and the current scroll positions.
func (s *TimetableService) Timetable(ctx context.Context, day time.Time) (*View, error) {
	venues, err := s.venues.ListVenues(ctx)
	if err != nil {
		return nil, err
	}

	order := make(layout.Order, 0, len(venues))
	for _, venue := range venues {
		order = append(order, venue.ID)
	}

	events, err := s.store.Events.ListByIndex(ctx, "day", day.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}

	return &View{
		Day:    day.Format("2006-01-02"),
		Venues: venues,
		Events: events,
		Blocks: layout.Day(events, order, day),
		Labels: timegrid.Labels(),
		Grid: Geometry{
			SlotMinutes: timegrid.SlotMinutes,
			SlotsPerDay: timegrid.SlotsPerDay,
			SlotHeight:  timegrid.SlotHeight,
			VenueWidth:  layout.VenueWidth,
		},
		Offsets: s.coord.Offsets(),
	}, nil
}

// DaySummary is one entry of the day navigation strip.
type DaySummary struct {
	Date       string `json:"date"`
	Weekday    string `json:"weekday"`
	EventCount int    `json:"event_count"`
}

// Days expands an inclusive date range into navigation entries with per-day
// event counts. An inverted range yields an empty list.
func (s *TimetableService) Days(ctx context.Context, from, to time.Time) ([]DaySummary, error) {
	days := timegrid.DayRange(from, to)

	summaries := make([]DaySummary, 0, len(days))
	for _, day := range days {
		events, err := s.store.Events.ListByIndex(ctx, "day", day.Format("2006-01-02"))
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, DaySummary{
			Date:       day.Format("2006-01-02"),
			Weekday:    day.Weekday().String(),
			EventCount: len(events),
		})
	}
	return summaries, nil
}

// Scroll forwards a pane's scroll callback to the coordinator and returns
// whether it was accepted along with the resulting pane positions. A rejected
// callback is an echo of a direct write and carries no new information.
func (s *TimetableService) Scroll(pane scroll.Pane, offsets scroll.Offsets) (bool, map[scroll.Pane]scroll.Offsets) {
	accepted := s.coord.Scroll(pane, offsets)
	return accepted, s.coord.Offsets()
}
