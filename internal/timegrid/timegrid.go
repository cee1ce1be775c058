// Package timegrid maps wall-clock time onto the day timeline's discrete
// 15-minute slot grid and onto continuous pixel offsets. Stored event times
// are never snapped to the grid; quantization applies to layout only.
package timegrid

import (
	"fmt"
	"time"
)

const (
	// SlotMinutes is the grid granularity in minutes.
	SlotMinutes = 15
	// SlotsPerDay is 24 hours * 4 slots per hour.
	SlotsPerDay = 96
	// MinutesPerDay is 24 hours * 60 minutes.
	MinutesPerDay = 1440
	// SlotHeight is the rendered height of one slot in pixels.
	SlotHeight = 80.0
)

// SlotIndex returns the discrete slot index for an instant, by local time of
// day. An instant off the slot boundary maps to the slot containing it.
func SlotIndex(t time.Time) int {
	return minutesSinceMidnight(t) / SlotMinutes
}

// SlotOffset returns the pixel offset of a slot's top edge.
func SlotOffset(index int) float64 {
	return float64(index) * SlotHeight
}

// Top returns the continuous pixel offset for an instant. Unlike SlotOffset
// this uses fractional minutes, so off-boundary starts render proportionally
// instead of drifting to the slot edge.
func Top(t time.Time) float64 {
	return continuousMinutes(t) / SlotMinutes * SlotHeight
}

// Height returns the rendered block height for the half-open interval
// [start, end), proportional to its continuous duration.
func Height(start, end time.Time) float64 {
	return end.Sub(start).Minutes() / SlotMinutes * SlotHeight
}

// Labels returns the "HH:MM" ruler label for every slot of the day,
// "00:00" through "23:45".
func Labels() []string {
	labels := make([]string, 0, SlotsPerDay)
	for slot := range SlotsPerDay {
		mins := slot * SlotMinutes
		labels = append(labels, fmt.Sprintf("%02d:%02d", mins/60, mins%60))
	}
	return labels
}

// ParseSlot parses an "HH:MM" slot string into minutes since midnight.
// Accepted values cover 00:00 through 24:00 inclusive at 15-minute
// granularity; "24:00" is the end-of-day bound used by bookings ending at
// midnight.
func ParseSlot(s string) (int, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("invalid slot %q: %w", s, err)
	}
	if minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minutes in slot %q", s)
	}
	mins := hour*60 + minute
	if mins < 0 || mins > MinutesPerDay {
		return 0, fmt.Errorf("slot %q is outside 00:00-24:00", s)
	}
	if minute%SlotMinutes != 0 {
		return 0, fmt.Errorf("slot %q is not on a %d-minute boundary", s, SlotMinutes)
	}
	return mins, nil
}

// SlotTime combines a calendar day with minutes since midnight.
func SlotTime(day time.Time, mins int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).Add(time.Duration(mins) * time.Minute)
}

// minutesSinceMidnight returns whole minutes since local midnight.
func minutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// continuousMinutes includes seconds as a fraction, for pixel math.
func continuousMinutes(t time.Time) float64 {
	return float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
}
