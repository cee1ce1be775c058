// Package scroll synchronizes the three timetable panes: the time ruler
// scrolls vertically, the venue header horizontally, and the grid body on
// both axes. Whichever pane receives the raw user gesture becomes the source
// for it; the coordinator writes the source's offsets into the other panes
// directly and arms a per-pane busy flag so the echoes of those writes are
// swallowed instead of propagating forever. Flags clear on the next frame
// tick, which is injected so the state machine is testable without a real
// frame clock.
package scroll

import (
	"sync"
	"time"
)

// Pane identifies one of the three scrollable panes.
type Pane string

// The three panes of the timetable view.
const (
	PaneRuler  Pane = "ruler"  // vertical only
	PaneHeader Pane = "header" // horizontal only
	PaneBody   Pane = "body"   // both axes
)

// Panes lists every pane in display order.
var Panes = []Pane{PaneRuler, PaneHeader, PaneBody}

// Valid reports whether p names a known pane.
func (p Pane) Valid() bool {
	return p == PaneRuler || p == PaneHeader || p == PaneBody
}

// Offsets is a pane's scroll position in pixels.
type Offsets struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// Scheduler defers a function to the next frame boundary. Production code
// uses FrameScheduler; tests inject a manual implementation.
type Scheduler interface {
	OnNextTick(fn func())
}

// FrameScheduler runs callbacks after one animation-frame interval.
type FrameScheduler struct {
	Interval time.Duration
}

// OnNextTick implements Scheduler using a timer.
func (s FrameScheduler) OnNextTick(fn func()) {
	interval := s.Interval
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	time.AfterFunc(interval, fn)
}

// Listener observes direct offset writes to a pane. The API layer uses this
// to push positions to the rendered panes without going through their own
// scroll handlers.
type Listener func(pane Pane, offsets Offsets)

// Coordinator is the single-writer broadcast state machine.
type Coordinator struct {
	mu        sync.Mutex
	offsets   map[Pane]Offsets
	busy      map[Pane]bool
	scheduler Scheduler
	listeners []Listener
}

// NewCoordinator creates a coordinator with all panes at origin.
func NewCoordinator(scheduler Scheduler) *Coordinator {
	c := &Coordinator{
		offsets:   make(map[Pane]Offsets, len(Panes)),
		busy:      make(map[Pane]bool, len(Panes)),
		scheduler: scheduler,
	}
	for _, p := range Panes {
		c.offsets[p] = Offsets{}
	}
	return c
}

// Subscribe registers a listener for direct pane writes.
func (c *Coordinator) Subscribe(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Scroll handles a raw scroll callback from a pane. If the pane's busy flag
// is armed the callback is an echo of a direct write from another source and
// is dropped. Otherwise the pane becomes the source for this gesture: its
// offsets are recorded, the shared axes are copied into the other panes, and
// those panes are marked busy until the next tick.
func (c *Coordinator) Scroll(source Pane, offsets Offsets) bool {
	c.mu.Lock()

	if c.busy[source] {
		c.mu.Unlock()
		return false
	}

	offsets = clampAxes(source, offsets)
	c.offsets[source] = offsets

	var writes []write
	for _, target := range Panes {
		if target == source {
			continue
		}
		next, changed := propagate(source, target, offsets, c.offsets[target])
		if !changed {
			continue
		}
		c.offsets[target] = next
		c.busy[target] = true
		writes = append(writes, write{target, next})
	}

	if len(writes) > 0 {
		targets := make([]Pane, len(writes))
		for i, w := range writes {
			targets[i] = w.pane
		}
		c.scheduler.OnNextTick(func() { c.clear(targets) })
	}

	listeners := c.listeners
	c.mu.Unlock()

	// Direct writes bypass the targets' own scroll handlers.
	for _, w := range writes {
		for _, fn := range listeners {
			fn(w.pane, w.offsets)
		}
	}
	return true
}

// Offsets returns a snapshot of every pane's position.
func (c *Coordinator) Offsets() map[Pane]Offsets {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make(map[Pane]Offsets, len(c.offsets))
	for p, o := range c.offsets {
		snapshot[p] = o
	}
	return snapshot
}

// clear disarms the busy flags written during one gesture.
func (c *Coordinator) clear(targets []Pane) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range targets {
		c.busy[p] = false
	}
}

type write struct {
	pane    Pane
	offsets Offsets
}

// clampAxes zeroes the axis a pane cannot scroll on.
func clampAxes(p Pane, o Offsets) Offsets {
	switch p {
	case PaneRuler:
		o.Left = 0
	case PaneHeader:
		o.Top = 0
	}
	return o
}

// propagate copies the axes shared between source and target, preserving the
// target's position on axes the source does not drive.
func propagate(source, target Pane, from, current Offsets) (Offsets, bool) {
	next := current
	switch {
	case source == PaneBody && target == PaneRuler:
		next.Top = from.Top
	case source == PaneBody && target == PaneHeader:
		next.Left = from.Left
	case source == PaneRuler && target == PaneBody:
		next.Top = from.Top
	case source == PaneHeader && target == PaneBody:
		next.Left = from.Left
	default:
		// Ruler and header share no axis.
		return current, false
	}
	return next, next != current
}
