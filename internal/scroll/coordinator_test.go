package scroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manualScheduler collects tick callbacks so tests control the frame clock.
type manualScheduler struct {
	pending []func()
}

func (s *manualScheduler) OnNextTick(fn func()) {
	s.pending = append(s.pending, fn)
}

// Tick runs everything scheduled so far, like one frame boundary passing.
func (s *manualScheduler) Tick() {
	pending := s.pending
	s.pending = nil
	for _, fn := range pending {
		fn()
	}
}

func newTestCoordinator() (*Coordinator, *manualScheduler) {
	sched := &manualScheduler{}
	return NewCoordinator(sched), sched
}

func TestScroll_BodyDrivesBothPanes(t *testing.T) {
	c, _ := newTestCoordinator()

	accepted := c.Scroll(PaneBody, Offsets{Left: 120, Top: 340})

	require.True(t, accepted)
	offsets := c.Offsets()
	assert.Equal(t, Offsets{Left: 120, Top: 340}, offsets[PaneBody])
	assert.Equal(t, Offsets{Top: 340}, offsets[PaneRuler])
	assert.Equal(t, Offsets{Left: 120}, offsets[PaneHeader])
}

func TestScroll_RulerDrivesBodyVerticalOnly(t *testing.T) {
	c, sched := newTestCoordinator()
	c.Scroll(PaneBody, Offsets{Left: 100, Top: 0})
	sched.Tick()

	c.Scroll(PaneRuler, Offsets{Top: 200})

	offsets := c.Offsets()
	assert.Equal(t, Offsets{Left: 100, Top: 200}, offsets[PaneBody])
	// Header keeps its horizontal position, untouched by a vertical gesture.
	assert.Equal(t, Offsets{Left: 100}, offsets[PaneHeader])
}

func TestScroll_HeaderDrivesBodyHorizontalOnly(t *testing.T) {
	c, sched := newTestCoordinator()
	c.Scroll(PaneBody, Offsets{Left: 0, Top: 300})
	sched.Tick()

	c.Scroll(PaneHeader, Offsets{Left: 500})

	offsets := c.Offsets()
	assert.Equal(t, Offsets{Left: 500, Top: 300}, offsets[PaneBody])
	assert.Equal(t, Offsets{Top: 300}, offsets[PaneRuler])
}

func TestScroll_EchoSuppressedUntilTick(t *testing.T) {
	c, sched := newTestCoordinator()
	c.Scroll(PaneBody, Offsets{Left: 120, Top: 340})

	// The direct write to the ruler produces a scroll callback of its own;
	// the armed busy flag must swallow it.
	echoed := c.Scroll(PaneRuler, Offsets{Top: 340})
	assert.False(t, echoed)

	// After the frame boundary the ruler accepts gestures again.
	sched.Tick()
	accepted := c.Scroll(PaneRuler, Offsets{Top: 400})
	assert.True(t, accepted)
	assert.Equal(t, 400.0, c.Offsets()[PaneBody].Top)
}

func TestScroll_NoStormBetweenPanes(t *testing.T) {
	c, _ := newTestCoordinator()

	var writes int
	c.Subscribe(func(Pane, Offsets) { writes++ })

	c.Scroll(PaneBody, Offsets{Left: 10, Top: 20})

	// One gesture writes at most the two other panes, never more.
	assert.LessOrEqual(t, writes, 2)
}

func TestScroll_SourceStaysResponsive(t *testing.T) {
	// The source pane itself is never marked busy: consecutive gestures on
	// the same pane within one frame all apply.
	c, _ := newTestCoordinator()

	assert.True(t, c.Scroll(PaneBody, Offsets{Top: 100}))
	assert.True(t, c.Scroll(PaneBody, Offsets{Top: 110}))
	assert.Equal(t, 110.0, c.Offsets()[PaneBody].Top)
}

func TestScroll_AxisClamping(t *testing.T) {
	c, _ := newTestCoordinator()

	c.Scroll(PaneRuler, Offsets{Left: 999, Top: 50})

	offsets := c.Offsets()
	// A ruler gesture cannot move anything horizontally.
	assert.Equal(t, 0.0, offsets[PaneRuler].Left)
	assert.Equal(t, 0.0, offsets[PaneBody].Left)
	assert.Equal(t, 50.0, offsets[PaneBody].Top)
}

func TestScroll_ListenersSeeDirectWrites(t *testing.T) {
	c, _ := newTestCoordinator()

	got := make(map[Pane]Offsets)
	c.Subscribe(func(p Pane, o Offsets) { got[p] = o })

	c.Scroll(PaneBody, Offsets{Left: 120, Top: 340})

	assert.Equal(t, Offsets{Top: 340}, got[PaneRuler])
	assert.Equal(t, Offsets{Left: 120}, got[PaneHeader])
	_, sourceNotified := got[PaneBody]
	assert.False(t, sourceNotified)
}

func TestScroll_UnchangedOffsetsDoNotArmFlags(t *testing.T) {
	c, sched := newTestCoordinator()
	c.Scroll(PaneBody, Offsets{Top: 100})
	sched.Tick()

	// Re-scrolling to the same position writes nothing and arms nothing.
	c.Scroll(PaneBody, Offsets{Top: 100})
	assert.True(t, c.Scroll(PaneRuler, Offsets{Top: 200}))
}

func TestPane_Valid(t *testing.T) {
	assert.True(t, PaneBody.Valid())
	assert.True(t, PaneRuler.Valid())
	assert.True(t, PaneHeader.Valid())
	assert.False(t, Pane("sidebar").Valid())
}
