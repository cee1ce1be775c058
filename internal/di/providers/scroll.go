package providers

import (
	"github.com/samber/do/v2"

	"github.com/venuetable/venuetable-server/internal/scroll"
)

// ProvideScrollCoordinator provides the pane scroll coordinator. Direct pane
// writes are pushed to connected clients over SSE so every open timetable
// stays in lockstep with the gesture source.
func ProvideScrollCoordinator(i do.Injector) (*scroll.Coordinator, error) {
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	coord := scroll.NewCoordinator(scroll.FrameScheduler{})
	coord.Subscribe(func(pane scroll.Pane, offsets scroll.Offsets) {
		sseHandle.EmitScroll(pane, offsets)
	})

	return coord, nil
}
