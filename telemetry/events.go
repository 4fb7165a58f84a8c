// Package telemetry provides performance tracking, field statistics,
// bookmarks and scene snapshots for the fluid sandbox.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSplat EventType = iota
	EventObstacle
	EventFieldAdded
	EventFieldRemoved
	EventEmitterAdded
	EventReset

	numEventTypes
)

func (t EventType) String() string {
	switch t {
	case EventSplat:
		return "splat"
	case EventObstacle:
		return "obstacle"
	case EventFieldAdded:
		return "field_added"
	case EventFieldRemoved:
		return "field_removed"
	case EventEmitterAdded:
		return "emitter_added"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event represents a single editor action.
type Event struct {
	Type EventType
	Tick int64

	// Position in grid pixels, where the action has one
	X, Y float32
	// EntityID of the force field for field events
	EntityID uint32
}

// NewSplatEvent creates a dye brush event.
func NewSplatEvent(tick int64, x, y float32) Event {
	return Event{Type: EventSplat, Tick: tick, X: x, Y: y}
}

// NewObstacleEvent creates an obstacle paint or erase event.
func NewObstacleEvent(tick int64, x, y float32) Event {
	return Event{Type: EventObstacle, Tick: tick, X: x, Y: y}
}

// NewFieldEvent creates a force field placement or removal event.
func NewFieldEvent(tick int64, id uint32, added bool) Event {
	t := EventFieldRemoved
	if added {
		t = EventFieldAdded
	}
	return Event{Type: t, Tick: tick, EntityID: id}
}

// NewResetEvent creates a reset event.
func NewResetEvent(tick int64) Event {
	return Event{Type: EventReset, Tick: tick}
}
