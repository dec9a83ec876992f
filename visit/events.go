package visit

// Event tells an EventVisitor where in the traversal a value was seen.
type Event int

const (
	// EventEnter is delivered before a value's contents.
	EventEnter Event = iota
	// EventExit is delivered after a value's contents.
	EventExit
)

// String returns the lower-case event name.
func (e Event) String() string {
	switch e {
	case EventEnter:
		return "enter"
	case EventExit:
		return "exit"
	default:
		return "unknown"
	}
}

// EventVisitor receives a flat enter/exit stream instead of typed
// hooks. There is no short-circuit: every reachable value produces both
// events, leaves included.
type EventVisitor interface {
	Event(value any, ev Event)
}

// eventDriver adapts an EventVisitor to the Visitor protocol. It never
// returns an error, so drives under it always run to completion.
type eventDriver struct {
	v EventVisitor
}

func (d eventDriver) Visit(value any) error {
	d.v.Event(value, EventEnter)

	if drv, ok := value.(Driver); ok {
		_ = drv.DriveInner(d)
	}

	d.v.Event(value, EventExit)

	return nil
}

// DriveEvents walks x and everything reachable through DriveInner,
// delivering paired enter and exit events to v. Events for one value
// bracket the events of its contents and never interleave with a
// sibling's.
func DriveEvents(v EventVisitor, x any) {
	_ = eventDriver{v: v}.Visit(x)
}
