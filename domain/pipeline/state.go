package pipeline

// State enumerates the lifecycle states of a capture pipeline.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateStopping
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText renders the state name in JSON status payloads.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Event drives lifecycle transitions.
type Event int

const (
	EventStart Event = iota
	EventAcquired
	EventAcquireFailed
	EventStop
	EventTerminated
	EventFail
	EventReleased
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventAcquired:
		return "acquired"
	case EventAcquireFailed:
		return "acquire_failed"
	case EventStop:
		return "stop"
	case EventTerminated:
		return "terminated"
	case EventFail:
		return "fail"
	case EventReleased:
		return "released"
	default:
		return "unknown"
	}
}

type edge struct {
	from State
	on   Event
}

var transitions = map[edge]State{
	{StateIdle, EventStart}:             StateStarting,
	{StateStarting, EventAcquired}:      StateRunning,
	{StateStarting, EventAcquireFailed}: StateError,
	{StateStarting, EventStop}:          StateStopping,
	{StateRunning, EventStop}:           StateStopping,
	{StateRunning, EventTerminated}:     StateStopping,
	{StateRunning, EventFail}:           StateError,
	{StateStopping, EventReleased}:      StateIdle,
	{StateError, EventReleased}:         StateIdle,
}

// Transition returns the state reached from s on e. ok is false when e is
// not accepted in s; the returned state is then s.
func Transition(s State, e Event) (next State, ok bool) {
	next, ok = transitions[edge{s, e}]
	if !ok {
		return s, false
	}
	return next, true
}
