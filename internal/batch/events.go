package batch

import "time"

// Level indicates the severity/type of a log message.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

func (l Level) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	}
	return "info"
}

// EventKind distinguishes log lines from progress updates.
type EventKind int

const (
	EventLog EventKind = iota
	EventProgress
)

// UnknownETA marks a progress event without a throughput estimate.
const UnknownETA time.Duration = -1

// Event is emitted by a running batch.
//
// Log events carry Level and Message. Progress events carry Current and
// Total (files), a Message describing the current step and, once there is
// throughput to extrapolate from, ETA and Finish.
type Event struct {
	Kind    EventKind
	Level   Level
	Message string

	Current int
	Total   int
	ETA     time.Duration
	Finish  time.Time
}

// Percent returns Current/Total in percent, or 0 when Total is 0.
func (e Event) Percent() float64 {
	if e.Total <= 0 {
		return 0
	}
	return float64(e.Current) / float64(e.Total) * 100
}

// State is the lifecycle phase of a Manager.
type State int

const (
	StateIdle State = iota
	StateCounting
	StateRunning
	StatePaused
	StateStopping
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateCounting:
		return "counting"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopping:
		return "stopping"
	case StateCompleted:
		return "completed"
	}
	return "idle"
}

// Snapshot is a point-in-time view of a run, for polling presenters.
type Snapshot struct {
	State       State
	Current     int
	Total       int
	Folder      string
	InputBytes  int64
	OutputBytes int64
}
