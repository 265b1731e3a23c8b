package window

// State is the controller's position in the settle cycle
type State int32

const (
	// Idle: nothing pending, frames are drawn only for input or posted tasks
	Idle State = iota
	// PendingSettle: a resize was seen, waiting for the size to hold still
	PendingSettle
	// Settled: the size held for the debounce interval, redraw on next iteration
	Settled
	// Stopped: the loop has exited
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingSettle:
		return "pending_settle"
	case Settled:
		return "settled"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}
