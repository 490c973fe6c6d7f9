package pipe

import "fmt"

// State is the lifecycle state of a chain.
type State int32

const (
	// StateOpen accepts further Attach calls.
	StateOpen State = iota
	// StateTerminated is closed by a sink-only stage and never started.
	StateTerminated
	// StateActive has handlers installed and is moving data.
	StateActive
	// StateStopped had its head handlers removed by Stop.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateTerminated:
		return "terminated"
	case StateActive:
		return "active"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// MarshalText renders the state by name in JSON output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// built reports whether the chain has a terminal stage.
func (s State) built() bool {
	return s != StateOpen
}
