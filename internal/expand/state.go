package expand

// State is the controller's position in the expansion pipeline.
type State int32

// Pipeline states. A commit walks Idle -> Scanning -> Resolving ->
// Wrapping -> Splicing -> Idle; every exit path returns to Idle.
const (
	StateIdle State = iota
	StateScanning
	StateResolving
	StateWrapping
	StateSplicing
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateResolving:
		return "resolving"
	case StateWrapping:
		return "wrapping"
	case StateSplicing:
		return "splicing"
	default:
		return "unknown"
	}
}

// Key is an input key the controller cares about.
type Key int

// Keys. Space, tab, and enter commit a pending trigger.
const (
	KeyOther Key = iota
	KeySpace
	KeyTab
	KeyEnter
)

// IsCommit reports whether the key commits a trigger.
func (k Key) IsCommit() bool {
	return k == KeySpace || k == KeyTab || k == KeyEnter
}

// Literal returns the text a non-suppressed commit key inserts.
func (k Key) Literal() string {
	switch k {
	case KeySpace:
		return " "
	case KeyTab:
		return "\t"
	case KeyEnter:
		return "\n"
	default:
		return ""
	}
}
