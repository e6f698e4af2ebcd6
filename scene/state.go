package scene

// State is a Scene Host lifecycle state.
type State int

const (
	Unmounted State = iota
	Initializing
	Running
	TearingDown
	// Failed means initialization could not complete. The host renders
	// nothing until it is unmounted and mounted again.
	Failed
)

var stateNames = [...]string{
	Unmounted:    "unmounted",
	Initializing: "initializing",
	Running:      "running",
	TearingDown:  "tearing_down",
	Failed:       "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// canMount reports whether Mount is valid from s.
func (s State) canMount() bool {
	return s == Unmounted || s == Failed
}
