package bus

// Signal is a discrete control event produced by the status window or the
// terminal key loop. The set mirrors the original keyboard bindings.
type Signal string

const (
	// SignalListen starts a new listen cycle (ignored while one is active).
	SignalListen Signal = "listen"
	// SignalCancel aborts the in-flight listen cycle.
	SignalCancel Signal = "cancel"
	// SignalSaveExit saves memories to the neocortex and exits.
	SignalSaveExit Signal = "save-exit"
	// SignalExit exits without saving.
	SignalExit Signal = "exit"
)

// State is the discrete color-coded indicator state consumed by the status
// display. The colors match the original window fills.
type State string

const (
	StateIdle        State = "idle"        // red: not listening
	StateCalibrating State = "calibrating" // yellow: adjusting for ambient noise
	StateListening   State = "listening"   // green: capturing audio
	StateThinking    State = "thinking"    // blue: processing a reply
)

// Color returns the hex display color for s.
func (s State) Color() string {
	switch s {
	case StateCalibrating:
		return "#ffff4d"
	case StateListening:
		return "#2bff00"
	case StateThinking:
		return "#33bbff"
	default:
		return "#ff1919"
	}
}
