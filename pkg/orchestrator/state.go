package orchestrator

// State is a step of the run lifecycle.
type State int

const (
	StateInit State = iota
	StateFramesExtracted
	StateFacesAligned
	StateAudioExtracted
	StateVisualComposed
	StateMuxed
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateFramesExtracted:
		return "frames-extracted"
	case StateFacesAligned:
		return "faces-aligned"
	case StateAudioExtracted:
		return "audio-extracted"
	case StateVisualComposed:
		return "visual-composed"
	case StateMuxed:
		return "muxed"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can follow.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
