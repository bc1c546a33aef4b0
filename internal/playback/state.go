package playback

import "errors"

// State is the controller lifecycle phase.
type State int

const (
	StateIdle State = iota
	StatePreloading
	StateReady
	StatePlaying
	StatePaused
	StateEnded
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreloading:
		return "preloading"
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// CanSeek reports whether scrubbing is allowed in this state.
func (s State) CanSeek() bool {
	return s == StateReady || s == StatePlaying || s == StatePaused
}

// User-facing messages.
const (
	MessageGestureRequired = "Please interact with the page first to enable audio"
	MessageMediaError      = "Audio playback error"
)

var (
	// ErrNotAllowed is returned by Media.Play when playback needs a user gesture.
	ErrNotAllowed = errors.New("playback not allowed without user interaction")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("playback controller closed")
	// ErrNoCommentary is returned when play is requested before Load.
	ErrNoCommentary = errors.New("no commentary loaded")
	// ErrInvalidState is returned for operations the current state forbids.
	ErrInvalidState = errors.New("operation not allowed in current state")
)
