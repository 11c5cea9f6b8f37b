// SPDX-License-Identifier: EPL-2.0

package engine

import "fmt"

type State int32

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

type EventKind int

const (
	// EventLoaded follows a successful LoadAsset.
	EventLoaded EventKind = iota
	// EventPlaying follows every Play that installed a buffer.
	EventPlaying
	// EventStopped follows a transition to Stopped.
	EventStopped
	// EventPitch follows SetPitch and ResetPitch.
	EventPitch
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventPlaying:
		return "playing"
	case EventStopped:
		return "stopped"
	case EventPitch:
		return "pitch"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event notifies the control side of a change it did not have to poll for.
type Event struct {
	Kind      EventKind
	State     State
	Semitones float64
	// Frames and Reversed describe the buffer installed by Play, or the
	// asset for EventLoaded.
	Frames   int
	Reversed bool
}
