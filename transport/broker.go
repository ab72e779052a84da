package transport

import (
	"time"
)

type (
	// Broker is the centralized message hub of the metronome. It is used to
	// communicate between the model, the player and the MIDI clock, with one
	// channel per recipient, so all communication is many-to-one.
	//
	// Each goroutine is shut down through a pair of channels. CloseXXX has
	// capacity 1, so a close request never blocks; when the channel is
	// already full the shutdown is already underway and the duplicate is
	// dropped. FinishedXXX is never sent to, only closed, signaling that
	// the goroutine has cleaned up. Waiting on it is combined with a
	// timeout (TimeoutReceive) so a wedged goroutine cannot hang the exit.
	Broker struct {
		ToModel  chan MsgToModel
		ToPlayer chan any
		ToMIDI   chan any

		ClosePlayer chan struct{}
		CloseMIDI   chan struct{}

		FinishedPlayer chan struct{}
		FinishedMIDI   chan struct{}
	}

	// MsgToModel is a message sent to the model. Beat updates are the most
	// frequent message so they are not boxed; everything infrequent (alerts,
	// tap triggers) travels boxed in Data.
	MsgToModel struct {
		HasBeat    bool
		Beat       int // 0 when stopped, negative while counting down
		Playing    bool
		CountingIn bool

		Data any
	}

	// TapMsg asks the model to register a tap tempo tap, e.g. from a MIDI
	// pad. The model timestamps the tap when it processes the message.
	TapMsg struct{}

	Alert struct {
		Name     string
		Message  string
		Priority AlertPriority
		Duration time.Duration
	}

	AlertPriority int
)

const (
	None AlertPriority = iota
	Info
	Warning
	Error
)

const defaultAlertDuration = 3 * time.Second

func NewBroker() *Broker {
	return &Broker{
		ToModel:        make(chan MsgToModel, 1024),
		ToPlayer:       make(chan any, 1024),
		ToMIDI:         make(chan any, 64),
		ClosePlayer:    make(chan struct{}, 1),
		CloseMIDI:      make(chan struct{}, 1),
		FinishedPlayer: make(chan struct{}),
		FinishedMIDI:   make(chan struct{}),
	}
}

// TrySend is a helper function to send a value to a channel if it is not
// full. It is guaranteed to be non-blocking. Returns true if the value was
// sent, false otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received
// from a channel, or timing out after t. ok will be false if the timeout
// occurred or if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
