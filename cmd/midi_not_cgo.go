//go:build !cgo

package cmd

import (
	"github.com/vkuusisto/pulssi/transport"
)

func NewMidiContext(broker *transport.Broker) transport.MIDIContext {
	// rtmidi needs cgo, so this build gets the do-nothing context
	return transport.NullMIDIContext{}
}
