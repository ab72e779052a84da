//go:build cgo

package cmd

import (
	"github.com/vkuusisto/pulssi/transport"
	"github.com/vkuusisto/pulssi/transport/gomidi"
)

func NewMidiContext(broker *transport.Broker) transport.MIDIContext {
	return gomidi.NewContext(broker)
}
