package cmd

import (
	"github.com/vkuusisto/pulssi/transport"
)

// MidiProblem explains why opening a MIDI port could have failed, for
// error messages.
func MidiProblem(c transport.MIDIContext) string {
	switch c.Support() {
	case transport.MIDISupportNotCompiled:
		return "MIDI support not compiled in"
	case transport.MIDISupportNoDriver:
		return "no MIDI driver available"
	}
	return "no device found with that prefix"
}
