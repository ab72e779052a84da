package transport

import (
	"fmt"
	"time"
)

type (
	// MIDIContext is the gateway to the MIDI ports. The gomidi subpackage
	// provides a real one; NullMIDIContext is used when MIDI support is
	// not compiled in.
	MIDIContext interface {
		// TryToOpenInput opens the first input port whose name begins with
		// namePrefix and forwards its note ons to the model as tap tempo
		// taps. Does nothing on an empty prefix.
		TryToOpenInput(namePrefix string) bool
		// TryToOpenOutput opens the first output port whose name begins
		// with namePrefix for the MIDI clock, nil if there is none.
		// Does nothing on an empty prefix.
		TryToOpenOutput(namePrefix string) MIDIOut
		Close()
		Support() MIDISupport
	}

	MIDIOut interface {
		SendStart() error
		SendStop() error
		SendClock() error
	}

	MIDISupport int

	// ClockStartMsg tells the MIDI clock that the transport started.
	ClockStartMsg struct{ BPM int }

	// ClockStopMsg tells the MIDI clock that the transport stopped.
	ClockStopMsg struct{}

	// ClockBPMMsg tells the MIDI clock the tempo changed.
	ClockBPMMsg struct{ BPM int }
)

const (
	MIDISupportNotCompiled MIDISupport = iota
	MIDISupportNoDriver
	MIDISupported
)

// midiClockPPQN is the MIDI beat clock rate, timing clocks per quarter note.
const midiClockPPQN = 24

// RunMIDIClock is the MIDI clock goroutine. While the transport runs it
// sends a timing clock to the output 24 times per quarter note, framed by
// start and stop messages, so external gear can follow the tempo. With a
// nil output the goroutine just drains its channel. Returns after
// CloseMIDI is signaled, closing FinishedMIDI on the way out.
func RunMIDIClock(broker *Broker, out MIDIOut) {
	defer close(broker.FinishedMIDI)
	var ticker *time.Ticker
	var tickC <-chan time.Time
	stop := func() {
		if ticker != nil {
			ticker.Stop()
			tickC = nil
		}
	}
	for {
		select {
		case msg := <-broker.ToMIDI:
			if out == nil {
				continue
			}
			switch m := msg.(type) {
			case ClockStartMsg:
				if err := out.SendStart(); err != nil {
					TrySend(broker.ToModel, MsgToModel{Data: Alert{
						Name:     "MIDIClock",
						Message:  fmt.Sprintf("MIDI clock start: %v", err),
						Priority: Warning,
						Duration: defaultAlertDuration,
					}})
					continue
				}
				if ticker == nil {
					ticker = time.NewTicker(clockInterval(m.BPM))
				} else {
					ticker.Reset(clockInterval(m.BPM))
				}
				tickC = ticker.C
			case ClockStopMsg:
				stop()
				out.SendStop()
			case ClockBPMMsg:
				if tickC != nil {
					ticker.Reset(clockInterval(m.BPM))
				}
			}
		case <-tickC:
			out.SendClock()
		case <-broker.CloseMIDI:
			stop()
			return
		}
	}
}

func clockInterval(bpm int) time.Duration {
	if bpm < 1 {
		bpm = 1
	}
	return time.Duration(float64(time.Minute) / (midiClockPPQN * float64(bpm)))
}

// NullMIDIContext stands in for the real MIDI context in builds without
// cgo. It opens nothing.
type NullMIDIContext struct{}

func (NullMIDIContext) TryToOpenInput(namePrefix string) bool     { return false }
func (NullMIDIContext) TryToOpenOutput(namePrefix string) MIDIOut { return nil }
func (NullMIDIContext) Close()                                    {}
func (NullMIDIContext) Support() MIDISupport                      { return MIDISupportNotCompiled }
