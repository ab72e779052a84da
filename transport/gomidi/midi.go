package gomidi

import (
	"strings"

	"github.com/vkuusisto/pulssi/transport"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	// RTMIDIContext is a transport.MIDIContext on the rtmidi driver. Note
	// ons from the opened input port are forwarded to the model as tap
	// tempo taps, and the opened output port receives the MIDI beat clock.
	RTMIDIContext struct {
		driver *rtmididrv.Driver
		broker *transport.Broker
		in     drivers.In
		out    drivers.Out
	}

	RTMIDIOut struct {
		out drivers.Out
	}
)

func NewContext(broker *transport.Broker) *RTMIDIContext {
	m := RTMIDIContext{broker: broker}
	// a nil driver means no MIDI on this system; Support reports it
	m.driver, _ = rtmididrv.New()
	return &m
}

func (c *RTMIDIContext) Support() transport.MIDISupport {
	if c.driver == nil {
		return transport.MIDISupportNoDriver
	}
	return transport.MIDISupported
}

func (c *RTMIDIContext) TryToOpenInput(namePrefix string) bool {
	if c.driver == nil || namePrefix == "" {
		return false
	}
	ins, err := c.driver.Ins()
	if err != nil {
		return false
	}
	for _, in := range ins {
		if !strings.HasPrefix(in.String(), namePrefix) {
			continue
		}
		if in.Open() != nil {
			return false
		}
		if _, err := midi.ListenTo(in, c.handleMessage); err != nil {
			in.Close()
			return false
		}
		c.in = in
		return true
	}
	return false
}

func (c *RTMIDIContext) handleMessage(msg midi.Message, timestampms int32) {
	var channel, key, velocity uint8
	if msg.GetNoteOn(&channel, &key, &velocity) {
		transport.TrySend(c.broker.ToModel, transport.MsgToModel{Data: transport.TapMsg{}})
	}
}

func (c *RTMIDIContext) TryToOpenOutput(namePrefix string) transport.MIDIOut {
	if c.driver == nil || namePrefix == "" {
		return nil
	}
	outs, err := c.driver.Outs()
	if err != nil {
		return nil
	}
	for _, out := range outs {
		if !strings.HasPrefix(out.String(), namePrefix) {
			continue
		}
		if out.Open() != nil {
			return nil
		}
		c.out = out
		return &RTMIDIOut{out: out}
	}
	return nil
}

func (c *RTMIDIContext) Close() {
	if c.driver == nil {
		return
	}
	if c.in != nil && c.in.IsOpen() {
		c.in.Close()
	}
	if c.out != nil && c.out.IsOpen() {
		c.out.Close()
	}
	c.driver.Close()
}

func (o *RTMIDIOut) SendStart() error { return o.out.Send(midi.Start()) }
func (o *RTMIDIOut) SendStop() error  { return o.out.Send(midi.Stop()) }
func (o *RTMIDIOut) SendClock() error { return o.out.Send(midi.TimingClock()) }
