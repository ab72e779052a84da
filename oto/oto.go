package oto

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/vkuusisto/pulssi"
)

type (
	// Context is a pulssi.AudioContext on top of ebitengine/oto. The
	// underlying oto context is created on the first Open, so no audio
	// device is touched before the user actually starts the metronome.
	Context struct {
		ctx *oto.Context
	}

	// Output is a pulssi.Sink: a scheduling mixer pulled by an oto player.
	// The player plays from open to close, so the sample clock keeps
	// advancing even when no clicks are pending.
	Output struct {
		mixer  mixer
		player *oto.Player
	}
)

const otoBufferSize = 50 * time.Millisecond

func NewContext() *Context {
	return &Context{}
}

func (c *Context) Open() (pulssi.Sink, error) {
	if c.ctx == nil {
		op := &oto.NewContextOptions{
			SampleRate:   pulssi.SampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
			BufferSize:   otoBufferSize,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			return nil, fmt.Errorf("cannot create oto context: %w", err)
		}
		<-ready
		c.ctx = ctx
	}
	o := &Output{}
	o.player = c.ctx.NewPlayer(&o.mixer)
	o.player.Play()
	return o, nil
}

// Close suspends the context; oto contexts have no close.
func (c *Context) Close() error {
	if c.ctx == nil {
		return nil
	}
	if err := c.ctx.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (o *Output) Now() float64 {
	return o.mixer.Now()
}

func (o *Output) PlayAt(buf pulssi.AudioBuffer, when float64) {
	o.mixer.PlayAt(buf, when)
}

func (o *Output) Close() error {
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
