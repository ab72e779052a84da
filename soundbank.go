package pulssi

import "github.com/viterin/vek/vek32"

// Relative gains of the three click types within a bank.
const (
	accentGain = 1.0
	beatGain   = 0.8
	tickGain   = 0.5
)

// timbreFreqs lists the accent, beat and tick frequencies of each timbre.
var timbreFreqs = [...][3]float64{
	TimbreClick:   {1800, 1200, 900},
	TimbreBeep:    {1000, 800, 600},
	TimbreWood:    {2200, 1700, 1300},
	TimbreCowbell: {800, 540, 420},
}

// Bank holds the rendered click buffers of one timbre at one volume. Banks
// are immutable once made; a timbre or volume change makes a new bank,
// while tempo changes never re-render audio.
type Bank struct {
	Accent AudioBuffer // accented main beats and count-in beats
	Beat   AudioBuffer // unaccented main beats
	Tick   AudioBuffer // subdivision ticks
}

// MakeBank renders the click buffers of the timbre, scaling the fixed
// relative gains by the master volume.
func MakeBank(timbre Timbre, volume float32) Bank {
	if timbre < 0 || int(timbre) >= len(timbreFreqs) {
		timbre = TimbreClick
	}
	f := timbreFreqs[timbre]
	b := Bank{
		Accent: RenderClick(f[0], accentGain),
		Beat:   RenderClick(f[1], beatGain),
		Tick:   RenderClick(f[2], tickGain),
	}
	if volume != 1 {
		vek32.MulNumber_Inplace(b.Accent, volume)
		vek32.MulNumber_Inplace(b.Beat, volume)
		vek32.MulNumber_Inplace(b.Tick, volume)
	}
	return b
}

// Click returns the buffer for one tick of the beat grid.
func (b *Bank) Click(accented bool, subTick int) AudioBuffer {
	switch {
	case accented:
		return b.Accent
	case subTick == 1:
		return b.Beat
	}
	return b.Tick
}
