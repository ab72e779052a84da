package pulssi

import "math"

// clickSeconds is the length of a rendered click.
const clickSeconds = 0.025

// RenderClick renders a single metronome click: a band limited triangle
// wave at freq under an exponentially decaying envelope, scaled by gain.
// The triangle is summed from its odd harmonics up to the Nyquist
// frequency and the envelope time constant is 30% of the click length, so
// the tail has faded to roughly 4% when the buffer ends.
func RenderClick(freq float64, gain float32) AudioBuffer {
	n := int(math.Floor(clickSeconds * SampleRate))
	buf := make(AudioBuffer, n)
	if freq <= 0 || gain == 0 {
		return buf
	}
	decay := 0.3 * float64(n)
	for i := range buf {
		t := float64(i) / SampleRate
		var v float64
		sign := 1.0
		for k := 1.0; k*freq < SampleRate/2; k += 2 {
			v += sign * math.Sin(2*math.Pi*k*freq*t) / (k * k)
			sign = -sign
		}
		env := math.Exp(-float64(i) / decay)
		buf[i] = float32(8 / (math.Pi * math.Pi) * v * env * float64(gain))
	}
	return buf
}
