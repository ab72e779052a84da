package pulssi

// SampleRate is the fixed sample rate of all audio in the engine, in Hz.
const SampleRate = 44100

// AudioBuffer is mono audio as float32 samples at SampleRate.
type AudioBuffer []float32

// Seconds is the duration of the buffer on the audio clock.
func (b AudioBuffer) Seconds() float64 {
	return float64(len(b)) / SampleRate
}

// Sink plays buffers at requested positions of its own clock. Now is the
// current position of that clock in seconds; it advances with the samples
// the sink has consumed, not with wall time. PlayAt mixes buf into the
// output so that it starts when the clock reaches the given time; a start
// time already in the past starts the buffer immediately, dropping the
// missed samples. Both are safe to call from any goroutine.
type Sink interface {
	Now() float64
	PlayAt(buf AudioBuffer, when float64)
	Close() error
}

type AudioContext interface {
	Open() (Sink, error)
	Close() error
}
