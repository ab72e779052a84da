package oto

import (
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"

	"github.com/vkuusisto/pulssi"
	"github.com/viterin/vek/vek32"
)

type (
	// mixer turns scheduled clicks into the continuous sample stream the
	// device pulls via Read. The running sample count doubles as the sink
	// clock: pos is the number of mono samples handed to the device since
	// the output was opened, and it only ever grows, so the clock never
	// runs backwards. Reads come from the device goroutine while PlayAt
	// and Now are called from the player goroutine.
	mixer struct {
		pos     atomic.Int64
		mu      sync.Mutex
		events  []event
		scratch []float32
	}

	// event is one scheduled click, start in absolute sample time.
	event struct {
		buf   pulssi.AudioBuffer
		start int64
	}
)

func (m *mixer) Now() float64 {
	return float64(m.pos.Load()) / pulssi.SampleRate
}

func (m *mixer) PlayAt(buf pulssi.AudioBuffer, when float64) {
	if len(buf) == 0 {
		return
	}
	e := event{buf: buf, start: int64(math.Round(when * pulssi.SampleRate))}
	m.mu.Lock()
	m.events = append(m.events, e)
	m.mu.Unlock()
}

// Read fills p with float32 little endian samples, mixing in the slice of
// every pending event that overlaps the block. Events reaching past the
// block stay pending; an event whose start was already consumed plays its
// remaining samples, so a late click loses its attack instead of shifting
// the stream.
func (m *mixer) Read(p []byte) (int, error) {
	frames := len(p) / 4
	if frames == 0 {
		return 0, nil
	}
	if cap(m.scratch) < frames {
		m.scratch = make([]float32, frames)
	}
	mix := m.scratch[:frames]
	clear(mix)
	pos := m.pos.Load()
	blockEnd := pos + int64(frames)
	m.mu.Lock()
	keep := m.events[:0]
	for _, e := range m.events {
		start, end := e.start, e.start+int64(len(e.buf))
		from := max(start, pos)
		to := min(end, blockEnd)
		if from < to {
			vek32.Add_Inplace(mix[from-pos:to-pos], e.buf[from-start:to-start])
		}
		if end > blockEnd {
			keep = append(keep, e)
		}
	}
	m.events = keep
	m.mu.Unlock()
	for i, v := range mix {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(min(max(v, -1), 1)))
	}
	m.pos.Add(int64(frames))
	return frames * 4, nil
}
