package pulssi

import (
	"math"
	"sort"
	"time"
)

const (
	maxTaps      = 5
	tapStaleness = 2 * time.Second
)

// TapTempo estimates a tempo from the timing of repeated taps. The zero
// value is ready to use.
type TapTempo struct {
	taps []time.Time
}

// Tap records a tap at the given time and returns the tempo estimate so
// far. Taps further than two seconds from this one are discarded first, so
// a pause starts a fresh estimate, and only the latest five taps count.
// ok is false until two taps close enough together have been seen. The
// estimate is the median of the intervals between consecutive taps, which
// keeps a single hesitation from skewing the result.
func (t *TapTempo) Tap(at time.Time) (bpm int, ok bool) {
	keep := t.taps[:0]
	for _, tap := range t.taps {
		if at.Sub(tap) <= tapStaleness {
			keep = append(keep, tap)
		}
	}
	t.taps = append(keep, at)
	if len(t.taps) > maxTaps {
		t.taps = t.taps[len(t.taps)-maxTaps:]
	}
	if len(t.taps) < 2 {
		return 0, false
	}
	intervals := make([]time.Duration, len(t.taps)-1)
	for i := range intervals {
		intervals[i] = t.taps[i+1].Sub(t.taps[i])
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i] < intervals[j] })
	var median time.Duration
	if n := len(intervals); n%2 == 1 {
		median = intervals[n/2]
	} else {
		median = (intervals[n/2-1] + intervals[n/2]) / 2
	}
	if median <= 0 {
		return 0, false
	}
	return int(math.Round(60000 * float64(time.Millisecond) / float64(median))), true
}

// Reset drops the tap history.
func (t *TapTempo) Reset() {
	t.taps = t.taps[:0]
}
