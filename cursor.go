package pulssi

// Cursor is the position of the metronome on its beat grid: the audio
// clock time of the next tick to schedule and where that tick falls in the
// measure. The scheduler advances it once per tick it has scheduled.
type Cursor struct {
	NextTime    float64 // audio clock seconds of the next tick
	Beat        int     // 1-based beat within the measure
	SubTick     int     // 1-based subdivision tick within the beat
	CountInBeat int     // 0-based index of the next count-in beat
	CountingIn  bool
}

// StartCursor returns a cursor positioned at now, on the first beat of the
// first measure, counting in when the settings ask for it.
func StartCursor(now float64, s Settings) Cursor {
	return Cursor{NextTime: now, Beat: 1, SubTick: 1, CountingIn: s.CountIn}
}

// Advance moves the cursor to the following tick. Count-in beats are full
// beats regardless of subdivision; when the last one has passed, the
// cursor re-enters the first beat of the first measure.
func (c *Cursor) Advance(s Settings) {
	if c.CountingIn {
		c.NextTime += s.SecondsPerBeat()
		c.CountInBeat++
		if c.CountInBeat >= s.CountInBeats() {
			c.CountingIn = false
			c.Beat = 1
			c.SubTick = 1
		}
		return
	}
	c.NextTime += s.SecondsPerTick()
	c.SubTick++
	if c.SubTick > int(s.Subdivision) {
		c.SubTick = 1
		c.Beat++
		if c.Beat > s.BeatsPerMeasure {
			c.Beat = 1
		}
	}
}

// VisualBeat is the display value for the tick the cursor stands on: the
// beat number while running, or a negative countdown during count-in so
// that -1 is the last count-in beat.
func (c *Cursor) VisualBeat(s Settings) int {
	if c.CountingIn {
		return c.CountInBeat - s.CountInBeats()
	}
	return c.Beat
}

// Accented reports whether a main beat is accented under the pattern.
func Accented(p AccentPattern, beat int) bool {
	switch p {
	case AccentAll:
		return true
	case AccentEvery2, AccentEvery3, AccentEvery4:
		return (beat-1)%int(p) == 0
	}
	return beat == 1
}
