package pulssi

import "math"

// Subdivision is the number of evenly spaced ticks per beat.
type Subdivision int

const (
	Quarter   Subdivision = 1
	Eighth    Subdivision = 2
	Triplet   Subdivision = 3
	Sixteenth Subdivision = 4
)

var subdivisionNames = [...]string{Quarter: "quarter", Eighth: "eighth", Triplet: "triplet", Sixteenth: "sixteenth"}

func (s Subdivision) String() string {
	if s < Quarter || s > Sixteenth {
		return "unknown"
	}
	return subdivisionNames[s]
}

// AccentPattern selects which main beats of a measure are accented.
// AccentFirst accents only the first beat, AccentAll accents every beat and
// AccentEveryN accents the beats where (beat-1) is divisible by N.
type AccentPattern int

const (
	AccentFirst AccentPattern = iota
	AccentAll
	AccentEvery2
	AccentEvery3
	AccentEvery4
)

var accentNames = [...]string{"first beat", "every beat", "every 2nd beat", "every 3rd beat", "every 4th beat"}

func (p AccentPattern) String() string {
	if p < AccentFirst || p > AccentEvery4 {
		return "unknown"
	}
	return accentNames[p]
}

// Timbre selects the click sound family.
type Timbre int

const (
	TimbreClick Timbre = iota
	TimbreBeep
	TimbreWood
	TimbreCowbell
)

var timbreNames = [...]string{"click", "beep", "wood", "cowbell"}

func (t Timbre) String() string {
	if t < TimbreClick || t > TimbreCowbell {
		return "unknown"
	}
	return timbreNames[t]
}

// ParseTimbre returns the Timbre with the given name, defaulting to
// TimbreClick when the name matches nothing.
func ParseTimbre(name string) Timbre {
	for i, n := range timbreNames {
		if n == name {
			return Timbre(i)
		}
	}
	return TimbreClick
}

// Timbres appear in yaml files by name. The v2 style unmarshaler
// signature is understood by both the yaml.v2 and yaml.v3 decoders.
func (t Timbre) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

func (t *Timbre) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	*t = ParseTimbre(name)
	return nil
}

// Range is an inclusive range of integer values.
type Range struct {
	Min, Max int
}

func (r Range) Clamp(value int) int {
	return max(r.Min, min(r.Max, value))
}

var (
	TempoRange           = Range{30, 250}
	BeatsPerMeasureRange = Range{1, 12}
	CountInMeasuresRange = Range{1, 4}
	LatencyRange         = Range{0, 500}
)

// Settings is the complete user-tweakable state of the metronome. It is a
// plain value so snapshots of it can be passed between goroutines as
// messages. All fields are brought into range with Clamp; code receiving a
// Settings from outside (setters, files, flags) should never skip that.
type Settings struct {
	BPM             int
	BeatsPerMeasure int
	Subdivision     Subdivision
	Accent          AccentPattern
	Volume          float32
	Timbre          Timbre
	CountIn         bool
	CountInMeasures int
	Muted           bool
	LatencyMs       int
}

func DefaultSettings() Settings {
	return Settings{
		BPM:             120,
		BeatsPerMeasure: 4,
		Subdivision:     Quarter,
		Accent:          AccentFirst,
		Volume:          0.8,
		Timbre:          TimbreClick,
		CountInMeasures: 1,
	}
}

// Clamp returns a copy of the settings with every field forced into its
// valid range. Out of range enum values fall back to their defaults.
func (s Settings) Clamp() Settings {
	s.BPM = TempoRange.Clamp(s.BPM)
	s.BeatsPerMeasure = BeatsPerMeasureRange.Clamp(s.BeatsPerMeasure)
	if s.Subdivision < Quarter || s.Subdivision > Sixteenth {
		s.Subdivision = Quarter
	}
	if s.Accent < AccentFirst || s.Accent > AccentEvery4 {
		s.Accent = AccentFirst
	}
	if math.IsNaN(float64(s.Volume)) {
		s.Volume = 0
	}
	s.Volume = min(max(s.Volume, 0), 1)
	if s.Timbre < TimbreClick || s.Timbre > TimbreCowbell {
		s.Timbre = TimbreClick
	}
	s.CountInMeasures = CountInMeasuresRange.Clamp(s.CountInMeasures)
	s.LatencyMs = LatencyRange.Clamp(s.LatencyMs)
	return s
}

func (s Settings) SecondsPerBeat() float64 {
	return 60.0 / float64(s.BPM)
}

// SecondsPerTick is the interval between subdivision ticks.
func (s Settings) SecondsPerTick() float64 {
	return s.SecondsPerBeat() / float64(s.Subdivision)
}

// CountInBeats is the total number of count-in beats before playback.
func (s Settings) CountInBeats() int {
	return s.BeatsPerMeasure * s.CountInMeasures
}

// Latency is the output latency compensation in seconds.
func (s Settings) Latency() float64 {
	return float64(s.LatencyMs) / 1000
}
