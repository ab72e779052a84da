package transport

import (
	"math"

	"github.com/vkuusisto/pulssi"
)

type (
	// Int is a handle to one integer-valued setting of the model, used by
	// UI widgets so they do not need to know which setting they adjust.
	// All mutation goes through the model setters, so the values the
	// widgets write are clamped and published like any other change.
	Int struct {
		IntData
	}

	IntData interface {
		Value() int
		Default() int
		Range() pulssi.Range
		setValue(int)
	}

	// Bool is the boolean counterpart of Int.
	Bool struct {
		BoolData
	}

	BoolData interface {
		Value() bool
		setValue(bool)
	}

	BPM             Model
	BeatsPerMeasure Model
	Subdivision     Model
	Accent          Model
	Timbre          Model
	VolumePercent   Model
	CountInMeasures Model
	LatencyMs       Model

	CountIn Model
	Muted   Model
	Playing Model
)

var defaults = pulssi.DefaultSettings()

func (v Int) Add(delta int) bool {
	return v.Set(v.Value() + delta)
}

// Reset returns the setting to its default.
func (v Int) Reset() { v.Set(v.Default()) }

func (v Int) Set(value int) bool {
	value = v.Range().Clamp(value)
	if value == v.Value() {
		return false
	}
	v.setValue(value)
	return true
}

func (v Bool) Toggle() { v.Set(!v.Value()) }

func (v Bool) Set(value bool) {
	if v.Value() != value {
		v.setValue(value)
	}
}

// Model methods

func (m *Model) BPM() *BPM                         { return (*BPM)(m) }
func (m *Model) BeatsPerMeasure() *BeatsPerMeasure { return (*BeatsPerMeasure)(m) }
func (m *Model) Subdivision() *Subdivision         { return (*Subdivision)(m) }
func (m *Model) Accent() *Accent                   { return (*Accent)(m) }
func (m *Model) Timbre() *Timbre                   { return (*Timbre)(m) }
func (m *Model) VolumePercent() *VolumePercent     { return (*VolumePercent)(m) }
func (m *Model) CountInMeasures() *CountInMeasures { return (*CountInMeasures)(m) }
func (m *Model) LatencyMs() *LatencyMs             { return (*LatencyMs)(m) }
func (m *Model) CountIn() *CountIn                 { return (*CountIn)(m) }
func (m *Model) Muted() *Muted                     { return (*Muted)(m) }
func (m *Model) Playing() *Playing                 { return (*Playing)(m) }

// BPM methods

func (v *BPM) Int() Int            { return Int{v} }
func (v *BPM) Value() int          { return v.settings.BPM }
func (v *BPM) Default() int        { return defaults.BPM }
func (v *BPM) setValue(value int)  { (*Model)(v).SetBPM(value) }
func (v *BPM) Range() pulssi.Range { return pulssi.TempoRange }

// BeatsPerMeasure methods

func (v *BeatsPerMeasure) Int() Int            { return Int{v} }
func (v *BeatsPerMeasure) Value() int          { return v.settings.BeatsPerMeasure }
func (v *BeatsPerMeasure) Default() int        { return defaults.BeatsPerMeasure }
func (v *BeatsPerMeasure) setValue(value int)  { (*Model)(v).SetBeatsPerMeasure(value) }
func (v *BeatsPerMeasure) Range() pulssi.Range { return pulssi.BeatsPerMeasureRange }

// Subdivision methods

func (v *Subdivision) Int() Int            { return Int{v} }
func (v *Subdivision) Value() int          { return int(v.settings.Subdivision) }
func (v *Subdivision) Default() int        { return int(defaults.Subdivision) }
func (v *Subdivision) setValue(value int)  { (*Model)(v).SetSubdivision(pulssi.Subdivision(value)) }
func (v *Subdivision) Range() pulssi.Range { return pulssi.Range{Min: int(pulssi.Quarter), Max: int(pulssi.Sixteenth)} }

// Accent methods

func (v *Accent) Int() Int            { return Int{v} }
func (v *Accent) Value() int          { return int(v.settings.Accent) }
func (v *Accent) Default() int        { return int(defaults.Accent) }
func (v *Accent) setValue(value int)  { (*Model)(v).SetAccent(pulssi.AccentPattern(value)) }
func (v *Accent) Range() pulssi.Range { return pulssi.Range{Min: int(pulssi.AccentFirst), Max: int(pulssi.AccentEvery4)} }

// Timbre methods

func (v *Timbre) Int() Int            { return Int{v} }
func (v *Timbre) Value() int          { return int(v.settings.Timbre) }
func (v *Timbre) Default() int        { return int(defaults.Timbre) }
func (v *Timbre) setValue(value int)  { (*Model)(v).SetTimbre(pulssi.Timbre(value)) }
func (v *Timbre) Range() pulssi.Range { return pulssi.Range{Min: int(pulssi.TimbreClick), Max: int(pulssi.TimbreCowbell)} }

// VolumePercent methods

func (v *VolumePercent) Int() Int     { return Int{v} }
func (v *VolumePercent) Value() int   { return int(math.Round(float64(v.settings.Volume) * 100)) }
func (v *VolumePercent) Default() int { return int(math.Round(float64(defaults.Volume) * 100)) }
func (v *VolumePercent) setValue(value int) {
	(*Model)(v).SetVolume(float32(value) / 100)
}
func (v *VolumePercent) Range() pulssi.Range { return pulssi.Range{Min: 0, Max: 100} }

// CountInMeasures methods

func (v *CountInMeasures) Int() Int            { return Int{v} }
func (v *CountInMeasures) Value() int          { return v.settings.CountInMeasures }
func (v *CountInMeasures) Default() int        { return defaults.CountInMeasures }
func (v *CountInMeasures) setValue(value int)  { (*Model)(v).SetCountInMeasures(value) }
func (v *CountInMeasures) Range() pulssi.Range { return pulssi.CountInMeasuresRange }

// LatencyMs methods

func (v *LatencyMs) Int() Int            { return Int{v} }
func (v *LatencyMs) Value() int          { return v.settings.LatencyMs }
func (v *LatencyMs) Default() int        { return defaults.LatencyMs }
func (v *LatencyMs) setValue(value int)  { (*Model)(v).SetLatencyMs(value) }
func (v *LatencyMs) Range() pulssi.Range { return pulssi.LatencyRange }

// CountIn methods

func (v *CountIn) Bool() Bool          { return Bool{v} }
func (v *CountIn) Value() bool         { return v.settings.CountIn }
func (v *CountIn) setValue(value bool) { (*Model)(v).SetCountIn(value) }

// Muted methods

func (v *Muted) Bool() Bool          { return Bool{v} }
func (v *Muted) Value() bool         { return v.settings.Muted }
func (v *Muted) setValue(value bool) { (*Model)(v).SetMuted(value) }

// Playing methods

func (v *Playing) Bool() Bool  { return Bool{v} }
func (v *Playing) Value() bool { return v.playing }
func (v *Playing) setValue(value bool) {
	if value {
		(*Model)(v).Start()
	} else {
		(*Model)(v).Stop()
	}
}
