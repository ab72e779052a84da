package pulssi_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/vkuusisto/pulssi"
)

func TestRenderMeasuresLength(t *testing.T) {
	s := pulssi.DefaultSettings() // 120 bpm, 4 beats
	if got := len(pulssi.RenderMeasures(s, 1)); got != 88200 {
		t.Errorf("one measure renders %d samples, want 88200", got)
	}
	if got := len(pulssi.RenderMeasures(s, 2)); got != 176400 {
		t.Errorf("two measures render %d samples, want 176400", got)
	}
	s.CountIn = true
	if got := len(pulssi.RenderMeasures(s, 1)); got != 176400 {
		t.Errorf("count-in and one measure render %d samples, want 176400", got)
	}
	s.CountIn = false
	if got, want := len(pulssi.RenderMeasures(s, 0)), len(pulssi.RenderMeasures(s, 1)); got != want {
		t.Errorf("zero measures render %d samples, want %d", got, want)
	}
}

func TestRenderMeasuresTickPlacement(t *testing.T) {
	s := pulssi.DefaultSettings()
	s.BPM = 60
	s.BeatsPerMeasure = 2
	s.Volume = 1
	buf := pulssi.RenderMeasures(s, 1)
	bank := pulssi.MakeBank(s.Timbre, s.Volume)
	// beat 1 accented at sample 0, beat 2 plain at one second
	if got, want := buf[10], bank.Accent[10]; got != want {
		t.Errorf("sample 10 is %g, want accent sample %g", got, want)
	}
	if got, want := buf[44100+10], bank.Beat[10]; got != want {
		t.Errorf("second beat renders %g, want beat sample %g", got, want)
	}
	// silence between the clicks and after the last one
	for _, at := range []int{2000, 20000, 50000, 88000} {
		if buf[at] != 0 {
			t.Errorf("sample %d is %g, want silence", at, buf[at])
		}
	}
}

func TestRenderMeasuresSubdivision(t *testing.T) {
	s := pulssi.DefaultSettings()
	s.BPM = 120
	s.BeatsPerMeasure = 1
	s.Subdivision = pulssi.Eighth
	s.Volume = 1
	buf := pulssi.RenderMeasures(s, 1)
	if len(buf) != 22050 {
		t.Fatalf("one beat of eighths renders %d samples, want 22050", len(buf))
	}
	bank := pulssi.MakeBank(s.Timbre, s.Volume)
	if got, want := buf[10], bank.Accent[10]; got != want {
		t.Errorf("beat renders %g, want accent sample %g", got, want)
	}
	if got, want := buf[11025+10], bank.Tick[10]; got != want {
		t.Errorf("off-beat renders %g, want tick sample %g", got, want)
	}
}

func TestRenderMeasuresCountIn(t *testing.T) {
	s := pulssi.DefaultSettings()
	s.BPM = 60
	s.BeatsPerMeasure = 2
	s.Volume = 1
	s.CountIn = true
	buf := pulssi.RenderMeasures(s, 1)
	if len(buf) != 176400 {
		t.Fatalf("rendered %d samples, want 176400", len(buf))
	}
	bank := pulssi.MakeBank(s.Timbre, s.Volume)
	// both count-in beats are accented, then the measure starts over with
	// an accent on beat one
	for _, tt := range []struct {
		at   int
		want pulssi.AudioBuffer
	}{
		{0, bank.Accent},
		{44100, bank.Accent},
		{88200, bank.Accent},
		{132300, bank.Beat},
	} {
		if got, want := buf[tt.at+10], tt.want[10]; got != want {
			t.Errorf("tick at sample %d renders %g, want %g", tt.at, got, want)
		}
	}
}

func TestWavPcm16(t *testing.T) {
	buffer := pulssi.AudioBuffer{0.5, -1, 1, 0}
	b, err := pulssi.Wav(buffer, true)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	if len(b) != 44+2*len(buffer) {
		t.Fatalf("wav is %d bytes, want %d", len(b), 44+2*len(buffer))
	}
	if string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		t.Fatalf("bad riff header % x", b[:12])
	}
	if got := binary.LittleEndian.Uint32(b[4:]); got != uint32(36+2*len(buffer)) {
		t.Errorf("chunk size %d, want %d", got, 36+2*len(buffer))
	}
	if got := binary.LittleEndian.Uint16(b[20:]); got != 1 {
		t.Errorf("wave format %d, want 1 (pcm)", got)
	}
	if got := binary.LittleEndian.Uint32(b[24:]); got != 44100 {
		t.Errorf("sample rate %d, want 44100", got)
	}
	if got := binary.LittleEndian.Uint32(b[40:]); got != uint32(2*len(buffer)) {
		t.Errorf("data size %d, want %d", got, 2*len(buffer))
	}
	want := []int16{16383, -32767, 32767, 0}
	for i, w := range want {
		if got := int16(binary.LittleEndian.Uint16(b[44+2*i:])); got != w {
			t.Errorf("sample %d is %d, want %d", i, got, w)
		}
	}
}

func TestWavFloat32(t *testing.T) {
	buffer := pulssi.AudioBuffer{0.5, -0.25, 0.125, 1}
	b, err := pulssi.Wav(buffer, false)
	if err != nil {
		t.Fatalf("Wav failed: %v", err)
	}
	if len(b) != 58+4*len(buffer) {
		t.Fatalf("wav is %d bytes, want %d", len(b), 58+4*len(buffer))
	}
	if got := binary.LittleEndian.Uint16(b[20:]); got != 3 {
		t.Errorf("wave format %d, want 3 (float)", got)
	}
	if string(b[38:42]) != "fact" {
		t.Errorf("fact chunk missing, got %q", b[38:42])
	}
	if got := binary.LittleEndian.Uint32(b[46:]); got != uint32(len(buffer)) {
		t.Errorf("fact sample length %d, want %d", got, len(buffer))
	}
	if string(b[50:54]) != "data" {
		t.Errorf("data chunk missing, got %q", b[50:54])
	}
	for i, w := range buffer {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(b[58+4*i:])); got != w {
			t.Errorf("sample %d is %g, want %g", i, got, w)
		}
	}
}

func TestRaw(t *testing.T) {
	buffer := pulssi.AudioBuffer{0.5, -1.5, 1.5}
	raw, err := pulssi.Raw(buffer, false)
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	if len(raw) != 4*len(buffer) {
		t.Errorf("float raw is %d bytes, want %d", len(raw), 4*len(buffer))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(raw)); got != 0.5 {
		t.Errorf("first float sample %g, want 0.5", got)
	}
	raw, err = pulssi.Raw(buffer, true)
	if err != nil {
		t.Fatalf("Raw failed: %v", err)
	}
	if len(raw) != 2*len(buffer) {
		t.Errorf("pcm raw is %d bytes, want %d", len(raw), 2*len(buffer))
	}
	// out of range samples clamp instead of wrapping
	want := []int16{16383, -32768, 32767}
	for i, w := range want {
		if got := int16(binary.LittleEndian.Uint16(raw[2*i:])); got != w {
			t.Errorf("pcm sample %d is %d, want %d", i, got, w)
		}
	}
}
