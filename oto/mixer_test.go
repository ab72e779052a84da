package oto

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/vkuusisto/pulssi"
)

// readFrames pulls n frames out of the mixer and returns them decoded.
func readFrames(t *testing.T, m *mixer, n int) []float32 {
	t.Helper()
	p := make([]byte, 4*n)
	got, err := m.Read(p)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got != len(p) {
		t.Fatalf("Read returned %d bytes, want %d", got, len(p))
	}
	ret := make([]float32, n)
	for i := range ret {
		ret[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:]))
	}
	return ret
}

func TestMixerPlacesEvent(t *testing.T) {
	m := &mixer{}
	m.PlayAt(pulssi.AudioBuffer{1, 2, 3}, 100.0/pulssi.SampleRate)
	got := readFrames(t, m, 256)
	want := map[int]float32{99: 0, 100: 1, 101: 2, 102: 3, 103: 0}
	for at, w := range want {
		if got[at] != w {
			t.Errorf("sample %d is %g, want %g", at, got[at], w)
		}
	}
	if len(m.events) != 0 {
		t.Errorf("%d events still pending after they played", len(m.events))
	}
}

func TestMixerSplitsEventAcrossReads(t *testing.T) {
	m := &mixer{}
	m.PlayAt(pulssi.AudioBuffer{1, 2, 3}, 100.0/pulssi.SampleRate)
	first := readFrames(t, m, 101)
	if first[99] != 0 || first[100] != 1 {
		t.Errorf("first block ends %g, %g, want 0, 1", first[99], first[100])
	}
	if len(m.events) != 1 {
		t.Fatalf("event with remaining samples was dropped")
	}
	second := readFrames(t, m, 101)
	if second[0] != 2 || second[1] != 3 || second[2] != 0 {
		t.Errorf("second block starts %g, %g, %g, want 2, 3, 0", second[0], second[1], second[2])
	}
	if len(m.events) != 0 {
		t.Error("event still pending after its last sample played")
	}
}

func TestMixerMixesOverlappingEvents(t *testing.T) {
	m := &mixer{}
	m.PlayAt(pulssi.AudioBuffer{0.5, 0.5, 0.5}, 10.0/pulssi.SampleRate)
	m.PlayAt(pulssi.AudioBuffer{0.25}, 11.0/pulssi.SampleRate)
	got := readFrames(t, m, 32)
	for at, w := range map[int]float32{10: 0.5, 11: 0.75, 12: 0.5} {
		if got[at] != w {
			t.Errorf("sample %d is %g, want %g", at, got[at], w)
		}
	}
}

func TestMixerClampsOutput(t *testing.T) {
	m := &mixer{}
	m.PlayAt(pulssi.AudioBuffer{2, -3, 0.5}, 0)
	got := readFrames(t, m, 8)
	if got[0] != 1 || got[1] != -1 || got[2] != 0.5 {
		t.Errorf("samples %g, %g, %g, want 1, -1, 0.5", got[0], got[1], got[2])
	}
}

func TestMixerLateEventPlaysTail(t *testing.T) {
	m := &mixer{}
	readFrames(t, m, 100)
	// scheduled two samples into the already consumed past: the missed
	// samples are dropped, the rest plays immediately
	m.PlayAt(pulssi.AudioBuffer{1, 2, 3, 4}, 98.0/pulssi.SampleRate)
	got := readFrames(t, m, 16)
	if got[0] != 3 || got[1] != 4 || got[2] != 0 {
		t.Errorf("tail plays %g, %g, %g, want 3, 4, 0", got[0], got[1], got[2])
	}
}

func TestMixerClock(t *testing.T) {
	m := &mixer{}
	if got := m.Now(); got != 0 {
		t.Errorf("clock starts at %g", got)
	}
	readFrames(t, m, 4410)
	if got := m.Now(); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("clock at %g after 4410 samples, want 0.1", got)
	}
	readFrames(t, m, 4410)
	if got := m.Now(); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("clock at %g after 8820 samples, want 0.2", got)
	}
}

func TestMixerShortRead(t *testing.T) {
	m := &mixer{}
	if n, err := m.Read(make([]byte, 3)); n != 0 || err != nil {
		t.Errorf("read of less than a frame gave %d, %v", n, err)
	}
	m.PlayAt(nil, 0)
	if len(m.events) != 0 {
		t.Error("empty buffer was queued as an event")
	}
}
