package transport_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vkuusisto/pulssi"
	"github.com/vkuusisto/pulssi/transport"
)

func newModel(t *testing.T) (*transport.Model, *transport.Broker) {
	t.Helper()
	broker := transport.NewBroker()
	m := transport.NewModel(broker, "")
	drainAny(broker.ToPlayer)
	drainAny(broker.ToMIDI)
	return m, broker
}

func drainAny(c chan any) []any {
	var ret []any
	for {
		select {
		case v := <-c:
			ret = append(ret, v)
		default:
			return ret
		}
	}
}

func lastSettings(t *testing.T, msgs []any) pulssi.Settings {
	t.Helper()
	var ret pulssi.Settings
	found := false
	for _, msg := range msgs {
		if s, ok := msg.(pulssi.Settings); ok {
			ret = s
			found = true
		}
	}
	if !found {
		t.Fatal("no settings snapshot was published")
	}
	return ret
}

func TestModelSettersClamp(t *testing.T) {
	m, _ := newModel(t)
	for _, tt := range []struct {
		name  string
		set   func()
		check func(pulssi.Settings) bool
	}{
		{"bpm low", func() { m.SetBPM(10) }, func(s pulssi.Settings) bool { return s.BPM == 30 }},
		{"bpm high", func() { m.SetBPM(9999) }, func(s pulssi.Settings) bool { return s.BPM == 250 }},
		{"beats low", func() { m.SetBeatsPerMeasure(0) }, func(s pulssi.Settings) bool { return s.BeatsPerMeasure == 1 }},
		{"beats high", func() { m.SetBeatsPerMeasure(99) }, func(s pulssi.Settings) bool { return s.BeatsPerMeasure == 12 }},
		{"volume", func() { m.SetVolume(1.5) }, func(s pulssi.Settings) bool { return s.Volume == 1 }},
		{"latency", func() { m.SetLatencyMs(-5) }, func(s pulssi.Settings) bool { return s.LatencyMs == 0 }},
		{"subdivision", func() { m.SetSubdivision(17) }, func(s pulssi.Settings) bool { return s.Subdivision == pulssi.Quarter }},
	} {
		tt.set()
		if !tt.check(m.Settings()) {
			t.Errorf("%s: settings are %+v", tt.name, m.Settings())
		}
	}
}

func TestModelPublishesSnapshots(t *testing.T) {
	m, broker := newModel(t)
	m.SetBPM(100)
	if s := lastSettings(t, drainAny(broker.ToPlayer)); s.BPM != 100 {
		t.Errorf("published snapshot has bpm %d, want 100", s.BPM)
	}
	// an unchanged value publishes nothing
	m.SetBPM(100)
	if msgs := drainAny(broker.ToPlayer); len(msgs) != 0 {
		t.Errorf("no-op change published %d messages", len(msgs))
	}
	// the MIDI clock hears about tempo changes too
	m.SetBPM(140)
	found := false
	for _, msg := range drainAny(broker.ToMIDI) {
		if bpm, ok := msg.(transport.ClockBPMMsg); ok && bpm.BPM == 140 {
			found = true
		}
	}
	if !found {
		t.Error("tempo change was not published to the MIDI clock")
	}
}

func TestModelStartStop(t *testing.T) {
	m, broker := newModel(t)
	m.Start()
	if !m.IsPlaying() {
		t.Error("model not playing after start")
	}
	msgs := drainAny(broker.ToPlayer)
	starts := 0
	for _, msg := range msgs {
		if _, ok := msg.(transport.StartMsg); ok {
			starts++
		}
	}
	if starts != 1 {
		t.Errorf("start sent %d start messages", starts)
	}
	if msgs := drainAny(broker.ToMIDI); len(msgs) == 0 {
		t.Error("start was not published to the MIDI clock")
	}
	// starting twice must not re-trigger the player
	m.Start()
	if msgs := drainAny(broker.ToPlayer); len(msgs) != 0 {
		t.Errorf("second start published %d messages", len(msgs))
	}
	m.Stop()
	if m.IsPlaying() || m.Beat() != 0 {
		t.Errorf("after stop: playing %v beat %d", m.IsPlaying(), m.Beat())
	}
	stops := 0
	for _, msg := range drainAny(broker.ToPlayer) {
		if _, ok := msg.(transport.StopMsg); ok {
			stops++
		}
	}
	if stops != 1 {
		t.Errorf("stop sent %d stop messages", stops)
	}
	m.TogglePlay()
	if !m.IsPlaying() {
		t.Error("toggle did not restart playback")
	}
}

func TestModelProcessMsg(t *testing.T) {
	m, broker := newModel(t)
	m.Start()
	drainAny(broker.ToMIDI)
	m.ProcessMsg(transport.MsgToModel{HasBeat: true, Beat: -2, Playing: true, CountingIn: true})
	if m.Beat() != -2 || !m.IsCountingIn() || !m.IsPlaying() {
		t.Errorf("count-in beat not reflected: beat %d counting %v", m.Beat(), m.IsCountingIn())
	}
	m.ProcessMsg(transport.MsgToModel{HasBeat: true, Beat: 3, Playing: true})
	if m.Beat() != 3 || m.IsCountingIn() {
		t.Errorf("beat not reflected: beat %d counting %v", m.Beat(), m.IsCountingIn())
	}
	// the player stopping on its own must stop the MIDI clock as well
	m.ProcessMsg(transport.MsgToModel{HasBeat: true, Beat: 0})
	if m.IsPlaying() || m.Beat() != 0 {
		t.Errorf("player stop not reflected: playing %v beat %d", m.IsPlaying(), m.Beat())
	}
	found := false
	for _, msg := range drainAny(broker.ToMIDI) {
		if _, ok := msg.(transport.ClockStopMsg); ok {
			found = true
		}
	}
	if !found {
		t.Error("player-initiated stop did not stop the MIDI clock")
	}
}

func TestModelAlerts(t *testing.T) {
	m, _ := newModel(t)
	alert := transport.Alert{Name: "Test", Message: "first", Priority: transport.Warning, Duration: 100 * time.Millisecond}
	m.ProcessMsg(transport.MsgToModel{Data: alert})
	alert.Message = "second"
	m.ProcessMsg(transport.MsgToModel{Data: alert})
	got := m.Alerts()
	if len(got) != 1 {
		t.Fatalf("%d alerts after two with the same name, want 1", len(got))
	}
	if got[0].Message != "second" {
		t.Errorf("alert message %q, want the newer one", got[0].Message)
	}
	other := transport.Alert{Name: "Other", Duration: 100 * time.Millisecond}
	m.ProcessMsg(transport.MsgToModel{Data: other})
	if got := m.Alerts(); len(got) != 2 {
		t.Errorf("%d alerts with two names, want 2", len(got))
	}
	time.Sleep(150 * time.Millisecond)
	if got := m.Alerts(); len(got) != 0 {
		t.Errorf("%d alerts after expiry, want none", len(got))
	}
}

func TestModelTap(t *testing.T) {
	m, _ := newModel(t)
	m.Tap()
	if got := m.Settings().BPM; got != 120 {
		t.Fatalf("single tap changed the tempo to %d", got)
	}
	time.Sleep(10 * time.Millisecond)
	m.Tap()
	if got := m.Settings().BPM; got <= 120 {
		t.Errorf("two quick taps gave %d bpm, want faster than the default", got)
	}
}

func TestModelPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	broker := transport.NewBroker()
	m := transport.NewModel(broker, path)
	m.SetBPM(99)
	m.SetTimbre(pulssi.TimbreCowbell)
	m.SaveSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("settings were not written: %v", err)
	}
	if !strings.Contains(string(data), "cowbell") {
		t.Errorf("settings file does not name the timbre:\n%s", data)
	}
	m2 := transport.NewModel(transport.NewBroker(), path)
	if s := m2.Settings(); s.BPM != 99 || s.Timbre != pulssi.TimbreCowbell {
		t.Errorf("reloaded settings are %+v", s)
	}
}

func TestModelPersistenceBadFile(t *testing.T) {
	dir := t.TempDir()
	for _, tt := range []struct {
		name    string
		content string
		check   func(pulssi.Settings) bool
	}{
		{"missing", "", func(s pulssi.Settings) bool { return s == pulssi.DefaultSettings() }},
		{"garbage", "{{{: not yaml", func(s pulssi.Settings) bool { return s == pulssi.DefaultSettings() }},
		{"out of range", "bpm: 9999\n", func(s pulssi.Settings) bool { return s.BPM == 250 }},
	} {
		path := filepath.Join(dir, tt.name+".yml")
		if tt.content != "" {
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("%s: %v", tt.name, err)
			}
		}
		m := transport.NewModel(transport.NewBroker(), path)
		if !tt.check(m.Settings()) {
			t.Errorf("%s: settings are %+v", tt.name, m.Settings())
		}
	}
}

func TestModelApplyPreset(t *testing.T) {
	m, _ := newModel(t)
	p, ok := pulssi.FindPreset(pulssi.LoadPresets(), "waltz")
	if !ok {
		t.Fatal("waltz preset not found")
	}
	m.ApplyPreset(p)
	if s := m.Settings(); s.BPM != 140 || s.BeatsPerMeasure != 3 {
		t.Errorf("applied preset gives %+v", s)
	}
}

func TestModelParams(t *testing.T) {
	m, _ := newModel(t)
	bpm := m.BPM().Int()
	if !bpm.Set(10) {
		t.Error("clamped set reported no change")
	}
	if got := m.Settings().BPM; got != 30 {
		t.Errorf("Set(10) gives %d bpm, want the range floor 30", got)
	}
	if !bpm.Add(5) || m.Settings().BPM != 35 {
		t.Errorf("Add(5) gives %d bpm, want 35", m.Settings().BPM)
	}
	bpm.Set(250)
	if bpm.Add(10) {
		t.Error("Add past the range ceiling reported a change")
	}
	if got := bpm.Range(); got != pulssi.TempoRange {
		t.Errorf("bpm range is %+v", got)
	}
	bpm.Reset()
	if got := m.Settings().BPM; got != 120 {
		t.Errorf("Reset gives %d bpm, want the default 120", got)
	}
	m.VolumePercent().Int().Set(50)
	if got := m.Settings().Volume; got != 0.5 {
		t.Errorf("volume is %g after setting 50 percent", got)
	}
	if got := m.VolumePercent().Value(); got != 50 {
		t.Errorf("volume reads back %d percent", got)
	}
	muted := m.Muted().Bool()
	muted.Toggle()
	if !m.Settings().Muted {
		t.Error("toggle did not mute")
	}
	playing := m.Playing().Bool()
	playing.Set(true)
	if !m.IsPlaying() {
		t.Error("playing param did not start playback")
	}
	playing.Toggle()
	if m.IsPlaying() {
		t.Error("playing param did not stop playback")
	}
}
