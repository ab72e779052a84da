package transport

import (
	"os"
	"path/filepath"
	"time"

	"github.com/vkuusisto/pulssi"
	"gopkg.in/yaml.v3"
)

type (
	// Model is the metronome state as the user sees it. It is owned by the
	// consumer goroutine (the GUI event loop or the CLI loop); the player
	// goroutine only talks to it through the broker, so the model needs no
	// locks. Every setter clamps its value and publishes a full settings
	// snapshot, which the player observes at its next poll.
	Model struct {
		settings   pulssi.Settings
		playing    bool
		countingIn bool
		beat       int
		taps       pulssi.TapTempo
		alerts     []activeAlert
		broker     *Broker

		configPath string      // empty disables persistence
		saveTimer  *time.Timer // pending debounced save, nil if none
	}

	activeAlert struct {
		Alert
		expires time.Time
	}
)

const saveDebounce = 2 * time.Second

// NewModel creates a model, loading the persisted settings from
// configPath when it exists and falling back to defaults when it does not
// or cannot be parsed. An empty configPath disables persistence.
func NewModel(broker *Broker, configPath string) *Model {
	m := &Model{
		broker:     broker,
		settings:   pulssi.DefaultSettings(),
		configPath: configPath,
	}
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			s := pulssi.DefaultSettings()
			if yaml.Unmarshal(data, &s) == nil {
				m.settings = s.Clamp()
			}
		}
	}
	m.sendSettings()
	return m
}

// DefaultConfigPath is where settings persist between sessions; empty if
// the user config directory cannot be determined.
func DefaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "pulssi", "settings.yml")
}

// Start starts playback. It is a no-op when already playing.
func (m *Model) Start() {
	if m.playing {
		return
	}
	m.playing = true
	m.countingIn = m.settings.CountIn
	TrySend(m.broker.ToPlayer, any(StartMsg{}))
	TrySend(m.broker.ToMIDI, any(ClockStartMsg{BPM: m.settings.BPM}))
}

// Stop stops playback and resets the visual beat. Always safe to call,
// playing or not.
func (m *Model) Stop() {
	m.playing = false
	m.countingIn = false
	m.beat = 0
	TrySend(m.broker.ToPlayer, any(StopMsg{}))
	TrySend(m.broker.ToMIDI, any(ClockStopMsg{}))
}

func (m *Model) TogglePlay() {
	if m.playing {
		m.Stop()
	} else {
		m.Start()
	}
}

// Tap records a tap tempo tap at the present moment; once enough taps
// have accumulated, the tempo follows the estimate.
func (m *Model) Tap() {
	if bpm, ok := m.taps.Tap(time.Now()); ok {
		m.SetBPM(bpm)
	}
}

func (m *Model) SetBPM(value int) {
	s := m.settings
	s.BPM = value
	m.applySettings(s)
}

func (m *Model) SetBeatsPerMeasure(value int) {
	s := m.settings
	s.BeatsPerMeasure = value
	m.applySettings(s)
}

func (m *Model) SetSubdivision(value pulssi.Subdivision) {
	s := m.settings
	s.Subdivision = value
	m.applySettings(s)
}

func (m *Model) SetAccent(value pulssi.AccentPattern) {
	s := m.settings
	s.Accent = value
	m.applySettings(s)
}

func (m *Model) SetVolume(value float32) {
	s := m.settings
	s.Volume = value
	m.applySettings(s)
}

func (m *Model) SetTimbre(value pulssi.Timbre) {
	s := m.settings
	s.Timbre = value
	m.applySettings(s)
}

func (m *Model) SetCountIn(value bool) {
	s := m.settings
	s.CountIn = value
	m.applySettings(s)
}

func (m *Model) SetCountInMeasures(value int) {
	s := m.settings
	s.CountInMeasures = value
	m.applySettings(s)
}

func (m *Model) SetMuted(value bool) {
	s := m.settings
	s.Muted = value
	m.applySettings(s)
}

func (m *Model) ToggleMuted() {
	m.SetMuted(!m.settings.Muted)
}

func (m *Model) SetLatencyMs(value int) {
	s := m.settings
	s.LatencyMs = value
	m.applySettings(s)
}

// ApplyPreset takes the settings of a preset into use.
func (m *Model) ApplyPreset(p pulssi.Preset) {
	m.applySettings(p.Settings)
}

// SetSettings replaces the whole settings at once, clamped.
func (m *Model) SetSettings(s pulssi.Settings) {
	m.applySettings(s)
}

func (m *Model) applySettings(s pulssi.Settings) {
	s = s.Clamp()
	if m.settings == s {
		return
	}
	m.settings = s
	m.sendSettings()
	m.scheduleSave()
}

func (m *Model) sendSettings() {
	TrySend(m.broker.ToPlayer, any(m.settings))
	TrySend(m.broker.ToMIDI, any(ClockBPMMsg{BPM: m.settings.BPM}))
}

// ProcessMsg updates the model from one broker message. The consumer loop
// calls this for every message it drains from ToModel.
func (m *Model) ProcessMsg(msg MsgToModel) {
	if msg.HasBeat {
		if m.playing && !msg.Playing {
			// the player stopped on its own, e.g. the audio device failed
			TrySend(m.broker.ToMIDI, any(ClockStopMsg{}))
		}
		m.beat = msg.Beat
		m.playing = msg.Playing
		m.countingIn = msg.CountingIn
	}
	switch d := msg.Data.(type) {
	case Alert:
		m.addAlert(d)
	case TapMsg:
		m.Tap()
	}
}

func (m *Model) Beat() int                 { return m.beat }
func (m *Model) IsPlaying() bool           { return m.playing }
func (m *Model) IsCountingIn() bool        { return m.countingIn }
func (m *Model) Settings() pulssi.Settings { return m.settings }

func (m *Model) addAlert(a Alert) {
	n := activeAlert{Alert: a, expires: time.Now().Add(a.Duration)}
	for i := range m.alerts {
		if m.alerts[i].Name == a.Name {
			m.alerts[i] = n
			return
		}
	}
	m.alerts = append(m.alerts, n)
}

// Alerts returns the alerts that have not yet expired.
func (m *Model) Alerts() []Alert {
	now := time.Now()
	keep := m.alerts[:0]
	var ret []Alert
	for _, a := range m.alerts {
		if now.Before(a.expires) {
			keep = append(keep, a)
			ret = append(ret, a.Alert)
		}
	}
	m.alerts = keep
	return ret
}

// scheduleSave arms a debounced save of the current settings. The data is
// marshaled here so the timer goroutine never touches the model.
func (m *Model) scheduleSave() {
	if m.configPath == "" {
		return
	}
	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return
	}
	path := m.configPath
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(saveDebounce, func() { writeSettings(path, data) })
}

// SaveSettings writes the settings out immediately, canceling any pending
// debounced save. Called on shutdown.
func (m *Model) SaveSettings() {
	if m.configPath == "" {
		return
	}
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	data, err := yaml.Marshal(m.settings)
	if err != nil {
		return
	}
	writeSettings(m.configPath, data)
}

func writeSettings(path string, data []byte) {
	if os.MkdirAll(filepath.Dir(path), 0755) != nil {
		return
	}
	os.WriteFile(path, data, 0644)
}
