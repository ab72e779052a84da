package ui

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gioui.org/io/key"
	"gopkg.in/yaml.v2"
)

// KeyBinding ties one key combo to a named action. The yaml files hold a
// flat list of these; later entries win.
type KeyBinding struct {
	Key, Action                                string
	Shortcut, Ctrl, Command, Shift, Alt, Super bool
}

var (
	actionForKey  = map[key.Event]string{}
	hintForAction = map[string]string{} // printable key combos for button hints
)

//go:embed keybindings.yml
var builtinBindingsYml []byte

func init() {
	bindings := builtinBindings()
	bindings = append(bindings, userBindings()...)

	for _, b := range bindings {
		ev := key.Event{Name: key.Name(b.Key), Modifiers: b.modifiers(), State: key.Press}
		if prev, ok := actionForKey[ev]; ok { // rebinding a key drops its old hint
			delete(hintForAction, prev)
		}
		if b.Action == "" { // empty action unbinds the key
			delete(actionForKey, ev)
			continue
		}
		actionForKey[ev] = b.Action
		// when several keys map to one action, the last one becomes the hint
		hintForAction[b.Action] = b.combo()
	}
}

func builtinBindings() []KeyBinding {
	var bindings []KeyBinding
	if err := yaml.Unmarshal(builtinBindingsYml, &bindings); err != nil {
		panic(fmt.Errorf("unmarshal builtin keybindings: %w", err))
	}
	return bindings
}

// userBindings reads overriding bindings from keybindings.yml in the user
// config directory. Missing or malformed files just mean no overrides.
func userBindings() []KeyBinding {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(dir, "pulssi", "keybindings.yml"))
	if err != nil {
		return nil
	}
	var bindings []KeyBinding
	if yaml.Unmarshal(data, &bindings) != nil {
		return nil
	}
	return bindings
}

func (b KeyBinding) modifiers() key.Modifiers {
	var m key.Modifiers
	if b.Shortcut {
		m |= key.ModShortcut
	}
	if b.Ctrl {
		m |= key.ModCtrl
	}
	if b.Command {
		m |= key.ModCommand
	}
	if b.Shift {
		m |= key.ModShift
	}
	if b.Alt {
		m |= key.ModAlt
	}
	if b.Super {
		m |= key.ModSuper
	}
	return m
}

// combo is the binding as hint text, like "Ctrl+T".
func (b KeyBinding) combo() string {
	c := b.Key
	if mods := strings.ReplaceAll(b.modifiers().String(), "-", "+"); mods != "" {
		c = mods + "+" + c
	}
	return c
}

func makeHint(hint, format, action string) string {
	if combo, ok := hintForAction[action]; ok {
		return hint + fmt.Sprintf(format, combo)
	}
	return hint
}

// KeyEvent handles incoming global key events.
func (m *Metronome) KeyEvent(e key.Event, gtx C) {
	if e.State == key.Release {
		return
	}
	action, ok := actionForKey[e]
	if !ok {
		return
	}
	switch action {
	// Booleans
	case "PlayingToggle":
		m.Model.Playing().Bool().Toggle()
	case "MuteToggle":
		m.Model.Muted().Bool().Toggle()
	case "CountInToggle":
		m.Model.CountIn().Bool().Toggle()
	// Actions
	case "Stop":
		m.Model.Playing().Bool().Set(false)
	case "Tap":
		m.Model.Tap()
	case "Quit":
		m.closing = true
	// Integers
	case "TempoAdd1":
		m.Model.BPM().Int().Add(1)
	case "TempoSubtract1":
		m.Model.BPM().Int().Add(-1)
	case "TempoAdd5":
		m.Model.BPM().Int().Add(5)
	case "TempoSubtract5":
		m.Model.BPM().Int().Add(-5)
	case "TempoAdd10":
		m.Model.BPM().Int().Add(10)
	case "TempoSubtract10":
		m.Model.BPM().Int().Add(-10)
	case "BeatsAdd":
		m.Model.BeatsPerMeasure().Int().Add(1)
	case "BeatsSubtract":
		m.Model.BeatsPerMeasure().Int().Add(-1)
	default:
		if rest, found := strings.CutPrefix(action, "Subdivision"); found {
			if val, err := strconv.Atoi(rest); err == nil {
				m.Model.Subdivision().Int().Set(val)
			}
		}
		if rest, found := strings.CutPrefix(action, "Timbre"); found {
			if val, err := strconv.Atoi(rest); err == nil {
				m.Model.Timbre().Int().Set(val - 1)
			}
		}
	}
}
