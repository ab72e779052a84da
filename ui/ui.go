package ui

import (
	"image"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"golang.org/x/exp/shiny/materialdesign/icons"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vkuusisto/pulssi/transport"
	"github.com/vkuusisto/pulssi/version"
)

type (
	// Metronome is the gioui front end. It owns the model: all model
	// access happens in the Main loop goroutine, either from window events
	// or from broker messages.
	Metronome struct {
		Theme  *material.Theme
		Shaper *text.Shaper

		PlayBtn    widget.Clickable
		TapBtn     widget.Clickable
		MuteBtn    widget.Clickable
		CountInBtn widget.Clickable
		TimbreBtn  widget.Clickable
		SubdivBtn  widget.Clickable
		AccentBtn  widget.Clickable

		TempoKnob  Knob
		VolumeKnob Knob
		BeatView   BeatDisplay

		caser   cases.Caser
		broker  *transport.Broker
		closing bool

		*transport.Model
	}

	C = layout.Context
	D = layout.Dimensions
)

func NewMetronome(model *transport.Model, broker *transport.Broker) *Metronome {
	m := &Metronome{
		Theme:  material.NewTheme(),
		Shaper: text.NewShaper(text.WithCollection(fontCollection)),
		broker: broker,
		Model:  model,
	}
	m.Theme.Shaper = m.Shaper
	m.Theme.Palette.Bg = backgroundColor
	m.Theme.Palette.Fg = primaryColor
	m.Theme.Palette.ContrastBg = secondaryColor
	m.Theme.Palette.ContrastFg = black
	m.caser = cases.Title(language.English)
	return m
}

// Main runs the window event loop until the window is closed or quit is
// requested. Window events are relayed through a channel so the loop can
// select over them and the broker at the same time; every event is
// acknowledged so the relay goroutine stays in lockstep with the loop.
func (m *Metronome) Main() {
	var ops op.Ops
	for !m.closing {
		w := new(app.Window)
		w.Option(app.Title("Pulssi"), app.Size(unit.Dp(400), unit.Dp(600)))
		events := make(chan event.Event)
		acks := make(chan struct{})
		go func() {
			for {
				ev := w.Event()
				events <- ev
				<-acks
				if _, ok := ev.(app.DestroyEvent); ok {
					return
				}
			}
		}()
	F:
		for {
			select {
			case msg := <-m.broker.ToModel:
				m.ProcessMsg(msg)
				w.Invalidate()
			case e := <-events:
				switch e := e.(type) {
				case app.DestroyEvent:
					m.closing = true
					acks <- struct{}{}
					break F
				case app.FrameEvent:
					gtx := app.NewContext(&ops, e)
					m.Layout(gtx)
					e.Frame(gtx.Ops)
					if m.closing {
						w.Perform(system.ActionClose)
					}
				}
				acks <- struct{}{}
			}
		}
	}
}

func (m *Metronome) Layout(gtx C) {
	defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, backgroundColor)
	event.Op(gtx.Ops, m) // area for capturing the global key events

	for m.PlayBtn.Clicked(gtx) {
		m.Model.Playing().Bool().Toggle()
	}
	for m.TapBtn.Clicked(gtx) {
		m.Model.Tap()
	}
	for m.MuteBtn.Clicked(gtx) {
		m.Model.Muted().Bool().Toggle()
	}
	for m.CountInBtn.Clicked(gtx) {
		m.Model.CountIn().Bool().Toggle()
	}

	layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Flexed(1, func(gtx C) D {
			return layout.Center.Layout(gtx, BeatRow(m.Model, &m.BeatView, m.Shaper).Layout)
		}),
		layout.Rigid(m.layoutKnobs),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Rigid(m.layoutTransport),
		layout.Rigid(m.layoutReadouts),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
	)
	m.layoutAlerts(gtx)
	m.layoutVersion(gtx)

	// this is the top level input handler for the whole app, handling the
	// global key events whatever the modifiers
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: "", Optional: key.ModAlt | key.ModCommand | key.ModShift | key.ModShortcut | key.ModSuper},
		)
		if !ok {
			break
		}
		if e, ok := ev.(key.Event); ok {
			m.KeyEvent(e, gtx)
		}
	}
}

func (m *Metronome) layoutKnobs(gtx C) D {
	tempo := KnobFor(m.Model.BPM().Int(), &m.TempoKnob, "bpm", unit.Dp(96), m.Shaper)
	tempo.ValueSize = bpmFontSize
	volume := KnobFor(m.Model.VolumePercent().Int(), &m.VolumeKnob, "volume", unit.Dp(64), m.Shaper)
	return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceEvenly, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(tempo.Layout),
		layout.Rigid(volume.Layout),
	)
}

func (m *Metronome) layoutTransport(gtx C) D {
	s := m.Model.Settings()
	playIcon := icons.AVPlayArrow
	playHint := makeHint("Play", " (%s)", "PlayingToggle")
	if m.Model.IsPlaying() {
		playIcon = icons.AVStop
		playHint = makeHint("Stop", " (%s)", "PlayingToggle")
	}
	muteIcon := icons.AVVolumeUp
	muteHint := makeHint("Mute", " (%s)", "MuteToggle")
	if s.Muted {
		muteIcon = icons.AVVolumeOff
		muteHint = makeHint("Unmute", " (%s)", "MuteToggle")
	}
	playBtnStyle := IconButton(m.Theme, &m.PlayBtn, playIcon, true, playHint)
	playBtnStyle.Size = unit.Dp(36)
	tapBtnStyle := HighEmphasisButton(m.Theme, &m.TapBtn, makeHint("Tap", " (%s)", "Tap"))
	muteBtnStyle := IconButton(m.Theme, &m.MuteBtn, muteIcon, !s.Muted, muteHint)
	countInBtnStyle := IconButton(m.Theme, &m.CountInBtn, icons.AVFiberSmartRecord, s.CountIn,
		makeHint("Count-in", " (%s)", "CountInToggle"))
	return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceEvenly, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(playBtnStyle.Layout),
		layout.Rigid(tapBtnStyle.Layout),
		layout.Rigid(muteBtnStyle.Layout),
		layout.Rigid(countInBtnStyle.Layout),
	)
}

func (m *Metronome) layoutVersion(gtx C) D {
	return layout.UniformInset(unit.Dp(4)).Layout(gtx, LabelStyle{
		Text:      version.VersionOrHash,
		Color:     mediumEmphasisTextColor,
		Alignment: layout.SE,
		Font:      labelDefaultFont,
		FontSize:  unit.Sp(12),
		Shaper:    m.Shaper,
	}.Layout)
}
