package ui

import (
	"gioui.org/layout"
	"gioui.org/widget"
	"github.com/vkuusisto/pulssi/transport"
)

// layoutReadouts is the row of cycling text settings below the knobs: the
// click sound, the subdivision and the accent pattern. Clicking a readout
// advances its setting to the next value, wrapping around at the end.
func (m *Metronome) layoutReadouts(gtx C) D {
	for m.TimbreBtn.Clicked(gtx) {
		cycle(m.Model.Timbre().Int())
	}
	for m.SubdivBtn.Clicked(gtx) {
		cycle(m.Model.Subdivision().Int())
	}
	for m.AccentBtn.Clicked(gtx) {
		cycle(m.Model.Accent().Int())
	}
	s := m.Model.Settings()
	return layout.Flex{Axis: layout.Horizontal, Spacing: layout.SpaceEvenly, Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(1, func(gtx C) D {
			return m.readout(gtx, &m.TimbreBtn, s.Timbre.String(), "sound")
		}),
		layout.Flexed(1, func(gtx C) D {
			return m.readout(gtx, &m.SubdivBtn, s.Subdivision.String(), "subdivision")
		}),
		layout.Flexed(1, func(gtx C) D {
			return m.readout(gtx, &m.AccentBtn, s.Accent.String(), "accent")
		}),
	)
}

func (m *Metronome) readout(gtx C, btn *widget.Clickable, value, caption string) D {
	btnStyle := LowEmphasisButton(m.Theme, btn, m.caser.String(value))
	btnStyle.Color = highEmphasisTextColor
	title := LabelStyle{
		Text:      caption,
		Color:     mediumEmphasisTextColor,
		Alignment: layout.Center,
		Font:      labelDefaultFont,
		FontSize:  readoutFontSize,
		Shaper:    m.Shaper,
	}
	return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(btnStyle.Layout),
		layout.Rigid(title.Layout),
	)
}

// cycle advances an integer setting by one, wrapping back to the minimum
// past the end of its range.
func cycle(v transport.Int) {
	next := v.Value() + 1
	if next > v.Range().Max {
		next = v.Range().Min
	}
	v.Set(next)
}
