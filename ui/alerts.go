package ui

import (
	"image"
	"time"

	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"github.com/vkuusisto/pulssi/transport"
)

// layoutAlerts draws the active alerts as bars rising from the bottom of
// the window and keeps the frame clock ticking until all of them have
// expired.
func (m *Metronome) layoutAlerts(gtx C) D {
	alerts := m.Model.Alerts()
	if len(alerts) == 0 {
		return D{}
	}
	gtx.Execute(op.InvalidateCmd{At: gtx.Now.Add(100 * time.Millisecond)})
	margin := layout.Inset{Bottom: unit.Dp(40), Left: unit.Dp(24), Right: unit.Dp(24)}
	inset := layout.Inset{Top: unit.Dp(7), Bottom: unit.Dp(7), Left: unit.Dp(12), Right: unit.Dp(12)}
	totalY := 0
	for _, alert := range alerts {
		bg, fg := infoColor, highEmphasisTextColor
		switch alert.Priority {
		case transport.Warning:
			bg, fg = warningColor, black
		case transport.Error:
			bg, fg = errorColor, black
		}
		bgWidget := func(gtx C) D {
			paint.FillShape(gtx.Ops, bg, clip.Rect{Max: gtx.Constraints.Min}.Op())
			return D{Size: gtx.Constraints.Min}
		}
		labelStyle := LabelStyle{
			Text:      alert.Message,
			Color:     fg,
			Alignment: layout.Center,
			Font:      labelDefaultFont,
			FontSize:  readoutFontSize,
			Shaper:    m.Shaper,
		}
		margin.Layout(gtx, func(gtx C) D {
			return layout.S.Layout(gtx, func(gtx C) D {
				defer op.Offset(image.Pt(0, -totalY)).Push(gtx.Ops).Pop()
				gtx.Constraints.Min.X = gtx.Constraints.Max.X
				dims := layout.Stack{Alignment: layout.Center}.Layout(gtx,
					layout.Expanded(bgWidget),
					layout.Stacked(func(gtx C) D {
						return inset.Layout(gtx, labelStyle.Layout)
					}),
				)
				totalY += dims.Size.Y + gtx.Dp(unit.Dp(8))
				return dims
			})
		})
	}
	return D{}
}
