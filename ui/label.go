package ui

import (
	"image"
	"image/color"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
)

// LabelStyle draws one line of text in a single color, aligned within the
// space it is given.
type LabelStyle struct {
	Text      string
	Color     color.NRGBA
	Alignment layout.Direction
	Font      font.Font
	FontSize  unit.Sp
	Shaper    *text.Shaper
}

func (l LabelStyle) Layout(gtx C) D {
	return l.Alignment.Layout(gtx, func(gtx C) D {
		gtx.Constraints.Min = image.Point{}
		paint.ColorOp{Color: l.Color}.Add(gtx.Ops)
		dims := widget.Label{Alignment: text.Start, MaxLines: 1}.Layout(
			gtx, l.Shaper, l.Font, l.FontSize, l.Text, op.CallOp{})
		return D{Size: dims.Size, Baseline: dims.Baseline}
	})
}
