package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"gioui.org/f32"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/x/stroke"
	"github.com/vkuusisto/pulssi/transport"
)

type (
	// Knob is the retained state of one knob between frames.
	Knob struct {
		drag         gesture.Drag
		dragStartPt  f32.Point
		dragStartVal int
		click        gesture.Click
	}

	KnobStyle struct {
		Value       transport.Int
		State       *Knob
		Title       string
		Diameter    unit.Dp
		StrokeWidth unit.Dp
		ValueSize   unit.Sp
		Color       color.NRGBA
		Bg          color.NRGBA
		Shaper      *text.Shaper
	}
)

// dialGap is the fraction of the turn the dial ring leaves open at the
// bottom. The value sweeps clockwise through the rest, starting at the
// lower left.
const dialGap = 0.2

// dragSensitivity is the pointer travel that takes a knob across its
// whole range.
const dragSensitivity = unit.Dp(128)

// KnobFor lays a titled knob out for an integer setting: drag or scroll to
// adjust, double-click to reset, the value readout in the middle of the arc.
func KnobFor(value transport.Int, state *Knob, title string, diameter unit.Dp, shaper *text.Shaper) KnobStyle {
	return KnobStyle{
		Value:       value,
		State:       state,
		Title:       title,
		Diameter:    diameter,
		StrokeWidth: unit.Dp(4),
		ValueSize:   unit.Sp(16),
		Color:       knobPosColor,
		Bg:          knobBgColor,
		Shaper:      shaper,
	}
}

func (k KnobStyle) Layout(gtx C) D {
	k.update(gtx)
	value := LabelStyle{
		Text:      strconv.Itoa(k.Value.Value()),
		Color:     highEmphasisTextColor,
		Alignment: layout.Center,
		Font:      labelDefaultFont,
		FontSize:  k.ValueSize,
		Shaper:    k.Shaper,
	}
	title := LabelStyle{
		Text:      k.Title,
		Color:     mediumEmphasisTextColor,
		Alignment: layout.Center,
		Font:      labelDefaultFont,
		FontSize:  readoutFontSize,
		Shaper:    k.Shaper,
	}
	return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.Stack{Alignment: layout.Center}.Layout(gtx,
				layout.Stacked(k.layoutDial),
				layout.Stacked(value.Layout))
		}),
		layout.Rigid(title.Layout),
	)
}

func (k *KnobStyle) layoutDial(gtx C) D {
	d := gtx.Dp(k.Diameter)
	sw := gtx.Dp(k.StrokeWidth)
	defer clip.Rect(image.Rectangle{Max: image.Pt(d, d)}).Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, k.State)
	k.State.drag.Add(gtx.Ops)
	k.State.click.Add(gtx.Ops)
	amount := k.amount()
	strokeArc(gtx, k.Bg, sw, d, amount, 1)
	strokeArc(gtx, k.Color, sw, d, 0, amount)
	k.strokeIndicator(gtx, amount)
	return D{Size: image.Pt(d, d)}
}

// amount is the value's position within its range, 0 to 1.
func (k *KnobStyle) amount() float32 {
	m := k.Value.Range()
	return float32(k.Value.Value()-m.Min) / float32(m.Max-m.Min)
}

func (k *KnobStyle) update(gtx C) {
	for {
		p, ok := k.State.drag.Update(gtx.Metric, gtx.Source, gesture.Both)
		if !ok {
			break
		}
		switch p.Kind {
		case pointer.Press:
			k.State.dragStartPt = p.Position
			k.State.dragStartVal = k.Value.Value()
		case pointer.Drag:
			m := k.Value.Range()
			travel := p.Position.Sub(k.State.dragStartPt)
			swept := float32(travel.X-travel.Y) / float32(gtx.Dp(dragSensitivity))
			k.Value.Set(k.State.dragStartVal + int(swept*float32(m.Max-m.Min)))
		}
	}
	for {
		g, ok := k.State.click.Update(gtx.Source)
		if !ok {
			break
		}
		if g.Kind == gesture.KindClick && g.NumClicks > 1 {
			k.Value.Reset()
		}
	}
	for {
		e, ok := gtx.Event(pointer.Filter{
			Target:  k.State,
			Kinds:   pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -1e6, Max: 1e6},
		})
		if !ok {
			break
		}
		if ev, ok := e.(pointer.Event); ok && ev.Kind == pointer.Scroll {
			k.Value.Add(scrollSteps(ev))
		}
	}
}

// scrollSteps turns one scroll event into value steps: one per notch, ten
// with the shortcut modifier held.
func scrollSteps(ev pointer.Event) int {
	step := -int(min(max(float64(ev.Scroll.Y), -1), 1))
	if ev.Modifiers.Contain(key.ModShortcut) {
		step *= 10
	}
	return step
}

func (k *KnobStyle) strokeIndicator(gtx C, amount float32) {
	c := float32(gtx.Dp(k.Diameter)) / 2
	outer := c - 1.5*float32(gtx.Dp(k.StrokeWidth))
	inner := outer - float32(gtx.Dp(unit.Dp(6)))
	a := dialAngle(amount)
	segments := [...]stroke.Segment{
		stroke.MoveTo(dialPoint(c, inner, a)),
		stroke.LineTo(dialPoint(c, outer, a)),
	}
	paint.FillShape(gtx.Ops, knobIndicatorColor, stroke.Stroke{
		Path:  stroke.Path{Segments: segments[:]},
		Width: float32(gtx.Dp(unit.Dp(2))),
		Cap:   stroke.FlatCap,
	}.Op(gtx.Ops))
}

// strokeArc draws the part of the dial ring between the fractions from
// and to, both in [0, 1].
func strokeArc(gtx C, col color.NRGBA, strokeWidth, diameter int, from, to float32) {
	to = min(max(to, 0), 1)
	if to <= from {
		return
	}
	r := float32(diameter) / 2
	mid := r - float32(strokeWidth)/2
	sweep := (to - from) * (1 - dialGap) * 2 * math.Pi
	segments := [...]stroke.Segment{
		stroke.MoveTo(dialPoint(r, mid, dialAngle(from))),
		stroke.ArcTo(f32.Point{X: r, Y: r}, sweep),
	}
	paint.FillShape(gtx.Ops, col, stroke.Stroke{
		Path:  stroke.Path{Segments: segments[:]},
		Width: float32(strokeWidth),
		Cap:   stroke.FlatCap,
	}.Op(gtx.Ops))
}

// dialAngle converts a fraction of the dial to an angle in radians,
// measured clockwise from the bottom of the ring.
func dialAngle(frac float32) float64 {
	return (dialGap/2 + float64(frac)*(1-dialGap)) * 2 * math.Pi
}

// dialPoint is the point at the given angle on a circle centered at
// (c, c) with radius r.
func dialPoint(c, r float32, angle float64) f32.Point {
	return f32.Point{
		X: c - r*float32(math.Sin(angle)),
		Y: c + r*float32(math.Cos(angle)),
	}
}
