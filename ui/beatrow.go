package ui

import (
	"image"
	"math"
	"strconv"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"github.com/vkuusisto/pulssi"
	"github.com/vkuusisto/pulssi/transport"
)

type (
	// BeatDisplay is the state of the central beat readout: the current
	// beat inside a measure progress arc, over one dot per beat of the
	// measure. Scrolling over the dots changes the measure length. The
	// struct itself is the event routing tag, so every display needs its
	// own instance.
	BeatDisplay struct {
		eventTag int
	}

	BeatDisplayStyle struct {
		Model  *transport.Model
		State  *BeatDisplay
		Shaper *text.Shaper
	}
)

const (
	arcDiameter  = unit.Dp(160)
	dotSpacing   = unit.Dp(26)
	dotRadius    = unit.Dp(5)
	accentRadius = unit.Dp(7)
)

func BeatRow(model *transport.Model, state *BeatDisplay, shaper *text.Shaper) BeatDisplayStyle {
	return BeatDisplayStyle{Model: model, State: state, Shaper: shaper}
}

func (b BeatDisplayStyle) Layout(gtx C) D {
	b.update(gtx)
	return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(b.layoutArc),
		layout.Rigid(layout.Spacer{Height: unit.Dp(12)}.Layout),
		layout.Rigid(b.layoutDots),
	)
}

func (b *BeatDisplayStyle) update(gtx C) {
	for {
		e, ok := gtx.Event(pointer.Filter{
			Target:  b.State,
			Kinds:   pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -1e6, Max: 1e6},
		})
		if !ok {
			break
		}
		if ev, ok := e.(pointer.Event); ok && ev.Kind == pointer.Scroll {
			delta := -int(math.Min(math.Max(float64(ev.Scroll.Y), -1), 1))
			b.Model.BeatsPerMeasure().Int().Add(delta)
		}
	}
}

// layoutArc draws the measure progress arc with the beat readout in the
// middle: the beat number while running, the countdown while counting in.
func (b *BeatDisplayStyle) layoutArc(gtx C) D {
	s := b.Model.Settings()
	beat := b.Model.Beat()
	text := "-"
	color := disabledTextColor
	var progress float32
	switch {
	case b.Model.IsCountingIn():
		text = strconv.Itoa(-beat)
		color = countInColor
		n := s.CountInBeats()
		progress = float32(n+beat+1) / float32(n)
	case b.Model.IsPlaying() && beat > 0:
		text = strconv.Itoa(beat)
		color = beatCurrentColor
		progress = float32(beat) / float32(s.BeatsPerMeasure)
	}
	d := gtx.Dp(arcDiameter)
	sw := gtx.Dp(unit.Dp(6))
	arc := func(gtx C) D {
		defer clip.Rect(image.Rectangle{Max: image.Pt(d, d)}).Push(gtx.Ops).Pop()
		strokeArc(gtx, arcBgColor, sw, d, 0, 1)
		strokeArc(gtx, color, sw, d, 0, progress)
		return D{Size: image.Pt(d, d)}
	}
	label := LabelStyle{
		Text:      text,
		Color:     color,
		Alignment: layout.Center,
		Font:      labelDefaultFont,
		FontSize:  beatFontSize,
		Shaper:    b.Shaper,
	}
	return layout.Stack{Alignment: layout.Center}.Layout(gtx,
		layout.Stacked(arc),
		layout.Stacked(label.Layout))
}

func (b *BeatDisplayStyle) layoutDots(gtx C) D {
	s := b.Model.Settings()
	beat := b.Model.Beat()
	spacing := gtx.Dp(dotSpacing)
	height := 2 * gtx.Dp(accentRadius)
	width := s.BeatsPerMeasure * spacing
	defer clip.Rect(image.Rectangle{Max: image.Pt(width, height)}).Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, b.State)
	for i := 1; i <= s.BeatsPerMeasure; i++ {
		accented := pulssi.Accented(s.Accent, i)
		r := gtx.Dp(dotRadius)
		if accented {
			r = gtx.Dp(accentRadius)
		}
		color := beatDotColor
		if accented {
			color = beatDotAccentColor
		}
		if b.Model.IsPlaying() && !b.Model.IsCountingIn() && i == beat {
			color = beatCurrentColor
		}
		cx := (i-1)*spacing + spacing/2
		cy := height / 2
		circle := clip.Ellipse{
			Min: image.Pt(cx-r, cy-r),
			Max: image.Pt(cx+r, cy+r),
		}
		paint.FillShape(gtx.Ops, color, circle.Op(gtx.Ops))
	}
	return D{Size: image.Pt(width, height)}
}
