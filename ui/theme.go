package ui

import (
	"image/color"

	"gioui.org/font/gofont"
	"gioui.org/unit"
)

var fontCollection = gofont.Collection()

var (
	white       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black       = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	transparent = color.NRGBA{A: 0}

	primaryColor   = color.NRGBA{R: 100, G: 181, B: 246, A: 255}
	secondaryColor = color.NRGBA{R: 129, G: 199, B: 132, A: 255}

	highEmphasisTextColor   = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	mediumEmphasisTextColor = color.NRGBA{R: 158, G: 158, B: 158, A: 255}
	disabledTextColor       = color.NRGBA{R: 255, G: 255, B: 255, A: 97}

	backgroundColor = color.NRGBA{R: 18, G: 18, B: 18, A: 255}

	beatDotColor       = color.NRGBA{R: 55, G: 55, B: 61, A: 255}
	beatDotAccentColor = color.NRGBA{R: 85, G: 85, B: 95, A: 255}
	beatCurrentColor   = primaryColor
	countInColor       = secondaryColor
	arcBgColor         = beatDotColor

	knobBgColor        = beatDotColor
	knobPosColor       = primaryColor
	knobIndicatorColor = white

	errorColor   = color.NRGBA{R: 207, G: 102, B: 121, A: 255}
	warningColor = color.NRGBA{R: 251, G: 192, B: 45, A: 255}
	infoColor    = color.NRGBA{R: 50, G: 50, B: 51, A: 255}
)

var labelDefaultFont = fontCollection[6].Font

var (
	readoutFontSize = unit.Sp(14)
	beatFontSize    = unit.Sp(64)
	bpmFontSize     = unit.Sp(32)
)
