package ui

import (
	"log"

	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
)

const buttonInset = unit.Dp(6)

// iconCache holds icons parsed from IconVG data once and reused; the data
// slices are package-level constants so their first byte works as a key.
var iconCache = map[*byte]*widget.Icon{}

func loadIcon(data []byte) *widget.Icon {
	if ic, ok := iconCache[&data[0]]; ok {
		return ic
	}
	ic, err := widget.NewIcon(data)
	if err != nil {
		log.Fatalf("invalid icon data: %v", err)
	}
	iconCache[&data[0]] = ic
	return ic
}

// IconButton is a borderless icon button; a disabled look is used for
// toggles that are currently off.
func IconButton(th *material.Theme, w *widget.Clickable, icon []byte, enabled bool, description string) material.IconButtonStyle {
	btn := material.IconButton(th, w, loadIcon(icon), description)
	btn.Background = transparent
	btn.Inset = layout.UniformInset(buttonInset)
	btn.Color = primaryColor
	if !enabled {
		btn.Color = disabledTextColor
	}
	return btn
}

// LowEmphasisButton is a plain text button without a background.
func LowEmphasisButton(th *material.Theme, w *widget.Clickable, text string) material.ButtonStyle {
	btn := material.Button(th, w, text)
	btn.Background = transparent
	btn.Color = th.Palette.Fg
	btn.Inset = layout.UniformInset(buttonInset)
	return btn
}

// HighEmphasisButton is a filled text button, for the one action that
// should stand out.
func HighEmphasisButton(th *material.Theme, w *widget.Clickable, text string) material.ButtonStyle {
	btn := material.Button(th, w, text)
	btn.Background = th.Palette.Fg
	btn.Color = th.Palette.ContrastFg
	btn.Inset = layout.UniformInset(buttonInset)
	return btn
}
