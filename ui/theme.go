// Package ui draws the preview's side panel with a consistent theme.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	SliderHeight   int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme, matched to a dark editor.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 37, G: 37, B: 38, A: 255},
		PanelBorder:    rl.Color{R: 60, G: 60, B: 60, A: 255},
		SectionHeader:  rl.Color{R: 0, G: 122, B: 204, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 50, G: 50, B: 52, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		Padding:        15,
		LineHeight:     18,
		LabelWidth:     90,
		BarHeight:      12,
		SliderHeight:   20,
		FontSize:       14,
		HeaderFontSize: 20,
	}
}
