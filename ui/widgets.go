package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.HeaderFontSize + r.Theme.Padding
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a labelled fill bar for a value in [0, 1].
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*value), r.Theme.BarHeight, r.Theme.BarFill)
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// Slider draws a captioned slider and returns its value and the new Y position.
func (r *Renderer) Slider(x, y int32, label string, value, min, max float32, format string, width int32) (float32, int32) {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	y += r.Theme.LineHeight

	barWidth := width - 70
	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(barWidth), Height: float32(r.Theme.SliderHeight)}
	v := gui.SliderBar(bounds, "", "", value, min, max)
	rl.DrawText(fmt.Sprintf(format, v), x+barWidth+10, y+2, r.Theme.FontSize, r.Theme.ValueColor)

	return v, y + r.Theme.SliderHeight + r.Theme.Padding
}

// Toggle draws a labelled checkbox and returns its state and the new Y position.
func (r *Renderer) Toggle(x, y int32, label string, checked bool) (bool, int32) {
	size := r.Theme.SliderHeight
	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(size), Height: float32(size)}
	v := gui.CheckBox(bounds, label, checked)
	return v, y + size + r.Theme.Padding
}
