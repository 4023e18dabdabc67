package preview

import (
	"github.com/pthm-cable/snow/field"
	"github.com/pthm-cable/snow/scene"
)

// Editor chrome dimensions, px.
const (
	activityBarWidth = 48
	sidebarWidth     = 260
	statusBarHeight  = 22
	panelFraction    = 0.3
)

// Region is one laid-out container with its backdrop color.
type Region struct {
	Node  *scene.Node
	Class string
	Fill  [3]uint8
}

// BuildWorkbench lays out a w x h editor window in sc: the workbench root,
// activity bar, sidebar, editor and bottom panel.
func BuildWorkbench(sc *scene.Scene, w, h float64) []Region {
	body := h - statusBarHeight
	panelH := float64(int(body * panelFraction))
	mainX := float64(activityBarWidth + sidebarWidth)

	specs := []struct {
		class string
		rect  field.Rect
		fill  [3]uint8
	}{
		{"monaco-workbench", field.Rect{W: w, H: h}, [3]uint8{0x00, 0x7a, 0xcc}},
		{"activitybar", field.Rect{W: activityBarWidth, H: body}, [3]uint8{0x33, 0x33, 0x33}},
		{"sidebar", field.Rect{X: activityBarWidth, W: sidebarWidth, H: body}, [3]uint8{0x25, 0x25, 0x26}},
		{"editor-container", field.Rect{X: mainX, W: w - mainX, H: body - panelH}, [3]uint8{0x1e, 0x1e, 0x1e}},
		{"panel", field.Rect{X: mainX, Y: body - panelH, W: w - mainX, H: panelH}, [3]uint8{0x18, 0x18, 0x18}},
	}

	out := make([]Region, 0, len(specs))
	for _, s := range specs {
		out = append(out, Region{Node: sc.Add(s.class, s.rect), Class: s.class, Fill: s.fill})
	}
	return out
}
