package scene

import "github.com/pthm-cable/snow/field"

// Node is a container element.
type Node struct {
	scene    *Scene
	classes  []string
	attrs    map[string]string
	rect     field.Rect
	position string
	attached bool
	canvases []*Canvas
}

// HasClass reports whether the node carries class c.
func (n *Node) HasClass(c string) bool {
	for _, k := range n.classes {
		if k == c {
			return true
		}
	}
	return false
}

// Attr returns the named attribute, or "" when unset.
func (n *Node) Attr(name string) string { return n.attrs[name] }

// SetAttr sets the named attribute.
func (n *Node) SetAttr(name, value string) { n.attrs[name] = value }

// Rect is the node's box in page coordinates.
func (n *Node) Rect() field.Rect { return n.rect }

// Position is the CSS positioning mode; new nodes are "static".
func (n *Node) Position() string { return n.position }

// SetPosition sets the CSS positioning mode.
func (n *Node) SetPosition(mode string) { n.position = mode }

// Attached reports whether the node is still in the scene.
func (n *Node) Attached() bool { return n.attached }

// Canvases returns the node's live overlay canvases.
func (n *Node) Canvases() []*Canvas { return n.canvases }

// AppendCanvas adds an overlay canvas sized 0x0 until SetSize.
func (n *Node) AppendCanvas() field.Canvas {
	c := &Canvas{node: n}
	n.canvases = append(n.canvases, c)
	n.scene.notify()
	return c
}

// Resize changes the node's box and notifies its resize observers.
func (n *Node) Resize(w, h float64) {
	n.rect.W, n.rect.H = w, h
	for _, o := range n.scene.resize {
		if o.node == n {
			o.fn(w, h)
		}
	}
}

// MoveTo changes the node's page position. Size observers are not notified.
func (n *Node) MoveTo(x, y float64) {
	n.rect.X, n.rect.Y = x, y
}

func (n *Node) removeCanvas(c *Canvas) {
	for i, m := range n.canvases {
		if m == c {
			n.canvases = append(n.canvases[:i], n.canvases[i+1:]...)
			n.scene.notify()
			return
		}
	}
}

// Circle is one recorded FillCircle call, in canvas coordinates.
type Circle struct {
	X, Y, R float64
	RGB     [3]uint8
	Alpha   float64
}

// Canvas records the circles drawn since the last Clear.
type Canvas struct {
	node    *Node
	w, h    float64
	removed bool
	clears  int
	circles []Circle
}

// SetSize sets the canvas backing size.
func (c *Canvas) SetSize(w, h float64) { c.w, c.h = w, h }

// Size returns the canvas backing size.
func (c *Canvas) Size() (w, h float64) { return c.w, c.h }

// Clears counts Clear calls, one per drawn frame.
func (c *Canvas) Clears() int { return c.clears }

// Circles returns the circles drawn since the last Clear.
func (c *Canvas) Circles() []Circle { return c.circles }

// Removed reports whether Remove was called.
func (c *Canvas) Removed() bool { return c.removed }

// Clear drops the recorded circles.
func (c *Canvas) Clear() {
	c.circles = c.circles[:0]
	c.clears++
}

// FillCircle records one circle.
func (c *Canvas) FillCircle(x, y, r float64, rgb [3]uint8, alpha float64) {
	c.circles = append(c.circles, Circle{X: x, Y: y, R: r, RGB: rgb, Alpha: alpha})
}

// Rect is the owning node's box: the canvas fills it.
func (c *Canvas) Rect() field.Rect { return c.node.rect }

// Remove detaches the canvas from its node. Repeated calls are no-ops.
func (c *Canvas) Remove() {
	if c.removed {
		return
	}
	c.removed = true
	c.node.removeCanvas(c)
}
