// Package scene is an in-memory host page for the snow renderer: a flat list
// of class-tagged containers, recording canvases and a virtual-time event loop.
// Previews paint from it; tests drive it directly.
package scene

import (
	"strings"

	"github.com/pthm-cable/snow/field"
)

// Scene is a host page. It satisfies field.Host.
type Scene struct {
	*field.Loop

	nodes        []*Node
	observers    []func()
	resize       []*resizeObserver
	pointerMove  []func(x, y float64)
	pointerLeave []func()
	delivered    int
}

// New creates an empty scene with its own loop.
func New() *Scene {
	return &Scene{Loop: field.NewLoop()}
}

// Add attaches a container. classes is a space-separated class list.
func (s *Scene) Add(classes string, rect field.Rect) *Node {
	n := &Node{
		scene:    s,
		classes:  strings.Fields(classes),
		attrs:    make(map[string]string),
		rect:     rect,
		position: "static",
		attached: true,
	}
	s.nodes = append(s.nodes, n)
	s.notify()
	return n
}

// Remove detaches a container and everything in it.
func (s *Scene) Remove(n *Node) {
	for i, m := range s.nodes {
		if m == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			n.attached = false
			s.notify()
			return
		}
	}
}

// Nodes returns the attached containers in document order.
func (s *Scene) Nodes() []*Node {
	out := make([]*Node, len(s.nodes))
	copy(out, s.nodes)
	return out
}

// Canvases returns every attached canvas in document order.
func (s *Scene) Canvases() []*Canvas {
	var out []*Canvas
	for _, n := range s.nodes {
		out = append(out, n.canvases...)
	}
	return out
}

// Mutations returns how many mutation notifications were delivered.
func (s *Scene) Mutations() int { return s.delivered }

func (s *Scene) notify() {
	if len(s.observers) == 0 {
		return
	}
	s.delivered++
	for _, fn := range s.observers {
		fn()
	}
}

// MovePointer delivers a pointer-move event at page coordinates.
func (s *Scene) MovePointer(x, y float64) {
	for _, fn := range s.pointerMove {
		fn(x, y)
	}
}

// LeavePointer delivers a pointer-leave event.
func (s *Scene) LeavePointer() {
	for _, fn := range s.pointerLeave {
		fn()
	}
}

// Query matches ".class" selectors; "*" matches every container.
func (s *Scene) Query(selector string) []field.Element {
	var out []field.Element
	for _, n := range s.nodes {
		if selector == "*" || (strings.HasPrefix(selector, ".") && n.HasClass(selector[1:])) {
			out = append(out, n)
		}
	}
	return out
}

// ObserveMutations registers fn for every attach, detach and canvas change.
func (s *Scene) ObserveMutations(fn func()) {
	s.observers = append(s.observers, fn)
}

// ObserveResize registers fn for size changes of el, which must be a *Node.
func (s *Scene) ObserveResize(el field.Element, fn func(w, h float64)) field.Observer {
	o := &resizeObserver{scene: s, node: el.(*Node), fn: fn}
	s.resize = append(s.resize, o)
	return o
}

// ResizeObservers returns the number of connected resize observers.
func (s *Scene) ResizeObservers() int { return len(s.resize) }

// OnPointerMove registers a page-level pointer-move listener.
func (s *Scene) OnPointerMove(fn func(x, y float64)) {
	s.pointerMove = append(s.pointerMove, fn)
}

// OnPointerLeave registers a page-level pointer-leave listener.
func (s *Scene) OnPointerLeave(fn func()) {
	s.pointerLeave = append(s.pointerLeave, fn)
}

type resizeObserver struct {
	scene *Scene
	node  *Node
	fn    func(w, h float64)
}

func (o *resizeObserver) Disconnect() {
	list := o.scene.resize
	for i, m := range list {
		if m == o {
			o.scene.resize = append(list[:i], list[i+1:]...)
			return
		}
	}
}

var _ field.Host = (*Scene)(nil)
