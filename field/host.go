package field

import "time"

// Rect is a box in page coordinates.
type Rect struct {
	X, Y, W, H float64
}

// Area returns W*H.
func (r Rect) Area() float64 { return r.W * r.H }

// FrameHandle identifies a queued frame callback.
type FrameHandle uint64

// Observer is a disconnectable host notification.
type Observer interface {
	Disconnect()
}

// Clock is the host page's event loop: timers and display-synchronized frames.
// All callbacks run on one goroutine, one at a time.
type Clock interface {
	AfterFunc(d time.Duration, fn func())
	Every(d time.Duration, fn func())
	RequestFrame(fn func()) FrameHandle
	CancelFrame(h FrameHandle)
}

// Document is the host page's element tree and input surface.
type Document interface {
	// Query returns the attached elements matching selector, in document order.
	Query(selector string) []Element
	ObserveMutations(fn func())
	ObserveResize(el Element, fn func(w, h float64)) Observer
	OnPointerMove(fn func(x, y float64))
	OnPointerLeave(fn func())
}

// Host is everything the renderer needs from the page it runs in.
type Host interface {
	Clock
	Document
}

// Element is a host UI container.
type Element interface {
	Attr(name string) string
	SetAttr(name, value string)
	// Rect is the rendered box in page coordinates.
	Rect() Rect
	// Position is the computed CSS positioning mode ("static", "relative", ...).
	Position() string
	SetPosition(mode string)
	// Attached reports whether the element is still part of the document.
	Attached() bool
	// AppendCanvas creates an overlay canvas filling the element.
	AppendCanvas() Canvas
}

// Canvas is a 2D drawing surface.
type Canvas interface {
	SetSize(w, h float64)
	Size() (w, h float64)
	Clear()
	FillCircle(x, y, r float64, rgb [3]uint8, alpha float64)
	// Rect is the canvas box in page coordinates.
	Rect() Rect
	Remove()
}
