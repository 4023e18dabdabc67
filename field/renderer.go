// Package field simulates the falling-snow overlay: one particle surface per
// matching host container, kept alive across the host's DOM churn.
//
// The renderer never blocks and never spawns goroutines. It is driven entirely
// by the Host's callbacks, so a single Renderer must only be touched from the
// goroutine that drives its Host.
package field

import (
	"log/slog"
	"math/rand"
	"sort"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/snow/components"
	"github.com/pthm-cable/snow/config"
)

// IDAttr is the container attribute holding its surface id.
const IDAttr = "data-snow-id"

// Renderer owns every surface of one host page.
type Renderer struct {
	host Host
	cfg  *config.Config
	rng  *rand.Rand

	surfaces map[string]*Surface
	cursor   Cursor

	started     bool
	scanPending bool
	counters    Counters

	// NewID generates container ids. Defaults to random UUIDs.
	NewID func() string
}

// Counters are running totals since the renderer was created.
type Counters struct {
	Created  int // surfaces created
	TornDown int // surfaces torn down
	Frames   int // surface frames drawn
	Recycled int // flakes respawned at the top edge
}

// New creates a renderer for host. cfg must be finalized and is not modified.
func New(host Host, cfg *config.Config, rng *rand.Rand) *Renderer {
	return &Renderer{
		host:     host,
		cfg:      cfg,
		rng:      rng,
		surfaces: make(map[string]*Surface),
		cursor:   NewCursor(),
		NewID:    uuid.NewString,
	}
}

// Start arms the renderer: cursor tracking, a warm-up delay, then periodic
// and mutation-driven scans. Calling it again does nothing.
func (r *Renderer) Start() {
	if r.started {
		return
	}
	r.started = true

	if r.cfg.Snow.CursorInteraction {
		r.host.OnPointerMove(r.cursor.Move)
		r.host.OnPointerLeave(r.cursor.Leave)
	}

	r.host.AfterFunc(r.cfg.Derived.Warmup, func() {
		r.Scan()
		r.host.Every(r.cfg.Derived.ScanInterval, func() {
			r.Sweep()
			r.Scan()
		})
		r.host.ObserveMutations(r.mutated)
	})
}

// mutated coalesces a burst of DOM mutations into one scan.
func (r *Renderer) mutated() {
	if r.scanPending {
		return
	}
	r.scanPending = true
	r.host.AfterFunc(r.cfg.Derived.MutationDebounce, func() {
		r.scanPending = false
		r.Scan()
	})
}

// Scan creates a surface for every matching container that lacks one.
// Returns the number of surfaces created.
func (r *Renderer) Scan() int {
	created := 0
	for _, sel := range r.cfg.Derived.Selectors {
		for _, el := range r.host.Query(sel) {
			if r.owns(el) {
				continue
			}
			if r.createSurface(el) != nil {
				created++
			}
		}
	}
	return created
}

// Sweep tears down every surface whose container left the document.
// Returns the number of surfaces removed.
func (r *Renderer) Sweep() int {
	removed := 0
	for id, s := range r.surfaces {
		if s.container.Attached() {
			continue
		}
		r.teardown(s)
		delete(r.surfaces, id)
		removed++
	}
	return removed
}

func (r *Renderer) owns(el Element) bool {
	id := el.Attr(IDAttr)
	if id == "" {
		return false
	}
	s, ok := r.surfaces[id]
	return ok && s.running && s.container == el
}

// createSurface builds and starts a surface for el. Returns nil when the
// container has no area yet; the next scan retries.
func (r *Renderer) createSurface(el Element) *Surface {
	id := el.Attr(IDAttr)
	if id == "" {
		id = r.NewID()
		el.SetAttr(IDAttr, id)
	}

	if prev, ok := r.surfaces[id]; ok {
		r.teardown(prev)
		delete(r.surfaces, id)
	}

	rect := el.Rect()
	if rect.W == 0 || rect.H == 0 {
		return nil
	}

	if el.Position() == "static" {
		el.SetPosition("relative")
	}
	canvas := el.AppendCanvas()
	canvas.SetSize(rect.W, rect.H)

	s := newSurface(id, el, canvas, rect.W, rect.H)
	n := FlakeCount(r.cfg.Snow.FlakeCount, rect.W, rect.H)
	for i := 0; i < n; i++ {
		pos, vel, fl := spawn(r.rng, &r.cfg.Snow, s.width)
		// Initial flakes cover the whole surface so the first frame is populated.
		pos.Y = r.rng.Float64() * s.height
		s.add(pos, vel, fl)
	}
	r.surfaces[id] = s

	s.resize = r.host.ObserveResize(el, func(w, h float64) {
		if w > 0 && h > 0 {
			canvas.SetSize(w, h)
			s.width, s.height = w, h
		}
	})

	r.schedule(s)
	r.counters.Created++
	slog.Debug("surface created", "id", id, "width", rect.W, "height", rect.H, "flakes", n)
	return s
}

func (r *Renderer) schedule(s *Surface) {
	s.frameID = r.host.RequestFrame(func() { r.frame(s) })
	s.queued = true
}

// frame draws and advances every flake of s once, then queues the next frame.
// A stopped or detached surface ends its loop here and deregisters itself.
func (r *Renderer) frame(s *Surface) {
	s.queued = false
	if !s.running || !s.container.Attached() {
		r.teardown(s)
		if r.surfaces[s.ID] == s {
			delete(r.surfaces, s.ID)
		}
		return
	}

	s.canvas.Clear()
	box := s.canvas.Rect()
	rgb := r.cfg.Derived.RGB
	f := frame{
		width:  s.width,
		height: s.height,
		cursor: r2.Vec{X: r.cursor.X - box.X, Y: r.cursor.Y - box.Y},
		snow:   &r.cfg.Snow,
		rng:    r.rng,
		draw: func(x, y, radius, alpha float64) {
			s.canvas.FillCircle(x, y, radius, rgb, alpha)
		},
	}
	s.each(func(p *components.Position, v *components.Velocity, fl *components.Flake) {
		if f.step(p, v, fl) {
			r.counters.Recycled++
		}
	})
	r.counters.Frames++

	r.schedule(s)
}

// teardown stops s synchronously: no frame of s runs after it returns.
// It does not touch the registry.
func (r *Renderer) teardown(s *Surface) {
	s.running = false
	if s.resize != nil {
		s.resize.Disconnect()
		s.resize = nil
	}
	if s.queued {
		r.host.CancelFrame(s.frameID)
		s.queued = false
	}
	if s.canvas != nil {
		s.canvas.Remove()
		s.canvas = nil
		r.counters.TornDown++
		slog.Debug("surface torn down", "id", s.ID)
	}
}

// Counters returns the running totals.
func (r *Renderer) Counters() Counters { return r.counters }

// Cursor returns the tracked pointer position.
func (r *Renderer) Cursor() Cursor { return r.cursor }

// Surface returns the registered surface for a container id.
func (r *Renderer) Surface(id string) (*Surface, bool) {
	s, ok := r.surfaces[id]
	return s, ok
}

// Surfaces returns the registered surfaces ordered by id.
func (r *Renderer) Surfaces() []*Surface {
	out := make([]*Surface, 0, len(r.surfaces))
	for _, s := range r.surfaces {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Particles returns the total live particle count.
func (r *Renderer) Particles() int {
	n := 0
	for _, s := range r.surfaces {
		n += s.count
	}
	return n
}
