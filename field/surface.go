package field

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/snow/components"
)

// Surface is one overlay canvas bound to one container.
// Its flakes live in a private ECS world.
type Surface struct {
	ID        string
	container Element
	canvas    Canvas

	world  *ecs.World
	flakes *ecs.Map3[components.Position, components.Velocity, components.Flake]
	filter *ecs.Filter3[components.Position, components.Velocity, components.Flake]
	count  int

	width, height float64

	running bool
	queued  bool
	frameID FrameHandle
	resize  Observer
}

func newSurface(id string, container Element, canvas Canvas, w, h float64) *Surface {
	world := ecs.NewWorld()
	return &Surface{
		ID:        id,
		container: container,
		canvas:    canvas,
		world:     world,
		flakes:    ecs.NewMap3[components.Position, components.Velocity, components.Flake](world),
		filter:    ecs.NewFilter3[components.Position, components.Velocity, components.Flake](world),
		width:     w,
		height:    h,
		running:   true,
	}
}

func (s *Surface) add(pos components.Position, vel components.Velocity, fl components.Flake) {
	s.flakes.NewEntity(&pos, &vel, &fl)
	s.count++
}

func (s *Surface) each(fn func(*components.Position, *components.Velocity, *components.Flake)) {
	query := s.filter.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// Container returns the element the surface overlays.
func (s *Surface) Container() Element { return s.container }

// Canvas returns the surface's drawing canvas.
func (s *Surface) Canvas() Canvas { return s.canvas }

// Len returns the particle count. It is fixed at creation.
func (s *Surface) Len() int { return s.count }

// Size returns the current simulation bounds.
func (s *Surface) Size() (w, h float64) { return s.width, s.height }

// Running reports whether the frame loop is live.
func (s *Surface) Running() bool { return s.running }

// Particle is a read-only copy of one flake's state.
type Particle struct {
	Position components.Position
	Velocity components.Velocity
	Flake    components.Flake
}

// Particles returns a copy of every flake's state.
func (s *Surface) Particles() []Particle {
	out := make([]Particle, 0, s.count)
	s.each(func(p *components.Position, v *components.Velocity, f *components.Flake) {
		out = append(out, Particle{Position: *p, Velocity: *v, Flake: *f})
	})
	return out
}
