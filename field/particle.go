package field

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/snow/components"
	"github.com/pthm-cable/snow/config"
)

// Simulation constants shared with the generated browser module.
const (
	Damping         = 0.92        // repulsion velocity decay per frame
	MinFlakes       = 15          // floor for small containers
	ReferenceArea   = 1920 * 1080 // area at which FlakeCount particles are used
	SpawnBand       = 50.0        // recycled flakes start up to this far above the top edge
	WobbleAmplitude = 0.5
	CursorSentinel  = -1000.0
)

// FlakeCount returns the particle count for a w x h surface.
func FlakeCount(target int, w, h float64) int {
	n := int(math.Floor(float64(target) * w * h / ReferenceArea))
	if n < MinFlakes {
		return MinFlakes
	}
	return n
}

// spawn draws a fresh flake for a surface of the given width.
// Y lands in (-SpawnBand, 0].
func spawn(rng *rand.Rand, snow *config.SnowConfig, width float64) (components.Position, components.Velocity, components.Flake) {
	pos := components.Position{
		X: rng.Float64() * width,
		Y: rng.Float64() * -SpawnBand,
	}
	fl := components.Flake{
		Radius:      rng.Float64()*3 + 1,
		Speed:       rng.Float64()*snow.Speed + snow.Speed*0.5,
		Opacity:     rng.Float64()*snow.Opacity + 0.1,
		Wind:        snow.Wind + (rng.Float64()-0.5)*0.5,
		Wobble:      rng.Float64() * math.Pi * 2,
		WobbleSpeed: rng.Float64()*0.02 + 0.01,
	}
	return pos, components.Velocity{}, fl
}

// frame carries the per-frame inputs shared by every flake of one surface.
type frame struct {
	width, height float64
	cursor        r2.Vec // surface-local
	snow          *config.SnowConfig
	rng           *rand.Rand
	draw          func(x, y, r, alpha float64)
}

// step advances one flake by one frame, drawing it after repulsion and
// before the fall. Reports whether the flake was recycled.
func (f *frame) step(pos *components.Position, vel *components.Velocity, fl *components.Flake) bool {
	fl.Wobble += fl.WobbleSpeed
	wobble := math.Sin(fl.Wobble) * WobbleAmplitude

	if f.snow.CursorInteraction {
		repel(pos, vel, f.cursor, f.snow.CursorRadius, f.snow.CursorStrength)
	}

	if f.draw != nil {
		f.draw(pos.X, pos.Y, fl.Radius, fl.Opacity)
	}

	pos.Y += fl.Speed
	pos.X += fl.Wind + wobble

	if pos.X > f.width {
		pos.X = 0
	} else if pos.X < 0 {
		pos.X = f.width
	}

	if pos.Y > f.height {
		*pos, *vel, *fl = spawn(f.rng, f.snow, f.width)
		return true
	}
	return false
}

// repel pushes a flake away from the cursor, integrates its velocity and
// damps it. Damping applies whether or not the cursor is in range.
func repel(pos *components.Position, vel *components.Velocity, cursor r2.Vec, radius, strength float64) {
	d := r2.Sub(r2.Vec{X: pos.X, Y: pos.Y}, cursor)
	dist := r2.Norm(d)
	if dist > 0 && dist < radius {
		force := (1 - dist/radius) * strength
		impulse := r2.Scale(force/dist, d)
		vel.X += impulse.X
		vel.Y += impulse.Y
	}

	pos.X += vel.X
	pos.Y += vel.Y
	vel.X *= Damping
	vel.Y *= Damping
}
