// Package components holds the ECS component types of a snow particle.
package components

// Position is a particle's location in surface-local pixels.
// Y grows downward; the visible band is [0, height).
type Position struct {
	X, Y float64
}

// Velocity is the cursor-repulsion velocity of a particle.
// Falling and drifting are not integrated through it.
type Velocity struct {
	X, Y float64
}
