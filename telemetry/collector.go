package telemetry

import (
	"math"
	"time"

	"github.com/pthm-cable/snow/field"
)

// Collector turns the renderer's running totals into per-window stats.
type Collector struct {
	windowTicks int
	windowStart int
	last        field.Counters
}

// NewCollector creates a collector flushing every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: windowTicks}
}

// ShouldFlush reports whether the window ending at tick is complete.
func (c *Collector) ShouldFlush(tick int) bool {
	return tick-c.windowStart >= c.windowTicks
}

// Flush samples r and starts the next window.
func (c *Collector) Flush(tick int, simTime time.Duration, r *field.Renderer) WindowStats {
	cur := r.Counters()
	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   tick,
		SimTimeSec:  simTime.Seconds(),
		Created:     cur.Created - c.last.Created,
		TornDown:    cur.TornDown - c.last.TornDown,
		Frames:      cur.Frames - c.last.Frames,
		Recycled:    cur.Recycled - c.last.Recycled,
	}

	var speeds, pushes []float64
	for _, s := range r.Surfaces() {
		stats.Surfaces++
		for _, p := range s.Particles() {
			speeds = append(speeds, p.Flake.Speed)
			pushes = append(pushes, math.Hypot(p.Velocity.X, p.Velocity.Y))
		}
	}
	stats.Flakes = len(speeds)
	stats.SpeedMean, stats.SpeedP10, stats.SpeedP50, stats.SpeedP90 = Distribution(speeds)
	stats.PushMean, stats.PushStd, stats.Displaced = Displacement(pushes)

	c.windowStart = tick
	c.last = cur
	return stats
}

// WindowTicks returns the window length.
func (c *Collector) WindowTicks() int {
	return c.windowTicks
}
