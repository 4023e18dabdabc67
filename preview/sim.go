// Package preview runs the snow renderer on an in-memory editor page with
// telemetry, for the native preview tools and headless measurement runs.
package preview

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/snow/config"
	"github.com/pthm-cable/snow/field"
	"github.com/pthm-cable/snow/scene"
	"github.com/pthm-cable/snow/telemetry"
)

// Sim is one renderer running on an in-memory editor page.
type Sim struct {
	cfg      *config.Config
	seed     int64
	scene    *scene.Scene
	renderer *field.Renderer
	regions  []Region

	tick      int
	elapsed   time.Duration
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	output    *telemetry.OutputManager

	// LogStats logs every telemetry window.
	LogStats bool
}

// NewSim lays out the page and starts a renderer on it.
func NewSim(cfg *config.Config, seed int64) *Sim {
	sc := scene.New()
	s := &Sim{
		cfg:       cfg,
		seed:      seed,
		scene:     sc,
		regions:   BuildWorkbench(sc, float64(cfg.Preview.Width), float64(cfg.Preview.Height)),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.Window),
		collector: telemetry.NewCollector(cfg.Telemetry.Window),
	}
	s.renderer = field.New(sc, cfg, rand.New(rand.NewSource(seed)))
	s.renderer.Start()
	return s
}

// Step advances the page clock by dt and paints one frame batch.
// draw, when set, is timed as the host blit.
func (s *Sim) Step(dt time.Duration, draw func()) {
	s.perf.StartTick()

	s.perf.StartPhase(telemetry.PhaseTimers)
	s.scene.Advance(dt)
	s.elapsed += dt

	s.perf.StartPhase(telemetry.PhasePaint)
	s.scene.Paint()

	if draw != nil {
		s.perf.StartPhase(telemetry.PhaseDraw)
		draw()
	}

	s.tick++
	s.perf.StartPhase(telemetry.PhaseTelemetry)
	if s.collector.ShouldFlush(s.tick) {
		s.flush()
	}
	s.perf.EndTick()
}

func (s *Sim) flush() {
	stats := s.collector.Flush(s.tick, s.elapsed, s.renderer)
	perf := s.perf.Stats()
	if s.LogStats {
		slog.Info("window", "stats", stats, "perf", perf)
	}
	if err := s.output.WriteWindow(stats); err != nil {
		slog.Error("failed to write window", "error", err)
	}
	if err := s.output.WritePerf(perf, s.tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// Pointer forwards the mouse to the page; outside it counts as a leave.
func (s *Sim) Pointer(x, y float64, inside bool) {
	if inside {
		s.scene.MovePointer(x, y)
	} else {
		s.scene.LeavePointer()
	}
}

// Snapshot writes the particle state to dir.
func (s *Sim) Snapshot(dir string) (string, error) {
	return telemetry.SaveSnapshot(telemetry.Capture(s.renderer, s.seed, s.tick), dir)
}

// RecordFrame marks a presented frame for FPS tracking.
func (s *Sim) RecordFrame() { s.perf.RecordFrame() }

// Perf returns timing over the current window.
func (s *Sim) Perf() telemetry.PerfStats { return s.perf.Stats() }

// Regions returns the page layout.
func (s *Sim) Regions() []Region { return s.regions }

// Config returns the configuration the renderer runs with.
func (s *Sim) Config() *config.Config { return s.cfg }

// Tick returns the number of steps taken.
func (s *Sim) Tick() int { return s.tick }

// Scene returns the page.
func (s *Sim) Scene() *scene.Scene { return s.scene }

// Renderer returns the running renderer.
func (s *Sim) Renderer() *field.Renderer { return s.renderer }
