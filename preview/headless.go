package preview

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/snow/config"
	"github.com/pthm-cable/snow/telemetry"
)

// Options configures a preview run.
type Options struct {
	Seed        int64
	Frames      int
	OutputDir   string
	SnapshotDir string
	LogStats    bool
}

// RunHeadless steps the page at the target frame rate without graphics.
func RunHeadless(cfg *config.Config, opts Options) error {
	if opts.Frames <= 0 {
		return fmt.Errorf("headless run needs a positive frame count, got %d", opts.Frames)
	}

	out, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}

	s := NewSim(cfg, opts.Seed)
	s.output = out
	s.LogStats = opts.LogStats

	dt := time.Second / time.Duration(cfg.Preview.TargetFPS)
	slog.Info("starting headless preview",
		"seed", opts.Seed,
		"frames", opts.Frames,
		"areas", cfg.Snow.Areas,
		"output_dir", out.Dir(),
	)
	for s.Tick() < opts.Frames {
		s.Step(dt, nil)
	}

	if opts.SnapshotDir != "" {
		path, err := s.Snapshot(opts.SnapshotDir)
		if err != nil {
			return err
		}
		slog.Info("snapshot written", "path", path)
	}

	slog.Info("headless preview finished",
		"frames", s.Tick(),
		"surfaces", len(s.Renderer().Surfaces()),
		"flakes", s.Renderer().Particles(),
	)
	return nil
}
