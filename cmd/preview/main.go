// Snow preview - runs the overlay renderer on a mock editor window.
//
// Usage:
//
//	go run ./cmd/preview
//	go run ./cmd/preview --headless --frames 600 --output-dir out/
//	go run ./cmd/preview --png frame.png --frames 120
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/snow/config"
	"github.com/pthm-cable/snow/preview"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	frames := flag.Int("frames", 0, "Stop after N frames (0 = unlimited; required with --headless)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for particle snapshots (S key, or end of headless run)")
	pngPath := flag.String("png", "", "Render the last of --frames frames to this PNG and exit")
	logStats := flag.Bool("log-stats", false, "Log window stats via slog")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config, then time-based)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Preview.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	if *headless {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	opts := preview.Options{
		Seed:        rngSeed,
		Frames:      *frames,
		OutputDir:   *outputDir,
		SnapshotDir: *snapshotDir,
		LogStats:    *logStats,
	}

	var err error
	switch {
	case *headless:
		err = preview.RunHeadless(cfg, opts)
	case *pngPath != "":
		err = renderPNG(cfg, opts, *pngPath)
	default:
		err = runWindow(cfg, opts)
	}
	if err != nil {
		slog.Error("preview failed", "error", err)
		os.Exit(1)
	}
}
