package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pthm-cable/snow/config"
	"github.com/pthm-cable/snow/inject"
	"github.com/pthm-cable/snow/workbench"
)

type cli struct {
	configPath string
	stdout     io.Writer
	stderr     io.Writer
}

func (c *cli) locate(cfg *config.Config) (string, error) {
	return workbench.NewLocator(cfg.Host).Locate()
}

func (c *cli) enable() error {
	return c.install(config.Cfg())
}

func (c *cli) install(cfg *config.Config) error {
	path, err := c.locate(cfg)
	if err != nil {
		return err
	}
	block, err := inject.Generate(cfg)
	if err != nil {
		return fmt.Errorf("generating module: %w", err)
	}
	changed, err := workbench.Install(path, block)
	if err != nil {
		return err
	}
	slog.Debug("workbench patched", "path", path, "changed", changed, "bytes", len(block))

	fmt.Fprintf(c.stdout, "Snow enabled for: %s\n", strings.Join(cfg.Snow.Areas, ", "))
	if changed {
		fmt.Fprintln(c.stdout, "Restart the editor to apply.")
	}
	return nil
}

func (c *cli) update() error {
	return c.reinstall(config.Cfg())
}

// reinstall refreshes the block only where one is already installed.
func (c *cli) reinstall(cfg *config.Config) error {
	path, err := c.locate(cfg)
	if err != nil {
		return err
	}
	if !workbench.IsEnabled(path) {
		fmt.Fprintln(c.stdout, "Snow is not enabled; nothing to update.")
		return nil
	}
	return c.install(cfg)
}

func (c *cli) disable() error {
	path, err := c.locate(config.Cfg())
	if err != nil {
		return err
	}
	removed, err := workbench.Remove(path)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintln(c.stdout, "Snow is not enabled.")
		return nil
	}
	fmt.Fprintln(c.stdout, "Snow disabled. Restart the editor to apply.")
	return nil
}

func (c *cli) status() error {
	cfg := config.Cfg()
	l := workbench.NewLocator(cfg.Host)

	var paths []string
	if p, err := l.Locate(); err == nil {
		paths = append(paths, p)
	} else {
		slog.Debug("no active workbench", "error", err)
	}
	for _, p := range l.Candidates() {
		if !slices.Contains(paths, p) {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w; set host.workbench_path in %s", workbench.ErrNotFound, config.DefaultPath())
	}

	w := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tENABLED\tCHECKSUM")
	for _, p := range paths {
		fmt.Fprintf(w, "%s\t%t\t%s\n", p, workbench.IsEnabled(p), workbench.CheckChecksum(p))
	}
	return w.Flush()
}

func (c *cli) generate() error {
	block, err := inject.Generate(config.Cfg())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.stdout, strings.TrimPrefix(block, "\n"))
	return err
}

// uninstall removes the block from every installation it can find.
// Individual failures are logged and skipped.
func (c *cli) uninstall() error {
	cfg := config.Cfg()
	l := workbench.NewLocator(cfg.Host)

	paths := l.Candidates()
	if p, err := l.Locate(); err == nil && !slices.Contains(paths, p) {
		paths = append(paths, p)
	}

	cleaned := 0
	for _, p := range paths {
		removed, err := workbench.Remove(p)
		if err != nil {
			slog.Debug("skipping workbench", "path", p, "error", err)
			continue
		}
		if removed {
			cleaned++
			slog.Info("removed snow", "path", p)
		}
	}
	fmt.Fprintf(c.stdout, "Cleaned %d of %d installation(s).\n", cleaned, len(paths))
	return nil
}

func (c *cli) watch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	debounce := fs.Duration("debounce", 200*time.Millisecond, "Quiet period after a config write before reloading")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if c.configPath == "" {
		return fmt.Errorf("%w: watch needs a config file (--config or %s)", errUsage, config.DefaultPath())
	}
	if *debounce <= 0 {
		return fmt.Errorf("%w: --debounce must be positive", errUsage)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("watching config", "path", c.configPath, "debounce", *debounce)
	return watchConfig(ctx, c.configPath, *debounce, func(cfg *config.Config) {
		if err := c.reinstall(cfg); err != nil {
			slog.Error("update failed", "error", err)
		}
	})
}

// watchConfig watches the directory holding path until ctx is done. Once
// writes to path have been quiet for debounce, it reloads the file and calls
// onChange. Watching the directory also catches saves that write a temporary
// file and rename it over path. Invalid configs are logged and skipped.
func watchConfig(ctx context.Context, path string, debounce time.Duration, onChange func(*config.Config)) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("watching config: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watching config: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching config: %w", err)
	}

	name := filepath.Base(path)
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending = time.After(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Debug("config watcher error", "path", path, "error", err)

		case <-pending:
			pending = nil
			cfg, err := config.Load(path)
			if err != nil {
				slog.Error("ignoring invalid config", "path", path, "error", err)
				continue
			}
			slog.Info("config changed", "path", path)
			onChange(cfg)
		}
	}
}
