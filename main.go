package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pthm-cable/snow/config"
)

const usage = `Usage: snow [--config file] [--verbose] <command>

Commands:
  enable      Install the snow overlay into the editor
  update      Reinstall with the current config if already enabled
  disable     Remove the snow overlay
  status      Show the workbench path, overlay and checksum state
  generate    Print the overlay module to stdout
  uninstall   Remove the overlay from every known installation
  watch       Reinstall whenever the config file changes
`

// errUsage marks command-line mistakes; they exit with status 2.
var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("snow", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "Path to config.yaml (empty = per-user config if present, else defaults)")
	verbose := fs.Bool("verbose", false, "Log debug output")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	path := resolveConfigPath(*configPath)
	if err := config.Init(path); err != nil {
		slog.Error("failed to load config", "path", path, "error", err)
		return 1
	}

	c := &cli{configPath: path, stdout: stdout, stderr: stderr}
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	var err error
	switch cmd {
	case "enable":
		err = c.enable()
	case "update":
		err = c.update()
	case "disable":
		err = c.disable()
	case "status":
		err = c.status()
	case "generate":
		err = c.generate()
	case "uninstall":
		err = c.uninstall()
	case "watch":
		err = c.watch(rest)
	default:
		fmt.Fprintf(stderr, "unknown command: %s\n", cmd)
		fs.Usage()
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintln(stderr, err)
		return 2
	default:
		slog.Error(cmd+" failed", "error", err)
		return 1
	}
}

// resolveConfigPath picks the explicit path, else the per-user file when it
// exists, else "" for embedded defaults.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := config.DefaultPath(); fileExists(p) {
		return p
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
