// Package config provides configuration loading and access for the snow overlay.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Snow      SnowConfig      `yaml:"snow"`
	Timing    TimingConfig    `yaml:"timing"`
	Host      HostConfig      `yaml:"host"`
	Preview   PreviewConfig   `yaml:"preview"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SnowConfig holds the user-facing effect parameters.
// One renderer instance treats these as immutable.
type SnowConfig struct {
	Areas             []string `yaml:"areas"`              // UI regions to cover (editor, sidebar, panel, activitybar, fullscreen)
	FlakeCount        int      `yaml:"flake_count"`        // Target count for a 1920x1080 container
	Speed             float64  `yaml:"speed"`              // Base fall speed, px per frame
	Opacity           float64  `yaml:"opacity"`            // Max opacity
	Wind              float64  `yaml:"wind"`               // Horizontal drift, px per frame
	Color             string   `yaml:"color"`              // "R, G, B"
	CursorInteraction bool     `yaml:"cursor_interaction"` // Flakes are pushed away from the pointer
	CursorRadius      float64  `yaml:"cursor_radius"`      // Repulsion radius, px
	CursorStrength    float64  `yaml:"cursor_strength"`    // Impulse at zero distance
}

// TimingConfig holds the renderer's scheduling delays.
type TimingConfig struct {
	WarmupMS           int `yaml:"warmup_ms"`            // Delay before the first scan
	ScanIntervalMS     int `yaml:"scan_interval_ms"`     // Periodic sweep+scan
	MutationDebounceMS int `yaml:"mutation_debounce_ms"` // Coalesces DOM mutation bursts
}

// HostConfig locates the editor installation.
type HostConfig struct {
	WindowsUsername string `yaml:"windows_username"` // WSL: Windows profile that owns the install
	AppRoot         string `yaml:"app_root"`         // Editor app root (resources/app); empty = discover
	WorkbenchPath   string `yaml:"workbench_path"`   // Explicit path to the workbench bundle
	MountRoot       string `yaml:"mount_root"`       // WSL mount of the Windows system drive
}

// PreviewConfig holds native preview settings.
type PreviewConfig struct {
	Width     int   `yaml:"width"`
	Height    int   `yaml:"height"`
	TargetFPS int   `yaml:"target_fps"`
	Seed      int64 `yaml:"seed"` // 0 = time-based
}

// TelemetryConfig holds frame statistics settings.
type TelemetryConfig struct {
	Window int `yaml:"window"` // Frames per perf window
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	Selectors        []string // CSS selector per configured area, in order
	RGB              [3]uint8
	ColorString      string // canonical "R, G, B"
	Warmup           time.Duration
	ScanInterval     time.Duration
	MutationDebounce time.Duration
}

// Area names and the host selectors they map to.
const (
	AreaEditor      = "editor"
	AreaSidebar     = "sidebar"
	AreaPanel       = "panel"
	AreaActivityBar = "activitybar"
	AreaFullscreen  = "fullscreen"
)

// AreaSelectors maps area names to host UI selectors.
var AreaSelectors = map[string]string{
	AreaEditor:      ".editor-container",
	AreaSidebar:     ".sidebar",
	AreaPanel:       ".panel",
	AreaActivityBar: ".activitybar",
	AreaFullscreen:  ".monaco-workbench",
}

// SelectorFor resolves an area name. Unknown names cover the whole window.
func SelectorFor(area string) string {
	if sel, ok := AreaSelectors[strings.ToLower(strings.TrimSpace(area))]; ok {
		return sel
	}
	return AreaSelectors[AreaFullscreen]
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// DefaultPath returns the per-user config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir, _ = os.UserHomeDir()
	}
	return filepath.Join(dir, "snow", "config.yaml")
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates the config and recomputes derived values.
// Call it after changing fields of a loaded config.
func (c *Config) Finalize() error {
	if err := c.validate(); err != nil {
		return err
	}
	return c.computeDerived()
}

func (c *Config) validate() error {
	s := &c.Snow
	for name, v := range map[string]float64{
		"speed":           s.Speed,
		"opacity":         s.Opacity,
		"wind":            s.Wind,
		"cursor_radius":   s.CursorRadius,
		"cursor_strength": s.CursorStrength,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("snow.%s must be a finite number", name)
		}
	}
	if s.FlakeCount < 0 {
		return fmt.Errorf("snow.flake_count must not be negative, got %d", s.FlakeCount)
	}
	if s.CursorInteraction && s.CursorRadius <= 0 {
		return fmt.Errorf("snow.cursor_radius must be positive when cursor_interaction is on, got %g", s.CursorRadius)
	}
	if c.Timing.WarmupMS < 0 {
		return fmt.Errorf("timing.warmup_ms must not be negative, got %d", c.Timing.WarmupMS)
	}
	if c.Timing.ScanIntervalMS <= 0 {
		return fmt.Errorf("timing.scan_interval_ms must be positive, got %d", c.Timing.ScanIntervalMS)
	}
	if c.Timing.MutationDebounceMS < 0 {
		return fmt.Errorf("timing.mutation_debounce_ms must not be negative, got %d", c.Timing.MutationDebounceMS)
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return fmt.Errorf("preview size must be positive, got %dx%d", c.Preview.Width, c.Preview.Height)
	}
	if c.Preview.TargetFPS <= 0 {
		return fmt.Errorf("preview.target_fps must be positive, got %d", c.Preview.TargetFPS)
	}
	if c.Telemetry.Window < 1 {
		return fmt.Errorf("telemetry.window must be at least 1, got %d", c.Telemetry.Window)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	// Unset areas mean the editor; an explicit empty list covers nothing.
	if c.Snow.Areas == nil {
		c.Snow.Areas = []string{AreaEditor}
	}

	c.Derived.Selectors = make([]string, len(c.Snow.Areas))
	for i, area := range c.Snow.Areas {
		c.Derived.Selectors[i] = SelectorFor(area)
	}

	rgb, err := ParseColor(c.Snow.Color)
	if err != nil {
		return fmt.Errorf("snow.color: %w", err)
	}
	c.Derived.RGB = rgb
	c.Derived.ColorString = fmt.Sprintf("%d, %d, %d", rgb[0], rgb[1], rgb[2])

	c.Derived.Warmup = time.Duration(c.Timing.WarmupMS) * time.Millisecond
	c.Derived.ScanInterval = time.Duration(c.Timing.ScanIntervalMS) * time.Millisecond
	c.Derived.MutationDebounce = time.Duration(c.Timing.MutationDebounceMS) * time.Millisecond
	return nil
}

// ParseColor parses an "R, G, B" channel triple.
func ParseColor(s string) ([3]uint8, error) {
	var rgb [3]uint8
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return rgb, fmt.Errorf("expected \"R, G, B\", got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return rgb, fmt.Errorf("channel %d of %q: %w", i, s, err)
		}
		if v < 0 || v > 255 {
			return rgb, fmt.Errorf("channel %d of %q out of range 0-255", i, s)
		}
		rgb[i] = uint8(v)
	}
	return rgb, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
