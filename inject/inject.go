// Package inject renders the browser module that the workbench patch embeds.
//
// The module mirrors package field: same constants, same scan/sweep/teardown
// contract, same per-frame update. Configuration values are substituted as
// JS literals, so the output is a pure function of the config.
package inject

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/pthm-cable/snow/config"
	"github.com/pthm-cable/snow/field"
)

// Markers delimiting the generated module inside the host bundle.
const (
	StartMarker = "/* SNOW-BACKGROUND-START */"
	EndMarker   = "/* SNOW-BACKGROUND-END */"
)

//go:embed snow.js.tmpl
var moduleSource string

var moduleTemplate = template.Must(template.New("snow.js").Funcs(template.FuncMap{
	"num": jsNumber,
}).Parse(moduleSource))

// params are the literal substitutions of one rendering.
type params struct {
	FlakeCount        int
	Speed             float64
	Opacity           float64
	Wind              float64
	Color             string // JSON string literal
	Selectors         string // JSON array literal
	CursorInteraction bool
	CursorRadius      float64
	CursorStrength    float64

	WarmupMS       int
	ScanIntervalMS int
	DebounceMS     int

	Damping       float64
	MinFlakes     int
	ReferenceArea int
	SpawnBand     float64
	Sentinel      float64
}

// Generate renders the module for cfg. The result is a newline followed by
// the module, which starts with StartMarker and ends with EndMarker. The
// newline separates the block from the bundle's last line, so appending it
// never needs to touch the original bytes.
func Generate(cfg *config.Config) (string, error) {
	color, err := json.Marshal(cfg.Derived.ColorString)
	if err != nil {
		return "", fmt.Errorf("encoding color: %w", err)
	}
	selectors, err := json.Marshal(cfg.Derived.Selectors)
	if err != nil {
		return "", fmt.Errorf("encoding selectors: %w", err)
	}

	p := params{
		FlakeCount:        cfg.Snow.FlakeCount,
		Speed:             cfg.Snow.Speed,
		Opacity:           cfg.Snow.Opacity,
		Wind:              cfg.Snow.Wind,
		Color:             string(color),
		Selectors:         string(selectors),
		CursorInteraction: cfg.Snow.CursorInteraction,
		CursorRadius:      cfg.Snow.CursorRadius,
		CursorStrength:    cfg.Snow.CursorStrength,

		WarmupMS:       cfg.Timing.WarmupMS,
		ScanIntervalMS: cfg.Timing.ScanIntervalMS,
		DebounceMS:     cfg.Timing.MutationDebounceMS,

		Damping:       field.Damping,
		MinFlakes:     field.MinFlakes,
		ReferenceArea: field.ReferenceArea,
		SpawnBand:     field.SpawnBand,
		Sentinel:      field.CursorSentinel,
	}

	var buf bytes.Buffer
	if err := moduleTemplate.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("rendering module: %w", err)
	}
	return "\n" + strings.TrimSpace(buf.String()), nil
}

// jsNumber formats v as the shortest JS numeric literal that round-trips.
func jsNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
