package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats summarizes the renderer over one window of ticks.
type WindowStats struct {
	WindowStart int     `csv:"-"`
	WindowEnd   int     `csv:"window_end"`
	SimTimeSec  float64 `csv:"sim_time"`

	// State at window end
	Surfaces int `csv:"surfaces"`
	Flakes   int `csv:"flakes"`

	// Activity during the window
	Created  int `csv:"created"`
	TornDown int `csv:"torn_down"`
	Frames   int `csv:"frames"`
	Recycled int `csv:"recycled"`

	// Fall speed distribution, px per frame
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Cursor displacement: repulsion velocity magnitude
	PushMean  float64 `csv:"push_mean"`
	PushStd   float64 `csv:"push_std"`
	Displaced float64 `csv:"displaced"` // fraction of flakes moving under repulsion
}

// DisplacedThreshold is the repulsion speed above which a flake counts as
// displaced by the cursor.
const DisplacedThreshold = 0.01

// Percentile calculates the p-th percentile of a sorted slice with linear
// interpolation. p is in [0, 1]. Returns 0 for an empty slice.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Distribution returns the mean and 10th/50th/90th percentiles of values.
func Distribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// Displacement returns the mean and population standard deviation of the
// repulsion speeds, and the fraction above DisplacedThreshold.
func Displacement(speeds []float64) (mean, std, displaced float64) {
	n := len(speeds)
	if n == 0 {
		return 0, 0, 0
	}
	mean = stat.Mean(speeds, nil)
	std = math.Sqrt(stat.MomentAbout(2, speeds, mean, nil))

	moving := 0
	for _, v := range speeds {
		if v > DisplacedThreshold {
			moving++
		}
	}
	return mean, std, float64(moving) / float64(n)
}

// LogValue implements slog.LogValuer.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStart),
		slog.Int("window_end", s.WindowEnd),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("surfaces", s.Surfaces),
		slog.Int("flakes", s.Flakes),
		slog.Int("created", s.Created),
		slog.Int("torn_down", s.TornDown),
		slog.Int("frames", s.Frames),
		slog.Int("recycled", s.Recycled),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("push_mean", s.PushMean),
		slog.Float64("displaced", s.Displaced),
	)
}
