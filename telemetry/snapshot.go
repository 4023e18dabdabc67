package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pthm-cable/snow/field"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is the renderer's particle state at one tick.
type Snapshot struct {
	Version  int            `json:"version"`
	RNGSeed  int64          `json:"rng_seed"`
	Tick     int            `json:"tick"`
	Cursor   [2]float64     `json:"cursor"`
	Surfaces []SurfaceState `json:"surfaces"`
}

// SurfaceState holds one surface and its flakes.
type SurfaceState struct {
	ID     string       `json:"id"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Flakes []FlakeState `json:"flakes"`
}

// FlakeState holds one flake.
type FlakeState struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	VelX    float64 `json:"vel_x"`
	VelY    float64 `json:"vel_y"`
	Radius  float64 `json:"radius"`
	Speed   float64 `json:"speed"`
	Opacity float64 `json:"opacity"`
	Wind    float64 `json:"wind"`
	Wobble  float64 `json:"wobble"`
}

// Capture records r's current state.
func Capture(r *field.Renderer, seed int64, tick int) *Snapshot {
	c := r.Cursor()
	snap := &Snapshot{
		Version: SnapshotVersion,
		RNGSeed: seed,
		Tick:    tick,
		Cursor:  [2]float64{c.X, c.Y},
	}
	for _, s := range r.Surfaces() {
		w, h := s.Size()
		st := SurfaceState{ID: s.ID, Width: w, Height: h}
		for _, p := range s.Particles() {
			st.Flakes = append(st.Flakes, FlakeState{
				X:       p.Position.X,
				Y:       p.Position.Y,
				VelX:    p.Velocity.X,
				VelY:    p.Velocity.Y,
				Radius:  p.Flake.Radius,
				Speed:   p.Flake.Speed,
				Opacity: p.Flake.Opacity,
				Wind:    p.Flake.Wind,
				Wobble:  p.Flake.Wobble,
			})
		}
		snap.Surfaces = append(snap.Surfaces, st)
	}
	return snap
}

// SaveSnapshot writes a snapshot into dir and returns its path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("snapshot_%d.json", snapshot.Tick))

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
