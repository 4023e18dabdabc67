package field

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/snow/components"
	"github.com/pthm-cable/snow/config"
)

func testSnow() *config.SnowConfig {
	return &config.SnowConfig{
		FlakeCount:        100,
		Speed:             2,
		Opacity:           0.6,
		Wind:              0.5,
		Color:             "255, 255, 255",
		CursorInteraction: true,
		CursorRadius:      60,
		CursorStrength:    1.5,
	}
}

func TestFlakeCount(t *testing.T) {
	tests := []struct {
		name   string
		target int
		w, h   float64
		want   int
	}{
		{"reference area", 100, 1920, 1080, 100},
		{"quarter area", 100, 960, 540, 25},
		{"floor applies", 100, 200, 200, MinFlakes},
		{"zero target", 0, 1920, 1080, MinFlakes},
		{"rounds down", 100, 1000, 1000, 48},
		{"double area", 100, 3840, 1080, 200},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FlakeCount(tc.target, tc.w, tc.h); got != tc.want {
				t.Errorf("FlakeCount(%d, %g, %g) = %d, want %d", tc.target, tc.w, tc.h, got, tc.want)
			}
		})
	}
}

func TestSpawnRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	snow := testSnow()

	for i := 0; i < 1000; i++ {
		pos, vel, fl := spawn(rng, snow, 800)
		if pos.X < 0 || pos.X >= 800 {
			t.Fatalf("x out of range: %f", pos.X)
		}
		if pos.Y > 0 || pos.Y <= -SpawnBand {
			t.Fatalf("y out of spawn band: %f", pos.Y)
		}
		if vel != (components.Velocity{}) {
			t.Fatalf("expected zero velocity, got %+v", vel)
		}
		if fl.Radius < 1 || fl.Radius >= 4 {
			t.Fatalf("radius out of range: %f", fl.Radius)
		}
		if fl.Speed < snow.Speed*0.5 || fl.Speed >= snow.Speed*1.5 {
			t.Fatalf("speed out of range: %f", fl.Speed)
		}
		if fl.Opacity < 0.1 || fl.Opacity >= snow.Opacity+0.1 {
			t.Fatalf("opacity out of range: %f", fl.Opacity)
		}
		if fl.Wind < snow.Wind-0.25 || fl.Wind >= snow.Wind+0.25 {
			t.Fatalf("wind out of range: %f", fl.Wind)
		}
		if fl.Wobble < 0 || fl.Wobble >= 2*math.Pi {
			t.Fatalf("wobble phase out of range: %f", fl.Wobble)
		}
		if fl.WobbleSpeed < 0.01 || fl.WobbleSpeed >= 0.03 {
			t.Fatalf("wobble speed out of range: %f", fl.WobbleSpeed)
		}
	}
}

func newTestFrame(snow *config.SnowConfig) *frame {
	return &frame{
		width:  400,
		height: 300,
		cursor: r2.Vec{X: CursorSentinel, Y: CursorSentinel},
		snow:   snow,
		rng:    rand.New(rand.NewSource(7)),
	}
}

// TestStepRecyclesAtBottom verifies a flake leaving the bottom is reset
// above the top edge on the same frame.
func TestStepRecyclesAtBottom(t *testing.T) {
	snow := testSnow()
	snow.CursorInteraction = false
	f := newTestFrame(snow)

	for i := 0; i < 200; i++ {
		pos := components.Position{X: 200, Y: 299.5}
		vel := components.Velocity{}
		fl := components.Flake{Radius: 2, Speed: 1 + float64(i%5), Opacity: 0.5, WobbleSpeed: 0.01}
		prevY := pos.Y

		if !f.step(&pos, &vel, &fl) {
			t.Fatal("step did not report the recycle")
		}
		if pos.Y > 0 {
			t.Fatalf("recycled flake should start at or above the top edge, got y=%f", pos.Y)
		}
		if pos.Y >= prevY {
			t.Fatalf("recycled y %f should be above prior y %f", pos.Y, prevY)
		}
	}
}

func TestStepFallsAndDrifts(t *testing.T) {
	snow := testSnow()
	snow.CursorInteraction = false
	f := newTestFrame(snow)

	pos := components.Position{X: 100, Y: 100}
	vel := components.Velocity{}
	fl := components.Flake{Speed: 2, Wind: 0.3, Wobble: 0, WobbleSpeed: 0.02}

	if f.step(&pos, &vel, &fl) {
		t.Error("flake inside the surface reported as recycled")
	}

	wantX := 100 + 0.3 + math.Sin(0.02)*WobbleAmplitude
	if math.Abs(pos.X-wantX) > 1e-12 {
		t.Errorf("x = %f, want %f", pos.X, wantX)
	}
	if pos.Y != 102 {
		t.Errorf("y = %f, want 102", pos.Y)
	}
	if fl.Wobble != 0.02 {
		t.Errorf("wobble phase = %f, want 0.02", fl.Wobble)
	}
}

func TestStepWrapsHorizontally(t *testing.T) {
	snow := testSnow()
	snow.CursorInteraction = false
	f := newTestFrame(snow)

	tests := []struct {
		name  string
		x     float64
		wind  float64
		wantX float64
	}{
		{"exits right", 399.9, 1, 0},
		{"exits left", 0.1, -1, 400},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := components.Position{X: tc.x, Y: 10}
			vel := components.Velocity{}
			fl := components.Flake{Speed: 1, Wind: tc.wind, Wobble: 0, WobbleSpeed: 0}
			f.step(&pos, &vel, &fl)
			if pos.X != tc.wantX {
				t.Errorf("x = %f, want %f", pos.X, tc.wantX)
			}
		})
	}
}

func TestRepelOutsideRadiusOnlyDamps(t *testing.T) {
	tests := []struct {
		name   string
		pos    components.Position
		cursor r2.Vec
	}{
		{"exactly at radius", components.Position{X: 160, Y: 100}, r2.Vec{X: 100, Y: 100}},
		{"far away", components.Position{X: 10, Y: 10}, r2.Vec{X: 300, Y: 300}},
		{"sentinel cursor", components.Position{X: 0, Y: 0}, r2.Vec{X: CursorSentinel, Y: CursorSentinel}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := tc.pos
			vel := components.Velocity{X: 1, Y: -2}
			repel(&pos, &vel, tc.cursor, 60, 1.5)
			if vel.X != 1*Damping || vel.Y != -2*Damping {
				t.Errorf("velocity = %+v, want only damping", vel)
			}
			if pos.X != tc.pos.X+1 || pos.Y != tc.pos.Y-2 {
				t.Errorf("position = %+v, want integrated by prior velocity", pos)
			}
		})
	}
}

func TestRepelInsideRadiusPushesAway(t *testing.T) {
	pos := components.Position{X: 130, Y: 100}
	vel := components.Velocity{}
	repel(&pos, &vel, r2.Vec{X: 100, Y: 100}, 60, 1.5)

	// d=30, force=(1-30/60)*1.5=0.75, along +x
	if math.Abs(vel.X-0.75*Damping) > 1e-12 || vel.Y != 0 {
		t.Errorf("velocity = %+v, want (%f, 0)", vel, 0.75*Damping)
	}
	if math.Abs(pos.X-130.75) > 1e-12 {
		t.Errorf("x = %f, want 130.75", pos.X)
	}
}

func TestRepelAtCursorIsNoop(t *testing.T) {
	pos := components.Position{X: 50, Y: 50}
	vel := components.Velocity{}
	repel(&pos, &vel, r2.Vec{X: 50, Y: 50}, 60, 1.5)
	if vel != (components.Velocity{}) || pos != (components.Position{X: 50, Y: 50}) {
		t.Errorf("zero distance should not produce an impulse: pos=%+v vel=%+v", pos, vel)
	}
}

func TestRepulsionDecaysAfterCursorLeaves(t *testing.T) {
	snow := testSnow()
	f := newTestFrame(snow)
	f.height = 1e9 // no recycling

	pos := components.Position{X: 200, Y: 100}
	vel := components.Velocity{}
	fl := components.Flake{Speed: 0, Wind: 0, WobbleSpeed: 0}

	f.cursor = r2.Vec{X: 190, Y: 100}
	f.step(&pos, &vel, &fl)
	if vel.X <= 0 {
		t.Fatalf("expected rightward push, got %+v", vel)
	}

	f.cursor = r2.Vec{X: CursorSentinel, Y: CursorSentinel}
	prev := vel.X
	for i := 0; i < 50; i++ {
		f.step(&pos, &vel, &fl)
		if vel.X >= prev {
			t.Fatalf("velocity should decay every frame: %f -> %f", prev, vel.X)
		}
		prev = vel.X
	}
}

func TestStepDrawsBeforeFalling(t *testing.T) {
	snow := testSnow()
	snow.CursorInteraction = false
	f := newTestFrame(snow)

	var drawnY float64
	f.draw = func(x, y, r, alpha float64) { drawnY = y }

	pos := components.Position{X: 10, Y: 50}
	vel := components.Velocity{}
	fl := components.Flake{Speed: 3, Radius: 2, Opacity: 0.4}
	f.step(&pos, &vel, &fl)

	if drawnY != 50 {
		t.Errorf("drawn at y=%f, want 50", drawnY)
	}
	if pos.Y != 53 {
		t.Errorf("y after step = %f, want 53", pos.Y)
	}
}

func TestCursorLeaveParksAtSentinel(t *testing.T) {
	c := NewCursor()
	c.Move(12, 34)
	if c.X != 12 || c.Y != 34 {
		t.Fatalf("Move not recorded: %+v", c)
	}
	c.Leave()
	if c.X != CursorSentinel || c.Y != CursorSentinel {
		t.Errorf("Leave should park at sentinel, got %+v", c)
	}
}
