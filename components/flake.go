package components

// Flake holds the per-particle constants drawn at spawn time.
type Flake struct {
	Radius      float64 // px, in [1, 4)
	Speed       float64 // fall per frame
	Opacity     float64
	Wind        float64 // horizontal drift per frame
	Wobble      float64 // phase, radians
	WobbleSpeed float64 // phase advance per frame
}
