package field

// Cursor is the last known pointer position in page coordinates.
type Cursor struct {
	X, Y float64
}

// NewCursor returns a cursor parked at the sentinel.
func NewCursor() Cursor {
	return Cursor{X: CursorSentinel, Y: CursorSentinel}
}

// Move records a pointer position.
func (c *Cursor) Move(x, y float64) {
	c.X, c.Y = x, y
}

// Leave parks the cursor far outside any surface.
func (c *Cursor) Leave() {
	c.X, c.Y = CursorSentinel, CursorSentinel
}
