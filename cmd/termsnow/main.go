// Terminal snow - runs the overlay renderer on a terminal screen.
//
// The whole screen is one fullscreen container; each cell stands for a
// cellWidth x cellHeight pixel block. Mouse motion pushes the flakes.
//
// Usage: go run ./cmd/termsnow [--config config.yaml]
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/snow/config"
	"github.com/pthm-cable/snow/field"
	"github.com/pthm-cable/snow/scene"
)

// Pixel size of one terminal cell.
const (
	cellWidth  = 8
	cellHeight = 16
)

type term struct {
	screen   tcell.Screen
	scene    *scene.Scene
	node     *scene.Node
	renderer *field.Renderer
	bg       tcell.Style
}

func newTerm(screen tcell.Screen, cfg *config.Config, seed int64) (*term, error) {
	full := *cfg
	full.Snow.Areas = []string{config.AreaFullscreen}
	if err := full.Finalize(); err != nil {
		return nil, err
	}

	cols, rows := screen.Size()
	sc := scene.New()
	t := &term{
		screen: screen,
		scene:  sc,
		node:   sc.Add("monaco-workbench", field.Rect{W: float64(cols * cellWidth), H: float64(rows * cellHeight)}),
		bg:     tcell.StyleDefault.Background(tcell.ColorBlack),
	}
	t.renderer = field.New(sc, &full, rand.New(rand.NewSource(seed)))
	t.renderer.Start()
	return t, nil
}

// handle applies one input event. Returns false to quit.
func (t *term) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return false
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		t.scene.MovePointer(float64(x*cellWidth+cellWidth/2), float64(y*cellHeight+cellHeight/2))
	case *tcell.EventFocus:
		if !ev.Focused {
			t.scene.LeavePointer()
		}
	case *tcell.EventResize:
		cols, rows := ev.Size()
		t.node.Resize(float64(cols*cellWidth), float64(rows*cellHeight))
		t.screen.Sync()
	}
	return true
}

// step advances the page by dt and paints one frame.
func (t *term) step(dt time.Duration) {
	t.scene.Advance(dt)
	t.scene.Paint()
}

// draw blits every canvas onto the screen, one glyph per flake.
func (t *term) draw() {
	t.screen.SetStyle(t.bg)
	t.screen.Clear()
	cols, rows := t.screen.Size()
	for _, c := range t.scene.Canvases() {
		box := c.Rect()
		for _, p := range c.Circles() {
			col := int((box.X + p.X) / cellWidth)
			row := int((box.Y + p.Y) / cellHeight)
			if col < 0 || row < 0 || col >= cols || row >= rows {
				continue
			}
			a := p.Alpha
			if a > 1 {
				a = 1
			}
			fg := tcell.NewRGBColor(int32(float64(p.RGB[0])*a), int32(float64(p.RGB[1])*a), int32(float64(p.RGB[2])*a))
			t.screen.SetContent(col, row, glyph(p.R), nil, t.bg.Foreground(fg))
		}
	}
	t.screen.Show()
}

// glyph picks a rune by flake radius (1 to 4 px).
func glyph(r float64) rune {
	switch {
	case r < 2:
		return '.'
	case r < 3:
		return '*'
	default:
		return '❄'
	}
}

func (t *term) run(fps int) {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-events:
			if !t.handle(ev) {
				return
			}
		case now := <-ticker.C:
			t.step(now.Sub(last))
			last = now
			t.draw()
		}
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()

	t, err := newTerm(screen, cfg, *seed)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	t.run(cfg.Preview.TargetFPS)
	screen.Fini()
}
