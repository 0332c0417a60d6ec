// Package termview draws a sandbox simulation in a terminal. Each terminal
// cell shows two grid rows with an upper half block: the top row as the
// foreground color and the bottom row as the background.
package termview

import (
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"mad-sand/internal/core"
	"mad-sand/internal/material"
	"mad-sand/internal/render"
	"mad-sand/internal/sims/sandbox"
)

const (
	halfBlock = '▀'

	minRadius = 0
	maxRadius = 16
)

// Config controls the view.
type Config struct {
	TPS      int
	Radius   int
	Seed     int64
	SavePath string
}

// View owns the terminal loop for one simulation.
type View struct {
	screen  tcell.Screen
	sim     *sandbox.Simulation
	palette *render.Palette
	clock   *core.FixedStep

	brushes  []material.ID
	selected int
	radius   int

	paused   bool
	stepOnce bool
	seed     int64
	savePath string
	status   string
}

// New builds a view. The screen must already be initialised.
func New(screen tcell.Screen, sim *sandbox.Simulation, cfg Config) *View {
	v := &View{
		screen:   screen,
		sim:      sim,
		palette:  render.NewPalette(sim.Catalog()),
		clock:    core.NewFixedStep(cfg.TPS),
		brushes:  sim.Brushes(),
		radius:   clampRadius(cfg.Radius),
		seed:     cfg.Seed,
		savePath: cfg.SavePath,
	}
	if sand, ok := sim.Catalog().Lookup("sand"); ok {
		v.selectMaterial(sand)
	}
	return v
}

// Brush returns the material painted with the primary button.
func (v *View) Brush() material.ID {
	if len(v.brushes) == 0 {
		return material.Empty
	}
	return v.brushes[v.selected]
}

// Radius returns the brush radius.
func (v *View) Radius() int { return v.radius }

// Paused reports whether the simulation is paused.
func (v *View) Paused() bool { return v.paused }

// Status returns the last transient message.
func (v *View) Status() string { return v.status }

func (v *View) selectMaterial(id material.ID) {
	for i, b := range v.brushes {
		if b == id {
			v.selected = i
			return
		}
	}
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *View) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		v.cycle(-1)
		return true
	case tcell.KeyRight:
		v.cycle(1)
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch r := ev.Rune(); r {
	case 'q':
		return false
	case ' ':
		v.paused = !v.paused
	case 'n', '.':
		v.stepOnce = true
	case 'r':
		v.sim.Reset(v.seed)
		v.status = fmt.Sprintf("reset (seed %d)", v.seed)
	case 'c':
		v.sim.Clear()
		v.status = "cleared"
	case 's':
		v.save()
	case '[':
		v.cycle(-1)
	case ']':
		v.cycle(1)
	case '+', '=':
		v.radius = clampRadius(v.radius + 1)
	case '-':
		v.radius = clampRadius(v.radius - 1)
	default:
		if r >= '1' && r <= '9' {
			if i := int(r - '1'); i < len(v.brushes) {
				v.selected = i
			}
		}
	}
	return true
}

func (v *View) cycle(d int) {
	if n := len(v.brushes); n > 0 {
		v.selected = (v.selected + d + n) % n
	}
}

func (v *View) save() {
	if v.savePath == "" {
		v.status = "no snapshot path"
		return
	}
	if err := v.sim.SaveSnapshot(v.savePath); err != nil {
		log.Printf("termview: save snapshot: %v", err)
		v.status = "save failed"
		return
	}
	v.status = "saved " + v.savePath
}

func (v *View) handleMouse(ev *tcell.EventMouse) {
	mx, my := ev.Position()
	x, y := mx, my*2
	switch btn := ev.Buttons(); {
	case btn&tcell.Button1 != 0:
		v.sim.Paint(x, y, v.radius, v.Brush())
		v.sim.Paint(x, y+1, v.radius, v.Brush())
	case btn&(tcell.Button2|tcell.Button3) != 0:
		v.sim.Paint(x, y, v.radius, material.Empty)
		v.sim.Paint(x, y+1, v.radius, material.Empty)
	}
}

// Update advances the simulation by the ticks due since the last frame.
func (v *View) Update() {
	n := v.clock.Due()
	if v.paused {
		n = 0
	}
	if v.stepOnce {
		n = max(n, 1)
		v.stepOnce = false
	}
	for i := 0; i < n; i++ {
		v.sim.Step()
	}
}

// Draw renders the grid and the status line.
func (v *View) Draw() {
	v.screen.Clear()
	sw, sh := v.screen.Size()
	rows := sh - 1
	size := v.sim.Size()
	cells := v.sim.Cells()

	for ty := 0; ty < rows; ty++ {
		top, bottom := ty*2, ty*2+1
		if top >= size.H {
			break
		}
		for tx := 0; tx < sw && tx < size.W; tx++ {
			style := tcell.StyleDefault.Foreground(v.color(cells, tx, top, size))
			if bottom < size.H {
				style = style.Background(v.color(cells, tx, bottom, size))
			}
			v.screen.SetContent(tx, ty, halfBlock, nil, style)
		}
	}
	if rows >= 0 {
		v.drawText(0, rows, v.statusLine(), tcell.StyleDefault.Reverse(true))
	}
	v.screen.Show()
}

func (v *View) color(cells []uint8, x, y int, size core.Size) tcell.Color {
	c := v.palette.At(material.ID(cells[y*size.W+x]), x, y)
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (v *View) statusLine() string {
	st := v.sim.Stats()
	line := fmt.Sprintf(" tick %d  chunks %d  moved %d  brush %s r%d",
		v.sim.Tick(), st.ActiveChunks, st.UpdatedCells, v.sim.Catalog().Name(v.Brush()), v.radius)
	if v.paused {
		line += "  [paused]"
	}
	if v.status != "" {
		line += "  " + v.status
	}
	return line
}

func (v *View) drawText(x, y int, s string, style tcell.Style) {
	sw, _ := v.screen.Size()
	for _, r := range s {
		if x >= sw {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Run polls events and redraws at roughly 60 frames per second until the
// user quits.
func (v *View) Run() {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !v.HandleEvent(ev) {
				return
			}
		case <-ticker.C:
			v.Update()
			v.Draw()
		}
	}
}

func clampRadius(r int) int {
	return min(max(r, minRadius), maxRadius)
}
