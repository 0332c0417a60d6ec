//go:build ebiten

package app

import (
	"fmt"
	"image/color"
	"log"

	"mad-sand/internal/core"
	"mad-sand/internal/material"
	"mad-sand/internal/render"
	"mad-sand/internal/sims/sandbox"
	"mad-sand/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var digitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// Game adapts a sandbox simulation to the ebiten.Game interface.
type Game struct {
	sim     *sandbox.Simulation
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	clock   *core.FixedStep

	scale    int
	panel    int
	radius   int
	paused   bool
	tickOnce bool
	seed     int64
	save     string
	status   string
}

// New constructs a Game for the provided simulation.
func New(sim *sandbox.Simulation, cfg *Config) *Game {
	palette := render.NewPalette(sim.Catalog())
	size := sim.Size()
	scale := max(cfg.Scale, 1)
	g := &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H, palette),
		hud:     ui.NewHUD(sim, palette, cfg.Panel),
		overlay: ui.NewOverlay(sim, scale),
		clock:   core.NewFixedStep(cfg.TPS),
		scale:   scale,
		panel:   max(cfg.Panel, 0),
		radius:  max(cfg.Radius, 0),
		seed:    cfg.Seed,
		save:    cfg.Save,
	}
	if sand, ok := sim.Catalog().Lookup("sand"); ok {
		g.hud.Select(sand)
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.sim.Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.saveSnapshot()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
		g.hud.Cycle(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
		g.hud.Cycle(1)
	}
	for i, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			g.hud.SelectIndex(i)
		}
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.radius = min(max(g.radius+int(dy), 0), 16)
	}

	g.overlay.Update()
	if !g.hud.Update(g.gridWidth()) {
		g.paint()
	}

	n := g.clock.Due()
	if g.paused {
		n = 0
	}
	if g.tickOnce {
		n = max(n, 1)
		g.tickOnce = false
	}
	for i := 0; i < n; i++ {
		g.sim.Step()
	}
	return nil
}

func (g *Game) paint() {
	mx, my := ebiten.CursorPosition()
	if mx < 0 || my < 0 || mx >= g.gridWidth() {
		return
	}
	x, y := mx/g.scale, my/g.scale
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.sim.Paint(x, y, g.radius, g.hud.Selected())
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		g.sim.Paint(x, y, g.radius, material.Empty)
	}
}

func (g *Game) saveSnapshot() {
	if g.save == "" {
		return
	}
	if err := g.sim.SaveSnapshot(g.save); err != nil {
		log.Printf("save snapshot: %v", err)
		g.status = "save failed"
		return
	}
	g.status = "saved " + g.save
}

func (g *Game) gridWidth() int { return g.sim.Size().W * g.scale }

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.scale)
	g.overlay.Draw(screen)
	if mx, my := ebiten.CursorPosition(); mx >= 0 && my >= 0 && mx < g.gridWidth() {
		g.overlay.DrawBrush(screen, mx/g.scale, my/g.scale, g.radius)
	}
	g.hud.Draw(screen, g.gridWidth(), g.sim.Size().H*g.scale)

	st := g.sim.Stats()
	line := fmt.Sprintf("tick %d  chunks %d  moved %d  tps %.0f", g.sim.Tick(), st.ActiveChunks, st.UpdatedCells, ebiten.ActualTPS())
	if g.paused {
		line += "  paused"
	}
	if g.status != "" {
		line += "  " + g.status
	}
	text.Draw(screen, line, basicfont.Face7x13, 6, 16, color.RGBA{R: 230, G: 230, B: 240, A: 255})
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.panel, s.H * g.scale
}
