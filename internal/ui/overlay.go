//go:build ebiten

package ui

import (
	"image/color"
	"math"

	"mad-sand/internal/sims/sandbox"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay draws optional debugging visuals on top of the grid: the chunks
// the scheduler is visiting and a glow around burning cells.
type Overlay struct {
	sim        *sandbox.Simulation
	scale      int
	showChunks bool
	showHeat   bool

	mask    []float32
	maskImg *ebiten.Image
	maskBuf []byte

	pixel *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim *sandbox.Simulation, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: max(scale, 1)}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update toggles the layers: F1 for chunks, F2 for heat.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		o.showChunks = !o.showChunks
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		o.showHeat = !o.showHeat
	}
}

// Draw renders the enabled layers onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o.showHeat {
		o.drawHeat(screen)
	}
	if o.showChunks {
		for _, r := range ActiveChunkRects(o.sim.World(), o.scale) {
			// Fade toward the sleep threshold.
			fade := 1 - float64(r.Sleep)/float64(sandbox.SleepThreshold)
			alpha := uint8(60 + math.Round(160*clamp01(fade)))
			col := color.RGBA{R: 80, G: 220, B: 120, A: alpha}
			x0, y0 := float64(r.Rect.Min.X), float64(r.Rect.Min.Y)
			x1, y1 := float64(r.Rect.Max.X), float64(r.Rect.Max.Y)
			o.drawLine(screen, x0, y0, x1, y0, 1, col)
			o.drawLine(screen, x1, y0, x1, y1, 1, col)
			o.drawLine(screen, x1, y1, x0, y1, 1, col)
			o.drawLine(screen, x0, y1, x0, y0, 1, col)
		}
	}
}

// DrawBrush outlines the brush disc centred on the cursor cell.
func (o *Overlay) DrawBrush(screen *ebiten.Image, cx, cy, radius int) {
	const segments = 24
	s := float64(o.scale)
	r := (float64(radius) + 0.5) * s
	x, y := (float64(cx)+0.5)*s, (float64(cy)+0.5)*s
	col := color.RGBA{R: 230, G: 230, B: 240, A: 160}
	for i := 0; i < segments; i++ {
		a0 := 2 * math.Pi * float64(i) / segments
		a1 := 2 * math.Pi * float64(i+1) / segments
		o.drawLine(screen, x+r*math.Cos(a0), y+r*math.Sin(a0), x+r*math.Cos(a1), y+r*math.Sin(a1), 1, col)
	}
}

func (o *Overlay) drawHeat(screen *ebiten.Image) {
	size := o.sim.Size()
	total := size.W * size.H
	if total == 0 {
		return
	}
	if o.maskImg == nil || len(o.mask) != total {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
		o.mask = make([]float32, total)
	}
	HeatMask(o.sim.Catalog(), o.sim.Cells(), size.W, o.mask)

	tint := color.RGBA{R: 255, G: 120, B: 40}
	for i, v := range o.mask {
		base := i * 4
		if v == 0 {
			clear(o.maskBuf[base : base+4])
			continue
		}
		alpha := uint8(math.Round(140 * float64(v)))
		o.maskBuf[base+0] = uint8(float64(tint.R) * float64(v))
		o.maskBuf[base+1] = uint8(float64(tint.G) * float64(v))
		o.maskBuf[base+2] = uint8(float64(tint.B) * float64(v))
		o.maskBuf[base+3] = alpha
	}
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(o.scale), float64(o.scale))
	screen.DrawImage(o.maskImg, op)
}

func (o *Overlay) drawLine(screen *ebiten.Image, x1, y1, x2, y2, thickness float64, col color.RGBA) {
	if o.pixel == nil || thickness <= 0 {
		return
	}
	dx := x2 - x1
	dy := y2 - y1
	length := math.Hypot(dx, dy)
	if length <= 1e-4 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(length, thickness)
	op.GeoM.Translate(0, -thickness/2)
	op.GeoM.Rotate(math.Atan2(dy, dx))
	op.GeoM.Translate(x1, y1)
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	screen.DrawImage(o.pixel, op)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
