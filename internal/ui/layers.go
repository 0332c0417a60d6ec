package ui

import (
	"image"

	"mad-sand/internal/material"
	"mad-sand/internal/world"
)

// ChunkRect is the on-screen outline of one scheduled chunk.
type ChunkRect struct {
	Rect image.Rectangle
	// Sleep is how many still ticks the chunk has accumulated.
	Sleep int
}

// ActiveChunkRects lists the outlines of the chunks the scheduler will visit
// next tick, clipped to the grid.
func ActiveChunkRects(w *world.World, scale int) []ChunkRect {
	if scale <= 0 {
		scale = 1
	}
	var out []ChunkRect
	for cy := 0; cy < w.ChunksY(); cy++ {
		for cx := 0; cx < w.ChunksX(); cx++ {
			c := w.Chunk(cx, cy)
			if c == nil || !c.Active() {
				continue
			}
			x0, y0 := cx*world.ChunkSize, cy*world.ChunkSize
			x1 := min(x0+world.ChunkSize, w.Width())
			y1 := min(y0+world.ChunkSize, w.Height())
			out = append(out, ChunkRect{
				Rect:  image.Rect(x0*scale, y0*scale, x1*scale, y1*scale),
				Sleep: c.SleepCounter(),
			})
		}
	}
	return out
}

// HeatMask writes 1 for burning cells and a fainter glow around them into
// mask. cells and mask are row-major with the given width.
func HeatMask(cat *material.Catalog, cells []uint8, width int, mask []float32) {
	const glow = 0.35
	clear(mask)
	if width <= 0 {
		return
	}
	height := len(cells) / width
	for i, c := range cells {
		def, ok := cat.Def(material.ID(c))
		if !ok || !def.Burning {
			continue
		}
		mask[i] = 1
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				if j := ny*width + nx; mask[j] < glow {
					mask[j] = glow
				}
			}
		}
	}
}

// swatchRect places brush i in a grid of square swatches below the panel
// header.
func swatchRect(i, panelWidth int) image.Rectangle {
	perRow := swatchesPerRow(panelWidth)
	col, row := i%perRow, i/perRow
	x := panelPadding + col*(swatchSize+swatchGap)
	y := swatchTop + row*(swatchSize+swatchGap)
	return image.Rect(x, y, x+swatchSize, y+swatchSize)
}

// swatchRows reports how many rows n swatches occupy.
func swatchRows(n, panelWidth int) int {
	perRow := swatchesPerRow(panelWidth)
	return (n + perRow - 1) / perRow
}

func swatchesPerRow(panelWidth int) int {
	return max((panelWidth-2*panelPadding+swatchGap)/(swatchSize+swatchGap), 1)
}

// swatchAt returns the swatch under (x, y) in panel coordinates.
func swatchAt(x, y, n, panelWidth int) (int, bool) {
	for i := 0; i < n; i++ {
		if pointInRect(x, y, swatchRect(i, panelWidth)) {
			return i, true
		}
	}
	return 0, false
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	swatchSize     = 18
	swatchGap      = 4
	swatchTop      = panelPadding + headerBaseline + 10
)
