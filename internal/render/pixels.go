package render

import (
	"image/color"

	"mad-sand/internal/material"
)

// Palette maps material ids to colors. Each material's color varies per cell
// by up to its ColorVariance, derived from the position so the same grid
// always renders the same pixels.
type Palette struct {
	base     []color.RGBA
	variance []uint8
}

// NewPalette builds a palette from the catalog.
func NewPalette(cat *material.Catalog) *Palette {
	defs := cat.Defs()
	p := &Palette{
		base:     make([]color.RGBA, len(defs)),
		variance: make([]uint8, len(defs)),
	}
	for _, d := range defs {
		p.base[d.ID] = d.Color
		p.variance[d.ID] = d.ColorVariance
	}
	return p
}

// Len reports the number of colors in the palette.
func (p *Palette) Len() int { return len(p.base) }

// Base returns the unvaried color of id. Ids past the palette use its last
// entry.
func (p *Palette) Base(id material.ID) color.RGBA {
	if len(p.base) == 0 {
		return color.RGBA{}
	}
	return p.base[p.index(id)]
}

func (p *Palette) index(id material.ID) int {
	idx := int(id)
	if last := len(p.base) - 1; idx > last {
		idx = last
	}
	return idx
}

// At returns the color of id drawn at (x, y).
func (p *Palette) At(id material.ID, x, y int) color.RGBA {
	if len(p.base) == 0 {
		return color.RGBA{}
	}
	idx := p.index(id)
	col := p.base[idx]
	v := int(p.variance[idx])
	if v == 0 {
		return col
	}
	off := int(cellHash(x, y, idx)%uint32(2*v+1)) - v
	col.R = shade(col.R, off)
	col.G = shade(col.G, off)
	col.B = shade(col.B, off)
	return col
}

// FillRGBA converts row-major material ids into RGBA pixels in buf. width is
// the grid width; buf must hold 4 bytes per cell.
func (p *Palette) FillRGBA(buf []byte, cells []uint8, width int) {
	if len(p.base) == 0 {
		clear(buf[:len(cells)*4])
		return
	}
	if width <= 0 {
		width = len(cells)
	}
	for i, c := range cells {
		col := p.At(material.ID(c), i%width, i/width)
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

func cellHash(x, y, id int) uint32 {
	h := uint32(x)*374761393 + uint32(y)*668265263 + uint32(id)*2246822519
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

func shade(c uint8, off int) uint8 {
	v := int(c) + off
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
