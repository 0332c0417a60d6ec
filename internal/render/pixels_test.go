package render

import (
	"image/color"
	"testing"

	"mad-sand/internal/material"
)

func TestPaletteIsDeterministic(t *testing.T) {
	cat, err := material.Default()
	if err != nil {
		t.Fatal(err)
	}
	p := NewPalette(cat)
	sand, _ := cat.Lookup("sand")

	cells := []uint8{0, uint8(sand), uint8(sand), 0, uint8(sand), 0}
	a := make([]byte, len(cells)*4)
	b := make([]byte, len(cells)*4)
	p.FillRGBA(a, cells, 3)
	p.FillRGBA(b, cells, 3)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("byte %d differs between renders", i)
		}
	}
	if p.At(sand, 1, 0) != colorAt(a, 1) {
		t.Fatal("FillRGBA and At disagree")
	}
}

func TestPaletteVarianceStaysInRange(t *testing.T) {
	cat, err := material.Default()
	if err != nil {
		t.Fatal(err)
	}
	p := NewPalette(cat)
	for _, d := range cat.Defs() {
		base := p.Base(d.ID)
		v := int(d.ColorVariance)
		varied := false
		for y := 0; y < 16; y++ {
			for x := 0; x < 16; x++ {
				c := p.At(d.ID, x, y)
				if diff(c.R, base.R) > v || diff(c.G, base.G) > v || diff(c.B, base.B) > v {
					t.Fatalf("%s at (%d,%d): %v strays more than %d from %v", d.Name, x, y, c, v, base)
				}
				if c != base {
					varied = true
				}
				if c.A != base.A {
					t.Fatalf("%s: alpha must not vary", d.Name)
				}
			}
		}
		if v >= 8 && !varied {
			t.Fatalf("%s: expected some per-cell variation", d.Name)
		}
	}
}

func TestPaletteClampsUnknownIDs(t *testing.T) {
	cat, err := material.Default()
	if err != nil {
		t.Fatal(err)
	}
	p := NewPalette(cat)
	last := material.ID(p.Len() - 1)
	if p.Base(200) != p.Base(last) {
		t.Fatal("ids past the palette should use the last entry")
	}
}

func colorAt(buf []byte, i int) color.RGBA {
	return color.RGBA{R: buf[i*4], G: buf[i*4+1], B: buf[i*4+2], A: buf[i*4+3]}
}

func diff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
