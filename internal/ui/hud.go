//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"mad-sand/internal/core"
	"mad-sand/internal/material"
	"mad-sand/internal/render"
	"mad-sand/internal/sims/sandbox"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the side panel: a material picker above the adjustable
// parameters.
type HUD struct {
	sim        *sandbox.Simulation
	palette    *render.Palette
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot

	brushes  []material.ID
	selected int

	controls     []hudControlState
	panelOffsetX int

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for the simulation with the given panel width.
func NewHUD(sim *sandbox.Simulation, palette *render.Palette, width int) *HUD {
	h := &HUD{sim: sim, palette: palette, width: max(width, 0), brushes: sim.Brushes()}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	for _, ctrl := range sim.ParameterControls() {
		h.controls = append(h.controls, hudControlState{control: ctrl, value: "--"})
	}
	h.layoutControls()
	return h
}

// Selected returns the material the user paints with.
func (h *HUD) Selected() material.ID {
	if len(h.brushes) == 0 {
		return material.Empty
	}
	return h.brushes[h.selected]
}

// Select makes id the current brush if it is paintable.
func (h *HUD) Select(id material.ID) {
	for i, b := range h.brushes {
		if b == id {
			h.selected = i
			return
		}
	}
}

// SelectIndex picks the i-th brush.
func (h *HUD) SelectIndex(i int) {
	if i >= 0 && i < len(h.brushes) {
		h.selected = i
	}
}

// Cycle moves the selection by d, wrapping around.
func (h *HUD) Cycle(d int) {
	if n := len(h.brushes); n > 0 {
		h.selected = (h.selected + d + n) % n
	}
}

// Update refreshes the parameter values and handles clicks on the panel.
// It reports whether the click was consumed.
func (h *HUD) Update(panelOffsetX int) bool {
	h.panelOffsetX = panelOffsetX
	h.snapshot = h.sim.Parameters()
	h.refreshControlValues()
	return h.handleInput()
}

// Draw paints the panel to the right of the grid.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, height int) {
	if h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawBrushes()
	h.drawControls()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) refreshControlValues() {
	for i := range h.controls {
		state := &h.controls[i]
		param, ok := h.snapshot.Find(state.control.Key)
		state.hasValue = false
		state.value = "--"
		if !ok {
			continue
		}
		switch state.control.Type {
		case core.ParamTypeInt:
			parsed, err := strconv.Atoi(param.Value)
			if err != nil {
				continue
			}
			state.floatValue = float64(parsed)
			state.value = strconv.Itoa(parsed)
			state.hasValue = true
		case core.ParamTypeFloat:
			parsed, err := strconv.ParseFloat(param.Value, 64)
			if err != nil {
				continue
			}
			state.floatValue = parsed
			state.value = strconv.FormatFloat(parsed, 'f', 2, 64)
			state.hasValue = true
		}
	}
}

func (h *HUD) handleInput() bool {
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return false
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return false
	}
	px := mx - h.panelOffsetX
	if i, ok := swatchAt(px, my, len(h.brushes), h.width); ok {
		h.selected = i
		return true
	}
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		if pointInRect(px, my, state.minusRect) {
			h.applyAdjustment(state, -1)
			return true
		}
		if pointInRect(px, my, state.plusRect) {
			h.applyAdjustment(state, 1)
			return true
		}
	}
	return true
}

func (h *HUD) applyAdjustment(state *hudControlState, direction int) {
	ctrl := state.control
	target := ctrl.Adjust(state.floatValue, direction)
	if math.Abs(target-state.floatValue) < 1e-9 {
		return
	}
	switch ctrl.Type {
	case core.ParamTypeInt:
		if h.sim.SetIntParameter(ctrl.Key, int(target)) {
			state.floatValue = target
			state.value = strconv.Itoa(int(target))
		}
	case core.ParamTypeFloat:
		if h.sim.SetFloatParameter(ctrl.Key, target) {
			state.floatValue = target
			state.value = strconv.FormatFloat(target, 'f', 2, 64)
		}
	}
}

func (h *HUD) drawBrushes() {
	face := basicfont.Face7x13
	text.Draw(h.panel, "Materials", face, panelPadding, panelPadding+headerBaseline, color.RGBA{R: 200, G: 200, B: 210, A: 255})
	for i, id := range h.brushes {
		r := swatchRect(i, h.width)
		if i == h.selected {
			h.fillRect(r.Inset(-2), color.RGBA{R: 240, G: 240, B: 250, A: 255})
		}
		h.fillRect(r, h.palette.Base(id))
	}
	name := h.sim.Catalog().Name(h.Selected())
	y := swatchTop + swatchRows(len(h.brushes), h.width)*(swatchSize+swatchGap) + labelBaseline/2
	text.Draw(h.panel, name, face, panelPadding, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	for i := range h.controls {
		state := &h.controls[i]
		labelY := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, labelY, color.RGBA{R: 220, G: 220, B: 230, A: 255})
		valueColor := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if !state.hasValue {
			valueColor = color.RGBA{R: 160, G: 160, B: 170, A: 255}
		}
		bounds := text.BoundString(face, state.value)
		valueX := state.minusRect.Min.X - buttonGap - bounds.Dx()
		text.Draw(h.panel, state.value, face, valueX, labelY, valueColor)
		h.drawButton(state.minusRect, "-", state.hasValue)
		h.drawButton(state.plusRect, "+", state.hasValue)
	}
}

func (h *HUD) fillRect(rect image.Rectangle, col color.RGBA) {
	if h.pixel == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorM.Scale(float64(col.R)/255.0, float64(col.G)/255.0, float64(col.B)/255.0, float64(col.A)/255.0)
	h.panel.DrawImage(h.pixel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	h.fillRect(rect, bg)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutControls() {
	if h.width <= 0 {
		return
	}
	top0 := swatchTop + swatchRows(len(h.brushes), h.width)*(swatchSize+swatchGap) + labelBaseline
	for i := range h.controls {
		top := top0 + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plusRect := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minusRect := image.Rect(plusRect.Min.X-buttonGap-buttonSize, buttonY, plusRect.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minusRect
		h.controls[i].plusRect = plusRect
	}
}

type hudControlState struct {
	control core.ParameterControl
	value   string

	floatValue float64
	hasValue   bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}
