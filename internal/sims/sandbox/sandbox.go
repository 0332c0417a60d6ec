package sandbox

import (
	"fmt"

	"mad-sand/internal/core"
	"mad-sand/internal/material"
	"mad-sand/internal/world"
)

// SleepThreshold is the number of consecutive visited ticks without
// movement after which a chunk stops being scheduled.
const SleepThreshold = 120

// Stats are the counters of the most recent tick.
type Stats struct {
	Tick         uint64
	ActiveChunks int
	VisitedCells int
	UpdatedCells int
}

// Option customizes a Simulation at construction.
type Option func(*Simulation)

// WithCatalog uses cat instead of loading one from the config.
func WithCatalog(cat *material.Catalog) Option {
	return func(s *Simulation) { s.cat = cat }
}

// WithObserver installs a reaction observer.
func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.observer = o }
}

// WithPlacementFilter installs the predicate consulted by Paint.
func WithPlacementFilter(f PlacementFilter) Option {
	return func(s *Simulation) { s.canPlace = f }
}

// Simulation drives the world one tick at a time.
type Simulation struct {
	cfg   Config
	cat   *material.Catalog
	rules *RuleSet
	world *world.World

	observer Observer
	canPlace PlacementFilter

	tick        uint64
	leftToRight bool
	stats       Stats

	before  [world.ChunkArea]material.ID
	display []uint8
}

// New builds a simulation from cfg. It fails if the catalog cannot be loaded
// or binds a material to an unknown rule family.
func New(cfg Config, opts ...Option) (*Simulation, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("sandbox: invalid size %dx%d", cfg.Width, cfg.Height)
	}
	s := &Simulation{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.cat == nil {
		var err error
		if cfg.CatalogPath != "" {
			s.cat, err = material.Load(cfg.CatalogPath)
		} else {
			s.cat, err = material.Default()
		}
		if err != nil {
			return nil, fmt.Errorf("sandbox: %w", err)
		}
	}
	rules, err := NewRuleSet(s.cat)
	if err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}
	s.rules = rules
	s.world = world.New(cfg.Width, cfg.Height, s.cat, core.SeedFrom(cfg.Seed))
	s.display = make([]uint8, cfg.Width*cfg.Height)
	if err := s.buildScene(cfg.Scene); err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}
	return s, nil
}

// Name implements core.Sim.
func (s *Simulation) Name() string { return "sandbox" }

// Size implements core.Sim.
func (s *Simulation) Size() core.Size { return s.world.Size() }

// World exposes the grid for frontends and tests.
func (s *Simulation) World() *world.World { return s.world }

// Catalog returns the material catalog in use.
func (s *Simulation) Catalog() *material.Catalog { return s.cat }

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() Config { return s.cfg }

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() uint64 { return s.tick }

// Stats returns the counters of the last tick.
func (s *Simulation) Stats() Stats { return s.stats }

// SetObserver replaces the reaction observer; nil removes it.
func (s *Simulation) SetObserver(o Observer) { s.observer = o }

// Reset clears the world, reseeds the PRNG and rebuilds the configured
// scene. A zero seed reuses the configured one.
func (s *Simulation) Reset(seed int64) {
	if seed == 0 {
		seed = s.cfg.Seed
	}
	s.cfg.Seed = seed
	s.world.Clear()
	s.world.Seed(core.SeedFrom(seed))
	s.tick = 0
	s.leftToRight = false
	s.stats = Stats{}
	if err := s.buildScene(s.cfg.Scene); err != nil {
		// The scene name was validated by New; only an empty world remains.
		s.world.Clear()
	}
}

// Clear empties the world without touching the tick counter or PRNG.
func (s *Simulation) Clear() { s.world.Clear() }

// Step advances the simulation by one tick.
func (s *Simulation) Step() {
	w := s.world
	s.tick++
	s.stats = Stats{Tick: s.tick}
	s.leftToRight = !s.leftToRight
	movesBefore := w.Moves()

	cw, ch := w.ChunksX(), w.ChunksY()
	for cy := ch - 1; cy >= 0; cy-- {
		for i := 0; i < cw; i++ {
			cx := i
			if !s.leftToRight {
				cx = cw - 1 - i
			}
			chunk := w.Chunk(cx, cy)
			if !chunk.Active() {
				continue
			}
			s.stats.ActiveChunks++
			s.stepChunk(cx, cy, chunk)
		}
	}

	w.ClearUpdatedFlags()
	s.stats.UpdatedCells = int(w.Moves() - movesBefore)
}

func (s *Simulation) stepChunk(cx, cy int, chunk *world.Chunk) {
	w := s.world
	chunk.Materials(&s.before)

	x0, y0 := cx*world.ChunkSize, cy*world.ChunkSize
	x1 := min(x0+world.ChunkSize, w.Width())
	y1 := min(y0+world.ChunkSize, w.Height())

	for y := y1 - 1; y >= y0; y-- {
		for i := 0; i < x1-x0; i++ {
			x := x0 + i
			if !s.leftToRight {
				x = x1 - 1 - i
			}
			c := chunk.Cell(x-x0, y-y0)
			if c.Material == material.Empty || c.Updated() {
				continue
			}
			s.stats.VisitedCells++
			if rule := s.rules.For(c.Material); rule != nil {
				rule(s, x, y)
			}
		}
	}

	if chunk.Changed(&s.before) {
		chunk.Wake()
		w.ActivateChunk(cx, cy-1)
		w.ActivateChunk(cx+1, cy)
		w.ActivateChunk(cx, cy+1)
		w.ActivateChunk(cx-1, cy)
		return
	}
	chunk.Doze(SleepThreshold)
}

// Cells implements core.Sim: one material id per cell, row-major.
func (s *Simulation) Cells() []uint8 {
	w := s.world
	width := w.Width()
	w.Each(func(x, y int, c world.Cell) {
		s.display[y*width+x] = uint8(c.Material)
	})
	return s.display
}

func init() {
	core.Register("sandbox", func(cfg map[string]string) (core.Sim, error) {
		return New(FromMap(cfg))
	})
}
