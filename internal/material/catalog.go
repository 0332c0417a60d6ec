package material

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
)

// Boundary is the sentinel returned for coordinates outside the world. It is
// never stored in a catalog; lookups resolve it to an indestructible solid.
const Boundary ID = 255

// MaxMaterials is the largest catalog size; Boundary is reserved.
const MaxMaterials = int(Boundary)

var boundaryDef = Def{
	ID:             Boundary,
	Name:           "boundary",
	State:          StateSolid,
	Rule:           "static",
	Indestructible: true,
}

// Catalog is the read-only material table shared by the world, the rules and
// the renderer.
type Catalog struct {
	defs      []Def
	byName    map[string]ID
	reactions map[[2]ID]Reaction
	reactive  []bool
	digest    string
}

// NewCatalog validates defs and reactions and builds a catalog. Defs may be in
// any order but their IDs must cover 0..len(defs)-1 exactly, and ID 0 must be
// the empty material.
func NewCatalog(defs []Def, reactions []Reaction) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, errors.New("catalog has no materials")
	}
	if len(defs) > MaxMaterials {
		return nil, fmt.Errorf("catalog has %d materials, max is %d", len(defs), MaxMaterials)
	}

	c := &Catalog{
		defs:      make([]Def, len(defs)),
		byName:    make(map[string]ID, len(defs)),
		reactions: make(map[[2]ID]Reaction, 2*len(reactions)),
		reactive:  make([]bool, len(defs)),
	}

	var errs []error
	seen := make([]bool, len(defs))
	for _, d := range defs {
		if int(d.ID) >= len(defs) {
			errs = append(errs, fmt.Errorf("material %q: id %d outside 0..%d", d.Name, d.ID, len(defs)-1))
			continue
		}
		if seen[d.ID] {
			errs = append(errs, fmt.Errorf("material %q: duplicate id %d", d.Name, d.ID))
			continue
		}
		if d.Name == "" {
			errs = append(errs, fmt.Errorf("material id %d: empty name", d.ID))
		}
		if _, dup := c.byName[d.Name]; dup {
			errs = append(errs, fmt.Errorf("material %q: duplicate name", d.Name))
		}
		if d.Rule == "" {
			errs = append(errs, fmt.Errorf("material %q: no rule bound", d.Name))
		}
		seen[d.ID] = true
		c.defs[d.ID] = d
		c.byName[d.Name] = d.ID
	}
	for id, ok := range seen {
		if !ok {
			errs = append(errs, fmt.Errorf("material id %d: missing from catalog", id))
		}
	}
	if seen[Empty] && c.defs[Empty].State != StateEmpty {
		errs = append(errs, fmt.Errorf("material id 0 (%q) must have state empty", c.defs[Empty].Name))
	}
	for id := 1; id < len(c.defs); id++ {
		if seen[id] && c.defs[id].State == StateEmpty {
			errs = append(errs, fmt.Errorf("material %q: only id 0 may have state empty", c.defs[id].Name))
		}
	}
	for _, d := range c.defs {
		for _, ref := range []ID{d.BurnsInto, d.Residue, d.CondensesInto} {
			if int(ref) >= len(defs) {
				errs = append(errs, fmt.Errorf("material %q: references unknown id %d", d.Name, ref))
			}
		}
		if d.Flammability > 0 && d.BurnsInto == Empty && d.BlastRadius == 0 {
			errs = append(errs, fmt.Errorf("material %q: flammable but burns into nothing", d.Name))
		}
	}

	for _, r := range reactions {
		if int(r.A) >= len(defs) || int(r.B) >= len(defs) || int(r.OutA) >= len(defs) || int(r.OutB) >= len(defs) {
			errs = append(errs, fmt.Errorf("reaction %d+%d: unknown material", r.A, r.B))
			continue
		}
		if r.A == Empty || r.B == Empty {
			errs = append(errs, fmt.Errorf("reaction %s+%s: inputs must be non-empty", c.defs[r.A].Name, c.defs[r.B].Name))
			continue
		}
		if r.Chance <= 0 || r.Chance > 100 {
			errs = append(errs, fmt.Errorf("reaction %s+%s: chance %d outside 1..100", c.defs[r.A].Name, c.defs[r.B].Name, r.Chance))
			continue
		}
		c.reactions[[2]ID{r.A, r.B}] = r
		if r.A != r.B {
			c.reactions[[2]ID{r.B, r.A}] = r.Swapped()
		}
		c.reactive[r.A] = true
		c.reactive[r.B] = true
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	c.digest = digestDefs(c.defs, reactions)
	return c, nil
}

// Len reports the number of materials in the catalog.
func (c *Catalog) Len() int { return len(c.defs) }

// Def returns the definition for id. Boundary resolves to the sentinel
// solid; ids outside the catalog report false.
func (c *Catalog) Def(id ID) (*Def, bool) {
	if id == Boundary {
		return &boundaryDef, true
	}
	if int(id) >= len(c.defs) {
		return nil, false
	}
	return &c.defs[id], true
}

// Defs exposes every definition in id order.
func (c *Catalog) Defs() []Def { return c.defs }

// Lookup returns the id registered under name.
func (c *Catalog) Lookup(name string) (ID, bool) {
	id, ok := c.byName[name]
	return id, ok
}

// Name returns a material's name, or "unknown(n)" for ids outside the catalog.
func (c *Catalog) Name(id ID) string {
	if d, ok := c.Def(id); ok {
		return d.Name
	}
	return fmt.Sprintf("unknown(%d)", id)
}

// State returns the state class of id; unknown ids behave as solids.
func (c *Catalog) State(id ID) State {
	if d, ok := c.Def(id); ok {
		return d.State
	}
	return StateSolid
}

// Reaction returns the reaction between a and b, oriented so that a is the
// first input.
func (c *Catalog) Reaction(a, b ID) (Reaction, bool) {
	r, ok := c.reactions[[2]ID{a, b}]
	return r, ok
}

// Reactive reports whether id takes part in any reaction.
func (c *Catalog) Reactive(id ID) bool {
	return int(id) < len(c.reactive) && c.reactive[id]
}

// Palette returns the base color of every material in id order.
func (c *Catalog) Palette() []color.RGBA {
	p := make([]color.RGBA, len(c.defs))
	for i, d := range c.defs {
		p[i] = d.Color
	}
	return p
}

// Digest fingerprints the catalog so snapshots can reject foreign tables.
func (c *Catalog) Digest() string { return c.digest }

func digestDefs(defs []Def, reactions []Reaction) string {
	h := sha256.New()
	for _, d := range defs {
		fmt.Fprintf(h, "%d|%s|%d|%g|%v|%d|%s|%d|%d|%d|%d|%d|%d|%d|%d|%t|%t|%t|%t\n",
			d.ID, d.Name, d.State, d.Density, d.Color, d.ColorVariance, d.Rule,
			d.Lifetime, d.Health, d.Dispersion, d.Flammability, d.BlastRadius,
			d.BurnsInto, d.Residue, d.CondensesInto,
			d.Burning, d.Corrodible, d.Indestructible, d.Placeable)
	}
	for _, r := range reactions {
		fmt.Fprintf(h, "r|%d|%d|%d|%d|%d\n", r.A, r.B, r.OutA, r.OutB, r.Chance)
	}
	return hex.EncodeToString(h.Sum(nil))
}
