package material

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

//go:embed catalog.schema.json
var catalogSchema []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

type catalogFile struct {
	Version   int            `yaml:"version"`
	Materials []materialFile `yaml:"materials"`
	Reactions []reactionFile `yaml:"reactions"`
}

type materialFile struct {
	ID            int     `yaml:"id"`
	Name          string  `yaml:"name"`
	State         string  `yaml:"state"`
	Density       float64 `yaml:"density"`
	Color         string  `yaml:"color"`
	ColorVariance int     `yaml:"color_variance"`
	Rule          string  `yaml:"rule"`
	Lifetime      int     `yaml:"lifetime"`
	Health        int     `yaml:"health"`
	Dispersion    int     `yaml:"dispersion"`
	Flammability  int     `yaml:"flammability"`
	BlastRadius   int     `yaml:"blast_radius"`
	BurnsInto     string  `yaml:"burns_into"`
	Residue       string  `yaml:"residue"`
	CondensesInto string  `yaml:"condenses_into"`

	Burning        bool  `yaml:"burning"`
	Corrodible     bool  `yaml:"corrodible"`
	Indestructible bool  `yaml:"indestructible"`
	Placeable      *bool `yaml:"placeable"`
}

type reactionFile struct {
	A      string `yaml:"a"`
	B      string `yaml:"b"`
	OutA   string `yaml:"out_a"`
	OutB   string `yaml:"out_b"`
	Chance int    `yaml:"chance"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("default.yaml: %w", err)
	}
	return c, nil
}

// Load reads and validates a YAML catalog file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse validates raw YAML against the catalog schema, then resolves names
// and builds the catalog.
func Parse(raw []byte) (*Catalog, error) {
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	names := make(map[string]ID, len(f.Materials))
	for _, m := range f.Materials {
		names[m.Name] = ID(m.ID)
	}
	resolve := func(owner, field, name string) (ID, error) {
		if name == "" {
			return Empty, nil
		}
		id, ok := names[name]
		if !ok {
			return Empty, fmt.Errorf("%s: %s references unknown material %q", owner, field, name)
		}
		return id, nil
	}

	defs := make([]Def, 0, len(f.Materials))
	for _, m := range f.Materials {
		state, err := ParseState(m.State)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", m.Name, err)
		}
		col, err := parseHexColor(m.Color)
		if err != nil {
			return nil, fmt.Errorf("material %q: %w", m.Name, err)
		}
		d := Def{
			ID:             ID(m.ID),
			Name:           m.Name,
			State:          state,
			Density:        m.Density,
			Color:          col,
			ColorVariance:  uint8(m.ColorVariance),
			Rule:           m.Rule,
			Lifetime:       uint8(m.Lifetime),
			Health:         uint8(m.Health),
			Dispersion:     m.Dispersion,
			Flammability:   m.Flammability,
			BlastRadius:    m.BlastRadius,
			Burning:        m.Burning,
			Corrodible:     m.Corrodible,
			Indestructible: m.Indestructible,
			Placeable:      m.Placeable == nil || *m.Placeable,
		}
		if d.BurnsInto, err = resolve(m.Name, "burns_into", m.BurnsInto); err != nil {
			return nil, err
		}
		if d.Residue, err = resolve(m.Name, "residue", m.Residue); err != nil {
			return nil, err
		}
		if d.CondensesInto, err = resolve(m.Name, "condenses_into", m.CondensesInto); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}

	reactions := make([]Reaction, 0, len(f.Reactions))
	for i, r := range f.Reactions {
		owner := "reaction " + strconv.Itoa(i)
		var (
			rx  = Reaction{Chance: r.Chance}
			err error
		)
		if rx.A, err = resolve(owner, "a", r.A); err != nil {
			return nil, err
		}
		if rx.B, err = resolve(owner, "b", r.B); err != nil {
			return nil, err
		}
		if rx.OutA, err = resolve(owner, "out_a", r.OutA); err != nil {
			return nil, err
		}
		if rx.OutB, err = resolve(owner, "out_b", r.OutB); err != nil {
			return nil, err
		}
		reactions = append(reactions, rx)
	}

	return NewCatalog(defs, reactions)
}

func validateSchema(raw []byte) error {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("catalog.schema.json", bytes.NewReader(catalogSchema)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = c.Compile("catalog.schema.json")
	})
	if schemaErr != nil {
		return fmt.Errorf("compile catalog schema: %w", schemaErr)
	}

	// The validator wants JSON-shaped values, so round-trip the YAML tree.
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("catalog is not JSON-compatible: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("catalog schema: %w", err)
	}
	return nil
}

func parseHexColor(s string) (color.RGBA, error) {
	if s == "" {
		return color.RGBA{A: 255}, nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
