package material

import (
	"image/color"
	"strings"
	"testing"
)

func TestDefaultCatalogLoads(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if cat.Len() < 10 {
		t.Fatalf("expected a populated catalog, got %d materials", cat.Len())
	}
	if d, _ := cat.Def(Empty); d.State != StateEmpty {
		t.Fatalf("id 0 must be empty, got %v", d.State)
	}

	sand, ok := cat.Lookup("sand")
	if !ok {
		t.Fatal("sand missing")
	}
	water, _ := cat.Lookup("water")
	sd, _ := cat.Def(sand)
	wd, _ := cat.Def(water)
	if sd.Density <= wd.Density {
		t.Fatalf("sand (%v) must be denser than water (%v)", sd.Density, wd.Density)
	}
	if cat.Digest() == "" {
		t.Fatal("expected a digest")
	}
}

func TestReactionsIndexedBothWays(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	water, _ := cat.Lookup("water")
	lava, _ := cat.Lookup("lava")
	steam, _ := cat.Lookup("steam")
	stone, _ := cat.Lookup("stone")

	r, ok := cat.Reaction(lava, water)
	if !ok {
		t.Fatal("expected lava+water reaction")
	}
	if r.OutA != stone || r.OutB != steam {
		t.Fatalf("swapped reaction outputs wrong: %+v", r)
	}
	if !cat.Reactive(water) || !cat.Reactive(lava) {
		t.Fatal("water and lava should be marked reactive")
	}
}

func TestBoundaryResolvesToSolid(t *testing.T) {
	cat, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	d, ok := cat.Def(Boundary)
	if !ok || d.State != StateSolid || !d.Indestructible {
		t.Fatalf("boundary should be an indestructible solid, got %+v", d)
	}
	if _, ok := cat.Def(ID(cat.Len())); ok {
		t.Fatal("ids past the catalog must not resolve")
	}
}

func TestNewCatalogRejectsGaps(t *testing.T) {
	defs := []Def{
		{ID: 0, Name: "empty", State: StateEmpty, Rule: "none"},
		{ID: 2, Name: "sand", State: StatePowder, Rule: "powder"},
	}
	_, err := NewCatalog(defs, nil)
	if err == nil {
		t.Fatal("expected gap in id range to fail")
	}
	if !strings.Contains(err.Error(), "outside") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewCatalogRequiresRule(t *testing.T) {
	defs := []Def{
		{ID: 0, Name: "empty", State: StateEmpty, Rule: "none"},
		{ID: 1, Name: "sand", State: StatePowder},
	}
	if _, err := NewCatalog(defs, nil); err == nil || !strings.Contains(err.Error(), "no rule") {
		t.Fatalf("expected missing rule error, got %v", err)
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"bad state": `
version: 1
materials:
  - {id: 0, name: empty, state: plasma, rule: none}
`,
		"lifetime overflow": `
version: 1
materials:
  - {id: 0, name: empty, state: empty, rule: none}
  - {id: 1, name: smoke, state: gas, rule: gas, lifetime: 64}
`,
		"unknown field": `
version: 1
materials:
  - {id: 0, name: empty, state: empty, rule: none, sparkle: true}
`,
	}
	for name, src := range cases {
		if _, err := Parse([]byte(src)); err == nil {
			t.Errorf("%s: expected schema error", name)
		}
	}
}

func TestParseResolvesReferences(t *testing.T) {
	src := `
version: 1
materials:
  - {id: 0, name: empty, state: empty, rule: none}
  - {id: 1, name: smoke, state: gas, density: 0.05, rule: gas, lifetime: 10}
  - {id: 2, name: fire, state: gas, density: 0.02, color: "#ff8000", rule: fire, lifetime: 20, residue: smoke, burning: true}
  - {id: 3, name: wood, state: solid, rule: static, flammability: 5, burns_into: fire, placeable: false}
`
	cat, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	fire, _ := cat.Lookup("fire")
	smoke, _ := cat.Lookup("smoke")
	wood, _ := cat.Lookup("wood")
	fd, _ := cat.Def(fire)
	if fd.Residue != smoke {
		t.Fatalf("fire residue = %d, want %d", fd.Residue, smoke)
	}
	if fd.Color.R != 0xff || fd.Color.G != 0x80 {
		t.Fatalf("color not parsed: %+v", fd.Color)
	}
	wd, _ := cat.Def(wood)
	if wd.BurnsInto != fire || wd.Placeable {
		t.Fatalf("wood def wrong: %+v", wd)
	}

	bad := src + "  - {id: 4, name: coal, state: solid, rule: static, burns_into: magma}\n"
	if _, err := Parse([]byte(bad)); err == nil {
		t.Fatal("expected unknown reference to fail")
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := parseHexColor("#1a80ff")
	if err != nil {
		t.Fatal(err)
	}
	if c != (color.RGBA{R: 0x1a, G: 0x80, B: 0xff, A: 255}) {
		t.Fatalf("got %+v", c)
	}
	if c, err := parseHexColor(""); err != nil || c != (color.RGBA{A: 255}) {
		t.Fatalf("empty color should default to opaque black, got %+v %v", c, err)
	}
	if _, err := parseHexColor("1a80ff"); err == nil {
		t.Fatal("expected an error without the leading #")
	}
}
