package sandbox

import (
	"errors"
	"fmt"
	"sort"

	"mad-sand/internal/material"
)

// Rule updates the material at (x, y) for one tick. Rules touch the grid
// only through the world's primitives.
type Rule func(s *Simulation, x, y int)

var families = map[string]Rule{
	"none":      func(*Simulation, int, int) {},
	"static":    ruleStatic,
	"powder":    rulePowder,
	"liquid":    ruleLiquid,
	"gas":       ruleGas,
	"fire":      ruleFire,
	"molten":    ruleMolten,
	"corrosive": ruleCorrosive,
	"agent":     ruleAgent,
}

// Families lists the rule names a catalog may bind.
func Families() []string {
	names := make([]string, 0, len(families))
	for n := range families {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RuleSet is the dispatch table from material id to rule, built once.
type RuleSet struct {
	rules []Rule
	names []string
}

// NewRuleSet binds every catalog id to its rule family. Any id whose family
// is unknown is a configuration error.
func NewRuleSet(cat *material.Catalog) (*RuleSet, error) {
	rs := &RuleSet{
		rules: make([]Rule, cat.Len()),
		names: make([]string, cat.Len()),
	}
	var errs []error
	for _, def := range cat.Defs() {
		rule, ok := families[def.Rule]
		if !ok {
			errs = append(errs, fmt.Errorf("material %q (id %d): unknown rule %q", def.Name, def.ID, def.Rule))
			continue
		}
		rs.rules[def.ID] = rule
		rs.names[def.ID] = def.Rule
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("bind rules: %w", err)
	}
	return rs, nil
}

// For returns the rule bound to id, or nil for ids outside the table.
func (rs *RuleSet) For(id material.ID) Rule {
	if int(id) >= len(rs.rules) {
		return nil
	}
	return rs.rules[id]
}

// Name returns the family name bound to id.
func (rs *RuleSet) Name(id material.ID) string {
	if int(id) >= len(rs.names) {
		return ""
	}
	return rs.names[id]
}

func ruleStatic(s *Simulation, x, y int) {
	s.react(x, y)
}

func rulePowder(s *Simulation, x, y int) {
	if s.react(x, y) {
		return
	}
	s.movePowder(x, y, s.world.Def(x, y))
}

func ruleLiquid(s *Simulation, x, y int) {
	if s.react(x, y) {
		return
	}
	s.moveLiquid(x, y, s.world.Def(x, y))
}

func ruleGas(s *Simulation, x, y int) {
	if s.react(x, y) {
		return
	}
	if s.decay(x, y, 100) {
		return
	}
	s.moveGas(x, y, s.world.Def(x, y))
}

func ruleFire(s *Simulation, x, y int) {
	if s.react(x, y) {
		return
	}
	if s.ignite(x, y) {
		return
	}
	if s.decay(x, y, s.cfg.Params.FireDecayChance) {
		return
	}
	s.moveGas(x, y, s.world.Def(x, y))
}

func ruleMolten(s *Simulation, x, y int) {
	if s.react(x, y) {
		return
	}
	if s.ignite(x, y) {
		return
	}
	s.moveLiquid(x, y, s.world.Def(x, y))
}

func ruleCorrosive(s *Simulation, x, y int) {
	if s.react(x, y) {
		return
	}
	if s.corrode(x, y) {
		return
	}
	s.moveLiquid(x, y, s.world.Def(x, y))
}
