package sandbox

import (
	"strconv"

	"mad-sand/internal/core"
)

// Parameters exposes the current tunables grouped for display.
func (s *Simulation) Parameters() core.ParameterSnapshot {
	p := s.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", s.cfg.Width),
				intParam("h", "Height", s.cfg.Height),
				int64Param("seed", "Seed", s.cfg.Seed),
			},
		},
		{
			Name: "Motion",
			Params: []core.Parameter{
				intParam("max_fall_speed", "Max fall speed", p.MaxFallSpeed),
				floatParam("gas_neutral_density", "Gas neutral density", p.GasNeutralDensity),
				intParam("condense_chance", "Condense chance (permille)", p.CondenseChance),
			},
		},
		{
			Name: "Reactions",
			Params: []core.Parameter{
				intParam("fire_decay_chance", "Fire decay chance", p.FireDecayChance),
				intParam("acid_chance", "Acid chance", p.AcidChance),
			},
		},
		{
			Name: "Agents",
			Params: []core.Parameter{
				intParam("burn_damage", "Burn damage", p.BurnDamage),
				intParam("drown_damage", "Drown damage", p.DrownDamage),
				intParam("reproduce_chance", "Reproduce chance (permille)", p.ReproduceChance),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the tunables adjustable from the HUD.
func (s *Simulation) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "max_fall_speed", Label: "Fall speed", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 16, HasMin: true, HasMax: true},
		{Key: "gas_neutral_density", Label: "Gas neutral", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 2, HasMin: true, HasMax: true},
		{Key: "condense_chance", Label: "Condense", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 1000, HasMin: true, HasMax: true},
		{Key: "fire_decay_chance", Label: "Fire decay", Type: core.ParamTypeInt, Step: 5, Min: 0, Max: 100, HasMin: true, HasMax: true},
		{Key: "acid_chance", Label: "Acid", Type: core.ParamTypeInt, Step: 5, Min: 0, Max: 100, HasMin: true, HasMax: true},
		{Key: "burn_damage", Label: "Burn damage", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 100, HasMin: true, HasMax: true},
		{Key: "reproduce_chance", Label: "Breeding", Type: core.ParamTypeInt, Step: 1, Min: 0, Max: 1000, HasMin: true, HasMax: true},
	}
}

// SetIntParameter updates an integer tunable by key. Out-of-range values are
// clamped; unknown keys and negative values are rejected.
func (s *Simulation) SetIntParameter(key string, value int) bool {
	return s.cfg.Params.setInt(key, value)
}

// SetFloatParameter updates a floating point tunable by key.
func (s *Simulation) SetFloatParameter(key string, value float64) bool {
	return s.cfg.Params.setFloat(key, value)
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
