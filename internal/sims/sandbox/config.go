package sandbox

import "strconv"

// Params holds the tunables shared by the rule families.
type Params struct {
	// MaxFallSpeed caps how many cells powders and liquids fall per tick.
	MaxFallSpeed int
	// GasNeutralDensity separates rising gases from sinking ones.
	GasNeutralDensity float64
	// CondenseChance is the per-tick permille chance a blocked gas condenses.
	CondenseChance int
	// FireDecayChance is the per-tick percent chance fire loses lifetime.
	FireDecayChance int
	// AcidChance is the per-tick percent chance acid dissolves a neighbour.
	AcidChance int

	BurnDamage      int
	DrownDamage     int
	ReproduceChance int
}

// Config controls the sandbox dimensions, seed and starting scene.
type Config struct {
	Width  int
	Height int

	Seed int64

	Scene       string
	CatalogPath string

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  256,
		Height: 192,
		Seed:   1337,
		Scene:  "demo",
		Params: Params{
			MaxFallSpeed:      4,
			GasNeutralDensity: 0.5,
			CondenseChance:    4,
			FireDecayChance:   80,
			AcidChance:        20,
			BurnDamage:        6,
			DrownDamage:       1,
			ReproduceChance:   2,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["scene"]; ok {
		c.Scene = v
	}
	if v, ok := cfg["catalog"]; ok {
		c.CatalogPath = v
	}
	for key, v := range cfg {
		if parsed, err := strconv.Atoi(v); err == nil && c.Params.setInt(key, parsed) {
			continue
		}
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.Params.setFloat(key, parsed)
		}
	}
	return c
}

func (p *Params) setInt(key string, v int) bool {
	if v < 0 {
		return false
	}
	switch key {
	case "max_fall_speed":
		if v < 1 {
			v = 1
		}
		p.MaxFallSpeed = v
	case "condense_chance":
		p.CondenseChance = min(v, 1000)
	case "fire_decay_chance":
		p.FireDecayChance = min(v, 100)
	case "acid_chance":
		p.AcidChance = min(v, 100)
	case "burn_damage":
		p.BurnDamage = v
	case "drown_damage":
		p.DrownDamage = v
	case "reproduce_chance":
		p.ReproduceChance = min(v, 1000)
	default:
		return false
	}
	return true
}

func (p *Params) setFloat(key string, v float64) bool {
	switch key {
	case "gas_neutral_density":
		p.GasNeutralDensity = v
	default:
		return false
	}
	return true
}
