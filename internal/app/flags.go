package app

import (
	"flag"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"mad-sand/internal/sims/sandbox"
	"mad-sand/internal/snapshot"
)

// Config represents the command-line parameters shared by the frontends.
type Config struct {
	Scene   string
	Width   int
	Height  int
	Scale   int
	TPS     int
	Seed    int64
	Catalog string
	Radius  int
	Panel   int

	// Save is where the save key writes a snapshot.
	Save string
	// Load restores a snapshot at startup. The grid takes its size.
	Load string

	// Params are extra rule tunables given as -set key=value.
	Params ParamFlags
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	def := sandbox.DefaultConfig()
	return &Config{
		Scene:  def.Scene,
		Width:  def.Width,
		Height: def.Height,
		Scale:  3,
		TPS:    60,
		Seed:   def.Seed,
		Radius: 3,
		Panel:  160,
		Save:   "sandbox.snap",
		Params: ParamFlags{},
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Scene, "scene", c.Scene, "starting scene ("+strings.Join(sandbox.Scenes(), ", ")+")")
	fs.IntVar(&c.Width, "w", c.Width, "grid width in cells")
	fs.IntVar(&c.Height, "h", c.Height, "grid height in cells")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.StringVar(&c.Catalog, "catalog", c.Catalog, "material catalog YAML (default: built-in)")
	fs.IntVar(&c.Radius, "radius", c.Radius, "brush radius in cells")
	fs.IntVar(&c.Panel, "panel", c.Panel, "side panel width in pixels")
	fs.StringVar(&c.Save, "save", c.Save, "snapshot path written by the save key")
	fs.StringVar(&c.Load, "load", c.Load, "snapshot to restore at startup")
	fs.Var(c.Params, "set", "rule tunable as key=value (repeatable)")
}

// Sandbox converts the flags into a simulation config.
func (c *Config) Sandbox() sandbox.Config {
	m := map[string]string{
		"w":     strconv.Itoa(c.Width),
		"h":     strconv.Itoa(c.Height),
		"seed":  strconv.FormatInt(c.Seed, 10),
		"scene": c.Scene,
	}
	if c.Catalog != "" {
		m["catalog"] = c.Catalog
	}
	for k, v := range c.Params {
		m[k] = v
	}
	return sandbox.FromMap(m)
}

// NewSimulation builds the simulation described by the flags, restoring
// the startup snapshot when one is set.
func (c *Config) NewSimulation(opts ...sandbox.Option) (*sandbox.Simulation, error) {
	cfg := c.Sandbox()
	if c.Load != "" {
		hdr, err := snapshot.ReadHeader(c.Load)
		if err != nil {
			return nil, err
		}
		cfg.Width, cfg.Height = hdr.Width, hdr.Height
		cfg.Scene = "empty"
	}
	sim, err := sandbox.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	if c.Load != "" {
		if err := sim.LoadSnapshot(c.Load); err != nil {
			return nil, err
		}
	}
	return sim, nil
}

// ParamFlags collects repeated key=value flags.
type ParamFlags map[string]string

// String implements flag.Value.
func (p ParamFlags) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + p[k]
	}
	return strings.Join(parts, ",")
}

// Set implements flag.Value.
func (p ParamFlags) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return fmt.Errorf("want key=value, got %q", s)
	}
	p[k] = strings.TrimSpace(v)
	return nil
}
