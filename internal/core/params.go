package core

import "math"

// ParamType tells frontends how to parse and step a parameter value.
type ParamType string

const (
	ParamTypeInt   ParamType = "int"
	ParamTypeFloat ParamType = "float"
)

// Parameter is one tunable as reported by a simulation. Value is formatted
// for display and parses back according to Type.
type Parameter struct {
	Key   string
	Label string
	Type  ParamType
	Value string
}

// ParameterGroup is a titled set of parameters.
type ParameterGroup struct {
	Name   string
	Params []Parameter
}

// ParameterSnapshot is the full set of tunables at one moment.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// Find returns the parameter registered under key.
func (s ParameterSnapshot) Find(key string) (Parameter, bool) {
	for _, g := range s.Groups {
		for _, p := range g.Params {
			if p.Key == key {
				return p, true
			}
		}
	}
	return Parameter{}, false
}

// ParameterControl describes a HUD stepper. Min and Max only apply when the
// matching Has flag is set.
type ParameterControl struct {
	Key   string
	Label string
	Type  ParamType

	Step float64

	Min    float64
	Max    float64
	HasMin bool
	HasMax bool
}

// Adjust moves value by direction steps and clamps the result. Integer
// controls step by at least one and return whole numbers.
func (c ParameterControl) Adjust(value float64, direction int) float64 {
	step := c.Step
	if c.Type == ParamTypeInt {
		step = math.Max(math.Round(step), 1)
	} else if step <= 0 {
		step = 0.05
	}
	target := value + float64(direction)*step
	if c.HasMin {
		target = math.Max(target, c.Min)
	}
	if c.HasMax {
		target = math.Min(target, c.Max)
	}
	if c.Type == ParamTypeInt {
		target = math.Round(target)
	}
	return target
}
