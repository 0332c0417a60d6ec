package material

import (
	"fmt"
	"image/color"
	"strings"
)

// ID identifies a catalog entry. IDs are dense: a catalog with N entries
// covers 0..N-1.
type ID uint8

// Empty is the absence of material.
const Empty ID = 0

// State is the coarse behavioral class of a material.
type State uint8

const (
	StateEmpty State = iota
	StateSolid
	StatePowder
	StateLiquid
	StateGas
)

var stateNames = [...]string{
	StateEmpty:  "empty",
	StateSolid:  "solid",
	StatePowder: "powder",
	StateLiquid: "liquid",
	StateGas:    "gas",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// ParseState converts a catalog state name into a State.
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if strings.EqualFold(n, name) {
			return State(i), nil
		}
	}
	return StateEmpty, fmt.Errorf("unknown material state %q", name)
}

// Def is the static, read-only description of one material.
type Def struct {
	ID            ID
	Name          string
	State         State
	Density       float64
	Color         color.RGBA
	ColorVariance uint8

	// Rule names the update function bound to this material.
	Rule string

	// Lifetime seeds the 6-bit counter of a freshly placed cell. Decaying
	// materials count it down; agents use it as a reproduction cooldown.
	Lifetime uint8
	// Health seeds the packed health of agent cells.
	Health uint8

	Dispersion   int
	Flammability int
	BlastRadius  int

	BurnsInto     ID
	Residue       ID
	CondensesInto ID

	Burning        bool
	Corrodible     bool
	Indestructible bool
	Placeable      bool
}

// Reaction transforms a pair of touching materials.
type Reaction struct {
	A, B       ID
	OutA, OutB ID
	// Chance is the per-tick percent probability the reaction fires.
	Chance int
}

// Swapped returns the reaction as seen from B's side.
func (r Reaction) Swapped() Reaction {
	return Reaction{A: r.B, B: r.A, OutA: r.OutB, OutB: r.OutA, Chance: r.Chance}
}
