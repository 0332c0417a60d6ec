package sandbox

import "mad-sand/internal/material"

// Reaction reports that two touching materials were transformed.
type Reaction struct {
	A, B       material.ID
	OutA, OutB material.ID
	Tick       uint64
}

// Observer receives reaction events. It is read-only telemetry: whether or
// not one is installed never changes the simulation.
type Observer interface {
	ObserveReaction(Reaction)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Reaction)

// ObserveReaction calls f.
func (f ObserverFunc) ObserveReaction(r Reaction) { f(r) }

// PlacementFilter decides whether the user may place a material. Only the
// external placement path consults it.
type PlacementFilter func(material.ID) bool

func (s *Simulation) emit(a, b, outA, outB material.ID) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveReaction(Reaction{A: a, B: b, OutA: outA, OutB: outB, Tick: s.tick})
}

// Observers fans events out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var live []Observer
	for _, o := range obs {
		if o != nil {
			live = append(live, o)
		}
	}
	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	}
	return ObserverFunc(func(r Reaction) {
		for _, o := range live {
			o.ObserveReaction(r)
		}
	})
}
