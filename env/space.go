package env

import (
	"golang.org/x/exp/rand"
)

// Space is a finite action space: a flat discrete range or an ordered
// composite of such ranges. Both shapes enumerate deterministically and
// sample uniformly; other shapes are not representable.
type Space interface {
	// Enumerate lists every action in a fixed deterministic order.
	Enumerate() []Action
	// Sample draws an action uniformly at random.
	Sample(r *rand.Rand) Action
	Contains(a Action) bool
	// Arity is the number of action elements this space consumes.
	Arity() int
}

// Discrete is the flat range of actions [0, N).
type Discrete struct {
	N int
}

func (s Discrete) Enumerate() []Action {
	actions := make([]Action, s.N)
	for i := range actions {
		actions[i] = Action{i}
	}
	return actions
}

func (s Discrete) Sample(r *rand.Rand) Action {
	return Action{r.Intn(s.N)}
}

func (s Discrete) Contains(a Action) bool {
	return len(a) == 1 && a[0] >= 0 && a[0] < s.N
}

func (s Discrete) Arity() int { return 1 }

// Tuple is an ordered composite of spaces. Enumeration is the Cartesian
// product of the factor enumerations, factors varying slowest-first.
type Tuple []Space

func (s Tuple) Enumerate() []Action {
	product := []Action{{}}
	for _, factor := range s {
		options := factor.Enumerate()
		next := make([]Action, 0, len(product)*len(options))
		for _, prefix := range product {
			for _, option := range options {
				combined := make(Action, 0, len(prefix)+len(option))
				combined = append(append(combined, prefix...), option...)
				next = append(next, combined)
			}
		}
		product = next
	}
	return product
}

func (s Tuple) Sample(r *rand.Rand) Action {
	var a Action
	for _, factor := range s {
		a = append(a, factor.Sample(r)...)
	}
	return a
}

func (s Tuple) Contains(a Action) bool {
	if len(a) != s.Arity() {
		return false
	}
	offset := 0
	for _, factor := range s {
		arity := factor.Arity()
		if !factor.Contains(a[offset : offset+arity]) {
			return false
		}
		offset += arity
	}
	return true
}

func (s Tuple) Arity() int {
	arity := 0
	for _, factor := range s {
		arity += factor.Arity()
	}
	return arity
}
