package env

import (
	"golang.org/x/exp/slices"
)

// State is an opaque, environment-defined state representation. The planner
// never inspects it; states are compared only through Environment.Equal.
type State any

// Action is one point of a discrete action space: one element per factor of
// the space, a single element for a flat space.
type Action []int

func (a Action) Equal(b Action) bool {
	return slices.Equal(a, b)
}

// Environment is the capability contract a simulator must satisfy to be
// planned over. Transition is a pure function of its arguments: the planner
// may call it with any previously returned state without affecting the
// environment's own state. The dynamic flag controls whether the simulated
// transition advances simulated time.
type Environment interface {
	GetState() State
	Transition(state State, action Action, dynamic bool) (next State, reward float64, terminal bool)
	// Equal is the approximate equality operator used for outcome
	// deduplication and history matching. It must be reflexive and symmetric.
	Equal(s1, s2 State) bool
	ActionSpace() Space
	// Tau is the simulated duration of one time step.
	Tau() float64
}
