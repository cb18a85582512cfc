package planner

import (
	"dyna/env"
)

// The search tree strictly alternates decision and chance levels: a decision
// node owns one chance child per action, a chance node owns one decision
// child per distinct sampled outcome. Parent pointers are non-owning; the
// whole tree lives for a single Act call.

// decision is a tree node labelled by a simulated environment state.
type decision struct {
	parent   *chance
	state    env.State
	depth    int
	children []*chance
	explored int // chance children visited at least once
	visits   int
}

func newDecision(parent *chance, state env.State) *decision {
	depth := 0
	if parent != nil {
		depth = parent.depth + 1
	}
	return &decision{
		parent: parent,
		state:  state,
		depth:  depth,
	}
}

// chance is a tree node labelled by a (state, action) pair; the state is the
// parent decision node's.
type chance struct {
	parent   *decision
	action   env.Action
	depth    int
	children []*decision
	returns  []float64 // discounted-return samples from this Act call
	// history is the matching record snapshot taken at creation time. It is
	// never refreshed: it reflects only observations known before this node
	// existed.
	history *record
}

func newChance(parent *decision, action env.Action, history *record) *chance {
	return &chance{
		parent:  parent,
		action:  action,
		depth:   parent.depth,
		history: history,
	}
}

// bestChild returns the chance child with the greatest inferred value, first
// maximum on ties. Every child must have been visited at least once.
func bestChild(d *decision) *chance {
	best := d.children[0]
	bestValue := inferredValue(best)
	for _, c := range d.children[1:] {
		if v := inferredValue(c); v > bestValue {
			best, bestValue = c, v
		}
	}
	return best
}
