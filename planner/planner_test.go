package planner

import (
	"testing"

	"dyna/env"

	"github.com/stretchr/testify/require"
)

// bandit is a two-action, one-step environment: action 0 pays 1 and
// terminates, action 1 pays 0 and terminates.
type bandit struct{}

func (b bandit) GetState() env.State { return 0 }

func (b bandit) Transition(state env.State, action env.Action, dynamic bool) (env.State, float64, bool) {
	if action[0] == 0 {
		return 100, 1, true
	}
	return 101, 0, true
}

func (b bandit) Equal(s1, s2 env.State) bool { return s1 == s2 }
func (b bandit) ActionSpace() env.Space      { return env.Discrete{N: 2} }
func (b bandit) Tau() float64                { return 1 }

// line is a deterministic single-action environment with zero branching:
// state k transitions to k+1 with reward k+1, never terminating.
type line struct{}

func (l line) GetState() env.State { return 0 }

func (l line) Transition(state env.State, action env.Action, dynamic bool) (env.State, float64, bool) {
	k := state.(int)
	return k + 1, float64(k + 1), false
}

func (l line) Equal(s1, s2 env.State) bool { return s1 == s2 }
func (l line) ActionSpace() env.Space      { return env.Discrete{N: 1} }
func (l line) Tau() float64                { return 1 }

// branching returns a fresh state on every transition, so every sampled
// outcome expands a new decision node.
type branching struct{ next int }

func (b *branching) GetState() env.State { return 0 }

func (b *branching) Transition(state env.State, action env.Action, dynamic bool) (env.State, float64, bool) {
	b.next++
	return b.next, 1, false
}

func (b *branching) Equal(s1, s2 env.State) bool { return s1 == s2 }
func (b *branching) ActionSpace() env.Space      { return env.Discrete{N: 2} }
func (b *branching) Tau() float64                { return 1 }

func countDecisions(d *decision) int {
	count := 1
	for _, c := range d.children {
		for _, grandchild := range c.children {
			count += countDecisions(grandchild)
		}
	}
	return count
}

func TestActBanditScenario(t *testing.T) {
	// The planner must identify the rewarding arm across independent seeds.
	correct := 0
	for seed := uint64(0); seed < 20; seed++ {
		p := New(env.Discrete{N: 2},
			WithRollouts(50),
			WithGamma(1),
			WithMaxDepth(1),
			WithSeed(seed),
		)
		action := p.Act(bandit{}, false)
		if action[0] == 0 {
			correct++
		}
	}
	require.GreaterOrEqual(t, correct, 18,
		"Planner should select the rewarding action in at least 18 of 20 trials")
}

func TestSimulateDecisionNodeBudget(t *testing.T) {
	// Each rollout expands at most one decision node.
	const rollouts = 30
	e := &branching{}
	p := New(e.ActionSpace(), WithRollouts(rollouts), WithMaxDepth(5), WithSeed(1))

	root := newDecision(nil, e.GetState())
	for i := 0; i < rollouts; i++ {
		p.simulate(e, root, false)
	}

	require.LessOrEqual(t, countDecisions(root), rollouts+1,
		"Rollouts should create at most one decision node each")
}

func TestSimulateBackpropagationDiscountLaw(t *testing.T) {
	// On a zero-branching line the sampled values must satisfy
	// value(ancestor) = r + gamma * value(child) exactly.
	e := line{}
	p := New(e.ActionSpace(), WithGamma(0.5), WithMaxDepth(2), WithRollouts(2), WithSeed(0))

	root := newDecision(nil, e.GetState())
	p.simulate(e, root, false)
	p.simulate(e, root, false)

	require.Len(t, root.children, 1, "Single action should yield a single chance child")
	c0 := root.children[0]
	// First rollout evaluates from the root: 1 + 2*0.5 + 3*0.25.
	// Second rollout evaluates from depth 1 (2 + 3*0.5) and bootstraps
	// through the selection reward: 1 + 0.5*3.5.
	require.Equal(t, []float64{2.75, 2.75}, c0.returns,
		"Root chance child should hold the full discounted returns")

	require.Len(t, c0.children, 1, "Deterministic outcome should deduplicate to one child")
	d1 := c0.children[0]
	require.Equal(t, 1, d1.depth, "Depth should increase across the chance level")
	require.Len(t, d1.children, 1)
	require.Equal(t, []float64{3.5}, d1.children[0].returns,
		"Expansion leaf should hold the raw default-policy estimate")
}

func TestSimulateOutcomeDeduplication(t *testing.T) {
	// A deterministic environment must never grow a second decision child
	// for the same sampled outcome.
	e := line{}
	p := New(e.ActionSpace(), WithGamma(0.9), WithMaxDepth(3), WithRollouts(10), WithSeed(0))

	root := newDecision(nil, e.GetState())
	for i := 0; i < 10; i++ {
		p.simulate(e, root, false)
	}

	for c := root.children[0]; len(c.children) > 0; {
		require.Len(t, c.children, 1, "Chance children should be pairwise state-distinct")
		d := c.children[0]
		if len(d.children) == 0 {
			break
		}
		c = d.children[0]
	}
}

func TestRefreshHistoriesIdempotence(t *testing.T) {
	e := line{}
	p := New(e.ActionSpace(), WithGamma(0.9), WithMaxDepth(3), WithRollouts(8), WithSeed(0))

	root := newDecision(nil, e.GetState())
	for i := 0; i < 8; i++ {
		p.simulate(e, root, false)
	}

	countObservations := func() int {
		total := 0
		for _, r := range p.histories.records {
			total += len(r.observations)
		}
		return total
	}

	p.refreshHistories(e, root)
	first := countObservations()
	records := p.histories.size()
	require.Positive(t, first, "Refresh walk should record observations")

	p.refreshHistories(e, root)
	require.Equal(t, 2*first, countObservations(),
		"Each walk should contribute exactly one observation per visited chance node")
	require.Equal(t, records, p.histories.size(),
		"A second walk should append to existing records, not create new ones")
}

func TestActOnTerminalState(t *testing.T) {
	p := New(env.Discrete{N: 2}, WithRollouts(10), WithMaxDepth(1))
	require.Panics(t, func() { p.Act(bandit{}, true) },
		"Planning from a terminal state should panic")
}

func TestActReproducibility(t *testing.T) {
	// Identical seeds must produce identical plans on a stochastic tree.
	plan := func(seed uint64) env.Action {
		e := &branching{}
		p := New(e.ActionSpace(), WithRollouts(20), WithMaxDepth(4), WithSeed(seed))
		return p.Act(e, false)
	}
	require.Equal(t, plan(7), plan(7), "Same seed should reproduce the same action")
}

func TestNewValidation(t *testing.T) {
	require.Panics(t, func() { New(env.Discrete{N: 2}, WithGamma(0)) },
		"Gamma outside (0, 1] should panic")
	require.Panics(t, func() { New(env.Discrete{N: 2}, WithGamma(1.5)) },
		"Gamma outside (0, 1] should panic")
	require.Panics(t, func() { New(env.Discrete{N: 2}, WithRollouts(-1)) },
		"Non-positive rollout budget should panic")
	require.Panics(t, func() { New(env.Discrete{N: 2}, WithMaxDepth(0)) },
		"Non-positive horizon should panic")
	require.NotPanics(t, func() { New(env.Discrete{N: 2}, WithGamma(1)) },
		"Gamma of exactly 1 is allowed")
}

func TestExpansionShufflesChildren(t *testing.T) {
	// With enough actions, at least one seed must produce a non-enumeration
	// order, and all actions must still be present exactly once.
	e := &branching{}
	space := env.Discrete{N: 6}

	orders := map[string]bool{}
	for seed := uint64(0); seed < 10; seed++ {
		p := New(space, WithRollouts(1), WithMaxDepth(1), WithSeed(seed))
		root := newDecision(nil, e.GetState())
		p.simulate(e, root, false)

		require.Len(t, root.children, 6, "Expansion should create one chance child per action")
		seen := map[int]bool{}
		key := ""
		for _, c := range root.children {
			seen[c.action[0]] = true
			key += string(rune('0' + c.action[0]))
		}
		require.Len(t, seen, 6, "Every action should appear exactly once")
		orders[key] = true
	}
	require.Greater(t, len(orders), 1, "Child order should vary across seeds")
}
