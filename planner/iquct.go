package planner

import (
	"dyna/env"
	"dyna/experiments/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// IQUCT is a decision-time planner for non-stationary MDPs: a value-greedy
// UCT variant whose action values are inferred by regressing historical
// returns against elapsed simulated duration, correcting for drift in the
// environment's behavior since the returns were sampled.
//
// The search tree is rebuilt on every Act call; only the history store
// persists across calls.
type IQUCT struct {
	space    env.Space
	gamma    float64
	rollouts int
	maxDepth int
	dynamic  bool
	rng      *rand.Rand

	histories *historyStore
	metrics   metrics.Collector
	lastPlan  metrics.PlanMetric
}

type Option func(p *IQUCT)

func WithGamma(gamma float64) Option {
	return func(p *IQUCT) {
		p.gamma = gamma
	}
}

func WithRollouts(rollouts int) Option {
	return func(p *IQUCT) {
		p.rollouts = rollouts
	}
}

func WithMaxDepth(depth int) Option {
	return func(p *IQUCT) {
		p.maxDepth = depth
	}
}

// WithDynamicModel controls whether simulated transitions advance simulated
// time. The flag is passed unchanged to every transition call.
func WithDynamicModel(dynamic bool) Option {
	return func(p *IQUCT) {
		p.dynamic = dynamic
	}
}

func WithSeed(seed uint64) Option {
	return func(p *IQUCT) {
		p.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(p *IQUCT) {
		p.metrics = metrics.NewCollector()
	}
}

func New(space env.Space, options ...Option) *IQUCT {
	p := &IQUCT{ // Default values
		space:    space,
		gamma:    0.9,
		rollouts: 100,
		maxDepth: 100,
		dynamic:  true,
		rng:      rand.New(rand.NewSource(0)),
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(p)
	}
	if p.gamma <= 0 || p.gamma > 1 {
		panic("gamma must be in (0, 1]")
	}
	if p.rollouts <= 0 {
		panic("rollouts must be positive")
	}
	if p.maxDepth <= 0 {
		panic("max depth must be positive")
	}
	p.histories = &historyStore{}
	return p
}

// Act plans from the environment's current state and returns the action
// judged best at the current simulated time. The done flag reports whether
// the real environment has already terminated.
func (p *IQUCT) Act(e env.Environment, done bool) env.Action {
	p.metrics.Start(p.rollouts, p.maxDepth)

	root := newDecision(nil, e.GetState())
	for i := 0; i < p.rollouts; i++ {
		p.simulate(e, root, done)
	}
	p.refreshHistories(e, root)

	p.metrics.SetHistoryRecords(p.histories.size())
	p.lastPlan = p.metrics.Complete()

	if len(root.children) == 0 {
		panic("planner called on a terminal state")
	}
	action := bestChild(root).action
	log.Debug().
		Int("rollouts", p.rollouts).
		Int("histories", p.histories.size()).
		Msgf("planned action %v", action)
	return action
}

// LastPlan returns the metrics of the most recent Act call. Zero valued
// unless the planner was built with WithMetrics.
func (p *IQUCT) LastPlan() metrics.PlanMetric {
	return p.lastPlan
}
