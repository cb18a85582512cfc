package env

import (
	"fmt"
	"math"
)

// Chain is a small non-stationary corridor task: cells 0..N-1, action 0
// steps left and action 1 steps right, the episode ends at either end, and
// the end that pays out swaps every half period of simulated time. It is the
// smallest environment that makes time-aware value inference matter.
//
// State layout: {position, time}.
type Chain struct {
	cells  int
	period float64

	state []float64
}

func NewChain(cells int, period float64) *Chain {
	if cells < 3 {
		panic("chain needs at least 3 cells")
	}
	c := &Chain{cells: cells, period: period}
	c.Reset()
	return c
}

// Reset places the walker in the middle cell at time zero.
func (c *Chain) Reset() State {
	c.state = []float64{float64(c.cells / 2), 0}
	return c.state
}

func (c *Chain) GetState() State { return c.state }

func (c *Chain) ActionSpace() Space { return Discrete{N: 2} }

func (c *Chain) Tau() float64 { return 1 }

// Equal compares positions only; two visits to the same cell at different
// simulated times are the same state.
func (c *Chain) Equal(s1, s2 State) bool {
	return s1.([]float64)[0] == s2.([]float64)[0]
}

// rewardRight reports whether the right end pays out at the given time.
func (c *Chain) rewardRight(time float64) bool {
	return math.Sin(2*math.Pi*time/c.period) >= 0
}

func (c *Chain) Transition(state State, action Action, dynamic bool) (State, float64, bool) {
	s := state.([]float64)
	pos, time := s[0], s[1]

	if action[0] == 0 {
		pos--
	} else {
		pos++
	}
	if dynamic {
		time++
	}
	next := []float64{pos, time}

	switch {
	case pos <= 0:
		reward := 0.0
		if !c.rewardRight(time) {
			reward = 1.0
		}
		return next, reward, true
	case pos >= float64(c.cells-1):
		reward := 0.0
		if c.rewardRight(time) {
			reward = 1.0
		}
		return next, reward, true
	default:
		return next, 0, false
	}
}

func (c *Chain) Step(action Action) (State, float64, bool) {
	if !c.ActionSpace().Contains(action) {
		panic(fmt.Sprintf("action %v outside action space", action))
	}
	next, reward, terminal := c.Transition(c.state, action, true)
	c.state = next.([]float64)
	return next, reward, terminal
}
