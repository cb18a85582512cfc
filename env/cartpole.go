package env

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// CartPole is a cart-pole balancing task with a reward cone that oscillates
// with simulated time: the pole must be kept inside an angular window whose
// center drifts sinusoidally, so the value of a (state, action) pair decays
// as simulated time passes.
//
// State layout: {x, xdot, theta, thetadot, time}.
type CartPole struct {
	gravity           float64
	massCart          float64
	massPole          float64
	poleHalfLen       float64
	forceMag          float64
	actions           int
	tau               float64
	xThreshold        float64
	thetaMag          float64 // max pole angle offset from the cone center
	oscillationMag    float64
	oscillationPeriod float64

	state []float64
	rng   *rand.Rand
}

func NewCartPole(seed uint64) *CartPole {
	c := &CartPole{
		gravity:           9.8,
		massCart:          1.0,
		massPole:          0.1,
		poleHalfLen:       0.5,
		forceMag:          10.0,
		actions:           3,
		tau:               0.02,
		xThreshold:        2.4,
		thetaMag:          12 * 2 * math.Pi / 360,
		oscillationMag:    18 * 2 * math.Pi / 360,
		oscillationPeriod: 2,
		rng:               rand.New(rand.NewSource(seed)),
	}
	c.Reset()
	return c
}

// Reset draws a fresh initial state near the balance point at time zero.
func (c *CartPole) Reset() State {
	s := make([]float64, 5)
	for i := 0; i < 4; i++ {
		s[i] = c.rng.Float64()*0.1 - 0.05
	}
	c.state = s
	return s
}

func (c *CartPole) GetState() State { return c.state }

func (c *CartPole) ActionSpace() Space { return Discrete{N: c.actions} }

func (c *CartPole) Tau() float64 { return c.tau }

// Equal compares the four physical state components with a relative
// tolerance; simulated time is excluded.
func (c *CartPole) Equal(s1, s2 State) bool {
	a, b := s1.([]float64), s2.([]float64)
	for i := 0; i < 4; i++ {
		if !isClose(a[i], b[i], 1e-5) {
			return false
		}
	}
	return true
}

func isClose(a, b, relTol float64) bool {
	return math.Abs(a-b) <= relTol*math.Max(math.Abs(a), math.Abs(b))
}

func (c *CartPole) Transition(state State, action Action, dynamic bool) (State, float64, bool) {
	s := state.([]float64)
	x, xdot, theta, thetadot, time := s[0], s[1], s[2], s[3], s[4]

	force := -c.forceMag + float64(action[0])*2*c.forceMag/float64(c.actions-1)
	costheta := math.Cos(theta)
	sintheta := math.Sin(theta)
	totalMass := c.massCart + c.massPole
	poleMassLen := c.massPole * c.poleHalfLen

	temp := (force + poleMassLen*thetadot*thetadot*sintheta) / totalMass
	thetaacc := (c.gravity*sintheta - costheta*temp) /
		(c.poleHalfLen * (4.0/3.0 - c.massPole*costheta*costheta/totalMass))
	xacc := temp - poleMassLen*thetaacc*costheta/totalMass

	x += c.tau * xdot
	xdot += c.tau * xacc
	theta += c.tau * thetadot
	thetadot += c.tau * thetaacc
	if dynamic {
		time += c.tau
	}
	next := []float64{x, xdot, theta, thetadot, time}

	// The cone center oscillates with simulated time.
	delta := c.oscillationMag * math.Sin(2*math.Pi*time/c.oscillationPeriod)
	terminal := x < -c.xThreshold || x > c.xThreshold ||
		theta < -c.thetaMag+delta || theta > c.thetaMag+delta

	reward := 1.0
	if terminal {
		reward = 0.0
	}
	return next, reward, terminal
}

// Step advances the environment's own state with simulated time flowing.
// Only drivers call Step; the planner works through Transition.
func (c *CartPole) Step(action Action) (State, float64, bool) {
	if !c.ActionSpace().Contains(action) {
		panic(fmt.Sprintf("action %v outside action space", action))
	}
	next, reward, terminal := c.Transition(c.state, action, true)
	c.state = next.([]float64)
	return next, reward, terminal
}
