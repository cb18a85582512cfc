package planner

import (
	"dyna/env"
)

// simulate runs one rollout: selection down the existing tree, expansion of
// at most one new decision node, a default-policy evaluation, and discounted
// backpropagation of the resulting estimate.
func (p *IQUCT) simulate(e env.Environment, root *decision, done bool) {
	// Immediate rewards collected at chance nodes along the selected path,
	// consumed most-recent-first during backpropagation.
	rewards := make([]float64, 0, p.maxDepth+1)
	terminal := done

	// Selection. Walk down until reaching either an unexplored chance child,
	// a chance node that sampled a fresh outcome, or a terminal leaf.
	var leaf *chance
	var sampled env.State
	expandOutcome := false

	d := root
	if len(root.children) > 0 {
	selection:
		for {
			if len(d.children) == 0 {
				// Terminal state reached in an earlier rollout.
				break
			}
			if d.explored < len(d.children) {
				leaf = d.children[d.explored]
				d.explored++
				break
			}
			c := bestChild(d)
			var reward float64
			sampled, reward, terminal = e.Transition(d.state, c.action, p.dynamic)
			rewards = append(rewards, reward)
			if len(c.children) == 0 {
				leaf = c
				expandOutcome = true
				break
			}
			for _, child := range c.children {
				if e.Equal(child.state, sampled) {
					d = child
					continue selection
				}
			}
			leaf = c
			expandOutcome = true
			break
		}
	}

	// Expansion. A chance node with a fresh outcome grows a decision child;
	// a non-terminal decision leaf grows its full set of chance children.
	var nd *decision
	if expandOutcome {
		nd = newDecision(leaf, sampled)
		leaf.children = append(leaf.children, nd)
		p.metrics.AddExpansion()
	} else if leaf == nil {
		nd = d // fresh root, or a terminal decision node revisited
	}

	// aborted marks a leaf whose transition reward is still pending on the
	// stack: the reward must be folded in before the first value is recorded.
	aborted := false
	if nd != nil {
		if terminal {
			// Terminal states are not given chance children.
			if nd.parent == nil {
				return // planning from a terminal root
			}
			leaf = nd.parent
			aborted = true
		} else {
			actions := p.space.Enumerate()
			children := make([]*chance, len(actions))
			for i, a := range actions {
				children[i] = newChance(nd, a, p.histories.lookup(e, nd.state, a))
				p.metrics.AddExpansion()
			}
			// Shuffle so greedy ties do not favor the enumeration order.
			p.rng.Shuffle(len(children), func(i, j int) {
				children[i], children[j] = children[j], children[i]
			})
			nd.children = children
			nd.explored++
			leaf = children[0]
		}
	}

	// Evaluation. Play the leaf's own action once, then the uniform-random
	// default policy until termination or the depth horizon.
	estimate := 0.0
	if !terminal {
		state := leaf.parent.state
		action := leaf.action
		discount := 1.0
		for t := 1; ; t++ {
			var reward float64
			state, reward, terminal = e.Transition(state, action, p.dynamic)
			estimate += reward * discount
			discount *= p.gamma
			if terminal {
				p.metrics.AddFullEvaluation()
				break
			}
			if leaf.depth+t > p.maxDepth {
				break
			}
			action = p.space.Sample(p.rng)
		}
	}

	// Backpropagation. Append the running estimate at each chance node on
	// the path, bootstrapping one recorded reward per level on the way up.
	if aborted && len(rewards) > 0 {
		estimate = rewards[len(rewards)-1] + p.gamma*estimate
		rewards = rewards[:len(rewards)-1]
	}
	for node := leaf; node != nil; node = node.parent.parent {
		node.returns = append(node.returns, estimate)
		if n := len(rewards); n > 0 {
			estimate = rewards[n-1] + p.gamma*estimate
			rewards = rewards[:n-1]
		}
		node.parent.visits++
	}
}

// refreshHistories walks the whole tree and records one observation per
// visited chance node: its snapshot value at the simulated duration of its
// depth. The walk deliberately revisits the entire tree, not only nodes
// touched by the latest rollouts.
func (p *IQUCT) refreshHistories(e env.Environment, node *decision) {
	for _, child := range node.children {
		if len(child.returns) == 0 {
			continue
		}
		duration := float64(child.depth) * e.Tau()
		p.histories.upsert(e, node.state, child.action, snapshotValue(child), duration)
		for _, grandchild := range child.children {
			p.refreshHistories(e, grandchild)
		}
	}
}
