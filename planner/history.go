package planner

import (
	"dyna/env"
)

// observation is one cross-call data point for a (state, action) pair: the
// snapshot value measured for it, and the simulated duration that had
// elapsed when it was measured.
type observation struct {
	value    float64
	duration float64
}

// record collects the observations of one (state, action) pair. Records are
// only ever appended to, never merged.
type record struct {
	state        env.State
	action       env.Action
	observations []observation
}

// historyStore is the planner-owned collection of records. It grows for the
// planner's whole lifetime and is mutated only by the refresh walk at the
// end of each Act call.
type historyStore struct {
	records []*record
}

// lookup returns the first record matching (state, action) under the
// environment's equality operator, or nil. First-match semantics are load
// bearing: a non-transitive equality operator may leave several candidate
// records, and later ones must stay unreachable.
func (h *historyStore) lookup(e env.Environment, state env.State, action env.Action) *record {
	for _, r := range h.records {
		if r.action.Equal(action) && e.Equal(r.state, state) {
			return r
		}
	}
	return nil
}

// upsert appends an observation to the first matching record, or creates a
// new record if none matches.
func (h *historyStore) upsert(e env.Environment, state env.State, action env.Action, value, duration float64) {
	obs := observation{value: value, duration: duration}
	if r := h.lookup(e, state, action); r != nil {
		r.observations = append(r.observations, obs)
		return
	}
	h.records = append(h.records, &record{
		state:        state,
		action:       action,
		observations: []observation{obs},
	})
}

func (h *historyStore) size() int {
	return len(h.records)
}
