package planner

import (
	"testing"

	"dyna/env"

	"github.com/stretchr/testify/require"
)

// looseEnv considers every pair of states equal, the worst case for
// first-match semantics.
type looseEnv struct{ bandit }

func (looseEnv) Equal(s1, s2 env.State) bool { return true }

func TestHistoryStoreUpsert(t *testing.T) {
	t.Run("appends to the first approximate match", func(t *testing.T) {
		h := &historyStore{}
		e := looseEnv{}

		h.upsert(e, 1, env.Action{0}, 0.5, 0)
		h.upsert(e, 2, env.Action{0}, 0.25, 1)

		require.Equal(t, 1, h.size(),
			"Two approximately equal (state, action) pairs should share one record")
		require.Equal(t, []observation{
			{value: 0.5, duration: 0},
			{value: 0.25, duration: 1},
		}, h.records[0].observations, "Second upsert should append, in order")
	})

	t.Run("distinct actions get distinct records", func(t *testing.T) {
		h := &historyStore{}
		e := looseEnv{}

		h.upsert(e, 1, env.Action{0}, 0.5, 0)
		h.upsert(e, 1, env.Action{1}, 0.25, 0)

		require.Equal(t, 2, h.size(), "Action mismatch should create a new record")
	})

	t.Run("distinct states get distinct records under strict equality", func(t *testing.T) {
		h := &historyStore{}
		e := bandit{}

		h.upsert(e, 1, env.Action{0}, 0.5, 0)
		h.upsert(e, 2, env.Action{0}, 0.25, 0)

		require.Equal(t, 2, h.size())
	})
}

func TestHistoryStoreLookup(t *testing.T) {
	t.Run("returns the first matching record", func(t *testing.T) {
		first := &record{state: 1, action: env.Action{0}}
		second := &record{state: 2, action: env.Action{0}}
		h := &historyStore{records: []*record{first, second}}

		got := h.lookup(looseEnv{}, 3, env.Action{0})

		require.Same(t, first, got,
			"Later records must stay unreachable when several could match")
	})

	t.Run("returns nil when nothing matches", func(t *testing.T) {
		h := &historyStore{records: []*record{{state: 1, action: env.Action{0}}}}
		require.Nil(t, h.lookup(bandit{}, 2, env.Action{0}))
	})
}
