package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ragstream/core"
)

// Interface compliance (compile-time assertion)
var _ core.SessionStore = (*InMemoryStore)(nil)

func TestInMemoryStore_GetCreatesLazily(t *testing.T) {
	store := NewInMemoryStore()

	sess, err := store.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", sess.ID)
	assert.Empty(t, sess.GetTurns())

	sess.AddTurn(core.TurnRecord{ID: "mutated"})
	again, err := store.Get("s1")
	require.NoError(t, err)
	assert.Empty(t, again.GetTurns())
}

func TestInMemoryStore_LookupDoesNotCreate(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Lookup("typo")
	require.ErrorIs(t, err, core.ErrSessionNotFound)

	_, err = store.Lookup("typo")
	require.ErrorIs(t, err, core.ErrSessionNotFound)

	require.NoError(t, store.AppendTurn("s1", core.TurnRecord{ID: "t1"}))
	sess, err := store.Lookup("s1")
	require.NoError(t, err)
	assert.Len(t, sess.GetTurns(), 1)
}

func TestInMemoryStore_AppendAndClear(t *testing.T) {
	store := NewInMemoryStore()

	require.NoError(t, store.AppendTurn("s1", core.TurnRecord{ID: "t1", Question: "a", State: core.TurnComplete}))
	require.NoError(t, store.AppendTurn("s1", core.TurnRecord{ID: "t2", Question: "b", State: core.TurnError}))

	sess, err := store.Get("s1")
	require.NoError(t, err)
	turns := sess.GetTurns()
	require.Len(t, turns, 2)
	assert.Equal(t, "t1", turns[0].ID)
	last, ok := sess.LastTurn()
	require.True(t, ok)
	assert.Equal(t, core.TurnError, last.State)

	require.NoError(t, store.Clear("s1"))
	require.NoError(t, store.Clear("unknown"))
	sess, err = store.Get("s1")
	require.NoError(t, err)
	assert.Empty(t, sess.GetTurns())
}

func TestInMemoryStore_MaxTurns(t *testing.T) {
	store := NewInMemoryStore(func(o *Options) { o.MaxTurns = 3 })

	for i := 0; i < 5; i++ {
		require.NoError(t, store.AppendTurn("s1", core.TurnRecord{ID: fmt.Sprintf("t%d", i)}))
	}

	sess, err := store.Get("s1")
	require.NoError(t, err)
	turns := sess.GetTurns()
	require.Len(t, turns, 3)
	assert.Equal(t, "t2", turns[0].ID)
	assert.Equal(t, "t4", turns[2].ID)
}

func TestInMemoryStore_CreateAndDelete(t *testing.T) {
	store := NewInMemoryStore()

	sess, err := store.Create("")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)

	require.NoError(t, store.AppendTurn(sess.ID, core.TurnRecord{ID: "t1"}))
	sess, err = store.Create(sess.ID)
	require.NoError(t, err)
	assert.Empty(t, sess.GetTurns())

	store.Delete(sess.ID)
	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Empty(t, got.GetTurns())
}

func TestInMemoryStore_Concurrent(t *testing.T) {
	store := NewInMemoryStore(func(o *Options) { o.MaxTurns = 0 })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.AppendTurn("s", core.TurnRecord{ID: fmt.Sprint(i)}))
			_, err := store.Get("s")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	sess, err := store.Get("s")
	require.NoError(t, err)
	assert.Len(t, sess.GetTurns(), 20)
}
