package artifact

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_SaveGetIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	data := []byte("hello")
	require.NoError(t, store.Save(ctx, "s1", "a1", data))

	data[0] = 'H'
	out, err := store.Get(ctx, "s1", "a1")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))

	out[0] = 'x'
	out2, err := store.Get(ctx, "s1", "a1")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out2))
}

func TestInMemoryStore_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.Save(ctx, "s1", "b", []byte("2")))
	require.NoError(t, store.Save(ctx, "s1", "a", []byte("1")))

	ids, err := store.List(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, store.Delete(ctx, "s1", "a"))
	_, err = store.Get(ctx, "s1", "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "s1", "a"), ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "nope", "a"), ErrNotFound)

	ids, err = store.List(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestInMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := NewInMemoryStore()

	assert.ErrorIs(t, store.Save(ctx, "s", "a", nil), context.Canceled)
	_, err := store.List(ctx, "s")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("a%d", i)
			assert.NoError(t, store.Save(ctx, "s", id, []byte(id)))
			_, err := store.Get(ctx, "s", id)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	ids, err := store.List(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, ids, 50)
}
