package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chat2purchase/shopassist/internal/adapters/metrics"
)

func TestMemoryStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10, time.Hour)

	_, found, err := store.Get(ctx, "sess_1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, "sess_1", "resp_1"))
	require.NoError(t, store.Put(ctx, "sess_1", "resp_2"))

	token, found, err := store.Get(ctx, "sess_1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "resp_2", token, "last write wins")
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2, time.Hour)

	require.NoError(t, store.Put(ctx, "a", "1"))
	require.NoError(t, store.Put(ctx, "b", "2"))
	_, _, _ = store.Get(ctx, "a")
	require.NoError(t, store.Put(ctx, "c", "3"))

	_, found, _ := store.Get(ctx, "b")
	assert.False(t, found)
	_, found, _ = store.Get(ctx, "a")
	assert.True(t, found)
	assert.Equal(t, 2, store.Len())
}

func TestMemoryStore_Expires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0, 20*time.Millisecond)

	require.NoError(t, store.Put(ctx, "sess_1", "resp_1"))
	time.Sleep(60 * time.Millisecond)

	_, found, err := store.Get(ctx, "sess_1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_ConcurrentFirstPutsCountOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(1, time.Hour)
	before := testutil.ToFloat64(metrics.MemorySessionsActive)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Put(ctx, "sess_same", fmt.Sprintf("resp_%d", i))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.MemorySessionsActive))

	// evicting the only entry for a new one leaves the count unchanged
	require.NoError(t, store.Put(ctx, "sess_other", "resp_x"))
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.MemorySessionsActive))
}
