package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/layer-3/walletauth/core"
	"github.com/layer-3/walletauth/ports"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (ports.NonceStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func eachStore(t *testing.T, fn func(t *testing.T, s ports.NonceStore)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore())
	})
	t.Run("redis", func(t *testing.T) {
		s, _ := newRedisStore(t)
		fn(t, s)
	})
}

func TestStore_PutTake(t *testing.T) {
	eachStore(t, func(t *testing.T, s ports.NonceStore) {
		ctx := context.Background()
		expires := time.UnixMilli(1_700_000_300_000)

		require.NoError(t, s.Put(ctx, "addr", core.NonceRecord{Nonce: "n1", ExpiresAt: expires}, 5*time.Minute))

		rec, found, err := s.Take(ctx, "addr")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "n1", rec.Nonce)
		assert.True(t, expires.Equal(rec.ExpiresAt))

		_, found, err = s.Take(ctx, "addr")
		require.NoError(t, err)
		assert.False(t, found, "record must be gone after take")
	})
}

func TestStore_PutReplaces(t *testing.T) {
	eachStore(t, func(t *testing.T, s ports.NonceStore) {
		ctx := context.Background()
		expires := time.UnixMilli(1_700_000_300_000)

		require.NoError(t, s.Put(ctx, "addr", core.NonceRecord{Nonce: "old", ExpiresAt: expires}, time.Minute))
		require.NoError(t, s.Put(ctx, "addr", core.NonceRecord{Nonce: "new", ExpiresAt: expires}, time.Minute))

		rec, found, err := s.Take(ctx, "addr")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "new", rec.Nonce)
	})
}

func TestStore_AddressesAreIndependent(t *testing.T) {
	eachStore(t, func(t *testing.T, s ports.NonceStore) {
		ctx := context.Background()

		require.NoError(t, s.Put(ctx, "a", core.NonceRecord{Nonce: "na"}, time.Minute))
		require.NoError(t, s.Put(ctx, "b", core.NonceRecord{Nonce: "nb"}, time.Minute))

		rec, found, err := s.Take(ctx, "b")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "nb", rec.Nonce)

		rec, found, err = s.Take(ctx, "a")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "na", rec.Nonce)
	})
}

func TestStore_ConcurrentTake(t *testing.T) {
	eachStore(t, func(t *testing.T, s ports.NonceStore) {
		ctx := context.Background()
		require.NoError(t, s.Put(ctx, "addr", core.NonceRecord{Nonce: "n"}, time.Minute))

		const workers = 32
		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			found int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, ok, err := s.Take(ctx, "addr")
				assert.NoError(t, err)
				if ok {
					mu.Lock()
					found++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, found)
	})
}

func TestRedisStore_KeyExpires(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "addr", core.NonceRecord{Nonce: "n"}, 5*time.Minute))
	assert.Equal(t, 5*time.Minute, mr.TTL("walletauth:nonce:addr"))

	mr.FastForward(5*time.Minute + time.Second)

	_, found, err := s.Take(ctx, "addr")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_CorruptRecord(t *testing.T) {
	s, mr := newRedisStore(t)
	require.NoError(t, mr.Set("walletauth:nonce:addr", "not json"))

	_, found, err := s.Take(context.Background(), "addr")
	assert.Error(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists("walletauth:nonce:addr"), "corrupt record is still removed")
}

func TestMemoryStore_Len(t *testing.T) {
	s := NewMemoryStore().(*MemoryStore)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "a", core.NonceRecord{Nonce: "1"}, time.Minute))
	require.NoError(t, s.Put(ctx, "a", core.NonceRecord{Nonce: "2"}, time.Minute))
	assert.Equal(t, 1, s.Len())

	_, _, _ = s.Take(ctx, "a")
	assert.Equal(t, 0, s.Len())
}
