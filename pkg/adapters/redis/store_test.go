package redis_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/sinew/pkg/adapters/redis"
	"github.com/aretw0/sinew/pkg/domain"
	"github.com/aretw0/sinew/pkg/ports"
	"github.com/aretw0/sinew/pkg/vecmath"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	store := redis.NewFromClient(client)
	ports.RunCurveStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	err := store.Save(ctx, "take-01", domain.CurveDocument{"circle1": {OverrideColor: 13}})
	assert.NoError(t, err)

	names, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, names, "take-01")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "take-01")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	// the index is pruned against wall-clock time
	time.Sleep(1200 * time.Millisecond)

	names, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, names)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, "take-01", domain.CurveDocument{})
	assert.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:take-01"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")
}

func TestRedisStore_LoadSetsPath(t *testing.T) {
	_, client := setup(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "doc", domain.CurveDocument{
		"rig|ctrl": {Points: []vecmath.Vector3{vecmath.UnitX}},
	}))
	doc, err := store.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, "rig|ctrl", doc["rig|ctrl"].Path)
}

func TestRedisStore_Merge(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	require.NoError(t, store.Merge(ctx, "doc", domain.CurveDocument{"a": {OverrideColor: 1}}))
	require.NoError(t, store.Merge(ctx, "doc", domain.CurveDocument{"b": {OverrideColor: 2}, "a": {OverrideColor: 3}}))

	doc, err := store.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Len(t, doc, 2)
	assert.Equal(t, 3, doc["a"].OverrideColor)
	assert.Equal(t, 2, doc["b"].OverrideColor)
	assert.False(t, mr.Exists("sinew:curves:lock:doc"), "lock is released")
}

func TestRedisStore_ConcurrentMerge(t *testing.T) {
	_, client := setup(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	paths := []string{"a", "b", "c", "d", "e"}
	var wg sync.WaitGroup
	for i, p := range paths {
		wg.Add(1)
		go func(p string, color int) {
			defer wg.Done()
			assert.NoError(t, store.Merge(ctx, "doc", domain.CurveDocument{p: {OverrideColor: color}}))
		}(p, i)
	}
	wg.Wait()

	doc, err := store.Load(ctx, "doc")
	require.NoError(t, err)
	assert.Len(t, doc, len(paths), "no merge was lost")
}

func TestLocker_RespectsContext(t *testing.T) {
	_, client := setup(t)
	l := redis.NewLocker(client, "test:")

	unlock, err := l.Lock(context.Background(), "k", time.Minute)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(context.Background()))
	unlock2, err := l.Lock(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	assert.NoError(t, unlock2(context.Background()))
}
