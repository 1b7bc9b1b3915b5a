package chart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalworks/dental-clinic-platform/internal/dental"
	"github.com/dentalworks/dental-clinic-platform/internal/records"
)

func newTestCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSnapshotCache(client, time.Minute, nil), mr
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	snap := &Snapshot{
		Records: []records.ToothRecord{{
			ID:          "rec-1",
			PatientID:   "patient-1",
			ToothNumber: 14,
			System:      dental.SystemUniversal,
			Condition:   dental.ConditionCaries,
		}},
	}
	require.NoError(t, cache.Save(ctx, "patient-1", dental.SystemUniversal, snap))

	got, err := cache.Load(ctx, "patient-1", dental.SystemUniversal)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Records, 1)
	assert.Equal(t, dental.ConditionCaries, got.Records[0].Condition)
	assert.False(t, got.CachedAt.IsZero())
}

func TestSnapshotCacheMiss(t *testing.T) {
	cache, _ := newTestCache(t)

	got, err := cache.Load(context.Background(), "unknown", dental.SystemFDI)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotCacheScopedBySystem(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "patient-1", dental.SystemUniversal, &Snapshot{}))
	got, err := cache.Load(ctx, "patient-1", dental.SystemFDI)
	require.NoError(t, err)
	assert.Nil(t, got, "snapshot for one system must not serve another")
}

func TestSnapshotCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "patient-1", dental.SystemUniversal, &Snapshot{}))
	require.NoError(t, cache.Save(ctx, "patient-1", dental.SystemFDI, &Snapshot{}))
	require.NoError(t, cache.Invalidate(ctx, "patient-1"))

	for _, sys := range []dental.System{dental.SystemUniversal, dental.SystemFDI, dental.SystemPalmer} {
		got, err := cache.Load(ctx, "patient-1", sys)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestSnapshotCacheExpiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "patient-1", dental.SystemUniversal, &Snapshot{}))
	mr.FastForward(2 * time.Minute)

	got, err := cache.Load(ctx, "patient-1", dental.SystemUniversal)
	require.NoError(t, err)
	assert.Nil(t, got)
}
