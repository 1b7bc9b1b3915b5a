package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dentalworks/dental-clinic-platform/internal/annotations"
	"github.com/dentalworks/dental-clinic-platform/internal/dental"
	"github.com/dentalworks/dental-clinic-platform/internal/records"
)

const defaultSnapshotTTL = 15 * time.Minute

// Snapshot is the cached read-on-open payload for one (patient, system) chart.
type Snapshot struct {
	Records     []records.ToothRecord    `json:"records"`
	Annotations []annotations.Annotation `json:"annotations"`
	CachedAt    time.Time                `json:"cachedAt"`
}

// SnapshotCache keeps recent chart loads in Redis so reopening a chart does
// not re-query the database. Entries expire on TTL and are invalidated on
// every mutation.
type SnapshotCache struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

func NewSnapshotCache(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *SnapshotCache {
	if client == nil {
		panic("chart: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	if tracer == nil {
		tracer = otel.Tracer("dental.internal.chart.cache")
	}
	return &SnapshotCache{redis: client, ttl: ttl, tracer: tracer}
}

// Save stores a snapshot, stamping CachedAt.
func (c *SnapshotCache) Save(ctx context.Context, patientID string, system dental.System, snap *Snapshot) error {
	ctx, span := c.tracer.Start(ctx, "chart.cache_save")
	defer span.End()

	snap.CachedAt = time.Now().UTC()
	data, err := json.Marshal(snap)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("chart: failed to marshal snapshot: %w", err)
	}
	if err := c.redis.Set(ctx, snapshotKey(patientID, system), data, c.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("chart: failed to cache snapshot: %w", err)
	}
	return nil
}

// Load returns the cached snapshot, or (nil, nil) on a cache miss.
func (c *SnapshotCache) Load(ctx context.Context, patientID string, system dental.System) (*Snapshot, error) {
	ctx, span := c.tracer.Start(ctx, "chart.cache_load")
	defer span.End()

	data, err := c.redis.Get(ctx, snapshotKey(patientID, system)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("chart: failed to load snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("chart: corrupt snapshot: %w", err)
	}
	return &snap, nil
}

// Invalidate drops the snapshots for all numbering systems of one patient;
// a mutation under one system changes what the others render.
func (c *SnapshotCache) Invalidate(ctx context.Context, patientID string) error {
	ctx, span := c.tracer.Start(ctx, "chart.cache_invalidate")
	defer span.End()

	keys := []string{
		snapshotKey(patientID, dental.SystemUniversal),
		snapshotKey(patientID, dental.SystemFDI),
		snapshotKey(patientID, dental.SystemPalmer),
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("chart: failed to invalidate snapshots: %w", err)
	}
	return nil
}

func snapshotKey(patientID string, system dental.System) string {
	return fmt.Sprintf("chart:%s:%s", patientID, system)
}
