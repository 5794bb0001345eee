package repository

import (
	"context"
	"testing"
	"time"

	"napo-service/internal/domain/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*miniredis.Miniredis, *RedisDistanceCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisDistanceCache(client, time.Minute).(*RedisDistanceCache)
}

func TestRedisDistanceCache(t *testing.T) {
	ctx := context.Background()
	mr, cache := newTestCache(t)

	if _, hit, err := cache.Get(ctx, 1, 2); err != nil || hit {
		t.Fatalf("empty cache Get() = hit %v, err %v", hit, err)
	}

	entry := &entity.DistanceEntry{ID: 7, OriginNodeID: 1, DestinationNodeID: 2, Distance: 3.5, TravelTime: 240}
	if err := cache.Set(ctx, entry); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("napo:distance:1:2") {
		t.Fatal("key not written")
	}
	if ttl := mr.TTL("napo:distance:1:2"); ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", ttl)
	}

	got, hit, err := cache.Get(ctx, 1, 2)
	if err != nil || !hit {
		t.Fatalf("Get() = hit %v, err %v", hit, err)
	}
	if got.ID != 7 || got.Distance != 3.5 || got.TravelTime != 240 {
		t.Errorf("cached entry = %+v", got)
	}

	if err := cache.Invalidate(ctx, 1, 2); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := cache.Get(ctx, 1, 2); hit {
		t.Error("invalidated entry still cached")
	}

	if err := cache.Set(ctx, entry); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Minute)
	if _, hit, _ := cache.Get(ctx, 1, 2); hit {
		t.Error("expired entry still cached")
	}
}

func TestRedisDistanceCacheSetIfAbsent(t *testing.T) {
	ctx := context.Background()
	mr, cache := newTestCache(t)

	newer := &entity.DistanceEntry{ID: 7, OriginNodeID: 1, DestinationNodeID: 2, Distance: 99}
	stored, err := cache.SetIfAbsent(ctx, newer)
	if err != nil || !stored {
		t.Fatalf("SetIfAbsent() on empty key = %v, %v", stored, err)
	}
	if ttl := mr.TTL("napo:distance:1:2"); ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", ttl)
	}

	older := &entity.DistanceEntry{ID: 7, OriginNodeID: 1, DestinationNodeID: 2, Distance: 10}
	stored, err = cache.SetIfAbsent(ctx, older)
	if err != nil || stored {
		t.Fatalf("SetIfAbsent() over a value = %v, %v", stored, err)
	}
	got, hit, err := cache.Get(ctx, 1, 2)
	if err != nil || !hit || got.Distance != 99 {
		t.Errorf("Get() = %+v, hit %v, err %v; want the first value", got, hit, err)
	}
}

func TestRedisDistanceCacheDropsCorruptValues(t *testing.T) {
	ctx := context.Background()
	mr, cache := newTestCache(t)

	if err := mr.Set("napo:distance:3:4", "not json"); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := cache.Get(ctx, 3, 4); hit || err != nil {
		t.Fatalf("corrupt value Get() = hit %v, err %v", hit, err)
	}
	if mr.Exists("napo:distance:3:4") {
		t.Error("corrupt value not removed")
	}
}

func TestRedisDistanceCacheReportsOutage(t *testing.T) {
	mr, cache := newTestCache(t)
	mr.Close()

	if err := cache.Ping(context.Background()); err == nil {
		t.Error("Ping() should fail when redis is down")
	}
	if _, _, err := cache.Get(context.Background(), 1, 2); err == nil {
		t.Error("Get() should fail when redis is down")
	}
}

func TestNoopAuditRepository(t *testing.T) {
	repo := NewNoopAuditRepository()
	if err := repo.Record(context.Background(), &entity.AuditEvent{Entity: entity.EntityZone, EntityID: 1}); err != nil {
		t.Fatal(err)
	}
	events, err := repo.ListByEntity(context.Background(), entity.EntityZone, 1, 10)
	if err != nil || len(events) != 0 {
		t.Errorf("ListByEntity() = %v, %v", events, err)
	}
	if clampAuditLimit(0) != defaultAuditLimit || clampAuditLimit(10000) != maxAuditLimit || clampAuditLimit(5) != 5 {
		t.Error("clampAuditLimit mismatch")
	}
}
