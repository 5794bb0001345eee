package repository

import (
	"context"

	"napo-service/internal/domain/entity"
)

// DistanceMatrixRepository defines the interface for node-to-node distance operations
type DistanceMatrixRepository interface {
	SoftDeleter
	// Upsert inserts the pair or overwrites the existing row for it, reviving it if deleted
	Upsert(ctx context.Context, entry *entity.DistanceEntry) error
	GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.DistanceEntry, error)
	Get(ctx context.Context, origin, destination uint) (*entity.DistanceEntry, error)
	List(ctx context.Context, filter entity.ListFilter) ([]*entity.DistanceEntry, error)
	ListFrom(ctx context.Context, origin uint) ([]*entity.DistanceEntry, error)
	ListAmong(ctx context.Context, nodeIDs []uint) ([]*entity.DistanceEntry, error)
}

// DistanceCache is a read-through cache in front of the distance matrix
type DistanceCache interface {
	Get(ctx context.Context, origin, destination uint) (*entity.DistanceEntry, bool, error)
	Set(ctx context.Context, entry *entity.DistanceEntry) error
	// SetIfAbsent caches entry unless the pair already holds a value; the
	// bool reports whether it was stored
	SetIfAbsent(ctx context.Context, entry *entity.DistanceEntry) (bool, error)
	Invalidate(ctx context.Context, origin, destination uint) error
	Ping(ctx context.Context) error
}
