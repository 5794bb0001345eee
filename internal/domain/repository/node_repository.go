package repository

import (
	"context"

	"napo-service/internal/domain/entity"
)

// NodeRepository defines the interface for network node operations
type NodeRepository interface {
	SoftDeleter
	Create(ctx context.Context, node *entity.Node) error
	GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.Node, error)
	List(ctx context.Context, filter entity.ListFilter) ([]*entity.Node, error)
	Update(ctx context.Context, node *entity.Node) error
}

// TimeWindowRepository defines the interface for node time window operations
type TimeWindowRepository interface {
	SoftDeleter
	Create(ctx context.Context, window *entity.TimeWindow) error
	GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.TimeWindow, error)
	ListByNode(ctx context.Context, nodeID uint, includeDeleted bool) ([]*entity.TimeWindow, error)
	Update(ctx context.Context, window *entity.TimeWindow) error
}
