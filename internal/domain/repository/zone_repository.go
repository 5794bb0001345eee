package repository

import (
	"context"

	"napo-service/internal/domain/entity"
)

// ZoneRepository defines the interface for zone operations
type ZoneRepository interface {
	SoftDeleter
	Create(ctx context.Context, zone *entity.Zone) error
	GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.Zone, error)
	List(ctx context.Context, filter entity.ZoneFilter) ([]*entity.Zone, error)
	Update(ctx context.Context, zone *entity.Zone) error
}
