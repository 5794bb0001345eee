package repository

import (
	"context"

	"napo-service/internal/domain/entity"
)

// AuditRepository defines the interface for the mutation audit trail
type AuditRepository interface {
	Record(ctx context.Context, event *entity.AuditEvent) error
	ListByEntity(ctx context.Context, entityName string, entityID uint, limit int) ([]*entity.AuditEvent, error)
	Ping(ctx context.Context) error
}
