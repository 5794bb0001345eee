package usecase

import (
	"context"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"
	"napo-service/pkg/logger"
)

// AuditService reads the mutation history of planning records
type AuditService struct {
	audit  repository.AuditRepository
	logger logger.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(audit repository.AuditRepository, logger logger.Logger) *AuditService {
	return &AuditService{audit: audit, logger: logger}
}

// History returns the newest events of one record
func (s *AuditService) History(ctx context.Context, entityName string, id uint, limit int) ([]*entity.AuditEvent, error) {
	if !entity.IsAuditedEntity(entityName) {
		return nil, entity.NewValidationError("entity", "unknown entity %q", entityName)
	}
	events, err := s.audit.ListByEntity(ctx, entityName, id, limit)
	if err != nil {
		s.logger.Error("Failed to read audit history", "entity", entityName, "id", id, "error", err)
		return nil, err
	}
	return events, nil
}
