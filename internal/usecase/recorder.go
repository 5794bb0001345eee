package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"
	"napo-service/pkg/logger"
	"napo-service/pkg/metrics"
)

type actorKey struct{}

// WithActor attaches the identity of the caller to ctx
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, strings.TrimSpace(actor))
}

// ActorFromContext returns the caller identity, or the system actor when none is set
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(actorKey{}).(string); ok && actor != "" {
		return actor
	}
	return entity.SystemActor
}

// IsClientError reports whether err is caused by the request rather than the service
func IsClientError(err error) bool {
	return errors.Is(err, entity.ErrNotFound) ||
		errors.Is(err, entity.ErrReferenceNotFound) ||
		errors.Is(err, entity.ErrConflict) ||
		entity.IsValidationError(err)
}

// recorder counts and audits mutations for the services
type recorder struct {
	audit   repository.AuditRepository
	metrics *metrics.Metrics
	logger  logger.Logger
}

func newRecorder(audit repository.AuditRepository, m *metrics.Metrics, log logger.Logger) recorder {
	return recorder{audit: audit, metrics: m, logger: log}
}

// mutated records a persisted mutation. Audit failures are logged only.
func (r recorder) mutated(ctx context.Context, entityName string, id uint, action string, changes map[string]interface{}) {
	r.metrics.Mutation(entityName, action)

	event := &entity.AuditEvent{
		Entity:   entityName,
		EntityID: id,
		Action:   action,
		Actor:    ActorFromContext(ctx),
		At:       time.Now().UTC(),
		Changes:  changes,
	}
	if err := r.audit.Record(ctx, event); err != nil {
		r.metrics.Error("audit.record")
		r.logger.Warn("Failed to record audit event",
			"entity", entityName, "id", id, "action", action, "error", err)
	}
}

// failed counts and logs unexpected errors and passes every error through
func (r recorder) failed(operation string, err error) error {
	if err != nil && !IsClientError(err) {
		r.metrics.Error(operation)
		r.logger.Error("Operation failed", "operation", operation, "error", err)
	}
	return err
}

func (r recorder) softDelete(ctx context.Context, entityName string, repo repository.SoftDeleter, id uint) error {
	if err := repo.SoftDelete(ctx, id, ActorFromContext(ctx)); err != nil {
		return r.failed(entityName+".delete", err)
	}
	r.mutated(ctx, entityName, id, entity.ActionDelete, nil)
	return nil
}

func (r recorder) restore(ctx context.Context, entityName string, repo repository.SoftDeleter, id uint) error {
	if err := repo.Restore(ctx, id, ActorFromContext(ctx)); err != nil {
		return r.failed(entityName+".restore", err)
	}
	r.mutated(ctx, entityName, id, entity.ActionRestore, nil)
	return nil
}

// requireLive turns a missing or deleted parent into a reference error on field
func requireLive(field string, err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return &entity.ReferenceError{Field: field}
	}
	return err
}

// createAction tells a fresh insert from an overwrite after an upsert
func createAction(a entity.Audit) string {
	if a.CreatedAt.Equal(a.UpdatedAt) {
		return entity.ActionCreate
	}
	return entity.ActionUpdate
}
