package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"napo-service/internal/domain/entity"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// AuditColumns are the bookkeeping columns shared by every table
type AuditColumns struct {
	CreatedAt     time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;not null"`
	CreatedBy     string         `gorm:"column:created_by"`
	LastUpdatedBy string         `gorm:"column:last_updated_by"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true"`
}

func newAuditColumns(a entity.Audit) AuditColumns {
	actor := a.CreatedBy
	if actor == "" {
		actor = entity.SystemActor
	}
	return AuditColumns{
		CreatedBy:     actor,
		LastUpdatedBy: actor,
		IsActive:      true,
	}
}

func (c AuditColumns) toEntity() entity.Audit {
	a := entity.Audit{
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
		CreatedBy:     c.CreatedBy,
		LastUpdatedBy: c.LastUpdatedBy,
		IsActive:      c.IsActive,
	}
	if c.DeletedAt.Valid {
		deletedAt := c.DeletedAt.Time
		a.DeletedAt = &deletedAt
	}
	return a
}

func actorOrSystem(actor string) string {
	if actor == "" {
		return entity.SystemActor
	}
	return actor
}

// scoped applies the soft-delete visibility of a read
func scoped(db *gorm.DB, includeDeleted bool) *gorm.DB {
	if includeDeleted {
		return db.Unscoped()
	}
	return db
}

// paged applies the visibility, ordering and paging of a list filter
func paged(db *gorm.DB, filter entity.ListFilter) *gorm.DB {
	filter = filter.Normalize()
	return scoped(db, filter.IncludeDeleted).
		Order("id").
		Limit(filter.Limit).
		Offset(filter.Offset)
}

func findByID[M any](ctx context.Context, db *gorm.DB, id uint, includeDeleted bool) (*M, error) {
	var model M
	if err := scoped(db.WithContext(ctx), includeDeleted).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &model, nil
}

// softDelete hides a live row. Deleting a missing or already deleted row reports ErrNotFound.
func softDelete[M any](ctx context.Context, db *gorm.DB, id uint, actor string) error {
	now := time.Now().UTC()
	result := db.WithContext(ctx).Model(new(M)).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at":      now,
			"is_active":       false,
			"last_updated_by": actorOrSystem(actor),
			"updated_at":      now,
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// restore revives a soft-deleted row. Restoring a live or missing row reports ErrNotFound.
func restore[M any](ctx context.Context, db *gorm.DB, id uint, actor string) error {
	result := db.WithContext(ctx).Unscoped().Model(new(M)).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]interface{}{
			"deleted_at":      nil,
			"is_active":       true,
			"last_updated_by": actorOrSystem(actor),
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// updateColumns writes the selected columns of a live row
func updateColumns(ctx context.Context, db *gorm.DB, model interface{}, id uint, columns ...string) error {
	result := db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		Select(append(columns, "last_updated_by", "updated_at")).
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// SQLSTATE codes raised by Postgres
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// translateError maps storage errors onto the domain errors
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return entity.ErrNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", entity.ErrReferenceNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", entity.ErrConflict, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", entity.ErrReferenceNotFound, pgErr.ConstraintName)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", entity.ErrConflict, pgErr.ConstraintName)
		case pgNotNullViolation, pgCheckViolation:
			return &entity.ValidationError{Field: pgErr.ColumnName, Message: pgErr.Message}
		}
	}

	// sqlite reports constraint failures only through the message text
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", entity.ErrReferenceNotFound, err)
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", entity.ErrConflict, err)
	}

	return err
}
