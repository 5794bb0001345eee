package repository

import (
	"context"
	"errors"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormDistanceMatrixRepository implements the DistanceMatrixRepository interface
type GormDistanceMatrixRepository struct {
	db *gorm.DB
}

// NewGormDistanceMatrixRepository creates a new GORM distance matrix repository
func NewGormDistanceMatrixRepository(db *gorm.DB) repository.DistanceMatrixRepository {
	return &GormDistanceMatrixRepository{
		db: db,
	}
}

// DistanceMatrices GORM model for database mapping
type DistanceMatrices struct {
	ID                uint    `gorm:"primaryKey"`
	OriginNodeID      uint    `gorm:"column:origin_node_id;not null;uniqueIndex:idx_o_distance_matrix_pair,priority:1"`
	DestinationNodeID uint    `gorm:"column:destination_node_id;not null;uniqueIndex:idx_o_distance_matrix_pair,priority:2;index"`
	Distance          float64 `gorm:"column:distance;not null"`
	TravelTime        float64 `gorm:"column:travel_time;not null"`
	AuditColumns
}

// TableName overrides the default table name
func (DistanceMatrices) TableName() string {
	return "o_distance_matrix"
}

func (d *DistanceMatrices) toEntity() *entity.DistanceEntry {
	return &entity.DistanceEntry{
		ID:                d.ID,
		OriginNodeID:      d.OriginNodeID,
		DestinationNodeID: d.DestinationNodeID,
		Distance:          d.Distance,
		TravelTime:        d.TravelTime,
		Audit:             d.AuditColumns.toEntity(),
	}
}

func distanceEntities(rows []DistanceMatrices) []*entity.DistanceEntry {
	entities := make([]*entity.DistanceEntry, 0, len(rows))
	for i := range rows {
		entities = append(entities, rows[i].toEntity())
	}
	return entities
}

// Upsert inserts the pair or overwrites the row already stored for it.
// A soft-deleted row for the pair is revived.
func (r *GormDistanceMatrixRepository) Upsert(ctx context.Context, entry *entity.DistanceEntry) error {
	actor := entry.LastUpdatedBy
	if actor == "" {
		actor = entry.CreatedBy
	}
	actor = actorOrSystem(actor)
	if entry.CreatedBy == "" {
		entry.CreatedBy = actor
	}

	var saved DistanceMatrices
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing DistanceMatrices
		err := tx.Unscoped().
			Where("origin_node_id = ? AND destination_node_id = ?", entry.OriginNodeID, entry.DestinationNodeID).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			saved = DistanceMatrices{
				OriginNodeID:      entry.OriginNodeID,
				DestinationNodeID: entry.DestinationNodeID,
				Distance:          entry.Distance,
				TravelTime:        entry.TravelTime,
				AuditColumns:      newAuditColumns(entry.Audit),
			}
			saved.LastUpdatedBy = actor
			return tx.Create(&saved).Error
		case err != nil:
			return err
		}

		err = tx.Unscoped().Model(&DistanceMatrices{}).
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"distance":        entry.Distance,
				"travel_time":     entry.TravelTime,
				"last_updated_by": actor,
				"is_active":       true,
				"deleted_at":      nil,
				"updated_at":      tx.NowFunc(),
			}).Error
		if err != nil {
			return err
		}
		return tx.First(&saved, existing.ID).Error
	})
	if err != nil {
		return translateError(err)
	}

	*entry = *saved.toEntity()
	return nil
}

// GetByID finds a distance entry by id
func (r *GormDistanceMatrixRepository) GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.DistanceEntry, error) {
	model, err := findByID[DistanceMatrices](ctx, r.db, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	return model.toEntity(), nil
}

// Get finds the live entry of an ordered node pair
func (r *GormDistanceMatrixRepository) Get(ctx context.Context, origin, destination uint) (*entity.DistanceEntry, error) {
	var model DistanceMatrices
	err := r.db.WithContext(ctx).
		Where("origin_node_id = ? AND destination_node_id = ?", origin, destination).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.toEntity(), nil
}

// List returns distance entries ordered by id
func (r *GormDistanceMatrixRepository) List(ctx context.Context, filter entity.ListFilter) ([]*entity.DistanceEntry, error) {
	var rows []DistanceMatrices
	if err := paged(r.db.WithContext(ctx), filter).Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	return distanceEntities(rows), nil
}

// ListFrom returns the live entries leaving origin ordered by destination
func (r *GormDistanceMatrixRepository) ListFrom(ctx context.Context, origin uint) ([]*entity.DistanceEntry, error) {
	var rows []DistanceMatrices
	err := r.db.WithContext(ctx).
		Where("origin_node_id = ?", origin).
		Order("destination_node_id").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	return distanceEntities(rows), nil
}

// ListAmong returns the live entries whose both ends are in nodeIDs
func (r *GormDistanceMatrixRepository) ListAmong(ctx context.Context, nodeIDs []uint) ([]*entity.DistanceEntry, error) {
	if len(nodeIDs) == 0 {
		return []*entity.DistanceEntry{}, nil
	}

	var rows []DistanceMatrices
	err := r.db.WithContext(ctx).
		Where("origin_node_id IN ? AND destination_node_id IN ?", nodeIDs, nodeIDs).
		Order("origin_node_id").Order("destination_node_id").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	return distanceEntities(rows), nil
}

// SoftDelete hides a distance entry
func (r *GormDistanceMatrixRepository) SoftDelete(ctx context.Context, id uint, actor string) error {
	return softDelete[DistanceMatrices](ctx, r.db, id, actor)
}

// Restore revives a soft-deleted distance entry
func (r *GormDistanceMatrixRepository) Restore(ctx context.Context, id uint, actor string) error {
	return restore[DistanceMatrices](ctx, r.db, id, actor)
}
