package repository

import (
	"context"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormTransporterRepository implements the TransporterRepository interface
type GormTransporterRepository struct {
	db *gorm.DB
}

// NewGormTransporterRepository creates a new GORM transporter repository
func NewGormTransporterRepository(db *gorm.DB) repository.TransporterRepository {
	return &GormTransporterRepository{
		db: db,
	}
}

// Transporters GORM model for database mapping
type Transporters struct {
	ID            uint     `gorm:"primaryKey"`
	Name          string   `gorm:"column:name;not null"`
	BaseLatitude  *float64 `gorm:"column:base_latitude"`
	BaseLongitude *float64 `gorm:"column:base_longitude"`
	ZoneID        *uint    `gorm:"column:zone_id;index"`
	AuditColumns

	Vehicles []Vehicles `gorm:"foreignKey:TransporterID"`
}

// TableName overrides the default table name
func (Transporters) TableName() string {
	return "t_transporters"
}

func (t *Transporters) toEntity() *entity.Transporter {
	return &entity.Transporter{
		ID:            t.ID,
		Name:          t.Name,
		BaseLatitude:  t.BaseLatitude,
		BaseLongitude: t.BaseLongitude,
		ZoneID:        t.ZoneID,
		Audit:         t.AuditColumns.toEntity(),
	}
}

// Create inserts a new transporter into the database
func (r *GormTransporterRepository) Create(ctx context.Context, transporter *entity.Transporter) error {
	model := Transporters{
		Name:          transporter.Name,
		BaseLatitude:  transporter.BaseLatitude,
		BaseLongitude: transporter.BaseLongitude,
		ZoneID:        transporter.ZoneID,
		AuditColumns:  newAuditColumns(transporter.Audit),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateError(err)
	}

	*transporter = *model.toEntity()
	return nil
}

// GetByID finds a transporter by id
func (r *GormTransporterRepository) GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.Transporter, error) {
	model, err := findByID[Transporters](ctx, r.db, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	return model.toEntity(), nil
}

// List returns transporters ordered by id, optionally within one zone
func (r *GormTransporterRepository) List(ctx context.Context, filter entity.TransporterFilter) ([]*entity.Transporter, error) {
	var transporters []Transporters
	query := paged(r.db.WithContext(ctx), filter.ListFilter)
	if filter.ZoneID != nil {
		query = query.Where("zone_id = ?", *filter.ZoneID)
	}
	if err := query.Find(&transporters).Error; err != nil {
		return nil, translateError(err)
	}

	entities := make([]*entity.Transporter, 0, len(transporters))
	for i := range transporters {
		entities = append(entities, transporters[i].toEntity())
	}
	return entities, nil
}

// Update overwrites the fields of a live transporter
func (r *GormTransporterRepository) Update(ctx context.Context, transporter *entity.Transporter) error {
	model := Transporters{
		ID:            transporter.ID,
		Name:          transporter.Name,
		BaseLatitude:  transporter.BaseLatitude,
		BaseLongitude: transporter.BaseLongitude,
		ZoneID:        transporter.ZoneID,
		AuditColumns: AuditColumns{
			LastUpdatedBy: actorOrSystem(transporter.LastUpdatedBy),
		},
	}
	return updateColumns(ctx, r.db, &model, transporter.ID, "name", "base_latitude", "base_longitude", "zone_id")
}

// SoftDelete hides a transporter
func (r *GormTransporterRepository) SoftDelete(ctx context.Context, id uint, actor string) error {
	return softDelete[Transporters](ctx, r.db, id, actor)
}

// Restore revives a soft-deleted transporter
func (r *GormTransporterRepository) Restore(ctx context.Context, id uint, actor string) error {
	return restore[Transporters](ctx, r.db, id, actor)
}
