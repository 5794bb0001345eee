package repository

import (
	"context"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormVehicleRepository implements the VehicleRepository interface
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GORM vehicle repository
func NewGormVehicleRepository(db *gorm.DB) repository.VehicleRepository {
	return &GormVehicleRepository{
		db: db,
	}
}

// Vehicles GORM model for database mapping
type Vehicles struct {
	ID            uint     `gorm:"primaryKey"`
	VehicleName   string   `gorm:"column:vehicle_name;not null"`
	Capacity      *float64 `gorm:"column:capacity"`
	TransporterID *uint    `gorm:"column:transporter_id;index"`
	AuditColumns

	Assignments []VehicleAssignments `gorm:"foreignKey:VehicleID"`
}

// TableName overrides the default table name
func (Vehicles) TableName() string {
	return "t_vehicles"
}

func (v *Vehicles) toEntity() *entity.Vehicle {
	return &entity.Vehicle{
		ID:            v.ID,
		VehicleName:   v.VehicleName,
		Capacity:      v.Capacity,
		TransporterID: v.TransporterID,
		Audit:         v.AuditColumns.toEntity(),
	}
}

// Create inserts a new vehicle into the database
func (r *GormVehicleRepository) Create(ctx context.Context, vehicle *entity.Vehicle) error {
	model := Vehicles{
		VehicleName:   vehicle.VehicleName,
		Capacity:      vehicle.Capacity,
		TransporterID: vehicle.TransporterID,
		AuditColumns:  newAuditColumns(vehicle.Audit),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateError(err)
	}

	*vehicle = *model.toEntity()
	return nil
}

// GetByID finds a vehicle by id
func (r *GormVehicleRepository) GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.Vehicle, error) {
	model, err := findByID[Vehicles](ctx, r.db, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	return model.toEntity(), nil
}

// List returns vehicles ordered by id, optionally of one transporter
func (r *GormVehicleRepository) List(ctx context.Context, filter entity.VehicleFilter) ([]*entity.Vehicle, error) {
	var vehicles []Vehicles
	query := paged(r.db.WithContext(ctx), filter.ListFilter)
	if filter.TransporterID != nil {
		query = query.Where("transporter_id = ?", *filter.TransporterID)
	}
	if err := query.Find(&vehicles).Error; err != nil {
		return nil, translateError(err)
	}

	entities := make([]*entity.Vehicle, 0, len(vehicles))
	for i := range vehicles {
		entities = append(entities, vehicles[i].toEntity())
	}
	return entities, nil
}

// Update overwrites the fields of a live vehicle
func (r *GormVehicleRepository) Update(ctx context.Context, vehicle *entity.Vehicle) error {
	model := Vehicles{
		ID:            vehicle.ID,
		VehicleName:   vehicle.VehicleName,
		Capacity:      vehicle.Capacity,
		TransporterID: vehicle.TransporterID,
		AuditColumns: AuditColumns{
			LastUpdatedBy: actorOrSystem(vehicle.LastUpdatedBy),
		},
	}
	return updateColumns(ctx, r.db, &model, vehicle.ID, "vehicle_name", "capacity", "transporter_id")
}

// SoftDelete hides a vehicle
func (r *GormVehicleRepository) SoftDelete(ctx context.Context, id uint, actor string) error {
	return softDelete[Vehicles](ctx, r.db, id, actor)
}

// Restore revives a soft-deleted vehicle
func (r *GormVehicleRepository) Restore(ctx context.Context, id uint, actor string) error {
	return restore[Vehicles](ctx, r.db, id, actor)
}
