package repository

import (
	"context"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormVehicleAssignmentRepository implements the VehicleAssignmentRepository interface
type GormVehicleAssignmentRepository struct {
	db *gorm.DB
}

// NewGormVehicleAssignmentRepository creates a new GORM vehicle assignment repository
func NewGormVehicleAssignmentRepository(db *gorm.DB) repository.VehicleAssignmentRepository {
	return &GormVehicleAssignmentRepository{
		db: db,
	}
}

// VehicleAssignments GORM model for database mapping.
// The partial unique index allows one live assignment per route and vehicle.
type VehicleAssignments struct {
	ID        uint `gorm:"primaryKey"`
	RouteID   uint `gorm:"column:route_id;not null;uniqueIndex:idx_t_vehicle_assignments_live,priority:1,where:deleted_at IS NULL"`
	VehicleID uint `gorm:"column:vehicle_id;not null;index;uniqueIndex:idx_t_vehicle_assignments_live,priority:2,where:deleted_at IS NULL"`
	AuditColumns
}

// TableName overrides the default table name
func (VehicleAssignments) TableName() string {
	return "t_vehicle_assignments"
}

func (a *VehicleAssignments) toEntity() *entity.VehicleAssignment {
	return &entity.VehicleAssignment{
		ID:        a.ID,
		RouteID:   a.RouteID,
		VehicleID: a.VehicleID,
		Audit:     a.AuditColumns.toEntity(),
	}
}

func assignmentEntities(rows []VehicleAssignments) []*entity.VehicleAssignment {
	entities := make([]*entity.VehicleAssignment, 0, len(rows))
	for i := range rows {
		entities = append(entities, rows[i].toEntity())
	}
	return entities
}

// Create inserts a new assignment into the database
func (r *GormVehicleAssignmentRepository) Create(ctx context.Context, assignment *entity.VehicleAssignment) error {
	model := VehicleAssignments{
		RouteID:      assignment.RouteID,
		VehicleID:    assignment.VehicleID,
		AuditColumns: newAuditColumns(assignment.Audit),
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return translateError(err)
	}

	*assignment = *model.toEntity()
	return nil
}

// GetByID finds an assignment by id
func (r *GormVehicleAssignmentRepository) GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.VehicleAssignment, error) {
	model, err := findByID[VehicleAssignments](ctx, r.db, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	return model.toEntity(), nil
}

// FindActive finds the live assignment of a vehicle to a route
func (r *GormVehicleAssignmentRepository) FindActive(ctx context.Context, routeID, vehicleID uint) (*entity.VehicleAssignment, error) {
	var model VehicleAssignments
	err := r.db.WithContext(ctx).
		Where("route_id = ? AND vehicle_id = ?", routeID, vehicleID).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.toEntity(), nil
}

// ListByRoute returns the assignments of a route
func (r *GormVehicleAssignmentRepository) ListByRoute(ctx context.Context, routeID uint, includeDeleted bool) ([]*entity.VehicleAssignment, error) {
	var rows []VehicleAssignments
	err := scoped(r.db.WithContext(ctx), includeDeleted).
		Where("route_id = ?", routeID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	return assignmentEntities(rows), nil
}

// ListByVehicle returns the assignments of a vehicle
func (r *GormVehicleAssignmentRepository) ListByVehicle(ctx context.Context, vehicleID uint, includeDeleted bool) ([]*entity.VehicleAssignment, error) {
	var rows []VehicleAssignments
	err := scoped(r.db.WithContext(ctx), includeDeleted).
		Where("vehicle_id = ?", vehicleID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}
	return assignmentEntities(rows), nil
}

// SoftDelete ends an assignment
func (r *GormVehicleAssignmentRepository) SoftDelete(ctx context.Context, id uint, actor string) error {
	return softDelete[VehicleAssignments](ctx, r.db, id, actor)
}

// Restore revives an ended assignment
func (r *GormVehicleAssignmentRepository) Restore(ctx context.Context, id uint, actor string) error {
	return restore[VehicleAssignments](ctx, r.db, id, actor)
}
