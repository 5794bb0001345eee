package repository

import (
	"context"

	"napo-service/internal/domain/entity"
)

// TransporterRepository defines the interface for transporter operations
type TransporterRepository interface {
	SoftDeleter
	Create(ctx context.Context, transporter *entity.Transporter) error
	GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.Transporter, error)
	List(ctx context.Context, filter entity.TransporterFilter) ([]*entity.Transporter, error)
	Update(ctx context.Context, transporter *entity.Transporter) error
}

// VehicleRepository defines the interface for vehicle operations
type VehicleRepository interface {
	SoftDeleter
	Create(ctx context.Context, vehicle *entity.Vehicle) error
	GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.Vehicle, error)
	List(ctx context.Context, filter entity.VehicleFilter) ([]*entity.Vehicle, error)
	Update(ctx context.Context, vehicle *entity.Vehicle) error
}

// RouteRepository defines the interface for route operations
type RouteRepository interface {
	SoftDeleter
	Create(ctx context.Context, route *entity.Route) error
	GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.Route, error)
	List(ctx context.Context, filter entity.RouteFilter) ([]*entity.Route, error)
	Update(ctx context.Context, route *entity.Route) error
}

// VehicleAssignmentRepository defines the interface for vehicle-to-route assignments
type VehicleAssignmentRepository interface {
	SoftDeleter
	Create(ctx context.Context, assignment *entity.VehicleAssignment) error
	GetByID(ctx context.Context, id uint, includeDeleted bool) (*entity.VehicleAssignment, error)
	FindActive(ctx context.Context, routeID, vehicleID uint) (*entity.VehicleAssignment, error)
	ListByRoute(ctx context.Context, routeID uint, includeDeleted bool) ([]*entity.VehicleAssignment, error)
	ListByVehicle(ctx context.Context, vehicleID uint, includeDeleted bool) ([]*entity.VehicleAssignment, error)
}
