package usecase

import (
	"context"
	"errors"

	"napo-service/internal/domain/entity"
	"napo-service/internal/domain/repository"
	"napo-service/pkg/logger"
	"napo-service/pkg/metrics"
)

// FleetService manages transporters, vehicles, routes and vehicle assignments
type FleetService struct {
	zones        repository.ZoneRepository
	transporters repository.TransporterRepository
	vehicles     repository.VehicleRepository
	routes       repository.RouteRepository
	assignments  repository.VehicleAssignmentRepository
	recorder
}

// NewFleetService creates a new fleet service
func NewFleetService(
	zones repository.ZoneRepository,
	transporters repository.TransporterRepository,
	vehicles repository.VehicleRepository,
	routes repository.RouteRepository,
	assignments repository.VehicleAssignmentRepository,
	audit repository.AuditRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *FleetService {
	return &FleetService{
		zones:        zones,
		transporters: transporters,
		vehicles:     vehicles,
		routes:       routes,
		assignments:  assignments,
		recorder:     newRecorder(audit, metrics, logger),
	}
}

func (s *FleetService) requireZone(ctx context.Context, zoneID *uint) error {
	if zoneID == nil {
		return nil
	}
	_, err := s.zones.GetByID(ctx, *zoneID, false)
	return requireLive("zone_id", err)
}

func (s *FleetService) requireTransporter(ctx context.Context, transporterID *uint) error {
	if transporterID == nil {
		return nil
	}
	_, err := s.transporters.GetByID(ctx, *transporterID, false)
	return requireLive("transporter_id", err)
}

func transporterChanges(t *entity.Transporter) map[string]interface{} {
	return map[string]interface{}{
		"name":           t.Name,
		"base_latitude":  t.BaseLatitude,
		"base_longitude": t.BaseLongitude,
		"zone_id":        t.ZoneID,
	}
}

// CreateTransporter validates and stores a new transporter
func (s *FleetService) CreateTransporter(ctx context.Context, transporter *entity.Transporter) error {
	if err := transporter.Validate(); err != nil {
		return err
	}
	if err := s.requireZone(ctx, transporter.ZoneID); err != nil {
		return s.failed("transporter.create", err)
	}
	transporter.Audit = entity.NewAudit(ActorFromContext(ctx))
	if err := s.transporters.Create(ctx, transporter); err != nil {
		return s.failed("transporter.create", err)
	}
	s.mutated(ctx, entity.EntityTransporter, transporter.ID, entity.ActionCreate, transporterChanges(transporter))
	return nil
}

// GetTransporter returns one transporter
func (s *FleetService) GetTransporter(ctx context.Context, id uint, includeDeleted bool) (*entity.Transporter, error) {
	transporter, err := s.transporters.GetByID(ctx, id, includeDeleted)
	return transporter, s.failed("transporter.get", err)
}

// ListTransporters returns transporters matching the filter
func (s *FleetService) ListTransporters(ctx context.Context, filter entity.TransporterFilter) ([]*entity.Transporter, error) {
	transporters, err := s.transporters.List(ctx, filter)
	return transporters, s.failed("transporter.list", err)
}

// UpdateTransporter overwrites a live transporter and returns its stored state
func (s *FleetService) UpdateTransporter(ctx context.Context, transporter *entity.Transporter) (*entity.Transporter, error) {
	if err := transporter.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireZone(ctx, transporter.ZoneID); err != nil {
		return nil, s.failed("transporter.update", err)
	}
	transporter.LastUpdatedBy = ActorFromContext(ctx)
	if err := s.transporters.Update(ctx, transporter); err != nil {
		return nil, s.failed("transporter.update", err)
	}
	s.mutated(ctx, entity.EntityTransporter, transporter.ID, entity.ActionUpdate, transporterChanges(transporter))
	return s.GetTransporter(ctx, transporter.ID, false)
}

// DeleteTransporter soft-deletes a transporter
func (s *FleetService) DeleteTransporter(ctx context.Context, id uint) error {
	return s.softDelete(ctx, entity.EntityTransporter, s.transporters, id)
}

// RestoreTransporter revives a soft-deleted transporter whose zone, if any, is live
func (s *FleetService) RestoreTransporter(ctx context.Context, id uint) (*entity.Transporter, error) {
	transporter, err := s.transporters.GetByID(ctx, id, true)
	if err != nil {
		return nil, s.failed("transporter.restore", err)
	}
	if err := s.requireZone(ctx, transporter.ZoneID); err != nil {
		return nil, s.failed("transporter.restore", err)
	}
	if err := s.restore(ctx, entity.EntityTransporter, s.transporters, id); err != nil {
		return nil, err
	}
	return s.GetTransporter(ctx, id, false)
}

func vehicleChanges(v *entity.Vehicle) map[string]interface{} {
	return map[string]interface{}{
		"vehicle_name":   v.VehicleName,
		"capacity":       v.Capacity,
		"transporter_id": v.TransporterID,
	}
}

// CreateVehicle validates and stores a new vehicle
func (s *FleetService) CreateVehicle(ctx context.Context, vehicle *entity.Vehicle) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}
	if err := s.requireTransporter(ctx, vehicle.TransporterID); err != nil {
		return s.failed("vehicle.create", err)
	}
	vehicle.Audit = entity.NewAudit(ActorFromContext(ctx))
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return s.failed("vehicle.create", err)
	}
	s.mutated(ctx, entity.EntityVehicle, vehicle.ID, entity.ActionCreate, vehicleChanges(vehicle))
	return nil
}

// GetVehicle returns one vehicle
func (s *FleetService) GetVehicle(ctx context.Context, id uint, includeDeleted bool) (*entity.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, id, includeDeleted)
	return vehicle, s.failed("vehicle.get", err)
}

// ListVehicles returns vehicles matching the filter
func (s *FleetService) ListVehicles(ctx context.Context, filter entity.VehicleFilter) ([]*entity.Vehicle, error) {
	vehicles, err := s.vehicles.List(ctx, filter)
	return vehicles, s.failed("vehicle.list", err)
}

// UpdateVehicle overwrites a live vehicle and returns its stored state
func (s *FleetService) UpdateVehicle(ctx context.Context, vehicle *entity.Vehicle) (*entity.Vehicle, error) {
	if err := vehicle.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireTransporter(ctx, vehicle.TransporterID); err != nil {
		return nil, s.failed("vehicle.update", err)
	}
	vehicle.LastUpdatedBy = ActorFromContext(ctx)
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return nil, s.failed("vehicle.update", err)
	}
	s.mutated(ctx, entity.EntityVehicle, vehicle.ID, entity.ActionUpdate, vehicleChanges(vehicle))
	return s.GetVehicle(ctx, vehicle.ID, false)
}

// DeleteVehicle soft-deletes a vehicle
func (s *FleetService) DeleteVehicle(ctx context.Context, id uint) error {
	return s.softDelete(ctx, entity.EntityVehicle, s.vehicles, id)
}

// RestoreVehicle revives a soft-deleted vehicle whose transporter, if any, is live
func (s *FleetService) RestoreVehicle(ctx context.Context, id uint) (*entity.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, id, true)
	if err != nil {
		return nil, s.failed("vehicle.restore", err)
	}
	if err := s.requireTransporter(ctx, vehicle.TransporterID); err != nil {
		return nil, s.failed("vehicle.restore", err)
	}
	if err := s.restore(ctx, entity.EntityVehicle, s.vehicles, id); err != nil {
		return nil, err
	}
	return s.GetVehicle(ctx, id, false)
}

// VehicleAssignments returns the route assignments of a vehicle
func (s *FleetService) VehicleAssignments(ctx context.Context, vehicleID uint, includeDeleted bool) ([]*entity.VehicleAssignment, error) {
	if _, err := s.vehicles.GetByID(ctx, vehicleID, includeDeleted); err != nil {
		return nil, s.failed("vehicle.assignments", err)
	}
	assignments, err := s.assignments.ListByVehicle(ctx, vehicleID, includeDeleted)
	return assignments, s.failed("vehicle.assignments", err)
}

func routeChanges(r *entity.Route) map[string]interface{} {
	return map[string]interface{}{
		"route_name":  r.RouteName,
		"description": r.Description,
		"zone_id":     r.ZoneID,
	}
}

// CreateRoute validates and stores a new route
func (s *FleetService) CreateRoute(ctx context.Context, route *entity.Route) error {
	if err := route.Validate(); err != nil {
		return err
	}
	if err := s.requireZone(ctx, route.ZoneID); err != nil {
		return s.failed("route.create", err)
	}
	route.Audit = entity.NewAudit(ActorFromContext(ctx))
	if err := s.routes.Create(ctx, route); err != nil {
		return s.failed("route.create", err)
	}
	s.mutated(ctx, entity.EntityRoute, route.ID, entity.ActionCreate, routeChanges(route))
	return nil
}

// GetRoute returns one route
func (s *FleetService) GetRoute(ctx context.Context, id uint, includeDeleted bool) (*entity.Route, error) {
	route, err := s.routes.GetByID(ctx, id, includeDeleted)
	return route, s.failed("route.get", err)
}

// ListRoutes returns routes matching the filter
func (s *FleetService) ListRoutes(ctx context.Context, filter entity.RouteFilter) ([]*entity.Route, error) {
	routes, err := s.routes.List(ctx, filter)
	return routes, s.failed("route.list", err)
}

// UpdateRoute overwrites a live route and returns its stored state
func (s *FleetService) UpdateRoute(ctx context.Context, route *entity.Route) (*entity.Route, error) {
	if err := route.Validate(); err != nil {
		return nil, err
	}
	if err := s.requireZone(ctx, route.ZoneID); err != nil {
		return nil, s.failed("route.update", err)
	}
	route.LastUpdatedBy = ActorFromContext(ctx)
	if err := s.routes.Update(ctx, route); err != nil {
		return nil, s.failed("route.update", err)
	}
	s.mutated(ctx, entity.EntityRoute, route.ID, entity.ActionUpdate, routeChanges(route))
	return s.GetRoute(ctx, route.ID, false)
}

// DeleteRoute soft-deletes a route
func (s *FleetService) DeleteRoute(ctx context.Context, id uint) error {
	return s.softDelete(ctx, entity.EntityRoute, s.routes, id)
}

// RestoreRoute revives a soft-deleted route whose zone, if any, is live
func (s *FleetService) RestoreRoute(ctx context.Context, id uint) (*entity.Route, error) {
	route, err := s.routes.GetByID(ctx, id, true)
	if err != nil {
		return nil, s.failed("route.restore", err)
	}
	if err := s.requireZone(ctx, route.ZoneID); err != nil {
		return nil, s.failed("route.restore", err)
	}
	if err := s.restore(ctx, entity.EntityRoute, s.routes, id); err != nil {
		return nil, err
	}
	return s.GetRoute(ctx, id, false)
}

// AssignVehicle assigns a live vehicle to a live route. A second live
// assignment of the same pair is rejected with ErrConflict.
func (s *FleetService) AssignVehicle(ctx context.Context, routeID, vehicleID uint) (*entity.VehicleAssignment, error) {
	assignment := &entity.VehicleAssignment{RouteID: routeID, VehicleID: vehicleID}
	if err := assignment.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.routes.GetByID(ctx, routeID, false); err != nil {
		return nil, s.failed("assignment.create", err)
	}
	if _, err := s.vehicles.GetByID(ctx, vehicleID, false); err != nil {
		return nil, s.failed("assignment.create", requireLive("vehicle_id", err))
	}

	_, err := s.assignments.FindActive(ctx, routeID, vehicleID)
	switch {
	case err == nil:
		return nil, entity.ErrConflict
	case !errors.Is(err, entity.ErrNotFound):
		return nil, s.failed("assignment.create", err)
	}

	assignment.Audit = entity.NewAudit(ActorFromContext(ctx))
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, s.failed("assignment.create", err)
	}
	s.mutated(ctx, entity.EntityVehicleAssignment, assignment.ID, entity.ActionCreate, map[string]interface{}{
		"route_id":   routeID,
		"vehicle_id": vehicleID,
	})
	return assignment, nil
}

// UnassignVehicle ends the live assignment of a vehicle to a route
func (s *FleetService) UnassignVehicle(ctx context.Context, routeID, vehicleID uint) error {
	assignment, err := s.assignments.FindActive(ctx, routeID, vehicleID)
	if err != nil {
		return s.failed("assignment.delete", err)
	}
	return s.softDelete(ctx, entity.EntityVehicleAssignment, s.assignments, assignment.ID)
}

// RouteAssignments returns the vehicle assignments of a route
func (s *FleetService) RouteAssignments(ctx context.Context, routeID uint, includeDeleted bool) ([]*entity.VehicleAssignment, error) {
	if _, err := s.routes.GetByID(ctx, routeID, includeDeleted); err != nil {
		return nil, s.failed("route.assignments", err)
	}
	assignments, err := s.assignments.ListByRoute(ctx, routeID, includeDeleted)
	return assignments, s.failed("route.assignments", err)
}
