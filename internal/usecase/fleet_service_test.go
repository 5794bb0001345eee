package usecase

import (
	"errors"
	"testing"

	"napo-service/internal/domain/entity"
)

func newFleetService(f *fixture) (*FleetService, *ZoneService) {
	fleet := NewFleetService(f.repos.Zones, f.repos.Transporters, f.repos.Vehicles, f.repos.Routes, f.repos.Assignments, f.audit, f.metrics, f.log)
	return fleet, NewZoneService(f.repos.Zones, f.audit, f.metrics, f.log)
}

func TestFleetServiceParentChecks(t *testing.T) {
	f := newFixture(t)
	svc, zones := newFleetService(f)
	ctx := actorCtx("dispatcher")

	zone := &entity.Zone{ZoneName: "West"}
	if err := zones.Create(ctx, zone); err != nil {
		t.Fatal(err)
	}

	if err := svc.CreateTransporter(ctx, &entity.Transporter{Name: "Fast Freight", ZoneID: ptr(uint(404))}); !errors.Is(err, entity.ErrReferenceNotFound) {
		t.Errorf("CreateTransporter(unknown zone) error = %v", err)
	}
	transporter := &entity.Transporter{Name: "Fast Freight", ZoneID: &zone.ID, BaseLatitude: ptr(52.1), BaseLongitude: ptr(5.1)}
	if err := svc.CreateTransporter(ctx, transporter); err != nil {
		t.Fatalf("CreateTransporter() error = %v", err)
	}

	if err := svc.CreateVehicle(ctx, &entity.Vehicle{VehicleName: "Van 1", Capacity: ptr(-1.0)}); !entity.IsValidationError(err) {
		t.Errorf("CreateVehicle(negative capacity) error = %v", err)
	}
	vehicle := &entity.Vehicle{VehicleName: "Van 1", Capacity: ptr(1200.0), TransporterID: &transporter.ID}
	if err := svc.CreateVehicle(ctx, vehicle); err != nil {
		t.Fatalf("CreateVehicle() error = %v", err)
	}

	vehicles, err := svc.ListVehicles(ctx, entity.VehicleFilter{TransporterID: &transporter.ID})
	if err != nil || len(vehicles) != 1 {
		t.Errorf("ListVehicles(transporter) = %d, err %v", len(vehicles), err)
	}
	transporters, err := svc.ListTransporters(ctx, entity.TransporterFilter{ZoneID: &zone.ID})
	if err != nil || len(transporters) != 1 {
		t.Errorf("ListTransporters(zone) = %d, err %v", len(transporters), err)
	}

	if err := svc.DeleteTransporter(ctx, transporter.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.CreateVehicle(ctx, &entity.Vehicle{VehicleName: "Van 2", TransporterID: &transporter.ID}); !errors.Is(err, entity.ErrReferenceNotFound) {
		t.Errorf("CreateVehicle(deleted transporter) error = %v", err)
	}
	if _, err := svc.UpdateVehicle(ctx, &entity.Vehicle{ID: vehicle.ID, VehicleName: "Van 1b", TransporterID: &transporter.ID}); !errors.Is(err, entity.ErrReferenceNotFound) {
		t.Errorf("UpdateVehicle(deleted transporter) error = %v", err)
	}
	if _, err := svc.RestoreTransporter(ctx, transporter.ID); err != nil {
		t.Fatalf("RestoreTransporter() error = %v", err)
	}
	updated, err := svc.UpdateVehicle(ctx, &entity.Vehicle{ID: vehicle.ID, VehicleName: "Van 1b", TransporterID: &transporter.ID})
	if err != nil {
		t.Fatalf("UpdateVehicle() error = %v", err)
	}
	if updated.VehicleName != "Van 1b" || updated.Capacity != nil {
		t.Errorf("UpdateVehicle() = %+v", updated)
	}

	if err := svc.CreateRoute(ctx, &entity.Route{RouteName: ""}); !entity.IsValidationError(err) {
		t.Errorf("CreateRoute(blank) error = %v", err)
	}
	route := &entity.Route{RouteName: "West loop", ZoneID: &zone.ID}
	if err := svc.CreateRoute(ctx, route); err != nil {
		t.Fatalf("CreateRoute() error = %v", err)
	}
	renamed, err := svc.UpdateRoute(ctx, &entity.Route{ID: route.ID, RouteName: "West loop AM", Description: "morning"})
	if err != nil || renamed.RouteName != "West loop AM" || renamed.ZoneID != nil {
		t.Errorf("UpdateRoute() = %+v, %v", renamed, err)
	}
}

func TestFleetServiceRestoreNeedsLiveParent(t *testing.T) {
	f := newFixture(t)
	svc, zones := newFleetService(f)
	ctx := actorCtx("dispatcher")

	zone := &entity.Zone{ZoneName: "North"}
	if err := zones.Create(ctx, zone); err != nil {
		t.Fatal(err)
	}
	transporter := &entity.Transporter{Name: "Northern Haul", ZoneID: &zone.ID}
	if err := svc.CreateTransporter(ctx, transporter); err != nil {
		t.Fatal(err)
	}
	vehicle := &entity.Vehicle{VehicleName: "Truck", TransporterID: &transporter.ID}
	if err := svc.CreateVehicle(ctx, vehicle); err != nil {
		t.Fatal(err)
	}
	route := &entity.Route{RouteName: "North loop", ZoneID: &zone.ID}
	if err := svc.CreateRoute(ctx, route); err != nil {
		t.Fatal(err)
	}
	loose := &entity.Route{RouteName: "Unzoned"}
	if err := svc.CreateRoute(ctx, loose); err != nil {
		t.Fatal(err)
	}

	for _, del := range []func() error{
		func() error { return svc.DeleteVehicle(ctx, vehicle.ID) },
		func() error { return svc.DeleteRoute(ctx, route.ID) },
		func() error { return svc.DeleteRoute(ctx, loose.ID) },
		func() error { return svc.DeleteTransporter(ctx, transporter.ID) },
		func() error { return zones.Delete(ctx, zone.ID) },
	} {
		if err := del(); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := svc.RestoreVehicle(ctx, vehicle.ID); !errors.Is(err, entity.ErrReferenceNotFound) {
		t.Errorf("RestoreVehicle(deleted transporter) error = %v", err)
	}
	if _, err := svc.RestoreTransporter(ctx, transporter.ID); !errors.Is(err, entity.ErrReferenceNotFound) {
		t.Errorf("RestoreTransporter(deleted zone) error = %v", err)
	}
	if _, err := svc.RestoreRoute(ctx, route.ID); !errors.Is(err, entity.ErrReferenceNotFound) {
		t.Errorf("RestoreRoute(deleted zone) error = %v", err)
	}
	if _, err := svc.RestoreRoute(ctx, loose.ID); err != nil {
		t.Errorf("RestoreRoute(no zone) error = %v", err)
	}

	if _, err := zones.Restore(ctx, zone.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RestoreTransporter(ctx, transporter.ID); err != nil {
		t.Errorf("RestoreTransporter() error = %v", err)
	}
	if _, err := svc.RestoreVehicle(ctx, vehicle.ID); err != nil {
		t.Errorf("RestoreVehicle() error = %v", err)
	}
	if _, err := svc.RestoreRoute(ctx, route.ID); err != nil {
		t.Errorf("RestoreRoute() error = %v", err)
	}
}

func TestFleetServiceAssignments(t *testing.T) {
	f := newFixture(t)
	svc, _ := newFleetService(f)
	ctx := actorCtx("dispatcher")

	route := &entity.Route{RouteName: "North"}
	vehicle := &entity.Vehicle{VehicleName: "Truck"}
	if err := svc.CreateRoute(ctx, route); err != nil {
		t.Fatal(err)
	}
	if err := svc.CreateVehicle(ctx, vehicle); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AssignVehicle(ctx, 999, vehicle.ID); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("AssignVehicle(unknown route) error = %v", err)
	}
	if _, err := svc.AssignVehicle(ctx, route.ID, 999); !errors.Is(err, entity.ErrReferenceNotFound) {
		t.Errorf("AssignVehicle(unknown vehicle) error = %v", err)
	}

	first, err := svc.AssignVehicle(ctx, route.ID, vehicle.ID)
	if err != nil {
		t.Fatalf("AssignVehicle() error = %v", err)
	}
	if _, err := svc.AssignVehicle(ctx, route.ID, vehicle.ID); !errors.Is(err, entity.ErrConflict) {
		t.Errorf("AssignVehicle(duplicate) error = %v, want ErrConflict", err)
	}

	onRoute, err := svc.RouteAssignments(ctx, route.ID, false)
	if err != nil || len(onRoute) != 1 || onRoute[0].VehicleID != vehicle.ID {
		t.Errorf("RouteAssignments() = %+v, %v", onRoute, err)
	}
	ofVehicle, err := svc.VehicleAssignments(ctx, vehicle.ID, false)
	if err != nil || len(ofVehicle) != 1 || ofVehicle[0].RouteID != route.ID {
		t.Errorf("VehicleAssignments() = %+v, %v", ofVehicle, err)
	}

	if err := svc.UnassignVehicle(ctx, route.ID, vehicle.ID); err != nil {
		t.Fatalf("UnassignVehicle() error = %v", err)
	}
	if err := svc.UnassignVehicle(ctx, route.ID, vehicle.ID); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("UnassignVehicle(again) error = %v", err)
	}

	second, err := svc.AssignVehicle(ctx, route.ID, vehicle.ID)
	if err != nil {
		t.Fatalf("AssignVehicle(after unassign) error = %v", err)
	}
	if second.ID == first.ID {
		t.Error("reassignment reused the ended assignment")
	}
	history, _ := svc.RouteAssignments(ctx, route.ID, true)
	if len(history) != 2 {
		t.Errorf("assignment history = %d rows, want 2", len(history))
	}

	want := []string{entity.ActionCreate, entity.ActionDelete}
	if got := f.audit.actions(entity.EntityVehicleAssignment, first.ID); !equalStrings(got, want) {
		t.Errorf("assignment audit = %v, want %v", got, want)
	}
}
