package entity

import (
	"math"
	"strings"
)

// Transporter is a carrier operating vehicles out of a base location
type Transporter struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	BaseLatitude  *float64 `json:"base_latitude"`
	BaseLongitude *float64 `json:"base_longitude"`
	ZoneID        *uint    `json:"zone_id"`
	Audit
}

// TransporterFilter narrows transporter listings
type TransporterFilter struct {
	ListFilter
	ZoneID *uint
}

func (t *Transporter) Validate() error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return NewValidationError("name", "is required")
	}
	return validateCoordinates("base_latitude", "base_longitude", t.BaseLatitude, t.BaseLongitude)
}

// Vehicle belongs to a transporter and can be assigned to routes
type Vehicle struct {
	ID            uint     `json:"id"`
	VehicleName   string   `json:"vehicle_name"`
	Capacity      *float64 `json:"capacity"`
	TransporterID *uint    `json:"transporter_id"`
	Audit
}

// VehicleFilter narrows vehicle listings
type VehicleFilter struct {
	ListFilter
	TransporterID *uint
}

func (v *Vehicle) Validate() error {
	v.VehicleName = strings.TrimSpace(v.VehicleName)
	if v.VehicleName == "" {
		return NewValidationError("vehicle_name", "is required")
	}
	if v.Capacity != nil && (math.IsNaN(*v.Capacity) || math.IsInf(*v.Capacity, 0) || *v.Capacity < 0) {
		return NewValidationError("capacity", "must be a non-negative number")
	}
	return nil
}

// Route is a named transport route within a zone
type Route struct {
	ID          uint   `json:"id"`
	RouteName   string `json:"route_name"`
	Description string `json:"description"`
	ZoneID      *uint  `json:"zone_id"`
	Audit
}

// RouteFilter narrows route listings
type RouteFilter struct {
	ListFilter
	ZoneID *uint
}

func (r *Route) Validate() error {
	r.RouteName = strings.TrimSpace(r.RouteName)
	if r.RouteName == "" {
		return NewValidationError("route_name", "is required")
	}
	return nil
}

// VehicleAssignment links a vehicle to a route
type VehicleAssignment struct {
	ID        uint `json:"id"`
	RouteID   uint `json:"route_id"`
	VehicleID uint `json:"vehicle_id"`
	Audit
}

func (a *VehicleAssignment) Validate() error {
	if a.RouteID == 0 {
		return NewValidationError("route_id", "is required")
	}
	if a.VehicleID == 0 {
		return NewValidationError("vehicle_id", "is required")
	}
	return nil
}
