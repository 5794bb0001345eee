package api

import (
	"net/http"

	"napo-service/internal/domain/entity"
	"napo-service/internal/usecase"

	"github.com/labstack/echo/v4"
)

type transporterRequest struct {
	Name          string   `json:"name" validate:"required,max=255"`
	BaseLatitude  *float64 `json:"base_latitude" validate:"omitempty,min=-90,max=90"`
	BaseLongitude *float64 `json:"base_longitude" validate:"omitempty,min=-180,max=180"`
	ZoneID        *uint    `json:"zone_id" validate:"omitempty,gt=0"`
}

func (r *transporterRequest) toEntity(id uint) *entity.Transporter {
	return &entity.Transporter{
		ID:            id,
		Name:          r.Name,
		BaseLatitude:  r.BaseLatitude,
		BaseLongitude: r.BaseLongitude,
		ZoneID:        r.ZoneID,
	}
}

type vehicleRequest struct {
	VehicleName   string   `json:"vehicle_name" validate:"required,max=255"`
	Capacity      *float64 `json:"capacity" validate:"omitempty,min=0"`
	TransporterID *uint    `json:"transporter_id" validate:"omitempty,gt=0"`
}

func (r *vehicleRequest) toEntity(id uint) *entity.Vehicle {
	return &entity.Vehicle{ID: id, VehicleName: r.VehicleName, Capacity: r.Capacity, TransporterID: r.TransporterID}
}

type routeRequest struct {
	RouteName   string `json:"route_name" validate:"required,max=255"`
	Description string `json:"description"`
	ZoneID      *uint  `json:"zone_id" validate:"omitempty,gt=0"`
}

func (r *routeRequest) toEntity(id uint) *entity.Route {
	return &entity.Route{ID: id, RouteName: r.RouteName, Description: r.Description, ZoneID: r.ZoneID}
}

type assignmentRequest struct {
	VehicleID uint `json:"vehicle_id" validate:"required"`
}

// FleetHandler serves transporters, vehicles, routes and their assignments
type FleetHandler struct {
	fleet *usecase.FleetService
}

// NewFleetHandler creates a new fleet handler
func NewFleetHandler(fleet *usecase.FleetService) *FleetHandler {
	return &FleetHandler{fleet: fleet}
}

// Register mounts the fleet routes on g
func (h *FleetHandler) Register(g *echo.Group) {
	g.GET("/transporters", h.ListTransporters)
	g.POST("/transporters", h.CreateTransporter)
	g.GET("/transporters/:id", h.GetTransporter)
	g.PUT("/transporters/:id", h.UpdateTransporter)
	g.DELETE("/transporters/:id", h.DeleteTransporter)
	g.POST("/transporters/:id/restore", h.RestoreTransporter)

	g.GET("/vehicles", h.ListVehicles)
	g.POST("/vehicles", h.CreateVehicle)
	g.GET("/vehicles/:id", h.GetVehicle)
	g.PUT("/vehicles/:id", h.UpdateVehicle)
	g.DELETE("/vehicles/:id", h.DeleteVehicle)
	g.POST("/vehicles/:id/restore", h.RestoreVehicle)
	g.GET("/vehicles/:id/routes", h.VehicleRoutes)

	g.GET("/routes", h.ListRoutes)
	g.POST("/routes", h.CreateRoute)
	g.GET("/routes/:id", h.GetRoute)
	g.PUT("/routes/:id", h.UpdateRoute)
	g.DELETE("/routes/:id", h.DeleteRoute)
	g.POST("/routes/:id/restore", h.RestoreRoute)
	g.GET("/routes/:id/vehicles", h.RouteVehicles)
	g.POST("/routes/:id/vehicles", h.AssignVehicle)
	g.DELETE("/routes/:id/vehicles/:vehicleId", h.UnassignVehicle)
}

func (h *FleetHandler) ListTransporters(c echo.Context) error {
	filter, err := listFilter(c)
	if err != nil {
		return err
	}
	zoneID, err := optionalUint(c, "zone_id")
	if err != nil {
		return err
	}
	transporters, err := h.fleet.ListTransporters(c.Request().Context(), entity.TransporterFilter{ListFilter: filter, ZoneID: zoneID})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transporters)
}

func (h *FleetHandler) CreateTransporter(c echo.Context) error {
	var req transporterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	transporter := req.toEntity(0)
	if err := h.fleet.CreateTransporter(c.Request().Context(), transporter); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transporter)
}

func (h *FleetHandler) GetTransporter(c echo.Context) error {
	return getByID(c, h.fleet.GetTransporter)
}

func (h *FleetHandler) UpdateTransporter(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req transporterRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	transporter, err := h.fleet.UpdateTransporter(c.Request().Context(), req.toEntity(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transporter)
}

func (h *FleetHandler) DeleteTransporter(c echo.Context) error {
	return softDeleteByID(c, h.fleet.DeleteTransporter)
}

func (h *FleetHandler) RestoreTransporter(c echo.Context) error {
	return restoreByID(c, h.fleet.RestoreTransporter)
}

func (h *FleetHandler) ListVehicles(c echo.Context) error {
	filter, err := listFilter(c)
	if err != nil {
		return err
	}
	transporterID, err := optionalUint(c, "transporter_id")
	if err != nil {
		return err
	}
	vehicles, err := h.fleet.ListVehicles(c.Request().Context(), entity.VehicleFilter{ListFilter: filter, TransporterID: transporterID})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vehicles)
}

func (h *FleetHandler) CreateVehicle(c echo.Context) error {
	var req vehicleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	vehicle := req.toEntity(0)
	if err := h.fleet.CreateVehicle(c.Request().Context(), vehicle); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, vehicle)
}

func (h *FleetHandler) GetVehicle(c echo.Context) error {
	return getByID(c, h.fleet.GetVehicle)
}

func (h *FleetHandler) UpdateVehicle(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req vehicleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	vehicle, err := h.fleet.UpdateVehicle(c.Request().Context(), req.toEntity(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vehicle)
}

func (h *FleetHandler) DeleteVehicle(c echo.Context) error {
	return softDeleteByID(c, h.fleet.DeleteVehicle)
}

func (h *FleetHandler) RestoreVehicle(c echo.Context) error {
	return restoreByID(c, h.fleet.RestoreVehicle)
}

func (h *FleetHandler) VehicleRoutes(c echo.Context) error {
	return getByID(c, h.fleet.VehicleAssignments)
}

func (h *FleetHandler) ListRoutes(c echo.Context) error {
	filter, err := listFilter(c)
	if err != nil {
		return err
	}
	zoneID, err := optionalUint(c, "zone_id")
	if err != nil {
		return err
	}
	routes, err := h.fleet.ListRoutes(c.Request().Context(), entity.RouteFilter{ListFilter: filter, ZoneID: zoneID})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, routes)
}

func (h *FleetHandler) CreateRoute(c echo.Context) error {
	var req routeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	route := req.toEntity(0)
	if err := h.fleet.CreateRoute(c.Request().Context(), route); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, route)
}

func (h *FleetHandler) GetRoute(c echo.Context) error {
	return getByID(c, h.fleet.GetRoute)
}

func (h *FleetHandler) UpdateRoute(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req routeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	route, err := h.fleet.UpdateRoute(c.Request().Context(), req.toEntity(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, route)
}

func (h *FleetHandler) DeleteRoute(c echo.Context) error {
	return softDeleteByID(c, h.fleet.DeleteRoute)
}

func (h *FleetHandler) RestoreRoute(c echo.Context) error {
	return restoreByID(c, h.fleet.RestoreRoute)
}

func (h *FleetHandler) RouteVehicles(c echo.Context) error {
	return getByID(c, h.fleet.RouteAssignments)
}

func (h *FleetHandler) AssignVehicle(c echo.Context) error {
	routeID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req assignmentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	assignment, err := h.fleet.AssignVehicle(c.Request().Context(), routeID, req.VehicleID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, assignment)
}

func (h *FleetHandler) UnassignVehicle(c echo.Context) error {
	routeID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	vehicleID, err := pathID(c, "vehicleId")
	if err != nil {
		return err
	}
	if err := h.fleet.UnassignVehicle(c.Request().Context(), routeID, vehicleID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
