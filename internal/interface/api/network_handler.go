package api

import (
	"net/http"

	"napo-service/internal/domain/entity"
	"napo-service/internal/usecase"

	"github.com/labstack/echo/v4"
)

type nodeRequest struct {
	NodeName  string   `json:"node_name" validate:"required,max=255"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

func (r *nodeRequest) toEntity(id uint) *entity.Node {
	return &entity.Node{ID: id, NodeName: r.NodeName, Latitude: r.Latitude, Longitude: r.Longitude}
}

type timeWindowRequest struct {
	StartTime *entity.ClockTime `json:"start_time" validate:"required"`
	EndTime   *entity.ClockTime `json:"end_time" validate:"required"`
}

func (r *timeWindowRequest) toEntity(id, nodeID uint) *entity.TimeWindow {
	return &entity.TimeWindow{ID: id, NodeID: nodeID, StartTime: *r.StartTime, EndTime: *r.EndTime}
}

type distanceRequest struct {
	OriginNodeID      uint     `json:"origin_node_id" validate:"required"`
	DestinationNodeID uint     `json:"destination_node_id" validate:"required,nefield=OriginNodeID"`
	Distance          *float64 `json:"distance" validate:"required,min=0"`
	TravelTime        *float64 `json:"travel_time" validate:"required,min=0"`
}

type matrixRequest struct {
	NodeIDs []uint `json:"node_ids" validate:"required,min=2,dive,gt=0"`
}

// NetworkHandler serves nodes, time windows and distances
type NetworkHandler struct {
	network *usecase.NetworkService
}

// NewNetworkHandler creates a new network handler
func NewNetworkHandler(network *usecase.NetworkService) *NetworkHandler {
	return &NetworkHandler{network: network}
}

// Register mounts the network routes on g
func (h *NetworkHandler) Register(g *echo.Group) {
	g.GET("/nodes", h.ListNodes)
	g.POST("/nodes", h.CreateNode)
	g.GET("/nodes/:id", h.GetNode)
	g.PUT("/nodes/:id", h.UpdateNode)
	g.DELETE("/nodes/:id", h.DeleteNode)
	g.POST("/nodes/:id/restore", h.RestoreNode)
	g.GET("/nodes/:id/time-windows", h.ListTimeWindows)
	g.POST("/nodes/:id/time-windows", h.AddTimeWindow)
	g.GET("/nodes/:id/distances", h.DistancesFrom)

	g.GET("/time-windows/:id", h.GetTimeWindow)
	g.PUT("/time-windows/:id", h.UpdateTimeWindow)
	g.DELETE("/time-windows/:id", h.DeleteTimeWindow)
	g.POST("/time-windows/:id/restore", h.RestoreTimeWindow)

	g.GET("/distances", h.ListDistances)
	g.PUT("/distances", h.SetDistance)
	g.POST("/distances/matrix", h.Matrix)
	g.GET("/distances/:id", h.GetDistance)
	g.DELETE("/distances/:id", h.DeleteDistance)
	g.POST("/distances/:id/restore", h.RestoreDistance)
}

func (h *NetworkHandler) ListNodes(c echo.Context) error {
	filter, err := listFilter(c)
	if err != nil {
		return err
	}
	nodes, err := h.network.ListNodes(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nodes)
}

func (h *NetworkHandler) CreateNode(c echo.Context) error {
	var req nodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	node := req.toEntity(0)
	if err := h.network.CreateNode(c.Request().Context(), node); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, node)
}

func (h *NetworkHandler) GetNode(c echo.Context) error {
	return getByID(c, h.network.GetNode)
}

func (h *NetworkHandler) UpdateNode(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req nodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	node, err := h.network.UpdateNode(c.Request().Context(), req.toEntity(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, node)
}

func (h *NetworkHandler) DeleteNode(c echo.Context) error {
	return softDeleteByID(c, h.network.DeleteNode)
}

func (h *NetworkHandler) RestoreNode(c echo.Context) error {
	return restoreByID(c, h.network.RestoreNode)
}

func (h *NetworkHandler) ListTimeWindows(c echo.Context) error {
	nodeID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	include, err := includeDeleted(c)
	if err != nil {
		return err
	}
	windows, err := h.network.ListTimeWindows(c.Request().Context(), nodeID, include)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, windows)
}

func (h *NetworkHandler) AddTimeWindow(c echo.Context) error {
	nodeID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req timeWindowRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	window := req.toEntity(0, nodeID)
	if err := h.network.AddTimeWindow(c.Request().Context(), window); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, window)
}

func (h *NetworkHandler) GetTimeWindow(c echo.Context) error {
	return getByID(c, h.network.GetTimeWindow)
}

func (h *NetworkHandler) UpdateTimeWindow(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req timeWindowRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	window, err := h.network.UpdateTimeWindow(c.Request().Context(), req.toEntity(id, 0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, window)
}

func (h *NetworkHandler) DeleteTimeWindow(c echo.Context) error {
	return softDeleteByID(c, h.network.DeleteTimeWindow)
}

func (h *NetworkHandler) RestoreTimeWindow(c echo.Context) error {
	return restoreByID(c, h.network.RestoreTimeWindow)
}

// ListDistances answers a single pair lookup when origin and destination are
// both given, and a page of entries otherwise.
func (h *NetworkHandler) ListDistances(c echo.Context) error {
	origin, err := optionalUint(c, "origin")
	if err != nil {
		return err
	}
	destination, err := optionalUint(c, "destination")
	if err != nil {
		return err
	}

	switch {
	case origin != nil && destination != nil:
		entry, err := h.network.Distance(c.Request().Context(), *origin, *destination)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, entry)
	case origin != nil || destination != nil:
		return badRequest(FieldError{Field: "destination", Error: "must be given together with origin"})
	}

	filter, err := listFilter(c)
	if err != nil {
		return err
	}
	entries, err := h.network.ListDistances(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *NetworkHandler) SetDistance(c echo.Context) error {
	var req distanceRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	entry := &entity.DistanceEntry{
		OriginNodeID:      req.OriginNodeID,
		DestinationNodeID: req.DestinationNodeID,
		Distance:          *req.Distance,
		TravelTime:        *req.TravelTime,
	}
	if err := h.network.SetDistance(c.Request().Context(), entry); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *NetworkHandler) DistancesFrom(c echo.Context) error {
	origin, err := pathID(c, "id")
	if err != nil {
		return err
	}
	entries, err := h.network.DistancesFrom(c.Request().Context(), origin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *NetworkHandler) Matrix(c echo.Context) error {
	var req matrixRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	matrix, err := h.network.Matrix(c.Request().Context(), req.NodeIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, matrix)
}

func (h *NetworkHandler) GetDistance(c echo.Context) error {
	return getByID(c, h.network.GetDistance)
}

func (h *NetworkHandler) DeleteDistance(c echo.Context) error {
	return softDeleteByID(c, h.network.DeleteDistance)
}

func (h *NetworkHandler) RestoreDistance(c echo.Context) error {
	return restoreByID(c, h.network.RestoreDistance)
}
