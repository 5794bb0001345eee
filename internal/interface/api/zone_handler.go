package api

import (
	"net/http"

	"napo-service/internal/domain/entity"
	"napo-service/internal/usecase"

	"github.com/labstack/echo/v4"
)

type zoneRequest struct {
	ZoneName    string   `json:"zone_name" validate:"required,max=255"`
	PostalCodes []string `json:"postal_codes" validate:"omitempty,dive,required,max=20"`
}

func (r *zoneRequest) toEntity(id uint) *entity.Zone {
	return &entity.Zone{ID: id, ZoneName: r.ZoneName, PostalCodes: r.PostalCodes}
}

// ZoneHandler serves /zones
type ZoneHandler struct {
	zones *usecase.ZoneService
}

// NewZoneHandler creates a new zone handler
func NewZoneHandler(zones *usecase.ZoneService) *ZoneHandler {
	return &ZoneHandler{zones: zones}
}

// Register mounts the zone routes on g
func (h *ZoneHandler) Register(g *echo.Group) {
	g.GET("/zones", h.List)
	g.POST("/zones", h.Create)
	g.GET("/zones/:id", h.Get)
	g.PUT("/zones/:id", h.Update)
	g.DELETE("/zones/:id", h.Delete)
	g.POST("/zones/:id/restore", h.Restore)
}

func (h *ZoneHandler) List(c echo.Context) error {
	filter, err := listFilter(c)
	if err != nil {
		return err
	}
	zones, err := h.zones.List(c.Request().Context(), entity.ZoneFilter{
		ListFilter: filter,
		PostalCode: c.QueryParam("postal_code"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, zones)
}

func (h *ZoneHandler) Create(c echo.Context) error {
	var req zoneRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	zone := req.toEntity(0)
	if err := h.zones.Create(c.Request().Context(), zone); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, zone)
}

func (h *ZoneHandler) Get(c echo.Context) error {
	return getByID(c, h.zones.Get)
}

func (h *ZoneHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req zoneRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	zone, err := h.zones.Update(c.Request().Context(), req.toEntity(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, zone)
}

func (h *ZoneHandler) Delete(c echo.Context) error {
	return softDeleteByID(c, h.zones.Delete)
}

func (h *ZoneHandler) Restore(c echo.Context) error {
	return restoreByID(c, h.zones.Restore)
}
