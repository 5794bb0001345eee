package api

import (
	"net/http"

	"napo-service/internal/usecase"

	"github.com/labstack/echo/v4"
)

const defaultHistoryLimit = 50

// AuditHandler serves the mutation history of records
type AuditHandler struct {
	audit *usecase.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(audit *usecase.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// Register mounts the audit routes on g
func (h *AuditHandler) Register(g *echo.Group) {
	g.GET("/audit/:entity/:id", h.History)
}

func (h *AuditHandler) History(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	limit := defaultHistoryLimit
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return err
	}
	events, err := h.audit.History(c.Request().Context(), c.Param("entity"), id, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}
