package api

import (
	"net/http"

	"napo-service/internal/domain/entity"
	"napo-service/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type pricingRuleRequest struct {
	RuleName    string `json:"rule_name" validate:"required,max=255"`
	Description string `json:"description"`
}

func (r *pricingRuleRequest) toEntity(id uint) *entity.PricingRule {
	return &entity.PricingRule{ID: id, RuleName: r.RuleName, Description: r.Description}
}

type startFeeRequest struct {
	LocationType string           `json:"location_type" validate:"required,max=100"`
	MaxFee       *decimal.Decimal `json:"max_fee" validate:"required"`
}

func (r *startFeeRequest) toEntity(id, ruleID uint) *entity.StartFee {
	return &entity.StartFee{ID: id, PricingRuleID: ruleID, LocationType: r.LocationType, MaxFee: *r.MaxFee}
}

// PricingHandler serves pricing rules and start fees
type PricingHandler struct {
	pricing *usecase.PricingService
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricing *usecase.PricingService) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

// Register mounts the pricing routes on g
func (h *PricingHandler) Register(g *echo.Group) {
	g.GET("/pricing-rules", h.ListRules)
	g.POST("/pricing-rules", h.CreateRule)
	g.GET("/pricing-rules/:id", h.GetRule)
	g.PUT("/pricing-rules/:id", h.UpdateRule)
	g.DELETE("/pricing-rules/:id", h.DeleteRule)
	g.POST("/pricing-rules/:id/restore", h.RestoreRule)
	g.GET("/pricing-rules/:id/start-fees", h.ListStartFees)
	g.POST("/pricing-rules/:id/start-fees", h.AddStartFee)
	g.GET("/pricing-rules/:id/start-fee-cap", h.StartFeeCap)

	g.GET("/start-fees/:id", h.GetStartFee)
	g.PUT("/start-fees/:id", h.UpdateStartFee)
	g.DELETE("/start-fees/:id", h.DeleteStartFee)
	g.POST("/start-fees/:id/restore", h.RestoreStartFee)
}

func (h *PricingHandler) ListRules(c echo.Context) error {
	filter := entity.PricingRuleFilter{}
	var err error
	if filter.ListFilter, err = listFilter(c); err != nil {
		return err
	}
	if err := echo.QueryParamsBinder(c).Bool("active_only", &filter.ActiveOnly).BindError(); err != nil {
		return err
	}
	rules, err := h.pricing.ListRules(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rules)
}

func (h *PricingHandler) CreateRule(c echo.Context) error {
	var req pricingRuleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	rule := req.toEntity(0)
	if err := h.pricing.CreateRule(c.Request().Context(), rule); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rule)
}

func (h *PricingHandler) GetRule(c echo.Context) error {
	return getByID(c, h.pricing.GetRule)
}

func (h *PricingHandler) UpdateRule(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req pricingRuleRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	rule, err := h.pricing.UpdateRule(c.Request().Context(), req.toEntity(id))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rule)
}

func (h *PricingHandler) DeleteRule(c echo.Context) error {
	return softDeleteByID(c, h.pricing.DeleteRule)
}

func (h *PricingHandler) RestoreRule(c echo.Context) error {
	return restoreByID(c, h.pricing.RestoreRule)
}

func (h *PricingHandler) ListStartFees(c echo.Context) error {
	return getByID(c, h.pricing.ListStartFees)
}

func (h *PricingHandler) AddStartFee(c echo.Context) error {
	ruleID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req startFeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	fee := req.toEntity(0, ruleID)
	if err := h.pricing.AddStartFee(c.Request().Context(), fee); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, fee)
}

func (h *PricingHandler) StartFeeCap(c echo.Context) error {
	ruleID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	fee, err := h.pricing.StartFeeCap(c.Request().Context(), ruleID, c.QueryParam("location_type"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fee)
}

func (h *PricingHandler) GetStartFee(c echo.Context) error {
	return getByID(c, h.pricing.GetStartFee)
}

func (h *PricingHandler) UpdateStartFee(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req startFeeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	fee, err := h.pricing.UpdateStartFee(c.Request().Context(), req.toEntity(id, 0))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fee)
}

func (h *PricingHandler) DeleteStartFee(c echo.Context) error {
	return softDeleteByID(c, h.pricing.DeleteStartFee)
}

func (h *PricingHandler) RestoreStartFee(c echo.Context) error {
	return restoreByID(c, h.pricing.RestoreStartFee)
}
