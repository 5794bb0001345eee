package api

import (
	"net/http"

	"napo-service/internal/usecase"
	"napo-service/pkg/logger"
	"napo-service/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services are the use cases exposed over HTTP
type Services struct {
	Zones   *usecase.ZoneService
	Network *usecase.NetworkService
	Fleet   *usecase.FleetService
	Pricing *usecase.PricingService
	Audit   *usecase.AuditService
}

// Options configure the router. Gatherer backs GET /metrics; nil uses the
// default prometheus registry.
type Options struct {
	Env            string
	AllowedOrigins []string
	Logger         logger.Logger
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	HealthChecks   map[string]HealthCheck
}

// NewRouter builds the echo instance with middleware and every route
func NewRouter(opts Options, svc Services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = ErrorHandler(opts.Logger)

	e.Use(
		RequestID(),
		middleware.Recover(),
		RequestLogger(opts.Logger),
		Metrics(opts.Metrics),
		CORS(opts.AllowedOrigins),
		Actor(),
	)

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to NAPO API"})
	})
	e.GET("/health", NewHealthHandler(opts.Env, opts.HealthChecks, opts.Logger).CheckHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := e.Group("/api/v1")
	NewZoneHandler(svc.Zones).Register(v1)
	NewNetworkHandler(svc.Network).Register(v1)
	NewFleetHandler(svc.Fleet).Register(v1)
	NewPricingHandler(svc.Pricing).Register(v1)
	NewAuditHandler(svc.Audit).Register(v1)

	return e
}
