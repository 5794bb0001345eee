package api

import (
	"net/http"
	"strconv"
	"time"

	"napo-service/internal/usecase"
	"napo-service/pkg/logger"
	"napo-service/pkg/metrics"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	// RequestIDHeader carries the request correlation id
	RequestIDHeader = "X-Request-ID"
	// ActorHeader names the caller recorded on mutations
	ActorHeader = "X-Actor"

	requestIDKey = "request_id"
)

// RequestID reuses the incoming X-Request-ID or generates one
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			c.Set(requestIDKey, requestID)
			c.Response().Header().Set(RequestIDHeader, requestID)
			return next(c)
		}
	}
}

// GetRequestID returns the request id set by RequestID
func GetRequestID(c echo.Context) string {
	if requestID, ok := c.Get(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// Actor puts the X-Actor header into the request context
func Actor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if actor := c.Request().Header.Get(ActorHeader); actor != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(usecase.WithActor(req.Context(), actor)))
			}
			return next(c)
		}
	}
}

// CORS allows the configured origins to call the API from a browser
func CORS(origins []string) echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  origins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderContentType, echo.HeaderAuthorization, RequestIDHeader, ActorHeader},
		ExposeHeaders: []string{RequestIDHeader},
	})
}

// responseStatus is the status the error handler will write for err
func responseStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	return toHTTPError(err).Status
}

// RequestLogger writes one log line per request, at a level chosen by status
func RequestLogger(log logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogMethod:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			status := v.Status
			if v.Error != nil {
				status = responseStatus(c, v.Error)
			}
			fields := []interface{}{
				"request_id", GetRequestID(c),
				"method", v.Method,
				"uri", v.URI,
				"status", status,
				"latency", v.Latency,
				"ip", c.RealIP(),
			}
			switch {
			case status >= http.StatusInternalServerError:
				log.Error("API", append(fields, "error", v.Error)...)
			case status >= http.StatusBadRequest:
				log.Warn("API", fields...)
			default:
				log.Info("API", fields...)
			}
			return nil
		},
	})
}

// Metrics counts requests and their latency per matched route
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(responseStatus(c, err))
			m.HTTPRequests.WithLabelValues(c.Request().Method, route, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(c.Request().Method, route, status).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
