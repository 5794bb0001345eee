package api

import (
	"errors"
	"net/http"
	"strings"

	"napo-service/internal/domain/entity"
	"napo-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldError is a field-level problem with a request
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// HTTPError is the JSON body of every failed request
type HTTPError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Errors  []FieldError `json:"errors"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func newHTTPError(status int, message string, fields ...FieldError) *HTTPError {
	if fields == nil {
		fields = []FieldError{}
	}
	return &HTTPError{
		Code:    statusCode(status),
		Message: message,
		Status:  status,
		Errors:  fields,
	}
}

// statusCode turns a status into an UPPER_SNAKE code, e.g. 404 -> NOT_FOUND
func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}

// humanize turns a snake_case field name into Title Case words
func humanize(field string) string {
	if field == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(field, "_", " "))
}

func badRequest(fields ...FieldError) *HTTPError {
	message := "Validation failed"
	if len(fields) == 1 {
		message = humanize(fields[0].Field) + " " + fields[0].Error
	}
	return newHTTPError(http.StatusBadRequest, message, fields...)
}

const referenceMessage = "Referenced record does not exist"

// toHTTPError maps any error returned by a handler to its response
func toHTTPError(err error) *HTTPError {
	var (
		httpErr    *HTTPError
		validation *entity.ValidationError
		reference  *entity.ReferenceError
		bindErr    *echo.BindingError
		echoErr    *echo.HTTPError
	)

	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.As(err, &validation):
		return badRequest(FieldError{Field: validation.Field, Error: validation.Message})
	case errors.As(err, &reference):
		return newHTTPError(http.StatusBadRequest, referenceMessage,
			FieldError{Field: reference.Field, Error: "does not exist"})
	case errors.Is(err, entity.ErrReferenceNotFound):
		return newHTTPError(http.StatusBadRequest, referenceMessage)
	case errors.Is(err, entity.ErrNotFound):
		return newHTTPError(http.StatusNotFound, "Record not found")
	case errors.Is(err, entity.ErrConflict):
		return newHTTPError(http.StatusConflict, "Record already exists")
	case errors.As(err, &bindErr):
		return badRequest(FieldError{Field: bindErr.Field, Error: "has an invalid value"})
	case errors.As(err, &echoErr):
		if echoErr.Code == http.StatusNotFound {
			return newHTTPError(http.StatusNotFound, "Route not found")
		}
		message, ok := echoErr.Message.(string)
		if !ok {
			message = http.StatusText(echoErr.Code)
		}
		return newHTTPError(echoErr.Code, message)
	}
	return newHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// ErrorHandler writes the uniform error body and logs server faults
func ErrorHandler(log logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		httpErr := toHTTPError(err)
		switch {
		case httpErr.Status >= http.StatusInternalServerError:
			log.Error("Request failed",
				"request_id", GetRequestID(c),
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
		case errors.Is(err, entity.ErrReferenceNotFound):
			log.Warn("Request referenced a missing record",
				"request_id", GetRequestID(c),
				"path", c.Path(),
				"error", err,
			)
		}

		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.Status)
		} else {
			err = c.JSON(httpErr.Status, httpErr)
		}
		if err != nil {
			log.Error("Failed to write error response", "error", err)
		}
	}
}
