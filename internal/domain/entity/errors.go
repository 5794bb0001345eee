package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a live record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrReferenceNotFound is returned when a foreign key points at a missing record
	ErrReferenceNotFound = errors.New("referenced record does not exist")

	// ErrConflict is returned when a write collides with an existing record
	ErrConflict = errors.New("record already exists")
)

// ValidationError describes an invalid field value
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for field
func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ReferenceError names the field whose referenced record is missing or deleted
type ReferenceError struct {
	Field string
}

func (e *ReferenceError) Error() string {
	return ErrReferenceNotFound.Error() + ": " + e.Field
}

func (e *ReferenceError) Unwrap() error {
	return ErrReferenceNotFound
}

// IsValidationError reports whether err wraps a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func validateCoordinates(latField, lonField string, lat, lon *float64) error {
	if (lat == nil) != (lon == nil) {
		return NewValidationError(latField, "latitude and longitude must be given together")
	}
	if lat == nil {
		return nil
	}
	if *lat < -90 || *lat > 90 {
		return NewValidationError(latField, "must be within [-90, 90]")
	}
	if *lon < -180 || *lon > 180 {
		return NewValidationError(lonField, "must be within [-180, 180]")
	}
	return nil
}
