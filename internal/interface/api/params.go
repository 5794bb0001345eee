package api

import (
	"context"
	"net/http"

	"napo-service/internal/domain/entity"

	"github.com/labstack/echo/v4"
)

// pathID reads a positive integer path parameter
func pathID(c echo.Context, name string) (uint, error) {
	var id uint
	if err := echo.PathParamsBinder(c).MustUint(name, &id).BindError(); err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, badRequest(FieldError{Field: name, Error: "must be a positive integer"})
	}
	return id, nil
}

// optionalUint reads an optional unsigned query parameter
func optionalUint(c echo.Context, name string) (*uint, error) {
	if c.QueryParam(name) == "" {
		return nil, nil
	}
	var v uint
	if err := echo.QueryParamsBinder(c).Uint(name, &v).BindError(); err != nil {
		return nil, err
	}
	return &v, nil
}

func includeDeleted(c echo.Context) (bool, error) {
	var include bool
	err := echo.QueryParamsBinder(c).Bool("include_deleted", &include).BindError()
	return include, err
}

// listFilter reads include_deleted, limit and offset
func listFilter(c echo.Context) (entity.ListFilter, error) {
	var f entity.ListFilter
	err := echo.QueryParamsBinder(c).
		Bool("include_deleted", &f.IncludeDeleted).
		Int("limit", &f.Limit).
		Int("offset", &f.Offset).
		BindError()
	return f, err
}

// softDeleteByID handles DELETE /:id with a 204 response
func softDeleteByID(c echo.Context, remove func(ctx context.Context, id uint) error) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := remove(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// restoreByID handles POST /:id/restore, answering with the revived record
func restoreByID[T any](c echo.Context, restore func(ctx context.Context, id uint) (T, error)) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	restored, err := restore(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, restored)
}

// getByID handles GET /:id?include_deleted=
func getByID[T any](c echo.Context, get func(ctx context.Context, id uint, includeDeleted bool) (T, error)) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	include, err := includeDeleted(c)
	if err != nil {
		return err
	}
	found, err := get(c.Request().Context(), id, include)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, found)
}
