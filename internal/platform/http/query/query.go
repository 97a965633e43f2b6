// Package query binds typed query and path parameters from gin requests.
package query

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"taskhub_backend/internal/shared/apperr"
)

const (
	// DefaultLimit is the page size used when the client sends none.
	DefaultLimit = 10
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// Int binds an optional integer query parameter, returning def when absent.
func Int(c *gin.Context, name string, def int) (int, error) {
	v := def
	if err := runtime.BindQueryParameter("form", true, false, name, c.Request.URL.Query(), &v); err != nil {
		return 0, apperr.Validation(fmt.Sprintf("invalid query parameter %s", name))
	}
	return v, nil
}

// String binds a query parameter. A required parameter must be present and non-empty.
func String(c *gin.Context, name string, required bool) (string, error) {
	var v string
	if err := runtime.BindQueryParameter("form", true, required, name, c.Request.URL.Query(), &v); err != nil {
		return "", apperr.Validation(fmt.Sprintf("query parameter %s is required", name))
	}
	if required && v == "" {
		return "", apperr.Validation(fmt.Sprintf("query parameter %s is required", name))
	}
	return v, nil
}

// Pagination binds skip and limit. Negative values are rejected and
// limit is capped at MaxLimit.
func Pagination(c *gin.Context) (skip, limit int, err error) {
	if skip, err = Int(c, "skip", 0); err != nil {
		return 0, 0, err
	}
	if limit, err = Int(c, "limit", DefaultLimit); err != nil {
		return 0, 0, err
	}
	if skip < 0 || limit < 0 {
		return 0, 0, apperr.Validation("skip and limit must not be negative")
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return skip, limit, nil
}

// UUIDParam parses a path parameter as a UUID.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperr.Validation(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}
