// Package handler holds the HTTP handlers. Every response uses the same
// envelope: {"status":"success","data":...} on success and
// {"status":"error","message":...} on failure. Listings wrap their rows as
// {"items":[...],"metadata":{...}} inside data.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/middleware"
	"github.com/iliyamo/coffee-shop-api/internal/model"
	"github.com/iliyamo/coffee-shop-api/internal/pagination"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
)

// Common carries what every handler needs besides its stores.
type Common struct {
	Log      *slog.Logger
	Timeout  time.Duration // bound on store calls per request
	MaxLimit int           // page size cap, 0 disables
}

func (h Common) ctx(c echo.Context) (context.Context, context.CancelFunc) {
	t := h.Timeout
	if t <= 0 {
		t = 5 * time.Second
	}
	return context.WithTimeout(c.Request().Context(), t)
}

// page resolves ?page= and ?limit= and applies the configured cap.
func (h Common) page(c echo.Context) pagination.Paginator {
	return pagination.Parse(c.QueryParam("page"), c.QueryParam("limit")).WithMaxLimit(h.MaxLimit)
}

// Page is the data payload of every listing.
type Page[T any] struct {
	Items    []T                 `json:"items"`
	Metadata pagination.Metadata `json:"metadata"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{"status": "success", "data": data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"status": "error", "message": msg})
}

func list[T any](c echo.Context, p pagination.Paginator, items []T, total int64) error {
	return ok(c, http.StatusOK, Page[T]{Items: items, Metadata: p.Metadata(total)})
}

// storeErr maps repository sentinels onto responses. Anything else is logged
// and reported as a generic 500.
func (h Common) storeErr(c echo.Context, err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, what+" not found")
	case errors.Is(err, repository.ErrForbidden):
		return fail(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, repository.ErrEmailExists):
		return fail(c, http.StatusConflict, "email already exists")
	case errors.Is(err, repository.ErrEmptyCart):
		return fail(c, http.StatusConflict, "no open order items to check out")
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, what+" conflicts with existing data")
	case errors.Is(err, repository.ErrReferenceMissing):
		return fail(c, http.StatusBadRequest, what+" references a missing record")
	}
	h.Log.Error("store call failed",
		slog.String("resource", what),
		slog.String("route", c.Path()),
		slog.Any("error", err))
	return fail(c, http.StatusInternalServerError, "internal server error")
}

func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

func principal(c echo.Context) model.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}

// canAccess reports whether the caller may act on a row owned by ownerID.
func canAccess(c echo.Context, ownerID uint64) bool {
	p := principal(c)
	return p.Admin || p.ID == ownerID
}
