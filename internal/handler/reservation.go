package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

type ReservationStore interface {
	Create(ctx context.Context, rv *model.Reservation) error
	ListByCustomer(ctx context.Context, customerID uint64, offset, limit int) ([]model.Reservation, error)
	CountByCustomer(ctx context.Context, customerID uint64) (int64, error)
	ListAll(ctx context.Context, offset, limit int) ([]model.Reservation, error)
	CountAll(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
	DeleteOwned(ctx context.Context, id, customerID uint64, anyOwner bool) error
}

type ReservationHandler struct {
	Common
	Reservations ReservationStore
}

func NewReservationHandler(common Common, reservations ReservationStore) *ReservationHandler {
	return &ReservationHandler{Common: common, Reservations: reservations}
}

type reservationReq struct {
	ReservationDate time.Time `json:"reservation_date"`
	NumberOfPeople  int       `json:"number_of_people"`
	TableNumber     int       `json:"table_number"`
}

// Create books a table for the caller. New bookings start as pending.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	switch {
	case req.ReservationDate.IsZero():
		return fail(c, http.StatusBadRequest, "reservation_date is required")
	case req.NumberOfPeople < 1:
		return fail(c, http.StatusBadRequest, "number_of_people must be at least 1")
	case req.TableNumber < 1:
		return fail(c, http.StatusBadRequest, "table_number must be at least 1")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	rv := model.Reservation{
		CustomerID:      principal(c).ID,
		ReservationDate: req.ReservationDate.UTC(),
		NumberOfPeople:  req.NumberOfPeople,
		TableNumber:     req.TableNumber,
	}
	if err := h.Reservations.Create(ctx, &rv); err != nil {
		return h.storeErr(c, err, "reservation")
	}
	return ok(c, http.StatusCreated, rv)
}

func (h *ReservationHandler) Mine(c echo.Context) error {
	p := h.page(c)
	me := principal(c).ID
	ctx, cancel := h.ctx(c)
	defer cancel()

	items, err := h.Reservations.ListByCustomer(ctx, me, p.Offset, p.Limit)
	if err != nil {
		return h.storeErr(c, err, "reservation")
	}
	total, err := h.Reservations.CountByCustomer(ctx, me)
	if err != nil {
		return h.storeErr(c, err, "reservation")
	}
	return list(c, p, items, total)
}

func (h *ReservationHandler) All(c echo.Context) error {
	p := h.page(c)
	ctx, cancel := h.ctx(c)
	defer cancel()

	items, err := h.Reservations.ListAll(ctx, p.Offset, p.Limit)
	if err != nil {
		return h.storeErr(c, err, "reservation")
	}
	total, err := h.Reservations.CountAll(ctx)
	if err != nil {
		return h.storeErr(c, err, "reservation")
	}
	return list(c, p, items, total)
}

// UpdateStatus sets {"status": "pending"|"confirmed"|"cancelled"} (admin).
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !model.ValidReservationStatus(status) {
		return fail(c, http.StatusBadRequest, "status must be pending, confirmed or cancelled")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Reservations.UpdateStatus(ctx, id, status); err != nil {
		return h.storeErr(c, err, "reservation")
	}
	return ok(c, http.StatusOK, echo.Map{"reservation_id": id, "status": status})
}

func (h *ReservationHandler) Delete(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	me := principal(c)
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Reservations.DeleteOwned(ctx, id, me.ID, me.Admin); err != nil {
		return h.storeErr(c, err, "reservation")
	}
	return c.NoContent(http.StatusNoContent)
}
