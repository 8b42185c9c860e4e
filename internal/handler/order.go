package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/model"
	"github.com/iliyamo/coffee-shop-api/internal/queue"
)

// publishTimeout bounds the background order.placed publish.
const publishTimeout = 10 * time.Second

type OrderStore interface {
	Checkout(ctx context.Context, customerID uint64, paymentMethod string, employeeID *uint64) (model.Order, error)
	GetByID(ctx context.Context, id uint64) (model.Order, error)
	ListByCustomer(ctx context.Context, customerID uint64, offset, limit int) ([]model.Order, error)
	CountByCustomer(ctx context.Context, customerID uint64) (int64, error)
	ListAll(ctx context.Context, offset, limit int) ([]model.Order, error)
	CountAll(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint64) error
}

// OrderEvents receives order.placed notifications.
type OrderEvents interface {
	PublishOrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error
}

type OrderHandler struct {
	Common
	Orders OrderStore
	Events OrderEvents
}

func NewOrderHandler(common Common, orders OrderStore, events OrderEvents) *OrderHandler {
	return &OrderHandler{Common: common, Orders: orders, Events: events}
}

type checkoutReq struct {
	PaymentMethod string  `json:"payment_method"`
	EmployeeID    *uint64 `json:"employee_id"`
}

// Checkout turns the caller's open cart into an order. The order.placed
// event is published in the background; a broker outage never fails the
// request.
func (h *OrderHandler) Checkout(c echo.Context) error {
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if req.PaymentMethod != "" && !paymentMethods[req.PaymentMethod] {
		return fail(c, http.StatusBadRequest, "payment_method must be cash, card or mobile")
	}
	me := principal(c)

	ctx, cancel := h.ctx(c)
	defer cancel()

	order, err := h.Orders.Checkout(ctx, me.ID, req.PaymentMethod, req.EmployeeID)
	if err != nil {
		return h.storeErr(c, err, "order")
	}
	if h.Events != nil {
		go h.publish(orderPlaced(order, me.Email))
	}
	return ok(c, http.StatusCreated, order)
}

func (h *OrderHandler) publish(ev queue.OrderPlacedEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	// The publisher logs and counts its own failures.
	_ = h.Events.PublishOrderPlaced(ctx, ev)
}

func orderPlaced(o model.Order, email string) queue.OrderPlacedEvent {
	ev := queue.OrderPlacedEvent{
		OrderID:       o.ID,
		CustomerID:    o.CustomerID,
		CustomerEmail: email,
		TotalPrice:    o.TotalPrice,
		PaymentMethod: o.PaymentMethod,
		PlacedAt:      o.OrderDate.UTC().Format(time.RFC3339),
	}
	for _, d := range o.Details {
		ev.Items = append(ev.Items, queue.OrderLine{ProductID: d.ProductID, Quantity: d.Quantity, Price: d.Price})
	}
	return ev
}

// Mine lists the caller's orders, newest first.
func (h *OrderHandler) Mine(c echo.Context) error {
	p := h.page(c)
	me := principal(c).ID
	ctx, cancel := h.ctx(c)
	defer cancel()

	items, err := h.Orders.ListByCustomer(ctx, me, p.Offset, p.Limit)
	if err != nil {
		return h.storeErr(c, err, "order")
	}
	total, err := h.Orders.CountByCustomer(ctx, me)
	if err != nil {
		return h.storeErr(c, err, "order")
	}
	return list(c, p, items, total)
}

func (h *OrderHandler) All(c echo.Context) error {
	p := h.page(c)
	ctx, cancel := h.ctx(c)
	defer cancel()

	items, err := h.Orders.ListAll(ctx, p.Offset, p.Limit)
	if err != nil {
		return h.storeErr(c, err, "order")
	}
	total, err := h.Orders.CountAll(ctx)
	if err != nil {
		return h.storeErr(c, err, "order")
	}
	return list(c, p, items, total)
}

// Get returns an order with its lines to its owner or an admin.
func (h *OrderHandler) Get(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	o, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		return h.storeErr(c, err, "order")
	}
	if !canAccess(c, o.CustomerID) {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	return ok(c, http.StatusOK, o)
}

func (h *OrderHandler) Delete(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Orders.Delete(ctx, id); err != nil {
		return h.storeErr(c, err, "order")
	}
	return c.NoContent(http.StatusNoContent)
}
