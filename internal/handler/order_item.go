package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/model"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
)

var paymentMethods = map[string]bool{"cash": true, "card": true, "mobile": true}

type OrderItemStore interface {
	Create(ctx context.Context, it *model.OrderItem) error
	GetByID(ctx context.Context, id uint64) (model.OrderItem, error)
	ListOpenByCustomer(ctx context.Context, customerID uint64, offset, limit int) ([]model.OrderItem, error)
	CountOpenByCustomer(ctx context.Context, customerID uint64) (int64, error)
	ListAll(ctx context.Context, offset, limit int) ([]model.OrderItem, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, it *model.OrderItem) error
	Delete(ctx context.Context, id uint64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// OrderItemHandler manages cart lines. Customers see and edit their own open
// lines; admins see everything.
type OrderItemHandler struct {
	Common
	Items    OrderItemStore
	Products ProductStore
}

func NewOrderItemHandler(common Common, items OrderItemStore, products ProductStore) *OrderItemHandler {
	return &OrderItemHandler{Common: common, Items: items, Products: products}
}

type orderItemReq struct {
	CustomerID    uint64   `json:"customer_id"`
	ProductID     uint64   `json:"product_id"`
	PaymentMethod string   `json:"payment_method"`
	Quantity      *int     `json:"quantity"`
	Price         *float64 `json:"price"`
	Status        *bool    `json:"status"`
}

// Mine lists the caller's open lines.
func (h *OrderItemHandler) Mine(c echo.Context) error {
	p := h.page(c)
	me := principal(c).ID
	ctx, cancel := h.ctx(c)
	defer cancel()

	items, err := h.Items.ListOpenByCustomer(ctx, me, p.Offset, p.Limit)
	if err != nil {
		return h.storeErr(c, err, "order item")
	}
	total, err := h.Items.CountOpenByCustomer(ctx, me)
	if err != nil {
		return h.storeErr(c, err, "order item")
	}
	return list(c, p, items, total)
}

// All lists every line (admin).
func (h *OrderItemHandler) All(c echo.Context) error {
	p := h.page(c)
	ctx, cancel := h.ctx(c)
	defer cancel()

	items, err := h.Items.ListAll(ctx, p.Offset, p.Limit)
	if err != nil {
		return h.storeErr(c, err, "order item")
	}
	total, err := h.Items.CountAll(ctx)
	if err != nil {
		return h.storeErr(c, err, "order item")
	}
	return list(c, p, items, total)
}

func (h *OrderItemHandler) Get(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	it, err := h.Items.GetByID(ctx, id)
	if err != nil {
		return h.storeErr(c, err, "order item")
	}
	if !canAccess(c, it.CustomerID) {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	return ok(c, http.StatusOK, it)
}

// Create adds a line to a cart. customer_id defaults to the caller and only
// admins may name someone else. A missing price is taken from the product;
// total_price is always quantity*price.
func (h *OrderItemHandler) Create(c echo.Context) error {
	var req orderItemReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	me := principal(c)
	if req.CustomerID == 0 {
		req.CustomerID = me.ID
	}
	if req.CustomerID != me.ID && !me.Admin {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	req.PaymentMethod = strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	switch {
	case req.ProductID == 0:
		return fail(c, http.StatusBadRequest, "product_id is required")
	case !paymentMethods[req.PaymentMethod]:
		return fail(c, http.StatusBadRequest, "payment_method must be cash, card or mobile")
	case req.Quantity == nil || *req.Quantity < 1:
		return fail(c, http.StatusBadRequest, "quantity must be at least 1")
	case req.Price != nil && *req.Price <= 0:
		return fail(c, http.StatusBadRequest, "price must be positive")
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	product, err := h.Products.GetByID(ctx, req.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusBadRequest, "product does not exist")
	}
	if err != nil {
		return h.storeErr(c, err, "product")
	}
	it := model.OrderItem{
		CustomerID:    req.CustomerID,
		ProductID:     req.ProductID,
		ProductName:   product.Name,
		PaymentMethod: req.PaymentMethod,
		Quantity:      *req.Quantity,
		Price:         product.Price,
	}
	if req.Price != nil {
		it.Price = *req.Price
	}
	if err := h.Items.Create(ctx, &it); err != nil {
		return h.storeErr(c, err, "order item")
	}
	return ok(c, http.StatusCreated, it)
}

// Patch changes the supplied fields of a line. Customers can only touch their
// own open lines; only admins may set status.
func (h *OrderItemHandler) Patch(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req orderItemReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	me := principal(c)

	ctx, cancel := h.ctx(c)
	defer cancel()

	it, err := h.Items.GetByID(ctx, id)
	if err != nil {
		return h.storeErr(c, err, "order item")
	}
	if !canAccess(c, it.CustomerID) {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	if !me.Admin && (it.Status || req.Status != nil) {
		return fail(c, http.StatusConflict, "order item is already checked out")
	}

	if req.ProductID != 0 && req.ProductID != it.ProductID {
		product, err := h.Products.GetByID(ctx, req.ProductID)
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusBadRequest, "product does not exist")
		}
		if err != nil {
			return h.storeErr(c, err, "product")
		}
		it.ProductID, it.ProductName, it.Price = product.ID, product.Name, product.Price
	}
	if m := strings.ToLower(strings.TrimSpace(req.PaymentMethod)); m != "" {
		if !paymentMethods[m] {
			return fail(c, http.StatusBadRequest, "payment_method must be cash, card or mobile")
		}
		it.PaymentMethod = m
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return fail(c, http.StatusBadRequest, "quantity must be at least 1")
		}
		it.Quantity = *req.Quantity
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return fail(c, http.StatusBadRequest, "price must be positive")
		}
		it.Price = *req.Price
	}
	if req.Status != nil {
		it.Status = *req.Status
	}
	if err := h.Items.Update(ctx, &it); err != nil {
		return h.storeErr(c, err, "order item")
	}
	return ok(c, http.StatusOK, it)
}

func (h *OrderItemHandler) Delete(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	it, err := h.Items.GetByID(ctx, id)
	if err != nil {
		return h.storeErr(c, err, "order item")
	}
	if !canAccess(c, it.CustomerID) {
		return fail(c, http.StatusForbidden, "forbidden")
	}
	if err := h.Items.Delete(ctx, id); err != nil {
		return h.storeErr(c, err, "order item")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderItemHandler) DeleteAll(c echo.Context) error {
	ctx, cancel := h.ctx(c)
	defer cancel()

	n, err := h.Items.DeleteAll(ctx)
	if err != nil {
		return h.storeErr(c, err, "order item")
	}
	return ok(c, http.StatusOK, echo.Map{"deleted": n})
}
