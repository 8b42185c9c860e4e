package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

type InventoryStore interface {
	Create(ctx context.Context, it *model.InventoryItem) error
	GetByID(ctx context.Context, id uint64) (model.InventoryItem, error)
	List(ctx context.Context, offset, limit int) ([]model.InventoryItem, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, it model.InventoryItem) error
	Restock(ctx context.Context, id uint64, amount int, at time.Time) error
	Delete(ctx context.Context, id uint64) error
}

// InventoryHandler is mounted behind RequireAdmin.
type InventoryHandler struct {
	Common
	Inventory InventoryStore
	Now       func() time.Time
}

func NewInventoryHandler(common Common, inventory InventoryStore) *InventoryHandler {
	return &InventoryHandler{Common: common, Inventory: inventory, Now: func() time.Time { return time.Now().UTC() }}
}

type inventoryReq struct {
	ItemName    string     `json:"item_name"`
	Quantity    *int       `json:"quantity"`
	Unit        string     `json:"unit"`
	RestockedAt *time.Time `json:"restocked_at"`
}

func (r inventoryReq) toModel() (model.InventoryItem, string) {
	it := model.InventoryItem{
		ItemName:    strings.TrimSpace(r.ItemName),
		Unit:        strings.TrimSpace(r.Unit),
		RestockedAt: r.RestockedAt,
	}
	switch {
	case it.ItemName == "":
		return it, "item_name is required"
	case it.Unit == "":
		return it, "unit is required"
	case r.Quantity == nil || *r.Quantity < 0:
		return it, "quantity must be zero or more"
	}
	it.Quantity = *r.Quantity
	return it, ""
}

func (h *InventoryHandler) List(c echo.Context) error {
	p := h.page(c)
	ctx, cancel := h.ctx(c)
	defer cancel()

	items, err := h.Inventory.List(ctx, p.Offset, p.Limit)
	if err != nil {
		return h.storeErr(c, err, "inventory item")
	}
	total, err := h.Inventory.Count(ctx)
	if err != nil {
		return h.storeErr(c, err, "inventory item")
	}
	return list(c, p, items, total)
}

func (h *InventoryHandler) Get(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	it, err := h.Inventory.GetByID(ctx, id)
	if err != nil {
		return h.storeErr(c, err, "inventory item")
	}
	return ok(c, http.StatusOK, it)
}

func (h *InventoryHandler) Create(c echo.Context) error {
	var req inventoryReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	it, msg := req.toModel()
	if msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Inventory.Create(ctx, &it); err != nil {
		return h.storeErr(c, err, "inventory item")
	}
	return ok(c, http.StatusCreated, it)
}

func (h *InventoryHandler) Update(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req inventoryReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	it, msg := req.toModel()
	if msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	it.ID = id
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Inventory.Update(ctx, it); err != nil {
		return h.storeErr(c, err, "inventory item")
	}
	return ok(c, http.StatusOK, it)
}

// Restock adds {"amount": n} to the stock level and returns the new row.
func (h *InventoryHandler) Restock(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		Amount int `json:"amount"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Amount < 1 {
		return fail(c, http.StatusBadRequest, "amount must be at least 1")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Inventory.Restock(ctx, id, req.Amount, h.Now()); err != nil {
		return h.storeErr(c, err, "inventory item")
	}
	it, err := h.Inventory.GetByID(ctx, id)
	if err != nil {
		return h.storeErr(c, err, "inventory item")
	}
	return ok(c, http.StatusOK, it)
}

func (h *InventoryHandler) Delete(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Inventory.Delete(ctx, id); err != nil {
		return h.storeErr(c, err, "inventory item")
	}
	return c.NoContent(http.StatusNoContent)
}
