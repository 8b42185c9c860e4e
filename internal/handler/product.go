package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/model"
	"github.com/iliyamo/coffee-shop-api/internal/repository"
)

type ProductStore interface {
	Create(ctx context.Context, p *model.Product) error
	GetByID(ctx context.Context, id uint64) (model.Product, error)
	List(ctx context.Context, f repository.ProductFilter, offset, limit int) ([]model.Product, error)
	Count(ctx context.Context, f repository.ProductFilter) (int64, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id uint64) error
}

// ProductHandler serves the menu. Reads are public; writes are admin only
// and drop cached listings through Invalidate when it is set.
type ProductHandler struct {
	Common
	Products   ProductStore
	Invalidate func(ctx context.Context) error
}

func NewProductHandler(common Common, products ProductStore, invalidate func(ctx context.Context) error) *ProductHandler {
	return &ProductHandler{Common: common, Products: products, Invalidate: invalidate}
}

type productReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"product_img"`
}

func (r *productReq) validate() string {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.TrimSpace(r.Category)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	switch {
	case r.Name == "":
		return "name is required"
	case r.Category == "":
		return "category is required"
	case r.Price <= 0:
		return "price must be positive"
	}
	return ""
}

// List returns one page of products.
func (h *ProductHandler) List(c echo.Context) error {
	return h.listFiltered(c, repository.ProductFilter{})
}

// Search lists products in :category (All matches every category) whose
// name contains ?name=.
func (h *ProductHandler) Search(c echo.Context) error {
	return h.listFiltered(c, repository.ProductFilter{Category: c.Param("category"), Name: c.QueryParam("name")})
}

func (h *ProductHandler) listFiltered(c echo.Context, f repository.ProductFilter) error {
	p := h.page(c)
	ctx, cancel := h.ctx(c)
	defer cancel()

	items, err := h.Products.List(ctx, f, p.Offset, p.Limit)
	if err != nil {
		return h.storeErr(c, err, "product")
	}
	total, err := h.Products.Count(ctx, f)
	if err != nil {
		return h.storeErr(c, err, "product")
	}
	return list(c, p, items, total)
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return h.storeErr(c, err, "product")
	}
	return ok(c, http.StatusOK, p)
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	p := model.Product{Name: req.Name, Description: req.Description, Price: req.Price, Category: req.Category, ImageURL: req.ImageURL}
	if err := h.Products.Create(ctx, &p); err != nil {
		return h.storeErr(c, err, "product")
	}
	h.invalidate(ctx)
	return ok(c, http.StatusCreated, p)
}

// Update replaces a product. An empty product_img keeps the stored image.
func (h *ProductHandler) Update(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var req productReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if msg := req.validate(); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	p, err := h.Products.GetByID(ctx, id)
	if err != nil {
		return h.storeErr(c, err, "product")
	}
	p.Name, p.Description, p.Price, p.Category = req.Name, req.Description, req.Price, req.Category
	if req.ImageURL != "" {
		p.ImageURL = req.ImageURL
	}
	if err := h.Products.Update(ctx, p); err != nil {
		return h.storeErr(c, err, "product")
	}
	h.invalidate(ctx)
	return ok(c, http.StatusOK, p)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Products.Delete(ctx, id); err != nil {
		return h.storeErr(c, err, "product")
	}
	h.invalidate(ctx)
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) invalidate(ctx context.Context) {
	if h.Invalidate == nil {
		return
	}
	if err := h.Invalidate(ctx); err != nil {
		h.Log.Warn("invalidate product cache", slog.Any("error", err))
	}
}
