package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/model"
)

type ReviewStore interface {
	Create(ctx context.Context, rv *model.Review) error
	List(ctx context.Context, offset, limit int) ([]model.Review, error)
	Count(ctx context.Context) (int64, error)
	DeleteOwned(ctx context.Context, id, customerID uint64, anyOwner bool) error
}

type ReviewHandler struct {
	Common
	Reviews ReviewStore
}

func NewReviewHandler(common Common, reviews ReviewStore) *ReviewHandler {
	return &ReviewHandler{Common: common, Reviews: reviews}
}

// List is public.
func (h *ReviewHandler) List(c echo.Context) error {
	p := h.page(c)
	ctx, cancel := h.ctx(c)
	defer cancel()

	items, err := h.Reviews.List(ctx, p.Offset, p.Limit)
	if err != nil {
		return h.storeErr(c, err, "review")
	}
	total, err := h.Reviews.Count(ctx)
	if err != nil {
		return h.storeErr(c, err, "review")
	}
	return list(c, p, items, total)
}

// Create posts a review as the caller.
func (h *ReviewHandler) Create(c echo.Context) error {
	var req struct {
		ReviewText string `json:"review_text"`
		Rating     int    `json:"rating"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	req.ReviewText = strings.TrimSpace(req.ReviewText)
	switch {
	case req.ReviewText == "":
		return fail(c, http.StatusBadRequest, "review_text is required")
	case req.Rating < 1 || req.Rating > 5:
		return fail(c, http.StatusBadRequest, "rating must be between 1 and 5")
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	rv := model.Review{CustomerID: principal(c).ID, ReviewText: req.ReviewText, Rating: req.Rating}
	if err := h.Reviews.Create(ctx, &rv); err != nil {
		return h.storeErr(c, err, "review")
	}
	return ok(c, http.StatusCreated, rv)
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	id, valid := parseID(c)
	if !valid {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	me := principal(c)
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Reviews.DeleteOwned(ctx, id, me.ID, me.Admin); err != nil {
		return h.storeErr(c, err, "review")
	}
	return c.NoContent(http.StatusNoContent)
}
