package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/handler"
)

// registerProducts mounts /products. Reads are public and go through the
// response cache; writes are admin only.
func registerProducts(api *echo.Group, h *handler.ProductHandler, cache, session, admin echo.MiddlewareFunc) {
	g := api.Group("/products")
	g.GET("", h.List, cache)
	g.GET("/cate/:category", h.Search, cache)
	g.GET("/:id", h.Get, cache)

	g.POST("", h.Create, session, admin)
	g.PUT("/:id", h.Update, session, admin)
	g.DELETE("/:id", h.Delete, session, admin)
}
