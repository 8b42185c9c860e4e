package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/handler"
)

// registerOrderItems mounts /order_items, the cart.
func registerOrderItems(api *echo.Group, h *handler.OrderItemHandler, session, admin echo.MiddlewareFunc) {
	g := api.Group("/order_items", session)
	g.GET("", h.Mine)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Patch)
	g.DELETE("/:id", h.Delete)

	g.GET("/admin", h.All, admin)
	g.DELETE("", h.DeleteAll, admin)
}

// registerOrders mounts /orders. POST checks the caller's cart out.
func registerOrders(api *echo.Group, h *handler.OrderHandler, session, admin echo.MiddlewareFunc) {
	g := api.Group("/orders", session)
	g.POST("", h.Checkout)
	g.GET("", h.Mine)
	g.GET("/:id", h.Get)

	g.GET("/admin", h.All, admin)
	g.DELETE("/:id", h.Delete, admin)
}
