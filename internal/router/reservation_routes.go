package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/handler"
)

func registerReservations(api *echo.Group, h *handler.ReservationHandler, session, admin echo.MiddlewareFunc) {
	g := api.Group("/reservations", session)
	g.POST("", h.Create)
	g.GET("", h.Mine)
	g.DELETE("/:id", h.Delete)

	g.GET("/admin", h.All, admin)
	g.PATCH("/:id/status", h.UpdateStatus, admin)
}

// registerReviews mounts /reviews. Anyone may read them.
func registerReviews(api *echo.Group, h *handler.ReviewHandler, session echo.MiddlewareFunc) {
	g := api.Group("/reviews")
	g.GET("", h.List)
	g.POST("", h.Create, session)
	g.DELETE("/:id", h.Delete, session)
}
