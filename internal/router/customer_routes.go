package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/handler"
)

// registerCustomers mounts /customers. Register and login are open; the rest
// need a session, and listing or wiping customers needs the admin role.
func registerCustomers(api *echo.Group, h *handler.CustomerHandler, session, admin echo.MiddlewareFunc) {
	g := api.Group("/customers")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)

	g.POST("/logout", h.Logout, session)
	g.GET("/me", h.Me, session)
	g.GET("/:id", h.Get, session)
	g.PUT("/:id", h.Update, session)
	g.DELETE("/:id", h.Delete, session)

	g.GET("", h.List, session, admin)
	g.DELETE("", h.DeleteAll, session, admin)
}
