package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/coffee-shop-api/internal/handler"
)

// registerStaff mounts the back-office resources. Everything here is admin only.
func registerStaff(api *echo.Group, employees *handler.EmployeeHandler, inventory *handler.InventoryHandler, session, admin echo.MiddlewareFunc) {
	e := api.Group("/employees", session, admin)
	e.GET("", employees.List)
	e.POST("", employees.Create)
	e.GET("/:id", employees.Get)
	e.PUT("/:id", employees.Update)
	e.DELETE("/:id", employees.Delete)

	i := api.Group("/inventory", session, admin)
	i.GET("", inventory.List)
	i.POST("", inventory.Create)
	i.GET("/:id", inventory.Get)
	i.PUT("/:id", inventory.Update)
	i.POST("/:id/restock", inventory.Restock)
	i.DELETE("/:id", inventory.Delete)
}
