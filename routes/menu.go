package routes

import (
	menuControllers "github.com/OwaisShaikh-8/Instant-Meal/controllers/menu"
	"github.com/OwaisShaikh-8/Instant-Meal/middleware"
	"github.com/gin-gonic/gin"
)

// SetupMenuRoutes registers all "/api/menu/:restaurantId/*" endpoints.
func SetupMenuRoutes(api *gin.RouterGroup, d Deps) {
	menu := api.Group("/menu/:restaurantId")
	{
		menu.GET("", menuControllers.GetMenuItemsHandler(d.DB))
		menu.GET("/category/:category", menuControllers.GetMenuItemsByCategoryHandler(d.DB))
		menu.GET("/items/:id", menuControllers.GetMenuItemHandler(d.DB))
	}

	manage := menu.Group("")
	manage.Use(middleware.ValidateToken(d.DB, d.Tokens), middleware.RequireVendor)
	{
		manage.POST("", menuControllers.CreateMenuItemHandler(d.DB, d.Images))
		manage.PUT("/items/:id", menuControllers.UpdateMenuItemHandler(d.DB, d.Images))
		manage.DELETE("/items/:id", menuControllers.DeleteMenuItemHandler(d.DB, d.Images))
		manage.PATCH("/items/:id/toggle", menuControllers.ToggleAvailabilityHandler(d.DB))
	}
}
