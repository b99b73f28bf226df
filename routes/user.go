package routes

import (
	cartControllers "github.com/OwaisShaikh-8/Instant-Meal/controllers/cart"
	userControllers "github.com/OwaisShaikh-8/Instant-Meal/controllers/user"
	"github.com/OwaisShaikh-8/Instant-Meal/middleware"
	"github.com/gin-gonic/gin"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.DB, d.Tokens))
	{
		// ──────────────── Profile ────────────────
		userGroup.GET("/me", userControllers.GetMeHandler())

		// ──────────────── Shopping Carts ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCartsHandler(d.Carts))
			cartGroup.GET("/:restaurantId", cartControllers.GetCartHandler(d.DB, d.Carts))
			cartGroup.DELETE("/:restaurantId", cartControllers.ClearCartHandler(d.Carts))
			cartGroup.POST("/:restaurantId/items/:itemId", cartControllers.AddItemHandler(d.DB, d.Carts))
			cartGroup.DELETE("/:restaurantId/items/:itemId", cartControllers.RemoveItemHandler(d.Carts))
			cartGroup.DELETE("/:restaurantId/items/:itemId/all", cartControllers.DeleteItemHandler(d.Carts))
			cartGroup.POST("/:restaurantId/checkout", cartControllers.CheckoutHandler(d.DB, d.Carts, d.Orders))
		}
	}
}
