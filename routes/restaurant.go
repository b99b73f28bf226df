package routes

import (
	restaurantControllers "github.com/OwaisShaikh-8/Instant-Meal/controllers/restaurant"
	"github.com/OwaisShaikh-8/Instant-Meal/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRestaurantRoutes registers all "/api/restaurants/*" endpoints.
// Browsing is public; managing needs a vendor token.
func SetupRestaurantRoutes(api *gin.RouterGroup, d Deps) {
	restaurants := api.Group("/restaurants")
	{
		restaurants.GET("", restaurantControllers.GetAllRestaurantsHandler(d.DB))
		restaurants.GET("/city/:city", restaurantControllers.GetRestaurantsByCityHandler(d.DB))
		restaurants.GET("/user/:userId", restaurantControllers.GetRestaurantByUserIDHandler(d.DB))
		restaurants.GET("/:id", restaurantControllers.GetRestaurantByIDHandler(d.DB))
	}

	vendor := restaurants.Group("")
	vendor.Use(middleware.ValidateToken(d.DB, d.Tokens), middleware.RequireVendor)
	{
		vendor.POST("/create", restaurantControllers.CreateRestaurantHandler(d.DB, d.Images))
		vendor.GET("/my", restaurantControllers.GetMyRestaurantHandler(d.DB))
		vendor.DELETE("/:id", restaurantControllers.DeleteRestaurantHandler(d.DB, d.Images))
	}
}
