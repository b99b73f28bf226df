package routes

import (
	orderControllers "github.com/OwaisShaikh-8/Instant-Meal/controllers/order"
	userControllers "github.com/OwaisShaikh-8/Instant-Meal/controllers/user"
	"github.com/OwaisShaikh-8/Instant-Meal/middleware"
	"github.com/gin-gonic/gin"
)

// SetupAdminRoutes registers the endpoints guarded by the X-API-KEY header.
func SetupAdminRoutes(api *gin.RouterGroup, d Deps) {
	apiKey := middleware.ValidateAPIKey(d.AdminAPIKey)

	api.GET("/auth/allusers", apiKey, userControllers.GetAllUsersHandler(d.DB))
	api.GET("/orders", apiKey, orderControllers.GetAllOrdersHandler(d.Orders))
}
