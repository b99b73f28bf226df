package routes

import (
	userControllers "github.com/OwaisShaikh-8/Instant-Meal/controllers/user"
	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes registers all "/api/auth/*" endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, d Deps) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/customersignin", userControllers.RegisterCustomerHandler(d.DB, d.sessions()))
		authGroup.POST("/vendorsignin", userControllers.RegisterVendorHandler(d.DB, d.sessions()))
		authGroup.POST("/login", userControllers.LoginHandler(d.DB, d.sessions()))
		authGroup.POST("/logout", userControllers.LogoutHandler(d.sessions(), d.Carts))
	}
}
