package routes

import (
	roleControllers "github.com/OwaisShaikh-8/Instant-Meal/controllers/roles"
	"github.com/OwaisShaikh-8/Instant-Meal/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRoleRoutes registers all "/api/roles/*" endpoints. Vendors only.
func SetupRoleRoutes(api *gin.RouterGroup, d Deps) {
	roles := api.Group("/roles")
	roles.Use(middleware.ValidateToken(d.DB, d.Tokens), middleware.RequireVendor)
	{
		roles.POST("/create", roleControllers.CreateRolesHandler(d.DB))
		roles.GET("/get", roleControllers.GetRolesHandler(d.DB))
		roles.POST("/verifyrole", roleControllers.VerifyRoleHandler(d.DB, d.Tokens))
	}
}
