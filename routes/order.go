package routes

import (
	orderControllers "github.com/OwaisShaikh-8/Instant-Meal/controllers/order"
	"github.com/OwaisShaikh-8/Instant-Meal/middleware"
	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes registers the JWT-protected "/api/orders/*" endpoints.
// The API-key listing lives with the admin routes.
func SetupOrderRoutes(api *gin.RouterGroup, d Deps) {
	orders := api.Group("/orders")
	orders.Use(middleware.ValidateToken(d.DB, d.Tokens))
	{
		// Create a new order
		orders.POST("/create", orderControllers.PlaceOrderHandler(d.Orders))

		// Order history
		orders.GET("/customer/:customerId", orderControllers.GetCustomerOrdersHandler(d.Orders))
		orders.GET("/restaurant/:restaurantId", orderControllers.GetRestaurantOrdersHandler(d.Orders, d.DB))
		orders.GET("/restaurant/:restaurantId/export", orderControllers.ExportRestaurantOrdersHandler(d.Orders, d.DB))

		// Live feed for the vendor dashboard
		if d.Hub != nil {
			orders.GET("/ws/restaurant/:restaurantId", orderControllers.OrderWebSocketHandler(d.Hub, d.DB))
		}

		// Single order
		orders.GET("/:orderId", orderControllers.GetOrderByIDHandler(d.Orders, d.DB))
		orders.PATCH("/:orderId/status", orderControllers.UpdateOrderStatusHandler(d.Orders, d.DB))
		orders.DELETE("/:orderId", orderControllers.DeleteOrderHandler(d.Orders, d.DB))
	}
}
