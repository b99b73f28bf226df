package orderControllers

import (
	"log"

	"github.com/OwaisShaikh-8/Instant-Meal/controllers/respond"
	"github.com/OwaisShaikh-8/Instant-Meal/events"
	"github.com/OwaisShaikh-8/Instant-Meal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /api/orders/ws/restaurant/:restaurantId
//
// Streams order.created / order.status_changed / order.deleted events of one
// restaurant to its dashboard.
func OrderWebSocketHandler(hub *events.Hub, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantId")
		if err := canView(db, middleware.CurrentPrincipal(c), restaurantID); err != nil {
			respond.Error(c, err)
			return
		}
		if err := hub.Serve(c.Writer, c.Request, restaurantID); err != nil {
			log.Printf("⚠️ Websocket upgrade failed for restaurant %s: %v", restaurantID, err)
		}
	}
}
