package routes

import (
	"github.com/OwaisShaikh-8/Instant-Meal/auth"
	"github.com/OwaisShaikh-8/Instant-Meal/cart"
	orderControllers "github.com/OwaisShaikh-8/Instant-Meal/controllers/order"
	userControllers "github.com/OwaisShaikh-8/Instant-Meal/controllers/user"
	"github.com/OwaisShaikh-8/Instant-Meal/events"
	"github.com/OwaisShaikh-8/Instant-Meal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps is everything the handlers are built from.
type Deps struct {
	DB           *gorm.DB
	Tokens       *auth.Tokens
	CookieSecure bool
	AdminAPIKey  string
	Images       storage.ImageStore
	Carts        cart.Store
	Hub          *events.Hub // nil disables the order websocket
	Orders       *orderControllers.Lifecycle

	// UploadsDir is served under /uploads when images are kept on disk.
	UploadsDir string
}

func (d Deps) sessions() userControllers.Sessions {
	return userControllers.Sessions{Tokens: d.Tokens, Secure: d.CookieSecure}
}

// SetupRoutes is the single entry-point that wires every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	if d.UploadsDir != "" {
		r.Static("/uploads", d.UploadsDir)
	}

	api := r.Group("/api")

	// 1️⃣ Sign up / sign in
	SetupAuthRoutes(api, d)

	// 2️⃣ Restaurants and their menus
	SetupRestaurantRoutes(api, d)
	SetupMenuRoutes(api, d)

	// 3️⃣ Staff roles
	SetupRoleRoutes(api, d)

	// 4️⃣ Orders
	SetupOrderRoutes(api, d)

	// 5️⃣ Customer carts (JWT)
	SetupUserRoutes(r, d)

	// 6️⃣ Admin (API key)
	SetupAdminRoutes(api, d)
}
