package orderControllers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/OwaisShaikh-8/Instant-Meal/apperr"
	"github.com/OwaisShaikh-8/Instant-Meal/auth"
	"github.com/OwaisShaikh-8/Instant-Meal/controllers/respond"
	"github.com/OwaisShaikh-8/Instant-Meal/middleware"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -------- Helpers --------

var viewCaps = []auth.Capability{auth.CapOrders, auth.CapKitchen, auth.CapDelivery}

// canView lets through any restaurant role that works on orders.
func canView(db *gorm.DB, p *auth.Principal, restaurantID string) error {
	var err error
	for _, c := range viewCaps {
		if err = middleware.RestaurantAccess(db, p, restaurantID, c); err == nil {
			return nil
		}
		if !errors.Is(err, apperr.ErrForbidden) {
			return err
		}
	}
	return err
}

// versionFrom reads the version a client last saw, from the body or
// from an If-Match header ("3" or "\"3\"").
func versionFrom(c *gin.Context, body *int) (*int, error) {
	if body != nil {
		return body, nil
	}
	h := strings.Trim(strings.TrimSpace(c.GetHeader("If-Match")), `"`)
	if h == "" || h == "*" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(h, "W/"))
	if err != nil {
		return nil, apperr.Validation("Invalid If-Match header")
	}
	return &n, nil
}

// -------- Handlers --------

// POST /api/orders/create (multipart)
func PlaceOrderHandler(lc *Lifecycle) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)

		form, err := c.MultipartForm()
		if err != nil {
			respond.Error(c, apperr.Validation("Expected a multipart form"))
			return
		}
		req, err := RequestFromForm(url.Values(form.Value))
		if err != nil {
			respond.Error(c, err)
			return
		}
		// The customer is whoever is signed in, whatever the form says.
		req.CustomerID = user.ID
		req.CustomerName = user.Fullname
		if files := form.File["easypaisaScreenshot"]; len(files) > 0 {
			req.Proof = files[0]
		}

		order, err := lc.Create(c.Request.Context(), req)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.Header("ETag", strconv.Quote(strconv.Itoa(order.Version)))
		respond.OK(c, http.StatusCreated, "Order placed successfully", gin.H{"order": order})
	}
}

// GET /api/orders/:orderId
func GetOrderByIDHandler(lc *Lifecycle, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := lc.Get(c.Request.Context(), c.Param("orderId"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		p := middleware.CurrentPrincipal(c)
		if order.CustomerID != p.UserID || p.IsStaff() {
			if err := canView(db, p, order.RestaurantID); err != nil {
				respond.Error(c, err)
				return
			}
		}
		c.Header("ETag", strconv.Quote(strconv.Itoa(order.Version)))
		respond.OK(c, http.StatusOK, "Order fetched", gin.H{"order": order})
	}
}

// GET /api/orders/customer/:customerId
func GetCustomerOrdersHandler(lc *Lifecycle) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Param("customerId")
		if p := middleware.CurrentPrincipal(c); p.IsStaff() || p.UserID != customerID {
			respond.Error(c, apperr.Forbidden("You can only view your own orders"))
			return
		}
		orders, err := lc.ListByCustomer(c.Request.Context(), customerID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		respond.OK(c, http.StatusOK, "Orders fetched", gin.H{"count": len(orders), "orders": orders})
	}
}

// GET /api/orders/restaurant/:restaurantId
func GetRestaurantOrdersHandler(lc *Lifecycle, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantId")
		if err := canView(db, middleware.CurrentPrincipal(c), restaurantID); err != nil {
			respond.Error(c, err)
			return
		}
		orders, err := lc.ListByRestaurant(c.Request.Context(), restaurantID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		respond.OK(c, http.StatusOK, "Orders fetched", gin.H{"count": len(orders), "orders": orders})
	}
}

// GET /api/orders (admin API key)
func GetAllOrdersHandler(lc *Lifecycle) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := lc.ListAll(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		respond.OK(c, http.StatusOK, "Orders fetched", gin.H{"count": len(orders), "orders": orders})
	}
}

// PATCH /api/orders/:orderId/status
func UpdateOrderStatusHandler(lc *Lifecycle, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, apperr.Validation("Invalid request body"))
			return
		}
		version, err := versionFrom(c, req.Version)
		if err != nil {
			respond.Error(c, err)
			return
		}

		order, err := lc.Get(c.Request.Context(), c.Param("orderId"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		need := auth.CapOrders
		if st, ok := models.ParseOrderStatus(req.Status); ok {
			need = auth.CapabilityForStatus(st)
		}
		if err := middleware.RestaurantAccess(db, middleware.CurrentPrincipal(c), order.RestaurantID, need); err != nil {
			respond.Error(c, err)
			return
		}

		updated, err := lc.UpdateStatus(c.Request.Context(), order.ID, req.Status, version)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.Header("ETag", strconv.Quote(strconv.Itoa(updated.Version)))
		respond.OK(c, http.StatusOK, "Order status updated successfully", gin.H{"order": updated})
	}
}

// DELETE /api/orders/:orderId
func DeleteOrderHandler(lc *Lifecycle, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := lc.Get(c.Request.Context(), c.Param("orderId"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		if err := middleware.RestaurantAccess(db, middleware.CurrentPrincipal(c), order.RestaurantID, auth.CapOrders); err != nil {
			respond.Error(c, err)
			return
		}
		if _, err := lc.Delete(c.Request.Context(), order.ID); err != nil {
			respond.Error(c, err)
			return
		}
		respond.OK(c, http.StatusOK, "Order deleted successfully", nil)
	}
}
