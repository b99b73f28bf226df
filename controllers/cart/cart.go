package cartControllers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/OwaisShaikh-8/Instant-Meal/apperr"
	"github.com/OwaisShaikh-8/Instant-Meal/cart"
	orderControllers "github.com/OwaisShaikh-8/Instant-Meal/controllers/order"
	"github.com/OwaisShaikh-8/Instant-Meal/controllers/respond"
	"github.com/OwaisShaikh-8/Instant-Meal/middleware"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -------- Helpers --------

// openSession loads the signed-in customer's carts. Staff tokens act for a
// restaurant and have no cart of their own.
func openSession(c *gin.Context, store cart.Store) (*cart.Session, error) {
	p := middleware.CurrentPrincipal(c)
	if p == nil {
		return nil, apperr.Unauthorized("not signed in")
	}
	if p.IsStaff() {
		return nil, apperr.Forbidden("Staff accounts have no cart")
	}
	return cart.Open(c.Request.Context(), store, p.UserID)
}

// PriceCart joins cart lines with the restaurant's live menu. Lines whose
// item is gone from the menu, or switched off, are returned as missing.
func PriceCart(db *gorm.DB, restaurantID string, lines []cart.Line) (priced []cart.PricedLine, missing []string, err error) {
	if len(lines) == 0 {
		return []cart.PricedLine{}, nil, nil
	}
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ItemID
	}

	var menu []models.MenuItem
	if err := db.Where("restaurant_id = ? AND id IN ?", restaurantID, ids).Find(&menu).Error; err != nil {
		return nil, nil, err
	}
	byID := make(map[string]models.MenuItem, len(menu))
	for _, m := range menu {
		byID[m.ID] = m
	}

	priced = make([]cart.PricedLine, 0, len(lines))
	for _, l := range lines {
		m, ok := byID[l.ItemID]
		if !ok || !m.Available {
			missing = append(missing, l.ItemID)
			continue
		}
		priced = append(priced, cart.PricedLine{
			ItemID:      m.ID,
			Name:        m.Name,
			Description: m.Description,
			Price:       m.Price,
			Quantity:    l.Quantity,
			Image:       m.Image,
		})
	}
	return priced, missing, nil
}

func orderTypeFrom(raw string) (models.OrderType, error) {
	if raw == "" {
		return models.OrderTypeDelivery, nil
	}
	t, ok := models.ParseOrderType(raw)
	if !ok {
		return "", apperr.Validation("Invalid order type '%s'", raw)
	}
	return t, nil
}

func respondCarts(c *gin.Context, message string, s *cart.Session, restaurantID string) {
	respond.OK(c, http.StatusOK, message, gin.H{
		"items":      s.Carts().Items(restaurantID),
		"totalItems": s.Carts().TotalItems(restaurantID),
	})
}

// -------- Handlers --------

// GET /user/cart
func GetCartsHandler(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := openSession(c, store)
		if err != nil {
			respond.Error(c, err)
			return
		}
		counts := gin.H{}
		for _, id := range s.Carts().Restaurants() {
			counts[id] = s.Carts().TotalItems(id)
		}
		respond.OK(c, http.StatusOK, "Carts fetched", gin.H{"restaurants": counts})
	}
}

// GET /user/cart/:restaurantId?orderType=
func GetCartHandler(db *gorm.DB, store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantId")
		orderType, err := orderTypeFrom(c.Query("orderType"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		s, err := openSession(c, store)
		if err != nil {
			respond.Error(c, err)
			return
		}

		lines, missing, err := PriceCart(db.WithContext(c.Request.Context()), restaurantID, s.Carts().Items(restaurantID))
		if err != nil {
			respond.Error(c, err)
			return
		}
		respond.OK(c, http.StatusOK, "Cart fetched", gin.H{
			"restaurantId": restaurantID,
			"orderType":    orderType,
			"items":        lines,
			"unavailable":  missing,
			"summary":      cart.PriceLines(lines, orderType).Rounded(),
		})
	}
}

// POST /user/cart/:restaurantId/items/:itemId
func AddItemHandler(db *gorm.DB, store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID, itemID := c.Param("restaurantId"), c.Param("itemId")

		var item models.MenuItem
		if err := db.WithContext(c.Request.Context()).
			Select("id", "available").
			First(&item, "id = ? AND restaurant_id = ?", itemID, restaurantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = apperr.NotFound("Menu item not found")
			}
			respond.Error(c, err)
			return
		}
		if !item.Available {
			respond.Error(c, apperr.Validation("This item is currently unavailable"))
			return
		}

		s, err := openSession(c, store)
		if err != nil {
			respond.Error(c, err)
			return
		}
		if err := s.AddItem(c.Request.Context(), restaurantID, itemID); err != nil {
			respond.Error(c, err)
			return
		}
		respondCarts(c, "Item added to cart", s, restaurantID)
	}
}

// DELETE /user/cart/:restaurantId/items/:itemId
func RemoveItemHandler(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantId")
		s, err := openSession(c, store)
		if err != nil {
			respond.Error(c, err)
			return
		}
		if err := s.RemoveItem(c.Request.Context(), restaurantID, c.Param("itemId")); err != nil {
			respond.Error(c, err)
			return
		}
		respondCarts(c, "Item removed from cart", s, restaurantID)
	}
}

// DELETE /user/cart/:restaurantId/items/:itemId/all
func DeleteItemHandler(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantId")
		s, err := openSession(c, store)
		if err != nil {
			respond.Error(c, err)
			return
		}
		if err := s.DeleteItem(c.Request.Context(), restaurantID, c.Param("itemId")); err != nil {
			respond.Error(c, err)
			return
		}
		respondCarts(c, "Item deleted from cart", s, restaurantID)
	}
}

// DELETE /user/cart/:restaurantId
func ClearCartHandler(store cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurantId")
		s, err := openSession(c, store)
		if err != nil {
			respond.Error(c, err)
			return
		}
		if err := s.Clear(c.Request.Context(), restaurantID); err != nil {
			respond.Error(c, err)
			return
		}
		respondCarts(c, "Cart cleared", s, restaurantID)
	}
}

// POST /user/cart/:restaurantId/checkout (multipart)
//
// Prices the cart from the menu, places the order and empties that
// restaurant's cart.
func CheckoutHandler(db *gorm.DB, store cart.Store, lc *orderControllers.Lifecycle) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctxDB := db.WithContext(ctx)
		restaurantID := c.Param("restaurantId")

		s, err := openSession(c, store)
		if err != nil {
			respond.Error(c, err)
			return
		}
		if s.Carts().TotalItems(restaurantID) == 0 {
			respond.Error(c, apperr.Validation("Your cart is empty"))
			return
		}

		var restaurant models.Restaurant
		if err := ctxDB.Select("id", "name").First(&restaurant, "id = ?", restaurantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = apperr.NotFound("Restaurant not found")
			}
			respond.Error(c, err)
			return
		}

		lines, missing, err := PriceCart(ctxDB, restaurantID, s.Carts().Items(restaurantID))
		if err != nil {
			respond.Error(c, err)
			return
		}
		if len(missing) > 0 {
			respond.Error(c, apperr.Validation("Some items are no longer available: %s", strings.Join(missing, ", ")))
			return
		}

		user := middleware.CurrentUser(c)
		sub := cart.BuildSubmission(cart.Checkout{
			RestaurantID:        restaurant.ID,
			RestaurantName:      restaurant.Name,
			CustomerID:          user.ID,
			CustomerName:        user.Fullname,
			OrderType:           models.OrderType(strings.TrimSpace(c.PostForm("orderType"))),
			DeliveryAddress:     c.PostForm("deliveryAddress"),
			ArrivalTime:         strings.TrimSpace(c.PostForm("arrivalTime")),
			SpecialInstructions: c.PostForm("specialInstructions"),
		}, lines)

		fields, err := sub.FormFields()
		if err != nil {
			respond.Error(c, err)
			return
		}
		req, err := orderControllers.RequestFromForm(fields)
		if err != nil {
			respond.Error(c, err)
			return
		}
		if fh, err := c.FormFile("easypaisaScreenshot"); err == nil {
			req.Proof = fh
		}

		order, err := lc.Create(ctx, req)
		if err != nil {
			respond.Error(c, err)
			return
		}
		if err := s.Clear(ctx, restaurantID); err != nil {
			log.Printf("⚠️ Order %s placed but cart of %s not cleared: %v", order.ID, user.ID, err)
		}
		respond.OK(c, http.StatusCreated, "Order placed successfully", gin.H{"order": order})
	}
}
