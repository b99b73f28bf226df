package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/OwaisShaikh-8/Instant-Meal/apperr"
	"github.com/OwaisShaikh-8/Instant-Meal/events"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/OwaisShaikh-8/Instant-Meal/pricing"
	"github.com/OwaisShaikh-8/Instant-Meal/storage"
	"gorm.io/gorm"
)

type Options struct {
	// VerifyTotals recomputes every submitted amount and rejects orders
	// whose amounts or menu prices do not match.
	VerifyTotals bool
	// StrictTransitions only lets a status move forward along the chain.
	// Cancelling is always allowed.
	StrictTransitions bool
}

// Lifecycle owns orders from placement to deletion. Every change is a
// direct write followed by an event; a failed publish is logged and never
// undoes the write.
type Lifecycle struct {
	db     *gorm.DB
	images storage.ImageStore
	events events.Publisher
	opts   Options
}

func NewLifecycle(db *gorm.DB, images storage.ImageStore, pub events.Publisher, opts Options) *Lifecycle {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Lifecycle{db: db, images: images, events: pub, opts: opts}
}

func (l *Lifecycle) publish(ctx context.Context, e events.Event) {
	if err := l.events.Publish(ctx, e); err != nil {
		log.Printf("⚠️ Failed to publish %s for order %s: %v", e.Type, e.OrderID, err)
	}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}

// -------- Core Logic --------

// Create validates a submission and stores it as a pending order.
func (l *Lifecycle) Create(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	v, err := req.validate()
	if err != nil {
		return nil, err
	}
	db := l.db.WithContext(ctx)

	var restaurant models.Restaurant
	if err := db.Select("id", "name").First(&restaurant, "id = ?", req.RestaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Restaurant not found")
		}
		return nil, err
	}

	summary, err := l.checkTotals(db, restaurant.ID, req, v)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		RestaurantID:        restaurant.ID,
		RestaurantName:      req.RestaurantName,
		CustomerID:          req.CustomerID,
		CustomerName:        req.CustomerName,
		OrderType:           v.orderType,
		DeliveryAddress:     v.address,
		ArrivalTime:         v.arrivalTime,
		Status:              models.OrderStatusPending,
		Subtotal:            summary.Subtotal,
		DeliveryFee:         summary.DeliveryFee,
		Tax:                 summary.Tax,
		Total:               summary.Total,
		TotalItems:          summary.TotalItems,
		PaymentProof:        req.PaymentProof,
		SpecialInstructions: req.SpecialInstructions,
	}
	if order.RestaurantName == "" {
		order.RestaurantName = restaurant.Name
	}
	for i, it := range v.items {
		order.Items = append(order.Items, models.OrderItem{
			Position:    i,
			MenuItemID:  it.menuItemID(),
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Image:       it.Image,
		})
	}

	uploaded := false
	if req.Proof != nil {
		if l.images == nil {
			return nil, errors.New("no image store configured")
		}
		img, err := l.images.Upload(ctx, storage.FolderPayments, req.Proof)
		if err != nil {
			return nil, err
		}
		order.PaymentProof = img
		uploaded = true
	}

	if err := db.Create(order).Error; err != nil {
		if uploaded {
			if derr := storage.Discard(context.Background(), l.images, order.PaymentProof); derr != nil {
				log.Printf("❌ Failed to remove payment screenshot %s: %v", order.PaymentProof.PublicID, derr)
			}
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	log.Printf("🧾 Order %s placed at %s (%s, %s)", order.ID, order.RestaurantName, order.OrderType, pricing.Format(order.Total))
	l.publish(ctx, events.Created(order))
	return order, nil
}

// checkTotals returns the amounts to store. Submitted amounts are kept as
// sent; missing ones are filled from the recomputation. With VerifyTotals
// any submitted amount that disagrees with the recomputation is rejected,
// as is any item priced differently from the live menu.
func (l *Lifecycle) checkTotals(db *gorm.DB, restaurantID string, req CreateOrderRequest, v *validated) (pricing.Summary, error) {
	lines := make([]pricing.Line, len(v.items))
	for i, it := range v.items {
		lines[i] = pricing.Line{Price: it.Price, Quantity: it.Quantity}
	}
	computed := pricing.Compute(lines, v.orderType)

	if l.opts.VerifyTotals {
		if err := l.checkMenuPrices(db, restaurantID, v.items); err != nil {
			return pricing.Summary{}, err
		}
		for _, f := range []struct {
			name      string
			submitted *float64
			want      float64
		}{
			{"subtotal", req.Subtotal, computed.Subtotal},
			{"deliveryFee", req.DeliveryFee, computed.DeliveryFee},
			{"tax", req.Tax, computed.Tax},
			{"total", req.Total, computed.Total},
		} {
			if f.submitted != nil && !pricing.Matches(*f.submitted, f.want) {
				return pricing.Summary{}, apperr.Validation("Submitted %s %s does not match %s",
					f.name, pricing.Format(*f.submitted), pricing.Format(f.want))
			}
		}
		if req.TotalItems != nil && *req.TotalItems != computed.TotalItems {
			return pricing.Summary{}, apperr.Validation("Submitted totalItems %d does not match %d", *req.TotalItems, computed.TotalItems)
		}
	}

	out := computed.Rounded()
	if req.Subtotal != nil {
		out.Subtotal = *req.Subtotal
	}
	if req.DeliveryFee != nil {
		out.DeliveryFee = *req.DeliveryFee
	}
	if req.Tax != nil {
		out.Tax = *req.Tax
	}
	if req.Total != nil {
		out.Total = *req.Total
	}
	if req.TotalItems != nil {
		out.TotalItems = *req.TotalItems
	}
	return out, nil
}

// checkMenuPrices compares items that still resolve to a menu item of the
// restaurant against its current price. Items that no longer resolve are
// taken at their snapshot price.
func (l *Lifecycle) checkMenuPrices(db *gorm.DB, restaurantID string, items []itemInput) error {
	var ids []string
	for _, it := range items {
		if id := it.menuItemID(); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var menu []models.MenuItem
	if err := db.Select("id", "name", "price").
		Where("restaurant_id = ? AND id IN ?", restaurantID, ids).
		Find(&menu).Error; err != nil {
		return err
	}
	prices := make(map[string]float64, len(menu))
	for _, m := range menu {
		prices[m.ID] = m.Price
	}
	for i, it := range items {
		if price, ok := prices[it.menuItemID()]; ok && !pricing.Matches(price, it.Price) {
			return apperr.Validation("Price of %s is now %s, please refresh your cart", it.label(i), pricing.Format(price))
		}
	}
	return nil
}

func (l *Lifecycle) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := withItems(l.db.WithContext(ctx)).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, err
	}
	return &order, nil
}

func (l *Lifecycle) list(ctx context.Context, query string, args ...interface{}) ([]models.Order, error) {
	orders := []models.Order{}
	q := withItems(l.db.WithContext(ctx))
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (l *Lifecycle) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	return l.list(ctx, "customer_id = ?", customerID)
}

// ListByRestaurant returns the restaurant's orders, newest first.
func (l *Lifecycle) ListByRestaurant(ctx context.Context, restaurantID string) ([]models.Order, error) {
	return l.list(ctx, "restaurant_id = ?", restaurantID)
}

func (l *Lifecycle) ListAll(ctx context.Context) ([]models.Order, error) {
	return l.list(ctx, "")
}

func validStatusList() string {
	names := make([]string, len(models.AllOrderStatuses))
	for i, s := range models.AllOrderStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// UpdateStatus moves an order to status. When expectedVersion is set the
// write only happens if the order is still at that version. Either way the
// write is conditional on the version that was read, so two racing updates
// cannot both succeed.
func (l *Lifecycle) UpdateStatus(ctx context.Context, id, status string, expectedVersion *int) (*models.Order, error) {
	if status == "" {
		return nil, apperr.Validation("Status is required")
	}
	next, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, apperr.Validation("Invalid order status. Valid statuses: %s", validStatusList())
	}

	db := l.db.WithContext(ctx)
	var current models.Order
	if err := db.Select("id", "order_type", "status", "version").First(&current, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, err
	}

	if current.Status == models.OrderStatusCancelled {
		return nil, apperr.Validation("Cannot change status of a cancelled order")
	}
	if next.DeliveryOnly() && current.OrderType != models.OrderTypeDelivery {
		return nil, apperr.Validation("Cannot set status to '%s' for %s orders", next, current.OrderType)
	}
	if l.opts.StrictTransitions && next != models.OrderStatusCancelled && next.Rank() <= current.Status.Rank() {
		return nil, apperr.Validation("Cannot move order from '%s' to '%s'", current.Status, next)
	}
	if expectedVersion != nil && *expectedVersion != current.Version {
		return nil, apperr.Conflict("Order was changed by someone else (now at version %d), reload and try again", current.Version)
	}

	res := db.Model(&models.Order{}).
		Where("id = ? AND version = ?", current.ID, current.Version).
		Updates(map[string]interface{}{
			"status":  next,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("update order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Conflict("Order was changed by someone else, reload and try again")
	}

	updated, err := l.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	log.Printf("📦 Order %s status changed from %s to %s", id, current.Status, next)
	l.publish(ctx, events.StatusChanged(updated, current.Status))
	return updated, nil
}

// Delete removes an order and its items for good.
func (l *Lifecycle) Delete(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Order not found")
			}
			return err
		}
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Order{}).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🗑️ Order %s deleted", id)
	l.publish(ctx, events.Deleted(&order))
	return &order, nil
}
