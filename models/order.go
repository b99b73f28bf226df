package models

import (
	"time"

	"gorm.io/gorm"
)

type OrderType string
type OrderStatus string

const (
	OrderTypeDelivery   OrderType = "delivery"
	OrderTypeSelfPickup OrderType = "selfPickup"
	OrderTypeDining     OrderType = "dining"

	// Order statuses, in kitchen-to-door order
	OrderStatusPending          OrderStatus = "pending"          // Placed, waiting for the restaurant
	OrderStatusAccepted         OrderStatus = "accepted"         // Restaurant took the order
	OrderStatusInKitchen        OrderStatus = "inKitchen"        // Handed to the kitchen
	OrderStatusBeingCooked      OrderStatus = "beingCooked"      // On the stove
	OrderStatusReady            OrderStatus = "ready"            // Ready for pickup / serving / rider
	OrderStatusHandedToDelivery OrderStatus = "handedToDelivery" // Rider has it (delivery only)
	OrderStatusOutForDelivery   OrderStatus = "outForDelivery"   // On the way (delivery only)
	OrderStatusCancelled        OrderStatus = "cancelled"        // Terminal
)

// StatusChain lists the non-terminal statuses in their normal order.
var StatusChain = []OrderStatus{
	OrderStatusPending,
	OrderStatusAccepted,
	OrderStatusInKitchen,
	OrderStatusBeingCooked,
	OrderStatusReady,
	OrderStatusHandedToDelivery,
	OrderStatusOutForDelivery,
}

// AllOrderStatuses is StatusChain plus cancelled.
var AllOrderStatuses = append(append([]OrderStatus{}, StatusChain...), OrderStatusCancelled)

func ParseOrderType(s string) (OrderType, bool) {
	switch OrderType(s) {
	case OrderTypeDelivery, OrderTypeSelfPickup, OrderTypeDining:
		return OrderType(s), true
	default:
		return "", false
	}
}

// NeedsAddress reports whether the type is delivered to an address rather
// than collected at an arrival time.
func (t OrderType) NeedsAddress() bool {
	return t == OrderTypeDelivery
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range AllOrderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// DeliveryOnly reports statuses that only make sense for delivery orders.
func (s OrderStatus) DeliveryOnly() bool {
	return s == OrderStatusHandedToDelivery || s == OrderStatusOutForDelivery
}

// Rank is the position of s in StatusChain, or -1 for cancelled/unknown.
func (s OrderStatus) Rank() int {
	for i, st := range StatusChain {
		if st == s {
			return i
		}
	}
	return -1
}

type Order struct {
	ID                  string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RestaurantID        string      `gorm:"type:varchar(36);index;not null" json:"restaurantId"`
	RestaurantName      string      `json:"restaurantName"`
	CustomerID          string      `gorm:"type:varchar(36);index;not null" json:"customerId"`
	CustomerName        string      `json:"customerName"`
	OrderType           OrderType   `gorm:"type:VARCHAR(20);not null" json:"orderType"`
	DeliveryAddress     string      `json:"deliveryAddress,omitempty"`
	ArrivalTime         *time.Time  `json:"arrivalTime,omitempty"`
	Status              OrderStatus `gorm:"type:VARCHAR(20);default:'pending';index" json:"status"`
	Items               []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal            float64     `json:"subtotal"`
	DeliveryFee         float64     `json:"deliveryFee"`
	Tax                 float64     `json:"tax"`
	Total               float64     `json:"total"`
	TotalItems          int         `json:"totalItems"`
	PaymentProof        Image       `gorm:"embedded;embeddedPrefix:easypaisa_screenshot_" json:"easypaisaScreenshot"`
	SpecialInstructions string      `json:"specialInstructions"`
	Version             int         `gorm:"not null;default:1" json:"version"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

// OrderItem is a copy of a menu line taken when the order was placed.
// Later menu edits never touch it.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"-"`
	OrderID     string  `gorm:"type:varchar(36);index" json:"-"`
	Position    int     `json:"-"`
	MenuItemID  string  `gorm:"type:varchar(36)" json:"id,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Image       Image   `gorm:"embedded;embeddedPrefix:image_" json:"image"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = NewID()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	if o.Version == 0 {
		o.Version = 1
	}
	return nil
}
