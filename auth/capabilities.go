package auth

import (
	"github.com/OwaisShaikh-8/Instant-Meal/models"
)

// Capability is something a token may do inside a restaurant.
type Capability string

const (
	CapRoles    Capability = "roles"
	CapMenu     Capability = "menu"
	CapOrders   Capability = "orders"
	CapKitchen  Capability = "kitchen"
	CapDelivery Capability = "delivery"
)

// AllCapabilities is what a restaurant owner holds.
var AllCapabilities = []Capability{CapRoles, CapMenu, CapOrders, CapKitchen, CapDelivery}

var staffCapabilities = map[models.StaffRole][]Capability{
	models.StaffAdmin:           AllCapabilities,
	models.StaffManager:         {CapMenu, CapOrders, CapKitchen, CapDelivery},
	models.StaffChef:            {CapKitchen},
	models.StaffDeliveryPartner: {CapDelivery},
}

func CapabilitiesFor(role models.StaffRole) []Capability {
	caps := staffCapabilities[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

// CapabilityForStatus is what moving an order into status requires.
func CapabilityForStatus(status models.OrderStatus) Capability {
	switch status {
	case models.OrderStatusInKitchen, models.OrderStatusBeingCooked, models.OrderStatusReady:
		return CapKitchen
	case models.OrderStatusHandedToDelivery, models.OrderStatusOutForDelivery:
		return CapDelivery
	default:
		return CapOrders
	}
}

// Principal is the caller behind a validated token.
type Principal struct {
	UserID       string
	Email        string
	Role         models.Role
	StaffRole    models.StaffRole // empty unless the token came from verifyrole
	RestaurantID string           // staff tokens only
	Caps         []Capability
}

func (p *Principal) IsStaff() bool { return p.StaffRole != "" }

func (p *Principal) IsVendor() bool { return p.Role == models.RoleVendor }

func (p *Principal) Has(c Capability) bool {
	for _, have := range p.Caps {
		if have == c {
			return true
		}
	}
	return false
}
