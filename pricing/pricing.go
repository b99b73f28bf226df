// Package pricing derives cart and order totals.
//
// Amounts are plain float64 while they are being computed. They are only
// rounded to two decimals when they are shown or sent with an order.
package pricing

import (
	"math"

	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/shopspring/decimal"
)

const (
	DeliveryFee = 50.0
	TaxRate     = 0.05

	// Tolerance is how far a submitted amount may drift from the
	// recomputed one before it is treated as a different amount.
	Tolerance = 0.01
)

type Line struct {
	Price    float64
	Quantity int
}

type Summary struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
	TotalItems  int     `json:"totalItems"`
}

// Compute returns the totals for lines under the given order type. Only
// delivery orders pay the delivery fee.
func Compute(lines []Line, orderType models.OrderType) Summary {
	var s Summary
	for _, l := range lines {
		s.Subtotal += l.Price * float64(l.Quantity)
		s.TotalItems += l.Quantity
	}
	if orderType == models.OrderTypeDelivery {
		s.DeliveryFee = DeliveryFee
	}
	s.Tax = s.Subtotal * TaxRate
	s.Total = s.Subtotal + s.DeliveryFee + s.Tax
	return s
}

// Rounded returns a copy of s with every amount rounded to cents.
func (s Summary) Rounded() Summary {
	s.Subtotal = Round2(s.Subtotal)
	s.DeliveryFee = Round2(s.DeliveryFee)
	s.Tax = Round2(s.Tax)
	s.Total = Round2(s.Total)
	return s
}

func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Format renders v with exactly two decimals, e.g. 703.5 -> "703.50".
func Format(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Matches reports whether two amounts are the same to within Tolerance.
func Matches(a, b float64) bool {
	diff := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs()
	return diff.LessThanOrEqual(decimal.NewFromFloat(Tolerance))
}

// Valid reports whether v is a usable amount.
func Valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
