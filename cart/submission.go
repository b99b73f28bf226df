package cart

import (
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/OwaisShaikh-8/Instant-Meal/pricing"
)

// PricedLine is a cart line joined with the menu item it points at.
type PricedLine struct {
	ItemID      string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Quantity    int          `json:"quantity"`
	Image       models.Image `json:"image"`
}

// Checkout carries what the customer filled in on the checkout form.
type Checkout struct {
	RestaurantID        string
	RestaurantName      string
	CustomerID          string
	CustomerName        string
	OrderType           models.OrderType
	DeliveryAddress     string
	ArrivalTime         string
	SpecialInstructions string
}

// Submission is everything an order is created from, minus the payment
// proof file.
type Submission struct {
	Checkout
	Items   []PricedLine
	Summary pricing.Summary
}

func PriceLines(lines []PricedLine, orderType models.OrderType) pricing.Summary {
	pl := make([]pricing.Line, len(lines))
	for i, l := range lines {
		pl[i] = pricing.Line{Price: l.Price, Quantity: l.Quantity}
	}
	return pricing.Compute(pl, orderType)
}

func BuildSubmission(co Checkout, lines []PricedLine) Submission {
	return Submission{
		Checkout: co,
		Items:    lines,
		Summary:  PriceLines(lines, co.OrderType),
	}
}

// FormFields renders the submission as order form fields. Amounts carry
// two decimals, items are a JSON array, and only the field matching the
// order type (deliveryAddress or arrivalTime) is sent.
func (s Submission) FormFields() (url.Values, error) {
	items := s.Items
	if items == nil {
		items = []PricedLine{}
	}
	rawItems, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	v := url.Values{}
	v.Set("restaurantId", s.RestaurantID)
	v.Set("restaurantName", s.RestaurantName)
	v.Set("customerId", s.CustomerID)
	v.Set("customerName", s.CustomerName)
	v.Set("orderType", string(s.OrderType))
	v.Set("subtotal", pricing.Format(s.Summary.Subtotal))
	v.Set("deliveryFee", pricing.Format(s.Summary.DeliveryFee))
	v.Set("tax", pricing.Format(s.Summary.Tax))
	v.Set("total", pricing.Format(s.Summary.Total))
	v.Set("totalItems", strconv.Itoa(s.Summary.TotalItems))
	v.Set("specialInstructions", s.SpecialInstructions)
	v.Set("items", string(rawItems))
	if s.OrderType.NeedsAddress() {
		v.Set("deliveryAddress", s.DeliveryAddress)
	} else {
		v.Set("arrivalTime", s.ArrivalTime)
	}
	return v, nil
}
