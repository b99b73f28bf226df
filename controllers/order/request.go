package orderControllers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/OwaisShaikh-8/Instant-Meal/apperr"
	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/OwaisShaikh-8/Instant-Meal/pricing"
)

// -------- Request Structs --------

// CreateOrderRequest is an order submission as it arrives: plain form
// strings plus the payment screenshot. Amounts are nil when not sent.
type CreateOrderRequest struct {
	RestaurantID        string
	RestaurantName      string
	CustomerID          string
	CustomerName        string
	OrderType           string
	DeliveryAddress     string
	ArrivalTime         string
	Subtotal            *float64
	DeliveryFee         *float64
	Tax                 *float64
	Total               *float64
	TotalItems          *int
	SpecialInstructions string
	Items               string // JSON array

	// Exactly one of these carries the payment proof. Proof is uploaded by
	// Create; PaymentProof is an image that is already hosted.
	Proof        *multipart.FileHeader
	PaymentProof models.Image
}

type UpdateOrderStatusRequest struct {
	Status  string `json:"status"`
	Version *int   `json:"version"`
}

type itemInput struct {
	ID          string       `json:"id"`
	LegacyID    string       `json:"_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       float64      `json:"price"`
	Quantity    int          `json:"quantity"`
	Image       models.Image `json:"image"`
}

func (i itemInput) menuItemID() string {
	if i.ID != "" {
		return i.ID
	}
	return i.LegacyID
}

// label names the item in messages. Snapshots may come without a name.
func (i itemInput) label(pos int) string {
	if name := strings.TrimSpace(i.Name); name != "" {
		return name
	}
	return fmt.Sprintf("item %d", pos+1)
}

// validated is a request that passed every check that needs no storage.
type validated struct {
	orderType   models.OrderType
	address     string
	arrivalTime *time.Time
	items       []itemInput
}

// RequestFromForm reads the order form fields. Numbers that are present but
// unparsable are rejected here; absent ones stay nil.
func RequestFromForm(v url.Values) (CreateOrderRequest, error) {
	req := CreateOrderRequest{
		RestaurantID:        strings.TrimSpace(v.Get("restaurantId")),
		RestaurantName:      strings.TrimSpace(v.Get("restaurantName")),
		CustomerID:          strings.TrimSpace(v.Get("customerId")),
		CustomerName:        strings.TrimSpace(v.Get("customerName")),
		OrderType:           strings.TrimSpace(v.Get("orderType")),
		DeliveryAddress:     v.Get("deliveryAddress"),
		ArrivalTime:         strings.TrimSpace(v.Get("arrivalTime")),
		SpecialInstructions: v.Get("specialInstructions"),
		Items:               v.Get("items"),
	}

	var err error
	for _, f := range []struct {
		name string
		dst  **float64
	}{
		{"subtotal", &req.Subtotal},
		{"deliveryFee", &req.DeliveryFee},
		{"tax", &req.Tax},
		{"total", &req.Total},
	} {
		if *f.dst, err = optionalFloat(v, f.name); err != nil {
			return req, err
		}
	}
	if raw := strings.TrimSpace(v.Get("totalItems")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return req, apperr.Validation("Invalid totalItems")
		}
		req.TotalItems = &n
	}
	return req, nil
}

func optionalFloat(v url.Values, name string) (*float64, error) {
	raw := strings.TrimSpace(v.Get(name))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || !pricing.Valid(f) {
		return nil, apperr.Validation("Invalid %s", name)
	}
	return &f, nil
}

// arrivalLayouts are tried in order. The second is what an HTML
// datetime-local input submits.
var arrivalLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02T15:04:05"}

func parseArrival(s string) (time.Time, error) {
	var err error
	for _, layout := range arrivalLayouts {
		t, perr := time.Parse(layout, s)
		if perr == nil {
			return t, nil
		}
		err = perr
	}
	return time.Time{}, err
}

func (r *CreateOrderRequest) validate() (*validated, error) {
	if r.RestaurantID == "" || r.CustomerID == "" || r.OrderType == "" || (r.Proof == nil && r.PaymentProof.IsZero()) {
		return nil, apperr.Validation("Missing required fields")
	}

	typ, ok := models.ParseOrderType(r.OrderType)
	if !ok {
		return nil, apperr.Validation("Invalid order type '%s'", r.OrderType)
	}
	v := &validated{orderType: typ}

	if typ.NeedsAddress() {
		v.address = strings.TrimSpace(r.DeliveryAddress)
		if v.address == "" {
			return nil, apperr.Validation("Delivery address is required for delivery orders")
		}
	} else {
		if r.ArrivalTime == "" {
			return nil, apperr.Validation("Arrival time is required for pickup/dining orders")
		}
		at, err := parseArrival(r.ArrivalTime)
		if err != nil {
			return nil, apperr.Validation("Invalid arrival time")
		}
		v.arrivalTime = &at
	}

	if err := json.Unmarshal([]byte(r.Items), &v.items); err != nil {
		return nil, apperr.Validation("Invalid items format")
	}
	if len(v.items) == 0 {
		return nil, apperr.Validation("Order must contain at least one item")
	}
	for i, it := range v.items {
		if it.Quantity < 1 {
			return nil, apperr.Validation("Invalid quantity for %s", it.label(i))
		}
		if !pricing.Valid(it.Price) {
			return nil, apperr.Validation("Invalid price for %s", it.label(i))
		}
	}
	return v, nil
}
