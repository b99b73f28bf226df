package cart

import (
	"encoding/json"
	"testing"

	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diningSubmission() Submission {
	return BuildSubmission(Checkout{
		RestaurantID:   "r1",
		RestaurantName: "Karachi Grill",
		CustomerID:     "c1",
		CustomerName:   "Sana",
		OrderType:      models.OrderTypeDining,
		ArrivalTime:    "2026-10-16T19:30",
	}, []PricedLine{
		{ItemID: "m1", Name: "Karahi", Price: 250, Quantity: 2, Image: models.Image{URL: "http://img/k.png", PublicID: "menu/k"}},
		{ItemID: "m2", Name: "Lassi", Price: 170, Quantity: 1},
	})
}

func TestFormFieldsDining(t *testing.T) {
	v, err := diningSubmission().FormFields()
	require.NoError(t, err)

	assert.Equal(t, "670.00", v.Get("subtotal"))
	assert.Equal(t, "0.00", v.Get("deliveryFee"))
	assert.Equal(t, "33.50", v.Get("tax"))
	assert.Equal(t, "703.50", v.Get("total"))
	assert.Equal(t, "3", v.Get("totalItems"))
	assert.Equal(t, "2026-10-16T19:30", v.Get("arrivalTime"))
	_, hasAddress := v["deliveryAddress"]
	assert.False(t, hasAddress)

	var items []PricedLine
	require.NoError(t, json.Unmarshal([]byte(v.Get("items")), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "m1", items[0].ItemID)
	assert.Equal(t, "menu/k", items[0].Image.PublicID)
}

func TestFormFieldsDelivery(t *testing.T) {
	s := diningSubmission()
	s.OrderType = models.OrderTypeDelivery
	s.DeliveryAddress = "House 4, Clifton"
	s.Summary = PriceLines(s.Items, s.OrderType)

	v, err := s.FormFields()
	require.NoError(t, err)

	assert.Equal(t, "50.00", v.Get("deliveryFee"))
	assert.Equal(t, "753.50", v.Get("total"))
	assert.Equal(t, "House 4, Clifton", v.Get("deliveryAddress"))
	_, hasArrival := v["arrivalTime"]
	assert.False(t, hasArrival)
}

func TestFormFieldsEmptyItems(t *testing.T) {
	s := BuildSubmission(Checkout{OrderType: models.OrderTypeSelfPickup}, nil)
	v, err := s.FormFields()
	require.NoError(t, err)
	assert.Equal(t, "[]", v.Get("items"))
}
