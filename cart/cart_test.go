package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddAddRemoveLeavesOne(t *testing.T) {
	cs := New()
	cs.AddItem("r1", "burger")
	cs.AddItem("r1", "burger")
	cs.RemoveItem("r1", "burger")

	assert.Equal(t, 1, cs.Quantity("r1", "burger"))
	assert.Equal(t, 1, cs.TotalItems("r1"))
}

func TestRemoveDropsLineAtZero(t *testing.T) {
	cs := New()
	cs.AddItem("r1", "fries")
	cs.RemoveItem("r1", "fries")

	assert.Empty(t, cs.Items("r1"))
	assert.Equal(t, 0, cs.Quantity("r1", "fries"))

	// removing again is a no-op, never negative
	cs.RemoveItem("r1", "fries")
	cs.RemoveItem("unknown", "fries")
	assert.Equal(t, 0, cs.Quantity("r1", "fries"))
	assert.Empty(t, cs.Items("r1"))
}

func TestDeleteItemIgnoresQuantity(t *testing.T) {
	cs := New()
	for i := 0; i < 5; i++ {
		cs.AddItem("r1", "naan")
	}
	cs.AddItem("r1", "raita")
	cs.DeleteItem("r1", "naan")

	assert.Equal(t, []Line{{ItemID: "raita", Quantity: 1}}, cs.Items("r1"))
	cs.DeleteItem("r1", "missing")
	cs.DeleteItem("r9", "naan")
	assert.Len(t, cs.Items("r1"), 1)
}

func TestClearIsolatesRestaurants(t *testing.T) {
	cs := New()
	cs.AddItem("r1", "a")
	cs.AddItem("r2", "b")
	cs.AddItem("r2", "b")

	cs.Clear("r1")

	assert.Empty(t, cs.Items("r1"))
	assert.Equal(t, 2, cs.Quantity("r2", "b"))
	assert.Equal(t, []string{"r2"}, cs.Restaurants())
}

func TestItemsKeepInsertionOrder(t *testing.T) {
	cs := New()
	cs.AddItem("r1", "c")
	cs.AddItem("r1", "a")
	cs.AddItem("r1", "b")
	cs.AddItem("r1", "a")

	assert.Equal(t, []Line{
		{ItemID: "c", Quantity: 1},
		{ItemID: "a", Quantity: 2},
		{ItemID: "b", Quantity: 1},
	}, cs.Items("r1"))
}

func TestItemsReturnsCopy(t *testing.T) {
	cs := New()
	cs.AddItem("r1", "a")
	items := cs.Items("r1")
	items[0].Quantity = 99

	assert.Equal(t, 1, cs.Quantity("r1", "a"))
}

func TestZeroValueCarts(t *testing.T) {
	var cs Carts
	assert.Empty(t, cs.Items("r1"))
	cs.AddItem("r1", "a")
	assert.Equal(t, 1, cs.TotalItems("r1"))
}
