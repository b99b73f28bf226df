// Package cart keeps a user's per-restaurant selections.
//
// A Carts value is the whole state for one user: one Cart per restaurant id,
// each an insertion-ordered list of (item id, quantity) lines. Every
// operation is total. Unknown restaurants or items simply initialize or
// do nothing.
package cart

// Line is one selected menu item. Quantity is always at least 1 while the
// line exists.
type Line struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type Cart struct {
	Lines []Line `json:"lines"`
}

type Carts struct {
	Carts map[string]*Cart `json:"carts"`
}

func New() *Carts {
	return &Carts{Carts: map[string]*Cart{}}
}

func (cs *Carts) cart(restaurantID string, create bool) *Cart {
	if cs.Carts == nil {
		cs.Carts = map[string]*Cart{}
	}
	c, ok := cs.Carts[restaurantID]
	if !ok && create {
		c = &Cart{}
		cs.Carts[restaurantID] = c
	}
	return c
}

func (c *Cart) index(itemID string) int {
	for i, l := range c.Lines {
		if l.ItemID == itemID {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of itemID, starting the line at 1.
func (cs *Carts) AddItem(restaurantID, itemID string) {
	c := cs.cart(restaurantID, true)
	if i := c.index(itemID); i >= 0 {
		c.Lines[i].Quantity++
		return
	}
	c.Lines = append(c.Lines, Line{ItemID: itemID, Quantity: 1})
}

// RemoveItem takes one unit away and drops the line when it reaches zero.
func (cs *Carts) RemoveItem(restaurantID, itemID string) {
	c := cs.cart(restaurantID, false)
	if c == nil {
		return
	}
	i := c.index(itemID)
	if i < 0 {
		return
	}
	c.Lines[i].Quantity--
	if c.Lines[i].Quantity <= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// DeleteItem drops the line whatever its quantity.
func (cs *Carts) DeleteItem(restaurantID, itemID string) {
	c := cs.cart(restaurantID, false)
	if c == nil {
		return
	}
	if i := c.index(itemID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
}

// Clear empties one restaurant's cart and leaves the others alone.
func (cs *Carts) Clear(restaurantID string) {
	delete(cs.Carts, restaurantID)
}

// Items returns a copy of the lines for restaurantID in the order they
// were first added.
func (cs *Carts) Items(restaurantID string) []Line {
	c := cs.cart(restaurantID, false)
	if c == nil {
		return []Line{}
	}
	out := make([]Line, len(c.Lines))
	copy(out, c.Lines)
	return out
}

func (cs *Carts) Quantity(restaurantID, itemID string) int {
	c := cs.cart(restaurantID, false)
	if c == nil {
		return 0
	}
	if i := c.index(itemID); i >= 0 {
		return c.Lines[i].Quantity
	}
	return 0
}

func (cs *Carts) TotalItems(restaurantID string) int {
	n := 0
	for _, l := range cs.Items(restaurantID) {
		n += l.Quantity
	}
	return n
}

// Restaurants lists the restaurant ids that currently hold a non-empty cart.
func (cs *Carts) Restaurants() []string {
	var ids []string
	for id, c := range cs.Carts {
		if c != nil && len(c.Lines) > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
