package cart

import (
	"context"
)

// Session is one user's cart state for the length of a request. Each
// mutation is written back to the store before it returns.
type Session struct {
	store  Store
	userID string
	carts  *Carts
}

func Open(ctx context.Context, store Store, userID string) (*Session, error) {
	carts, err := store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Session{store: store, userID: userID, carts: carts}, nil
}

func (s *Session) Carts() *Carts { return s.carts }

func (s *Session) AddItem(ctx context.Context, restaurantID, itemID string) error {
	s.carts.AddItem(restaurantID, itemID)
	return s.save(ctx)
}

func (s *Session) RemoveItem(ctx context.Context, restaurantID, itemID string) error {
	s.carts.RemoveItem(restaurantID, itemID)
	return s.save(ctx)
}

func (s *Session) DeleteItem(ctx context.Context, restaurantID, itemID string) error {
	s.carts.DeleteItem(restaurantID, itemID)
	return s.save(ctx)
}

func (s *Session) Clear(ctx context.Context, restaurantID string) error {
	s.carts.Clear(restaurantID)
	return s.save(ctx)
}

// Reset drops every cart the user holds, as on logout.
func (s *Session) Reset(ctx context.Context) error {
	s.carts = New()
	return s.store.Reset(ctx, s.userID)
}

func (s *Session) save(ctx context.Context) error {
	return s.store.Save(ctx, s.userID, s.carts)
}
