// Package events fans order changes out to whoever watches them: vendor
// dashboards over websocket and, when configured, a RabbitMQ exchange.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/OwaisShaikh-8/Instant-Meal/models"
	"github.com/google/uuid"
)

type Type string

const (
	OrderCreated       Type = "order.created"
	OrderStatusChanged Type = "order.status_changed"
	OrderDeleted       Type = "order.deleted"
)

type Event struct {
	ID             string             `json:"id"`
	Type           Type               `json:"type"`
	OrderID        string             `json:"orderId"`
	RestaurantID   string             `json:"restaurantId"`
	CustomerID     string             `json:"customerId"`
	Status         models.OrderStatus `json:"status,omitempty"`
	PreviousStatus models.OrderStatus `json:"previousStatus,omitempty"`
	Order          *models.Order      `json:"order,omitempty"`
	OccurredAt     time.Time          `json:"occurredAt"`
}

func newEvent(t Type, o *models.Order) Event {
	return Event{
		ID:           uuid.NewString(),
		Type:         t,
		OrderID:      o.ID,
		RestaurantID: o.RestaurantID,
		CustomerID:   o.CustomerID,
		Status:       o.Status,
		OccurredAt:   time.Now().UTC(),
	}
}

func Created(o *models.Order) Event {
	e := newEvent(OrderCreated, o)
	e.Order = o
	return e
}

func StatusChanged(o *models.Order, previous models.OrderStatus) Event {
	e := newEvent(OrderStatusChanged, o)
	e.PreviousStatus = previous
	e.Order = o
	return e
}

func Deleted(o *models.Order) Event {
	return newEvent(OrderDeleted, o)
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
