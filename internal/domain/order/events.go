package order

import (
	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// OrderCreatedEvent is raised when a new order has been stored
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string          `json:"order_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	ItemCount     int             `json:"item_count"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		TotalAmount:     o.TotalAmount,
		PaymentMethod:   o.PaymentMethod,
		ItemCount:       len(o.Items),
	}
}

// OrderStatusChangedEvent is raised when an order moves between statuses
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	From        Status `json:"from"`
	To          Status `json:"to"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, from Status) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderNumber:     o.OrderNumber,
		From:            from,
		To:              o.Status,
	}
}
