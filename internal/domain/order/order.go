package order

import (
	"fmt"
	"strings"

	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the fulfillment status of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can move to target.
// Re-applying the current status is allowed and is a no-op.
func (s Status) CanTransitionTo(target Status) bool {
	if !target.IsValid() {
		return false
	}
	switch s {
	case StatusPending:
		return true
	case StatusCompleted:
		return target == StatusCompleted
	}
	return false
}

// ParseStatus converts raw input into a Status
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.TrimSpace(raw))
	if !s.IsValid() {
		return "", shared.ErrInvalidStatus.WithMessage(
			fmt.Sprintf("Invalid status %q. Must be one of: pending, completed", raw))
	}
	return s, nil
}

// PaymentMethod is how the customer pays on delivery
type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentMobilePayment PaymentMethod = "mobile-payment"
)

// IsValid checks if the payment method is supported
func (m PaymentMethod) IsValid() bool {
	return m == PaymentCash || m == PaymentMobilePayment
}

// UnknownProductName replaces blank item names.
const UnknownProductName = "Unknown Product"

// Customer holds the delivery contact for an order
type Customer struct {
	Name    string
	Phone   string
	Address string
	Email   string
}

// Item is a single order line. ProductReference is an opaque catalog id and is not checked against the catalog.
type Item struct {
	Name             string
	UnitPrice        decimal.Decimal
	Quantity         int
	ProductReference *string
}

// Subtotal returns UnitPrice * Quantity
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the aggregate root of the order lifecycle
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber   string
	Customer      Customer
	Items         []Item
	TotalAmount   decimal.Decimal
	PaymentMethod PaymentMethod
	Status        Status
}

// NewOrder validates the input and builds a pending order without a number.
// All field problems are reported together in a single validation error.
func NewOrder(customer Customer, items []Item, totalAmount decimal.Decimal, method PaymentMethod) (*Order, error) {
	var details []shared.FieldError
	fail := func(field, msg string) {
		details = append(details, shared.FieldError{Field: field, Message: msg})
	}

	customer = Customer{
		Name:    strings.TrimSpace(customer.Name),
		Phone:   strings.TrimSpace(customer.Phone),
		Address: strings.TrimSpace(customer.Address),
		Email:   strings.TrimSpace(customer.Email),
	}
	if customer.Name == "" {
		fail("customer.name", "Customer name is required")
	}
	if customer.Phone == "" {
		fail("customer.phone", "Customer phone is required")
	}
	if customer.Address == "" {
		fail("customer.address", "Customer address is required")
	}

	if len(items) == 0 {
		fail("items", "Order must contain at least one item")
	}
	lines := make([]Item, 0, len(items))
	for idx, it := range items {
		field := fmt.Sprintf("items[%d]", idx)
		if it.UnitPrice.IsNegative() {
			fail(field+".price", "Price cannot be negative")
		}
		if it.Quantity <= 0 {
			fail(field+".quantity", "Quantity must be a positive integer")
		}
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" {
			it.Name = UnknownProductName
		}
		lines = append(lines, it)
	}

	if !totalAmount.IsPositive() {
		fail("totalAmount", "Total amount must be greater than 0")
	}

	if method == "" {
		method = PaymentCash
	}
	if !method.IsValid() {
		fail("paymentMethod", "Payment method must be one of: cash, mobile-payment")
	}

	if len(details) > 0 {
		return nil, shared.NewValidationError(details)
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Customer:          customer,
		Items:             lines,
		TotalAmount:       totalAmount,
		PaymentMethod:     method,
		Status:            StatusPending,
	}, nil
}

// AssignNumber sets the human-readable number for an order that has not been stored yet.
func (o *Order) AssignNumber(number string) {
	o.OrderNumber = number
}

// MarkPlaced records the creation event once the order is durable.
func (o *Order) MarkPlaced() {
	o.AddDomainEvent(NewOrderCreatedEvent(o))
}

// ChangeStatus moves the order to target. It reports whether anything changed.
func (o *Order) ChangeStatus(target Status) (bool, error) {
	if !target.IsValid() {
		return false, shared.ErrInvalidStatus
	}
	if !o.Status.CanTransitionTo(target) {
		return false, shared.ErrInvalidTransition.WithMessage(
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}
	if o.Status == target {
		return false, nil
	}

	from := o.Status
	o.Status = target
	o.Touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))
	return true, nil
}
