package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Filter narrows order queries. A nil Status matches every order.
type Filter struct {
	Status *Status
}

// WithStatus returns a filter matching a single status
func WithStatus(s Status) Filter {
	return Filter{Status: &s}
}

// Repository persists orders.
// Implementations must be safe for concurrent use and must enforce
// order number uniqueness at the storage level.
type Repository interface {
	// Insert stores a new order. Returns shared.ErrDuplicateIdentifier if the order number is taken.
	Insert(ctx context.Context, o *Order) error
	// FindByID returns shared.ErrNotFound if the order does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// List returns matching orders, newest first.
	List(ctx context.Context, filter Filter) ([]Order, error)
	// UpdateStatus sets the status and returns the updated order.
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*Order, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	// AggregateRevenue sums TotalAmount over matching orders, zero when none match.
	AggregateRevenue(ctx context.Context, filter Filter) (decimal.Decimal, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	// Ping checks store connectivity.
	Ping(ctx context.Context) error
	// Sample returns the n most recent orders.
	Sample(ctx context.Context, n int) ([]Order, error)
}
