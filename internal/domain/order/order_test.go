package order

import (
	"errors"
	"testing"

	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCustomer() Customer {
	return Customer{Name: "Ali", Phone: "0300-1234567", Address: "Lahore"}
}

func validItems() []Item {
	return []Item{{Name: "Shirt", UnitPrice: decimal.NewFromInt(1500), Quantity: 2}}
}

func createTestOrder(t *testing.T) *Order {
	o, err := NewOrder(validCustomer(), validItems(), decimal.NewFromInt(3000), PaymentCash)
	require.NoError(t, err)
	o.AssignNumber("ORD001")
	return o
}

func validationDetails(t *testing.T, err error) []shared.FieldError {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
	var de *shared.DomainError
	require.True(t, errors.As(err, &de))
	return de.Details
}

func fields(details []shared.FieldError) []string {
	out := make([]string, len(details))
	for i, d := range details {
		out[i] = d.Field
	}
	return out
}

// ============================================
// Status Tests
// ============================================

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  Status
		isValid bool
	}{
		{StatusPending, true},
		{StatusCompleted, true},
		{Status("shipped"), false},
		{Status("PENDING"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     Status
		to       Status
		canTrans bool
	}{
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusPending, true},
		{StatusCompleted, StatusCompleted, true},
		{StatusCompleted, StatusPending, false},
		{StatusPending, Status("shipped"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" completed ")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, s)

	_, err = ParseStatus("shipped")
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInvalidStatus))
	assert.Contains(t, err.Error(), "shipped")
}

// ============================================
// NewOrder Tests
// ============================================

func TestNewOrder(t *testing.T) {
	t.Run("creates pending order with trimmed customer", func(t *testing.T) {
		c := Customer{Name: "  Ali ", Phone: " 0300-1234567", Address: "Lahore  ", Email: " ali@example.com "}
		o, err := NewOrder(c, validItems(), decimal.NewFromInt(3000), "")
		require.NoError(t, err)

		assert.Equal(t, "Ali", o.Customer.Name)
		assert.Equal(t, "0300-1234567", o.Customer.Phone)
		assert.Equal(t, "Lahore", o.Customer.Address)
		assert.Equal(t, "ali@example.com", o.Customer.Email)
		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, PaymentCash, o.PaymentMethod)
		assert.Empty(t, o.OrderNumber)
		assert.NotEqual(t, uuid.Nil, o.ID)
		assert.Empty(t, o.GetDomainEvents())
	})

	t.Run("blank item name becomes Unknown Product", func(t *testing.T) {
		items := []Item{{Name: "  ", UnitPrice: decimal.Zero, Quantity: 1}}
		o, err := NewOrder(validCustomer(), items, decimal.NewFromInt(10), PaymentMobilePayment)
		require.NoError(t, err)
		assert.Equal(t, UnknownProductName, o.Items[0].Name)
		assert.Equal(t, PaymentMobilePayment, o.PaymentMethod)
	})

	t.Run("zero items fails validation", func(t *testing.T) {
		_, err := NewOrder(validCustomer(), nil, decimal.NewFromInt(3000), PaymentCash)
		details := validationDetails(t, err)
		assert.Equal(t, []string{"items"}, fields(details))
	})

	t.Run("zero total fails validation", func(t *testing.T) {
		_, err := NewOrder(validCustomer(), validItems(), decimal.Zero, PaymentCash)
		details := validationDetails(t, err)
		assert.Equal(t, []string{"totalAmount"}, fields(details))
	})

	t.Run("collects every field problem", func(t *testing.T) {
		items := []Item{
			{Name: "Shirt", UnitPrice: decimal.NewFromInt(-1), Quantity: 1},
			{Name: "Scarf", UnitPrice: decimal.NewFromInt(100), Quantity: 0},
		}
		_, err := NewOrder(Customer{Name: " "}, items, decimal.NewFromInt(-5), PaymentMethod("card"))
		details := validationDetails(t, err)
		assert.Equal(t, []string{
			"customer.name",
			"customer.phone",
			"customer.address",
			"items[0].price",
			"items[1].quantity",
			"totalAmount",
			"paymentMethod",
		}, fields(details))
	})
}

func TestItem_Subtotal(t *testing.T) {
	it := Item{UnitPrice: decimal.RequireFromString("12.50"), Quantity: 4}
	assert.True(t, decimal.NewFromInt(50).Equal(it.Subtotal()))
}

// ============================================
// Lifecycle Tests
// ============================================

func TestOrder_MarkPlaced(t *testing.T) {
	o := createTestOrder(t)
	o.MarkPlaced()

	events := o.GetDomainEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(*OrderCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeOrderCreated, created.EventType())
	assert.Equal(t, "ORD001", created.OrderNumber)
	assert.Equal(t, o.ID, created.AggregateID())
	assert.Equal(t, 1, created.ItemCount)
}

func TestOrder_ChangeStatus(t *testing.T) {
	t.Run("pending to completed", func(t *testing.T) {
		o := createTestOrder(t)
		changed, err := o.ChangeStatus(StatusCompleted)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, StatusCompleted, o.Status)

		events := o.GetDomainEvents()
		require.Len(t, events, 1)
		ev := events[0].(*OrderStatusChangedEvent)
		assert.Equal(t, StatusPending, ev.From)
		assert.Equal(t, StatusCompleted, ev.To)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		o := createTestOrder(t)
		changed, err := o.ChangeStatus(StatusPending)
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Empty(t, o.GetDomainEvents())
	})

	t.Run("completed back to pending is rejected", func(t *testing.T) {
		o := createTestOrder(t)
		o.Status = StatusCompleted
		_, err := o.ChangeStatus(StatusPending)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidTransition))
		assert.Equal(t, StatusCompleted, o.Status)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		o := createTestOrder(t)
		_, err := o.ChangeStatus(Status("shipped"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInvalidStatus))
		assert.Equal(t, StatusPending, o.Status)
	})
}
