package order

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/clothstore/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Request DTOs ====================

// CustomerInput is the delivery contact submitted at checkout
type CustomerInput struct {
	Name    string `json:"name" binding:"max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=1000"`
	Email   string `json:"email" binding:"omitempty,max=200"`
}

// OrderItemInput is a single cart line
type OrderItemInput struct {
	Name      string          `json:"name" binding:"max=200"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ProductID *string         `json:"productId" binding:"omitempty,max=64"`
}

// CreateOrderRequest represents a checkout submission.
// Presence and range rules are enforced by the domain so every problem is reported at once.
type CreateOrderRequest struct {
	Customer      CustomerInput    `json:"customer"`
	Items         []OrderItemInput `json:"items"`
	TotalAmount   decimal.Decimal  `json:"totalAmount"`
	PaymentMethod string           `json:"paymentMethod"`
}

// UnmarshalJSON reports malformed amounts and quantities as type errors
// naming the offending field, e.g. "items[1].price".
func (r *CreateOrderRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Customer      CustomerInput   `json:"customer"`
		Items         []rawItem       `json:"items"`
		TotalAmount   json.RawMessage `json:"totalAmount"`
		PaymentMethod string          `json:"paymentMethod"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var items []OrderItemInput
	if raw.Items != nil {
		items = make([]OrderItemInput, len(raw.Items))
	}
	for i, it := range raw.Items {
		field := fmt.Sprintf("items[%d].", i)
		items[i] = OrderItemInput{Name: it.Name, ProductID: it.ProductID}
		if err := decodeField(it.Price, &items[i].Price, field+"price"); err != nil {
			return err
		}
		if err := decodeField(it.Quantity, &items[i].Quantity, field+"quantity"); err != nil {
			return err
		}
	}

	var total decimal.Decimal
	if err := decodeField(raw.TotalAmount, &total, "totalAmount"); err != nil {
		return err
	}

	*r = CreateOrderRequest{
		Customer:      raw.Customer,
		Items:         items,
		TotalAmount:   total,
		PaymentMethod: raw.PaymentMethod,
	}
	return nil
}

type rawItem struct {
	Name      string          `json:"name"`
	Price     json.RawMessage `json:"price"`
	Quantity  json.RawMessage `json:"quantity"`
	ProductID *string         `json:"productId"`
}

// decodeField decodes raw into dst. An absent value leaves dst untouched.
func decodeField(raw json.RawMessage, dst any, field string) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &json.UnmarshalTypeError{
			Value: jsonKind(raw),
			Type:  reflect.TypeOf(dst).Elem(),
			Field: field,
		}
	}
	return nil
}

func jsonKind(raw json.RawMessage) string {
	switch raw[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	default:
		return "number " + string(raw)
	}
}

func (r CreateOrderRequest) customer() order.Customer {
	return order.Customer{
		Name:    r.Customer.Name,
		Phone:   r.Customer.Phone,
		Address: r.Customer.Address,
		Email:   r.Customer.Email,
	}
}

func (r CreateOrderRequest) items() []order.Item {
	items := make([]order.Item, len(r.Items))
	for i, it := range r.Items {
		items[i] = order.Item{
			Name:             it.Name,
			UnitPrice:        it.Price,
			Quantity:         it.Quantity,
			ProductReference: it.ProductID,
		}
	}
	return items
}

// UpdateStatusRequest represents a status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ==================== Response DTOs ====================

// CustomerResponse represents the customer block of an order
type CustomerResponse struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

// OrderItemResponse represents an order line
type OrderItemResponse struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ProductID *string `json:"productId"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"orderNumber"`
	Customer      CustomerResponse    `json:"customer"`
	Items         []OrderItemResponse `json:"items"`
	TotalAmount   float64             `json:"totalAmount"`
	PaymentMethod string              `json:"paymentMethod"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// StatisticsResponse is the admin dashboard summary.
// The figures come from separate queries and are not a single snapshot.
type StatisticsResponse struct {
	TotalOrders     int64   `json:"totalOrders"`
	PendingOrders   int64   `json:"pendingOrders"`
	CompletedOrders int64   `json:"completedOrders"`
	TodaysOrders    int64   `json:"todaysOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
}

// ConnectionReport describes store connectivity for diagnostics
type ConnectionReport struct {
	Database     string          `json:"database"`
	TotalOrders  int64           `json:"totalOrders"`
	SampleOrders []OrderResponse `json:"sampleOrders"`
}

// ToOrderResponse converts a domain Order to its API representation
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			Name:      it.Name,
			Price:     it.UnitPrice.InexactFloat64(),
			Quantity:  it.Quantity,
			ProductID: it.ProductReference,
		}
	}
	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Customer: CustomerResponse{
			Name:    o.Customer.Name,
			Phone:   o.Customer.Phone,
			Address: o.Customer.Address,
			Email:   o.Customer.Email,
		},
		Items:         items,
		TotalAmount:   o.TotalAmount.InexactFloat64(),
		PaymentMethod: string(o.PaymentMethod),
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}
