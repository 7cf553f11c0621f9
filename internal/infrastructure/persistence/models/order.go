package models

import (
	"github.com/clothstore/backend/internal/domain/order"
	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	BaseModel
	OrderNumber     string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_orders_order_number"`
	CustomerName    string              `gorm:"type:varchar(200);not null"`
	CustomerPhone   string              `gorm:"type:varchar(50);not null"`
	CustomerAddress string              `gorm:"type:text;not null"`
	CustomerEmail   string              `gorm:"type:varchar(200);not null;default:''"`
	Items           []OrderItemModel    `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount     decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	PaymentMethod   order.PaymentMethod `gorm:"type:varchar(20);not null;default:'cash'"`
	Status          order.Status        `gorm:"type:varchar(20);not null;default:'pending';index:idx_orders_status"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain()},
		OrderNumber:       m.OrderNumber,
		Customer: order.Customer{
			Name:    m.CustomerName,
			Phone:   m.CustomerPhone,
			Address: m.CustomerAddress,
			Email:   m.CustomerEmail,
		},
		Items:         make([]order.Item, len(m.Items)),
		TotalAmount:   m.TotalAmount,
		PaymentMethod: m.PaymentMethod,
		Status:        m.Status,
	}
	for i := range m.Items {
		o.Items[i] = m.Items[i].ToDomain()
	}
	return o
}

// OrderModelFromDomain creates a persistence model from a domain Order.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.Customer.Name,
		CustomerPhone:   o.Customer.Phone,
		CustomerAddress: o.Customer.Address,
		CustomerEmail:   o.Customer.Email,
		Items:           make([]OrderItemModel, len(o.Items)),
		TotalAmount:     o.TotalAmount,
		PaymentMethod:   o.PaymentMethod,
		Status:          o.Status,
	}
	m.FromDomainBaseEntity(o.BaseEntity)
	for i, it := range o.Items {
		m.Items[i] = OrderItemModel{
			ID:               uuid.New(),
			OrderID:          o.ID,
			Position:         i,
			Name:             it.Name,
			UnitPrice:        it.UnitPrice,
			Quantity:         it.Quantity,
			ProductReference: it.ProductReference,
		}
	}
	return m
}

// OrderItemModel is the persistence model for an order line.
type OrderItemModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position         int             `gorm:"not null;default:0"`
	Name             string          `gorm:"type:varchar(200);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Quantity         int             `gorm:"not null"`
	ProductReference *string         `gorm:"type:varchar(64)"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Item.
func (m *OrderItemModel) ToDomain() order.Item {
	return order.Item{
		Name:             m.Name,
		UnitPrice:        m.UnitPrice,
		Quantity:         m.Quantity,
		ProductReference: m.ProductReference,
	}
}
