package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/clothstore/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// StringList stores a list of strings as a JSON array in a text column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

// ProductModel is the persistence model for a catalog product.
type ProductModel struct {
	BaseModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Category    string          `gorm:"type:varchar(100);not null;default:''"`
	Description string          `gorm:"type:text;not null;default:''"`
	Color       string          `gorm:"type:varchar(50);not null;default:''"`
	Images      StringList      `gorm:"type:text;not null"`
	SoldOut     bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	images := make([]string, len(m.Images))
	copy(images, m.Images)
	return &catalog.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Price:       m.Price,
		Category:    m.Category,
		Description: m.Description,
		Color:       m.Color,
		Images:      images,
		SoldOut:     m.SoldOut,
	}
}

// ProductModelFromDomain creates a persistence model from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		Color:       p.Color,
		Images:      StringList(p.Images),
		SoldOut:     p.SoldOut,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
