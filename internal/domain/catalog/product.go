package catalog

import (
	"strings"

	"github.com/clothstore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaxImagesPerUpload is the number of images accepted in a single upload request
const MaxImagesPerUpload = 10

// Product is a catalog entry shown in the storefront
type Product struct {
	shared.BaseEntity
	Name        string
	Price       decimal.Decimal
	Category    string
	Description string
	Color       string
	Images      []string
	SoldOut     bool
}

// NewProduct creates a new product. Name and a positive price are required.
func NewProduct(name string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" || !price.IsPositive() {
		return nil, shared.ErrValidation.WithMessage("Name and price required")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Price:      price,
		Images:     make([]string, 0),
	}, nil
}

// Describe sets the optional descriptive fields
func (p *Product) Describe(category, description, color string) {
	p.Category = strings.TrimSpace(category)
	p.Description = strings.TrimSpace(description)
	p.Color = strings.TrimSpace(color)
	p.Touch()
}

// SetSoldOut marks the product as sold out or back in stock
func (p *Product) SetSoldOut(soldOut bool) {
	p.SoldOut = soldOut
	p.Touch()
}

// AddImages appends image URLs in upload order
func (p *Product) AddImages(urls ...string) {
	if len(urls) == 0 {
		return
	}
	p.Images = append(p.Images, urls...)
	p.Touch()
}
