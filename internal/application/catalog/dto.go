package catalog

import (
	"io"
	"time"

	"github.com/clothstore/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest holds the form fields of a new product
type CreateProductRequest struct {
	Name        string          `form:"name" json:"name" binding:"max=200"`
	Price       decimal.Decimal `form:"price" json:"price"`
	Category    string          `form:"category" json:"category" binding:"max=100"`
	Description string          `form:"description" json:"description" binding:"max=2000"`
	Color       string          `form:"color" json:"color" binding:"max=50"`
}

// SoldOutRequest sets the sold-out flag
type SoldOutRequest struct {
	SoldOut *bool `json:"soldOut" binding:"required"`
}

// ImageUpload is one uploaded image file
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Images      []string  `json:"images"`
	SoldOut     bool      `json:"soldOut"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToProductResponse converts a domain Product to its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Category:    p.Category,
		Description: p.Description,
		Color:       p.Color,
		Images:      images,
		SoldOut:     p.SoldOut,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}
