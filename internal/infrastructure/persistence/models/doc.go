// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free of ORM concerns.
//
// Structure:
//   - base.go: BaseModel and the AutoMigrate model list
//   - order.go: orders and order_items
//   - product.go: products, with image URLs stored as a JSON array
package models
