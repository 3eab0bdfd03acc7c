package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products and subcategories
type Category struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" validate:"required"`
	Slug        string    `json:"slug" db:"slug" validate:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Subcategory belongs to exactly one Category
type Subcategory struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name" validate:"required"`
	Slug       string    `json:"slug" db:"slug" validate:"required"`
	CategoryID string    `json:"category_id" db:"category_id" validate:"required"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Brand is a manufacturer referenced by products
type Brand struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" validate:"required"`
	LogoURL   *string   `json:"logo_url,omitempty" db:"logo_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Product represents a product in the catalog
type Product struct {
	ID             string            `json:"id" db:"id"`
	Name           string            `json:"name" db:"name" validate:"required"`
	Description    string            `json:"description" db:"description"`
	Price          decimal.Decimal   `json:"price" db:"price"`
	Stock          int               `json:"stock" db:"stock" validate:"gte=0"`
	CategoryID     string            `json:"category_id" db:"category_id"`
	BrandID        string            `json:"brand_id" db:"brand_id"`
	ImageURL       string            `json:"image_url" db:"image_url"`
	IsCustomBuild  bool              `json:"is_custom_build" db:"is_custom_build"`
	Specifications map[string]string `json:"specifications,omitempty" db:"specifications"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}
