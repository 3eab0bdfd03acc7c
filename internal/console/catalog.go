package console

import (
	"time"

	"lexron-admin/internal/backend"
	"lexron-admin/internal/domain"
	"lexron-admin/internal/resource"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tables are the collections the console manages
type Tables struct {
	Categories    backend.Table[domain.Category]
	Subcategories backend.Table[domain.Subcategory]
	Brands        backend.Table[domain.Brand]
	Products      backend.Table[domain.Product]
	Profiles      backend.Table[domain.Profile]
}

// HTTPTables reaches every collection through c
func HTTPTables(c *backend.Client) Tables {
	return Tables{
		Categories:    backend.From[domain.Category](c, "categories"),
		Subcategories: backend.From[domain.Subcategory](c, "subcategories"),
		Brands:        backend.From[domain.Brand](c, "brands"),
		Products:      backend.From[domain.Product](c, "products"),
		Profiles:      backend.From[domain.Profile](c, "profiles"),
	}
}

func categoryID(c *domain.Category) *string       { return &c.ID }
func subcategoryID(s *domain.Subcategory) *string { return &s.ID }
func brandID(b *domain.Brand) *string             { return &b.ID }
func productID(p *domain.Product) *string         { return &p.ID }
func profileID(p *domain.Profile) *string         { return &p.ID }

func CategorySpec() resource.Spec[domain.Category] {
	return resource.Spec[domain.Category]{
		Collection: "categories",
		Query:      backend.Query{Order: "name"},
		ID:         categoryID,
		Fields: func(c *domain.Category) map[string]interface{} {
			return map[string]interface{}{
				"name":        c.Name,
				"slug":        c.Slug,
				"description": c.Description,
			}
		},
		Seed:     seedCategories(),
		Required: "Please fill in both name and slug.",
	}
}

// SubcategorySpec checks parents against the categories known to the screen
func SubcategorySpec(categories func() []domain.Category) resource.Spec[domain.Subcategory] {
	return resource.Spec[domain.Subcategory]{
		Collection: "subcategories",
		Query:      backend.Query{Order: "name"},
		ID:         subcategoryID,
		Fields: func(s *domain.Subcategory) map[string]interface{} {
			return map[string]interface{}{
				"name":        s.Name,
				"slug":        s.Slug,
				"category_id": s.CategoryID,
			}
		},
		Required: "Please fill in all fields.",
		Check: func(s *domain.Subcategory) string {
			for _, c := range categories() {
				if c.ID == s.CategoryID {
					return ""
				}
			}
			return "The selected category does not exist."
		},
	}
}

func BrandSpec() resource.Spec[domain.Brand] {
	return resource.Spec[domain.Brand]{
		Collection: "brands",
		Query:      backend.Query{Order: "name"},
		ID:         brandID,
		Fields: func(b *domain.Brand) map[string]interface{} {
			return map[string]interface{}{
				"name":     b.Name,
				"logo_url": b.LogoURL,
			}
		},
		Seed:     seedBrands(),
		Required: "Brand name is required.",
	}
}

func ProductSpec() resource.Spec[domain.Product] {
	return resource.Spec[domain.Product]{
		Collection: "products",
		Query:      backend.Query{Order: "created_at"},
		ID:         productID,
		Fields: func(p *domain.Product) map[string]interface{} {
			return map[string]interface{}{
				"name":            p.Name,
				"description":     p.Description,
				"price":           p.Price,
				"stock":           p.Stock,
				"category_id":     p.CategoryID,
				"brand_id":        p.BrandID,
				"image_url":       p.ImageURL,
				"is_custom_build": p.IsCustomBuild,
				"specifications":  p.Specifications,
			}
		},
		Seed: seedProducts(),
		Check: func(p *domain.Product) string {
			if p.Price.IsNegative() {
				return "Price cannot be negative."
			}
			return ""
		},
	}
}

// ProfileSpec mints the id and creation time of manually added customers
// on the client
func ProfileSpec() resource.Spec[domain.Profile] {
	return resource.Spec[domain.Profile]{
		Collection: "profiles",
		Query:      backend.Query{Order: "created_at", Desc: true},
		ID:         profileID,
		Fields: func(p *domain.Profile) map[string]interface{} {
			return map[string]interface{}{
				"full_name": p.FullName,
				"email":     p.Email,
				"phone":     p.Phone,
				"address":   p.Address,
				"status":    p.Status,
			}
		},
		Seed: seedProfiles(),
		Blank: func() domain.Profile {
			return domain.Profile{Status: domain.ProfileActive}
		},
		Prepare: func(p *domain.Profile) {
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			p.CreatedAt = time.Now().UTC()
		},
	}
}

// Seeds shown when the backend cannot be reached

func seedCategories() []domain.Category {
	return []domain.Category{
		{ID: "1", Name: "Laptops", Slug: "laptops"},
		{ID: "2", Name: "Desktop PCs", Slug: "desktops"},
		{ID: "3", Name: "Components", Slug: "components"},
		{ID: "4", Name: "Accessories", Slug: "accessories"},
	}
}

func seedBrands() []domain.Brand {
	return []domain.Brand{
		{ID: "1", Name: "ASUS"},
		{ID: "2", Name: "MSI"},
		{ID: "3", Name: "Razer"},
		{ID: "4", Name: "Corsair"},
	}
}

func seedProducts() []domain.Product {
	return []domain.Product{
		{
			ID:          "1",
			Name:        "ROG Strix G16 (Mock)",
			Description: "High performance gaming laptop.",
			Price:       decimal.RequireFromString("1299.99"),
			Stock:       12,
			CategoryID:  "1",
			BrandID:     "1",
			ImageURL:    "https://picsum.photos/400/300?laptop",
		},
	}
}

func seedProfiles() []domain.Profile {
	joined := time.Date(2025, time.January, 15, 9, 30, 0, 0, time.UTC)
	return []domain.Profile{
		{ID: "1", FullName: "Ada Mensah", Email: "ada.mensah@example.com", Status: domain.ProfileActive, CreatedAt: joined},
		{ID: "2", FullName: "Jonas Berg", Email: "jonas.berg@example.com", Status: domain.ProfileSuspended, CreatedAt: joined.AddDate(0, -2, 0)},
	}
}
