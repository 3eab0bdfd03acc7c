package console

import (
	"context"

	"lexron-admin/internal/backend"
	"lexron-admin/internal/genai"

	"go.uber.org/zap"
)

// Deps are the collaborators every screen is built from
type Deps struct {
	Tables    Tables
	Auth      backend.Auth
	Storage   backend.Storage
	Generator genai.Generator
	Logger    *zap.Logger
}

// Screen is an admin screen that fetches its own data
type Screen interface {
	Load(ctx context.Context) error
}

// NewScreen builds a fresh screen for view. Screens are discarded on
// navigation, so results of a previous screen never reach the next one.
// Views without data return nil.
func (d Deps) NewScreen(view View) Screen {
	switch view {
	case ViewCategories:
		return NewCategoriesScreen(d.Tables, d.Logger)
	case ViewSubcategories:
		return NewSubcategoriesScreen(d.Tables, d.Logger)
	case ViewBrands:
		return NewBrandsScreen(d.Tables, d.Storage, d.Logger)
	case ViewProducts:
		return NewProductsScreen(d.Tables, d.Generator, d.Logger)
	case ViewCustomers:
		return NewCustomersScreen(d.Tables, d.Logger)
	default:
		return nil
	}
}
