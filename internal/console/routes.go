// Package console holds the admin console's screens and navigation,
// independent of how they are drawn.
package console

import (
	"strings"

	"lexron-admin/internal/session"
)

const (
	PathHome          = "/"
	PathLogin         = "/admin/login"
	PathRegister      = "/admin/register"
	PathAdmin         = "/admin"
	PathDashboard     = "/admin/dashboard"
	PathProducts      = "/admin/products"
	PathCategories    = "/admin/categories"
	PathSubcategories = "/admin/subcategories"
	PathBrands        = "/admin/brands"
	PathCustomers     = "/admin/customers"
)

// View is what the console draws for a path
type View int

const (
	ViewLoading View = iota
	ViewHome
	ViewLogin
	ViewRegister
	ViewDashboard
	ViewProducts
	ViewCategories
	ViewSubcategories
	ViewBrands
	ViewCustomers
)

var adminViews = map[string]View{
	PathDashboard:     ViewDashboard,
	PathProducts:      ViewProducts,
	PathCategories:    ViewCategories,
	PathSubcategories: ViewSubcategories,
	PathBrands:        ViewBrands,
	PathCustomers:     ViewCustomers,
}

// Admin reports whether v is drawn inside the admin shell
func (v View) Admin() bool {
	return v >= ViewDashboard
}

// Decision is where a navigation ends up. Path differs from the requested
// path when the request was redirected.
type Decision struct {
	View       View
	Path       string
	Redirected bool
}

// Resolve picks the view for path given the auth state. Nothing is
// committed while the state is unknown.
func Resolve(path string, state session.State) Decision {
	if state == session.Unknown {
		return Decision{View: ViewLoading, Path: path}
	}

	path = normalize(path)
	target, view := route(path, state == session.Authenticated)
	return Decision{View: view, Path: target, Redirected: target != path}
}

func route(path string, authenticated bool) (string, View) {
	switch {
	case path == PathHome:
		return PathHome, ViewHome
	case path == PathLogin || path == PathRegister:
		if authenticated {
			return PathDashboard, ViewDashboard
		}
		if path == PathLogin {
			return PathLogin, ViewLogin
		}
		return PathRegister, ViewRegister
	case path == PathAdmin || strings.HasPrefix(path, PathAdmin+"/"):
		if !authenticated {
			return PathLogin, ViewLogin
		}
		if view, ok := adminViews[path]; ok {
			return path, view
		}
		return PathDashboard, ViewDashboard
	default:
		return PathHome, ViewHome
	}
}

func normalize(path string) string {
	if path == "" {
		return PathHome
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return PathHome
		}
	}
	return path
}
