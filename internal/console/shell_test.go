package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func labels(entries []MenuEntry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Label)
	}
	return out
}

func TestNewShell_ExpandsCatalogOnCatalogScreens(t *testing.T) {
	assert.True(t, NewShell(PathCategories).CatalogExpanded)
	assert.True(t, NewShell(PathSubcategories).CatalogExpanded)
	assert.False(t, NewShell(PathProducts).CatalogExpanded)
	assert.True(t, NewShell(PathProducts).SidebarOpen)
}

func TestShell_EntriesHideCollapsedChildren(t *testing.T) {
	s := NewShell(PathDashboard)
	assert.Equal(t, []string{"Dashboard", "Customers", "Products", "Category", "Brands"}, labels(s.Entries()))

	s.ToggleCatalog()
	assert.Equal(t,
		[]string{"Dashboard", "Customers", "Products", "Category", "Manage Category", "Manage Subcategory", "Brands"},
		labels(s.Entries()),
	)
}

func TestShell_ActiveMarksGroupOfCurrentScreen(t *testing.T) {
	s := NewShell(PathSubcategories)

	var active []string
	for _, e := range s.Entries() {
		if e.Active {
			active = append(active, e.Label)
		}
	}
	assert.Equal(t, []string{"Category", "Manage Subcategory"}, active)

	s.Navigate(PathBrands)
	assert.True(t, s.Active(Menu[4]))
	assert.False(t, s.Active(Menu[3]))
}

func TestShell_ToggleSidebar(t *testing.T) {
	s := NewShell(PathDashboard)
	s.ToggleSidebar()
	assert.False(t, s.SidebarOpen)
	s.ToggleSidebar()
	assert.True(t, s.SidebarOpen)
}
