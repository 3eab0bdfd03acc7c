package console

import "strings"

// MenuItem is one entry of the admin navigation. Items with children are
// groups and have no path of their own.
type MenuItem struct {
	Label    string
	Path     string
	Children []MenuItem
}

// Menu is the admin navigation in display order
var Menu = []MenuItem{
	{Label: "Dashboard", Path: PathDashboard},
	{Label: "Customers", Path: PathCustomers},
	{Label: "Products", Path: PathProducts},
	{Label: "Category", Children: []MenuItem{
		{Label: "Manage Category", Path: PathCategories},
		{Label: "Manage Subcategory", Path: PathSubcategories},
	}},
	{Label: "Brands", Path: PathBrands},
}

// MenuEntry is a MenuItem as currently shown. Depth is 1 for group children.
type MenuEntry struct {
	MenuItem
	Depth  int
	Active bool
}

// Shell is the frame around every admin screen. It only holds UI toggles.
type Shell struct {
	Path            string
	SidebarOpen     bool
	CatalogExpanded bool
}

// NewShell opens the frame on path. The catalog group starts expanded when
// path is one of its screens.
func NewShell(path string) *Shell {
	return &Shell{
		Path:            path,
		SidebarOpen:     true,
		CatalogExpanded: strings.Contains(path, "categor"),
	}
}

func (s *Shell) ToggleSidebar() {
	s.SidebarOpen = !s.SidebarOpen
}

func (s *Shell) ToggleCatalog() {
	s.CatalogExpanded = !s.CatalogExpanded
}

func (s *Shell) Navigate(path string) {
	s.Path = path
}

// Active reports whether item or one of its children is the current screen
func (s *Shell) Active(item MenuItem) bool {
	if item.Path != "" && item.Path == s.Path {
		return true
	}
	for _, child := range item.Children {
		if s.Active(child) {
			return true
		}
	}
	return false
}

// Entries lists the menu as drawn, with collapsed groups hiding children
func (s *Shell) Entries() []MenuEntry {
	var entries []MenuEntry
	for _, item := range Menu {
		entries = append(entries, MenuEntry{MenuItem: item, Active: s.Active(item)})
		if len(item.Children) == 0 || !s.CatalogExpanded {
			continue
		}
		for _, child := range item.Children {
			entries = append(entries, MenuEntry{MenuItem: child, Depth: 1, Active: s.Active(child)})
		}
	}
	return entries
}

// Tile is one figure on the dashboard
type Tile struct {
	Label  string
	Value  string
	Change string
}

// DashboardTiles are fixed figures; the console does not compute analytics
var DashboardTiles = []Tile{
	{Label: "Total Revenue", Value: "$124,592", Change: "+12.5%"},
	{Label: "Total Orders", Value: "1,240", Change: "+5.2%"},
	{Label: "New Customers", Value: "382", Change: "-1.4%"},
	{Label: "System Alerts", Value: "18", Change: "Alert"},
}
