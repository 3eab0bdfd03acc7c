package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lexron-admin/internal/console"
	"lexron-admin/internal/domain"
	"lexron-admin/internal/resource"

	"github.com/shopspring/decimal"
)

// collection is what the browse, form and delete views need from a screen
type collection interface {
	Load(ctx context.Context) error
	Title() string
	Rows() []Row
	Fields() []Field
	Values() map[string]string
	Set(key, value string)
	BeginCreate()
	BeginEdit(id string) bool
	Editing() string
	Save(ctx context.Context) error

	Status() resource.Status
	Alert() string
	DismissAlert()
	RequestDelete(id string)
	CancelDelete()
	ConfirmTarget() string
	ConfirmDelete(ctx context.Context) error
}

// adapt wraps a console screen for drawing. Screens without records
// return nil.
func adapt(s console.Screen) collection {
	switch s := s.(type) {
	case *console.CategoriesScreen:
		return &categoriesView{Manager: s.Categories, s: s}
	case *console.SubcategoriesScreen:
		return &subcategoriesView{Manager: s.Subcategories, s: s}
	case *console.BrandsScreen:
		return &brandsView{Manager: s.Brands, s: s}
	case *console.ProductsScreen:
		return &productsView{Manager: s.Products, s: s, raw: map[string]string{}}
	case *console.CustomersScreen:
		return &customersView{Manager: s.Profiles, s: s}
	default:
		return nil
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

type categoriesView struct {
	*resource.Manager[domain.Category]
	s *console.CategoriesScreen
}

func (v *categoriesView) Title() string { return "Manage Category" }

func (v *categoriesView) Rows() []Row {
	var rows []Row
	for _, c := range v.Items() {
		detail := "/" + c.Slug
		if d := deref(c.Description); d != "" {
			detail += "  " + d
		}
		rows = append(rows, Row{ID: c.ID, Name: c.Name, Detail: detail})
	}
	return rows
}

func (v *categoriesView) Fields() []Field {
	return []Field{{Key: "name", Label: "Name"}, {Key: "slug", Label: "Slug"}, {Key: "description", Label: "Description"}}
}

func (v *categoriesView) Values() map[string]string {
	d := v.Draft()
	return map[string]string{"name": d.Name, "slug": d.Slug, "description": deref(d.Description)}
}

func (v *categoriesView) Set(key, value string) {
	switch key {
	case "name":
		v.s.SetName(value)
	case "slug":
		v.s.SetSlug(value)
	case "description":
		v.EditDraft(func(c *domain.Category) { c.Description = optional(value) })
	}
}

func (v *categoriesView) Load(ctx context.Context) error { return v.s.Load(ctx) }
func (v *categoriesView) BeginCreate()                   { v.s.BeginCreate() }
func (v *categoriesView) BeginEdit(id string) bool       { return v.s.BeginEdit(id) }

type subcategoriesView struct {
	*resource.Manager[domain.Subcategory]
	s *console.SubcategoriesScreen
}

func (v *subcategoriesView) Title() string { return "Manage Subcategory" }

func (v *subcategoriesView) Rows() []Row {
	var rows []Row
	for _, sc := range v.Items() {
		rows = append(rows, Row{ID: sc.ID, Name: sc.Name, Detail: "/" + sc.Slug + "  in " + v.s.ParentName(sc.CategoryID)})
	}
	return rows
}

func (v *subcategoriesView) Fields() []Field {
	return []Field{{Key: "name", Label: "Name"}, {Key: "slug", Label: "Slug"}, {Key: "category", Label: "Category"}}
}

func (v *subcategoriesView) Values() map[string]string {
	d := v.Draft()
	parent := d.CategoryID
	if c, ok := v.s.Categories.Find(d.CategoryID); ok {
		parent = c.Name
	}
	return map[string]string{"name": d.Name, "slug": d.Slug, "category": parent}
}

func (v *subcategoriesView) Set(key, value string) {
	switch key {
	case "name":
		v.s.SetName(value)
	case "slug":
		v.s.SetSlug(value)
	case "category":
		v.s.SetParent(lookup(v.s.Categories.Items(), value,
			func(c domain.Category) (string, string) { return c.ID, c.Name }))
	}
}

func (v *subcategoriesView) Load(ctx context.Context) error { return v.s.Load(ctx) }
func (v *subcategoriesView) BeginCreate()                   { v.s.BeginCreate() }
func (v *subcategoriesView) BeginEdit(id string) bool       { return v.s.BeginEdit(id) }
func (v *subcategoriesView) Save(ctx context.Context) error { return v.s.Save(ctx) }

// lookup resolves a typed name or id to an id, leaving unknown input as is
func lookup[T any](items []T, value string, key func(T) (id, name string)) string {
	value = strings.TrimSpace(value)
	for _, item := range items {
		id, name := key(item)
		if id == value || strings.EqualFold(name, value) {
			return id
		}
	}
	return value
}

type brandsView struct {
	*resource.Manager[domain.Brand]
	s        *console.BrandsScreen
	logoFile string
}

func (v *brandsView) Title() string { return "Brands" }

func (v *brandsView) Rows() []Row {
	var rows []Row
	for _, b := range v.Items() {
		logo := deref(b.LogoURL)
		if logo == "" {
			logo = "no logo"
		}
		rows = append(rows, Row{ID: b.ID, Name: b.Name, Detail: logo})
	}
	return rows
}

func (v *brandsView) Fields() []Field {
	return []Field{{Key: "name", Label: "Name"}, {Key: "logo_file", Label: "Logo file"}}
}

func (v *brandsView) Values() map[string]string {
	return map[string]string{"name": v.Draft().Name, "logo_file": v.logoFile}
}

func (v *brandsView) Set(key, value string) {
	switch key {
	case "name":
		v.EditDraft(func(b *domain.Brand) { b.Name = value })
	case "logo_file":
		v.logoFile = strings.TrimSpace(value)
	}
}

func (v *brandsView) Load(ctx context.Context) error { return v.s.Load(ctx) }

func (v *brandsView) BeginCreate() {
	v.logoFile = ""
	v.Manager.BeginCreate()
}

func (v *brandsView) BeginEdit(id string) bool {
	v.logoFile = ""
	return v.Manager.BeginEdit(id)
}

// Save uploads the chosen logo file, if any, before saving the brand
func (v *brandsView) Save(ctx context.Context) error {
	if v.logoFile != "" {
		f, err := os.Open(v.logoFile)
		if err != nil {
			v.SetAlert("Upload failed: " + err.Error())
			return fmt.Errorf("failed to open logo: %w", err)
		}
		defer f.Close()

		if _, err := v.s.UploadLogo(ctx, filepath.Base(v.logoFile), f); err != nil {
			return err
		}
		v.logoFile = ""
	}
	return v.Manager.Save(ctx)
}

var errInvalidNumber = errors.New("invalid number")

type productsView struct {
	*resource.Manager[domain.Product]
	s   *console.ProductsScreen
	raw map[string]string
}

func (v *productsView) Title() string { return "Products" }

func (v *productsView) Rows() []Row {
	var rows []Row
	for _, p := range v.Items() {
		row := Row{
			ID:   p.ID,
			Name: p.Name,
			Detail: fmt.Sprintf("$%s  stock %d  %s / %s",
				p.Price.StringFixed(2), p.Stock, v.s.CategoryName(p.CategoryID), v.s.BrandName(p.BrandID)),
		}
		switch {
		case v.s.Generating(p.ID):
			row.Flag = "writing description…"
		case console.LowStock(p):
			row.Flag = "low stock"
		}
		rows = append(rows, row)
	}
	return rows
}

func (v *productsView) Fields() []Field {
	return []Field{
		{Key: "name", Label: "Name"},
		{Key: "description", Label: "Description"},
		{Key: "price", Label: "Price"},
		{Key: "stock", Label: "Stock"},
		{Key: "category", Label: "Category"},
		{Key: "brand", Label: "Brand"},
		{Key: "image_url", Label: "Image URL"},
	}
}

func (v *productsView) Values() map[string]string {
	d := v.Draft()
	values := map[string]string{
		"name":        d.Name,
		"description": d.Description,
		"price":       d.Price.String(),
		"stock":       strconv.Itoa(d.Stock),
		"category":    d.CategoryID,
		"brand":       d.BrandID,
		"image_url":   d.ImageURL,
	}
	if c, ok := v.s.Categories.Find(d.CategoryID); ok {
		values["category"] = c.Name
	}
	if b, ok := v.s.Brands.Find(d.BrandID); ok {
		values["brand"] = b.Name
	}
	for k, raw := range v.raw {
		values[k] = raw
	}
	return values
}

func (v *productsView) Set(key, value string) {
	switch key {
	case "price", "stock":
		v.raw[key] = value
	case "name":
		v.EditDraft(func(p *domain.Product) { p.Name = value })
	case "description":
		v.EditDraft(func(p *domain.Product) { p.Description = value })
	case "image_url":
		v.EditDraft(func(p *domain.Product) { p.ImageURL = strings.TrimSpace(value) })
	case "category":
		id := lookup(v.s.Categories.Items(), value, func(c domain.Category) (string, string) { return c.ID, c.Name })
		v.EditDraft(func(p *domain.Product) { p.CategoryID = id })
	case "brand":
		id := lookup(v.s.Brands.Items(), value, func(b domain.Brand) (string, string) { return b.ID, b.Name })
		v.EditDraft(func(p *domain.Product) { p.BrandID = id })
	}
}

func (v *productsView) Load(ctx context.Context) error { return v.s.Load(ctx) }

func (v *productsView) BeginCreate() {
	clear(v.raw)
	v.Manager.BeginCreate()
}

func (v *productsView) BeginEdit(id string) bool {
	clear(v.raw)
	return v.Manager.BeginEdit(id)
}

// Save parses the numeric inputs into the draft before saving it
func (v *productsView) Save(ctx context.Context) error {
	if raw, ok := v.raw["price"]; ok {
		price, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			v.SetAlert("Price must be a number.")
			return errInvalidNumber
		}
		v.EditDraft(func(p *domain.Product) { p.Price = price })
	}
	if raw, ok := v.raw["stock"]; ok {
		stock, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			v.SetAlert("Stock must be a whole number.")
			return errInvalidNumber
		}
		v.EditDraft(func(p *domain.Product) { p.Stock = stock })
	}
	if err := v.Manager.Save(ctx); err != nil {
		return err
	}
	clear(v.raw)
	return nil
}

// SyncDescription rewrites the description of id
func (v *productsView) SyncDescription(ctx context.Context, id string) error {
	return v.s.SyncDescription(ctx, id)
}

type customersView struct {
	*resource.Manager[domain.Profile]
	s     *console.CustomersScreen
	query string
}

func (v *customersView) Title() string {
	title := "Customers"
	if v.query != "" {
		title = fmt.Sprintf("Customers matching %q", v.query)
	}
	active, suspended := v.s.Counts()
	return fmt.Sprintf("%s · %d active · %d suspended", title, active, suspended)
}

func (v *customersView) Rows() []Row {
	var rows []Row
	for _, p := range v.s.Search(v.query) {
		row := Row{
			ID:     p.ID,
			Name:   p.FullName,
			Detail: fmt.Sprintf("%s  joined %s", p.Email, p.CreatedAt.Format("2006-01-02")),
		}
		if p.Status == domain.ProfileSuspended {
			row.Flag = "suspended"
		}
		rows = append(rows, row)
	}
	return rows
}

func (v *customersView) Fields() []Field {
	return []Field{
		{Key: "full_name", Label: "Full name"},
		{Key: "email", Label: "Email"},
		{Key: "phone", Label: "Phone"},
		{Key: "address", Label: "Address"},
		{Key: "status", Label: "Status"},
	}
}

func (v *customersView) Values() map[string]string {
	d := v.Draft()
	return map[string]string{
		"full_name": d.FullName,
		"email":     d.Email,
		"phone":     deref(d.Phone),
		"address":   deref(d.Address),
		"status":    string(d.Status),
	}
}

func (v *customersView) Set(key, value string) {
	v.EditDraft(func(p *domain.Profile) {
		switch key {
		case "full_name":
			p.FullName = value
		case "email":
			p.Email = strings.TrimSpace(value)
		case "phone":
			p.Phone = optional(value)
		case "address":
			p.Address = optional(value)
		case "status":
			p.Status = domain.ProfileStatus(strings.ToLower(strings.TrimSpace(value)))
		}
	})
}

func (v *customersView) Load(ctx context.Context) error { return v.s.Load(ctx) }

// Search narrows the rows to matching customers
func (v *customersView) Search(query string) { v.query = query }
