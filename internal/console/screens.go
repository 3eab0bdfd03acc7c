package console

import (
	"context"
	"errors"
	"strings"
	"sync"

	"lexron-admin/internal/backend"
	"lexron-admin/internal/domain"
	"lexron-admin/internal/genai"
	"lexron-admin/internal/resource"

	"go.uber.org/zap"
)

const (
	// MiscLabel stands in for a product's missing category or brand
	MiscLabel = "Misc"
	// UnlinkedLabel stands in for a subcategory's missing parent
	UnlinkedLabel = "Unlinked"
	// LowStockThreshold is the stock level at or below which a product is flagged
	LowStockThreshold = 10
)

var ErrNoCategories = errors.New("no categories to attach a subcategory to")

// SlugForm drives the name and slug inputs of a manager's draft
type SlugForm[T any] struct {
	m    *resource.Manager[T]
	name func(*T) *string
	slug func(*T) *string
	form resource.NameSlug
}

func newSlugForm[T any](m *resource.Manager[T], name, slug func(*T) *string) *SlugForm[T] {
	return &SlugForm[T]{m: m, name: name, slug: slug}
}

func (f *SlugForm[T]) sync() {
	f.m.EditDraft(func(d *T) {
		*f.name(d) = f.form.Name
		*f.slug(d) = f.form.Slug
	})
}

func (f *SlugForm[T]) SetName(name string) {
	f.form.SetName(name)
	f.sync()
}

func (f *SlugForm[T]) SetSlug(slug string) {
	f.form.SetSlug(slug)
	f.sync()
}

func (f *SlugForm[T]) BeginCreate() {
	f.m.BeginCreate()
	f.form = resource.NameSlug{}
}

func (f *SlugForm[T]) BeginEdit(id string) bool {
	if !f.m.BeginEdit(id) {
		return false
	}
	d := f.m.Draft()
	f.form = resource.NewNameSlug(*f.name(&d), *f.slug(&d))
	return true
}

// CategoriesScreen manages categories
type CategoriesScreen struct {
	Categories *resource.Manager[domain.Category]
	*SlugForm[domain.Category]
}

func NewCategoriesScreen(tables Tables, logger *zap.Logger) *CategoriesScreen {
	m := resource.NewManager(tables.Categories, CategorySpec(), logger)
	return &CategoriesScreen{
		Categories: m,
		SlugForm: newSlugForm(m,
			func(c *domain.Category) *string { return &c.Name },
			func(c *domain.Category) *string { return &c.Slug },
		),
	}
}

func (s *CategoriesScreen) Load(ctx context.Context) error {
	return s.Categories.Load(ctx)
}

// SubcategoriesScreen manages subcategories and shows their parents
type SubcategoriesScreen struct {
	Subcategories *resource.Manager[domain.Subcategory]
	Categories    *resource.Manager[domain.Category]
	*SlugForm[domain.Subcategory]
}

func NewSubcategoriesScreen(tables Tables, logger *zap.Logger) *SubcategoriesScreen {
	categories := resource.NewManager(tables.Categories, CategorySpec(), logger)
	subs := resource.NewManager(tables.Subcategories, SubcategorySpec(categories.Items), logger)
	return &SubcategoriesScreen{
		Subcategories: subs,
		Categories:    categories,
		SlugForm: newSlugForm(subs,
			func(s *domain.Subcategory) *string { return &s.Name },
			func(s *domain.Subcategory) *string { return &s.Slug },
		),
	}
}

// Load fetches subcategories together with their parents
func (s *SubcategoriesScreen) Load(ctx context.Context) error {
	return resource.LoadAll(ctx, s.Categories, s.Subcategories)
}

// ParentName resolves a category id against the loaded categories
func (s *SubcategoriesScreen) ParentName(categoryID string) string {
	if c, ok := s.Categories.Find(categoryID); ok {
		return c.Name
	}
	return UnlinkedLabel
}

// SetParent selects the draft's category
func (s *SubcategoriesScreen) SetParent(categoryID string) {
	s.Subcategories.EditDraft(func(d *domain.Subcategory) { d.CategoryID = categoryID })
}

// Save submits the form. New subcategories need at least one category to
// hang off.
func (s *SubcategoriesScreen) Save(ctx context.Context) error {
	if s.Subcategories.Editing() == "" && len(s.Categories.Items()) == 0 {
		s.Subcategories.SetAlert("Create a category before adding subcategories.")
		return ErrNoCategories
	}
	return s.Subcategories.Save(ctx)
}

// BrandsScreen manages brands and their logos
type BrandsScreen struct {
	Brands  *resource.Manager[domain.Brand]
	storage backend.Storage
	logger  *zap.Logger

	mu        sync.Mutex
	uploading bool
}

func NewBrandsScreen(tables Tables, storage backend.Storage, logger *zap.Logger) *BrandsScreen {
	return &BrandsScreen{
		Brands:  resource.NewManager(tables.Brands, BrandSpec(), logger),
		storage: storage,
		logger:  logger,
	}
}

func (s *BrandsScreen) Load(ctx context.Context) error {
	return s.Brands.Load(ctx)
}

func (s *BrandsScreen) Uploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading
}

// ProductsScreen lists products with their category and brand names and
// rewrites descriptions with the generator
type ProductsScreen struct {
	Products   *resource.Manager[domain.Product]
	Categories *resource.Manager[domain.Category]
	Brands     *resource.Manager[domain.Brand]
	generator  genai.Generator

	mu         sync.Mutex
	generating map[string]bool
}

func NewProductsScreen(tables Tables, generator genai.Generator, logger *zap.Logger) *ProductsScreen {
	return &ProductsScreen{
		Products:   resource.NewManager(tables.Products, ProductSpec(), logger),
		Categories: resource.NewManager(tables.Categories, CategorySpec(), logger),
		Brands:     resource.NewManager(tables.Brands, BrandSpec(), logger),
		generator:  generator,
		generating: make(map[string]bool),
	}
}

// Load fetches products, categories and brands concurrently
func (s *ProductsScreen) Load(ctx context.Context) error {
	return resource.LoadAll(ctx, s.Products, s.Categories, s.Brands)
}

func (s *ProductsScreen) CategoryName(id string) string {
	if c, ok := s.Categories.Find(id); ok {
		return c.Name
	}
	return MiscLabel
}

func (s *ProductsScreen) BrandName(id string) string {
	if b, ok := s.Brands.Find(id); ok {
		return b.Name
	}
	return MiscLabel
}

// LowStock flags products that need restocking
func LowStock(p domain.Product) bool {
	return p.Stock <= LowStockThreshold
}

// Generating reports whether a description is being written for id
func (s *ProductsScreen) Generating(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating[id]
}

// SyncDescription has the generator rewrite the description of product id
// and stores it. Seed products are only changed locally.
func (s *ProductsScreen) SyncDescription(ctx context.Context, id string) error {
	p, ok := s.Products.Find(id)
	if !ok {
		return resource.ErrNotFound
	}

	s.mu.Lock()
	if s.generating[id] {
		s.mu.Unlock()
		return resource.ErrMutationPending
	}
	s.generating[id] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.generating, id)
		s.mu.Unlock()
	}()

	desc := s.generator.Generate(ctx, p.Name, genai.DefaultStyle)
	return s.Products.UpdateFields(ctx, id,
		map[string]interface{}{"description": desc},
		func(p *domain.Product) { p.Description = desc },
	)
}

// CustomersScreen manages customer profiles
type CustomersScreen struct {
	Profiles *resource.Manager[domain.Profile]
}

func NewCustomersScreen(tables Tables, logger *zap.Logger) *CustomersScreen {
	return &CustomersScreen{Profiles: resource.NewManager(tables.Profiles, ProfileSpec(), logger)}
}

func (s *CustomersScreen) Load(ctx context.Context) error {
	return s.Profiles.Load(ctx)
}

// Counts tallies every loaded profile by status, ignoring any search
func (s *CustomersScreen) Counts() (active, suspended int) {
	for _, p := range s.Profiles.Items() {
		switch p.Status {
		case domain.ProfileActive:
			active++
		case domain.ProfileSuspended:
			suspended++
		}
	}
	return active, suspended
}

// Search keeps the profiles whose name or email contains query, ignoring
// case. An empty query keeps everything.
func (s *CustomersScreen) Search(query string) []domain.Profile {
	items := s.Profiles.Items()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}

	var out []domain.Profile
	for _, p := range items {
		if strings.Contains(strings.ToLower(p.FullName), q) || strings.Contains(strings.ToLower(p.Email), q) {
			out = append(out, p)
		}
	}
	return out
}
