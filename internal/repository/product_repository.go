package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"lexron-admin/internal/domain"
)

var ErrProductNotFound = fmt.Errorf("product: %w", ErrNotFound)

const productColumns = `id, name, description, price, stock, category_id, brand_id,
		image_url, is_custom_build, specifications, created_at, updated_at`

var productListColumns = map[string]bool{
	"id":          true,
	"name":        true,
	"price":       true,
	"stock":       true,
	"category_id": true,
	"brand_id":    true,
	"created_at":  true,
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Table[domain.Product]
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		product    domain.Product
		categoryID sql.NullString
		brandID    sql.NullString
		specs      []byte
	)

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Stock,
		&categoryID,
		&brandID,
		&product.ImageURL,
		&product.IsCustomBuild,
		&specs,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.CategoryID = categoryID.String
	product.BrandID = brandID.String
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &product.Specifications); err != nil {
			return nil, fmt.Errorf("failed to decode specifications: %w", err)
		}
	}

	return &product, nil
}

func nullableID(id string) sql.NullString {
	return sql.NullString{String: id, Valid: id != ""}
}

func encodeSpecs(specs map[string]string) ([]byte, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	return json.Marshal(specs)
}

// Create inserts a product and fills in the generated id and timestamps
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	specs, err := encodeSpecs(product.Specifications)
	if err != nil {
		return fmt.Errorf("failed to encode specifications: %w", err)
	}

	query := `
		INSERT INTO products (name, description, price, stock, category_id, brand_id,
			image_url, is_custom_build, specifications)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err = r.db.QueryRowContext(ctx, query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		nullableID(product.CategoryID),
		nullableID(product.BrandID),
		product.ImageURL,
		product.IsCustomBuild,
		specs,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", translate(err, false))
	}

	return nil
}

// List retrieves products with optional filtering and sorting
func (r *productRepository) List(ctx context.Context, params ListParams) ([]*domain.Product, error) {
	query, args := listQuery("products", productColumns, params, productListColumns, "created_at")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// Update writes the editable fields of product; updated_at is maintained by trigger
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	specs, err := encodeSpecs(product.Specifications)
	if err != nil {
		return fmt.Errorf("failed to encode specifications: %w", err)
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, category_id = $6,
		    brand_id = $7, image_url = $8, is_custom_build = $9, specifications = $10
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		nullableID(product.CategoryID),
		nullableID(product.BrandID),
		product.ImageURL,
		product.IsCustomBuild,
		specs,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", translate(err, false))
	}

	return expectOneRow(result, ErrProductNotFound)
}

// Delete removes a product
func (r *productRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", translate(err, true))
	}

	return expectOneRow(result, ErrProductNotFound)
}
