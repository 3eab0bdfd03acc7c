package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lexron-admin/internal/domain"
)

var ErrBrandNotFound = fmt.Errorf("brand: %w", ErrNotFound)

const brandColumns = "id, name, logo_url, created_at"

var brandListColumns = map[string]bool{
	"id":         true,
	"name":       true,
	"created_at": true,
}

// BrandRepository defines the interface for brand data access
type BrandRepository interface {
	Table[domain.Brand]
}

type brandRepository struct {
	db *sql.DB
}

// NewBrandRepository creates a new instance of BrandRepository
func NewBrandRepository(db *sql.DB) BrandRepository {
	return &brandRepository{db: db}
}

func (r *brandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	query := `
		INSERT INTO brands (name, logo_url)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowContext(ctx, query, brand.Name, brand.LogoURL).Scan(&brand.ID, &brand.CreatedAt); err != nil {
		return fmt.Errorf("failed to create brand: %w", translate(err, false))
	}

	return nil
}

func (r *brandRepository) List(ctx context.Context, params ListParams) ([]*domain.Brand, error) {
	query, args := listQuery("brands", brandColumns, params, brandListColumns, "name")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	defer rows.Close()

	brands := []*domain.Brand{}
	for rows.Next() {
		brand := &domain.Brand{}
		if err := rows.Scan(&brand.ID, &brand.Name, &brand.LogoURL, &brand.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan brand: %w", err)
		}
		brands = append(brands, brand)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating brands: %w", err)
	}

	return brands, nil
}

func (r *brandRepository) FindByID(ctx context.Context, id string) (*domain.Brand, error) {
	brand := &domain.Brand{}
	err := r.db.QueryRowContext(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = $1`, id).
		Scan(&brand.ID, &brand.Name, &brand.LogoURL, &brand.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to find brand by ID: %w", err)
	}

	return brand, nil
}

func (r *brandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE brands SET name = $2, logo_url = $3 WHERE id = $1`,
		brand.ID, brand.Name, brand.LogoURL,
	)
	if err != nil {
		return fmt.Errorf("failed to update brand: %w", translate(err, false))
	}

	return expectOneRow(result, ErrBrandNotFound)
}

// Delete removes a brand. Brands still attached to products are refused.
func (r *brandRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete brand: %w", translate(err, true))
	}

	return expectOneRow(result, ErrBrandNotFound)
}
