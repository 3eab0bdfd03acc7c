package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lexron-admin/internal/domain"
)

var ErrSubcategoryNotFound = fmt.Errorf("subcategory: %w", ErrNotFound)

const subcategoryColumns = "id, name, slug, category_id, created_at"

var subcategoryListColumns = map[string]bool{
	"id":          true,
	"name":        true,
	"slug":        true,
	"category_id": true,
	"created_at":  true,
}

// SubcategoryRepository defines the interface for subcategory data access
type SubcategoryRepository interface {
	Table[domain.Subcategory]
}

type subcategoryRepository struct {
	db *sql.DB
}

// NewSubcategoryRepository creates a new instance of SubcategoryRepository
func NewSubcategoryRepository(db *sql.DB) SubcategoryRepository {
	return &subcategoryRepository{db: db}
}

func (r *subcategoryRepository) Create(ctx context.Context, sub *domain.Subcategory) error {
	query := `
		INSERT INTO subcategories (name, slug, category_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query, sub.Name, sub.Slug, sub.CategoryID).
		Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create subcategory: %w", translate(err, false))
	}

	return nil
}

func (r *subcategoryRepository) List(ctx context.Context, params ListParams) ([]*domain.Subcategory, error) {
	query, args := listQuery("subcategories", subcategoryColumns, params, subcategoryListColumns, "name")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}
	defer rows.Close()

	subs := []*domain.Subcategory{}
	for rows.Next() {
		sub := &domain.Subcategory{}
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Slug, &sub.CategoryID, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		subs = append(subs, sub)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcategories: %w", err)
	}

	return subs, nil
}

func (r *subcategoryRepository) FindByID(ctx context.Context, id string) (*domain.Subcategory, error) {
	query := `SELECT ` + subcategoryColumns + ` FROM subcategories WHERE id = $1`

	sub := &domain.Subcategory{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&sub.ID, &sub.Name, &sub.Slug, &sub.CategoryID, &sub.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubcategoryNotFound
		}
		return nil, fmt.Errorf("failed to find subcategory by ID: %w", err)
	}

	return sub, nil
}

func (r *subcategoryRepository) Update(ctx context.Context, sub *domain.Subcategory) error {
	query := `
		UPDATE subcategories
		SET name = $2, slug = $3, category_id = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, sub.ID, sub.Name, sub.Slug, sub.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to update subcategory: %w", translate(err, false))
	}

	return expectOneRow(result, ErrSubcategoryNotFound)
}

func (r *subcategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subcategory: %w", translate(err, true))
	}

	return expectOneRow(result, ErrSubcategoryNotFound)
}
