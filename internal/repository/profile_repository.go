package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lexron-admin/internal/domain"
)

var ErrProfileNotFound = fmt.Errorf("profile: %w", ErrNotFound)

const profileColumns = "id, full_name, email, avatar_url, phone, address, status, created_at"

var profileListColumns = map[string]bool{
	"id":         true,
	"full_name":  true,
	"email":      true,
	"status":     true,
	"created_at": true,
}

// ProfileRepository defines the interface for customer profile data access
type ProfileRepository interface {
	Table[domain.Profile]
}

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new instance of ProfileRepository
func NewProfileRepository(db *sql.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	p := &domain.Profile{}
	err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&p.AvatarURL,
		&p.Phone,
		&p.Address,
		&p.Status,
		&p.CreatedAt,
	)
	return p, err
}

// Create inserts a profile. Profiles are the one collection where the caller
// may supply the id (registration ties it to the auth identity); when ID is
// empty the database generates one. A zero CreatedAt is filled in likewise.
func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, full_name, email, avatar_url, phone, address, status, created_at)
		VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7,
			COALESCE($8, NOW()))
		RETURNING id, created_at
	`

	var createdAt sql.NullTime
	if !p.CreatedAt.IsZero() {
		createdAt = sql.NullTime{Time: p.CreatedAt, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		p.ID,
		p.FullName,
		p.Email,
		p.AvatarURL,
		p.Phone,
		p.Address,
		p.Status,
		createdAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", translate(err, false))
	}

	return nil
}

func (r *profileRepository) List(ctx context.Context, params ListParams) ([]*domain.Profile, error) {
	query, args := listQuery("profiles", profileColumns, params, profileListColumns, "created_at")

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []*domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return profiles, nil
}

func (r *profileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to find profile by ID: %w", err)
	}

	return p, nil
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET full_name = $2, email = $3, avatar_url = $4, phone = $5, address = $6, status = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.FullName,
		p.Email,
		p.AvatarURL,
		p.Phone,
		p.Address,
		p.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", translate(err, false))
	}

	return expectOneRow(result, ErrProfileNotFound)
}

func (r *profileRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", translate(err, true))
	}

	return expectOneRow(result, ErrProfileNotFound)
}
