package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrAlreadyExists    = errors.New("record with this key already exists")
	ErrStillReferenced  = errors.New("record is still referenced by other records")
	ErrInvalidReference = errors.New("referenced record does not exist")
	ErrCheckFailed      = errors.New("value violates a check constraint")
)

// Postgres error codes the repositories translate
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// ListParams selects and orders rows of a collection. Filters are equality
// matches keyed by column name.
type ListParams struct {
	OrderBy   string
	SortOrder SortOrder
	Filters   map[string]string
}

// Table is the set of operations every collection repository supports
type Table[T any] interface {
	List(ctx context.Context, params ListParams) ([]*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, record *T) error
	Update(ctx context.Context, record *T) error
	Delete(ctx context.Context, id string) error
}

// listQuery builds a SELECT over table. Only columns present in allowed may
// be used for ordering or filtering; anything else falls back to
// defaultOrder or is ignored.
func listQuery(table, columns string, params ListParams, allowed map[string]bool, defaultOrder string) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)

	// Sorted for a stable statement text
	keys := make([]string, 0, len(params.Filters))
	for k := range params.Filters {
		if allowed[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		args = append(args, params.Filters[k])
		where = append(where, fmt.Sprintf("%s = $%d", k, len(args)))
	}

	orderBy := params.OrderBy
	if !allowed[orderBy] {
		orderBy = defaultOrder
	}
	sortOrder := params.SortOrder
	if sortOrder != SortOrderAsc && sortOrder != SortOrderDesc {
		sortOrder = SortOrderAsc
	}

	query := fmt.Sprintf("SELECT %s FROM %s", columns, table)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY %s %s", orderBy, sortOrder)

	return query, args
}

// translate maps driver errors onto the package sentinels. deleting tells a
// foreign key violation raised by DELETE (row still referenced) apart from
// one raised by INSERT/UPDATE (row points at a missing parent).
func translate(err error, deleting bool) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", ErrAlreadyExists, pgErr.ConstraintName)
	case pgForeignKeyViolation:
		if deleting {
			return fmt.Errorf("%w: %s", ErrStillReferenced, pgErr.ConstraintName)
		}
		return fmt.Errorf("%w: %s", ErrInvalidReference, pgErr.ConstraintName)
	case pgCheckViolation:
		return fmt.Errorf("%w: %s", ErrCheckFailed, pgErr.ConstraintName)
	}
	return err
}
