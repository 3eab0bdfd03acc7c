//go:build integration

package repository

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"
	"time"

	"lexron-admin/internal/database"
	"lexron-admin/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := dbContainer.ConnectionString(context.Background(), "sslmode=disable")
	if err != nil {
		return dbContainer.Terminate, err
	}

	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	if err := database.RunMigrations(context.Background(), testDB, "../../migrations", zap.NewNop()); err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	code := m.Run()

	testDB.Close()
	if err := teardown(context.Background()); err != nil {
		log.Printf("could not terminate postgres container: %v", err)
	}
	os.Exit(code)
}

func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	ctx := context.Background()
	categories := NewCategoryRepository(testDB)
	products := NewProductRepository(testDB)

	category := &domain.Category{Name: "Laptops", Slug: "laptops-property"}
	require.NoError(t, categories.Create(ctx, category))

	properties := gopter.NewProperties(nil)

	properties.Property("a created product reads back unchanged", prop.ForAll(
		func(name string, cents int64, stock int, custom bool) bool {
			product := &domain.Product{
				Name:           name,
				Price:          decimal.New(cents, -2),
				Stock:          stock,
				CategoryID:     category.ID,
				IsCustomBuild:  custom,
				Specifications: map[string]string{"ram": "32GB"},
			}
			if err := products.Create(ctx, product); err != nil {
				t.Logf("FAIL: create: %v", err)
				return false
			}

			got, err := products.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: find: %v", err)
				return false
			}

			return got.Name == name &&
				got.Price.Equal(product.Price) &&
				got.Stock == stock &&
				got.CategoryID == category.ID &&
				got.BrandID == "" &&
				got.IsCustomBuild == custom &&
				got.Specifications["ram"] == "32GB"
		},
		gen.AlphaString().SuchThat(func(s string) bool { return s != "" }),
		gen.Int64Range(0, 99999999),
		gen.IntRange(0, 1000),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestIntegration_DeleteRefusedWhileReferenced(t *testing.T) {
	ctx := context.Background()
	categories := NewCategoryRepository(testDB)
	subcategories := NewSubcategoryRepository(testDB)

	category := &domain.Category{Name: "Components", Slug: "components-restrict"}
	require.NoError(t, categories.Create(ctx, category))

	sub := &domain.Subcategory{Name: "GPUs", Slug: "gpus-restrict", CategoryID: category.ID}
	require.NoError(t, subcategories.Create(ctx, sub))

	assert.ErrorIs(t, categories.Delete(ctx, category.ID), ErrStillReferenced)

	require.NoError(t, subcategories.Delete(ctx, sub.ID))
	require.NoError(t, categories.Delete(ctx, category.ID))
}

func TestIntegration_DuplicateSlug(t *testing.T) {
	ctx := context.Background()
	categories := NewCategoryRepository(testDB)

	require.NoError(t, categories.Create(ctx, &domain.Category{Name: "Desktops", Slug: "desktop-pcs-dup"}))
	err := categories.Create(ctx, &domain.Category{Name: "Desktops 2", Slug: "desktop-pcs-dup"})

	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestIntegration_ProfileWithClientID(t *testing.T) {
	ctx := context.Background()
	profiles := NewProfileRepository(testDB)

	id := "0b7d3c55-6f0e-4a8c-9e1b-2c3d4e5f6a7b"
	profile := &domain.Profile{ID: id, FullName: "Ada", Email: "ada@example.com", Status: domain.ProfileActive}
	require.NoError(t, profiles.Create(ctx, profile))
	assert.Equal(t, id, profile.ID)
	assert.False(t, profile.CreatedAt.IsZero())

	generated := &domain.Profile{FullName: "Grace", Email: "grace@example.com", Status: domain.ProfileActive}
	require.NoError(t, profiles.Create(ctx, generated))
	assert.NotEmpty(t, generated.ID)
}
