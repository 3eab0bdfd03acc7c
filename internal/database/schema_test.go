package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lexron-admin/internal/config"
)

const migrationsDir = "../../migrations"

func readMigration(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(migrationsDir, name))
	if err != nil {
		t.Fatalf("Failed to read migration %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesExist(t *testing.T) {
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_refresh_tokens_table.sql",
		"00003_create_categories_table.sql",
		"00004_create_subcategories_table.sql",
		"00005_create_brands_table.sql",
		"00006_create_products_table.sql",
		"00007_create_profiles_table.sql",
		"00008_create_updated_at_trigger.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		contentStr := readMigration(t, file.Name())

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(contentStr, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	expectedTables := map[string]string{
		"users":          "00001_create_users_table.sql",
		"refresh_tokens": "00002_create_refresh_tokens_table.sql",
		"categories":     "00003_create_categories_table.sql",
		"subcategories":  "00004_create_subcategories_table.sql",
		"brands":         "00005_create_brands_table.sql",
		"products":       "00006_create_products_table.sql",
		"profiles":       "00007_create_profiles_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		contentStr := readMigration(t, migrationFile)

		if !strings.Contains(contentStr, "CREATE TABLE IF NOT EXISTS "+tableName) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}
		if !strings.Contains(contentStr, "DROP TABLE IF EXISTS "+tableName) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

// Deleting a referenced row must be refused by the database rather than
// leaving dangling foreign keys behind.
func TestForeignKeysRestrictDeletion(t *testing.T) {
	cases := map[string][]string{
		"00004_create_subcategories_table.sql": {"REFERENCES categories(id) ON DELETE RESTRICT"},
		"00006_create_products_table.sql": {
			"REFERENCES categories(id) ON DELETE RESTRICT",
			"REFERENCES brands(id) ON DELETE RESTRICT",
		},
	}

	for file, constraints := range cases {
		contentStr := readMigration(t, file)
		for _, c := range constraints {
			if !strings.Contains(contentStr, c) {
				t.Errorf("Migration file %s missing constraint %q", file, c)
			}
		}
	}
}

func TestProductsTableEnforcesNonNegativeValues(t *testing.T) {
	contentStr := readMigration(t, "00006_create_products_table.sql")

	for _, check := range []string{"CHECK (price >= 0)", "CHECK (stock >= 0)"} {
		if !strings.Contains(contentStr, check) {
			t.Errorf("Products table missing %s", check)
		}
	}
}

func TestProfilesTableHasStatusConstraint(t *testing.T) {
	contentStr := readMigration(t, "00007_create_profiles_table.sql")

	for _, status := range []string{"'active'", "'suspended'"} {
		if !strings.Contains(contentStr, status) {
			t.Errorf("Profiles status constraint missing %s", status)
		}
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "admin",
		Password: "secret",
		Database: "lexron",
		Schema:   "public",
	})

	want := "postgres://admin:secret@db:5432/lexron?sslmode=disable&search_path=public"
	if dsn != want {
		t.Errorf("DSN() = %q, want %q", dsn, want)
	}
}
