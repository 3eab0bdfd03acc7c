package backend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categoryID(c *category) *string { return &c.ID }

func TestMemoryTable_InsertAssignsID(t *testing.T) {
	table := NewMemoryTable(categoryID)

	stored, err := table.Insert(context.Background(), category{Name: "Laptops", Slug: "laptops"})

	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.Len(t, table.Rows(), 1)
}

func TestMemoryTable_SelectFiltersAndOrders(t *testing.T) {
	table := NewMemoryTable(categoryID,
		category{ID: "1", Name: "Laptops", Slug: "laptops"},
		category{ID: "2", Name: "Accessories", Slug: "accessories"},
		category{ID: "3", Name: "Components", Slug: "components"},
	)

	rows, err := table.Select(context.Background(), Query{Order: "name"})
	require.NoError(t, err)
	assert.Equal(t, "Accessories", rows[0].Name)
	assert.Equal(t, "Laptops", rows[2].Name)

	rows, err = table.Select(context.Background(), Query{Order: "name", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, "Laptops", rows[0].Name)

	rows, err = table.Select(context.Background(), Query{Filters: map[string]string{"slug": "components"}})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "3", rows[0].ID)
}

func TestMemoryTable_UpdateMergesFields(t *testing.T) {
	table := NewMemoryTable(categoryID, category{ID: "1", Name: "Laptops", Slug: "laptops"})

	err := table.Update(context.Background(), "1", map[string]interface{}{"name": "Notebooks"})

	require.NoError(t, err)
	assert.Equal(t, category{ID: "1", Name: "Notebooks", Slug: "laptops"}, table.Rows()[0])
}

func TestMemoryTable_MissingRows(t *testing.T) {
	table := NewMemoryTable(categoryID)

	assert.Equal(t, "record not found", Message(table.Delete(context.Background(), "x")))
	assert.Equal(t, "record not found", Message(table.Update(context.Background(), "x", nil)))
}

func TestMemoryTable_ErrFailsEveryCall(t *testing.T) {
	table := NewMemoryTable(categoryID, category{ID: "1"})
	table.Err = errors.New("connection refused")

	_, err := table.Select(context.Background(), Query{})
	assert.Error(t, err)
	assert.Error(t, table.Delete(context.Background(), "1"))
	assert.Len(t, table.Rows(), 1)
	assert.Equal(t, 2, table.Calls())
}

func TestMemoryAuth_SignUpThenSignIn(t *testing.T) {
	auth := NewMemoryAuth()
	var events []AuthEvent
	auth.OnAuthStateChange(func(c AuthChange) { events = append(events, c.Event) })

	result, err := auth.SignUp(context.Background(), "a@lexron.dev", "secret123", map[string]string{"role": "admin"})
	require.NoError(t, err)
	require.NotNil(t, result.Session)
	assert.Equal(t, "admin", result.User.Role)

	_, err = auth.SignUp(context.Background(), "a@lexron.dev", "other", nil)
	assert.Equal(t, "User already registered", Message(err))

	_, err = auth.SignInWithPassword(context.Background(), "a@lexron.dev", "nope")
	assert.Equal(t, "Invalid login credentials", Message(err))

	require.NoError(t, auth.SignOut(context.Background()))
	assert.Equal(t, []AuthEvent{EventSignedIn, EventSignedOut}, events)
}

func TestMemoryStorage_UpsertControlsOverwrite(t *testing.T) {
	storage := NewMemoryStorage("http://cdn")

	_, err := storage.Upload(context.Background(), "brands", "logos/a.png", strings.NewReader("one"), false)
	require.NoError(t, err)

	_, err = storage.Upload(context.Background(), "brands", "logos/a.png", strings.NewReader("two"), false)
	assert.Equal(t, "The resource already exists", Message(err))

	_, err = storage.Upload(context.Background(), "brands", "logos/a.png", strings.NewReader("two"), true)
	require.NoError(t, err)

	b, ok := storage.Object("brands", "logos/a.png")
	require.True(t, ok)
	assert.Equal(t, "two", string(b))
	assert.Equal(t, "http://cdn/brands/logos/a.png", storage.PublicURL("brands", "logos/a.png"))
}
