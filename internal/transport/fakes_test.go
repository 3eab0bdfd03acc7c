package transport

import (
	"context"
	"sort"
	"sync"

	"lexron-admin/internal/domain"
	"lexron-admin/internal/repository"

	"github.com/google/uuid"
)

type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]*domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func (m *mockRefreshTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	for _, token := range m.tokens {
		if token.UserID == userID {
			token.Revoked = true
		}
	}
	return nil
}

// memoryCategories is an in-memory repository.Table for categories. Ids in
// referenced are refused on delete.
type memoryCategories struct {
	mu         sync.Mutex
	rows       map[string]domain.Category
	referenced map[string]bool
	lastParams repository.ListParams
	writeErr   error
}

func newMemoryCategories() *memoryCategories {
	return &memoryCategories{rows: map[string]domain.Category{}, referenced: map[string]bool{}}
}

func (m *memoryCategories) List(ctx context.Context, params repository.ListParams) ([]*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastParams = params

	out := []*domain.Category{}
	for _, c := range m.rows {
		c := c
		if slug, ok := params.Filters["slug"]; ok && c.Slug != slug {
			continue
		}
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryCategories) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	return &c, nil
}

func (m *memoryCategories) Create(ctx context.Context, c *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	for _, existing := range m.rows {
		if existing.Slug == c.Slug {
			return repository.ErrAlreadyExists
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memoryCategories) Update(ctx context.Context, c *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[c.ID]; !ok {
		return repository.ErrCategoryNotFound
	}
	m.rows[c.ID] = *c
	return nil
}

func (m *memoryCategories) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return repository.ErrCategoryNotFound
	}
	if m.referenced[id] {
		return repository.ErrStillReferenced
	}
	delete(m.rows, id)
	return nil
}
