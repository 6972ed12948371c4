// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/glycora/imageaudit/internal/domain/catalog"
)

// MockRecipeStore provides a mock implementation of RecipeStore
type MockRecipeStore struct {
	mock.Mock
	mu      sync.Mutex
	updates map[uuid.UUID]string
}

// NewMockRecipeStore creates a new mock recipe store
func NewMockRecipeStore() *MockRecipeStore {
	return &MockRecipeStore{
		updates: make(map[uuid.UUID]string),
	}
}

// FetchAllRecipes returns the configured recipe set
func (m *MockRecipeStore) FetchAllRecipes(ctx context.Context) ([]catalog.Recipe, error) {
	args := m.Called(ctx)

	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Recipe), args.Error(1)
}

// UpdateMealImage records the update and returns the configured error
func (m *MockRecipeStore) UpdateMealImage(ctx context.Context, id uuid.UUID, newImageURL string) error {
	args := m.Called(ctx, id, newImageURL)

	if args.Error(0) == nil {
		m.mu.Lock()
		m.updates[id] = newImageURL
		m.mu.Unlock()
	}
	return args.Error(0)
}

// UpdateCount returns how many updates were applied
func (m *MockRecipeStore) UpdateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.updates)
}

// UpdatedImage returns the image URL written for a recipe, if any
func (m *MockRecipeStore) UpdatedImage(id uuid.UUID) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	url, ok := m.updates[id]
	return url, ok
}
