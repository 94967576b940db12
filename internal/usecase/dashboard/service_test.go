package dashboard

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stockcal-backend/internal/domain"
)

// MockItemRepository is a mock implementation of ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *MockItemRepository) Create(ctx context.Context, item *domain.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) List(ctx context.Context, categoryFilter domain.Category) ([]*domain.Item, error) {
	args := m.Called(ctx, categoryFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Item), args.Error(1)
}

func (m *MockItemRepository) FindByName(ctx context.Context, category domain.Category, name string) (*domain.Item, error) {
	args := m.Called(ctx, category, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func item(category domain.Category, name, stock string) *domain.Item {
	return &domain.Item{ID: uuid.New(), Category: category, Name: name, Unit: "ea", CurrentStock: decimal.RequireFromString(stock)}
}

func TestGetInventorySummary(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockItemRepository)
	service := NewDashboardService(mockRepo)

	shortage := item(domain.CategoryFinishedProduct, "Tape 48mm", "-4")
	mockRepo.On("List", ctx, domain.Category("")).Return([]*domain.Item{
		item(domain.CategoryRawMaterialFilm, "Blue Film", "100.5"),
		item(domain.CategoryRawMaterialFilm, "Clear Film", "20"),
		item(domain.CategoryFinishedProduct, "Tape 24mm", "10"),
		shortage,
	}, nil)

	summary, err := service.GetInventorySummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalItems)
	require.Len(t, summary.Categories, len(domain.Categories))

	film := summary.Categories[0]
	assert.Equal(t, domain.CategoryRawMaterialFilm, film.Category)
	assert.Equal(t, 2, film.Items)
	assert.Equal(t, "120.5", film.TotalStock.String())

	// categories without items are still listed
	assert.Equal(t, domain.CategoryCoreTube, summary.Categories[1].Category)
	assert.Zero(t, summary.Categories[1].Items)
	assert.True(t, summary.Categories[1].TotalStock.IsZero())

	finished := summary.Categories[3]
	assert.Equal(t, 2, finished.Items)
	assert.Equal(t, "6", finished.TotalStock.String())

	require.Len(t, summary.NegativeStock, 1)
	assert.Equal(t, shortage.ID, summary.NegativeStock[0].ID)
	mockRepo.AssertExpectations(t)
}

func TestGetInventorySummary_Empty(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockItemRepository)
	service := NewDashboardService(mockRepo)

	mockRepo.On("List", ctx, domain.Category("")).Return(nil, nil)

	summary, err := service.GetInventorySummary(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalItems)
	assert.NotNil(t, summary.NegativeStock)
	assert.Empty(t, summary.NegativeStock)
}

func TestGetInventorySummary_StorageError(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockItemRepository)
	service := NewDashboardService(mockRepo)

	mockRepo.On("List", ctx, domain.Category("")).Return(nil, domain.NewStorageError("failed to list items", assert.AnError))

	_, err := service.GetInventorySummary(ctx)
	assert.True(t, domain.IsStorage(err))
	assert.Contains(t, err.Error(), "failed to list items")
}
