package catalog

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

// MockItemRepository is a mock implementation of ItemRepository for testing
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

func TestRegisterItem_Defaults(t *testing.T) {
	ctx := context.Background()
	repo := new(MockItemRepository)
	service := NewCatalogService(repo, nil)

	repo.On("Create", ctx, mock.MatchedBy(func(item *domain.Item) bool {
		return item.ID != uuid.Nil &&
			item.Category == domain.CategoryRawMaterialFilm &&
			item.Name == "Blue Film" &&
			item.Unit == "ea" &&
			item.CurrentStock.IsZero() &&
			item.Version == 0
	})).Return(nil)

	width := decimal.NewFromInt(1040)
	item, err := service.RegisterItem(ctx, RegisterItemInput{
		Category: "원단",
		Name:     "  Blue Film ",
		Specs:    domain.SpecAttributes{Color: "blue", Width: &width},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.CategoryRawMaterialFilm, item.Category)
	film, ok := item.Specs.(domain.FilmSpecs)
	require.True(t, ok)
	assert.Equal(t, "blue", film.Color)
	repo.AssertExpectations(t)
}

func TestRegisterItem_Validation(t *testing.T) {
	tests := []struct {
		name   string
		input  RegisterItemInput
		errMsg string
	}{
		{
			name:   "missing category",
			input:  RegisterItemInput{Name: "Film"},
			errMsg: "item category is required",
		},
		{
			name:   "unknown category",
			input:  RegisterItemInput{Category: "FABRIC", Name: "Film"},
			errMsg: `invalid item category "FABRIC"`,
		},
		{
			name:   "blank name",
			input:  RegisterItemInput{Category: "ADHESIVE", Name: "  "},
			errMsg: "item name cannot be empty",
		},
		{
			name:   "specs of another category",
			input:  RegisterItemInput{Category: "ADHESIVE", Name: "Acrylic", Specs: domain.SpecAttributes{CoreType: "3inch"}},
			errMsg: "coreType does not apply to ADHESIVE items",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockItemRepository)
			service := NewCatalogService(repo, nil)

			item, err := service.RegisterItem(context.Background(), tt.input)

			assert.Nil(t, item)
			assert.True(t, domain.IsValidation(err))
			assert.Contains(t, err.Error(), tt.errMsg)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegisterItem_StorageError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockItemRepository)
	service := NewCatalogService(repo, nil)

	repo.On("Create", ctx, mock.Anything).Return(domain.NewStorageError("failed to create item", assert.AnError))

	_, err := service.RegisterItem(ctx, RegisterItemInput{Category: "CORE_TUBE", Name: "3 inch core", Unit: "box"})
	assert.True(t, domain.IsStorage(err))
}

func TestListItems(t *testing.T) {
	ctx := context.Background()
	repo := new(MockItemRepository)
	service := NewCatalogService(repo, nil)

	films := []*domain.Item{{ID: uuid.New(), Category: domain.CategoryRawMaterialFilm, Name: "Blue Film"}}
	repo.On("List", ctx, domain.CategoryRawMaterialFilm).Return(films, nil)
	repo.On("List", ctx, domain.Category("")).Return(nil, nil)

	got, err := service.ListItems(ctx, "raw_material_film")
	require.NoError(t, err)
	assert.Equal(t, films, got)

	all, err := service.ListItems(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	_, err = service.ListItems(ctx, "FABRIC")
	assert.True(t, domain.IsValidation(err))
	repo.AssertNumberOfCalls(t, "List", 2)
}

func TestGetItem(t *testing.T) {
	ctx := context.Background()
	repo := new(MockItemRepository)
	service := NewCatalogService(repo, nil)

	id := uuid.New()
	repo.On("GetByID", ctx, id).Return(&domain.Item{ID: id, Name: "Acrylic"}, nil)
	missing := uuid.New()
	repo.On("GetByID", ctx, missing).Return(nil, domain.NewNotFoundError("item not found"))

	item, err := service.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Acrylic", item.Name)

	_, err = service.GetItem(ctx, missing)
	assert.True(t, domain.IsNotFound(err))

	_, err = service.GetItem(ctx, uuid.Nil)
	assert.True(t, domain.IsValidation(err))
}
