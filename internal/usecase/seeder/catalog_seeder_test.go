package seeder

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/stockcal-backend/internal/adapter/repository/memory"
	"github.com/simaogato/stockcal-backend/internal/adapter/textenc"
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

const sampleCatalog = `category,name,unit,color,thickness,width,length,core_type,adhesive_type
# films
RAW_MATERIAL_FILM,Blue Film,roll,blue,50,1000,500,,
CORE_TUBE,3in Paper Core,,,,1000,,paper,
ADHESIVE,Acrylic Glue,kg,,,,,,acrylic
`

func TestCatalogSeeder_Seed_ItemsMissing(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockItemRepository)
	seeder := NewCatalogSeeder(mockRepo, nil)

	mockRepo.On("FindByName", ctx, mock.Anything, mock.Anything).Return(nil, domain.NewNotFoundError("item not found"))

	mockRepo.On("Create", ctx, mock.MatchedBy(func(item *domain.Item) bool {
		film, ok := item.Specs.(domain.FilmSpecs)
		return item.Name == "Blue Film" &&
			item.Category == domain.CategoryRawMaterialFilm &&
			item.Unit == "roll" &&
			item.CurrentStock.IsZero() &&
			ok && film.Color == "blue" && film.Thickness.String() == "50"
	})).Return(nil)

	mockRepo.On("Create", ctx, mock.MatchedBy(func(item *domain.Item) bool {
		core, ok := item.Specs.(domain.CoreTubeSpecs)
		return item.Name == "3in Paper Core" &&
			item.Unit == domain.DefaultUnit &&
			ok && core.CoreType == "paper" && core.Length == nil
	})).Return(nil)

	mockRepo.On("Create", ctx, mock.MatchedBy(func(item *domain.Item) bool {
		return item.Name == "Acrylic Glue" && item.Category == domain.CategoryAdhesive
	})).Return(nil)

	result, err := seeder.Seed(ctx, strings.NewReader(sampleCatalog), "")
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 3}, result)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNumberOfCalls(t, "Create", 3)
}

func TestCatalogSeeder_Seed_ItemsExist(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockItemRepository)
	seeder := NewCatalogSeeder(mockRepo, nil)

	mockRepo.On("FindByName", ctx, mock.Anything, mock.Anything).Return(&domain.Item{ID: uuid.New()}, nil)

	result, err := seeder.Seed(ctx, strings.NewReader(sampleCatalog), textenc.UTF8)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 3}, result)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogSeeder_Seed_LookupFailure(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockItemRepository)
	seeder := NewCatalogSeeder(mockRepo, nil)

	mockRepo.On("FindByName", ctx, mock.Anything, mock.Anything).
		Return(nil, domain.NewStorageError("failed to find item", assert.AnError))

	_, err := seeder.Seed(ctx, strings.NewReader(sampleCatalog), "")
	assert.True(t, domain.IsStorage(err))
	mockRepo.AssertNumberOfCalls(t, "FindByName", 1)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogSeeder_Seed_LookupUsesParsedCategory(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockItemRepository)
	seeder := NewCatalogSeeder(mockRepo, nil)

	mockRepo.On("FindByName", ctx, domain.CategoryCoreTube, "Paper Core").Return(&domain.Item{ID: uuid.New()}, nil).Once()
	mockRepo.On("FindByName", ctx, domain.CategoryAdhesive, "Acrylic Glue").Return(nil, domain.NewNotFoundError("item not found")).Once()
	mockRepo.On("FindByName", ctx, domain.CategoryRawMaterialFilm, "Blue Film").Return(nil, domain.NewNotFoundError("item not found")).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(item *domain.Item) bool {
		return item.Category == domain.CategoryAdhesive && item.Name == "Acrylic Glue"
	})).Return(nil).Once()
	mockRepo.On("Create", ctx, mock.MatchedBy(func(item *domain.Item) bool {
		return item.Category == domain.CategoryRawMaterialFilm && item.Name == "Blue Film"
	})).Return(nil).Once()

	// legacy label, lower case and padded names all resolve before the lookup
	catalogFile := `category,name
지관,Paper Core
adhesive,  Acrylic Glue 
 Raw_Material_Film ,Blue Film
`
	result, err := seeder.Seed(ctx, strings.NewReader(catalogFile), "")
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 2, Skipped: 1}, result)
	mockRepo.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "FindByName", ctx, domain.Category(""), mock.Anything)
}

func TestCatalogSeeder_Seed_InvalidCatalog(t *testing.T) {
	tests := []struct {
		name    string
		catalog string
		errMsg  string
	}{
		{"unknown column", "category,name,price\nADHESIVE,Glue,3\n", `unknown catalog column "price"`},
		{"missing name column", "category,unit\nADHESIVE,kg\n", `catalog is missing the "name" column`},
		{"bad category", "category,name\nPLASTIC,Bag\n", "catalog line 2"},
		{"bad number", "category,name,width\nCORE_TUBE,Core,wide\n", `invalid width "wide"`},
		{"specs mismatch", "category,name,adhesive_type\nCORE_TUBE,Core,acrylic\n", "does not apply to CORE_TUBE items"},
		{"empty name", "category,name\nADHESIVE, \n", "item name cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockItemRepository)
			seeder := NewCatalogSeeder(mockRepo, nil)

			_, err := seeder.Seed(context.Background(), strings.NewReader(tt.catalog), "")
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
			assert.Contains(t, err.Error(), tt.errMsg)
			mockRepo.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything, mock.Anything)
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCatalogSeeder_SeedFile_EUCKR(t *testing.T) {
	ctx := context.Background()
	content := "category,name,color\n원단,청색 필름,청색\n생산품,보호 테이프,\n원단,청색 필름,청색\n"
	encoded, err := textenc.Encode([]byte(content), textenc.EUCKR)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, encoded, 0o644))

	store := memory.NewStore()
	seeder := NewCatalogSeeder(store.ItemRepository(), nil)

	result, err := seeder.SeedFile(ctx, path, "euc-kr")
	require.NoError(t, err)
	// the repeated row matches the item created from the first one
	assert.Equal(t, Result{Created: 2, Skipped: 1}, result)

	film, err := store.ItemRepository().FindByName(ctx, domain.CategoryRawMaterialFilm, "청색 필름")
	require.NoError(t, err)
	assert.Equal(t, "청색", film.Specs.Attributes().Color)

	// seeding again is a no-op
	result, err = seeder.SeedFile(ctx, path, "euc-kr")
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 3}, result)
}

func TestCatalogSeeder_SeedFile_Missing(t *testing.T) {
	seeder := NewCatalogSeeder(new(MockItemRepository), nil)
	_, err := seeder.SeedFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), "")
	assert.ErrorContains(t, err, "failed to open catalog")
}
