package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/stockcal-backend/internal/domain"
)

// RegisterItemInput represents the input for registering an item
type RegisterItemInput struct {
	Category string // enumeration name or legacy label
	Name     string
	Specs    domain.SpecAttributes
	Unit     string // defaults to "ea"
}

// CatalogService manages the item master
type CatalogService struct {
	ItemRepo domain.ItemRepository
	Logger   logrus.FieldLogger
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(itemRepo domain.ItemRepository, logger logrus.FieldLogger) *CatalogService {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	return &CatalogService{ItemRepo: itemRepo, Logger: logger}
}

// RegisterItem validates and stores a new item with zero stock.
// An opening balance is booked afterwards as an IN transaction.
func (s *CatalogService) RegisterItem(ctx context.Context, input RegisterItemInput) (*domain.Item, error) {
	category, err := domain.ParseCategory(input.Category)
	if err != nil {
		return nil, err
	}

	specs, err := domain.NewSpecs(category, input.Specs)
	if err != nil {
		return nil, err
	}

	unit := strings.TrimSpace(input.Unit)
	if unit == "" {
		unit = domain.DefaultUnit
	}

	item := &domain.Item{
		ID:           uuid.New(),
		Category:     category,
		Name:         strings.TrimSpace(input.Name),
		Specs:        specs,
		CurrentStock: decimal.Zero,
		Unit:         unit,
		Version:      0,
		CreatedAt:    time.Now().UTC(),
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.ItemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{
		"item_id":  item.ID,
		"category": item.Category,
		"name":     item.Name,
	}).Info("item registered")

	return item, nil
}

// ListItems returns every item, or only those of one category when category is set
func (s *CatalogService) ListItems(ctx context.Context, category string) ([]*domain.Item, error) {
	var filter domain.Category
	if strings.TrimSpace(category) != "" {
		c, err := domain.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		filter = c
	}

	items, err := s.ItemRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Item{}
	}
	return items, nil
}

// GetItem returns one item by id
func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("item id is required")
	}
	return s.ItemRepo.GetByID(ctx, id)
}
