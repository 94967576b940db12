package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/simaogato/stockcal-backend/internal/domain"
)

// CategorySummary aggregates the items of one category
type CategorySummary struct {
	Category   domain.Category
	Items      int
	TotalStock decimal.Decimal // summed across units as stored
}

// InventorySummary represents the stock overview shown on the dashboard
type InventorySummary struct {
	TotalItems    int
	Categories    []CategorySummary // one per known category, in display order
	NegativeStock []*domain.Item    // items shipped beyond what was booked in
}

// DashboardService handles dashboard-related operations
type DashboardService struct {
	ItemRepo domain.ItemRepository
}

// NewDashboardService creates a new DashboardService instance
func NewDashboardService(itemRepo domain.ItemRepository) *DashboardService {
	return &DashboardService{
		ItemRepo: itemRepo,
	}
}

// GetInventorySummary calculates the inventory overview
// Logic:
//   - Categories: item count and summed current stock per category, zero for empty ones
//   - NegativeStock: every item whose current stock is below zero, in storage order
//   - TotalItems: number of registered items
func (s *DashboardService) GetInventorySummary(ctx context.Context) (*InventorySummary, error) {
	items, err := s.ItemRepo.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	byCategory := make(map[domain.Category]*CategorySummary, len(domain.Categories))
	summary := &InventorySummary{
		TotalItems:    len(items),
		Categories:    make([]CategorySummary, len(domain.Categories)),
		NegativeStock: []*domain.Item{},
	}
	for i, c := range domain.Categories {
		summary.Categories[i] = CategorySummary{Category: c, TotalStock: decimal.Zero}
		byCategory[c] = &summary.Categories[i]
	}

	for _, item := range items {
		if c, ok := byCategory[item.Category]; ok {
			c.Items++
			c.TotalStock = c.TotalStock.Add(item.CurrentStock)
		}
		if item.CurrentStock.IsNegative() {
			summary.NegativeStock = append(summary.NegativeStock, item)
		}
	}

	return summary, nil
}
