package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ItemRepository defines the interface for item persistence operations
type ItemRepository interface {
	// GetByID retrieves an item by its ID
	// Returns an error matching ErrNotFound if the item does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)

	// Create creates a new item
	Create(ctx context.Context, item *Item) error

	// List retrieves items, optionally filtered by category
	// If categoryFilter is empty, returns all items in storage order
	List(ctx context.Context, categoryFilter Category) ([]*Item, error)

	// FindByName retrieves the first item with the given category and name
	FindByName(ctx context.Context, category Category, name string) (*Item, error)
}

// HistoryFilter narrows a ledger scan. Zero value means the whole ledger.
type HistoryFilter struct {
	ItemID *uuid.UUID
	From   *time.Time // inclusive business date
	To     *time.Time // inclusive business date
}

// HistoryRepository defines the read side of the ledger. Entries are only
// ever written through LedgerRepository.
type HistoryRepository interface {
	// List retrieves entries ordered by date, then creation time, then sequence
	List(ctx context.Context, filter HistoryFilter) ([]*History, error)
}

// LedgerRepository applies stock changes
type LedgerRepository interface {
	// Apply adds change.Change to the item's stock, bumps its version and appends
	// the matching history entry as a single unit of work: either both are
	// durable or neither is. The increment is atomic with respect to concurrent
	// Apply calls on the same item.
	// Returns the persisted entry, whose FinalStock is the new stock.
	Apply(ctx context.Context, change StockChange) (*History, error)
}

// EventRepository defines the interface for calendar event persistence operations
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *Event) error

	// List retrieves all events ordered by date
	List(ctx context.Context) ([]*Event, error)
}
