// Package memory holds an in-process store used by tests and by the server
// when STORE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stockcal-backend/internal/domain"
)

// Store keeps items, history and events in maps guarded by one mutex.
// The mutex is held for the whole of a ledger apply, so the stock update and
// the history append are observed together or not at all.
type Store struct {
	mu      sync.RWMutex
	items   map[uuid.UUID]*domain.Item
	order   []uuid.UUID // insertion order of items
	history []*domain.History
	events  []*domain.Event

	// created_at of each item's latest entry
	lastRecorded map[uuid.UUID]time.Time
	now          func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		items:        make(map[uuid.UUID]*domain.Item),
		lastRecorded: make(map[uuid.UUID]time.Time),
		now:          time.Now,
	}
}

// ItemRepository returns the item view of the store
func (s *Store) ItemRepository() domain.ItemRepository { return (*itemRepository)(s) }

// HistoryRepository returns the ledger read view of the store
func (s *Store) HistoryRepository() domain.HistoryRepository { return (*historyRepository)(s) }

// LedgerRepository returns the ledger write view of the store
func (s *Store) LedgerRepository() domain.LedgerRepository { return (*ledgerRepository)(s) }

// EventRepository returns the event view of the store
func (s *Store) EventRepository() domain.EventRepository { return (*eventRepository)(s) }

// SetStock overwrites an item's stock without writing history.
// It exists so the audit tests can simulate drift.
func (s *Store) SetStock(id uuid.UUID, stock decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return domain.NewNotFoundError(fmt.Sprintf("item %s not found", id))
	}
	item.CurrentStock = stock
	return nil
}

// DeleteItem removes an item and keeps its history, leaving orphaned entries.
func (s *Store) DeleteItem(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

type itemRepository Store

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("failed to get item by ID", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError(fmt.Sprintf("item %s not found", id))
	}
	return cloneItem(item), nil
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("failed to create item", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; exists {
		return domain.NewStorageError("failed to create item", fmt.Errorf("duplicate id %s", item.ID))
	}
	r.items[item.ID] = cloneItem(item)
	r.order = append(r.order, item.ID)
	return nil
}

func (r *itemRepository) List(ctx context.Context, categoryFilter domain.Category) ([]*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("failed to list items", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*domain.Item, 0, len(r.order))
	for _, id := range r.order {
		item := r.items[id]
		if categoryFilter != "" && item.Category != categoryFilter {
			continue
		}
		items = append(items, cloneItem(item))
	}
	return items, nil
}

func (r *itemRepository) FindByName(ctx context.Context, category domain.Category, name string) (*domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("failed to find item by name", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		item := r.items[id]
		if item.Category == category && item.Name == name {
			return cloneItem(item), nil
		}
	}
	return nil, domain.NewNotFoundError(fmt.Sprintf("%s item %q not found", category, name))
}

type historyRepository Store

func (r *historyRepository) List(ctx context.Context, filter domain.HistoryFilter) ([]*domain.History, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("failed to list history", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*domain.History, 0, len(r.history))
	for _, h := range r.history {
		if filter.ItemID != nil && h.ItemID != *filter.ItemID {
			continue
		}
		if filter.From != nil && h.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && h.Date.After(*filter.To) {
			continue
		}
		entry := *h
		entries = append(entries, &entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Sequence < b.Sequence
	})
	return entries, nil
}

type ledgerRepository Store

func (r *ledgerRepository) Apply(ctx context.Context, change domain.StockChange) (*domain.History, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("failed to apply stock change", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[change.ItemID]
	if !ok {
		return nil, domain.NewNotFoundError(fmt.Sprintf("item %s not found", change.ItemID))
	}

	updated := cloneItem(item)
	updated.CurrentStock = item.CurrentStock.Add(change.Change)
	updated.Version = item.Version + 1

	// Stamped under the lock so created_at order matches sequence order.
	recordedAt := domain.NextRecordedAt(r.now(), r.lastRecorded[item.ID])
	entry := change.Entry(updated, recordedAt)
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	// Both writes happen under the same lock; nothing can fail in between.
	r.items[item.ID] = updated
	r.lastRecorded[item.ID] = recordedAt
	stored := *entry
	r.history = append(r.history, &stored)

	return entry, nil
}

type eventRepository Store

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	if err := ctx.Err(); err != nil {
		return domain.NewStorageError("failed to create event", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *event
	r.events = append(r.events, &stored)
	return nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStorageError("failed to list events", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]*domain.Event, 0, len(r.events))
	for _, e := range r.events {
		event := *e
		events = append(events, &event)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events, nil
}

func cloneItem(item *domain.Item) *domain.Item {
	c := *item
	return &c
}
