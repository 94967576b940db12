// Package repository selects and opens the configured store.
package repository

import (
	"context"
	"fmt"

	"github.com/simaogato/stockcal-backend/internal/adapter/repository/memory"
	"github.com/simaogato/stockcal-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/stockcal-backend/internal/adapter/repository/sqlite"
	"github.com/simaogato/stockcal-backend/internal/config"
	"github.com/simaogato/stockcal-backend/internal/domain"
)

// Stores groups the repositories of one backing store
type Stores struct {
	Items   domain.ItemRepository
	History domain.HistoryRepository
	Ledger  domain.LedgerRepository
	Events  domain.EventRepository

	close func() error
}

// Close releases the underlying connection, if any
func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the store named by cfg.StoreDriver and applies its schema
func Open(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := postgres.NewDB(cfg.DBConnStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &Stores{
			Items:   postgres.NewItemRepository(db),
			History: postgres.NewHistoryRepository(db),
			Ledger:  postgres.NewLedgerRepository(db),
			Events:  postgres.NewEventRepository(db),
			close:   db.Close,
		}, nil

	case config.StoreSQLite:
		db, err := sqlite.NewDB(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return &Stores{
			Items:   sqlite.NewItemRepository(db),
			History: sqlite.NewHistoryRepository(db),
			Ledger:  sqlite.NewLedgerRepository(db),
			Events:  sqlite.NewEventRepository(db),
			close:   db.Close,
		}, nil

	case config.StoreMemory:
		return NewMemory(memory.NewStore()), nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}

// NewMemory wraps an in-memory store
func NewMemory(store *memory.Store) *Stores {
	return &Stores{
		Items:   store.ItemRepository(),
		History: store.HistoryRepository(),
		Ledger:  store.LedgerRepository(),
		Events:  store.EventRepository(),
	}
}
