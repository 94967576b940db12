package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/simaogato/stockcal-backend/internal/domain"
)

// itemRepository implements domain.ItemRepository
type itemRepository struct {
	db *DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *DB) domain.ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	var row itemRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM items WHERE id = ?`, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("item %s not found", id))
		}
		return nil, domain.NewStorageError("failed to get item by ID", err)
	}

	item, err := row.toDomain()
	if err != nil {
		return nil, domain.NewStorageError("failed to decode item", err)
	}
	return item, nil
}

func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	specs, err := domain.MarshalSpecs(item.Specs)
	if err != nil {
		return fmt.Errorf("failed to encode specs: %w", err)
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO items (id, category, name, specs, current_stock, unit, version, created_at)
		VALUES (:id, :category, :name, :specs, :current_stock, :unit, :version, :created_at)`,
		itemRow{
			ID:           item.ID.String(),
			Category:     string(item.Category),
			Name:         item.Name,
			Specs:        string(specs),
			CurrentStock: item.CurrentStock.String(),
			Unit:         item.Unit,
			Version:      item.Version,
			CreatedAt:    formatTimestamp(item.CreatedAt),
		})
	if err != nil {
		return domain.NewStorageError("failed to create item", err)
	}
	return nil
}

func (r *itemRepository) List(ctx context.Context, categoryFilter domain.Category) ([]*domain.Item, error) {
	query := `SELECT * FROM items`
	var args []any
	if categoryFilter != "" {
		query += ` WHERE category = ?`
		args = append(args, string(categoryFilter))
	}
	query += ` ORDER BY created_at, rowid`

	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewStorageError("failed to list items", err)
	}

	items := make([]*domain.Item, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, domain.NewStorageError("failed to decode item", err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *itemRepository) FindByName(ctx context.Context, category domain.Category, name string) (*domain.Item, error) {
	var row itemRow
	err := r.db.GetContext(ctx, &row, `
		SELECT * FROM items
		WHERE category = ? AND name = ?
		ORDER BY created_at, rowid
		LIMIT 1`, string(category), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("%s item %q not found", category, name))
		}
		return nil, domain.NewStorageError("failed to find item by name", err)
	}

	item, err := row.toDomain()
	if err != nil {
		return nil, domain.NewStorageError("failed to decode item", err)
	}
	return item, nil
}

// historyRepository implements domain.HistoryRepository
type historyRepository struct {
	db *DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *DB) domain.HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) List(ctx context.Context, filter domain.HistoryFilter) ([]*domain.History, error) {
	var conds []string
	var args []any
	if filter.ItemID != nil {
		conds = append(conds, "item_id = ?")
		args = append(args, filter.ItemID.String())
	}
	if filter.From != nil {
		conds = append(conds, "date >= ?")
		args = append(args, domain.FormatBusinessDate(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "date <= ?")
		args = append(args, domain.FormatBusinessDate(*filter.To))
	}

	query := `SELECT * FROM history`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY date, created_at, sequence`

	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, domain.NewStorageError("failed to list history", err)
	}

	entries := make([]*domain.History, 0, len(rows))
	for _, row := range rows {
		h, err := row.toDomain()
		if err != nil {
			return nil, domain.NewStorageError("failed to decode history entry", err)
		}
		entries = append(entries, h)
	}
	return entries, nil
}

// eventRepository implements domain.EventRepository
type eventRepository struct {
	db *DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *DB) domain.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO events (id, title, date, description, created_at, updated_at)
		VALUES (:id, :title, :date, :description, :created_at, :updated_at)`,
		eventRow{
			ID:          event.ID.String(),
			Title:       event.Title,
			Date:        domain.FormatBusinessDate(event.Date),
			Description: event.Description,
			CreatedAt:   formatTimestamp(event.CreatedAt),
			UpdatedAt:   formatTimestamp(event.UpdatedAt),
		})
	if err != nil {
		return domain.NewStorageError("failed to create event", err)
	}
	return nil
}

func (r *eventRepository) List(ctx context.Context) ([]*domain.Event, error) {
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT * FROM events ORDER BY date, created_at`); err != nil {
		return nil, domain.NewStorageError("failed to list events", err)
	}

	events := make([]*domain.Event, 0, len(rows))
	for _, row := range rows {
		e, err := row.toDomain()
		if err != nil {
			return nil, domain.NewStorageError("failed to decode event", err)
		}
		events = append(events, e)
	}
	return events, nil
}
