package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stockcal-backend/internal/domain"
)

const itemColumns = `id, category, name, specs, current_stock, unit, version, created_at`

// itemRepository implements domain.ItemRepository
type itemRepository struct {
	db *DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *DB) domain.ItemRepository {
	return &itemRepository{db: db}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var category string
	var specsJSON []byte
	var stockStr string

	err := row.Scan(
		&item.ID,
		&category,
		&item.Name,
		&specsJSON,
		&stockStr,
		&item.Unit,
		&item.Version,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Category = domain.Category(category)

	// Parse current_stock (NUMERIC)
	item.CurrentStock, err = decimal.NewFromString(stockStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current_stock: %w", err)
	}

	item.Specs, err = domain.UnmarshalSpecs(item.Category, specsJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse specs of item %s: %w", item.ID, err)
	}

	return &item, nil
}

// GetByID retrieves an item by its ID
func (r *itemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("item %s not found", id))
		}
		return nil, domain.NewStorageError("failed to get item by ID", err)
	}
	return item, nil
}

// Create creates a new item
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (id, category, name, specs, current_stock, unit, version, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	specsJSON, err := domain.MarshalSpecs(item.Specs)
	if err != nil {
		return fmt.Errorf("failed to encode specs: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query,
		item.ID,
		string(item.Category),
		item.Name,
		string(specsJSON),
		item.CurrentStock.String(),
		item.Unit,
		item.Version,
		item.CreatedAt,
	)
	if err != nil {
		return domain.NewStorageError("failed to create item", err)
	}

	return nil
}

// List retrieves items in creation order, optionally filtered by category
func (r *itemRepository) List(ctx context.Context, categoryFilter domain.Category) ([]*domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var args []any
	if categoryFilter != "" {
		query += ` WHERE category = $1`
		args = append(args, string(categoryFilter))
	}
	query += ` ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError("failed to list items", err)
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, domain.NewStorageError("failed to scan item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("failed to iterate items", err)
	}

	return items, nil
}

// FindByName retrieves the oldest item with the given category and name
func (r *itemRepository) FindByName(ctx context.Context, category domain.Category, name string) (*domain.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items
		WHERE category = $1 AND name = $2
		ORDER BY created_at
		LIMIT 1
	`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, string(category), name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("%s item %q not found", category, name))
		}
		return nil, domain.NewStorageError("failed to find item by name", err)
	}
	return item, nil
}
