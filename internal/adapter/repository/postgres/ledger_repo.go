package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockcal-backend/internal/domain"
)

// ledgerRepository implements domain.LedgerRepository
type ledgerRepository struct {
	db *DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *DB) domain.LedgerRepository {
	return &ledgerRepository{db: db}
}

// Apply increments the item's stock and appends the history entry in one database transaction.
// The increment is computed by the database, so concurrent applies on the same
// row serialize on its row lock and none of them is lost.
func (r *ledgerRepository) Apply(ctx context.Context, change domain.StockChange) (*domain.History, error) {
	// Start a database transaction
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domain.NewStorageError("failed to begin transaction", err)
	}
	defer dbTx.Rollback()

	updateQuery := `
		UPDATE items
		SET current_stock = current_stock + $2, version = version + 1
		WHERE id = $1
		RETURNING name, current_stock, version
	`

	updated := domain.Item{ID: change.ItemID}
	var stockStr string
	err = dbTx.QueryRowContext(ctx, updateQuery, change.ItemID, change.Change.String()).Scan(
		&updated.Name,
		&stockStr,
		&updated.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("item %s not found", change.ItemID))
		}
		return nil, domain.NewStorageError("failed to update item stock", err)
	}

	updated.CurrentStock, err = decimal.NewFromString(stockStr)
	if err != nil {
		return nil, domain.NewStorageError("failed to parse current_stock", err)
	}

	// created_at is stamped by the INSERT below
	entry := change.Entry(&updated, time.Time{})
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	// The row lock taken by the UPDATE is held until commit, so
	// clock_timestamp() here is read in apply order for this item. GREATEST
	// keeps it from going behind the item's previous entry if the clock steps back.
	insertQuery := `
		INSERT INTO history (id, date, type, item_id, item_name, change_amount, final_stock, sequence, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, GREATEST(
			clock_timestamp(),
			(SELECT max(created_at) FROM history WHERE item_id = $4)
		))
		RETURNING created_at
	`

	err = dbTx.QueryRowContext(ctx, insertQuery,
		entry.ID,
		domain.FormatBusinessDate(entry.Date),
		string(entry.Type),
		entry.ItemID,
		entry.ItemName,
		entry.ChangeAmount.String(),
		entry.FinalStock.String(),
		entry.Sequence,
	).Scan(&entry.CreatedAt)
	if err != nil {
		return nil, domain.NewStorageError("failed to insert history entry", err)
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	// Commit the transaction
	if err := dbTx.Commit(); err != nil {
		return nil, domain.NewStorageError("failed to commit transaction", err)
	}

	return entry, nil
}
