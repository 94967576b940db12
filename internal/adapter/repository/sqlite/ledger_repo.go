package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/simaogato/stockcal-backend/internal/domain"
)

// ErrVersionConflict is returned when an item changed between read and write.
// With immediate transactions this only happens if the file is shared with
// another writer that does not take the lock up front.
var ErrVersionConflict = errors.New("item version changed during apply")

// ledgerRepository implements domain.LedgerRepository
type ledgerRepository struct {
	db  *DB
	now func() time.Time
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *DB) domain.LedgerRepository {
	return &ledgerRepository{db: db, now: time.Now}
}

// Apply updates the item and appends its history entry in one immediate transaction.
// The update is conditional on the version read in the same transaction.
func (r *ledgerRepository) Apply(ctx context.Context, change domain.StockChange) (*domain.History, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, domain.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var row itemRow
	err = tx.GetContext(ctx, &row, `SELECT * FROM items WHERE id = ?`, change.ItemID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewNotFoundError(fmt.Sprintf("item %s not found", change.ItemID))
		}
		return nil, domain.NewStorageError("failed to read item", err)
	}

	item, err := row.toDomain()
	if err != nil {
		return nil, domain.NewStorageError("failed to decode item", err)
	}

	updated := *item
	updated.CurrentStock = item.CurrentStock.Add(change.Change)
	updated.Version = item.Version + 1

	// The write lock is held from BEGIN, so the stamp is taken in apply order.
	recordedAt, err := r.nextRecordedAt(ctx, tx, item.ID.String())
	if err != nil {
		return nil, err
	}

	entry := change.Entry(&updated, recordedAt)
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE items SET current_stock = ?, version = ? WHERE id = ? AND version = ?`,
		updated.CurrentStock.String(), updated.Version, item.ID.String(), item.Version)
	if err != nil {
		return nil, domain.NewStorageError("failed to update item stock", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, domain.NewStorageError("failed to update item stock", err)
	} else if n != 1 {
		return nil, domain.NewStorageError("failed to update item stock", ErrVersionConflict)
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO history (id, date, type, item_id, item_name, change_amount, final_stock, sequence, created_at)
		VALUES (:id, :date, :type, :item_id, :item_name, :change_amount, :final_stock, :sequence, :created_at)`,
		newHistoryRow(entry))
	if err != nil {
		return nil, domain.NewStorageError("failed to insert history entry", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.NewStorageError("failed to commit transaction", err)
	}

	return entry, nil
}

func (r *ledgerRepository) nextRecordedAt(ctx context.Context, tx *sqlx.Tx, itemID string) (time.Time, error) {
	var last string
	err := tx.GetContext(ctx, &last,
		`SELECT created_at FROM history WHERE item_id = ? ORDER BY sequence DESC LIMIT 1`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NextRecordedAt(r.now(), time.Time{}), nil
	}
	if err != nil {
		return time.Time{}, domain.NewStorageError("failed to read latest history entry", err)
	}

	previous, err := parseTimestamp(last)
	if err != nil {
		return time.Time{}, domain.NewStorageError("failed to decode history timestamp", err)
	}
	return domain.NextRecordedAt(r.now(), previous), nil
}
