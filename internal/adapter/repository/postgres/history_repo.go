package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/stockcal-backend/internal/domain"
)

// historyRepository implements domain.HistoryRepository
type historyRepository struct {
	db *DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *DB) domain.HistoryRepository {
	return &historyRepository{db: db}
}

// List retrieves ledger entries matching the filter in ledger order
func (r *historyRepository) List(ctx context.Context, filter domain.HistoryFilter) ([]*domain.History, error) {
	var conds []string
	var args []any
	if filter.ItemID != nil {
		args = append(args, *filter.ItemID)
		conds = append(conds, fmt.Sprintf("item_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, domain.FormatBusinessDate(*filter.From))
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, domain.FormatBusinessDate(*filter.To))
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}

	query := `
		SELECT id, date, type, item_id, item_name, change_amount, final_stock, sequence, created_at
		FROM history
	`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY date, created_at, sequence`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError("failed to list history", err)
	}
	defer rows.Close()

	var entries []*domain.History
	for rows.Next() {
		var h domain.History
		var txType, changeStr, finalStr string

		if err := rows.Scan(
			&h.ID,
			&h.Date,
			&txType,
			&h.ItemID,
			&h.ItemName,
			&changeStr,
			&finalStr,
			&h.Sequence,
			&h.CreatedAt,
		); err != nil {
			return nil, domain.NewStorageError("failed to scan history entry", err)
		}
		h.Type = domain.TransactionType(txType)
		h.Date = domain.BusinessDay(h.Date)

		if h.ChangeAmount, err = decimal.NewFromString(changeStr); err != nil {
			return nil, domain.NewStorageError("failed to parse change_amount", err)
		}
		if h.FinalStock, err = decimal.NewFromString(finalStr); err != nil {
			return nil, domain.NewStorageError("failed to parse final_stock", err)
		}

		entries = append(entries, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("failed to iterate history", err)
	}

	return entries, nil
}
