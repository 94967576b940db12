package sqlite

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/stockcal-backend/internal/domain"
)

// Rows as stored. Every column is TEXT except counters, so values are
// converted explicitly on the way in and out.

type itemRow struct {
	ID           string `db:"id"`
	Category     string `db:"category"`
	Name         string `db:"name"`
	Specs        string `db:"specs"`
	CurrentStock string `db:"current_stock"`
	Unit         string `db:"unit"`
	Version      int64  `db:"version"`
	CreatedAt    string `db:"created_at"`
}

func (r itemRow) toDomain() (*domain.Item, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse item id: %w", err)
	}
	stock, err := decimal.NewFromString(r.CurrentStock)
	if err != nil {
		return nil, fmt.Errorf("failed to parse current_stock: %w", err)
	}
	createdAt, err := parseTimestamp(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	category := domain.Category(r.Category)
	specs, err := domain.UnmarshalSpecs(category, []byte(r.Specs))
	if err != nil {
		return nil, fmt.Errorf("failed to parse specs of item %s: %w", id, err)
	}

	return &domain.Item{
		ID:           id,
		Category:     category,
		Name:         r.Name,
		Specs:        specs,
		CurrentStock: stock,
		Unit:         r.Unit,
		Version:      r.Version,
		CreatedAt:    createdAt,
	}, nil
}

type historyRow struct {
	ID           string `db:"id"`
	Date         string `db:"date"`
	Type         string `db:"type"`
	ItemID       string `db:"item_id"`
	ItemName     string `db:"item_name"`
	ChangeAmount string `db:"change_amount"`
	FinalStock   string `db:"final_stock"`
	Sequence     int64  `db:"sequence"`
	CreatedAt    string `db:"created_at"`
}

func newHistoryRow(h *domain.History) historyRow {
	return historyRow{
		ID:           h.ID.String(),
		Date:         domain.FormatBusinessDate(h.Date),
		Type:         string(h.Type),
		ItemID:       h.ItemID.String(),
		ItemName:     h.ItemName,
		ChangeAmount: h.ChangeAmount.String(),
		FinalStock:   h.FinalStock.String(),
		Sequence:     h.Sequence,
		CreatedAt:    formatTimestamp(h.CreatedAt),
	}
}

func (r historyRow) toDomain() (*domain.History, error) {
	var h domain.History
	var err error

	if h.ID, err = uuid.Parse(r.ID); err != nil {
		return nil, fmt.Errorf("failed to parse history id: %w", err)
	}
	if h.ItemID, err = uuid.Parse(r.ItemID); err != nil {
		return nil, fmt.Errorf("failed to parse item_id: %w", err)
	}
	if h.Date, err = domain.ParseBusinessDate(r.Date); err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}
	if h.ChangeAmount, err = decimal.NewFromString(r.ChangeAmount); err != nil {
		return nil, fmt.Errorf("failed to parse change_amount: %w", err)
	}
	if h.FinalStock, err = decimal.NewFromString(r.FinalStock); err != nil {
		return nil, fmt.Errorf("failed to parse final_stock: %w", err)
	}
	if h.CreatedAt, err = parseTimestamp(r.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	h.Type = domain.TransactionType(r.Type)
	h.ItemName = r.ItemName
	h.Sequence = r.Sequence

	return &h, nil
}

type eventRow struct {
	ID          string `db:"id"`
	Title       string `db:"title"`
	Date        string `db:"date"`
	Description string `db:"description"`
	CreatedAt   string `db:"created_at"`
	UpdatedAt   string `db:"updated_at"`
}

func (r eventRow) toDomain() (*domain.Event, error) {
	var e domain.Event
	var err error

	if e.ID, err = uuid.Parse(r.ID); err != nil {
		return nil, fmt.Errorf("failed to parse event id: %w", err)
	}
	if e.Date, err = domain.ParseBusinessDate(r.Date); err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}
	if e.CreatedAt, err = parseTimestamp(r.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if e.UpdatedAt, err = parseTimestamp(r.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	e.Title = r.Title
	e.Description = r.Description

	return &e, nil
}
