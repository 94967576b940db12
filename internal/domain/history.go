package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of stock movement
type TransactionType string

const (
	TransactionTypeIn   TransactionType = "IN"   // inbound receipt
	TransactionTypeOut  TransactionType = "OUT"  // outbound shipment
	TransactionTypeProd TransactionType = "PROD" // production output
)

// Valid reports whether t is IN, OUT or PROD
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIn, TransactionTypeOut, TransactionTypeProd:
		return true
	}
	return false
}

// SignedChange converts a quantity moved into the delta applied to stock.
// PROD only increments the finished good; raw material consumption (BOM)
// is not modelled.
func (t TransactionType) SignedChange(amount decimal.Decimal) decimal.Decimal {
	if t == TransactionTypeOut {
		return amount.Neg()
	}
	return amount
}

// ParseTransactionType parses IN, OUT or PROD (case insensitive)
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(strings.TrimSpace(s)))
	if t == "" {
		return "", NewValidationError("transaction type is required")
	}
	if !t.Valid() {
		return "", NewValidationError(fmt.Sprintf("invalid transaction type %q: must be IN, OUT, or PROD", s))
	}
	return t, nil
}

// History represents one immutable ledger entry
type History struct {
	ID           uuid.UUID
	Date         time.Time // business date, UTC midnight
	Type         TransactionType
	ItemID       uuid.UUID
	ItemName     string          // snapshot of the item name when the entry was written
	ChangeAmount decimal.Decimal // signed delta applied to stock
	FinalStock   decimal.Decimal // item stock right after this entry
	Sequence     int64           // item version right after this entry, starting at 1
	CreatedAt    time.Time
}

// Validate ensures the entry is internally consistent
// Returns an error if validation fails
func (h *History) Validate() error {
	if h.ItemID == uuid.Nil {
		return NewValidationError("history entry must reference an item")
	}

	if !h.Type.Valid() {
		return NewValidationError(fmt.Sprintf("invalid transaction type %q: must be IN, OUT, or PROD", h.Type))
	}

	if h.Date.IsZero() {
		return NewValidationError("history entry date is required")
	}

	// The sign is derived from the type and never supplied by the caller
	switch h.Type {
	case TransactionTypeOut:
		if h.ChangeAmount.IsPositive() {
			return NewValidationError("OUT entries must have a non-positive change amount")
		}
	default:
		if h.ChangeAmount.IsNegative() {
			return NewValidationError(fmt.Sprintf("%s entries must have a non-negative change amount", h.Type))
		}
	}

	if h.Sequence < 1 {
		return NewValidationError("history sequence must start at 1")
	}

	return nil
}

// StockChange is one unit of work for the ledger: apply Change to the item
// and append the entry describing it. The store stamps the entry's
// CreatedAt while it holds the item, so it is left out here.
type StockChange struct {
	EntryID uuid.UUID
	ItemID  uuid.UUID
	Type    TransactionType
	Change  decimal.Decimal
	Date    time.Time
}

// Entry builds the history record for the change once the item has been updated
func (c StockChange) Entry(updated *Item, recordedAt time.Time) *History {
	return &History{
		ID:           c.EntryID,
		Date:         BusinessDay(c.Date),
		Type:         c.Type,
		ItemID:       updated.ID,
		ItemName:     updated.Name,
		ChangeAmount: c.Change,
		FinalStock:   updated.CurrentStock,
		Sequence:     updated.Version,
		CreatedAt:    recordedAt,
	}
}

// NextRecordedAt returns the created_at for an item's next entry. It never
// goes behind the item's previous entry, so ordering by created_at agrees
// with sequence order even when the wall clock steps backwards.
func NextRecordedAt(now, previous time.Time) time.Time {
	now = now.UTC()
	if now.Before(previous) {
		return previous.UTC()
	}
	return now
}
