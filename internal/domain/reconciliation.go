package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscrepancyKind classifies a ledger inconsistency found by an audit
type DiscrepancyKind string

const (
	// current stock differs from the sum of the item's change amounts
	DiscrepancyStockMismatch DiscrepancyKind = "STOCK_MISMATCH"
	// an entry's final stock differs from the replayed running total
	DiscrepancyCheckpointMismatch DiscrepancyKind = "CHECKPOINT_MISMATCH"
	// sequences are not 1..n, or n differs from the item version
	DiscrepancySequenceGap DiscrepancyKind = "SEQUENCE_GAP"
	// an entry references an item that does not exist
	DiscrepancyOrphanEntry DiscrepancyKind = "ORPHAN_ENTRY"
)

// Discrepancy is a single finding of a reconciliation run
type Discrepancy struct {
	Kind      DiscrepancyKind
	ItemID    uuid.UUID
	ItemName  string
	HistoryID *uuid.UUID // set for entry level findings
	Expected  decimal.Decimal
	Actual    decimal.Decimal
	Details   string
}

// ReconciliationReport is the result of replaying the ledger against item stock
type ReconciliationReport struct {
	CheckedAt      time.Time
	ItemsChecked   int
	EntriesChecked int
	Discrepancies  []Discrepancy
}

// Consistent reports whether the audit found nothing
func (r *ReconciliationReport) Consistent() bool {
	return len(r.Discrepancies) == 0
}
