package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/stockcal-backend/internal/domain"
)

// Outcomes reported to Metrics
const (
	ResultApplied      = "applied"
	ResultRejected     = "rejected"
	ResultNotFound     = "not_found"
	ResultStorageError = "storage_error"
)

// invalidTypeLabel replaces a type that did not parse, keeping the metric
// label set bounded.
const invalidTypeLabel = "invalid"

// amountScale is the number of decimal places every store keeps for stock
// quantities (NUMERIC(20, 4) in postgres).
const amountScale = 4

// Metrics receives one observation per ApplyTransaction call
type Metrics interface {
	ObserveTransaction(txType, result string, duration time.Duration)
	StorageFailure(operation string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveTransaction(string, string, time.Duration) {}
func (nopMetrics) StorageFailure(string)                            {}

// ApplyTransactionInput represents a request to move stock
type ApplyTransactionInput struct {
	ItemID uuid.UUID
	Type   string          // IN, OUT or PROD
	Amount decimal.Decimal // quantity moved, always positive
	Date   string          // YYYY-MM-DD or RFC 3339
}

// Result is the outcome of an applied transaction
type Result struct {
	NewStock decimal.Decimal
	Entry    *domain.History
}

// LedgerService is the transaction engine: every stock change goes through it
type LedgerService struct {
	LedgerRepo domain.LedgerRepository
	Logger     logrus.FieldLogger
	Metrics    Metrics
}

// NewLedgerService creates a new LedgerService instance.
// logger and metrics may be nil.
func NewLedgerService(ledgerRepo domain.LedgerRepository, logger logrus.FieldLogger, metrics Metrics) *LedgerService {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &LedgerService{
		LedgerRepo: ledgerRepo,
		Logger:     logger,
		Metrics:    metrics,
	}
}

// ApplyTransaction changes an item's stock and records the change in its history
// Logic:
//  1. Validate type, amount and date
//  2. Derive the signed change from the type (OUT subtracts, IN and PROD add)
//  3. Apply the change and append the history entry as one unit of work
//  4. Return the new stock together with the entry
func (s *LedgerService) ApplyTransaction(ctx context.Context, input ApplyTransactionInput) (*Result, error) {
	start := time.Now()
	result, err := s.apply(ctx, input)

	outcome := ResultApplied
	switch {
	case err == nil:
	case domain.IsValidation(err):
		outcome = ResultRejected
	case domain.IsNotFound(err):
		outcome = ResultNotFound
	default:
		outcome = ResultStorageError
	}
	s.Metrics.ObserveTransaction(typeLabel(input.Type), outcome, time.Since(start))

	return result, err
}

func typeLabel(raw string) string {
	txType, err := domain.ParseTransactionType(raw)
	if err != nil {
		return invalidTypeLabel
	}
	return string(txType)
}

func (s *LedgerService) apply(ctx context.Context, input ApplyTransactionInput) (*Result, error) {
	// 1. Validate input
	if input.ItemID == uuid.Nil {
		return nil, domain.NewValidationError("item id is required")
	}

	txType, err := domain.ParseTransactionType(input.Type)
	if err != nil {
		return nil, err
	}

	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError("transaction amount must be positive")
	}
	if !input.Amount.Equal(input.Amount.Truncate(amountScale)) {
		return nil, domain.NewValidationError("transaction amount supports at most 4 decimal places")
	}

	date, err := domain.ParseBusinessDate(input.Date)
	if err != nil {
		return nil, err
	}

	// 2. Signed change
	change := domain.StockChange{
		EntryID: uuid.New(),
		ItemID:  input.ItemID,
		Type:    txType,
		Change:  txType.SignedChange(input.Amount),
		Date:    date,
	}

	log := s.Logger.WithFields(logrus.Fields{
		"item_id": change.ItemID,
		"type":    change.Type,
		"change":  change.Change.String(),
		"date":    domain.FormatBusinessDate(change.Date),
	})

	// 3. Single unit of work
	entry, err := s.LedgerRepo.Apply(ctx, change)
	if err != nil {
		if domain.IsNotFound(err) || domain.IsValidation(err) {
			return nil, err
		}
		// Not retried: the caller decides. Whether the item or history write
		// landed is for reconciliation to establish.
		s.Metrics.StorageFailure("ledger_apply")
		log.WithError(err).Error("ledger apply failed, item stock and history may need reconciliation")
		if !domain.IsStorage(err) {
			err = domain.NewStorageError("failed to apply stock change", err)
		}
		return nil, err
	}

	if entry.FinalStock.IsNegative() {
		log.WithField("final_stock", entry.FinalStock.String()).Warn("stock went negative")
	}
	log.WithFields(logrus.Fields{
		"entry_id":    entry.ID,
		"final_stock": entry.FinalStock.String(),
		"sequence":    entry.Sequence,
	}).Debug("transaction applied")

	// 4. Return the new stock
	return &Result{NewStock: entry.FinalStock, Entry: entry}, nil
}

