package audit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/stockcal-backend/internal/domain"
)

// Metrics receives the result of each run
type Metrics interface {
	ObserveReconciliation(discrepancies int, at time.Time)
}

type nopMetrics struct{}

func (nopMetrics) ObserveReconciliation(int, time.Time) {}

// AuditService replays the ledger and compares it with item stock
type AuditService struct {
	ItemRepo    domain.ItemRepository
	HistoryRepo domain.HistoryRepository
	Logger      logrus.FieldLogger
	Metrics     Metrics
}

// NewAuditService creates a new AuditService instance.
// logger and metrics may be nil.
func NewAuditService(itemRepo domain.ItemRepository, historyRepo domain.HistoryRepository, logger logrus.FieldLogger, metrics Metrics) *AuditService {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &AuditService{ItemRepo: itemRepo, HistoryRepo: historyRepo, Logger: logger, Metrics: metrics}
}

// Reconcile checks, for every item, that
//   - the change amounts of its entries sum to its current stock
//   - each entry's final stock equals the running sum up to that entry
//   - its entries are numbered 1..n with n equal to the item version
//
// and reports entries whose item no longer exists. It only reads.
func (s *AuditService) Reconcile(ctx context.Context) (*domain.ReconciliationReport, error) {
	items, err := s.ItemRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	entries, err := s.HistoryRepo.List(ctx, domain.HistoryFilter{})
	if err != nil {
		return nil, err
	}

	byItem := make(map[uuid.UUID][]*domain.History)
	for _, e := range entries {
		byItem[e.ItemID] = append(byItem[e.ItemID], e)
	}

	report := &domain.ReconciliationReport{
		CheckedAt:      time.Now().UTC(),
		ItemsChecked:   len(items),
		EntriesChecked: len(entries),
	}

	known := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		known[item.ID] = true
		itemEntries, err := s.snapshotEntries(ctx, item, byItem[item.ID])
		if err != nil {
			return nil, err
		}
		report.EntriesChecked -= len(byItem[item.ID]) - len(itemEntries)
		report.Discrepancies = append(report.Discrepancies, checkItem(item, itemEntries)...)
	}

	for _, e := range entries {
		if known[e.ItemID] {
			continue
		}
		id := e.ID
		report.Discrepancies = append(report.Discrepancies, domain.Discrepancy{
			Kind:      domain.DiscrepancyOrphanEntry,
			ItemID:    e.ItemID,
			ItemName:  e.ItemName,
			HistoryID: &id,
			Actual:    e.ChangeAmount,
			Details:   fmt.Sprintf("entry %s references missing item %s", e.ID, e.ItemID),
		})
	}

	s.Metrics.ObserveReconciliation(len(report.Discrepancies), report.CheckedAt)

	log := s.Logger.WithFields(logrus.Fields{
		"items":         report.ItemsChecked,
		"entries":       report.EntriesChecked,
		"discrepancies": len(report.Discrepancies),
	})
	if report.Consistent() {
		log.Info("ledger reconciled")
	} else {
		log.Warn("ledger reconciliation found discrepancies")
	}

	return report, nil
}

// snapshotEntries drops entries committed after the item was read. Items and
// history are read separately, so a transaction landing in between leaves
// entries numbered past the item's version. They are only dropped when a
// fresh read shows the item has moved on; otherwise they are real
// discrepancies and are kept.
func (s *AuditService) snapshotEntries(ctx context.Context, item *domain.Item, entries []*domain.History) ([]*domain.History, error) {
	later := 0
	for _, e := range entries {
		if e.Sequence > item.Version {
			later++
		}
	}
	if later == 0 {
		return entries, nil
	}

	fresh, err := s.ItemRepo.GetByID(ctx, item.ID)
	if err != nil {
		if domain.IsNotFound(err) {
			return entries, nil
		}
		return nil, err
	}
	if fresh.Version <= item.Version {
		return entries, nil
	}

	kept := make([]*domain.History, 0, len(entries)-later)
	for _, e := range entries {
		if e.Sequence <= item.Version {
			kept = append(kept, e)
		}
	}
	s.Logger.WithFields(logrus.Fields{
		"item_id": item.ID,
		"version": item.Version,
		"skipped": len(entries) - len(kept),
	}).Debug("skipping entries applied during reconciliation")
	return kept, nil
}

func checkItem(item *domain.Item, entries []*domain.History) []domain.Discrepancy {
	var found []domain.Discrepancy
	add := func(kind domain.DiscrepancyKind, historyID *uuid.UUID, expected, actual decimal.Decimal, details string) {
		found = append(found, domain.Discrepancy{
			Kind:      kind,
			ItemID:    item.ID,
			ItemName:  item.Name,
			HistoryID: historyID,
			Expected:  expected,
			Actual:    actual,
			Details:   details,
		})
	}

	sorted := make([]*domain.History, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sequence < sorted[j].Sequence })

	running := decimal.Zero
	for i, e := range sorted {
		running = running.Add(e.ChangeAmount)
		id := e.ID

		if want := int64(i + 1); e.Sequence != want {
			add(domain.DiscrepancySequenceGap, &id, decimal.NewFromInt(want), decimal.NewFromInt(e.Sequence),
				fmt.Sprintf("entry %s has sequence %d, expected %d", e.ID, e.Sequence, want))
		}
		if !e.FinalStock.Equal(running) {
			add(domain.DiscrepancyCheckpointMismatch, &id, running, e.FinalStock,
				fmt.Sprintf("entry %s records final stock %s, replay gives %s", e.ID, e.FinalStock, running))
		}
	}

	if int64(len(sorted)) != item.Version {
		add(domain.DiscrepancySequenceGap, nil, decimal.NewFromInt(item.Version), decimal.NewFromInt(int64(len(sorted))),
			fmt.Sprintf("item version is %d but %d entries exist", item.Version, len(sorted)))
	}

	if !running.Equal(item.CurrentStock) {
		add(domain.DiscrepancyStockMismatch, nil, running, item.CurrentStock,
			fmt.Sprintf("current stock %s, sum of changes %s", item.CurrentStock, running))
	}

	return found
}
