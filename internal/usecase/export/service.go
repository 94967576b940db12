package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simaogato/stockcal-backend/internal/adapter/blob"
	"github.com/simaogato/stockcal-backend/internal/adapter/textenc"
	"github.com/simaogato/stockcal-backend/internal/domain"
)

// Header is the first row of every ledger export
var Header = []string{"date", "type", "item_id", "item_name", "change_amount", "final_stock", "sequence", "created_at"}

const keyTimeLayout = "20060102T150405.000000000Z"

// Metrics receives export outcomes
type Metrics interface {
	ObserveExport(encoding string, success bool)
}

type nopMetrics struct{}

func (nopMetrics) ObserveExport(string, bool) {}

// ExportInput represents the input for a ledger export
type ExportInput struct {
	Encoding string // utf-8 (default) or euc-kr
}

// ExportResult describes the written file
type ExportResult struct {
	Object   blob.Object
	Rows     int
	Encoding string
}

// ExportService writes the ledger as CSV to a blob store
type ExportService struct {
	HistoryRepo domain.HistoryRepository
	Store       blob.Store
	Logger      logrus.FieldLogger
	Metrics     Metrics
	now         func() time.Time
}

// NewExportService creates a new ExportService instance
func NewExportService(historyRepo domain.HistoryRepository, store blob.Store, logger logrus.FieldLogger, metrics Metrics) *ExportService {
	if logger == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		logger = l
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &ExportService{
		HistoryRepo: historyRepo,
		Store:       store,
		Logger:      logger,
		Metrics:     metrics,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ExportHistory writes the whole ledger, in listing order, under
// exports/history-<timestamp>.csv
func (s *ExportService) ExportHistory(ctx context.Context, input ExportInput) (*ExportResult, error) {
	encoding, err := textenc.Normalize(input.Encoding)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	result, err := s.export(ctx, encoding)
	s.Metrics.ObserveExport(encoding, err == nil)
	if err != nil {
		s.Logger.WithError(err).WithField("encoding", encoding).Error("ledger export failed")
		return nil, err
	}

	s.Logger.WithFields(logrus.Fields{
		"key":      result.Object.Key,
		"rows":     result.Rows,
		"encoding": encoding,
		"driver":   s.Store.Driver(),
	}).Info("ledger exported")

	return result, nil
}

func (s *ExportService) export(ctx context.Context, encoding string) (*ExportResult, error) {
	entries, err := s.HistoryRepo.List(ctx, domain.HistoryFilter{})
	if err != nil {
		return nil, err
	}

	data, err := EncodeCSV(entries)
	if err != nil {
		return nil, domain.NewStorageError("failed to write export", err)
	}

	data, err = textenc.Encode(data, encoding)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	key := fmt.Sprintf("exports/history-%s.csv", s.now().Format(keyTimeLayout))
	contentType := "text/csv; charset=" + encoding

	obj, err := s.Store.Put(ctx, key, data, contentType)
	if err != nil {
		return nil, domain.NewStorageError("failed to store export", err)
	}

	return &ExportResult{Object: obj, Rows: len(entries), Encoding: encoding}, nil
}

// EncodeCSV renders entries as UTF-8 CSV with a header row
func EncodeCSV(entries []*domain.History) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, err
	}
	for _, e := range entries {
		record := []string{
			domain.FormatBusinessDate(e.Date),
			string(e.Type),
			e.ItemID.String(),
			e.ItemName,
			e.ChangeAmount.String(),
			e.FinalStock.String(),
			strconv.FormatInt(e.Sequence, 10),
			e.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
