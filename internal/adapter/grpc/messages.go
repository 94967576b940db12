package grpc

import (
	"bytes"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/simaogato/stockcal-backend/internal/domain"
)

// Timestamp is a point in time on the wire. It is encoded the way protobuf's
// JSON mapping encodes google.protobuf.Timestamp: an RFC 3339 string in UTC.
type Timestamp struct {
	ts *timestamppb.Timestamp
}

// NewTimestamp wraps t; the zero time travels as null
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp{ts: timestamppb.New(t)}
}

// Time returns the instant in UTC, or the zero time when unset
func (t Timestamp) Time() time.Time {
	if t.ts == nil {
		return time.Time{}
	}
	return t.ts.AsTime()
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.ts == nil {
		return []byte("null"), nil
	}
	return protojson.Marshal(t.ts)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.ts = nil
		return nil
	}
	ts := new(timestamppb.Timestamp)
	if err := protojson.Unmarshal(data, ts); err != nil {
		return err
	}
	t.ts = ts
	return nil
}

// Item is the wire form of domain.Item. Quantities travel as decimal strings.
type Item struct {
	ID           string                `json:"id"`
	Category     string                `json:"category"`
	Name         string                `json:"name"`
	Specs        domain.SpecAttributes `json:"specs"`
	CurrentStock string                `json:"current_stock"`
	Unit         string                `json:"unit"`
	Version      int64                 `json:"version"`
	CreatedAt    Timestamp             `json:"created_at"`
}

// HistoryEntry is the wire form of domain.History
type HistoryEntry struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Type         string    `json:"type"`
	ItemID       string    `json:"item_id"`
	ItemName     string    `json:"item_name"`
	ChangeAmount string    `json:"change_amount"`
	FinalStock   string    `json:"final_stock"`
	Sequence     int64     `json:"sequence"`
	CreatedAt    Timestamp `json:"created_at"`
}

// CalendarDay is one cell of the calendar feed
type CalendarDay struct {
	Date    string          `json:"date"`
	In      string          `json:"in"`
	Out     string          `json:"out"`
	Prod    string          `json:"prod"`
	Entries []*HistoryEntry `json:"entries"`
}

// Event is the wire form of domain.Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	CreatedAt   Timestamp `json:"created_at"`
}

// Discrepancy is one reconciliation finding
type Discrepancy struct {
	Kind      string `json:"kind"`
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name,omitempty"`
	HistoryID string `json:"history_id,omitempty"`
	Expected  string `json:"expected"`
	Actual    string `json:"actual"`
	Details   string `json:"details"`
}

// CategorySummary aggregates one category on the dashboard
type CategorySummary struct {
	Category   string `json:"category"`
	Items      int    `json:"items"`
	TotalStock string `json:"total_stock"`
}

type RegisterItemRequest struct {
	Category string                 `json:"category"`
	Name     string                 `json:"name"`
	Specs    *domain.SpecAttributes `json:"specs,omitempty"`
	Unit     string                 `json:"unit,omitempty"`
}

type RegisterItemResponse struct {
	Item *Item `json:"item"`
}

type ListItemsRequest struct {
	Category string `json:"category,omitempty"`
}

type ListItemsResponse struct {
	Items []*Item `json:"items"`
}

type GetItemRequest struct {
	ItemID string `json:"item_id"`
}

type GetItemResponse struct {
	Item *Item `json:"item"`
}

type ApplyTransactionRequest struct {
	ItemID string `json:"item_id"`
	Type   string `json:"type"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

type ApplyTransactionResponse struct {
	CurrentStock string        `json:"current_stock"`
	History      *HistoryEntry `json:"history"`
}

type ListHistoryRequest struct {
	ItemID string `json:"item_id,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

type ListHistoryResponse struct {
	History []*HistoryEntry `json:"history"`
}

type ListCalendarDaysRequest struct {
	ItemID string `json:"item_id,omitempty"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

type ListCalendarDaysResponse struct {
	Days []*CalendarDay `json:"days"`
}

type CreateEventRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
}

type CreateEventResponse struct {
	Event *Event `json:"event"`
}

type ListEventsRequest struct{}

type ListEventsResponse struct {
	Events []*Event `json:"events"`
}

type ReconcileRequest struct{}

type ReconcileResponse struct {
	CheckedAt      Timestamp      `json:"checked_at"`
	ItemsChecked   int            `json:"items_checked"`
	EntriesChecked int            `json:"entries_checked"`
	Consistent     bool           `json:"consistent"`
	Discrepancies  []*Discrepancy `json:"discrepancies"`
}

type GetInventorySummaryRequest struct{}

type GetInventorySummaryResponse struct {
	TotalItems    int                `json:"total_items"`
	Categories    []*CategorySummary `json:"categories"`
	NegativeStock []*Item            `json:"negative_stock"`
}

type ExportHistoryRequest struct {
	Encoding string `json:"encoding,omitempty"` // utf-8 or euc-kr
}

type ExportHistoryResponse struct {
	Key      string `json:"key"`
	URL      string `json:"url"`
	Driver   string `json:"driver"`
	Encoding string `json:"encoding"`
	Rows     int    `json:"rows"`
	Size     int64  `json:"size"`
}
