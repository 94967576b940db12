package grpc

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simaogato/stockcal-backend/internal/domain"
	"github.com/simaogato/stockcal-backend/internal/usecase/audit"
	"github.com/simaogato/stockcal-backend/internal/usecase/calendar"
	"github.com/simaogato/stockcal-backend/internal/usecase/catalog"
	"github.com/simaogato/stockcal-backend/internal/usecase/dashboard"
	"github.com/simaogato/stockcal-backend/internal/usecase/export"
	"github.com/simaogato/stockcal-backend/internal/usecase/ledger"
)

// Server implements the StockCalendarService gRPC server
type Server struct {
	UnimplementedStockCalendarServer

	CatalogService   *catalog.CatalogService
	LedgerService    *ledger.LedgerService
	CalendarService  *calendar.CalendarService
	AuditService     *audit.AuditService
	DashboardService *dashboard.DashboardService
	ExportService    *export.ExportService
}

// NewServer creates a new gRPC server instance
func NewServer(
	catalogService *catalog.CatalogService,
	ledgerService *ledger.LedgerService,
	calendarService *calendar.CalendarService,
	auditService *audit.AuditService,
	dashboardService *dashboard.DashboardService,
	exportService *export.ExportService,
) *Server {
	return &Server{
		CatalogService:   catalogService,
		LedgerService:    ledgerService,
		CalendarService:  calendarService,
		AuditService:     auditService,
		DashboardService: dashboardService,
		ExportService:    exportService,
	}
}

// RegisterItem handles the RegisterItem RPC
func (s *Server) RegisterItem(ctx context.Context, req *RegisterItemRequest) (*RegisterItemResponse, error) {
	input := catalog.RegisterItemInput{
		Category: req.Category,
		Name:     req.Name,
		Unit:     req.Unit,
	}
	if req.Specs != nil {
		input.Specs = *req.Specs
	}

	item, err := s.CatalogService.RegisterItem(ctx, input)
	if err != nil {
		return nil, mapError(err)
	}

	return &RegisterItemResponse{Item: domainItemToWire(item)}, nil
}

// ListItems handles the ListItems RPC
func (s *Server) ListItems(ctx context.Context, req *ListItemsRequest) (*ListItemsResponse, error) {
	items, err := s.CatalogService.ListItems(ctx, req.Category)
	if err != nil {
		return nil, mapError(err)
	}

	wire := make([]*Item, 0, len(items))
	for _, item := range items {
		wire = append(wire, domainItemToWire(item))
	}
	return &ListItemsResponse{Items: wire}, nil
}

// GetItem handles the GetItem RPC
func (s *Server) GetItem(ctx context.Context, req *GetItemRequest) (*GetItemResponse, error) {
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid item_id format: %v", err)
	}

	item, err := s.CatalogService.GetItem(ctx, itemID)
	if err != nil {
		return nil, mapError(err)
	}

	return &GetItemResponse{Item: domainItemToWire(item)}, nil
}

// ApplyTransaction handles the ApplyTransaction RPC
func (s *Server) ApplyTransaction(ctx context.Context, req *ApplyTransactionRequest) (*ApplyTransactionResponse, error) {
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid item_id format: %v", err)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount format: %v", err)
	}

	result, err := s.LedgerService.ApplyTransaction(ctx, ledger.ApplyTransactionInput{
		ItemID: itemID,
		Type:   req.Type,
		Amount: amount,
		Date:   req.Date,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &ApplyTransactionResponse{
		CurrentStock: result.NewStock.String(),
		History:      domainHistoryToWire(result.Entry),
	}, nil
}

// ListHistory handles the ListHistory RPC
func (s *Server) ListHistory(ctx context.Context, req *ListHistoryRequest) (*ListHistoryResponse, error) {
	query, err := historyQuery(req.ItemID, req.From, req.To)
	if err != nil {
		return nil, err
	}

	entries, err := s.CalendarService.ListHistory(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}

	return &ListHistoryResponse{History: historyToWire(entries)}, nil
}

// ListCalendarDays handles the ListCalendarDays RPC
func (s *Server) ListCalendarDays(ctx context.Context, req *ListCalendarDaysRequest) (*ListCalendarDaysResponse, error) {
	query, err := historyQuery(req.ItemID, req.From, req.To)
	if err != nil {
		return nil, err
	}

	days, err := s.CalendarService.ListDays(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}

	wire := make([]*CalendarDay, 0, len(days))
	for _, day := range days {
		wire = append(wire, &CalendarDay{
			Date:    domain.FormatBusinessDate(day.Date),
			In:      day.In.String(),
			Out:     day.Out.String(),
			Prod:    day.Prod.String(),
			Entries: historyToWire(day.Entries),
		})
	}
	return &ListCalendarDaysResponse{Days: wire}, nil
}

// CreateEvent handles the CreateEvent RPC
func (s *Server) CreateEvent(ctx context.Context, req *CreateEventRequest) (*CreateEventResponse, error) {
	event, err := s.CalendarService.CreateEvent(ctx, calendar.CreateEventInput{
		Title:       req.Title,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return &CreateEventResponse{Event: domainEventToWire(event)}, nil
}

// ListEvents handles the ListEvents RPC
func (s *Server) ListEvents(ctx context.Context, req *ListEventsRequest) (*ListEventsResponse, error) {
	events, err := s.CalendarService.ListEvents(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	wire := make([]*Event, 0, len(events))
	for _, event := range events {
		wire = append(wire, domainEventToWire(event))
	}
	return &ListEventsResponse{Events: wire}, nil
}

// Reconcile handles the Reconcile RPC
func (s *Server) Reconcile(ctx context.Context, req *ReconcileRequest) (*ReconcileResponse, error) {
	report, err := s.AuditService.Reconcile(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	discrepancies := make([]*Discrepancy, 0, len(report.Discrepancies))
	for _, d := range report.Discrepancies {
		wire := &Discrepancy{
			Kind:     string(d.Kind),
			ItemID:   d.ItemID.String(),
			ItemName: d.ItemName,
			Expected: d.Expected.String(),
			Actual:   d.Actual.String(),
			Details:  d.Details,
		}
		if d.HistoryID != nil {
			wire.HistoryID = d.HistoryID.String()
		}
		discrepancies = append(discrepancies, wire)
	}

	return &ReconcileResponse{
		CheckedAt:      NewTimestamp(report.CheckedAt),
		ItemsChecked:   report.ItemsChecked,
		EntriesChecked: report.EntriesChecked,
		Consistent:     report.Consistent(),
		Discrepancies:  discrepancies,
	}, nil
}

// GetInventorySummary handles the GetInventorySummary RPC
func (s *Server) GetInventorySummary(ctx context.Context, req *GetInventorySummaryRequest) (*GetInventorySummaryResponse, error) {
	summary, err := s.DashboardService.GetInventorySummary(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	categories := make([]*CategorySummary, 0, len(summary.Categories))
	for _, c := range summary.Categories {
		categories = append(categories, &CategorySummary{
			Category:   string(c.Category),
			Items:      c.Items,
			TotalStock: c.TotalStock.String(),
		})
	}

	negative := make([]*Item, 0, len(summary.NegativeStock))
	for _, item := range summary.NegativeStock {
		negative = append(negative, domainItemToWire(item))
	}

	return &GetInventorySummaryResponse{
		TotalItems:    summary.TotalItems,
		Categories:    categories,
		NegativeStock: negative,
	}, nil
}

// ExportHistory handles the ExportHistory RPC
func (s *Server) ExportHistory(ctx context.Context, req *ExportHistoryRequest) (*ExportHistoryResponse, error) {
	if s.ExportService == nil {
		return nil, status.Error(codes.Unimplemented, "ledger export is not configured")
	}

	result, err := s.ExportService.ExportHistory(ctx, export.ExportInput{Encoding: req.Encoding})
	if err != nil {
		return nil, mapError(err)
	}

	return &ExportHistoryResponse{
		Key:      result.Object.Key,
		URL:      result.Object.URL,
		Driver:   string(s.ExportService.Store.Driver()),
		Encoding: result.Encoding,
		Rows:     result.Rows,
		Size:     result.Object.Size,
	}, nil
}

func historyQuery(itemID, from, to string) (calendar.HistoryQuery, error) {
	query := calendar.HistoryQuery{From: from, To: to}
	if itemID != "" {
		id, err := uuid.Parse(itemID)
		if err != nil {
			return query, status.Errorf(codes.InvalidArgument, "invalid item_id format: %v", err)
		}
		query.ItemID = &id
	}
	return query, nil
}

func domainItemToWire(item *domain.Item) *Item {
	wire := &Item{
		ID:           item.ID.String(),
		Category:     string(item.Category),
		Name:         item.Name,
		CurrentStock: item.CurrentStock.String(),
		Unit:         item.Unit,
		Version:      item.Version,
		CreatedAt:    NewTimestamp(item.CreatedAt),
	}
	if item.Specs != nil {
		wire.Specs = item.Specs.Attributes()
	}
	return wire
}

func domainHistoryToWire(h *domain.History) *HistoryEntry {
	return &HistoryEntry{
		ID:           h.ID.String(),
		Date:         domain.FormatBusinessDate(h.Date),
		Type:         string(h.Type),
		ItemID:       h.ItemID.String(),
		ItemName:     h.ItemName,
		ChangeAmount: h.ChangeAmount.String(),
		FinalStock:   h.FinalStock.String(),
		Sequence:     h.Sequence,
		CreatedAt:    NewTimestamp(h.CreatedAt),
	}
}

func historyToWire(entries []*domain.History) []*HistoryEntry {
	wire := make([]*HistoryEntry, 0, len(entries))
	for _, h := range entries {
		wire = append(wire, domainHistoryToWire(h))
	}
	return wire
}

func domainEventToWire(e *domain.Event) *Event {
	return &Event{
		ID:          e.ID.String(),
		Title:       e.Title,
		Date:        domain.FormatBusinessDate(e.Date),
		Description: e.Description,
		CreatedAt:   NewTimestamp(e.CreatedAt),
	}
}

// mapError maps domain error kinds to gRPC status codes
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case domain.IsValidation(err):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case domain.IsNotFound(err):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	}

	return status.Errorf(codes.Internal, "%s", err.Error())
}
