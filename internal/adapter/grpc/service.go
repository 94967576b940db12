package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "stockcal.v1.StockCalendarService"

const (
	methodRegisterItem        = "/" + ServiceName + "/RegisterItem"
	methodListItems           = "/" + ServiceName + "/ListItems"
	methodGetItem             = "/" + ServiceName + "/GetItem"
	methodApplyTransaction    = "/" + ServiceName + "/ApplyTransaction"
	methodListHistory         = "/" + ServiceName + "/ListHistory"
	methodListCalendarDays    = "/" + ServiceName + "/ListCalendarDays"
	methodCreateEvent         = "/" + ServiceName + "/CreateEvent"
	methodListEvents          = "/" + ServiceName + "/ListEvents"
	methodReconcile           = "/" + ServiceName + "/Reconcile"
	methodGetInventorySummary = "/" + ServiceName + "/GetInventorySummary"
	methodExportHistory       = "/" + ServiceName + "/ExportHistory"
)

// StockCalendarServer is the server API for the stock calendar service
type StockCalendarServer interface {
	RegisterItem(context.Context, *RegisterItemRequest) (*RegisterItemResponse, error)
	ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error)
	GetItem(context.Context, *GetItemRequest) (*GetItemResponse, error)
	ApplyTransaction(context.Context, *ApplyTransactionRequest) (*ApplyTransactionResponse, error)
	ListHistory(context.Context, *ListHistoryRequest) (*ListHistoryResponse, error)
	ListCalendarDays(context.Context, *ListCalendarDaysRequest) (*ListCalendarDaysResponse, error)
	CreateEvent(context.Context, *CreateEventRequest) (*CreateEventResponse, error)
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error)
	Reconcile(context.Context, *ReconcileRequest) (*ReconcileResponse, error)
	GetInventorySummary(context.Context, *GetInventorySummaryRequest) (*GetInventorySummaryResponse, error)
	ExportHistory(context.Context, *ExportHistoryRequest) (*ExportHistoryResponse, error)
}

// UnimplementedStockCalendarServer answers every RPC with codes.Unimplemented.
// Embed it to stay forward compatible when methods are added.
type UnimplementedStockCalendarServer struct{}

func (UnimplementedStockCalendarServer) RegisterItem(context.Context, *RegisterItemRequest) (*RegisterItemResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterItem not implemented")
}
func (UnimplementedStockCalendarServer) ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListItems not implemented")
}
func (UnimplementedStockCalendarServer) GetItem(context.Context, *GetItemRequest) (*GetItemResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetItem not implemented")
}
func (UnimplementedStockCalendarServer) ApplyTransaction(context.Context, *ApplyTransactionRequest) (*ApplyTransactionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ApplyTransaction not implemented")
}
func (UnimplementedStockCalendarServer) ListHistory(context.Context, *ListHistoryRequest) (*ListHistoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListHistory not implemented")
}
func (UnimplementedStockCalendarServer) ListCalendarDays(context.Context, *ListCalendarDaysRequest) (*ListCalendarDaysResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListCalendarDays not implemented")
}
func (UnimplementedStockCalendarServer) CreateEvent(context.Context, *CreateEventRequest) (*CreateEventResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateEvent not implemented")
}
func (UnimplementedStockCalendarServer) ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListEvents not implemented")
}
func (UnimplementedStockCalendarServer) Reconcile(context.Context, *ReconcileRequest) (*ReconcileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Reconcile not implemented")
}
func (UnimplementedStockCalendarServer) GetInventorySummary(context.Context, *GetInventorySummaryRequest) (*GetInventorySummaryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetInventorySummary not implemented")
}
func (UnimplementedStockCalendarServer) ExportHistory(context.Context, *ExportHistoryRequest) (*ExportHistoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ExportHistory not implemented")
}

// RegisterStockCalendarServer attaches srv to a gRPC server
func RegisterStockCalendarServer(s grpc.ServiceRegistrar, srv StockCalendarServer) {
	s.RegisterService(&StockCalendarServiceDesc, srv)
}

// unaryHandler adapts a typed method to grpc.MethodHandler
func unaryHandler[Req, Resp any](fullMethod string, call func(StockCalendarServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(StockCalendarServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(StockCalendarServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// StockCalendarServiceDesc describes the service for grpc.Server.RegisterService.
// Messages are plain structs, so it has no proto file descriptor.
var StockCalendarServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StockCalendarServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterItem", Handler: unaryHandler(methodRegisterItem, StockCalendarServer.RegisterItem)},
		{MethodName: "ListItems", Handler: unaryHandler(methodListItems, StockCalendarServer.ListItems)},
		{MethodName: "GetItem", Handler: unaryHandler(methodGetItem, StockCalendarServer.GetItem)},
		{MethodName: "ApplyTransaction", Handler: unaryHandler(methodApplyTransaction, StockCalendarServer.ApplyTransaction)},
		{MethodName: "ListHistory", Handler: unaryHandler(methodListHistory, StockCalendarServer.ListHistory)},
		{MethodName: "ListCalendarDays", Handler: unaryHandler(methodListCalendarDays, StockCalendarServer.ListCalendarDays)},
		{MethodName: "CreateEvent", Handler: unaryHandler(methodCreateEvent, StockCalendarServer.CreateEvent)},
		{MethodName: "ListEvents", Handler: unaryHandler(methodListEvents, StockCalendarServer.ListEvents)},
		{MethodName: "Reconcile", Handler: unaryHandler(methodReconcile, StockCalendarServer.Reconcile)},
		{MethodName: "GetInventorySummary", Handler: unaryHandler(methodGetInventorySummary, StockCalendarServer.GetInventorySummary)},
		{MethodName: "ExportHistory", Handler: unaryHandler(methodExportHistory, StockCalendarServer.ExportHistory)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stockcal/v1/stockcal.json",
}
