package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client calls StockCalendarService over any connection, always with the JSON codec
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Dial opens a plaintext connection to target with the JSON codec as default
func Dial(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	defaults := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}
	return grpc.NewClient(target, append(defaults, opts...)...)
}

func invoke[Resp any](ctx context.Context, c *Client, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RegisterItem(ctx context.Context, in *RegisterItemRequest, opts ...grpc.CallOption) (*RegisterItemResponse, error) {
	return invoke[RegisterItemResponse](ctx, c, methodRegisterItem, in, opts)
}

func (c *Client) ListItems(ctx context.Context, in *ListItemsRequest, opts ...grpc.CallOption) (*ListItemsResponse, error) {
	return invoke[ListItemsResponse](ctx, c, methodListItems, in, opts)
}

func (c *Client) GetItem(ctx context.Context, in *GetItemRequest, opts ...grpc.CallOption) (*GetItemResponse, error) {
	return invoke[GetItemResponse](ctx, c, methodGetItem, in, opts)
}

func (c *Client) ApplyTransaction(ctx context.Context, in *ApplyTransactionRequest, opts ...grpc.CallOption) (*ApplyTransactionResponse, error) {
	return invoke[ApplyTransactionResponse](ctx, c, methodApplyTransaction, in, opts)
}

func (c *Client) ListHistory(ctx context.Context, in *ListHistoryRequest, opts ...grpc.CallOption) (*ListHistoryResponse, error) {
	return invoke[ListHistoryResponse](ctx, c, methodListHistory, in, opts)
}

func (c *Client) ListCalendarDays(ctx context.Context, in *ListCalendarDaysRequest, opts ...grpc.CallOption) (*ListCalendarDaysResponse, error) {
	return invoke[ListCalendarDaysResponse](ctx, c, methodListCalendarDays, in, opts)
}

func (c *Client) CreateEvent(ctx context.Context, in *CreateEventRequest, opts ...grpc.CallOption) (*CreateEventResponse, error) {
	return invoke[CreateEventResponse](ctx, c, methodCreateEvent, in, opts)
}

func (c *Client) ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error) {
	return invoke[ListEventsResponse](ctx, c, methodListEvents, in, opts)
}

func (c *Client) Reconcile(ctx context.Context, in *ReconcileRequest, opts ...grpc.CallOption) (*ReconcileResponse, error) {
	return invoke[ReconcileResponse](ctx, c, methodReconcile, in, opts)
}

func (c *Client) GetInventorySummary(ctx context.Context, in *GetInventorySummaryRequest, opts ...grpc.CallOption) (*GetInventorySummaryResponse, error) {
	return invoke[GetInventorySummaryResponse](ctx, c, methodGetInventorySummary, in, opts)
}

func (c *Client) ExportHistory(ctx context.Context, in *ExportHistoryRequest, opts ...grpc.CallOption) (*ExportHistoryResponse, error) {
	return invoke[ExportHistoryResponse](ctx, c, methodExportHistory, in, opts)
}
