package service

import (
	"context"

	"connectrpc.com/connect"
)

// DashboardServiceClient calls the dashboard service over Connect with the JSON codec.
type DashboardServiceClient struct {
	getSession   *connect.Client[GetSessionRequest, GetSessionResponse]
	getChart     *connect.Client[GetChartRequest, GetChartResponse]
	listRecords  *connect.Client[ListRecordsRequest, ListRecordsResponse]
	createRecord *connect.Client[CreateRecordRequest, CreateRecordResponse]
}

// NewDashboardServiceClient creates a client for the service mounted at baseURL.
func NewDashboardServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DashboardServiceClient {
	opts = append(opts, connect.WithCodec(jsonCodec{}))
	return &DashboardServiceClient{
		getSession:   connect.NewClient[GetSessionRequest, GetSessionResponse](httpClient, baseURL+GetSessionProcedure, opts...),
		getChart:     connect.NewClient[GetChartRequest, GetChartResponse](httpClient, baseURL+GetChartProcedure, opts...),
		listRecords:  connect.NewClient[ListRecordsRequest, ListRecordsResponse](httpClient, baseURL+ListRecordsProcedure, opts...),
		createRecord: connect.NewClient[CreateRecordRequest, CreateRecordResponse](httpClient, baseURL+CreateRecordProcedure, opts...),
	}
}

func (c *DashboardServiceClient) GetSession(ctx context.Context, req *connect.Request[GetSessionRequest]) (*connect.Response[GetSessionResponse], error) {
	return c.getSession.CallUnary(ctx, req)
}

func (c *DashboardServiceClient) GetChart(ctx context.Context, req *connect.Request[GetChartRequest]) (*connect.Response[GetChartResponse], error) {
	return c.getChart.CallUnary(ctx, req)
}

func (c *DashboardServiceClient) ListRecords(ctx context.Context, req *connect.Request[ListRecordsRequest]) (*connect.Response[ListRecordsResponse], error) {
	return c.listRecords.CallUnary(ctx, req)
}

func (c *DashboardServiceClient) CreateRecord(ctx context.Context, req *connect.Request[CreateRecordRequest]) (*connect.Response[CreateRecordResponse], error) {
	return c.createRecord.CallUnary(ctx, req)
}
