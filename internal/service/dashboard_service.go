package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/finboard/internal/auth"
	"github.com/mmynk/finboard/internal/chart"
	"github.com/mmynk/finboard/internal/events"
	"github.com/mmynk/finboard/internal/metrics"
	"github.com/mmynk/finboard/internal/middleware"
	"github.com/mmynk/finboard/internal/models"
	"github.com/mmynk/finboard/internal/storage"
)

// PermissionRules lists what each dashboard procedure requires beyond a valid token.
var PermissionRules = map[string][]string{
	GetChartProcedure:     {auth.PermTransactionsRead},
	ListRecordsProcedure:  {auth.PermTransactionsRead},
	CreateRecordProcedure: {auth.PermTransactionsWrite},
}

// DashboardService serves session details, chart series and records.
type DashboardService struct {
	store     storage.RecordStore
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a DashboardService.
type Option func(*DashboardService)

// WithClock replaces time.Now as the source of "now" for chart windows.
func WithClock(now func() time.Time) Option {
	return func(s *DashboardService) { s.now = now }
}

// WithPublisher sends record events to p instead of dropping them.
func WithPublisher(p events.Publisher) Option {
	return func(s *DashboardService) { s.publisher = p }
}

// NewDashboardService creates a new DashboardService with the given storage backend.
func NewDashboardService(store storage.RecordStore, m *metrics.Metrics, logger *slog.Logger, opts ...Option) *DashboardService {
	s := &DashboardService{
		store:     store,
		publisher: events.NopPublisher{},
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetSession returns the verified claims of the caller.
func (s *DashboardService) GetSession(ctx context.Context, req *connect.Request[GetSessionRequest]) (*connect.Response[GetSessionResponse], error) {
	claims := middleware.GetClaims(ctx)
	if claims == nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	resp := &GetSessionResponse{
		Subject:     claims.Subject,
		Email:       claims.Email,
		Name:        claims.Name,
		Role:        claims.Role,
		TokenID:     claims.ID,
		Issuer:      claims.Issuer,
		Audience:    claims.Audience,
		Permissions: []string(claims.Permissions),
	}
	if resp.Permissions == nil {
		resp.Permissions = []string{}
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time.UTC()
		resp.ExpiresAt = &exp
	}

	return connect.NewResponse(resp), nil
}

// GetChart aggregates the caller-visible records into chart series.
func (s *DashboardService) GetChart(ctx context.Context, req *connect.Request[GetChartRequest]) (*connect.Response[GetChartResponse], error) {
	granularity, err := chart.ParseGranularity(req.Msg.Granularity)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	now := s.now()
	records, err := s.store.ListRecords(ctx, granularity.WindowStart(now))
	if err != nil {
		s.logger.ErrorContext(ctx, "GetChart: failed to list records", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	set := chart.Aggregate(records, granularity, now)
	s.metrics.ObserveAggregation(string(granularity), set.Placed, set.Dropped)

	s.logger.DebugContext(ctx, "Chart aggregated",
		"granularity", granularity,
		"placed", set.Placed,
		"dropped", set.Dropped,
	)

	return connect.NewResponse(&GetChartResponse{
		Granularity: granularity,
		ChartData:   set.Chart(),
		Placed:      set.Placed,
		Dropped:     set.Dropped,
	}), nil
}

// ListRecords returns stored records, newest first.
func (s *DashboardService) ListRecords(ctx context.Context, req *connect.Request[ListRecordsRequest]) (*connect.Response[ListRecordsResponse], error) {
	var since time.Time
	if req.Msg.Since != nil {
		since = *req.Msg.Since
	}

	records, err := s.store.ListRecords(ctx, since)
	if err != nil {
		s.logger.ErrorContext(ctx, "ListRecords failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&ListRecordsResponse{Records: records}), nil
}

// CreateRecord validates and stores a new record, then announces it.
func (s *DashboardService) CreateRecord(ctx context.Context, req *connect.Request[CreateRecordRequest]) (*connect.Response[CreateRecordResponse], error) {
	record, err := recordFromRequest(req.Msg)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	if err := s.store.CreateRecord(ctx, &record); err != nil {
		s.logger.ErrorContext(ctx, "CreateRecord failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	subject := middleware.GetUserID(ctx)
	s.logger.InfoContext(ctx, "Record created", "record_id", record.ID, "user_id", subject)

	err = s.publisher.PublishRecordCreated(ctx, events.NewRecordCreated(record, subject, s.now()))
	s.metrics.ObserveEvent(err)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish record event", "record_id", record.ID, "error", err)
	}

	return connect.NewResponse(&CreateRecordResponse{Record: record}), nil
}

var errInvalidRecord = errors.New("invalid record")

func recordFromRequest(msg *CreateRecordRequest) (models.Record, error) {
	name := strings.TrimSpace(msg.Name)
	if name == "" {
		return models.Record{}, fmt.Errorf("%w: name is required", errInvalidRecord)
	}
	direction, err := models.ParseDirection(msg.Direction)
	if err != nil {
		return models.Record{}, fmt.Errorf("%w: %v", errInvalidRecord, err)
	}
	if msg.OccurredAt.IsZero() {
		return models.Record{}, fmt.Errorf("%w: occurred_at is required", errInvalidRecord)
	}

	return models.Record{
		Name:       name,
		Direction:  direction,
		Amount:     msg.Amount,
		Category:   strings.TrimSpace(msg.Category),
		OccurredAt: msg.OccurredAt.UTC(),
	}, nil
}

// NewDashboardServiceHandler builds an HTTP handler serving every dashboard
// procedure. It returns the path to mount the handler on.
func NewDashboardServiceHandler(svc *DashboardService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, connect.WithCodec(jsonCodec{}))

	mux := http.NewServeMux()
	mux.Handle(GetSessionProcedure, connect.NewUnaryHandler(GetSessionProcedure, svc.GetSession, opts...))
	mux.Handle(GetChartProcedure, connect.NewUnaryHandler(GetChartProcedure, svc.GetChart, opts...))
	mux.Handle(ListRecordsProcedure, connect.NewUnaryHandler(ListRecordsProcedure, svc.ListRecords, opts...))
	mux.Handle(CreateRecordProcedure, connect.NewUnaryHandler(CreateRecordProcedure, svc.CreateRecord, opts...))

	return "/" + DashboardServiceName + "/", mux
}
