package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/finboard/internal/chart"
	"github.com/mmynk/finboard/internal/models"
)

// DashboardServiceName is the fully-qualified name of the dashboard service.
const DashboardServiceName = "finboard.v1.DashboardService"

// Procedure paths of the dashboard service.
const (
	GetSessionProcedure   = "/" + DashboardServiceName + "/GetSession"
	GetChartProcedure     = "/" + DashboardServiceName + "/GetChart"
	ListRecordsProcedure  = "/" + DashboardServiceName + "/ListRecords"
	CreateRecordProcedure = "/" + DashboardServiceName + "/CreateRecord"
)

type GetSessionRequest struct{}

type GetSessionResponse struct {
	Subject     string     `json:"subject"`
	Email       string     `json:"email,omitempty"`
	Name        string     `json:"name,omitempty"`
	Role        string     `json:"role,omitempty"`
	TokenID     string     `json:"token_id,omitempty"`
	Issuer      string     `json:"issuer,omitempty"`
	Audience    []string   `json:"audience,omitempty"`
	Permissions []string   `json:"permissions"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type GetChartRequest struct {
	Granularity string `json:"granularity"`
}

type GetChartResponse struct {
	Granularity chart.Granularity `json:"granularity"`
	chart.ChartData
	Placed  int `json:"placed"`
	Dropped int `json:"dropped"`
}

type ListRecordsRequest struct {
	// Since limits the listing to records at or after this instant.
	Since *time.Time `json:"since,omitempty"`
}

type ListRecordsResponse struct {
	Records []models.Record `json:"records"`
}

type CreateRecordRequest struct {
	Name       string          `json:"name"`
	Direction  string          `json:"direction"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	OccurredAt time.Time       `json:"occurred_at"`
}

type CreateRecordResponse struct {
	Record models.Record `json:"record"`
}
