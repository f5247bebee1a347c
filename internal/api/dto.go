package api

import "github.com/starford/fms/internal/models"

// StoreListResponse wraps store listings.
type StoreListResponse struct {
	Stores []models.Store `json:"stores" validate:"required"`
	Total  int            `json:"total" example:"8" validate:"required"`
}

// ActionListResponse wraps action listings.
type ActionListResponse struct {
	Actions []models.ActionItem `json:"actions" validate:"required"`
	Total   int                 `json:"total" example:"5" validate:"required"`
}

// EventListResponse wraps event listings.
type EventListResponse struct {
	Events []models.EventLog `json:"events" validate:"required"`
	Total  int               `json:"total" example:"6" validate:"required"`
}

// NoticeListResponse wraps notice listings.
type NoticeListResponse struct {
	Notices []models.Notice `json:"notices" validate:"required"`
	Total   int             `json:"total" example:"3" validate:"required"`
}

// KPIResponse carries a POS series. Series is null when POS figures are
// unavailable; that is not an error.
type KPIResponse struct {
	Series *models.KPISeries `json:"series"`
}

// RiskListResponse wraps ranked store risks.
type RiskListResponse struct {
	Risks []models.StoreRiskSummary `json:"risks" validate:"required"`
}

// RollupListResponse wraps supervisor rollups.
type RollupListResponse struct {
	Supervisors []models.SupervisorRollup `json:"supervisors" validate:"required"`
}

// InsightListResponse wraps urgent insights.
type InsightListResponse struct {
	Insights []models.UrgentInsight `json:"insights" validate:"required"`
}

// AnomalyListResponse wraps sustained anomalies.
type AnomalyListResponse struct {
	Anomalies []models.SustainedAnomaly `json:"anomalies" validate:"required"`
}
