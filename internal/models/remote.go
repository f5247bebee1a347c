package models

import "time"

// DashboardSummary is the operator-wide counter block served by the remote API.
type DashboardSummary struct {
	TotalStores    int `json:"totalStores"`
	RiskStores     int `json:"riskStores"`
	OpenActions    int `json:"openActions"`
	CriticalIssues int `json:"criticalIssues"`
}

// RiskReport explains one store's risk.
type RiskReport struct {
	StoreID        string     `json:"storeId"`
	StoreName      string     `json:"storeName"`
	RiskLevel      RiskLevel  `json:"riskLevel"`
	RiskScore      int        `json:"riskScore"`
	Factors        []string   `json:"factors"`
	Recommendation string     `json:"recommendation"`
	Events         []EventLog `json:"events"`
	GeneratedAt    time.Time  `json:"generatedAt"`
}

// KPI period types.
const (
	PeriodDaily   = "DAILY"
	PeriodWeekly  = "WEEKLY"
	PeriodMonthly = "MONTHLY"
)

// KPIQuery parameterises a POS KPI read.
type KPIQuery struct {
	PeriodType string `json:"periodType"`
	Limit      int    `json:"limit"`
	Baseline   string `json:"baseline,omitempty"`
}

// KPIPoint is one period of POS figures.
type KPIPoint struct {
	Period     string  `json:"period"`
	Sales      float64 `json:"sales"`
	Orders     int     `json:"orders"`
	AvgTicket  float64 `json:"avgTicket"`
	Comparison float64 `json:"comparison,omitempty"`
}

// KPISeries is the POS KPI history of a store.
type KPISeries struct {
	StoreID    string     `json:"storeId"`
	PeriodType string     `json:"periodType"`
	Points     []KPIPoint `json:"points"`
}
