package repository

import (
	"time"

	"github.com/starford/fms/internal/models"
)

var seedEpoch = time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

func at(daysAgo, hour int) time.Time {
	return seedEpoch.AddDate(0, 0, -daysAgo).Add(time.Duration(hour-9) * time.Hour)
}

// DefaultStores is the store dataset written on first use.
func DefaultStores() []models.Store {
	return []models.Store{
		{
			ID: "ST-001", Name: "Gangnam Station", Region: "Seoul South", CurrentSupervisorID: "SV-01",
			Status: models.StoreWatch, RiskLevel: models.RiskCritical, RiskScore: 88,
			RiskFactors: []string{"hygiene_decline", "complaints"},
			KPI:         models.KPISnapshot{Sales: 4200000, PriorSales: 4500000, QSCScore: 71, HygieneScore: 68},
			UpdatedAt:   at(0, 8),
		},
		{
			ID: "ST-002", Name: "Seocho Central", Region: "Seoul South", CurrentSupervisorID: "SV-01",
			Status: models.StoreOperating, RiskLevel: models.RiskHigh, RiskScore: 67,
			RiskFactors: []string{"sales_drop"},
			KPI:         models.KPISnapshot{Sales: 3100000, PriorSales: 3550000, QSCScore: 82, HygieneScore: 84},
			UpdatedAt:   at(0, 7),
		},
		{
			ID: "ST-003", Name: "Jamsil Lakeside", Region: "Seoul South", CurrentSupervisorID: "SV-02",
			Status: models.StoreOperating, RiskLevel: models.RiskHigh, RiskScore: 63,
			RiskFactors: []string{"qsc_low", "staff_turnover"},
			KPI:         models.KPISnapshot{Sales: 3900000, PriorSales: 3800000, QSCScore: 69, HygieneScore: 80},
			UpdatedAt:   at(1, 18),
		},
		{
			ID: "ST-004", Name: "Hongdae Main", Region: "Seoul West", CurrentSupervisorID: "SV-02",
			Status: models.StoreOperating, RiskLevel: models.RiskMedium, RiskScore: 45,
			RiskFactors: []string{"complaints"},
			KPI:         models.KPISnapshot{Sales: 4500000, PriorSales: 4200000, QSCScore: 85, HygieneScore: 88},
			UpdatedAt:   at(1, 12),
		},
		{
			ID: "ST-005", Name: "Mapo Riverside", Region: "Seoul West", CurrentSupervisorID: "SV-03",
			Status: models.StoreOperating, RiskLevel: models.RiskLow, RiskScore: 18,
			KPI:       models.KPISnapshot{Sales: 2800000, PriorSales: 2800000, QSCScore: 92, HygieneScore: 94},
			UpdatedAt: at(2, 10),
		},
		{
			ID: "ST-006", Name: "Sinchon Campus", Region: "Seoul West",
			Status: models.StoreOperating, RiskLevel: models.RiskMedium, RiskScore: 52,
			RiskFactors: []string{"sales_drop"},
			KPI:         models.KPISnapshot{Sales: 2100000, PriorSales: 2400000, QSCScore: 80, HygieneScore: 83},
			UpdatedAt:   at(2, 15),
		},
		{
			ID: "ST-007", Name: "Suwon Terminal", Region: "Gyeonggi", CurrentSupervisorID: "SV-03",
			Status: models.StoreSuspended, RiskLevel: models.RiskCritical, RiskScore: 91,
			RiskFactors: []string{"hygiene_decline", "qsc_low"},
			KPI:         models.KPISnapshot{Sales: 0, PriorSales: 3300000, QSCScore: 55, HygieneScore: 49},
			UpdatedAt:   at(0, 6),
		},
		{
			ID: "ST-008", Name: "Bundang Plaza", Region: "Gyeonggi", CurrentSupervisorID: "SV-03",
			Status: models.StoreOperating, RiskLevel: models.RiskLow, RiskScore: 22,
			KPI:       models.KPISnapshot{Sales: 3600000, PriorSales: 0, QSCScore: 90, HygieneScore: 91},
			UpdatedAt: at(3, 11),
		},
	}
}

// DefaultActions is the action item dataset written on first use.
func DefaultActions() []models.ActionItem {
	due := func(days int) *time.Time {
		t := seedEpoch.AddDate(0, 0, days)
		return &t
	}
	return []models.ActionItem{
		{
			ID: "AC-001", Title: "Deep clean kitchen line", Description: "Hygiene score below baseline for three days.",
			AssigneeID: "SV-01", StoreID: "ST-001", Status: models.ActionOpen, Priority: models.PriorityHigh,
			CreatedAt: at(1, 9), DueDate: due(1),
		},
		{
			ID: "AC-002", Title: "Review weekend staffing plan", Description: "Sales down week over week.",
			AssigneeID: "SV-01", StoreID: "ST-002", Status: models.ActionPendingApproval, Priority: models.PriorityMedium,
			CreatedAt: at(2, 14), DueDate: due(3),
		},
		{
			ID: "AC-003", Title: "QSC re-inspection", Description: "Follow up on failed QSC audit.",
			AssigneeID: "SV-02", StoreID: "ST-003", Status: models.ActionInProgress, Priority: models.PriorityHigh,
			CreatedAt: at(3, 10),
		},
		{
			ID: "AC-004", Title: "Reopening checklist", Description: "Hygiene remediation before reopening.",
			AssigneeID: "SV-03", StoreID: "ST-007", Status: models.ActionOpen, Priority: models.PriorityHigh,
			CreatedAt: at(0, 7), DueDate: due(2),
		},
		{
			ID: "AC-005", Title: "Update allergen signage",
			AssigneeID: "SV-02", StoreID: "ST-004", Status: models.ActionCompleted, Priority: models.PriorityLow,
			CreatedAt: at(6, 11),
		},
	}
}

// DefaultEvents is the event log dataset written on first use.
func DefaultEvents() []models.EventLog {
	return []models.EventLog{
		{
			ID: "EV-001", Timestamp: at(0, 8), StoreID: "ST-001", Type: models.EventHygieneDecline,
			Severity: models.RiskCritical, Message: "Hygiene score 68 against baseline 85 for 3 days",
			Payload: models.EventPayload{Metric: "hygiene_score", Value: 68, Baseline: 85, ConsecutiveDays: 3},
		},
		{
			ID: "EV-002", Timestamp: at(0, 7), StoreID: "ST-002", Type: models.EventSalesDrop,
			Severity: models.RiskHigh, Message: "Sales down 12.7% week over week",
			Payload: models.EventPayload{Metric: "sales", Value: 3100000, Baseline: 3550000},
		},
		{
			ID: "EV-003", Timestamp: at(1, 17), StoreID: "ST-003", Type: models.EventQSCFailure,
			Severity: models.RiskHigh, Message: "QSC audit score 69",
			Payload: models.EventPayload{Metric: "qsc_score", Value: 69, Baseline: 80},
		},
		{
			ID: "EV-004", Timestamp: at(1, 12), StoreID: "ST-004", Type: models.EventComplaint,
			Severity: models.RiskMedium, Message: "Two customer complaints about wait times",
			Payload: models.EventPayload{Metric: "complaints", Value: 2},
		},
		{
			ID: "EV-005", Timestamp: at(0, 6), StoreID: "ST-007", Type: models.EventHygieneDecline,
			Severity: models.RiskCritical, Message: "Hygiene score 49 against baseline 85 for 4 days",
			Payload: models.EventPayload{Metric: "hygiene_score", Value: 49, Baseline: 85, ConsecutiveDays: 4},
		},
		{
			ID: "EV-006", Timestamp: at(5, 10), StoreID: "ST-005", Type: models.EventComplaint,
			Severity: models.RiskLow, Message: "Complaint resolved on site",
			Payload: models.EventPayload{Metric: "complaints", Value: 1}, Resolved: true,
		},
	}
}

// DefaultNotices is the board dataset written on first use.
func DefaultNotices() []models.Notice {
	return []models.Notice{
		{
			ID: "NT-001", Title: "Autumn hygiene campaign", Author: "HQ Operations",
			Content:     "All stores run the extended cleaning checklist through the end of the month.",
			PublishedAt: at(2, 9), Important: true, ViewCount: 41,
		},
		{
			ID: "NT-002", Title: "New POS firmware", Author: "HQ IT",
			Content:     "Terminals update overnight on Thursday. No action needed at store level.",
			PublishedAt: at(4, 15), ViewCount: 27,
		},
		{
			ID: "NT-003", Title: "Holiday staffing guidance", Author: "HQ People",
			Content:     "Submit holiday rosters to your supervisor by the 25th.",
			PublishedAt: at(6, 10), Important: true, ViewCount: 63,
		},
	}
}

// DefaultBaseline is the anomaly policy written on first use.
func DefaultBaseline() models.BaselineConfig {
	return models.BaselineConfig{
		TargetScope:         "ALL",
		Metric:              "hygiene_score",
		StandardValue:       85,
		AllowedDeviationPct: 10,
		ConsecutiveDays:     3,
	}
}
