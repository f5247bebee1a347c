package opsservice

import (
	"context"
	"slices"
	"strings"

	"github.com/starford/fms/internal/apperr"
	"github.com/starford/fms/internal/briefing"
	"github.com/starford/fms/internal/dashboard"
	"github.com/starford/fms/internal/datasource"
	"github.com/starford/fms/internal/models"
)

func (s *Service) snapshot(ctx context.Context) dashboard.Snapshot {
	return datasource.Snapshot(ctx, s.repos)
}

// Risks returns ranked store risks through the dashboard read path.
func (s *Service) Risks(ctx context.Context, limit int) ([]models.StoreRiskSummary, error) {
	return s.sources.Dashboard.StoreRisks(ctx, limit)
}

// Summary returns the headline counters through the dashboard read path.
func (s *Service) Summary(ctx context.Context) (models.DashboardSummary, error) {
	return s.sources.Dashboard.Summary(ctx)
}

// SupervisorRollups returns the rollup of every supervisor through the
// dashboard read path.
func (s *Service) SupervisorRollups(ctx context.Context) ([]models.SupervisorRollup, error) {
	out, err := s.sources.Dashboard.SupervisorRollups(ctx)
	if out == nil && err == nil {
		out = []models.SupervisorRollup{}
	}
	return out, err
}

// SupervisorRollup returns one supervisor's rollup through the dashboard
// read path.
func (s *Service) SupervisorRollup(ctx context.Context, supervisorID string) (models.SupervisorRollup, error) {
	return s.sources.Dashboard.SupervisorSummary(ctx, supervisorID)
}

// AdminView returns the admin dashboard through the dashboard read path.
func (s *Service) AdminView(ctx context.Context) (models.AdminView, error) {
	return s.sources.Dashboard.AdminSummary(ctx)
}

// ManagerView returns the manager dashboard through the dashboard read path.
func (s *Service) ManagerView(ctx context.Context) (models.ManagerView, error) {
	return s.sources.Dashboard.ManagerSummary(ctx)
}

// SupervisorView returns one supervisor's dashboard through the dashboard
// read path.
func (s *Service) SupervisorView(ctx context.Context, supervisorID string) (models.SupervisorView, error) {
	if strings.TrimSpace(supervisorID) == "" {
		return models.SupervisorView{}, apperr.ErrInvalidInput
	}
	return s.sources.Dashboard.SupervisorDetail(ctx, supervisorID)
}

// Insights returns regional risk clusters through the dashboard read path.
func (s *Service) Insights(ctx context.Context) ([]models.UrgentInsight, error) {
	out, err := s.sources.Dashboard.Insights(ctx)
	if out == nil && err == nil {
		out = []models.UrgentInsight{}
	}
	return out, err
}

// Anomalies lists stores out of the baseline band for long enough. The
// baseline policy and events are local entities, so this always reads the
// repositories.
func (s *Service) Anomalies(ctx context.Context) []models.SustainedAnomaly {
	out := dashboard.SustainedAnomalies(s.repos.Events.List(ctx), s.repos.Baseline.Get(ctx))
	if out == nil {
		out = []models.SustainedAnomaly{}
	}
	return out
}

// KPIDelta compares two period values.
func (s *Service) KPIDelta(current, prior float64) (models.KPIDelta, error) {
	return dashboard.ComputeDelta(current, prior)
}

// StoreKPI reads a store's KPI series through the POS read path. nil means
// no figures are available.
func (s *Service) StoreKPI(ctx context.Context, storeID string, q models.KPIQuery) *models.KPISeries {
	return s.sources.KPI.StoreKPI(ctx, storeID, q)
}

// RiskReport explains one store's risk through the dashboard read path.
func (s *Service) RiskReport(ctx context.Context, storeID string) (models.RiskReport, error) {
	return s.sources.Dashboard.RiskReport(ctx, storeID)
}

// Briefing composes the daily digest for u.
func (s *Service) Briefing(ctx context.Context, u models.User) (models.DailyBriefing, error) {
	u.ID = strings.TrimSpace(u.ID)
	if u.ID == "" {
		return models.DailyBriefing{}, apperr.ErrInvalidInput
	}
	u.Role = strings.ToLower(strings.TrimSpace(u.Role))
	if u.Role == "" {
		u.Role = models.RoleSupervisor
	}
	if !slices.Contains([]string{models.RoleAdmin, models.RoleManager, models.RoleSupervisor}, u.Role) {
		return models.DailyBriefing{}, apperr.ErrInvalidInput
	}
	return briefing.Compose(briefing.Input{
		User:          u,
		Date:          s.now(),
		Snapshot:      s.snapshot(ctx),
		PriorityLimit: s.limit,
	}), nil
}

func sortEventsNewestFirst(events []models.EventLog) {
	slices.SortStableFunc(events, func(a, b models.EventLog) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
}
