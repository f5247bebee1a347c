package datasource

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/starford/fms/internal/apperr"
	"github.com/starford/fms/internal/dashboard"
	"github.com/starford/fms/internal/models"
	"github.com/starford/fms/internal/repository"
)

// LocalDashboard computes dashboard reads from the repositories.
type LocalDashboard struct {
	repos  *repository.Set
	policy dashboard.InsightPolicy
	now    func() time.Time
}

func (d *LocalDashboard) Summary(ctx context.Context) (models.DashboardSummary, error) {
	snap := Snapshot(ctx, d.repos)
	var out models.DashboardSummary
	out.TotalStores = len(snap.Stores)
	for _, s := range snap.Stores {
		if dashboard.LevelOf(s) != models.RiskLow {
			out.RiskStores++
		}
	}
	for _, a := range snap.Actions {
		if a.Open() {
			out.OpenActions++
		}
	}
	for _, e := range snap.Events {
		if !e.Resolved && e.Severity == models.RiskCritical {
			out.CriticalIssues++
		}
	}
	return out, nil
}

func (d *LocalDashboard) StoreRisks(ctx context.Context, limit int) ([]models.StoreRiskSummary, error) {
	if limit <= 0 {
		return dashboard.RankRisks(d.repos.Stores.List(ctx)), nil
	}
	return dashboard.TopRisks(d.repos.Stores.List(ctx), limit), nil
}

func (d *LocalDashboard) SupervisorSummary(ctx context.Context, supervisorID string) (models.SupervisorRollup, error) {
	return dashboard.RollupFor(supervisorID, d.repos.Stores.List(ctx), d.repos.Actions.List(ctx)), nil
}

func (d *LocalDashboard) AdminSummary(ctx context.Context) (models.AdminView, error) {
	return dashboard.BuildAdminView(Snapshot(ctx, d.repos), d.policy, d.now()), nil
}

func (d *LocalDashboard) SupervisorRollups(ctx context.Context) ([]models.SupervisorRollup, error) {
	return dashboard.SupervisorRollups(d.repos.Stores.List(ctx), d.repos.Actions.List(ctx)), nil
}

func (d *LocalDashboard) ManagerSummary(ctx context.Context) (models.ManagerView, error) {
	return dashboard.BuildManagerView(Snapshot(ctx, d.repos)), nil
}

func (d *LocalDashboard) SupervisorDetail(ctx context.Context, supervisorID string) (models.SupervisorView, error) {
	return dashboard.BuildSupervisorView(Snapshot(ctx, d.repos), supervisorID), nil
}

func (d *LocalDashboard) Insights(ctx context.Context) ([]models.UrgentInsight, error) {
	return dashboard.DetectUrgentInsights(d.repos.Stores.List(ctx), d.repos.Events.List(ctx), d.policy, d.now()), nil
}

func (d *LocalDashboard) RiskReport(ctx context.Context, storeID string) (models.RiskReport, error) {
	store, ok := d.repos.Stores.Get(ctx, storeID)
	if !ok {
		return models.RiskReport{}, fmt.Errorf("datasource: risk report %s: %w", storeID, apperr.ErrNotFound)
	}
	sum := dashboard.Summarize(store)

	events := []models.EventLog{}
	for _, e := range d.repos.Events.List(ctx) {
		if e.StoreID == storeID {
			events = append(events, e)
		}
	}
	slices.SortStableFunc(events, func(a, b models.EventLog) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	factors := store.RiskFactors
	if factors == nil {
		factors = []string{}
	}
	return models.RiskReport{
		StoreID:        store.ID,
		StoreName:      store.Name,
		RiskLevel:      sum.RiskLevel,
		RiskScore:      sum.RiskScore,
		Factors:        factors,
		Recommendation: sum.Recommendation,
		Events:         events,
		GeneratedAt:    d.now(),
	}, nil
}

// LocalNotices serves the board from the notice repository.
type LocalNotices struct {
	repos *repository.Set
}

// List filters by keyword in title or content, case-insensitively.
func (n *LocalNotices) List(ctx context.Context, keyword string) ([]models.Notice, error) {
	all := n.repos.Notices.List(ctx)
	kw := strings.ToLower(strings.TrimSpace(keyword))
	if kw == "" {
		return all, nil
	}
	out := []models.Notice{}
	for _, it := range all {
		if strings.Contains(strings.ToLower(it.Title), kw) || strings.Contains(strings.ToLower(it.Content), kw) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (n *LocalNotices) Get(ctx context.Context, id string) (models.Notice, error) {
	it, ok := n.repos.Notices.Get(ctx, id)
	if !ok {
		return models.Notice{}, fmt.Errorf("datasource: notice %s: %w", id, apperr.ErrNotFound)
	}
	return it, nil
}

// LocalKPI derives a two-point series from the store's KPI snapshot.
type LocalKPI struct {
	repos *repository.Set
}

func (k *LocalKPI) StoreKPI(ctx context.Context, storeID string, q models.KPIQuery) *models.KPISeries {
	store, ok := k.repos.Stores.Get(ctx, storeID)
	if !ok {
		return nil
	}
	period := q.PeriodType
	if period == "" {
		period = models.PeriodWeekly
	}
	current := models.KPIPoint{Period: "current", Sales: store.KPI.Sales}
	if d, err := dashboard.ComputeDelta(store.KPI.Sales, store.KPI.PriorSales); err == nil {
		current.Comparison = d.Rate
	}
	points := []models.KPIPoint{
		{Period: "prior", Sales: store.KPI.PriorSales},
		current,
	}
	if q.Limit > 0 && len(points) > q.Limit {
		points = points[len(points)-q.Limit:]
	}
	return &models.KPISeries{StoreID: store.ID, PeriodType: period, Points: points}
}
