// Package datasource exposes the read capabilities of each feature area with
// a repository-backed and a gateway-backed variant. The variant is chosen
// once when the process is composed.
package datasource

import (
	"context"
	"time"

	"github.com/starford/fms/internal/dashboard"
	"github.com/starford/fms/internal/gateway"
	"github.com/starford/fms/internal/models"
	"github.com/starford/fms/internal/repository"
)

// Dashboard serves every dashboard read. A variant that has no source for a
// read returns an error wrapping apperr.ErrUnsupported rather than falling
// back to the other path.
type Dashboard interface {
	Summary(ctx context.Context) (models.DashboardSummary, error)
	StoreRisks(ctx context.Context, limit int) ([]models.StoreRiskSummary, error)
	SupervisorSummary(ctx context.Context, supervisorID string) (models.SupervisorRollup, error)
	SupervisorRollups(ctx context.Context) ([]models.SupervisorRollup, error)
	AdminSummary(ctx context.Context) (models.AdminView, error)
	ManagerSummary(ctx context.Context) (models.ManagerView, error)
	SupervisorDetail(ctx context.Context, supervisorID string) (models.SupervisorView, error)
	Insights(ctx context.Context) ([]models.UrgentInsight, error)
	RiskReport(ctx context.Context, storeID string) (models.RiskReport, error)
}

// Notices serves board reads.
type Notices interface {
	List(ctx context.Context, keyword string) ([]models.Notice, error)
	Get(ctx context.Context, id string) (models.Notice, error)
}

// KPI serves POS reads. A nil series means no figures are available.
type KPI interface {
	StoreKPI(ctx context.Context, storeID string, q models.KPIQuery) *models.KPISeries
}

// Areas selects the remote path per feature area.
type Areas struct {
	Dashboard bool
	POS       bool
	Board     bool
}

// Sources is the composed set of read paths.
type Sources struct {
	Dashboard Dashboard
	Notices   Notices
	KPI       KPI
}

// Options configures Select.
type Options struct {
	Repos  *repository.Set
	Client *gateway.Client
	// Remote is the process-wide flag; Areas narrows it per feature area.
	Remote bool
	Areas  Areas
	Policy dashboard.InsightPolicy
	Now    func() time.Time
}

// Select builds Sources, using the gateway for every area where both
// Remote and the area flag are set and a client is configured.
func Select(opts Options) Sources {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	useRemote := func(area bool) bool {
		return opts.Remote && area && opts.Client != nil
	}

	var s Sources
	if useRemote(opts.Areas.Dashboard) {
		s.Dashboard = &RemoteDashboard{client: opts.Client}
	} else {
		s.Dashboard = &LocalDashboard{repos: opts.Repos, policy: opts.Policy, now: now}
	}
	if useRemote(opts.Areas.Board) {
		s.Notices = &RemoteNotices{client: opts.Client}
	} else {
		s.Notices = &LocalNotices{repos: opts.Repos}
	}
	if useRemote(opts.Areas.POS) {
		s.KPI = &RemoteKPI{client: opts.Client}
	} else {
		s.KPI = &LocalKPI{repos: opts.Repos}
	}
	return s
}

// Snapshot reads every collection once.
func Snapshot(ctx context.Context, repos *repository.Set) dashboard.Snapshot {
	return dashboard.Snapshot{
		Stores:  repos.Stores.List(ctx),
		Actions: repos.Actions.List(ctx),
		Events:  repos.Events.List(ctx),
		Notices: repos.Notices.List(ctx),
	}
}
