package datasource

import (
	"context"
	"fmt"

	"github.com/starford/fms/internal/apperr"
	"github.com/starford/fms/internal/gateway"
	"github.com/starford/fms/internal/models"
)

// RemoteDashboard serves dashboard reads from the remote API.
type RemoteDashboard struct {
	client *gateway.Client
}

func (d *RemoteDashboard) Summary(ctx context.Context) (models.DashboardSummary, error) {
	return d.client.Summary(ctx)
}

func (d *RemoteDashboard) StoreRisks(ctx context.Context, limit int) ([]models.StoreRiskSummary, error) {
	return d.client.SupervisorStores(ctx, limit)
}

func (d *RemoteDashboard) SupervisorSummary(ctx context.Context, supervisorID string) (models.SupervisorRollup, error) {
	return d.client.SupervisorSummary(ctx, supervisorID)
}

func (d *RemoteDashboard) AdminSummary(ctx context.Context) (models.AdminView, error) {
	return d.client.AdminSummary(ctx)
}

// SupervisorRollups has no remote route.
func (d *RemoteDashboard) SupervisorRollups(context.Context) ([]models.SupervisorRollup, error) {
	return nil, unsupported("supervisor rollups")
}

// ManagerSummary has no remote route.
func (d *RemoteDashboard) ManagerSummary(context.Context) (models.ManagerView, error) {
	return models.ManagerView{}, unsupported("manager view")
}

// SupervisorDetail has no remote route.
func (d *RemoteDashboard) SupervisorDetail(context.Context, string) (models.SupervisorView, error) {
	return models.SupervisorView{}, unsupported("supervisor view")
}

// Insights are taken from the remote admin summary.
func (d *RemoteDashboard) Insights(ctx context.Context) ([]models.UrgentInsight, error) {
	admin, err := d.client.AdminSummary(ctx)
	if err != nil {
		return nil, err
	}
	return admin.Insights, nil
}

func (d *RemoteDashboard) RiskReport(ctx context.Context, storeID string) (models.RiskReport, error) {
	r, err := d.client.RiskReport(ctx, storeID)
	return r, notFound(err)
}

// RemoteNotices serves the board from the remote API.
type RemoteNotices struct {
	client *gateway.Client
}

func (n *RemoteNotices) List(ctx context.Context, keyword string) ([]models.Notice, error) {
	return n.client.Posts(ctx, keyword)
}

func (n *RemoteNotices) Get(ctx context.Context, id string) (models.Notice, error) {
	it, err := n.client.Post(ctx, id)
	return it, notFound(err)
}

// RemoteKPI serves POS reads from the remote API.
type RemoteKPI struct {
	client *gateway.Client
}

func (k *RemoteKPI) StoreKPI(ctx context.Context, storeID string, q models.KPIQuery) *models.KPISeries {
	return k.client.StoreKPI(ctx, storeID, q)
}

func unsupported(read string) error {
	return fmt.Errorf("datasource: remote %s: %w", read, apperr.ErrUnsupported)
}

// notFound tags remote 404s with apperr.ErrNotFound.
func notFound(err error) error {
	if err != nil && gateway.IsNotFound(err) {
		return fmt.Errorf("%w: %w", apperr.ErrNotFound, err)
	}
	return err
}
