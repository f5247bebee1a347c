package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/starford/fms/internal/models"
)

// Dashboard reads come back to the caller with their error after logging.

// Summary fetches the operator-wide counters.
func (c *Client) Summary(ctx context.Context) (models.DashboardSummary, error) {
	var out models.DashboardSummary
	if err := c.getJSON(ctx, "/dashboard/summary", nil, &out); err != nil {
		c.logger.Error("dashboard summary failed", slog.String("error", err.Error()))
		return models.DashboardSummary{}, fmt.Errorf("gateway: dashboard summary: %w", err)
	}
	return out, nil
}

// SupervisorSummary fetches the rollup for one supervisor login.
func (c *Client) SupervisorSummary(ctx context.Context, loginID string) (models.SupervisorRollup, error) {
	q := url.Values{}
	q.Set("loginId", loginID)
	var out models.SupervisorRollup
	if err := c.getJSON(ctx, "/dashboard/supervisor/summary", q, &out); err != nil {
		c.logger.Error("supervisor summary failed",
			slog.String("login_id", loginID), slog.String("error", err.Error()))
		return models.SupervisorRollup{}, fmt.Errorf("gateway: supervisor summary: %w", err)
	}
	return out, nil
}

// AdminSummary fetches the admin dashboard.
func (c *Client) AdminSummary(ctx context.Context) (models.AdminView, error) {
	var out models.AdminView
	if err := c.getJSON(ctx, "/dashboard/admin/summary", nil, &out); err != nil {
		c.logger.Error("admin summary failed", slog.String("error", err.Error()))
		return models.AdminView{}, fmt.Errorf("gateway: admin summary: %w", err)
	}
	return out, nil
}

// SupervisorStores lists the caller's stores, riskiest first. limit <= 0
// leaves the page size to the server.
func (c *Client) SupervisorStores(ctx context.Context, limit int) ([]models.StoreRiskSummary, error) {
	q := url.Values{}
	q.Set("sort", "risk")
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var out []models.StoreRiskSummary
	if err := c.getJSON(ctx, "/stores/supervisor", q, &out); err != nil {
		c.logger.Error("supervisor stores failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("gateway: supervisor stores: %w", err)
	}
	return out, nil
}

// RiskReport fetches the risk explanation for a store.
func (c *Client) RiskReport(ctx context.Context, storeID string) (models.RiskReport, error) {
	var out models.RiskReport
	if err := c.getJSON(ctx, "/risk/report/"+url.PathEscape(storeID), nil, &out); err != nil {
		c.logger.Error("risk report failed",
			slog.String("store_id", storeID), slog.String("error", err.Error()))
		return models.RiskReport{}, fmt.Errorf("gateway: risk report %s: %w", storeID, err)
	}
	return out, nil
}
