package gateway

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/starford/fms/internal/models"
)

// StoreKPI fetches a store's POS KPI series. Failures are logged and
// reported as a nil series; POS figures are optional on every screen.
func (c *Client) StoreKPI(ctx context.Context, storeID string, query models.KPIQuery) *models.KPISeries {
	q := url.Values{}
	if query.PeriodType != "" {
		q.Set("periodType", query.PeriodType)
	}
	if query.Limit > 0 {
		q.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Baseline != "" {
		q.Set("baseline", query.Baseline)
	}

	var out models.KPISeries
	if err := c.getJSON(ctx, "/stores/"+url.PathEscape(storeID)+"/pos/kpi", q, &out); err != nil {
		c.logger.Warn("store kpi failed",
			slog.String("store_id", storeID), slog.String("error", err.Error()))
		return nil
	}
	if out.StoreID == "" {
		out.StoreID = storeID
	}
	return &out
}
