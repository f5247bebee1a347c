package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fms/internal/models"
)

// Summary handles GET /dashboard/summary.
//
//	@Summary	Headline counters
//	@Tags		dashboard
//	@Produce	json
//	@Success	200	{object}	models.DashboardSummary
//	@Failure	502	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/dashboard/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	deliver(w, r, "dashboard summary", h.svc.Summary)
}

// Risks handles GET /dashboard/risks.
//
//	@Summary	Stores ranked by risk
//	@Tags		dashboard
//	@Produce	json
//	@Param		limit	query		int	false	"Max results, 0 for all"
//	@Success	200		{object}	RiskListResponse
//	@Failure	502		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/dashboard/risks [get]
func (h *Handler) Risks(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	deliver(w, r, "store risks", func(ctx context.Context) (RiskListResponse, error) {
		risks, err := h.svc.Risks(ctx, limit)
		if err != nil {
			return RiskListResponse{}, err
		}
		if risks == nil {
			risks = []models.StoreRiskSummary{}
		}
		return RiskListResponse{Risks: risks}, nil
	})
}

// SupervisorRollups handles GET /dashboard/supervisors.
//
//	@Summary	Rollup of every supervisor
//	@Tags		dashboard
//	@Produce	json
//	@Success	200	{object}	RollupListResponse
//	@Failure	501	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/dashboard/supervisors [get]
func (h *Handler) SupervisorRollups(w http.ResponseWriter, r *http.Request) {
	deliver(w, r, "supervisor rollups", func(ctx context.Context) (RollupListResponse, error) {
		rollups, err := h.svc.SupervisorRollups(ctx)
		return RollupListResponse{Supervisors: rollups}, err
	})
}

// SupervisorRollup handles GET /dashboard/supervisors/{id}.
//
//	@Summary	Rollup of one supervisor
//	@Tags		dashboard
//	@Produce	json
//	@Param		id	path		string	true	"Supervisor id"
//	@Success	200	{object}	models.SupervisorRollup
//	@Failure	502	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/dashboard/supervisors/{id} [get]
func (h *Handler) SupervisorRollup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deliver(w, r, "supervisor rollup", func(ctx context.Context) (models.SupervisorRollup, error) {
		return h.svc.SupervisorRollup(ctx, id)
	})
}

// AdminView handles GET /dashboard/admin.
//
//	@Summary	Operator-wide dashboard
//	@Tags		dashboard
//	@Produce	json
//	@Success	200	{object}	models.AdminView
//	@Failure	502	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/dashboard/admin [get]
func (h *Handler) AdminView(w http.ResponseWriter, r *http.Request) {
	deliver(w, r, "admin view", h.svc.AdminView)
}

// ManagerView handles GET /dashboard/manager.
//
//	@Summary	Manager dashboard
//	@Tags		dashboard
//	@Produce	json
//	@Success	200	{object}	models.ManagerView
//	@Failure	501	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/dashboard/manager [get]
func (h *Handler) ManagerView(w http.ResponseWriter, r *http.Request) {
	deliver(w, r, "manager view", h.svc.ManagerView)
}

// SupervisorView handles GET /dashboard/supervisor/{id}.
//
//	@Summary	One supervisor's dashboard
//	@Tags		dashboard
//	@Produce	json
//	@Param		id	path		string	true	"Supervisor id"
//	@Success	200	{object}	models.SupervisorView
//	@Failure	400	{object}	errResponse
//	@Failure	501	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/dashboard/supervisor/{id} [get]
func (h *Handler) SupervisorView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deliver(w, r, "supervisor view", func(ctx context.Context) (models.SupervisorView, error) {
		return h.svc.SupervisorView(ctx, id)
	})
}

// Insights handles GET /dashboard/insights.
//
//	@Summary	Regional risk clusters
//	@Tags		dashboard
//	@Produce	json
//	@Success	200	{object}	InsightListResponse
//	@Failure	502	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/dashboard/insights [get]
func (h *Handler) Insights(w http.ResponseWriter, r *http.Request) {
	deliver(w, r, "insights", func(ctx context.Context) (InsightListResponse, error) {
		insights, err := h.svc.Insights(ctx)
		return InsightListResponse{Insights: insights}, err
	})
}

// Anomalies handles GET /dashboard/anomalies.
//
//	@Summary	Stores out of the baseline band
//	@Tags		dashboard
//	@Produce	json
//	@Success	200	{object}	AnomalyListResponse
//	@Security	BearerAuth
//	@Router		/dashboard/anomalies [get]
func (h *Handler) Anomalies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, AnomalyListResponse{Anomalies: h.svc.Anomalies(r.Context())})
}

// KPIDelta handles GET /kpi/delta.
//
//	@Summary	Period-over-period change
//	@Tags		kpi
//	@Produce	json
//	@Param		current	query		number	true	"Current period value"
//	@Param		prior	query		number	true	"Prior period value"
//	@Success	200		{object}	models.KPIDelta
//	@Failure	400		{object}	errResponse
//	@Failure	422		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/kpi/delta [get]
func (h *Handler) KPIDelta(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	current, err1 := strconv.ParseFloat(q.Get("current"), 64)
	prior, err2 := strconv.ParseFloat(q.Get("prior"), 64)
	if err1 != nil || err2 != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("current and prior must be numbers"))
		return
	}
	d, err := h.svc.KPIDelta(current, prior)
	if err != nil {
		writeServiceError(w, "kpi delta", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Briefing handles GET /briefing.
//
//	@Summary	Daily briefing for a user
//	@Tags		briefing
//	@Produce	json
//	@Param		userId	query		string	true	"User id"
//	@Param		name	query		string	false	"Display name"
//	@Param		role	query		string	false	"Role"	Enums(admin, manager, supervisor)
//	@Success	200		{object}	models.DailyBriefing
//	@Failure	400		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/briefing [get]
func (h *Handler) Briefing(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	b, err := h.svc.Briefing(r.Context(), models.User{
		ID:   q.Get("userId"),
		Name: q.Get("name"),
		Role: q.Get("role"),
	})
	if err != nil {
		writeServiceError(w, "briefing", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
