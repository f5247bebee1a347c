package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fms/internal/models"
	"github.com/starford/fms/internal/opsservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *opsservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *opsservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListStores handles GET /stores.
//
//	@Summary	List stores in stored order
//	@Tags		stores
//	@Produce	json
//	@Success	200	{object}	StoreListResponse
//	@Security	BearerAuth
//	@Router		/stores [get]
func (h *Handler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores := h.svc.ListStores(r.Context())
	writeJSON(w, http.StatusOK, StoreListResponse{Stores: stores, Total: len(stores)})
}

// GetStore handles GET /stores/{id}.
//
//	@Summary	Get a store
//	@Tags		stores
//	@Produce	json
//	@Param		id	path		string	true	"Store id"
//	@Success	200	{object}	models.Store
//	@Failure	404	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/stores/{id} [get]
func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.GetStore(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get store", err)
		return
	}
	writeTagged(w, http.StatusOK, st)
}

// PutStore handles PUT /stores/{id}.
//
//	@Summary	Replace or insert a store
//	@Tags		stores
//	@Accept		json
//	@Produce	json
//	@Param		id			path		string			true	"Store id"
//	@Param		If-Match	header		string			false	"ETag of the stored record"
//	@Param		body		body		models.Store	true	"Store"
//	@Success	200			{object}	models.Store
//	@Failure	400			{object}	errResponse
//	@Failure	409			{object}	errResponse
//	@Security	BearerAuth
//	@Router		/stores/{id} [put]
func (h *Handler) PutStore(w http.ResponseWriter, r *http.Request) {
	var st models.Store
	if !decodeBody(w, r, &st) {
		return
	}
	st.ID = chi.URLParam(r, "id")
	saved, err := h.svc.SaveStore(r.Context(), st, ifMatch(r))
	if err != nil {
		writeServiceError(w, "save store", err)
		return
	}
	writeTagged(w, http.StatusOK, saved)
}

// StoreKPI handles GET /stores/{id}/kpi.
//
//	@Summary	POS KPI series of a store; series is null when unavailable
//	@Tags		stores
//	@Produce	json
//	@Param		id			path		string	true	"Store id"
//	@Param		periodType	query		string	false	"Period"	Enums(DAILY, WEEKLY, MONTHLY)
//	@Param		limit		query		int		false	"Number of periods"
//	@Param		baseline	query		string	false	"Comparison baseline"
//	@Success	200			{object}	KPIResponse
//	@Security	BearerAuth
//	@Router		/stores/{id}/kpi [get]
func (h *Handler) StoreKPI(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	series := h.svc.StoreKPI(r.Context(), chi.URLParam(r, "id"), models.KPIQuery{
		PeriodType: q.Get("periodType"),
		Limit:      limit,
		Baseline:   q.Get("baseline"),
	})
	writeJSON(w, http.StatusOK, KPIResponse{Series: series})
}

// RiskReport handles GET /stores/{id}/risk-report.
//
//	@Summary	Explain a store's risk
//	@Tags		stores
//	@Produce	json
//	@Param		id	path		string	true	"Store id"
//	@Success	200	{object}	models.RiskReport
//	@Failure	404	{object}	errResponse
//	@Failure	502	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/stores/{id}/risk-report [get]
func (h *Handler) RiskReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deliver(w, r, "risk report", func(ctx context.Context) (models.RiskReport, error) {
		return h.svc.RiskReport(ctx, id)
	})
}

// ListActions handles GET /actions.
//
//	@Summary	List action items, highest priority first
//	@Tags		actions
//	@Produce	json
//	@Param		assigneeId	query		string	false	"Assignee"
//	@Param		storeId		query		string	false	"Store"
//	@Param		status		query		string	false	"Status"
//	@Param		open		query		bool	false	"Only items not completed"
//	@Success	200			{object}	ActionListResponse
//	@Security	BearerAuth
//	@Router		/actions [get]
func (h *Handler) ListActions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	open, _ := strconv.ParseBool(q.Get("open"))
	items := h.svc.ListActions(r.Context(), opsservice.ActionFilter{
		AssigneeID: q.Get("assigneeId"),
		StoreID:    q.Get("storeId"),
		Status:     q.Get("status"),
		OpenOnly:   open,
	})
	writeJSON(w, http.StatusOK, ActionListResponse{Actions: items, Total: len(items)})
}

// GetAction handles GET /actions/{id}.
//
//	@Summary	Get an action item
//	@Tags		actions
//	@Produce	json
//	@Param		id	path		string	true	"Action id"
//	@Success	200	{object}	models.ActionItem
//	@Failure	404	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/actions/{id} [get]
func (h *Handler) GetAction(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetAction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "get action", err)
		return
	}
	writeTagged(w, http.StatusOK, a)
}

// CreateAction handles POST /actions.
//
//	@Summary	Create an action item
//	@Tags		actions
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.ActionItem	true	"Action item"
//	@Success	201		{object}	models.ActionItem
//	@Failure	400		{object}	errResponse
//	@Failure	409		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/actions [post]
func (h *Handler) CreateAction(w http.ResponseWriter, r *http.Request) {
	var a models.ActionItem
	if !decodeBody(w, r, &a) {
		return
	}
	created, err := h.svc.CreateAction(r.Context(), a)
	if err != nil {
		writeServiceError(w, "create action", err)
		return
	}
	writeTagged(w, http.StatusCreated, created)
}

// UpdateAction handles PUT /actions/{id}.
//
//	@Summary	Replace an action item
//	@Tags		actions
//	@Accept		json
//	@Produce	json
//	@Param		id			path		string				true	"Action id"
//	@Param		If-Match	header		string				false	"ETag of the stored record"
//	@Param		body		body		models.ActionItem	true	"Action item"
//	@Success	200			{object}	models.ActionItem
//	@Failure	404			{object}	errResponse
//	@Failure	409			{object}	errResponse
//	@Security	BearerAuth
//	@Router		/actions/{id} [put]
func (h *Handler) UpdateAction(w http.ResponseWriter, r *http.Request) {
	var a models.ActionItem
	if !decodeBody(w, r, &a) {
		return
	}
	a.ID = chi.URLParam(r, "id")
	updated, err := h.svc.UpdateAction(r.Context(), a, ifMatch(r))
	if err != nil {
		writeServiceError(w, "update action", err)
		return
	}
	writeTagged(w, http.StatusOK, updated)
}

// ListEvents handles GET /events.
//
//	@Summary	List events, newest first
//	@Tags		events
//	@Produce	json
//	@Param		storeId		query		string	false	"Store"
//	@Param		unresolved	query		bool	false	"Only unresolved events"
//	@Param		limit		query		int		false	"Max results"
//	@Success	200			{object}	EventListResponse
//	@Security	BearerAuth
//	@Router		/events [get]
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unresolved, _ := strconv.ParseBool(q.Get("unresolved"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	events := h.svc.ListEvents(r.Context(), opsservice.EventFilter{
		StoreID:        q.Get("storeId"),
		UnresolvedOnly: unresolved,
		Limit:          limit,
	})
	writeJSON(w, http.StatusOK, EventListResponse{Events: events, Total: len(events)})
}

// RecordEvent handles POST /events.
//
//	@Summary	Record a monitoring event
//	@Tags		events
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.EventLog	true	"Event"
//	@Success	201		{object}	models.EventLog
//	@Failure	400		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/events [post]
func (h *Handler) RecordEvent(w http.ResponseWriter, r *http.Request) {
	var e models.EventLog
	if !decodeBody(w, r, &e) {
		return
	}
	created, err := h.svc.RecordEvent(r.Context(), e)
	if err != nil {
		writeServiceError(w, "record event", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListNotices handles GET /notices.
//
//	@Summary	List board notices
//	@Tags		notices
//	@Produce	json
//	@Param		keyword	query		string	false	"Keyword in title or content"
//	@Success	200		{object}	NoticeListResponse
//	@Failure	502		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/notices [get]
func (h *Handler) ListNotices(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	deliver(w, r, "list notices", func(ctx context.Context) (NoticeListResponse, error) {
		items, err := h.svc.ListNotices(ctx, keyword)
		if err != nil {
			return NoticeListResponse{}, err
		}
		if items == nil {
			items = []models.Notice{}
		}
		return NoticeListResponse{Notices: items, Total: len(items)}, nil
	})
}

// GetNotice handles GET /notices/{id}.
//
//	@Summary	Get a notice
//	@Tags		notices
//	@Produce	json
//	@Param		id	path		string	true	"Notice id"
//	@Success	200	{object}	models.Notice
//	@Failure	404	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/notices/{id} [get]
func (h *Handler) GetNotice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deliverTagged(w, r, "get notice", func(ctx context.Context) (models.Notice, error) {
		return h.svc.GetNotice(ctx, id)
	})
}

// CreateNotice handles POST /notices.
//
//	@Summary	Publish a notice
//	@Tags		notices
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.Notice	true	"Notice"
//	@Success	201		{object}	models.Notice
//	@Failure	400		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/notices [post]
func (h *Handler) CreateNotice(w http.ResponseWriter, r *http.Request) {
	var n models.Notice
	if !decodeBody(w, r, &n) {
		return
	}
	created, err := h.svc.CreateNotice(r.Context(), n)
	if err != nil {
		writeServiceError(w, "create notice", err)
		return
	}
	writeTagged(w, http.StatusCreated, created)
}

// UpdateNotice handles PUT /notices/{id}.
//
//	@Summary	Edit a notice; the view count is preserved
//	@Tags		notices
//	@Accept		json
//	@Produce	json
//	@Param		id			path		string			true	"Notice id"
//	@Param		If-Match	header		string			false	"ETag of the stored record"
//	@Param		body		body		models.Notice	true	"Notice"
//	@Success	200			{object}	models.Notice
//	@Failure	404			{object}	errResponse
//	@Failure	409			{object}	errResponse
//	@Security	BearerAuth
//	@Router		/notices/{id} [put]
func (h *Handler) UpdateNotice(w http.ResponseWriter, r *http.Request) {
	var n models.Notice
	if !decodeBody(w, r, &n) {
		return
	}
	n.ID = chi.URLParam(r, "id")
	updated, err := h.svc.UpdateNotice(r.Context(), n, ifMatch(r))
	if err != nil {
		writeServiceError(w, "update notice", err)
		return
	}
	writeTagged(w, http.StatusOK, updated)
}

// DeleteNotice handles DELETE /notices/{id}.
//
//	@Summary	Delete a notice
//	@Tags		notices
//	@Param		id	path	string	true	"Notice id"
//	@Success	204	"Notice deleted"
//	@Failure	404	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/notices/{id} [delete]
func (h *Handler) DeleteNotice(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteNotice(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "delete notice", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ViewNotice handles POST /notices/{id}/view.
//
//	@Summary	Count one view of a notice
//	@Tags		notices
//	@Produce	json
//	@Param		id	path		string	true	"Notice id"
//	@Success	200	{object}	models.Notice
//	@Failure	404	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/notices/{id}/view [post]
func (h *Handler) ViewNotice(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.ViewNotice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "view notice", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// GetBaseline handles GET /policy/baseline.
//
//	@Summary	Get the anomaly baseline
//	@Tags		policy
//	@Produce	json
//	@Success	200	{object}	models.BaselineConfig
//	@Security	BearerAuth
//	@Router		/policy/baseline [get]
func (h *Handler) GetBaseline(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Baseline(r.Context()))
}

// PutBaseline handles PUT /policy/baseline.
//
//	@Summary	Replace the anomaly baseline
//	@Tags		policy
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.BaselineConfig	true	"Baseline"
//	@Success	200		{object}	models.BaselineConfig
//	@Failure	400		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/policy/baseline [put]
func (h *Handler) PutBaseline(w http.ResponseWriter, r *http.Request) {
	var b models.BaselineConfig
	if !decodeBody(w, r, &b) {
		return
	}
	saved, err := h.svc.SaveBaseline(r.Context(), b)
	if err != nil {
		writeServiceError(w, "save baseline", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}
