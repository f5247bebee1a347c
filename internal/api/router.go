package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/fms/internal/opsservice"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events/stream behind the same auth.
func NewRouter(svc *opsservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/stores", h.ListStores)
	r.Route("/stores/{id}", func(r chi.Router) {
		r.Get("/", h.GetStore)
		r.Put("/", h.PutStore)
		r.Get("/kpi", h.StoreKPI)
		r.Get("/risk-report", h.RiskReport)
	})

	r.Get("/actions", h.ListActions)
	r.Post("/actions", h.CreateAction)
	r.Get("/actions/{id}", h.GetAction)
	r.Put("/actions/{id}", h.UpdateAction)

	r.Get("/events", h.ListEvents)
	r.Post("/events", h.RecordEvent)
	if sseHandler != nil {
		r.Get("/events/stream", sseHandler.ServeHTTP)
	}

	r.Get("/notices", h.ListNotices)
	r.Post("/notices", h.CreateNotice)
	r.Get("/notices/{id}", h.GetNotice)
	r.Put("/notices/{id}", h.UpdateNotice)
	r.Delete("/notices/{id}", h.DeleteNotice)
	r.Post("/notices/{id}/view", h.ViewNotice)

	r.Get("/policy/baseline", h.GetBaseline)
	r.Put("/policy/baseline", h.PutBaseline)

	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/summary", h.Summary)
		r.Get("/risks", h.Risks)
		r.Get("/supervisors", h.SupervisorRollups)
		r.Get("/supervisors/{id}", h.SupervisorRollup)
		r.Get("/admin", h.AdminView)
		r.Get("/manager", h.ManagerView)
		r.Get("/supervisor/{id}", h.SupervisorView)
		r.Get("/insights", h.Insights)
		r.Get("/anomalies", h.Anomalies)
	})

	r.Get("/kpi/delta", h.KPIDelta)
	r.Get("/briefing", h.Briefing)

	return r
}
