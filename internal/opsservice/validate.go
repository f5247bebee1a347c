package opsservice

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/fms/internal/apperr"
	"github.com/starford/fms/internal/models"
)

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
}

var riskLevels = []any{models.RiskLow, models.RiskMedium, models.RiskHigh, models.RiskCritical}

func validateStore(s models.Store) error {
	return invalid(validation.ValidateStruct(&s,
		validation.Field(&s.ID, validation.Required),
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Status, validation.In(models.StoreOperating, models.StoreWatch, models.StoreSuspended)),
		validation.Field(&s.RiskLevel, validation.In(riskLevels...)),
		validation.Field(&s.RiskScore, validation.Min(0), validation.Max(100)),
		validation.Field(&s.KPI, validation.By(validateKPI)),
	))
}

func validateKPI(value any) error {
	k, _ := value.(models.KPISnapshot)
	return validation.ValidateStruct(&k,
		validation.Field(&k.Sales, validation.Min(0.0)),
		validation.Field(&k.PriorSales, validation.Min(0.0)),
		validation.Field(&k.QSCScore, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&k.HygieneScore, validation.Min(0.0), validation.Max(100.0)),
	)
}

func validateAction(a models.ActionItem) error {
	return invalid(validation.ValidateStruct(&a,
		validation.Field(&a.Title, validation.Required),
		validation.Field(&a.Status, validation.Required, validation.In(
			models.ActionOpen, models.ActionInProgress, models.ActionPendingApproval, models.ActionCompleted)),
		validation.Field(&a.Priority, validation.Required, validation.In(
			models.PriorityHigh, models.PriorityMedium, models.PriorityLow)),
	))
}

func validateEvent(e models.EventLog) error {
	return invalid(validation.ValidateStruct(&e,
		validation.Field(&e.StoreID, validation.Required),
		validation.Field(&e.Type, validation.Required),
		validation.Field(&e.Severity, validation.Required, validation.In(riskLevels...)),
	))
}

func validateNotice(n models.Notice) error {
	return invalid(validation.ValidateStruct(&n,
		validation.Field(&n.Title, validation.Required),
		validation.Field(&n.ViewCount, validation.Min(0)),
	))
}

func validateBaseline(b models.BaselineConfig) error {
	return invalid(validation.ValidateStruct(&b,
		validation.Field(&b.TargetScope, validation.Required),
		validation.Field(&b.Metric, validation.Required),
		validation.Field(&b.StandardValue, validation.Required),
		validation.Field(&b.AllowedDeviationPct, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&b.ConsecutiveDays, validation.Required, validation.Min(1)),
	))
}
