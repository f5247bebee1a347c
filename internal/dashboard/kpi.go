package dashboard

import (
	"errors"
	"math"

	"github.com/starford/fms/internal/models"
)

// ErrZeroPrior is returned when a delta is requested against a zero prior
// period.
var ErrZeroPrior = errors.New("dashboard: prior period is zero")

// ErrNonFinite is returned when an input or the resulting rate is NaN or
// infinite.
var ErrNonFinite = errors.New("dashboard: value is not finite")

// ComputeDelta compares current against prior as a percentage of prior.
func ComputeDelta(current, prior float64) (models.KPIDelta, error) {
	if !finite(current) || !finite(prior) {
		return models.KPIDelta{}, ErrNonFinite
	}
	if prior == 0 {
		return models.KPIDelta{}, ErrZeroPrior
	}
	rate := (current - prior) / prior * 100
	if !finite(rate) {
		return models.KPIDelta{}, ErrNonFinite
	}
	return models.KPIDelta{
		Current:   current,
		Prior:     prior,
		Rate:      rate,
		Direction: directionOf(rate),
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func directionOf(rate float64) string {
	switch {
	case rate > 0:
		return models.DirectionUp
	case rate < 0:
		return models.DirectionDown
	default:
		return models.DirectionFlat
	}
}

// SalesDeltas computes the sales delta of every store. Stores without prior
// sales, or whose figures give no finite rate, carry a nil delta.
func SalesDeltas(stores []models.Store) []models.StoreKPIDelta {
	out := make([]models.StoreKPIDelta, 0, len(stores))
	for _, s := range stores {
		row := models.StoreKPIDelta{StoreID: s.ID, StoreName: s.Name}
		if d, err := ComputeDelta(s.KPI.Sales, s.KPI.PriorSales); err == nil {
			row.Sales = &d
		}
		out = append(out, row)
	}
	return out
}
