package dashboard

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/starford/fms/internal/models"
)

const scopeAll = "ALL"

// Deviates reports whether value is outside the baseline's allowed band.
func Deviates(value float64, baseline models.BaselineConfig) bool {
	if baseline.StandardValue == 0 {
		return false
	}
	pct := math.Abs(value-baseline.StandardValue) / math.Abs(baseline.StandardValue) * 100
	return pct > baseline.AllowedDeviationPct
}

// SustainedAnomalies lists stores whose baseline metric was out of band for
// at least the baseline's consecutive-day count. A run is the longer of the
// consecutive calendar days with deviating events and the day count an
// event reports itself.
func SustainedAnomalies(events []models.EventLog, baseline models.BaselineConfig) []models.SustainedAnomaly {
	if baseline.StandardValue == 0 || baseline.ConsecutiveDays <= 0 {
		return nil
	}
	scope := strings.TrimSpace(baseline.TargetScope)

	type track struct {
		days     map[time.Time]bool
		reported int
		lastSeen time.Time
	}
	tracks := map[string]*track{}

	for _, e := range events {
		if !strings.EqualFold(e.Payload.Metric, baseline.Metric) {
			continue
		}
		if scope != "" && !strings.EqualFold(scope, scopeAll) && scope != e.StoreID {
			continue
		}
		if !Deviates(e.Payload.Value, baseline) {
			continue
		}
		t, ok := tracks[e.StoreID]
		if !ok {
			t = &track{days: map[time.Time]bool{}}
			tracks[e.StoreID] = t
		}
		ts := e.Timestamp.UTC()
		t.days[time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)] = true
		t.reported = max(t.reported, e.Payload.ConsecutiveDays)
		if e.Timestamp.After(t.lastSeen) {
			t.lastSeen = e.Timestamp
		}
	}

	var out []models.SustainedAnomaly
	for storeID, t := range tracks {
		run := max(longestRun(t.days), t.reported)
		if run < baseline.ConsecutiveDays {
			continue
		}
		out = append(out, models.SustainedAnomaly{
			StoreID:         storeID,
			Metric:          baseline.Metric,
			ConsecutiveDays: run,
			LastSeen:        t.lastSeen,
		})
	}
	slices.SortFunc(out, func(a, b models.SustainedAnomaly) int {
		if c := cmp.Compare(b.ConsecutiveDays, a.ConsecutiveDays); c != 0 {
			return c
		}
		return cmp.Compare(a.StoreID, b.StoreID)
	})
	return out
}

func longestRun(days map[time.Time]bool) int {
	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	slices.SortFunc(sorted, func(a, b time.Time) int { return a.Compare(b) })

	best, cur := 0, 0
	for i, d := range sorted {
		if i > 0 && d.Sub(sorted[i-1]) == 24*time.Hour {
			cur++
		} else {
			cur = 1
		}
		best = max(best, cur)
	}
	return best
}
