package dashboard

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/starford/fms/internal/models"
)

// InsightPolicy controls regional cluster detection.
type InsightPolicy struct {
	// MinStores is the cluster size that raises an insight.
	MinStores int
	// Window is how far back events count.
	Window time.Duration
	// Threshold is the lowest severity that counts.
	Threshold models.RiskLevel
}

// DefaultInsightPolicy flags three stores of one region at high or worse
// within 48 hours.
func DefaultInsightPolicy() InsightPolicy {
	return InsightPolicy{MinStores: 3, Window: 48 * time.Hour, Threshold: models.RiskHigh}
}

func (p InsightPolicy) withDefaults() InsightPolicy {
	d := DefaultInsightPolicy()
	if p.MinStores <= 0 {
		p.MinStores = d.MinStores
	}
	if p.Window <= 0 {
		p.Window = d.Window
	}
	if !p.Threshold.Valid() {
		p.Threshold = d.Threshold
	}
	return p
}

func severityWeight(l models.RiskLevel) float64 {
	return float64(l.Rank()) / float64(models.RiskCritical.Rank())
}

// DetectUrgentInsights flags every region where at least MinStores stores
// reached the threshold within the window ending at now. A store qualifies
// through an unresolved event or through its own level if it was updated
// inside the window. Confidence is the mean severity weight of the stores in
// the cluster, in [0,1].
func DetectUrgentInsights(stores []models.Store, events []models.EventLog, policy InsightPolicy, now time.Time) []models.UrgentInsight {
	policy = policy.withDefaults()
	since := now.Add(-policy.Window)
	inWindow := func(t time.Time) bool { return t.After(since) && !t.After(now) }

	storeByID := make(map[string]models.Store, len(stores))
	worst := map[string]models.RiskLevel{}
	raise := func(id string, l models.RiskLevel) {
		if l.Rank() > worst[id].Rank() {
			worst[id] = l
		}
	}

	for _, s := range stores {
		storeByID[s.ID] = s
		if l := LevelOf(s); l.AtLeast(policy.Threshold) && inWindow(s.UpdatedAt) {
			raise(s.ID, l)
		}
	}
	for _, e := range events {
		if e.Resolved || !e.Severity.AtLeast(policy.Threshold) || !inWindow(e.Timestamp) {
			continue
		}
		if _, ok := storeByID[e.StoreID]; !ok {
			continue
		}
		raise(e.StoreID, e.Severity)
	}

	byRegion := map[string][]string{}
	for id := range worst {
		region := storeByID[id].Region
		byRegion[region] = append(byRegion[region], id)
	}

	var out []models.UrgentInsight
	for region, ids := range byRegion {
		if len(ids) < policy.MinStores {
			continue
		}
		slices.Sort(ids)
		var sum float64
		for _, id := range ids {
			sum += severityWeight(worst[id])
		}
		confidence := math.Round(sum/float64(len(ids))*100) / 100
		out = append(out, models.UrgentInsight{
			Region:     region,
			StoreIDs:   ids,
			Confidence: confidence,
			DetectedAt: now,
			Summary: fmt.Sprintf("%d stores in %s at %s risk or worse within %s",
				len(ids), region, policy.Threshold, formatWindow(policy.Window)),
		})
	}
	slices.SortFunc(out, func(a, b models.UrgentInsight) int {
		if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
			return c
		}
		return cmp.Compare(a.Region, b.Region)
	})
	return out
}

func formatWindow(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d/time.Hour))
	}
	return d.String()
}
