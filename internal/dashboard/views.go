package dashboard

import (
	"cmp"
	"slices"
	"time"

	"github.com/starford/fms/internal/models"
)

// RecentEventLimit caps the event list of the supervisor view.
const RecentEventLimit = 10

// BuildAdminView computes the operator-wide dashboard.
func BuildAdminView(s Snapshot, policy InsightPolicy, now time.Time) models.AdminView {
	v := models.AdminView{
		TotalStores: len(s.Stores),
		RiskCounts: map[models.RiskLevel]int{
			models.RiskCritical: 0,
			models.RiskHigh:     0,
			models.RiskMedium:   0,
			models.RiskLow:      0,
		},
		RegionCounts: map[string]int{},
		TopRisks:     TopRisks(s.Stores, TopRiskLimit),
		Supervisors:  SupervisorRollups(s.Stores, s.Actions),
		Insights:     DetectUrgentInsights(s.Stores, s.Events, policy, now),
	}
	for _, st := range s.Stores {
		if SupervisorOf(st) == models.UnassignedSupervisor {
			v.UnassignedStores++
		}
		v.RiskCounts[LevelOf(st)]++
		v.RegionCounts[st.Region]++
	}
	if v.Insights == nil {
		v.Insights = []models.UrgentInsight{}
	}
	return v
}

// BuildManagerView computes the KPI and open-work dashboard.
func BuildManagerView(s Snapshot) models.ManagerView {
	v := models.ManagerView{
		SalesDeltas:      SalesDeltas(s.Stores),
		TopRisks:         TopRisks(s.Stores, TopRiskLimit),
		ImportantNotices: []models.Notice{},
	}
	for _, a := range s.Actions {
		if a.Open() {
			v.OpenActions++
		}
	}
	for _, n := range s.Notices {
		if n.Important {
			v.ImportantNotices = append(v.ImportantNotices, n)
		}
	}
	slices.SortStableFunc(v.ImportantNotices, func(a, b models.Notice) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return v
}

// BuildSupervisorView computes the view scoped to one supervisor.
func BuildSupervisorView(s Snapshot, supervisorID string) models.SupervisorView {
	var own []models.Store
	storeIDs := map[string]bool{}
	for _, st := range s.Stores {
		if AssignedTo(st.CurrentSupervisorID, supervisorID) {
			own = append(own, st)
			storeIDs[st.ID] = true
		}
	}

	pending := []models.ActionItem{}
	for _, a := range s.Actions {
		if a.Open() && AssignedTo(a.AssigneeID, supervisorID) {
			pending = append(pending, a)
		}
	}
	SortActions(pending)

	recent := []models.EventLog{}
	for _, e := range s.Events {
		if storeIDs[e.StoreID] {
			recent = append(recent, e)
		}
	}
	slices.SortStableFunc(recent, func(a, b models.EventLog) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(recent) > RecentEventLimit {
		recent = recent[:RecentEventLimit]
	}

	return models.SupervisorView{
		SupervisorID:   supervisorID,
		Stores:         RankRisks(own),
		PendingActions: pending,
		RecentEvents:   recent,
		Rollup:         RollupFor(supervisorID, s.Stores, s.Actions),
	}
}

// SortActions orders actions by priority, then newest first.
func SortActions(actions []models.ActionItem) {
	slices.SortStableFunc(actions, func(a, b models.ActionItem) int {
		if c := cmp.Compare(b.Priority.Rank(), a.Priority.Rank()); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
