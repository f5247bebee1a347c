package dashboard

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/fms/internal/models"
	"github.com/starford/fms/internal/repository"
)

var now = time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

func seedSnapshot() Snapshot {
	return Snapshot{
		Stores:  repository.DefaultStores(),
		Actions: repository.DefaultActions(),
		Events:  repository.DefaultEvents(),
		Notices: repository.DefaultNotices(),
	}
}

func TestRankRisksOrdering(t *testing.T) {
	levels := []models.RiskLevel{models.RiskLow, models.RiskMedium, models.RiskHigh, models.RiskCritical, ""}
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 20; round++ {
		var stores []models.Store
		for i := 0; i < 15; i++ {
			stores = append(stores, models.Store{
				ID:        string(rune('A' + i)),
				RiskLevel: levels[r.Intn(len(levels))],
				RiskScore: r.Intn(100),
			})
		}
		ranked := RankRisks(stores)
		require.Len(t, ranked, len(stores))
		for i := 1; i < len(ranked); i++ {
			prev, cur := ranked[i-1], ranked[i]
			assert.GreaterOrEqual(t, prev.RiskLevel.Rank(), cur.RiskLevel.Rank(), "round %d index %d", round, i)
			if prev.RiskLevel == cur.RiskLevel {
				assert.GreaterOrEqual(t, prev.RiskScore, cur.RiskScore)
			}
		}
	}
}

func TestLevelDerivedFromScore(t *testing.T) {
	cases := []struct {
		score int
		want  models.RiskLevel
	}{
		{95, models.RiskCritical},
		{80, models.RiskCritical},
		{60, models.RiskHigh},
		{45, models.RiskMedium},
		{10, models.RiskLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LevelOf(models.Store{RiskScore: tc.score}), "score %d", tc.score)
	}
	assert.Equal(t, models.RiskHigh, LevelOf(models.Store{RiskLevel: models.RiskHigh, RiskScore: 5}))
	assert.Equal(t, models.RiskHigh.NominalScore(), ScoreOf(models.Store{RiskLevel: models.RiskHigh}))
}

func TestUnassignedSupervisor(t *testing.T) {
	got := RankRisks([]models.Store{{ID: "S1", Name: "Lonely", RiskLevel: models.RiskMedium}})
	require.Len(t, got, 1)
	assert.Equal(t, models.UnassignedSupervisor, got[0].SupervisorID)
	assert.NotEmpty(t, got[0].Recommendation)
}

func TestSummaryPropagatesFields(t *testing.T) {
	updated := now.Add(-time.Hour)
	got := Summarize(models.Store{
		ID: "S1", Name: "One", Region: "North", CurrentSupervisorID: "SV-9",
		RiskLevel: models.RiskCritical, RiskScore: 90,
		RiskFactors: []string{"hygiene_decline", "new_menu"}, UpdatedAt: updated,
	})
	assert.Equal(t, "SV-9", got.SupervisorID)
	assert.Equal(t, updated, got.LastUpdated)
	assert.Equal(t, "Immediate visit required: schedule a hygiene re-inspection; review new menu", got.Recommendation)
}

func TestRecommendationLowLevel(t *testing.T) {
	assert.Equal(t, "Stable, routine monitoring", Recommendation(models.RiskLow, []string{"sales_drop"}))
	assert.Equal(t, "Monitor: review recent events", Recommendation(models.RiskMedium, nil))
}

func TestEmptySnapshot(t *testing.T) {
	assert.Empty(t, RankRisks(nil))
	assert.Empty(t, SupervisorRollups(nil, nil))
	assert.Empty(t, DetectUrgentInsights(nil, nil, DefaultInsightPolicy(), now))
	assert.Empty(t, SustainedAnomalies(nil, repository.DefaultBaseline()))

	admin := BuildAdminView(Snapshot{}, DefaultInsightPolicy(), now)
	assert.Equal(t, 0, admin.TotalStores)
	assert.NotNil(t, admin.Insights)

	mgr := BuildManagerView(Snapshot{})
	assert.Empty(t, mgr.SalesDeltas)
	assert.Equal(t, 0, mgr.OpenActions)

	sv := BuildSupervisorView(Snapshot{}, "SV-1")
	assert.Equal(t, "SV-1", sv.Rollup.SupervisorID)
	assert.Empty(t, sv.Stores)
}

func TestComputeDelta(t *testing.T) {
	up, err := ComputeDelta(4500000, 4200000)
	require.NoError(t, err)
	assert.InDelta(t, 7.14, up.Rate, 0.01)
	assert.Equal(t, models.DirectionUp, up.Direction)

	down, err := ComputeDelta(4200000, 4500000)
	require.NoError(t, err)
	assert.InDelta(t, -6.67, down.Rate, 0.01)
	assert.Equal(t, models.DirectionDown, down.Direction)

	flat, err := ComputeDelta(4200000, 4200000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, flat.Rate)
	assert.Equal(t, models.DirectionFlat, flat.Direction)

	_, err = ComputeDelta(100, 0)
	assert.ErrorIs(t, err, ErrZeroPrior)
}

func TestComputeDeltaRejectsNonFinite(t *testing.T) {
	cases := []struct {
		name           string
		current, prior float64
	}{
		{"nan current", math.NaN(), 5},
		{"nan prior", 5, math.NaN()},
		{"inf current", math.Inf(1), 5},
		{"negative inf prior", 5, math.Inf(-1)},
		{"overflowing rate", 1e308, 1e-308},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeDelta(tc.current, tc.prior)
			assert.ErrorIs(t, err, ErrNonFinite)
		})
	}
}

func TestSalesDeltasOmitNonFinite(t *testing.T) {
	got := SalesDeltas([]models.Store{
		{ID: "HUGE", KPI: models.KPISnapshot{Sales: 1e308, PriorSales: 1e-308}},
	})
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Sales)

	mgr := BuildManagerView(Snapshot{Stores: []models.Store{
		{ID: "HUGE", KPI: models.KPISnapshot{Sales: 1e308, PriorSales: 1e-308}},
	}})
	_, err := json.Marshal(mgr)
	assert.NoError(t, err)
}

func TestSalesDeltasOmitZeroPrior(t *testing.T) {
	got := SalesDeltas([]models.Store{
		{ID: "A", KPI: models.KPISnapshot{Sales: 10, PriorSales: 0}},
		{ID: "B", KPI: models.KPISnapshot{Sales: 12, PriorSales: 10}},
	})
	require.Len(t, got, 2)
	assert.Nil(t, got[0].Sales)
	require.NotNil(t, got[1].Sales)
	assert.InDelta(t, 20.0, got[1].Sales.Rate, 1e-9)
}

func TestAssignedTo(t *testing.T) {
	assert.True(t, AssignedTo(" SV-1 ", "SV-1"))
	assert.True(t, AssignedTo("SV-1", " SV-1"))
	assert.False(t, AssignedTo("", ""))
	assert.False(t, AssignedTo("  ", " "))
	assert.False(t, AssignedTo("SV-1", "SV-2"))

	stores := []models.Store{
		{ID: "S1", CurrentSupervisorID: " SV-1"},
		{ID: "S2", CurrentSupervisorID: "SV-1 "},
	}
	sv := BuildSupervisorView(Snapshot{Stores: stores}, "SV-1")
	assert.Len(t, sv.Stores, 2)
	assert.Equal(t, RollupFor("SV-1", stores, nil).AssignedStoresCount, len(sv.Stores))
}

func TestSupervisorRollups(t *testing.T) {
	stores := []models.Store{
		{ID: "S1", CurrentSupervisorID: "SV-1", RiskLevel: models.RiskHigh},
		{ID: "S2", CurrentSupervisorID: "SV-1", RiskLevel: models.RiskLow},
		{ID: "S3", CurrentSupervisorID: "SV-2", RiskScore: 45},
		{ID: "S4"},
	}
	actions := []models.ActionItem{
		{ID: "A1", AssigneeID: "SV-1", Status: models.ActionOpen},
		{ID: "A2", AssigneeID: "SV-1", Status: models.ActionCompleted},
		{ID: "A3", AssigneeID: "SV-1", Status: models.ActionPendingApproval},
		{ID: "A4", AssigneeID: "SV-3", Status: models.ActionInProgress},
	}
	got := SupervisorRollups(stores, actions)
	require.Len(t, got, 3)
	assert.Equal(t, models.SupervisorRollup{SupervisorID: "SV-1", AssignedStoresCount: 2, RiskyStoresCount: 1, PendingActionsCount: 2}, got[0])
	assert.Equal(t, models.SupervisorRollup{SupervisorID: "SV-2", AssignedStoresCount: 1, RiskyStoresCount: 1}, got[1])
	assert.Equal(t, models.SupervisorRollup{SupervisorID: "SV-3", PendingActionsCount: 1}, got[2])
}

func TestDetectUrgentInsightsOnSeedData(t *testing.T) {
	snap := seedSnapshot()
	got := DetectUrgentInsights(snap.Stores, snap.Events, DefaultInsightPolicy(), now)
	require.Len(t, got, 1)
	assert.Equal(t, "Seoul South", got[0].Region)
	assert.Equal(t, []string{"ST-001", "ST-002", "ST-003"}, got[0].StoreIDs)
	assert.InDelta(t, 0.83, got[0].Confidence, 0.001)
	assert.Equal(t, now, got[0].DetectedAt)
}

func TestDetectUrgentInsightsWindowAndThreshold(t *testing.T) {
	stores := []models.Store{
		{ID: "A", Region: "R"}, {ID: "B", Region: "R"}, {ID: "C", Region: "R"},
	}
	events := []models.EventLog{
		{StoreID: "A", Severity: models.RiskCritical, Timestamp: now.Add(-time.Hour)},
		{StoreID: "B", Severity: models.RiskHigh, Timestamp: now.Add(-2 * time.Hour)},
		{StoreID: "C", Severity: models.RiskHigh, Timestamp: now.Add(-72 * time.Hour)},
	}
	assert.Empty(t, DetectUrgentInsights(stores, events, DefaultInsightPolicy(), now), "C is outside the window")

	events[2].Timestamp = now.Add(-3 * time.Hour)
	got := DetectUrgentInsights(stores, events, DefaultInsightPolicy(), now)
	require.Len(t, got, 1)
	assert.GreaterOrEqual(t, got[0].Confidence, 0.0)
	assert.LessOrEqual(t, got[0].Confidence, 1.0)

	events[2].Severity = models.RiskMedium
	assert.Empty(t, DetectUrgentInsights(stores, events, DefaultInsightPolicy(), now), "medium is below threshold")

	events[2].Severity = models.RiskHigh
	events[2].Resolved = true
	assert.Empty(t, DetectUrgentInsights(stores, events, DefaultInsightPolicy(), now), "resolved events do not count")

	loose := InsightPolicy{MinStores: 2}
	assert.Len(t, DetectUrgentInsights(stores, events, loose, now), 1)
}

func TestSustainedAnomalies(t *testing.T) {
	baseline := repository.DefaultBaseline()
	day := func(d int) time.Time { return now.AddDate(0, 0, -d) }
	events := []models.EventLog{
		{StoreID: "A", Timestamp: day(2), Payload: models.EventPayload{Metric: "hygiene_score", Value: 70}},
		{StoreID: "A", Timestamp: day(1), Payload: models.EventPayload{Metric: "hygiene_score", Value: 72}},
		{StoreID: "A", Timestamp: day(0), Payload: models.EventPayload{Metric: "hygiene_score", Value: 71}},
		{StoreID: "B", Timestamp: day(3), Payload: models.EventPayload{Metric: "hygiene_score", Value: 60}},
		{StoreID: "B", Timestamp: day(1), Payload: models.EventPayload{Metric: "hygiene_score", Value: 60}},
		{StoreID: "C", Timestamp: day(0), Payload: models.EventPayload{Metric: "hygiene_score", Value: 84}},
		{StoreID: "D", Timestamp: day(0), Payload: models.EventPayload{Metric: "hygiene_score", Value: 50, ConsecutiveDays: 4}},
		{StoreID: "E", Timestamp: day(0), Payload: models.EventPayload{Metric: "sales", Value: 1, ConsecutiveDays: 9}},
	}
	got := SustainedAnomalies(events, baseline)
	require.Len(t, got, 2)
	assert.Equal(t, "D", got[0].StoreID)
	assert.Equal(t, 4, got[0].ConsecutiveDays)
	assert.Equal(t, "A", got[1].StoreID)
	assert.Equal(t, 3, got[1].ConsecutiveDays)
	assert.Equal(t, day(0), got[1].LastSeen)

	scoped := baseline
	scoped.TargetScope = "A"
	got = SustainedAnomalies(events, scoped)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].StoreID)
}

func TestBuildAdminView(t *testing.T) {
	v := BuildAdminView(seedSnapshot(), DefaultInsightPolicy(), now)
	assert.Equal(t, 8, v.TotalStores)
	assert.Equal(t, 1, v.UnassignedStores)
	assert.Equal(t, 2, v.RiskCounts[models.RiskCritical])
	assert.Equal(t, 2, v.RiskCounts[models.RiskLow])
	assert.Equal(t, 3, v.RegionCounts["Seoul South"])
	require.Len(t, v.TopRisks, TopRiskLimit)
	assert.Equal(t, "ST-007", v.TopRisks[0].StoreID)
	assert.Len(t, v.Insights, 1)
}

func TestBuildManagerView(t *testing.T) {
	v := BuildManagerView(seedSnapshot())
	assert.Equal(t, 4, v.OpenActions)
	require.Len(t, v.ImportantNotices, 2)
	assert.Equal(t, "NT-001", v.ImportantNotices[0].ID)
	for _, d := range v.SalesDeltas {
		if d.StoreID == "ST-008" {
			assert.Nil(t, d.Sales)
		}
		if d.StoreID == "ST-004" {
			require.NotNil(t, d.Sales)
			assert.Equal(t, models.DirectionUp, d.Sales.Direction)
		}
	}
}

func TestBuildSupervisorView(t *testing.T) {
	v := BuildSupervisorView(seedSnapshot(), "SV-01")
	require.Len(t, v.Stores, 2)
	assert.Equal(t, "ST-001", v.Stores[0].StoreID)
	require.Len(t, v.PendingActions, 2)
	assert.Equal(t, "AC-001", v.PendingActions[0].ID)
	require.Len(t, v.RecentEvents, 2)
	assert.Equal(t, "EV-001", v.RecentEvents[0].ID)
	assert.Equal(t, 2, v.Rollup.RiskyStoresCount)
	assert.Equal(t, 2, v.Rollup.PendingActionsCount)
}
