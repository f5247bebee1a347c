// Package dashboard derives role views from entity snapshots. Every function
// here is pure: the same inputs (clock included) give the same output.
package dashboard

import (
	"cmp"
	"slices"
	"strings"

	"github.com/starford/fms/internal/models"
)

// TopRiskLimit caps the risk lists embedded in role views.
const TopRiskLimit = 5

// Snapshot is the resolved entity state a view is computed from.
type Snapshot struct {
	Stores  []models.Store
	Actions []models.ActionItem
	Events  []models.EventLog
	Notices []models.Notice
}

// LevelOf returns the store's recorded level, or derives one from its score.
func LevelOf(s models.Store) models.RiskLevel {
	if s.RiskLevel.Valid() {
		return s.RiskLevel
	}
	return models.RiskLevelFromScore(s.RiskScore)
}

// ScoreOf returns the store's score, or the nominal score of its level.
func ScoreOf(s models.Store) int {
	if s.RiskScore > 0 {
		return s.RiskScore
	}
	return LevelOf(s).NominalScore()
}

// SupervisorOf returns the assigned supervisor or the unassigned sentinel.
func SupervisorOf(s models.Store) string {
	if id := strings.TrimSpace(s.CurrentSupervisorID); id != "" {
		return id
	}
	return models.UnassignedSupervisor
}

// AssignedTo reports whether the stored assignee names supervisorID.
// Surrounding whitespace is ignored on both sides and a blank assignee
// matches nobody.
func AssignedTo(assignee, supervisorID string) bool {
	id := strings.TrimSpace(assignee)
	return id != "" && id == strings.TrimSpace(supervisorID)
}

var factorAdvice = map[string]string{
	"hygiene_decline": "schedule a hygiene re-inspection",
	"sales_drop":      "review staffing and local promotions",
	"qsc_low":         "run a QSC coaching visit",
	"complaints":      "follow up on open customer complaints",
	"staff_turnover":  "check crew retention and training",
}

var levelLead = map[models.RiskLevel]string{
	models.RiskCritical: "Immediate visit required",
	models.RiskHigh:     "Visit this week",
	models.RiskMedium:   "Monitor",
}

// Recommendation renders the narrative line for a store at level with the
// given risk factor codes.
func Recommendation(level models.RiskLevel, factors []string) string {
	lead, ok := levelLead[level]
	if !ok {
		return "Stable, routine monitoring"
	}
	steps := make([]string, 0, len(factors))
	for _, f := range factors {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if advice, ok := factorAdvice[f]; ok {
			steps = append(steps, advice)
		} else {
			steps = append(steps, "review "+strings.ReplaceAll(f, "_", " "))
		}
	}
	if len(steps) == 0 {
		steps = append(steps, "review recent events")
	}
	return lead + ": " + strings.Join(steps, "; ")
}

// Summarize builds the risk line for one store.
func Summarize(s models.Store) models.StoreRiskSummary {
	level := LevelOf(s)
	return models.StoreRiskSummary{
		StoreID:        s.ID,
		StoreName:      s.Name,
		Region:         s.Region,
		RiskLevel:      level,
		RiskScore:      ScoreOf(s),
		Recommendation: Recommendation(level, s.RiskFactors),
		SupervisorID:   SupervisorOf(s),
		LastUpdated:    s.UpdatedAt,
	}
}

// RankRisks summarizes every store, ordered critical first, then by score
// descending, then by store id.
func RankRisks(stores []models.Store) []models.StoreRiskSummary {
	out := make([]models.StoreRiskSummary, 0, len(stores))
	for _, s := range stores {
		out = append(out, Summarize(s))
	}
	slices.SortStableFunc(out, compareRisk)
	return out
}

func compareRisk(a, b models.StoreRiskSummary) int {
	if c := cmp.Compare(b.RiskLevel.Rank(), a.RiskLevel.Rank()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.RiskScore, a.RiskScore); c != 0 {
		return c
	}
	return cmp.Compare(a.StoreID, b.StoreID)
}

// TopRisks returns at most n of the ranked summaries.
func TopRisks(stores []models.Store, n int) []models.StoreRiskSummary {
	ranked := RankRisks(stores)
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
