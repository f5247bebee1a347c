package dashboard

import (
	"slices"
	"strings"

	"github.com/starford/fms/internal/models"
)

// SupervisorRollups counts, per supervisor, assigned stores, those not at
// low risk, and open actions assigned to them. Supervisors are everyone
// assigned a store or an open action, ordered by id.
func SupervisorRollups(stores []models.Store, actions []models.ActionItem) []models.SupervisorRollup {
	byID := map[string]*models.SupervisorRollup{}
	get := func(id string) *models.SupervisorRollup {
		r, ok := byID[id]
		if !ok {
			r = &models.SupervisorRollup{SupervisorID: id}
			byID[id] = r
		}
		return r
	}

	for _, s := range stores {
		id := strings.TrimSpace(s.CurrentSupervisorID)
		if id == "" {
			continue
		}
		r := get(id)
		r.AssignedStoresCount++
		if LevelOf(s) != models.RiskLow {
			r.RiskyStoresCount++
		}
	}
	for _, a := range actions {
		id := strings.TrimSpace(a.AssigneeID)
		if id == "" || !a.Open() {
			continue
		}
		get(id).PendingActionsCount++
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]models.SupervisorRollup, 0, len(ids))
	for _, id := range ids {
		out = append(out, *byID[id])
	}
	return out
}

// RollupFor returns the rollup of one supervisor, zero-valued counts when
// nothing is assigned to them.
func RollupFor(supervisorID string, stores []models.Store, actions []models.ActionItem) models.SupervisorRollup {
	for _, r := range SupervisorRollups(stores, actions) {
		if AssignedTo(r.SupervisorID, supervisorID) {
			return r
		}
	}
	return models.SupervisorRollup{SupervisorID: supervisorID}
}
