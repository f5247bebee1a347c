// Package briefing composes the per-user daily digest.
package briefing

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/starford/fms/internal/dashboard"
	"github.com/starford/fms/internal/models"
)

// DefaultPriorityLimit caps the priority-store list.
const DefaultPriorityLimit = 5

// Input is everything a briefing is computed from.
type Input struct {
	User     models.User
	Date     time.Time
	Snapshot dashboard.Snapshot
	// PriorityLimit caps the priority-store list; DefaultPriorityLimit when <= 0.
	PriorityLimit int
}

// Compose builds the daily briefing for in.User. Supervisors see their own
// stores and assignments; every other role sees everything.
func Compose(in Input) models.DailyBriefing {
	limit := in.PriorityLimit
	if limit <= 0 {
		limit = DefaultPriorityLimit
	}
	scoped := scope(in.User, in.Snapshot)

	todos := buildTodos(scoped)
	stores := priorityStores(scoped, limit)
	metrics := keyMetrics(todos, stores)

	return models.DailyBriefing{
		Date:           in.Date.Format(time.DateOnly),
		User:           in.User,
		Summary:        summarize(in.User, todos, stores, metrics),
		Todos:          todos,
		PriorityStores: stores,
		KeyMetrics:     metrics,
	}
}

func scope(u models.User, s dashboard.Snapshot) dashboard.Snapshot {
	if u.Role != models.RoleSupervisor {
		return s
	}
	out := dashboard.Snapshot{Notices: s.Notices}
	own := map[string]bool{}
	for _, st := range s.Stores {
		if dashboard.AssignedTo(st.CurrentSupervisorID, u.ID) {
			out.Stores = append(out.Stores, st)
			own[st.ID] = true
		}
	}
	for _, a := range s.Actions {
		if dashboard.AssignedTo(a.AssigneeID, u.ID) {
			out.Actions = append(out.Actions, a)
		}
	}
	for _, e := range s.Events {
		if own[e.StoreID] {
			out.Events = append(out.Events, e)
		}
	}
	return out
}

func buildTodos(s dashboard.Snapshot) []models.TodoItem {
	todos := make([]models.TodoItem, 0, len(s.Actions)+len(s.Events))
	for _, a := range s.Actions {
		p := a.Priority
		if p.Rank() == 0 {
			p = models.PriorityLow
		}
		todos = append(todos, models.TodoItem{
			ID:        a.ID,
			Kind:      models.TodoAction,
			Title:     a.Title,
			StoreID:   a.StoreID,
			Priority:  p,
			Completed: !a.Open(),
			Status:    a.Status,
			At:        a.CreatedAt,
		})
	}
	for _, e := range s.Events {
		if e.Resolved {
			continue
		}
		title := e.Message
		if title == "" {
			title = e.Type
		}
		todos = append(todos, models.TodoItem{
			ID:       e.ID,
			Kind:     models.TodoEvent,
			Title:    title,
			StoreID:  e.StoreID,
			Priority: models.PriorityForLevel(e.Severity),
			At:       e.Timestamp,
		})
	}

	slices.SortStableFunc(todos, func(a, b models.TodoItem) int {
		if a.Completed != b.Completed {
			if a.Completed {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(b.Priority.Rank(), a.Priority.Rank()); c != 0 {
			return c
		}
		if c := b.At.Compare(a.At); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return todos
}

func priorityStores(s dashboard.Snapshot, limit int) []models.PriorityStore {
	latest := map[string]models.EventLog{}
	for _, e := range s.Events {
		if e.Resolved {
			continue
		}
		if cur, ok := latest[e.StoreID]; !ok || e.Timestamp.After(cur.Timestamp) {
			latest[e.StoreID] = e
		}
	}

	out := []models.PriorityStore{}
	for _, sum := range dashboard.RankRisks(s.Stores) {
		if sum.RiskLevel == models.RiskLow {
			continue
		}
		ps := models.PriorityStore{
			StoreID:   sum.StoreID,
			StoreName: sum.StoreName,
			RiskLevel: sum.RiskLevel,
			RiskScore: sum.RiskScore,
			Reason:    sum.Recommendation,
		}
		if e, ok := latest[sum.StoreID]; ok {
			ps.EventID = e.ID
			if e.Message != "" {
				ps.Reason = e.Message
			}
		}
		out = append(out, ps)
	}
	slices.SortStableFunc(out, func(a, b models.PriorityStore) int {
		if c := cmp.Compare(b.RiskScore, a.RiskScore); c != 0 {
			return c
		}
		return cmp.Compare(a.StoreID, b.StoreID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func keyMetrics(todos []models.TodoItem, stores []models.PriorityStore) models.KeyMetrics {
	var m models.KeyMetrics
	for _, t := range todos {
		if !t.Completed {
			m.TotalIssues++
		}
		if t.Kind == models.TodoAction && t.Status == models.ActionPendingApproval {
			m.PendingApprovals++
		}
	}
	for _, s := range stores {
		if s.RiskLevel == models.RiskCritical {
			m.CriticalIssues++
		}
	}
	return m
}

func summarize(u models.User, todos []models.TodoItem, stores []models.PriorityStore, m models.KeyMetrics) string {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		name = u.ID
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Good morning, %s.", name)

	if m.TotalIssues == 0 && len(stores) == 0 {
		b.WriteString(" Nothing needs your attention today.")
		return b.String()
	}

	high := 0
	for _, t := range todos {
		if !t.Completed && t.Priority == models.PriorityHigh {
			high++
		}
	}
	fmt.Fprintf(&b, " You have %d open %s (%d high priority)", m.TotalIssues, plural(m.TotalIssues, "item", "items"), high)
	if m.CriticalIssues > 0 {
		fmt.Fprintf(&b, " and %d critical %s", m.CriticalIssues, plural(m.CriticalIssues, "store", "stores"))
	}
	b.WriteString(".")
	if m.PendingApprovals > 0 {
		fmt.Fprintf(&b, " %d %s waiting for approval.", m.PendingApprovals, plural(m.PendingApprovals, "action is", "actions are"))
	}
	if len(stores) > 0 {
		fmt.Fprintf(&b, " Start with %s.", stores[0].StoreName)
	}
	return b.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
