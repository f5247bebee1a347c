package models

import "time"

// UnassignedSupervisor is rendered when a store has no supervisor.
const UnassignedSupervisor = "unassigned"

// Roles that get their own dashboard view.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleSupervisor = "supervisor"
)

// User identifies who a briefing or view is built for.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// StoreRiskSummary is a computed per-store risk line.
type StoreRiskSummary struct {
	StoreID        string    `json:"storeId"`
	StoreName      string    `json:"storeName"`
	Region         string    `json:"region"`
	RiskLevel      RiskLevel `json:"riskLevel"`
	RiskScore      int       `json:"riskScore"`
	Recommendation string    `json:"recommendation"`
	SupervisorID   string    `json:"supervisorId"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// SupervisorRollup counts what needs a supervisor's attention.
type SupervisorRollup struct {
	SupervisorID        string `json:"supervisorId"`
	AssignedStoresCount int    `json:"assignedStoresCount"`
	RiskyStoresCount    int    `json:"riskyStoresCount"`
	PendingActionsCount int    `json:"pendingActionsCount"`
}

// Delta directions.
const (
	DirectionUp   = "up"
	DirectionFlat = "flat"
	DirectionDown = "down"
)

// KPIDelta is a period-over-period comparison.
type KPIDelta struct {
	Current   float64 `json:"current"`
	Prior     float64 `json:"prior"`
	Rate      float64 `json:"rate"`
	Direction string  `json:"direction"`
}

// StoreKPIDelta attaches a sales delta to a store. Delta is nil when the
// prior period is zero.
type StoreKPIDelta struct {
	StoreID   string    `json:"storeId"`
	StoreName string    `json:"storeName"`
	Sales     *KPIDelta `json:"sales,omitempty"`
}

// UrgentInsight flags a regional cluster of risky stores.
type UrgentInsight struct {
	Region     string    `json:"region"`
	StoreIDs   []string  `json:"storeIds"`
	Confidence float64   `json:"confidence"`
	DetectedAt time.Time `json:"detectedAt"`
	Summary    string    `json:"summary"`
}

// SustainedAnomaly is a store whose baseline metric stayed out of band.
type SustainedAnomaly struct {
	StoreID         string    `json:"storeId"`
	Metric          string    `json:"metric"`
	ConsecutiveDays int       `json:"consecutiveDays"`
	LastSeen        time.Time `json:"lastSeen"`
}

// AdminView is the operator-wide dashboard.
type AdminView struct {
	TotalStores      int                `json:"totalStores"`
	UnassignedStores int                `json:"unassignedStores"`
	RiskCounts       map[RiskLevel]int  `json:"riskCounts"`
	RegionCounts     map[string]int     `json:"regionCounts"`
	TopRisks         []StoreRiskSummary `json:"topRisks"`
	Supervisors      []SupervisorRollup `json:"supervisors"`
	Insights         []UrgentInsight    `json:"insights"`
}

// ManagerView focuses on KPI movement and open work.
type ManagerView struct {
	SalesDeltas      []StoreKPIDelta    `json:"salesDeltas"`
	TopRisks         []StoreRiskSummary `json:"topRisks"`
	OpenActions      int                `json:"openActions"`
	ImportantNotices []Notice           `json:"importantNotices"`
}

// SupervisorView is scoped to one supervisor's stores and assignments.
type SupervisorView struct {
	SupervisorID   string             `json:"supervisorId"`
	Stores         []StoreRiskSummary `json:"stores"`
	PendingActions []ActionItem       `json:"pendingActions"`
	RecentEvents   []EventLog         `json:"recentEvents"`
	Rollup         SupervisorRollup   `json:"rollup"`
}

// Todo kinds.
const (
	TodoAction = "action"
	TodoEvent  = "event"
)

// TodoItem is one line of a daily briefing.
type TodoItem struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	StoreID   string    `json:"storeId,omitempty"`
	Priority  Priority  `json:"priority"`
	Completed bool      `json:"completed"`
	Status    string    `json:"status,omitempty"`
	At        time.Time `json:"at"`
}

// PriorityStore is a store the briefing asks the user to look at first.
type PriorityStore struct {
	StoreID   string    `json:"storeId"`
	StoreName string    `json:"storeName"`
	RiskLevel RiskLevel `json:"riskLevel"`
	RiskScore int       `json:"riskScore"`
	Reason    string    `json:"reason"`
	EventID   string    `json:"eventId,omitempty"`
}

// KeyMetrics are counts over a briefing's lists.
type KeyMetrics struct {
	TotalIssues      int `json:"totalIssues"`
	CriticalIssues   int `json:"criticalIssues"`
	PendingApprovals int `json:"pendingApprovals"`
}

// DailyBriefing is the per-user digest.
type DailyBriefing struct {
	Date           string          `json:"date"`
	User           User            `json:"user"`
	Summary        string          `json:"summary"`
	Todos          []TodoItem      `json:"todos"`
	PriorityStores []PriorityStore `json:"priorityStores"`
	KeyMetrics     KeyMetrics      `json:"keyMetrics"`
}
