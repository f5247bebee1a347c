// Package models defines the domain types for the franchise operations core.
package models

import "time"

// Persistence keys, one per entity kind.
const (
	KeyStores         = "fms_stores"
	KeyActions        = "fms_actions"
	KeyEvents         = "fms_events"
	KeyNotices        = "fms_notices"
	KeyPolicyBaseline = "fms_policy_baseline"
)

// Store operational statuses.
const (
	StoreOperating = "operating"
	StoreWatch     = "watch"
	StoreSuspended = "suspended"
)

// KPISnapshot is the latest period-over-period numbers carried on a store.
type KPISnapshot struct {
	Sales        float64 `json:"sales"`
	PriorSales   float64 `json:"priorSales"`
	QSCScore     float64 `json:"qscScore"`
	HygieneScore float64 `json:"hygieneScore"`
}

// Store is a franchise location.
type Store struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Region              string      `json:"region"`
	CurrentSupervisorID string      `json:"currentSupervisorId,omitempty"`
	Status              string      `json:"status"`
	RiskLevel           RiskLevel   `json:"riskLevel,omitempty"`
	RiskScore           int         `json:"riskScore"`
	RiskFactors         []string    `json:"riskFactors,omitempty"`
	KPI                 KPISnapshot `json:"kpi"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

// EntityID implements the repository identity contract.
func (s Store) EntityID() string { return s.ID }

// Action item lifecycle.
const (
	ActionOpen            = "open"
	ActionInProgress      = "in_progress"
	ActionPendingApproval = "pending_approval"
	ActionCompleted       = "completed"
)

// ActionItem is a corrective task, usually raised against a store.
type ActionItem struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssigneeID  string     `json:"assigneeId,omitempty"`
	StoreID     string     `json:"storeId,omitempty"`
	Status      string     `json:"status"`
	Priority    Priority   `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// EntityID implements the repository identity contract.
func (a ActionItem) EntityID() string { return a.ID }

// Open reports whether the item still needs work.
func (a ActionItem) Open() bool { return a.Status != ActionCompleted }

// EventPayload describes the condition an event detected.
type EventPayload struct {
	Metric          string  `json:"metric,omitempty"`
	Value           float64 `json:"value"`
	Baseline        float64 `json:"baseline"`
	ConsecutiveDays int     `json:"consecutiveDays,omitempty"`
}

// Event types raised by monitoring.
const (
	EventHygieneDecline = "HYGIENE_DECLINE"
	EventSalesDrop      = "SALES_DROP"
	EventQSCFailure     = "QSC_FAILURE"
	EventComplaint      = "CUSTOMER_COMPLAINT"
)

// EventLog records a detected condition at a store.
type EventLog struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	StoreID   string       `json:"storeId"`
	Type      string       `json:"type"`
	Severity  RiskLevel    `json:"severity"`
	Message   string       `json:"message"`
	Payload   EventPayload `json:"payload"`
	Resolved  bool         `json:"resolved"`
}

// EntityID implements the repository identity contract.
func (e EventLog) EntityID() string { return e.ID }

// Notice is a board post shown to store staff.
type Notice struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"publishedAt"`
	Important   bool      `json:"important"`
	ViewCount   int       `json:"viewCount"`
}

// EntityID implements the repository identity contract.
func (n Notice) EntityID() string { return n.ID }

// BaselineConfig is the singleton anomaly policy.
type BaselineConfig struct {
	TargetScope         string  `json:"targetScope"`
	Metric              string  `json:"metric"`
	StandardValue       float64 `json:"standardValue"`
	AllowedDeviationPct float64 `json:"allowedDeviationPct"`
	ConsecutiveDays     int     `json:"consecutiveDays"`
}
