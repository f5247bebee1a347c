package models

import "strings"

// RiskLevel is the ordinal operational-health classification of a store.
type RiskLevel string

// Risk levels, lowest first.
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Rank orders levels: critical 4, high 3, medium 2, low 1, anything else 0.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskCritical:
		return 4
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether l is one of the four known levels.
func (l RiskLevel) Valid() bool {
	return l.Rank() > 0
}

// AtLeast reports whether l is at or above other in the total order.
func (l RiskLevel) AtLeast(other RiskLevel) bool {
	return l.Rank() >= other.Rank()
}

// ParseRiskLevel accepts any letter case. The bool is false for unknown input.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	l := RiskLevel(strings.ToLower(strings.TrimSpace(s)))
	return l, l.Valid()
}

// RiskLevelFromScore maps a 0-100 score onto a level.
func RiskLevelFromScore(score int) RiskLevel {
	switch {
	case score >= 80:
		return RiskCritical
	case score >= 60:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

// NominalScore is the score used for a store that carries a level but no score.
func (l RiskLevel) NominalScore() int {
	switch l {
	case RiskCritical:
		return 90
	case RiskHigh:
		return 70
	case RiskMedium:
		return 50
	default:
		return 20
	}
}

// Priority is the tier of a todo or action item.
type Priority string

// Priority tiers.
const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Rank orders priorities: HIGH 3, MEDIUM 2, LOW 1, unknown 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// PriorityForLevel maps an event severity onto a todo tier.
func PriorityForLevel(l RiskLevel) Priority {
	switch l {
	case RiskCritical, RiskHigh:
		return PriorityHigh
	case RiskMedium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
