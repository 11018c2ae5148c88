package domain

import "strings"

// Priority is one of low, medium or high.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// PriorityScale orders the levels from lowest to highest.
var PriorityScale = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority accepts the canonical names plus the "med" shorthand.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return PriorityHigh, true
	case "low":
		return PriorityLow, true
	case "med", "medium":
		return PriorityMedium, true
	}
	return "", false
}

// Valid reports whether p is one of the three levels.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// OrDefault maps anything invalid to medium.
func (p Priority) OrDefault() Priority {
	if p.Valid() {
		return p
	}
	return PriorityMedium
}

// Rank is the list ordering key: high 0, medium 1, low 2.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Index is the position on PriorityScale.
func (p Priority) Index() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityHigh:
		return 2
	default:
		return 1
	}
}
