package ingest

import (
	"regexp"
	"time"

	"github.com/fastygo/smarttask/domain"
)

var (
	urgencyKeywords  = regexp.MustCompile(`(?i)\b(urgent|asap|critical|today)\b`)
	planningKeywords = regexp.MustCompile(`(?i)\b(review|plan|someday)\b`)
)

const (
	highWindow   = 24 * time.Hour
	mediumWindow = 72 * time.Hour
)

// InferPriority assigns a level when the input carried no explicit marker.
// Rules are checked in order and the first hit wins. Urgency words are looked
// up in raw, the input with its markers intact, so "#urgent" counts; planning
// words only in the marker-free text.
func InferPriority(raw, text string, due *time.Time, now time.Time) domain.Priority {
	if urgencyKeywords.MatchString(raw) {
		return domain.PriorityHigh
	}
	if due != nil {
		until := due.Sub(now)
		if until <= highWindow {
			return domain.PriorityHigh
		}
		if until <= mediumWindow {
			return domain.PriorityMedium
		}
	}
	if planningKeywords.MatchString(text) {
		return domain.PriorityLow
	}
	return domain.PriorityMedium
}
