package organizer

import (
	"time"

	"github.com/fastygo/smarttask/domain"
)

// Anchor times used when a card is dropped into a column. The task's previous
// time of day is not preserved.
const (
	TodayAnchorHour = 17
	WeekAnchorHour  = 9
	WeekAnchorDays  = 3
)

// MoveToBucket rewrites due/done so the task lands in target. Unknown
// targets return the task unchanged.
func MoveToBucket(t domain.Task, target domain.Bucket, now time.Time) domain.Task {
	out := t.Clone()
	switch target {
	case domain.BucketDone:
		out.Done = true
	case domain.BucketLater:
		out.Due = nil
		out.Done = false
	case domain.BucketToday:
		due := atClock(now, TodayAnchorHour)
		out.Due = &due
		out.Done = false
	case domain.BucketWeek:
		due := atClock(now.AddDate(0, 0, WeekAnchorDays), WeekAnchorHour)
		out.Due = &due
		out.Done = false
	}
	return out
}

// BumpPriority moves one step up (direction > 0) or down (direction < 0)
// along low → medium → high, clamped at both ends.
func BumpPriority(t domain.Task, direction int) domain.Task {
	out := t.Clone()
	idx := out.Priority.OrDefault().Index()
	switch {
	case direction > 0:
		idx++
	case direction < 0:
		idx--
	}
	idx = max(0, min(idx, len(domain.PriorityScale)-1))
	out.Priority = domain.PriorityScale[idx]
	return out
}
