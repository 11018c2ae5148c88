package organizer

import (
	"slices"
	"time"

	"github.com/fastygo/smarttask/domain"
)

// Board holds the four columns of the board view.
type Board struct {
	Today []domain.Task `json:"today"`
	Week  []domain.Task `json:"week"`
	Later []domain.Task `json:"later"`
	Done  []domain.Task `json:"done"`
}

// Column returns the tasks of one bucket.
func (b Board) Column(bucket domain.Bucket) []domain.Task {
	switch bucket {
	case domain.BucketToday:
		return b.Today
	case domain.BucketWeek:
		return b.Week
	case domain.BucketLater:
		return b.Later
	case domain.BucketDone:
		return b.Done
	}
	return nil
}

// Window is the set of local-time boundaries the buckets are cut on.
type Window struct {
	TodayStart time.Time
	TodayEnd   time.Time
	WeekEnd    time.Time
}

// WindowAt computes the boundaries in now's location.
func WindowAt(now time.Time) Window {
	return Window{
		TodayStart: startOfDay(now),
		TodayEnd:   endOfDay(now),
		WeekEnd:    endOfDay(now.AddDate(0, 0, 7)),
	}
}

// BucketOf places one task. Boundaries are inclusive.
func BucketOf(t domain.Task, now time.Time) domain.Bucket {
	return WindowAt(now).bucket(t)
}

func (w Window) bucket(t domain.Task) domain.Bucket {
	if t.Done {
		return domain.BucketDone
	}
	if t.Due == nil {
		return domain.BucketLater
	}
	due := *t.Due
	if !due.Before(w.TodayStart) && !due.After(w.TodayEnd) {
		return domain.BucketToday
	}
	if due.After(w.TodayEnd) && !due.After(w.WeekEnd) {
		return domain.BucketWeek
	}
	return domain.BucketLater
}

// Build splits tasks into columns and sorts each one independently.
func Build(tasks []domain.Task, now time.Time) Board {
	w := WindowAt(now)
	b := Board{
		Today: []domain.Task{},
		Week:  []domain.Task{},
		Later: []domain.Task{},
		Done:  []domain.Task{},
	}
	for _, t := range tasks {
		switch w.bucket(t) {
		case domain.BucketToday:
			b.Today = append(b.Today, t)
		case domain.BucketWeek:
			b.Week = append(b.Week, t)
		case domain.BucketLater:
			b.Later = append(b.Later, t)
		case domain.BucketDone:
			b.Done = append(b.Done, t)
		}
	}
	slices.SortStableFunc(b.Today, compareActiveColumn)
	slices.SortStableFunc(b.Week, compareActiveColumn)
	slices.SortStableFunc(b.Later, compareActiveColumn)
	slices.SortStableFunc(b.Done, func(a, c domain.Task) int { return compareDue(a.Due, c.Due) })
	return b
}

func compareActiveColumn(a, b domain.Task) int {
	if c := comparePriority(a, b); c != 0 {
		return c
	}
	return compareDue(a.Due, b.Due)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func atClock(t time.Time, hour int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, 0, 0, 0, t.Location())
}
