package organizer

import (
	"slices"
	"time"

	"github.com/fastygo/smarttask/domain"
)

// Rank returns a new slice in list order: open before done, then priority,
// then due (missing due last), then creation time. Equal keys keep input order.
func Rank(tasks []domain.Task) []domain.Task {
	out := slices.Clone(tasks)
	slices.SortStableFunc(out, compareListOrder)
	return out
}

func compareListOrder(a, b domain.Task) int {
	if a.Done != b.Done {
		if a.Done {
			return 1
		}
		return -1
	}
	if c := comparePriority(a, b); c != 0 {
		return c
	}
	if c := compareDue(a.Due, b.Due); c != 0 {
		return c
	}
	return a.CreatedAt.Compare(b.CreatedAt)
}

func comparePriority(a, b domain.Task) int {
	return a.Priority.Rank() - b.Priority.Rank()
}

// compareDue orders ascending with nil treated as +infinity.
func compareDue(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}
