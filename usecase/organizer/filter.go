// Package organizer derives every view of the task collection: filtered and
// ranked lists, the time-bucketed board, and the rewrites triggered by moving
// a card between columns or bumping its priority. Nothing here fails or keeps
// state; callers recompute whenever the collection or the clock changes.
package organizer

import (
	"strings"

	"github.com/fastygo/smarttask/domain"
)

// Criteria combine with AND. Zero values pass everything except completed
// tasks, which need ShowDone.
type Criteria struct {
	ShowDone bool
	Tag      string
	Project  string
	Search   string
}

// Filter keeps the tasks matching every criterion, in input order.
func Filter(tasks []domain.Task, c Criteria) []domain.Task {
	tag := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(c.Tag, "#")))
	project := strings.ToLower(strings.TrimSpace(c.Project))
	search := strings.ToLower(strings.TrimSpace(c.Search))

	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if !c.ShowDone && t.Done {
			continue
		}
		if tag != "" && !t.HasTag(tag) {
			continue
		}
		if project != "" && t.Project != project {
			continue
		}
		if search != "" && !strings.Contains(haystack(t), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func haystack(t domain.Task) string {
	return strings.ToLower(t.Title + " " + t.Notes + " " + strings.Join(t.Tags, " "))
}
