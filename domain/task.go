package domain

import (
	"sort"
	"strings"
	"time"
)

// ProjectTagPrefix marks the tag a task's project is derived from.
const ProjectTagPrefix = "proj:"

// Subtask is an independently toggleable checklist entry of a task.
type Subtask struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Task represents a single item of the user's task collection.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Notes     string     `json:"notes"`
	CreatedAt time.Time  `json:"createdAt"`
	Due       *time.Time `json:"due,omitempty"`
	Tags      []string   `json:"tags"`
	Project   string     `json:"project,omitempty"`
	Priority  Priority   `json:"priority"`
	Done      bool       `json:"done"`
	Subtasks  []Subtask  `json:"subtasks"`
}

// Draft is the output of the ingestion pipeline before identity and audit
// fields are attached.
type Draft struct {
	Title    string     `json:"title"`
	Due      *time.Time `json:"due,omitempty"`
	Tags     []string   `json:"tags"`
	Project  string     `json:"project,omitempty"`
	Priority Priority   `json:"priority"`
}

// NewTask turns a draft into a fresh, not yet completed task.
func NewTask(id string, draft Draft, createdAt time.Time) Task {
	tags := NormalizeTags(draft.Tags)
	return Task{
		ID:        id,
		Title:     draft.Title,
		CreatedAt: createdAt,
		Due:       cloneTime(draft.Due),
		Tags:      tags,
		Project:   ProjectFromTags(tags),
		Priority:  draft.Priority.OrDefault(),
		Subtasks:  []Subtask{},
	}
}

// Clone returns a deep copy so callers can rewrite a record without aliasing
// the stored version.
func (t Task) Clone() Task {
	out := t
	out.Due = cloneTime(t.Due)
	out.Tags = append([]string{}, t.Tags...)
	out.Subtasks = append([]Subtask{}, t.Subtasks...)
	return out
}

// WithTags replaces the tag set and re-derives the project.
func (t Task) WithTags(tags []string) Task {
	out := t.Clone()
	out.Tags = NormalizeTags(tags)
	out.Project = ProjectFromTags(out.Tags)
	return out
}

// HasTag reports exact membership of a normalized tag.
func (t Task) HasTag(tag string) bool {
	for _, have := range t.Tags {
		if have == tag {
			return true
		}
	}
	return false
}

// NormalizeTags lowercases, trims, drops empties and collapses duplicates.
// The result is sorted so equal sets compare equal.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tag, "#")))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// ProjectFromTags returns the suffix of the first proj: tag in sorted order.
func ProjectFromTags(tags []string) string {
	for _, tag := range NormalizeTags(tags) {
		if strings.HasPrefix(tag, ProjectTagPrefix) {
			if project := strings.TrimPrefix(tag, ProjectTagPrefix); project != "" {
				return project
			}
		}
	}
	return ""
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
