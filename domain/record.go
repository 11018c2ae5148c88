package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// DefaultTitle names imported records that carry no title.
const DefaultTitle = "Untitled"

// Record is the persisted shape of a task: the storage, export and import schema.
type Record struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	CreatedAt int64     `json:"createdAt"`
	Due       *int64    `json:"due,omitempty"`
	Tags      []string  `json:"tags"`
	Project   string    `json:"project,omitempty"`
	Priority  Priority  `json:"priority"`
	Done      bool      `json:"done"`
	Subtasks  []Subtask `json:"subtasks"`
}

// looseRecord mirrors Record with every field optional so import can tell
// missing keys apart from zero values.
type looseRecord struct {
	ID        *string        `json:"id"`
	Title     *string        `json:"title"`
	Notes     *string        `json:"notes"`
	CreatedAt *int64         `json:"createdAt"`
	Due       *int64         `json:"due"`
	Tags      []string       `json:"tags"`
	Project   *string        `json:"project"`
	Priority  *string        `json:"priority"`
	Done      *bool          `json:"done"`
	Subtasks  []looseSubtask `json:"subtasks"`
}

type looseSubtask struct {
	ID    *string `json:"id"`
	Title *string `json:"title"`
	Done  *bool   `json:"done"`
}

// ToRecord converts a task to its persisted shape.
func ToRecord(t Task) Record {
	rec := Record{
		ID:        t.ID,
		Title:     t.Title,
		Notes:     t.Notes,
		CreatedAt: t.CreatedAt.UnixMilli(),
		Tags:      append([]string{}, t.Tags...),
		Project:   t.Project,
		Priority:  t.Priority.OrDefault(),
		Done:      t.Done,
		Subtasks:  append([]Subtask{}, t.Subtasks...),
	}
	if t.Due != nil {
		ms := t.Due.UnixMilli()
		rec.Due = &ms
	}
	return rec
}

// EncodeCollection serializes the collection as one JSON document.
func EncodeCollection(c Collection) ([]byte, error) {
	records := make([]Record, 0, len(c))
	for _, t := range c {
		records = append(records, ToRecord(t))
	}
	return json.MarshalIndent(records, "", "  ")
}

// DecodeOptions supplies the defaults import normalization needs.
type DecodeOptions struct {
	Now   time.Time
	NewID func() string
}

// DecodeCollection parses and normalizes a persisted document. Anything other
// than a JSON array of objects fails as a whole.
func DecodeCollection(data []byte, opts DecodeOptions) (Collection, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrInvalidImport
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, WrapError(ErrCodeInvalid, ErrInvalidImport.Message, err)
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	out := make(Collection, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, ErrInvalidImport
		}
		var rec looseRecord
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, WrapError(ErrCodeInvalid, ErrInvalidImport.Message, err)
		}
		out = append(out, rec.normalize(opts))
	}
	return out, nil
}

func (r looseRecord) normalize(opts DecodeOptions) Task {
	t := Task{
		ID:       deref(r.ID),
		Title:    strings.TrimSpace(deref(r.Title)),
		Notes:    deref(r.Notes),
		Priority: PriorityMedium,
		Subtasks: []Subtask{},
	}
	if t.ID == "" {
		t.ID = newID(opts)
	}
	if t.Title == "" {
		t.Title = DefaultTitle
	}
	if r.CreatedAt != nil {
		t.CreatedAt = time.UnixMilli(*r.CreatedAt)
	} else {
		t.CreatedAt = opts.Now
	}
	if r.Due != nil {
		due := time.UnixMilli(*r.Due)
		t.Due = &due
	}
	if r.Priority != nil {
		if p, ok := ParsePriority(*r.Priority); ok {
			t.Priority = p
		}
	}
	if r.Done != nil {
		t.Done = *r.Done
	}

	tags := append([]string{}, r.Tags...)
	if project := strings.ToLower(strings.TrimSpace(deref(r.Project))); project != "" {
		tags = append(tags, ProjectTagPrefix+project)
	}
	t.Tags = NormalizeTags(tags)
	t.Project = ProjectFromTags(t.Tags)

	for _, s := range r.Subtasks {
		sub := Subtask{ID: deref(s.ID), Title: strings.TrimSpace(deref(s.Title))}
		if sub.ID == "" {
			sub.ID = newID(opts)
		}
		if sub.Title == "" {
			sub.Title = DefaultTitle
		}
		if s.Done != nil {
			sub.Done = *s.Done
		}
		t.Subtasks = append(t.Subtasks, sub)
	}
	return t
}

func newID(opts DecodeOptions) string {
	if opts.NewID != nil {
		return opts.NewID()
	}
	return NewID()
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
