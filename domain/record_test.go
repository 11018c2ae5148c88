package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + string(rune('0'+n))
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	created := time.UnixMilli(1_700_000_000_123)
	due := time.UnixMilli(1_700_086_400_000)
	in := Collection{
		{
			ID:        "a",
			Title:     "Email Alex",
			Notes:     "about the offsite",
			CreatedAt: created,
			Due:       &due,
			Tags:      []string{"proj:apollo", "work"},
			Project:   "apollo",
			Priority:  PriorityHigh,
			Subtasks:  []Subtask{{ID: "s1", Title: "Draft", Done: true}},
		},
		{
			ID:        "b",
			Title:     "Someday read",
			CreatedAt: created.Add(time.Minute),
			Tags:      []string{},
			Priority:  PriorityLow,
			Done:      true,
			Subtasks:  []Subtask{},
		},
	}

	data, err := EncodeCollection(in)
	require.NoError(t, err)

	out, err := DecodeCollection(data, DecodeOptions{Now: time.Now()})
	require.NoError(t, err)

	if diff := cmp.Diff(in, out, cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeOmitsAbsentDueAndProject(t *testing.T) {
	data, err := EncodeCollection(Collection{{ID: "x", Title: "t", CreatedAt: time.UnixMilli(5)}})
	require.NoError(t, err)

	assert.NotContains(t, string(data), `"due"`)
	assert.NotContains(t, string(data), `"project"`)
	assert.Contains(t, string(data), `"createdAt": 5`)
	assert.Contains(t, string(data), `"priority": "medium"`)
}

func TestDecodeNormalizesMissingFields(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	data := []byte(`[
		{},
		{"title": "  Plan trip ", "tags": ["Travel", "#travel", "PROJ:Europe"], "priority": "urgent", "subtasks": [{"title": "Book"}]},
		{"id": "keep", "title": "Given project", "project": "Home", "done": true, "priority": "LOW", "createdAt": 42, "due": 99}
	]`)

	out, err := DecodeCollection(data, DecodeOptions{Now: now, NewID: sequentialIDs("id-")})
	require.NoError(t, err)
	require.Len(t, out, 3)

	empty := out[0]
	assert.Equal(t, "id-1", empty.ID)
	assert.Equal(t, DefaultTitle, empty.Title)
	assert.True(t, empty.CreatedAt.Equal(now))
	assert.Equal(t, PriorityMedium, empty.Priority)
	assert.False(t, empty.Done)
	assert.Empty(t, empty.Tags)
	assert.NotNil(t, empty.Tags)
	assert.NotNil(t, empty.Subtasks)
	assert.Nil(t, empty.Due)

	trip := out[1]
	assert.Equal(t, "Plan trip", trip.Title)
	assert.Equal(t, []string{"proj:europe", "travel"}, trip.Tags)
	assert.Equal(t, "europe", trip.Project)
	assert.Equal(t, PriorityMedium, trip.Priority, "unknown priority falls back to medium")
	require.Len(t, trip.Subtasks, 1)
	assert.Equal(t, "id-3", trip.Subtasks[0].ID)
	assert.Equal(t, "Book", trip.Subtasks[0].Title)

	given := out[2]
	assert.Equal(t, "keep", given.ID)
	assert.Equal(t, []string{"proj:home"}, given.Tags)
	assert.Equal(t, "home", given.Project)
	assert.True(t, given.Done)
	assert.Equal(t, PriorityLow, given.Priority)
	assert.Equal(t, int64(42), given.CreatedAt.UnixMilli())
	require.NotNil(t, given.Due)
	assert.Equal(t, int64(99), given.Due.UnixMilli())
}

func TestDecodeRejectsNonArrayDocuments(t *testing.T) {
	cases := map[string]string{
		"object":         `{"id": "a"}`,
		"string":         `"tasks"`,
		"empty":          ``,
		"null":           `null`,
		"element number": `[{"id": "a"}, 3]`,
		"broken json":    `[{"id": }]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeCollection([]byte(doc), DecodeOptions{})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidImport)
			assert.True(t, IsDomainError(err, ErrCodeInvalid))
		})
	}
}
