package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/fastygo/smarttask/domain"
	"github.com/fastygo/smarttask/usecase"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingGenerator struct {
	reply  string
	err    error
	prompt usecase.Prompt
	calls  int
}

func (g *recordingGenerator) Generate(_ context.Context, p usecase.Prompt) (string, error) {
	g.calls++
	g.prompt = p
	return g.reply, g.err
}

var now = time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	v := now.Add(d)
	return &v
}

func TestSummarizeDayUsesOpenTasksDueToday(t *testing.T) {
	gen := &recordingGenerator{reply: "  Focus on the report first.  "}
	uc := New(gen, nil)

	tasks := []domain.Task{
		{ID: "1", Title: "Finish report", Due: at(6 * time.Hour), Priority: domain.PriorityHigh},
		{ID: "2", Title: "Already done", Due: at(time.Hour), Done: true},
		{ID: "3", Title: "Next week", Due: at(72 * time.Hour)},
		{ID: "4", Title: "Standup", Due: at(30 * time.Minute), Priority: domain.PriorityMedium},
		{ID: "5", Title: "No due"},
	}

	got := uc.SummarizeDay(context.Background(), tasks, now)
	assert.Equal(t, "Focus on the report first.", got)
	require.Equal(t, 1, gen.calls)
	assert.Equal(t, usecase.PromptSummarizeDay, gen.prompt.Kind)
	assert.Equal(t, []string{"Finish report (due 15:00)", "Standup (due 09:30)"}, gen.prompt.Lines)
	assert.Contains(t, gen.prompt.User, "- Finish report (due 15:00)")
	assert.NotContains(t, gen.prompt.User, "Already done")
	assert.NotEmpty(t, gen.prompt.System)
}

func TestSummarizeDayWithNothingDue(t *testing.T) {
	gen := &recordingGenerator{reply: "Enjoy the free day."}
	uc := New(gen, nil)

	got := uc.SummarizeDay(context.Background(), nil, now)
	assert.Equal(t, "Enjoy the free day.", got)
	assert.Empty(t, gen.prompt.Lines)
	assert.Equal(t, "I have no open tasks due today.", gen.prompt.User)
}

func TestBreakDownPrompt(t *testing.T) {
	gen := &recordingGenerator{reply: "1. Outline\n2. Draft"}
	uc := New(gen, nil)

	due := time.Date(2024, 3, 15, 15, 0, 0, 0, time.UTC)
	got := uc.BreakDown(context.Background(), domain.Task{Title: "Write talk", Due: &due})
	assert.Equal(t, "1. Outline\n2. Draft", got)
	assert.Equal(t, usecase.PromptBreakDown, gen.prompt.Kind)
	assert.Equal(t, []string{"Write talk", "2024-03-15T15:00:00Z"}, gen.prompt.Lines)
	assert.Equal(t, "Task: Write talk\nDue: 2024-03-15T15:00:00Z", gen.prompt.User)

	uc.BreakDown(context.Background(), domain.Task{Title: "Undated"})
	assert.Equal(t, []string{"Undated"}, gen.prompt.Lines)
	assert.Equal(t, "Task: Undated", gen.prompt.User)
}

func TestFailuresCollapseToFixedMessage(t *testing.T) {
	tests := []struct {
		name string
		gen  usecase.TextGenerator
	}{
		{"nil generator", nil},
		{"error", &recordingGenerator{err: errors.New("quota exceeded")}},
		{"empty reply", &recordingGenerator{reply: " \n "}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			uc := New(tc.gen, nil)
			assert.Equal(t, FailureMessage, uc.SummarizeDay(context.Background(), nil, now))
			assert.Equal(t, FailureMessage, uc.BreakDown(context.Background(), domain.Task{Title: "x"}))
		})
	}
}

func TestParseSteps(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"numbered", "1. Outline\n2) Draft\n3. Review", []string{"Outline", "Draft", "Review"}},
		{"bullets", "- Book van\n* Pack boxes\n• Label boxes", []string{"Book van", "Pack boxes", "Label boxes"}},
		{"checkboxes", "[ ] Buy paint\n[x] Tape edges", []string{"Buy paint", "Tape edges"}},
		{"skips headings and blanks", "Steps:\n\n1. **Outline**\n", []string{"Outline"}},
		{"caps at max", "a\nb\nc\nd\ne\nf\ng\nh", []string{"a", "b", "c", "d", "e", "f"}},
		{"failure message", FailureMessage, nil},
		{"empty", "", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseSteps(tc.text))
		})
	}
}

func TestFormatSteps(t *testing.T) {
	assert.Equal(t, "1. Outline\n2. Draft", FormatSteps([]string{"Outline", "Draft"}))
	assert.Empty(t, FormatSteps(nil))
}
