package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/fastygo/smarttask/usecase"
)

// Local answers without any network call. Its replies depend only on the
// prompt, so repeated calls return the same text.
type Local struct{}

func (Local) Name() string { return "local" }

func (Local) Generate(_ context.Context, prompt usecase.Prompt) (string, error) {
	switch prompt.Kind {
	case usecase.PromptSummarizeDay:
		return localSummary(prompt.Lines), nil
	case usecase.PromptBreakDown:
		return localBreakdown(prompt.Lines), nil
	}
	return "", fmt.Errorf("textgen: unknown prompt kind %q", prompt.Kind)
}

func localSummary(lines []string) string {
	if len(lines) == 0 {
		return "Nothing is due today. Pick one item from this week and get ahead."
	}
	var b strings.Builder
	noun := "tasks"
	if len(lines) == 1 {
		noun = "task"
	}
	fmt.Fprintf(&b, "You have %d open %s due today. Plan:\n", len(lines), noun)
	for i, line := range lines {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}
	b.WriteString("Start with the first item and close each one before switching.")
	return b.String()
}

func localBreakdown(lines []string) string {
	title := "the task"
	if len(lines) > 0 && strings.TrimSpace(lines[0]) != "" {
		title = strings.TrimSpace(lines[0])
	}
	steps := []string{
		fmt.Sprintf("Define what done looks like for %q", title),
		"List the information and people you need",
		"Do the smallest first piece",
		"Finish the remaining work",
	}
	if len(lines) > 1 {
		steps = append(steps, "Review the result before "+lines[1])
	} else {
		steps = append(steps, "Review the result")
	}
	var b strings.Builder
	for i, step := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
