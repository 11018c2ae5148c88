package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/smarttask/domain"
	"github.com/fastygo/smarttask/usecase"
	"github.com/fastygo/smarttask/usecase/organizer"
)

// FailureMessage replaces any reply the generator could not produce.
const FailureMessage = "The assistant is unavailable right now. Please try again later."

// MaxSteps caps how many subtasks a breakdown may attach.
const MaxSteps = 6

const (
	summarySystem   = "You are a concise productivity assistant. Summarize the user's day in two or three sentences, then give a short numbered plan ordered by urgency."
	breakdownSystem = "You are a concise productivity assistant. Break the task into 3 to 6 imperative subtasks. Reply with one subtask per line and nothing else."
)

type UseCase struct {
	generator usecase.TextGenerator
	logger    *zap.Logger
}

func New(generator usecase.TextGenerator, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{generator: generator, logger: logger}
}

// SummarizeDay asks for a plan covering the tasks due today that are still open.
func (uc *UseCase) SummarizeDay(ctx context.Context, tasks []domain.Task, now time.Time) string {
	today := organizer.Build(tasks, now).Today
	lines := make([]string, 0, len(today))
	for _, t := range today {
		line := t.Title
		if t.Due != nil {
			line += " (due " + t.Due.In(now.Location()).Format("15:04") + ")"
		}
		lines = append(lines, line)
	}

	var user strings.Builder
	if len(lines) == 0 {
		user.WriteString("I have no open tasks due today.")
	} else {
		user.WriteString("Today's open tasks:\n")
		for _, line := range lines {
			user.WriteString("- " + line + "\n")
		}
	}

	return uc.generate(ctx, usecase.Prompt{
		Kind:   usecase.PromptSummarizeDay,
		System: summarySystem,
		User:   strings.TrimSpace(user.String()),
		Lines:  lines,
	})
}

// BreakDown asks for subtask suggestions for one task.
func (uc *UseCase) BreakDown(ctx context.Context, t domain.Task) string {
	lines := []string{t.Title}
	user := "Task: " + t.Title
	if t.Due != nil {
		due := t.Due.Format(time.RFC3339)
		lines = append(lines, due)
		user += "\nDue: " + due
	}
	return uc.generate(ctx, usecase.Prompt{
		Kind:   usecase.PromptBreakDown,
		System: breakdownSystem,
		User:   user,
		Lines:  lines,
	})
}

func (uc *UseCase) generate(ctx context.Context, prompt usecase.Prompt) string {
	if uc.generator == nil {
		return FailureMessage
	}
	text, err := uc.generator.Generate(ctx, prompt)
	if err != nil {
		uc.logger.Warn("text generation failed", zap.String("kind", string(prompt.Kind)), zap.Error(err))
		return FailureMessage
	}
	text = strings.TrimSpace(text)
	if text == "" {
		uc.logger.Warn("text generation returned empty reply", zap.String("kind", string(prompt.Kind)))
		return FailureMessage
	}
	return text
}

var stepMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)]|\[[ xX]?\])\s*`)

// ParseSteps turns a breakdown reply into subtask titles. The failure message
// yields no steps.
func ParseSteps(text string) []string {
	if strings.TrimSpace(text) == FailureMessage {
		return nil
	}
	steps := make([]string, 0, MaxSteps)
	for _, line := range strings.Split(text, "\n") {
		step := strings.TrimSpace(stepMarker.ReplaceAllString(line, ""))
		step = strings.Trim(step, "*_ ")
		if step == "" || strings.HasSuffix(step, ":") {
			continue
		}
		steps = append(steps, step)
		if len(steps) == MaxSteps {
			break
		}
	}
	return steps
}

// FormatSteps renders steps as a numbered list.
func FormatSteps(steps []string) string {
	var b strings.Builder
	for i, step := range steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, step)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
