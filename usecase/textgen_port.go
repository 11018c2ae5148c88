package usecase

import "context"

// PromptKind selects one of the two assistant prompt shapes.
type PromptKind string

const (
	PromptSummarizeDay PromptKind = "summarize_day"
	PromptBreakDown    PromptKind = "break_down"
)

// Prompt is the provider-neutral request handed to a TextGenerator. Remote
// providers send System and User; Lines keeps the structured input for
// generators that answer offline.
type Prompt struct {
	Kind   PromptKind
	System string
	User   string
	Lines  []string
}

// TextGenerator abstracts the assistant backend so use cases stay provider-agnostic.
type TextGenerator interface {
	Generate(ctx context.Context, prompt Prompt) (string, error)
}
