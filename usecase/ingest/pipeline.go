package ingest

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/smarttask/domain"
)

// trailingPreposition is the "at", "on" or "by" that introduces a date
// expression; it is excised together with the expression.
var trailingPreposition = regexp.MustCompile(`(?i)(^|\s)(?:at|on|by)\s*$`)

// Pipeline turns raw input into a draft task: extract markers, resolve the
// first date expression, then settle the priority.
type Pipeline struct {
	resolver DateResolver
	logger   *zap.Logger
}

func New(resolver DateResolver, logger *zap.Logger) *Pipeline {
	if resolver == nil {
		resolver = NoopResolver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{resolver: resolver, logger: logger}
}

// Result is a draft plus the intermediate artifacts, for previews and debugging.
type Result struct {
	Draft     domain.Draft `json:"draft"`
	Tokens    []Token      `json:"tokens"`
	DateMatch *DateMatch   `json:"date_match,omitempty"`
	Explicit  bool         `json:"explicit_priority"`
	Cleaned   string       `json:"cleaned_text"`
}

// Ingest never fails: a resolver error just means no due date.
func (p *Pipeline) Ingest(ctx context.Context, raw string, ref time.Time) domain.Draft {
	return p.Analyze(ctx, raw, ref).Draft
}

// Analyze runs the pipeline and keeps every intermediate step.
func (p *Pipeline) Analyze(ctx context.Context, raw string, ref time.Time) Result {
	ext := Extract(raw)
	res := Result{Tokens: ext.Tokens, Cleaned: ext.CleanedText}

	title := ext.CleanedText
	var due *time.Time
	if ext.CleanedText != "" {
		matches, err := p.resolver.Resolve(ctx, ext.CleanedText, ref, ResolveOptions{ForwardBias: true})
		if err != nil {
			p.logger.Debug("date resolution failed", zap.String("text", ext.CleanedText), zap.Error(err))
			matches = nil
		}
		if len(matches) > 0 {
			m := matches[0]
			if m.Start >= 0 && m.Start <= m.End && m.End <= len(ext.CleanedText) {
				at := time.UnixMilli(m.At.UnixMilli()).In(m.At.Location())
				due = &at
				title = collapse(trailingPreposition.ReplaceAllString(ext.CleanedText[:m.Start], "$1") + " " + ext.CleanedText[m.End:])
				m.At = at
				res.DateMatch = &m
			}
		}
	}
	if title == "" {
		title = strings.TrimSpace(raw)
	}

	var priority domain.Priority
	if ext.ExplicitPriority != nil {
		priority = *ext.ExplicitPriority
		res.Explicit = true
	} else {
		priority = InferPriority(raw, ext.CleanedText, due, ref)
	}

	res.Draft = domain.Draft{
		Title:    title,
		Due:      due,
		Tags:     ext.Tags,
		Project:  domain.ProjectFromTags(ext.Tags),
		Priority: priority,
	}
	return res
}
