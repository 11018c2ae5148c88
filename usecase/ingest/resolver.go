package ingest

import (
	"context"
	"regexp"
	"time"
	"unicode"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ResolveOptions tunes date resolution.
type ResolveOptions struct {
	// ForwardBias resolves ambiguous expressions to the nearest future occurrence.
	ForwardBias bool
}

// DateMatch is one resolved date expression and its byte span [Start, End).
type DateMatch struct {
	Text  string    `json:"text"`
	Start int       `json:"start"`
	End   int       `json:"end"`
	At    time.Time `json:"at"`
}

// DateResolver turns natural-language date expressions into instants.
type DateResolver interface {
	Resolve(ctx context.Context, text string, ref time.Time, opts ResolveOptions) ([]DateMatch, error)
}

// DateResolverFunc adapts a function to DateResolver.
type DateResolverFunc func(ctx context.Context, text string, ref time.Time, opts ResolveOptions) ([]DateMatch, error)

func (f DateResolverFunc) Resolve(ctx context.Context, text string, ref time.Time, opts ResolveOptions) ([]DateMatch, error) {
	return f(ctx, text, ref, opts)
}

// WhenResolver resolves English date expressions with github.com/olebedev/when.
type WhenResolver struct {
	parser *when.Parser
}

// NewWhenResolver builds a resolver with the English and common rule sets.
func NewWhenResolver() *WhenResolver {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &WhenResolver{parser: w}
}

var (
	weekdayWord  = regexp.MustCompile(`(?i)\b(mon|tue|wed|thu|fri|sat|sun)[a-z]*\b`)
	backwardWord = regexp.MustCompile(`(?i)\b(last|past|ago|yesterday|previous)\b`)
	dateWord     = regexp.MustCompile(`(?i)\b(today|tonight|tomorrow|yesterday|next|this|week|month|year|in|jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\b|\d+[/.-]\d+`)
)

// Resolve returns at most one match: the expression when finds first.
func (r *WhenResolver) Resolve(ctx context.Context, text string, ref time.Time, opts ResolveOptions) ([]DateMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := r.parser.Parse(text, ref)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}

	start, end := trimSpan(text, res.Index, res.Index+len(res.Text))
	if start >= end {
		return nil, nil
	}
	m := DateMatch{Text: text[start:end], Start: start, End: end, At: res.Time}
	if opts.ForwardBias {
		m.At = forward(m.Text, m.At, ref)
	}
	return []DateMatch{m}, nil
}

// forward moves an expression that landed in the past to its next occurrence:
// a bare weekday by one week, a bare time of day by one day.
func forward(expr string, at, ref time.Time) time.Time {
	if !at.Before(ref) || backwardWord.MatchString(expr) {
		return at
	}
	switch {
	case weekdayWord.MatchString(expr) && !dateWord.MatchString(expr):
		return at.AddDate(0, 0, 7)
	case !weekdayWord.MatchString(expr) && !dateWord.MatchString(expr):
		return at.AddDate(0, 0, 1)
	}
	return at
}

// trimSpan narrows [start, end) so it neither starts nor ends on whitespace
// or punctuation picked up by the rule patterns.
func trimSpan(text string, start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	for start < end && !isWordByte(text[start]) {
		start++
	}
	for end > start && !isWordByte(text[end-1]) {
		end--
	}
	return start, end
}

func isWordByte(b byte) bool {
	if b >= 0x80 {
		return true
	}
	r := rune(b)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == ':'
}

// NoopResolver never finds a date.
type NoopResolver struct{}

func (NoopResolver) Resolve(context.Context, string, time.Time, ResolveOptions) ([]DateMatch, error) {
	return nil, nil
}
