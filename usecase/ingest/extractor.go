package ingest

import (
	"regexp"
	"sort"
	"strings"

	"github.com/fastygo/smarttask/domain"
)

// TokenKind distinguishes the structured markers found in raw input.
type TokenKind string

const (
	TokenTag      TokenKind = "tag"
	TokenPriority TokenKind = "priority"
)

// Token is one extracted marker and its byte span [Start, End) in the input.
type Token struct {
	Kind  TokenKind `json:"kind"`
	Text  string    `json:"text"`
	Start int       `json:"start"`
	End   int       `json:"end"`
}

// Extraction is the marker-free text plus whatever the markers carried.
type Extraction struct {
	CleanedText      string
	Tags             []string
	ExplicitPriority *domain.Priority
	Tokens           []Token
}

var (
	tagPattern      = regexp.MustCompile(`#[\p{L}\p{Nd}_:-]+`)
	priorityPattern = regexp.MustCompile(`(?i)!(high|medium|med|low)\b`)
	whitespaceRun   = regexp.MustCompile(`\s{2,}`)
)

// Extract strips #tags and !priority markers from text. Only the first
// priority marker sets the explicit priority; later ones are removed silently.
func Extract(text string) Extraction {
	var tokens []Token
	for _, loc := range tagPattern.FindAllStringIndex(text, -1) {
		tokens = append(tokens, Token{Kind: TokenTag, Text: text[loc[0]:loc[1]], Start: loc[0], End: loc[1]})
	}
	for _, loc := range priorityPattern.FindAllStringIndex(text, -1) {
		tokens = append(tokens, Token{Kind: TokenPriority, Text: text[loc[0]:loc[1]], Start: loc[0], End: loc[1]})
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Start < tokens[j].Start })

	out := Extraction{Tokens: tokens}
	var rawTags []string
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenTag:
			rawTags = append(rawTags, strings.ToLower(tok.Text[1:]))
		case TokenPriority:
			if out.ExplicitPriority == nil {
				if p, ok := domain.ParsePriority(tok.Text[1:]); ok {
					out.ExplicitPriority = &p
				}
			}
		}
	}
	out.Tags = domain.NormalizeTags(rawTags)
	out.CleanedText = excise(text, tokens)
	return out
}

// excise replaces each span with a single space and normalizes whitespace.
// Spans must be sorted by Start and must not overlap.
func excise(text string, spans []Token) string {
	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, sp := range spans {
		if sp.Start < pos || sp.End > len(text) || sp.Start > sp.End {
			continue
		}
		b.WriteString(text[pos:sp.Start])
		b.WriteByte(' ')
		pos = sp.End
	}
	b.WriteString(text[pos:])
	return collapse(b.String())
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
