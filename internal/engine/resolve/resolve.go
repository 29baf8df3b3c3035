// Package resolve expands {{name}} placeholders against an ephemeral
// per-expansion context.
//
// Substitution is global, case-sensitive, and exact-match: no whitespace
// is tolerated inside the braces. Passes repeat until a pass makes no
// change, so a value may itself contain placeholders, bounded by a fixed
// ceiling so referential cycles cut off instead of looping.
package resolve

import (
	"context"
	"strings"
	"time"
)

// MaxPasses is the substitution iteration ceiling. A cycle that never
// stabilizes is cut off here with remaining {{...}} literals left verbatim.
const MaxPasses = 10

// Ambient variable names always present in the table.
const (
	VarDate         = "date"
	VarTime         = "time"
	VarDateTime     = "datetime"
	VarPageTitle    = "page_title"
	VarPageURL      = "page_url"
	VarDomain       = "domain"
	VarSelectedText = "selected_text"
	VarClipboard    = "clipboard"
)

// Wall-clock formats for the date/time ambient variables.
const (
	dateFormat     = "2006-01-02"
	timeFormat     = "15:04"
	dateTimeFormat = "2006-01-02 15:04"
)

// Context is the value bag built for one resolution call. It exists only
// for the duration of that call.
type Context struct {
	PageTitle    string
	PageURL      string
	Domain       string
	SelectedText string
	Clipboard    string

	// FormData holds caller-supplied named values. It is merged into the
	// variable table last, so same-named entries shadow ambient keys.
	FormData map[string]string
}

// Result is the outcome of one resolution.
type Result struct {
	Text   string // Fully resolved text
	Tokens int    // Advisory token estimate of Text
}

// Interface is the resolution boundary. The local Resolver satisfies it;
// an out-of-process delegate may stand in behind the same contract.
type Interface interface {
	Resolve(ctx context.Context, text string, rc Context) (Result, error)
}

// Resolver performs local placeholder substitution.
type Resolver struct {
	now func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) {
		r.now = now
	}
}

// New creates a resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve substitutes every known {{key}} in text. Unknown placeholders
// are left untouched; known keys with empty values resolve to the empty
// string. The context is consulted for ambient values; date/time values
// come from the wall clock at call time.
func (r *Resolver) Resolve(ctx context.Context, text string, rc Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	vars := rc.Table(r.now())
	resolved := Substitute(text, vars)

	return Result{
		Text:   resolved,
		Tokens: EstimateTokens(resolved),
	}, nil
}

// Table builds the variable table for this context: ambient keys merged
// first, caller-supplied form data last. Form data may shadow same-named
// ambient keys. Date and time values are formatted from now.
func (rc Context) Table(now time.Time) map[string]string {
	vars := map[string]string{
		VarDate:         now.Format(dateFormat),
		VarTime:         now.Format(timeFormat),
		VarDateTime:     now.Format(dateTimeFormat),
		VarPageTitle:    rc.PageTitle,
		VarPageURL:      rc.PageURL,
		VarDomain:       rc.Domain,
		VarSelectedText: rc.SelectedText,
		VarClipboard:    rc.Clipboard,
	}

	for k, v := range rc.FormData {
		vars[k] = v
	}

	return vars
}

// Substitute applies iterative placeholder substitution with the given
// variable table, up to MaxPasses passes. It terminates early once a pass
// makes no change.
func Substitute(text string, vars map[string]string) string {
	for pass := 0; pass < MaxPasses; pass++ {
		next := text
		for key, value := range vars {
			next = strings.ReplaceAll(next, "{{"+key+"}}", value)
		}
		if next == text {
			break
		}
		text = next
	}
	return text
}

// EstimateTokens returns the advisory token estimate for a resolved
// string: character length divided by four, rounded up.
func EstimateTokens(s string) int {
	return (len(s) + 3) / 4
}
