package resolve

import (
	"context"
	"strings"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	return func() time.Time { return at }
}

func TestResolveAmbientKeys(t *testing.T) {
	r := New(WithClock(fixedClock()))
	rc := Context{
		PageTitle:    "Example Page",
		PageURL:      "https://example.com/a",
		Domain:       "example.com",
		SelectedText: "picked",
		Clipboard:    "copied",
	}

	tests := []struct {
		in   string
		want string
	}{
		{"{{date}}", "2026-03-14"},
		{"{{time}}", "09:26"},
		{"{{datetime}}", "2026-03-14 09:26"},
		{"{{page_title}}", "Example Page"},
		{"{{page_url}}", "https://example.com/a"},
		{"{{domain}}", "example.com"},
		{"{{selected_text}}", "picked"},
		{"{{clipboard}}", "copied"},
	}

	for _, tt := range tests {
		res, err := r.Resolve(context.Background(), tt.in, rc)
		if err != nil {
			t.Fatalf("resolve %q: %v", tt.in, err)
		}
		if res.Text != tt.want {
			t.Errorf("resolve %q = %q, want %q", tt.in, res.Text, tt.want)
		}
	}
}

func TestResolveFormDataShadowsAmbient(t *testing.T) {
	r := New(WithClock(fixedClock()))
	rc := Context{
		Domain:   "example.com",
		FormData: map[string]string{"domain": "override.net", "who": "dev"},
	}

	res, err := r.Resolve(context.Background(), "{{domain}} {{who}}", rc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Text != "override.net dev" {
		t.Errorf("text = %q, want %q", res.Text, "override.net dev")
	}
}

func TestResolveUnknownPlaceholderLeftVerbatim(t *testing.T) {
	r := New(WithClock(fixedClock()))

	res, err := r.Resolve(context.Background(), "keep {{mystery}} here", Context{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Text != "keep {{mystery}} here" {
		t.Errorf("text = %q, want unknown placeholder untouched", res.Text)
	}
}

func TestResolveKnownEmptyValueErased(t *testing.T) {
	r := New(WithClock(fixedClock()))

	// selected_text is a known key carrying an empty value.
	res, err := r.Resolve(context.Background(), "[{{selected_text}}]", Context{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Text != "[]" {
		t.Errorf("text = %q, want %q", res.Text, "[]")
	}
}

func TestResolveNestedPlaceholders(t *testing.T) {
	r := New(WithClock(fixedClock()))
	rc := Context{
		FormData: map[string]string{
			"outer": "today is {{date}}",
		},
	}

	res, err := r.Resolve(context.Background(), "{{outer}}", rc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Text != "today is 2026-03-14" {
		t.Errorf("text = %q, want nested placeholder resolved", res.Text)
	}
}

func TestResolveIdempotentWhenStable(t *testing.T) {
	r := New(WithClock(fixedClock()))
	rc := Context{Domain: "example.com"}

	once, err := r.Resolve(context.Background(), "Hi {{domain}} and {{unknown}}", rc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	twice, err := r.Resolve(context.Background(), once.Text, rc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if twice.Text != once.Text {
		t.Errorf("second resolve changed output: %q -> %q", once.Text, twice.Text)
	}
}

func TestResolveNoPlaceholdersPassthrough(t *testing.T) {
	r := New(WithClock(fixedClock()))

	texts := []string{"", "plain text", "almost {single} braces", "}}{{"}
	for _, text := range texts {
		res, err := r.Resolve(context.Background(), text, Context{})
		if err != nil {
			t.Fatalf("resolve %q: %v", text, err)
		}
		if res.Text != text {
			t.Errorf("resolve %q = %q, want unchanged", text, res.Text)
		}
	}
}

func TestSubstituteSelfReferenceTerminates(t *testing.T) {
	got := Substitute("{{a}}", map[string]string{"a": "{{a}}"})
	if got != "{{a}}" {
		t.Errorf("got %q, want self-referential cycle left as-is", got)
	}
}

func TestSubstituteGrowingCycleCutOff(t *testing.T) {
	done := make(chan string, 1)
	go func() {
		done <- Substitute("{{a}}", map[string]string{"a": "x{{a}}"})
	}()

	select {
	case got := <-done:
		want := strings.Repeat("x", MaxPasses) + "{{a}}"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("substitution did not terminate")
	}
}

func TestSubstituteCaseSensitiveExactMatch(t *testing.T) {
	vars := map[string]string{"name": "v"}

	tests := []struct {
		in   string
		want string
	}{
		{"{{name}}", "v"},
		{"{{Name}}", "{{Name}}"},
		{"{{ name }}", "{{ name }}"},
		{"{{name}} {{name}}", "v v"},
	}

	for _, tt := range tests {
		if got := Substitute(tt.in, vars); got != tt.want {
			t.Errorf("Substitute(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		len  int
		want int
	}{
		{0, 0},
		{1, 1},
		{4, 1},
		{5, 2},
		{100, 25},
		{101, 26},
	}

	for _, tt := range tests {
		s := strings.Repeat("a", tt.len)
		if got := EstimateTokens(s); got != tt.want {
			t.Errorf("EstimateTokens(len %d) = %d, want %d", tt.len, got, tt.want)
		}
	}
}

func TestResolveCancelledContext(t *testing.T) {
	r := New(WithClock(fixedClock()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Resolve(ctx, "{{date}}", Context{}); err == nil {
		t.Error("expected error from cancelled context")
	}
}
