package template

import "testing"

func testDict() Dict {
	return Dict{
		"cot": {
			Name: "Chain of thought",
			Pre:  "Think step-by-step:\n",
			Post: "\n\nFinal answer.",
		},
		"empty": {Name: "Empty wrapper"},
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "known template wraps rest",
			content: "[template:cot]Explain recursion",
			want:    "Think step-by-step:\nExplain recursion\n\nFinal answer.",
		},
		{
			name:    "unknown template strips marker",
			content: "[template:nope]Explain recursion",
			want:    "Explain recursion",
		},
		{
			name:    "no marker returns content unchanged",
			content: "Explain recursion",
			want:    "Explain recursion",
		},
		{
			name:    "marker not at start is not a marker",
			content: "see [template:cot]later",
			want:    "see [template:cot]later",
		},
		{
			name:    "empty rest",
			content: "[template:cot]",
			want:    "Think step-by-step:\n\n\nFinal answer.",
		},
		{
			name:    "multiline rest",
			content: "[template:cot]line one\nline two",
			want:    "Think step-by-step:\nline one\nline two\n\nFinal answer.",
		},
		{
			name:    "template with empty pre and post",
			content: "[template:empty]body",
			want:    "body",
		},
		{
			name:    "malformed marker left alone",
			content: "[template:]body",
			want:    "[template:]body",
		},
		{
			name:    "marker name with hyphen is not word characters",
			content: "[template:a-b]body",
			want:    "[template:a-b]body",
		},
	}

	dict := testDict()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(tt.content, dict); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.content, got, tt.want)
			}
		})
	}
}

func TestHasMarker(t *testing.T) {
	if !HasMarker("[template:x]y") {
		t.Error("expected marker detected")
	}
	if HasMarker("plain") {
		t.Error("expected no marker")
	}
}
