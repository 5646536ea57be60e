package prompt

import (
	"strings"
	"testing"
)

func TestTransformation_KnownKinds(t *testing.T) {
	for _, kind := range TransformationKinds() {
		got := Transformation(kind, "body")
		if !strings.HasPrefix(got, "Please ") {
			t.Errorf("kind %q: expected instruction prefix, got %q", kind, got)
		}
		if !strings.HasSuffix(got, "\n\nbody") {
			t.Errorf("kind %q: expected content after blank line, got %q", kind, got)
		}
	}
}

func TestTransformation_UnknownKind(t *testing.T) {
	got := Transformation("translate to French", "hi")
	want := "Please translate to French the following text:\n\nhi"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestDocumentNote_Truncation(t *testing.T) {
	long := strings.Repeat("a", MaxDocumentChars+10)
	got := DocumentNote(long, Metadata{}, "")
	if !strings.Contains(got, truncationMarker) {
		t.Error("expected truncation marker for oversized text")
	}
	if strings.Contains(got, strings.Repeat("a", MaxDocumentChars+1)) {
		t.Error("expected text to be cut at the limit")
	}
	if !strings.HasSuffix(got, DocumentAutoPrompt) {
		t.Error("expected default instructions at the end")
	}
}

func TestDocumentNote_MetadataAndCustom(t *testing.T) {
	got := DocumentNote("body", Metadata{Title: "Annual Report", Author: "Ada", PageCount: 12}, "list the risks")
	for _, want := range []string{
		`Document Title: "Annual Report"`,
		"Author: Ada",
		"Pages: 12",
		"Please list the risks",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected prompt to contain %q, got %q", want, got)
		}
	}
	if strings.Contains(got, DocumentAutoPrompt) {
		t.Error("custom instructions should replace the default prompt")
	}
}

func TestUsableTitle(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Quarterly Planning Notes", true},
		{"abc", false},
		{strings.Repeat("x", 81), false},
		{"R.2.14.0", false},
		{"1.2.3", false},
		{"AB-123", false},
		{"  Lecture 5: Graphs  ", true},
	}
	for _, tt := range tests {
		if got := UsableTitle(tt.title); got != tt.want {
			t.Errorf("UsableTitle(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestEstimateTokens(t *testing.T) {
	if EstimateTokens("") != 0 {
		t.Error("expected 0 tokens for empty text")
	}
	if EstimateTokens("x") != 1 {
		t.Error("expected at least 1 token for non-empty text")
	}
	if got := EstimateTokens(strings.Repeat("word ", 300)); got < 390 || got > 400 {
		t.Errorf("expected ~399 tokens, got %d", got)
	}
}

func TestTitlePrompt_Truncates(t *testing.T) {
	got := TitlePrompt(strings.Repeat("z", 2000))
	if strings.Contains(got, strings.Repeat("z", 1001)) {
		t.Error("expected content cut to 1000 runes")
	}
}
