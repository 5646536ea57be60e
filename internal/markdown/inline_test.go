package markdown

import (
	"testing"

	"github.com/dgallion1/notedoc/internal/doctree"
)

type run struct {
	text  string
	marks []doctree.MarkType
}

func expectRuns(t *testing.T, got []doctree.Node, want []run) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d runs, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		g := got[i]
		if g.Type != doctree.KindText {
			t.Errorf("run %d: expected text node, got %q", i, g.Type)
		}
		if g.Text != w.text {
			t.Errorf("run %d: expected text %q, got %q", i, w.text, g.Text)
		}
		if len(g.Marks) != len(w.marks) {
			t.Errorf("run %d (%q): expected marks %v, got %v", i, w.text, w.marks, g.Marks)
			continue
		}
		for _, m := range w.marks {
			if !g.HasMark(m) {
				t.Errorf("run %d (%q): missing mark %q", i, w.text, m)
			}
		}
	}
}

func TestParseInline_Coverage(t *testing.T) {
	got := ParseInline("**bold** and *italic* and `code`")
	expectRuns(t, got, []run{
		{"bold", []doctree.MarkType{doctree.MarkBold}},
		{" and ", nil},
		{"italic", []doctree.MarkType{doctree.MarkItalic}},
		{" and ", nil},
		{"code", []doctree.MarkType{doctree.MarkCode}},
	})
}

func TestParseInline_Cases(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []run
	}{
		{"plain", "just text", []run{{"just text", nil}}},
		{"empty", "", []run{{"", nil}}},
		{"bold italic", "***both***", []run{{"both", []doctree.MarkType{doctree.MarkBold, doctree.MarkItalic}}}},
		{"strike", "a ~~gone~~ b", []run{{"a ", nil}, {"gone", []doctree.MarkType{doctree.MarkStrike}}, {" b", nil}}},
		{"unterminated bold", "**open and shut", []run{{"**open and shut", nil}}},
		{"unterminated code", "call `fn(", []run{{"call `fn(", nil}}},
		{"adjacent bold", "**a****b**", []run{
			{"a", []doctree.MarkType{doctree.MarkBold}},
			{"b", []doctree.MarkType{doctree.MarkBold}},
		}},
		{"no nesting inside code", "`**x**`", []run{{"**x**", []doctree.MarkType{doctree.MarkCode}}}},
		{"spaced stars stay literal", "2 * 3 * 4", []run{{"2 * 3 * 4", nil}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectRuns(t, ParseInline(tt.in), tt.want)
		})
	}
}

func TestParseInline_EarliestMatchWins(t *testing.T) {
	// The code span starts first, so the bold delimiters inside and across it
	// are discarded.
	got := ParseInline("`a **b` c**")
	expectRuns(t, got, []run{
		{"a **b", []doctree.MarkType{doctree.MarkCode}},
		{" c**", nil},
	})
}
