package parser

import "testing"

func TestForFile(t *testing.T) {
	for _, name := range []string{"a.txt", "b.MD", "c.markdown", "d.csv", "e.html", "f.htm", "g.pdf", "h.docx"} {
		if _, err := ForFile(name, Options{}); err != nil {
			t.Errorf("ForFile(%q): %v", name, err)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("IsSupportedExtension(%q) = false", name)
		}
	}
	if _, err := ForFile("x.exe", Options{}); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestDocxHeadingLevel(t *testing.T) {
	tests := map[string]int{
		"heading1": 1,
		"heading6": 6,
		"title":    1,
		"heading7": 0,
		"normal":   0,
		"":         0,
	}
	for style, want := range tests {
		if got := docxHeadingLevel(style); got != want {
			t.Errorf("docxHeadingLevel(%q) = %d, want %d", style, got, want)
		}
	}
}

func TestPageMarkdown(t *testing.T) {
	got := pageMarkdown("  line one  \n\n\n\nline two\r\n   \n")
	if got != "line one\n\nline two" {
		t.Errorf("got %q", got)
	}
}

func TestSplitPages_TrailingFormFeed(t *testing.T) {
	pages := splitPages("a\fb\f")
	if len(pages) != 2 {
		t.Errorf("expected 2 pages, got %d", len(pages))
	}
}
