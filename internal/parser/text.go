package parser

import (
	"io"
	"strings"
)

// TextParser handles plain text files. Runs of blank lines become a single
// paragraph break; everything else is left for the converter to classify.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Source, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return &Source{
		Title:    titleFromFilename(filename),
		Markdown: collapseBlankLines(string(raw)),
	}, nil
}

// collapseBlankLines normalizes line endings, treats whitespace-only lines
// as blank and drops leading and trailing blank lines.
func collapseBlankLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	out := make([]string, 0, strings.Count(s, "\n")+1)
	gap := false
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			gap = len(out) > 0
			continue
		}
		if gap {
			out = append(out, "")
			gap = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
