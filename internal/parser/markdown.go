package parser

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files. The source is passed through
// unchanged; goldmark is only used to find the title.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Source, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	title := firstHeading(src)
	if title == "" {
		title = titleFromFilename(filename)
	}
	return &Source{
		Title:    title,
		Markdown: string(src),
	}, nil
}

// firstHeading returns the text of the highest-level heading that appears
// first in the document, or "" when there is none.
func firstHeading(src []byte) string {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	best, bestLevel := "", 7
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level >= bestLevel {
			continue
		}
		if t := inlineText(h, src); t != "" {
			best, bestLevel = t, h.Level
		}
	}
	return best
}

// inlineText gets the text content of a goldmark inline subtree.
func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
			continue
		}
		if s, ok := c.(*ast.String); ok {
			sb.Write(s.Value)
			continue
		}
		sb.WriteString(inlineText(c, src))
	}
	return strings.TrimSpace(sb.String())
}
