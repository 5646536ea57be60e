package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading-styled paragraphs become Markdown
// headings and list-styled paragraphs become bullets.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*Source, error) {
	tmp, size, cleanup, err := spool(r, "notedoc-docx-*.docx")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	doc, err := docx.Parse(tmp, size)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	src := &Source{Title: titleFromFilename(filename)}
	titled := false

	var blocks []string
	inList := false
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		style := docxStyle(para)
		if level := docxHeadingLevel(style); level > 0 {
			if !titled && level == 1 {
				src.Title, titled = text, true
			}
			blocks = append(blocks, strings.Repeat("#", level)+" "+text)
			inList = false
			continue
		}

		if docxIsListStyle(style) {
			// Consecutive list paragraphs stay in one block.
			if inList {
				blocks[len(blocks)-1] += "\n- " + text
			} else {
				blocks = append(blocks, "- "+text)
			}
			inList = true
			continue
		}

		blocks = append(blocks, text)
		inList = false
	}

	src.Markdown = strings.Join(blocks, "\n\n")
	return src, nil
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
}

// docxHeadingLevel maps "Heading1".."Heading6" (any case, optional space)
// and "Title" to a heading level.
func docxHeadingLevel(style string) int {
	if style == "title" {
		return 1
	}
	rest, ok := strings.CutPrefix(style, "heading")
	if !ok || len(rest) != 1 || rest[0] < '1' || rest[0] > '6' {
		return 0
	}
	return int(rest[0] - '0')
}

func docxIsListStyle(style string) bool {
	return strings.HasPrefix(style, "listparagraph") || strings.HasPrefix(style, "listbullet")
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
