package parser

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files. Each non-empty page becomes a "## Page N"
// section. It tries the Go library first, then falls back to pdftotext if
// enabled.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) (*Source, error) {
	tmp, _, cleanup, err := spool(r, "notedoc-pdf-*.pdf")
	if err != nil {
		return nil, err
	}
	defer cleanup()
	tmpPath := tmp.Name()

	text, author, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	pages := splitPages(text)
	src := &Source{
		Title:  titleFromFilename(filename),
		Author: author,
		Pages:  len(pages),
	}

	var sections []string
	for i, page := range pages {
		page = pageMarkdown(page)
		if page == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("## Page %d\n\n%s", i+1, page))
	}
	src.Markdown = strings.Join(sections, "\n\n")
	return src, nil
}

// pageMarkdown trims every line of a page and collapses blank runs so the
// page body reads as paragraphs.
func pageMarkdown(page string) string {
	lines := strings.Split(page, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return collapseBlankLines(strings.Join(lines, "\n"))
}

func extractPDFText(path string) (text, author string, err error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	if info := reader.Trailer().Key("Info"); !info.IsNull() {
		author = strings.TrimSpace(info.Key("Author").Text())
	}

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if i > 1 {
			buf.WriteString("\f") // Form feed as page separator.
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(pageText)
	}
	return buf.String(), author, nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

func splitPages(text string) []string {
	pages := strings.Split(text, "\f")
	// pdftotext terminates the last page with a form feed too.
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages
}
