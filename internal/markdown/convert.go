// Package markdown converts the Markdown dialect produced by the note
// assistant into editor document trees.
//
// It is not CommonMark: one forward pass over lines, no nested
// lists, no lazy continuation. Lists group only while consecutive, and any
// other line, blank or not, closes them.
package markdown

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/notedoc/internal/doctree"
)

var (
	headingRe    = regexp.MustCompile(`^(#+)\s+(.+)$`)
	bulletRe     = regexp.MustCompile(`^[-*]\s+(.*)$`)
	orderedRe    = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)
	blockquoteRe = regexp.MustCompile(`^>\s+(.*)$`)
)

const fence = "```"

// Convert parses Markdown text into a doc. It never fails: empty or
// whitespace-only input gives a doc with no children.
func Convert(text string) doctree.Node {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	s := &segmenter{}
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		switch {
		case line == "":
			s.closeBlock()
			i++

		case strings.HasPrefix(line, fence):
			s.closeBlock()
			var node doctree.Node
			node, i = parseCodeBlock(lines, i)
			s.emit(node)

		case headingRe.MatchString(line):
			s.closeBlock()
			m := headingRe.FindStringSubmatch(line)
			s.emit(doctree.Heading(min(len(m[1]), 6), ParseInline(m[2])...))
			i++

		case bulletRe.MatchString(line):
			m := bulletRe.FindStringSubmatch(line)
			s.addItem(doctree.KindBulletList, 0, m[1])
			i++

		case orderedRe.MatchString(line):
			m := orderedRe.FindStringSubmatch(line)
			n, _ := strconv.Atoi(m[1])
			s.addItem(doctree.KindOrderedList, n, m[2])
			i++

		case blockquoteRe.MatchString(line):
			s.closeBlock()
			m := blockquoteRe.FindStringSubmatch(line)
			s.emit(doctree.Blockquote(doctree.Paragraph(ParseInline(m[1])...)))
			i++

		case strings.HasPrefix(line, "|"):
			s.closeBlock()
			start := i
			for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "|") {
				i++
			}
			if table, ok := parseTable(lines[start:i]); ok {
				s.emit(table)
			}

		default:
			s.closeList()
			s.para = append(s.para, lines[i])
			i++
		}
	}
	s.closeBlock()

	return doctree.Node{Type: doctree.KindDoc, Content: s.blocks}
}

// segmenter holds the one piece of lookback the scan needs: the pending
// paragraph lines and the list currently being grouped.
type segmenter struct {
	blocks []doctree.Node
	para   []string

	listKind  doctree.Kind
	listStart int
	items     []doctree.Node
}

func (s *segmenter) emit(n doctree.Node) {
	s.blocks = append(s.blocks, n)
}

func (s *segmenter) addItem(kind doctree.Kind, number int, text string) {
	s.flushParagraph()
	if s.listKind != kind {
		s.closeList()
		s.listKind = kind
		s.listStart = number
	}
	s.items = append(s.items, doctree.ListItem(doctree.Paragraph(ParseInline(text)...)))
}

// closeBlock ends any open paragraph and list.
func (s *segmenter) closeBlock() {
	s.flushParagraph()
	s.closeList()
}

func (s *segmenter) flushParagraph() {
	if len(s.para) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(s.para, "\n"))
	s.para = nil
	if text == "" {
		return
	}
	s.emit(doctree.Paragraph(ParseInline(text)...))
}

func (s *segmenter) closeList() {
	if len(s.items) == 0 {
		s.listKind = ""
		return
	}
	switch s.listKind {
	case doctree.KindBulletList:
		s.emit(doctree.BulletList(s.items...))
	case doctree.KindOrderedList:
		s.emit(doctree.OrderedList(s.listStart, s.items...))
	}
	s.items = nil
	s.listKind = ""
	s.listStart = 0
}

// parseCodeBlock consumes a fenced block starting at lines[start] and
// returns the node and the index of the first line after it. An unclosed
// fence runs to the end of input.
func parseCodeBlock(lines []string, start int) (doctree.Node, int) {
	lang := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[start]), fence))

	i := start + 1
	var body []string
	for i < len(lines) {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), fence) {
			i++
			break
		}
		body = append(body, lines[i])
		i++
	}
	return doctree.CodeBlock(lang, strings.Join(body, "\n")), i
}
