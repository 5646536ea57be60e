package markdown

import (
	"regexp"
	"sort"

	"github.com/dgallion1/notedoc/internal/doctree"
)

// inlinePattern pairs a delimiter regexp with the marks it applies. The
// first capture group is the text between the delimiters.
type inlinePattern struct {
	re    *regexp.Regexp
	marks []doctree.MarkType
}

// Emphasis content may not start or end with whitespace, so the inner stars
// of "**bold**" never pair up as italic.
var inlinePatterns = []inlinePattern{
	{regexp.MustCompile(`\*\*\*([^*\s](?:[^*]*[^*\s])?)\*\*\*`), []doctree.MarkType{doctree.MarkBold, doctree.MarkItalic}},
	{regexp.MustCompile(`\*\*([^*\s](?:[^*]*[^*\s])?)\*\*`), []doctree.MarkType{doctree.MarkBold}},
	{regexp.MustCompile(`\*([^*\s](?:[^*]*[^*\s])?)\*`), []doctree.MarkType{doctree.MarkItalic}},
	{regexp.MustCompile("`([^`]+)`"), []doctree.MarkType{doctree.MarkCode}},
	{regexp.MustCompile(`~~([^~\s](?:[^~]*[^~\s])?)~~`), []doctree.MarkType{doctree.MarkStrike}},
}

type span struct {
	start, end int
	inner      string
	marks      []doctree.MarkType
}

// ParseInline splits a line into text runs carrying emphasis marks.
// Overlapping matches resolve to the earliest start, then to pattern order;
// a kept match is never re-scanned, so marks do not nest.
func ParseInline(s string) []doctree.Node {
	if s == "" {
		return []doctree.Node{doctree.Text("")}
	}

	var spans []span
	for _, p := range inlinePatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(s, -1) {
			spans = append(spans, span{
				start: m[0],
				end:   m[1],
				inner: s[m[2]:m[3]],
				marks: p.marks,
			})
		}
	}
	if len(spans) == 0 {
		return []doctree.Node{doctree.Text(s)}
	}

	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var nodes []doctree.Node
	pos := 0
	for _, sp := range spans {
		if sp.start < pos {
			continue
		}
		if sp.start > pos {
			nodes = append(nodes, doctree.Text(s[pos:sp.start]))
		}
		nodes = append(nodes, doctree.Text(sp.inner, sp.marks...))
		pos = sp.end
	}
	if pos < len(s) {
		nodes = append(nodes, doctree.Text(s[pos:]))
	}
	return nodes
}
