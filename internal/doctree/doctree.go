package doctree

// Kind identifies a node in the editor document tree. The string values are
// the editor's JSON "type" names.
type Kind string

const (
	KindDoc         Kind = "doc"
	KindParagraph   Kind = "paragraph"
	KindHeading     Kind = "heading"
	KindBulletList  Kind = "bulletList"
	KindOrderedList Kind = "orderedList"
	KindListItem    Kind = "listItem"
	KindBlockquote  Kind = "blockquote"
	KindCodeBlock   Kind = "codeBlock"
	KindTable       Kind = "table"
	KindTableRow    Kind = "tableRow"
	KindTableHeader Kind = "tableHeader"
	KindTableCell   Kind = "tableCell"
	KindText        Kind = "text"
)

var knownKinds = map[Kind]bool{
	KindDoc:         true,
	KindParagraph:   true,
	KindHeading:     true,
	KindBulletList:  true,
	KindOrderedList: true,
	KindListItem:    true,
	KindBlockquote:  true,
	KindCodeBlock:   true,
	KindTable:       true,
	KindTableRow:    true,
	KindTableHeader: true,
	KindTableCell:   true,
	KindText:        true,
}

// Known reports whether k is one of the node kinds this package produces.
func (k Kind) Known() bool {
	return knownKinds[k]
}

// IsBlock reports whether k may appear as a direct child of a doc.
func (k Kind) IsBlock() bool {
	switch k {
	case KindParagraph, KindHeading, KindBulletList, KindOrderedList,
		KindBlockquote, KindCodeBlock, KindTable:
		return true
	}
	return false
}

// MarkType is a style annotation on a text leaf.
type MarkType string

const (
	MarkBold   MarkType = "bold"
	MarkItalic MarkType = "italic"
	MarkCode   MarkType = "code"
	MarkStrike MarkType = "strike"
)

// Mark is the JSON form of a style annotation.
type Mark struct {
	Type MarkType `json:"type"`
}

// Attrs holds the per-kind attributes. Only the fields relevant to a node's
// kind are set.
type Attrs struct {
	Level    int    `json:"level,omitempty"`    // heading 1-6
	Language string `json:"language,omitempty"` // codeBlock fence tag
	Start    int    `json:"start,omitempty"`    // orderedList first number
	Colspan  int    `json:"colspan,omitempty"`  // table cells
	Rowspan  int    `json:"rowspan,omitempty"`  // table cells
}

// Node is one node of a document tree. Trees are treated as values: the
// functions in this module never modify a Node they were handed.
type Node struct {
	Type    Kind   `json:"type"`
	Attrs   *Attrs `json:"attrs,omitempty"`
	Content []Node `json:"content,omitempty"`
	Text    string `json:"text,omitempty"`
	Marks   []Mark `json:"marks,omitempty"`
}

// HasMark reports whether a text node carries the given mark.
func (n Node) HasMark(m MarkType) bool {
	for _, mk := range n.Marks {
		if mk.Type == m {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	out := Node{Type: n.Type, Text: n.Text}
	if n.Attrs != nil {
		a := *n.Attrs
		out.Attrs = &a
	}
	if n.Marks != nil {
		out.Marks = make([]Mark, len(n.Marks))
		copy(out.Marks, n.Marks)
	}
	if n.Content != nil {
		out.Content = make([]Node, len(n.Content))
		for i, c := range n.Content {
			out.Content[i] = c.Clone()
		}
	}
	return out
}

// NewDoc returns a doc holding copies of the given blocks.
func NewDoc(blocks ...Node) Node {
	content := make([]Node, 0, len(blocks))
	for _, b := range blocks {
		content = append(content, b.Clone())
	}
	return Node{Type: KindDoc, Content: content}
}

// Empty returns a doc with no children.
func Empty() Node {
	return Node{Type: KindDoc, Content: []Node{}}
}

// Text returns a text leaf with the given marks.
func Text(s string, marks ...MarkType) Node {
	n := Node{Type: KindText, Text: s}
	for _, m := range marks {
		n.Marks = append(n.Marks, Mark{Type: m})
	}
	return n
}

// Paragraph wraps inline runs in a paragraph. Empty text runs are dropped
// because the editor rejects empty text nodes.
func Paragraph(inline ...Node) Node {
	return Node{Type: KindParagraph, Content: nonEmpty(inline)}
}

// Heading returns a heading of the given level, clamped to 1-6.
func Heading(level int, inline ...Node) Node {
	level = max(1, min(level, 6))
	return Node{Type: KindHeading, Attrs: &Attrs{Level: level}, Content: nonEmpty(inline)}
}

func BulletList(items ...Node) Node {
	return Node{Type: KindBulletList, Content: copyNodes(items)}
}

// OrderedList returns an ordered list numbered from start.
func OrderedList(start int, items ...Node) Node {
	if start < 1 {
		start = 1
	}
	return Node{Type: KindOrderedList, Attrs: &Attrs{Start: start}, Content: copyNodes(items)}
}

func ListItem(blocks ...Node) Node {
	return Node{Type: KindListItem, Content: copyNodes(blocks)}
}

func Blockquote(blocks ...Node) Node {
	return Node{Type: KindBlockquote, Content: copyNodes(blocks)}
}

// CodeBlock holds raw code as a single unmarked text leaf.
func CodeBlock(language, code string) Node {
	n := Node{Type: KindCodeBlock}
	if language != "" {
		n.Attrs = &Attrs{Language: language}
	}
	if code != "" {
		n.Content = []Node{Text(code)}
	}
	return n
}

func Table(rows ...Node) Node {
	return Node{Type: KindTable, Content: copyNodes(rows)}
}

func TableRow(cells ...Node) Node {
	return Node{Type: KindTableRow, Content: copyNodes(cells)}
}

// HeaderCell returns a 1x1 header cell containing one paragraph.
func HeaderCell(inline ...Node) Node {
	return Node{Type: KindTableHeader, Attrs: cellAttrs(), Content: []Node{Paragraph(inline...)}}
}

// DataCell returns a 1x1 data cell containing one paragraph.
func DataCell(inline ...Node) Node {
	return Node{Type: KindTableCell, Attrs: cellAttrs(), Content: []Node{Paragraph(inline...)}}
}

func cellAttrs() *Attrs {
	return &Attrs{Colspan: 1, Rowspan: 1}
}

func nonEmpty(inline []Node) []Node {
	var out []Node
	for _, n := range inline {
		if n.Type == KindText && n.Text == "" {
			continue
		}
		out = append(out, n.Clone())
	}
	return out
}

func copyNodes(nodes []Node) []Node {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}
