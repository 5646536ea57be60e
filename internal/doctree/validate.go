package doctree

// Validate returns a copy of doc when its root is a doc, and an empty doc
// otherwise. Every mutation entry point calls it before touching a tree.
func Validate(doc Node) Node {
	if doc.Type != KindDoc {
		return Empty()
	}
	out := doc.Clone()
	if out.Content == nil {
		out.Content = []Node{}
	}
	return out
}

// Sanitize turns an arbitrary decoded JSON value into a doc.
//
// Anything that is not an object with type "doc" and an array "content"
// becomes an empty doc. Direct text children whose text is not a string get
// an empty string. Deeper nodes are decoded leniently: fields of the wrong
// JSON type are dropped, never reported.
func Sanitize(candidate any) Node {
	m, ok := candidate.(map[string]any)
	if !ok {
		return Empty()
	}
	if t, _ := m["type"].(string); t != string(KindDoc) {
		return Empty()
	}
	children, ok := m["content"].([]any)
	if !ok {
		return Empty()
	}

	doc := Node{Type: KindDoc, Content: make([]Node, 0, len(children))}
	for _, c := range children {
		cm, ok := c.(map[string]any)
		if !ok {
			continue
		}
		doc.Content = append(doc.Content, nodeFromMap(cm))
	}
	return doc
}

func nodeFromMap(m map[string]any) Node {
	t, _ := m["type"].(string)
	n := Node{Type: Kind(t)}

	if n.Type == KindText {
		// Non-string text (e.g. an accidentally nested object) becomes "".
		n.Text, _ = m["text"].(string)
	}
	if a, ok := m["attrs"].(map[string]any); ok {
		n.Attrs = attrsFromMap(a)
	}
	if marks, ok := m["marks"].([]any); ok {
		for _, mk := range marks {
			mm, ok := mk.(map[string]any)
			if !ok {
				continue
			}
			if mt, ok := mm["type"].(string); ok && mt != "" {
				n.Marks = append(n.Marks, Mark{Type: MarkType(mt)})
			}
		}
	}
	if content, ok := m["content"].([]any); ok {
		for _, c := range content {
			cm, ok := c.(map[string]any)
			if !ok {
				continue
			}
			n.Content = append(n.Content, nodeFromMap(cm))
		}
	}
	return n
}

func attrsFromMap(m map[string]any) *Attrs {
	a := &Attrs{
		Level:   intAttr(m["level"]),
		Start:   intAttr(m["start"]),
		Colspan: intAttr(m["colspan"]),
		Rowspan: intAttr(m["rowspan"]),
	}
	a.Language, _ = m["language"].(string)
	if *a == (Attrs{}) {
		return nil
	}
	return a
}

// intAttr accepts JSON numbers only; encoding/json decodes them as float64.
func intAttr(v any) int {
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	return int(f)
}
