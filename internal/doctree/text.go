package doctree

import "strings"

const previewLimit = 80

// PlainText flattens a document to plain text. Top-level blocks are joined
// with newlines; everything below the root is concatenated directly.
func PlainText(doc Node) string {
	if doc.Type != KindDoc {
		return flatten(doc)
	}
	parts := make([]string, 0, len(doc.Content))
	for _, c := range doc.Content {
		parts = append(parts, flatten(c))
	}
	return strings.Join(parts, "\n")
}

func flatten(n Node) string {
	if n.Type == KindText {
		return n.Text
	}
	if len(n.Content) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, c := range n.Content {
		sb.WriteString(flatten(c))
	}
	return sb.String()
}

// Preview returns the short summary shown in note lists: top-level blocks
// joined with spaces, cut at 80 runes.
func Preview(doc Node) string {
	const fallback = "New note..."
	if len(doc.Content) == 0 {
		return fallback
	}
	parts := make([]string, 0, len(doc.Content))
	for _, c := range doc.Content {
		parts = append(parts, flatten(c))
	}
	full := strings.Join(parts, " ")
	if r := []rune(full); len(r) > previewLimit {
		return string(r[:previewLimit]) + "..."
	}
	if full == "" {
		return fallback
	}
	return full
}
