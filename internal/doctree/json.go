package doctree

import "encoding/json"

// MarshalJSON always writes a doc's content array, even when empty, so
// stored notes keep the {"type":"doc","content":[]} shape the editor expects.
func (n Node) MarshalJSON() ([]byte, error) {
	type plain Node
	if n.Type != KindDoc {
		return json.Marshal(plain(n))
	}
	content := n.Content
	if content == nil {
		content = []Node{}
	}
	return json.Marshal(struct {
		Type    Kind   `json:"type"`
		Attrs   *Attrs `json:"attrs,omitempty"`
		Content []Node `json:"content"`
	}{Type: n.Type, Attrs: n.Attrs, Content: content})
}

// Decode parses stored or externally supplied JSON into a valid doc.
// Malformed input yields an empty doc rather than an error.
func Decode(data []byte) Node {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return Empty()
	}
	return Sanitize(v)
}
