// Package edit applies note-editing operations to document trees. Every
// function validates its input and returns a new tree.
package edit

import (
	"fmt"
	"strings"

	"github.com/dgallion1/notedoc/internal/doctree"
	"github.com/dgallion1/notedoc/internal/markdown"
)

// Result is a rebuilt document plus a human-readable description of the
// change, suitable for returning to a chat model.
type Result struct {
	Doc     doctree.Node `json:"doc"`
	Message string       `json:"message"`
}

// Append adds text as one literal paragraph at the end of doc, after an
// empty spacer paragraph when doc already has content. The text is not
// parsed as Markdown.
func Append(doc doctree.Node, text string) doctree.Node {
	doc = doctree.Validate(doc)
	if strings.TrimSpace(text) == "" {
		return doc
	}
	return appendBlocks(doc, doctree.Paragraph(doctree.Text(text)))
}

// AppendMarkdown is Append with the text converted from Markdown first.
func AppendMarkdown(doc doctree.Node, md string) doctree.Node {
	doc = doctree.Validate(doc)
	blocks := markdown.Convert(md).Content
	if len(blocks) == 0 {
		return doc
	}
	return appendBlocks(doc, blocks...)
}

func appendBlocks(doc doctree.Node, blocks ...doctree.Node) doctree.Node {
	content := make([]doctree.Node, 0, len(doc.Content)+len(blocks)+1)
	content = append(content, doc.Content...)
	if len(content) > 0 {
		content = append(content, doctree.Paragraph())
	}
	content = append(content, blocks...)
	return doctree.Node{Type: doctree.KindDoc, Attrs: doc.Attrs, Content: content}
}

// Replace substitutes newText for oldText in the document's plain text and
// re-converts the result. Formatting outside the plain text is not kept.
//
// The message reports success whether or not oldText occurred.
func Replace(doc doctree.Node, oldText, newText string, all bool) Result {
	text := doctree.PlainText(doctree.Validate(doc))
	if oldText != "" {
		n := 1
		if all {
			n = -1
		}
		text = strings.Replace(text, oldText, newText, n)
	}

	msg := fmt.Sprintf("First occurrence of \"%s\" has been replaced with \"%s\".", oldText, newText)
	if all {
		msg = fmt.Sprintf("All occurrences of \"%s\" have been replaced with \"%s\".", oldText, newText)
	}
	return Result{Doc: markdown.Convert(text), Message: msg}
}

// Delete removes text (first occurrence or all) the same way Replace does.
func Delete(doc doctree.Node, text string, all bool) Result {
	r := Replace(doc, text, "", all)
	r.Message = fmt.Sprintf("First occurrence of \"%s\" has been deleted.", text)
	if all {
		r.Message = fmt.Sprintf("All occurrences of \"%s\" have been deleted.", text)
	}
	return r
}

// Rewrite replaces the whole note with converted Markdown.
func Rewrite(md string) Result {
	return Result{
		Doc:     markdown.Convert(md),
		Message: "Note has been completely rewritten with new content.",
	}
}
