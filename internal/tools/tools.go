// Package tools exposes the note-editing operations as named tools for a
// chat model. The current note is always passed in by the caller; the
// registry holds no note state.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgallion1/notedoc/internal/doctree"
	"github.com/dgallion1/notedoc/internal/edit"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// Outcome is the updated note and the message handed back to the model.
type Outcome struct {
	Doc     doctree.Node `json:"doc"`
	Message string       `json:"message"`
}

// Description is the model-facing summary of a tool.
type Description struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type handler func(doc doctree.Node, args json.RawMessage) (Outcome, error)

type tool struct {
	description string
	run         handler
}

// Registry dispatches tool calls by name.
type Registry struct {
	tools map[string]tool
}

// NewRegistry returns a registry with the note-editing tools installed.
func NewRegistry() *Registry {
	return &Registry{tools: map[string]tool{
		"rewriteNote": {
			description: "Completely rewrite the entire note with new content. This replaces all existing content with the new text you provide.",
			run:         rewriteNote,
		},
		"appendToNote": {
			description: "Append text to the end of the note. The new content will be added after the existing content with appropriate spacing.",
			run:         appendToNote,
		},
		"replaceText": {
			description: "Replace specific text in the note. You can replace just the first occurrence or all occurrences of the text.",
			run:         replaceText,
		},
		"deleteText": {
			description: "Delete specific text from the note. You can delete just the first occurrence or all occurrences of the text.",
			run:         deleteText,
		},
	}}
}

// Descriptions lists the installed tools sorted by name.
func (r *Registry) Descriptions() []Description {
	out := make([]Description, 0, len(r.tools))
	for name, t := range r.tools {
		out = append(out, Description{Name: name, Description: t.description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Call runs the named tool against doc. The returned Outcome always holds a
// fresh tree; doc is never modified.
func (r *Registry) Call(name string, doc doctree.Node, args json.RawMessage) (Outcome, error) {
	t, ok := r.tools[name]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.run(doc, args)
}

func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

func rewriteNote(_ doctree.Node, args json.RawMessage) (Outcome, error) {
	var in struct {
		Text string `json:"text"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return Outcome{}, err
	}
	res := edit.Rewrite(in.Text)
	return Outcome{Doc: res.Doc, Message: res.Message}, nil
}

func appendToNote(doc doctree.Node, args json.RawMessage) (Outcome, error) {
	var in struct {
		Text string `json:"text"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Doc:     edit.Append(doc, in.Text),
		Message: "Text has been appended to the end of the note.",
	}, nil
}

func replaceText(doc doctree.Node, args json.RawMessage) (Outcome, error) {
	var in struct {
		OldText    string `json:"oldText"`
		NewText    string `json:"newText"`
		ReplaceAll bool   `json:"replaceAll"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return Outcome{}, err
	}
	res := edit.Replace(doc, in.OldText, in.NewText, in.ReplaceAll)
	return Outcome{Doc: res.Doc, Message: res.Message}, nil
}

func deleteText(doc doctree.Node, args json.RawMessage) (Outcome, error) {
	var in struct {
		Text      string `json:"text"`
		DeleteAll bool   `json:"deleteAll"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return Outcome{}, err
	}
	res := edit.Delete(doc, in.Text, in.DeleteAll)
	return Outcome{Doc: res.Doc, Message: res.Message}, nil
}
