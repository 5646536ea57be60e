package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

// DocumentAutoPrompt is the default instruction for turning an imported
// document into a note.
const DocumentAutoPrompt = `Analyze this document and create a comprehensive, well-structured note. Include:
- A brief summary of the main topic
- Key points and important information organized with headings
- Any notable details, facts, or takeaways
- Use markdown formatting to make the notes clear and scannable

Focus on capturing the essential information in a way that would be useful for reviewing and studying later.`

// MaxDocumentChars bounds the document text placed in a prompt (~5000
// tokens at 4 chars/token).
const MaxDocumentChars = 20000

const truncationMarker = "\n\n[... document continues ...]"

var transformations = map[string]string{
	"summarize":     "Please summarize the following text in a clear and concise way:",
	"expand":        "Please expand on the following text, adding more detail and context:",
	"simplify":      "Please simplify the following text, making it easier to understand:",
	"formal":        "Please rewrite the following text in a more formal tone:",
	"casual":        "Please rewrite the following text in a more casual, conversational tone:",
	"bullet-points": "Please convert the following text into bullet points:",
	"paragraph":     "Please convert the following bullet points or list into a flowing paragraph:",
}

// Transformation builds the prompt for a one-shot rewrite of note text.
// Unknown kinds fall back to a generic "Please <kind>" instruction.
func Transformation(kind, content string) string {
	instr, ok := transformations[kind]
	if !ok {
		instr = fmt.Sprintf("Please %s the following text:", kind)
	}
	return instr + "\n\n" + content
}

// TransformationKinds lists the built-in transformation names.
func TransformationKinds() []string {
	return []string{"summarize", "expand", "simplify", "formal", "casual", "bullet-points", "paragraph"}
}

// Metadata describes the source document of an import.
type Metadata struct {
	Title     string
	Author    string
	PageCount int
}

// DocumentNote builds the prompt that asks a model to write a note from
// extracted document text. custom, when set, replaces the default
// instructions.
func DocumentNote(text string, meta Metadata, custom string) string {
	if r := []rune(text); len(r) > MaxDocumentChars {
		text = string(r[:MaxDocumentChars]) + truncationMarker
	}

	var sb strings.Builder
	if meta.Title != "" {
		sb.WriteString(fmt.Sprintf("Document Title: %q\n", meta.Title))
		if meta.Author != "" {
			sb.WriteString(fmt.Sprintf("Author: %s\n", meta.Author))
		}
		sb.WriteString(fmt.Sprintf("Pages: %d\n\n", meta.PageCount))
	}
	sb.WriteString("I have a document with the following content:\n\n")
	sb.WriteString(text)
	sb.WriteString("\n\n")
	if custom != "" {
		sb.WriteString("Please ")
		sb.WriteString(custom)
	} else {
		sb.WriteString(DocumentAutoPrompt)
	}
	return sb.String()
}

var (
	versionTitleRe   = regexp.MustCompile(`^[A-Z]?\d+(\.\d+){1,3}$`)
	referenceTitleRe = regexp.MustCompile(`^[A-Z]{1,3}[.\-]?\d+[.\-]?\d*[.\-]?\d*$`)
)

// UsableTitle reports whether a document's embedded title is worth using as
// a note title. Version numbers ("1.2.3") and reference codes ("AB-123")
// are rejected.
func UsableTitle(title string) bool {
	title = strings.TrimSpace(title)
	n := len([]rune(title))
	if n < 5 || n > 80 {
		return false
	}
	if versionTitleRe.MatchString(title) || referenceTitleRe.MatchString(title) {
		return false
	}
	return true
}

// TitlePrompt asks for a short title for generated note content.
func TitlePrompt(content string) string {
	if r := []rune(content); len(r) > 1000 {
		content = string(r[:1000])
	}
	return "Generate a concise, descriptive title for notes based on this content. Maximum 10 words or 80 characters.\n\n" +
		"Content: " + content + "\n\nOnly return the title, nothing else, no explanation, and no quotes."
}
