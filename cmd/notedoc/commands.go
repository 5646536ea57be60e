package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dgallion1/notedoc/internal/doctree"
	"github.com/dgallion1/notedoc/internal/logger"
	"github.com/dgallion1/notedoc/internal/markdown"
	"github.com/dgallion1/notedoc/internal/parser"
	"github.com/dgallion1/notedoc/internal/tools"
)

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    *log.Logger
}

func newCLILogger(w io.Writer) *log.Logger {
	level := slog.LevelWarn
	if os.Getenv("NOTEDOC_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return logger.NewCharm(w, level)
}

// readInput reads the named file, or stdin when name is "" or "-".
func (c *cli) readInput(name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(c.stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (c *cli) readDoc(args []string) (doctree.Node, error) {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	data, err := c.readInput(name)
	if err != nil {
		return doctree.Node{}, err
	}
	return doctree.Decode(data), nil
}

func (c *cli) writeDoc(doc doctree.Node) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (c *cli) convert(args []string) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	data, err := c.readInput(name)
	if err != nil {
		return err
	}
	doc := markdown.Convert(string(data))
	c.log.Debug("converted", "bytes", len(data), "blocks", len(doc.Content))
	return c.writeDoc(doc)
}

func (c *cli) text(args []string) error {
	doc, err := c.readDoc(args)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.stdout, doctree.PlainText(doc))
	return err
}

func (c *cli) preview(args []string) error {
	doc, err := c.readDoc(args)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.stdout, doctree.Preview(doc))
	return err
}

func (c *cli) importFile(args []string) error {
	var file, title string
	opts := parser.Options{}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--title":
			if i+1 >= len(args) {
				return errors.New("--title needs a value")
			}
			i++
			title = args[i]
		case "--pdftotext":
			opts.PDFFallbackPdftotext = true
		default:
			file = args[i]
		}
	}
	if file == "" {
		return errors.New("no input file specified")
	}

	p, err := parser.ForFile(file, opts)
	if err != nil {
		return err
	}
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	src, err := p.Parse(f, file)
	if err != nil {
		return err
	}
	if title == "" {
		title = src.Title
	}

	doc := markdown.Convert(src.Markdown)
	c.log.Debug("imported", "file", file, "pages", src.Pages, "blocks", len(doc.Content))

	fmt.Fprintln(c.stderr, titleStyle.Render(title))
	fmt.Fprintln(c.stderr, dimStyle.Render(doctree.Preview(doc)))
	fmt.Fprintln(c.stderr, successStyle.Render(fmt.Sprintf("✓ %d blocks", len(doc.Content))))
	return c.writeDoc(doc)
}

func (c *cli) listTools() error {
	fmt.Fprintln(c.stdout, titleStyle.Render("Note tools"))
	fmt.Fprintln(c.stdout)
	for _, d := range tools.NewRegistry().Descriptions() {
		fmt.Fprintf(c.stdout, "%s\n  %s\n", highlightStyle.Render(d.Name), dimStyle.Render(d.Description))
	}
	return nil
}

func (c *cli) callTool(args []string) error {
	if len(args) < 2 {
		return errors.New("usage: notedoc tool <name> <doc> [args-json]")
	}
	doc, err := c.readDoc(args[1:2])
	if err != nil {
		return err
	}
	var raw json.RawMessage
	if len(args) > 2 {
		raw = json.RawMessage(args[2])
	}

	out, err := tools.NewRegistry().Call(args[0], doc, raw)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stderr, successStyle.Render("✓ "+out.Message))
	return c.writeDoc(out.Doc)
}
