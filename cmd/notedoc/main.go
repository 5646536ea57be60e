package main

import (
	"fmt"
	"io"
	"os"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 1
	}

	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr, log: newCLILogger(stderr)}

	var err error
	switch args[0] {
	case "convert":
		err = c.convert(args[1:])
	case "text":
		err = c.text(args[1:])
	case "preview":
		err = c.preview(args[1:])
	case "import":
		err = c.importFile(args[1:])
	case "tools":
		err = c.listTools()
	case "tool":
		err = c.callTool(args[1:])
	case "version", "-v", "--version":
		fmt.Fprintf(stdout, "notedoc v%s\n", version)
	case "help", "-h", "--help":
		printUsage(stdout)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return 1
	}

	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("✗ "+err.Error()))
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	usage := `notedoc - Convert Markdown into editor note documents

Usage:
  notedoc <command> [options]

Commands:
  convert [file]                   Convert Markdown (file or stdin) to a note document
  text [file]                      Print the plain text of a note document
  preview [file]                   Print the one-line preview of a note document
  import <file> [--title T]        Import a .txt/.md/.csv/.html/.pdf/.docx file as a note
  tools                            List the note-editing tools
  tool <name> <doc> [args-json]    Run a tool against a note document ("-" reads stdin)
  version                          Show version information
  help                             Show this help message

Examples:
  notedoc convert notes.md > note.json
  notedoc text note.json
  notedoc import report.pdf --title "Q3 report"
  notedoc tool replaceText note.json '{"oldText":"foo","newText":"bar"}'
`
	fmt.Fprint(w, usage)
}
