package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/notedoc/internal/doctree"
	"github.com/dgallion1/notedoc/internal/markdown"
	"github.com/dgallion1/notedoc/internal/parser"
	"github.com/dgallion1/notedoc/internal/prompt"
	"github.com/dgallion1/notedoc/internal/stats"
)

// Worker processes a single document job.
type Worker struct {
	jobs    *JobStore
	ops     *stats.Ops
	log     *slog.Logger
	parsers parser.Options
}

func NewWorker(jobs *JobStore, ops *stats.Ops, log *slog.Logger, opts parser.Options) *Worker {
	return &Worker{
		jobs:    jobs,
		ops:     ops,
		log:     log,
		parsers: opts,
	}
}

// Process runs the full import pipeline for a job: parse, dedup, convert.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	if w.ops != nil {
		defer w.ops.Track("import")()
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parsers)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	src, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	title := src.Title
	if job.Title != "" {
		title = job.Title
	}

	// Phase 1.5: Dedup check on the parsed content.
	hash := ContentHashHex([]byte(src.Markdown))
	job.SetContentHash(hash)
	if !job.Force {
		if owner, ok := w.jobs.ClaimHash(hash, job.ID); !ok {
			log.Info("duplicate document, skipping", "duplicate_of", owner)
			job.MarkDuplicate(owner)
			return
		}
	}

	// Phase 2: Convert
	job.SetStatus(StatusConverting, "converting")
	doc := markdown.Convert(src.Markdown)
	if len(doc.Content) == 0 {
		log.Warn("no content produced")
		job.AddError("no convertible content")
		job.SetStatus(StatusFailed, "converting")
		w.jobs.ReleaseHash(hash, job.ID)
		return
	}

	job.Complete(title, doc, src.Pages, src.Author, buildPrompts(doc, title, src, job.Instructions))
	log.Info("import complete", "blocks", len(doc.Content), "pages", src.Pages)
}

// buildPrompts prepares the note-writing prompt for an imported document.
// The embedded title is only passed along when it reads like a real title.
func buildPrompts(doc doctree.Node, title string, src *parser.Source, instructions string) NotePrompts {
	text := doctree.PlainText(doc)
	meta := prompt.Metadata{Author: src.Author, PageCount: src.Pages}
	if prompt.UsableTitle(title) {
		meta.Title = title
	}

	p := NotePrompts{Note: prompt.DocumentNote(text, meta, instructions)}
	p.Tokens = prompt.EstimateTokens(p.Note)
	if meta.Title == "" {
		p.Title = prompt.TitlePrompt(text)
	}
	return p
}
