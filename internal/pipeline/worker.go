package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/freeform/internal/document"
	"github.com/dgallion1/freeform/internal/parser"
	"github.com/dgallion1/freeform/internal/signature"
)

// Worker processes a single import job.
type Worker struct {
	signer    *signature.Signer
	jobs      *JobStore
	log       *slog.Logger
	parseOpts parser.Options

	maxConcurrentSign int
}

func NewWorker(signer *signature.Signer, jobs *JobStore, log *slog.Logger, parseOpts parser.Options, maxSign int) *Worker {
	if maxSign <= 0 {
		maxSign = 1
	}
	return &Worker{
		signer:            signer,
		jobs:              jobs,
		log:               log,
		parseOpts:         parseOpts,
		maxConcurrentSign: maxSign,
	}
}

// Process runs the full import pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parseOpts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	tree, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		tree.Title = job.Title
	}

	text := tree.Markup()
	hash := ContentHashHex([]byte(text))
	job.SetContentHash(hash)

	// Phase 1.5: Dedup check
	if existing, ok := w.jobs.FindImported(hash); ok && existing != job.ID {
		log.Info("duplicate import, skipping", "existing_job_id", existing)
		job.SetDuplicateOf(existing)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 2: Segment
	job.SetStatus(StatusSegmenting, "segmenting")
	doc := document.Segment(text)
	job.SetTotalQuestions(len(doc.Questions))
	log.Info("segmented document", "lines", len(doc.Lines), "questions", len(doc.Questions))

	if len(doc.Questions) == 0 {
		log.Warn("no questions found")
		job.AddError("no questions found")
		job.SetStatus(StatusFailed, "segmenting")
		return
	}

	// Phase 3: Sign reference answers with bounded concurrency.
	job.SetStatus(StatusSigning, "signing")
	type signResult struct {
		res signature.Result
		err error
		idx int
	}
	results := make(chan signResult, len(doc.Questions))
	sem := make(chan struct{}, w.maxConcurrentSign)

	for i := range doc.Questions {
		ref, _ := doc.ReferenceText(i)
		sem <- struct{}{}
		go func(i int, ref string) {
			defer func() { <-sem }()
			res, err := w.signer.Signature(ctx, ref)
			results <- signResult{res: res, err: err, idx: i}
		}(i, ref)
	}

	signed := make([]SignedQuestion, len(doc.Questions))
	failed := 0
	for range doc.Questions {
		r := <-results
		signed[r.idx].Question = doc.Questions[r.idx]
		if r.err != nil {
			log.Error("signing failed", "question", r.idx, "error", r.err)
			job.AddError(fmt.Sprintf("question %d: %s", r.idx, r.err))
			failed++
			continue
		}
		signed[r.idx].Reference = r.res.Input
		signed[r.idx].Signature = r.res.Signature
		job.IncrQuestionsSigned()
	}

	job.SetResult(&Result{
		Title:     tree.Title,
		Text:      text,
		Lines:     len(doc.Lines),
		Questions: signed,
	})
	log.Info("import complete", "signed", len(signed)-failed, "failed", failed)

	switch {
	case failed == len(signed):
		job.SetStatus(StatusFailed, "signing")
	case failed > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		w.jobs.MarkImported(hash, job.ID)
		job.SetStatus(StatusCompleted, "done")
	}
}
