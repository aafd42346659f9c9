package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/dgallion1/docoutline/internal/parser"
	"github.com/dgallion1/docoutline/internal/store"
)

// Outcome is a parsed document together with its inferred outline.
type Outcome struct {
	Source      *outline.Source
	Result      outline.Result
	ContentHash string
}

// Outline parses r with the parser registered for filename's extension and
// runs outline extraction on the result.
func Outline(r io.Reader, filename string, popts parser.Options, oopts outline.Options) (Outcome, error) {
	p, err := parser.ForFile(filename, popts)
	if err != nil {
		return Outcome{}, err
	}
	src, err := p.Parse(r, filename)
	if err != nil {
		return Outcome{}, fmt.Errorf("parse %s: %w", filename, err)
	}
	return Outcome{
		Source:      src,
		Result:      outline.Extract(*src, oopts),
		ContentHash: ContentHashHex([]byte(sourceText(src))),
	}, nil
}

// sourceText is the text a document is deduplicated on. PDF sources carry
// positioned items instead of text.
func sourceText(src *outline.Source) string {
	if src.Text != "" || len(src.Items) == 0 {
		return src.Text
	}
	var sb strings.Builder
	for i, it := range src.Items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(it.Text)
	}
	return sb.String()
}

// Worker turns a queued upload into a stored outline.
type Worker struct {
	docs  *store.Store
	stats *ExtractionStats
	log   *slog.Logger

	parseOpts   parser.Options
	outlineOpts outline.Options
}

func NewWorker(docs *store.Store, stats *ExtractionStats, log *slog.Logger, popts parser.Options, oopts outline.Options) *Worker {
	return &Worker{
		docs:        docs,
		stats:       stats,
		log:         log,
		parseOpts:   popts,
		outlineOpts: oopts,
	}
}

// Process runs parse, dedup, extraction and storage for one job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "cancelled")
		return
	}

	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parseOpts)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	start := time.Now()
	src, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	job.releaseFileData()
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		src.Title = job.Title
	}

	hash := ContentHashHex([]byte(sourceText(src)))
	job.SetContentHash(hash)

	if !job.Force {
		if existing, ok := w.docs.FindByHash(hash); ok && existing != job.DocID {
			log.Info("duplicate document, skipping", "existing_doc_id", existing)
			job.SetDocID(existing)
			job.SetStatus(StatusDupSkipped, "dedup")
			return
		}
	}

	job.SetStatus(StatusExtracting, "extracting")
	opts := w.outlineOpts
	opts.Logger = log
	res := outline.Extract(*src, opts)
	w.stats.Record(time.Since(start), string(res.Strategy))

	counts := doctree.CountSelected(res.Tree)
	job.SetResult(string(res.Strategy), counts.Total, counts.Selected)
	if res.Tree.Len() == 0 {
		log.Warn("document has no extractable text")
	}

	snap := job.Snapshot()
	w.docs.Put(store.Document{
		ID:          snap.DocID,
		Title:       src.Title,
		Filename:    job.Filename,
		Format:      string(src.Format),
		Strategy:    string(res.Strategy),
		ContentHash: hash,
		CreatedAt:   job.CreatedAt,
		Sections:    res.Tree,
	})

	log.Info("outline stored", "strategy", res.Strategy, "sections", counts.Total)
	job.SetStatus(StatusCompleted, "done")
}
