package search

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiiranathan/pdfcount/alg"
	"github.com/abiiranathan/pdfcount/database"
	"github.com/abiiranathan/pdfcount/logger"
	"github.com/abiiranathan/pdfcount/pdf"
	"github.com/abiiranathan/pdfcount/table"
	"github.com/google/uuid"
)

// Skipped is a file left out of the table because it could not be read.
type Skipped struct {
	Path string
	Err  error
}

type Result struct {
	RunID    string
	Files    []string         // Resolved inputs, in input order.
	Table    *table.Table     // One row per file read.
	Output   table.Exportable // Table rendered by the chosen backend.
	Skipped  []Skipped
	TopTerms []alg.Term // Set when Options.Top > 0.
}

// outcome is what a worker hands back for one file.
type outcome struct {
	path   string
	record table.Record
	terms  map[string]int
	err    error
}

type searcher struct {
	req       *Request
	extractor pdf.Extractor
	log       logger.Logger
}

// SearchPDFs counts words in the PDF files matched by pdfs and returns the
// assembled table. Files that fail to extract are logged and skipped.
//
// With more than one worker the row order follows completion order unless a
// sort is requested.
func SearchPDFs(ctx context.Context, pdfs []string, words []string, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
		opts.Logger = log
	}

	req, err := NewRequest(words, opts)
	if err != nil {
		return nil, err
	}

	files, err := ResolveInputs(pdfs)
	if err != nil {
		return nil, err
	}

	extractor, err := pdf.New(req.Extractor, pdf.Options{ProgressInterval: opts.PageProgress, Logger: log})
	if err != nil {
		return nil, &ConfigError{Option: "extractor", Value: req.Extractor, Err: err}
	}

	if opts.CachePath != "" {
		cache, err := database.Open(opts.CachePath, log)
		if err != nil {
			return nil, &ConfigError{Option: "cache", Value: opts.CachePath, Err: err}
		}
		defer cache.Close()
		extractor = database.NewCachedExtractor(extractor, cache, log)
	}

	backend, err := table.NewBackend(req.Backend, log)
	if err != nil {
		return nil, &ConfigError{Option: "backend", Value: req.Backend, Err: err}
	}

	result := &Result{RunID: uuid.NewString(), Files: files}
	log.Info("counting words", "run_id", result.RunID, "files", len(files), "words", strings.Join(req.Words, ","),
		"workers", req.Workers, "extractor", extractor.Name(), "backend", backend.Name())

	s := &searcher{req: req, extractor: extractor, log: log}

	var outcomes []outcome
	if req.Workers > 1 {
		outcomes, err = s.runParallel(ctx, files)
	} else {
		outcomes, err = s.runSerial(ctx, files)
	}
	if err != nil {
		return nil, err
	}

	records := make([]table.Record, 0, len(outcomes))
	vocabulary := make(map[string]int)
	for _, out := range outcomes {
		if out.err != nil {
			log.Warn("skipping file", "file", out.path, "err", out.err.Error())
			result.Skipped = append(result.Skipped, Skipped{Path: out.path, Err: out.err})
			continue
		}
		records = append(records, out.record)
		alg.Merge(vocabulary, out.terms)
	}

	result.Table = table.Aggregate(records, req.Layout, req.Order, log)
	if opts.Top > 0 {
		result.TopTerms = alg.TopTerms(vocabulary, opts.Top)
	}

	result.Output, err = backend.Render(result.Table)
	if err != nil {
		return result, fmt.Errorf("unable to render table: %w", err)
	}

	if opts.Show {
		stdout := opts.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		if err := result.Output.Print(stdout); err != nil {
			return result, &table.OutputError{Path: "stdout", Err: err}
		}
		if err := printTerms(stdout, result.TopTerms); err != nil {
			return result, &table.OutputError{Path: "stdout", Err: err}
		}
	}

	if opts.Outfile != "" {
		if err := result.Output.Export(opts.Outfile); err != nil {
			return result, err
		}
		log.Info("results saved", "path", opts.Outfile)
	}

	log.Info("finished", "run_id", result.RunID, "rows", result.Table.Len(), "skipped", len(result.Skipped))
	return result, nil
}

// searchFile runs the whole pipeline for one file.
func (s *searcher) searchFile(ctx context.Context, index int, path string) outcome {
	doc, err := s.extractor.Extract(ctx, path, s.req.Pages)
	if err != nil {
		return outcome{path: path, err: err}
	}

	if len(doc.Failed) > 0 {
		s.log.Warn("counting the pages that could be read", "file", filepath.Base(path),
			"read", len(doc.Pages), "failed", len(doc.Failed))
	}

	raw := doc.Texts()
	normalized := make([]string, len(raw))
	for i, text := range raw {
		normalized[i] = s.req.Normalizer.Apply(text)
	}

	counts, err := s.req.Counter.Count(normalized)
	if err != nil {
		return outcome{path: path, err: err}
	}

	base, meta := s.req.Filename.Parse(path)
	out := outcome{
		path: path,
		record: table.Record{
			Index:  index,
			File:   base,
			Pages:  len(doc.Pages) + len(doc.Failed),
			Meta:   meta,
			Counts: counts,
		},
	}

	if s.req.Options.Top > 0 {
		out.terms, err = alg.TermFrequencies(strings.Join(raw, "\n"))
		if err != nil {
			s.log.Warn("unable to collect vocabulary", "file", filepath.Base(path), "err", err.Error())
		}
	}

	s.log.Debug("counted", "file", base, "pages", out.record.Pages)
	return out
}

func printTerms(w io.Writer, terms []alg.Term) error {
	if len(terms) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nTop terms:"); err != nil {
		return err
	}
	for _, t := range terms {
		if _, err := fmt.Fprintf(w, "  %-24s %d\n", t.Text, t.Count); err != nil {
			return err
		}
	}
	return nil
}
