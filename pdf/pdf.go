package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abiiranathan/pdfcount/logger"
)

const (
	BackendPlain  = "plain"  // github.com/ledongthuc/pdf
	BackendLayout = "layout" // rsc.io/pdf
)

// Backends lists the names accepted by New.
var Backends = []string{BackendPlain, BackendLayout}

type Page struct {
	Num  int    // 1-based page number in the document
	Text string // Extracted text for the page.
}

// Document holds the text of the pages read from a PDF file.
type Document struct {
	Path     string
	NumPages int    // Total pages in the file, selected or not.
	Pages    []Page // Pages read, in page order.
	Failed   []int  // Selected pages whose text could not be read.
}

// Texts returns the page texts in page order.
func (d *Document) Texts() []string {
	texts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		texts[i] = p.Text
	}
	return texts
}

// Extractor produces the page texts of a PDF file.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, path string, pages PageRange) (*Document, error)
}

type Options struct {
	// Log progress every ProgressInterval pages. Zero disables it.
	ProgressInterval int
	Logger           logger.Logger
}

// New returns the extractor registered under name.
func New(name string, opts Options) (Extractor, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	switch name {
	case BackendPlain, "":
		return &plainExtractor{opts: opts}, nil
	case BackendLayout:
		return &layoutExtractor{opts: opts}, nil
	}
	return nil, fmt.Errorf("unknown pdf backend %q (expected one of %s)", name, strings.Join(Backends, ", "))
}

// pageSource is what each backend exposes to the shared page loop.
type pageSource interface {
	NumPages() int
	PageText(num int) (string, error)
}

// open returns the file and its size, ready for a ReaderAt based parser.
func open(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, stat.Size(), nil
}

// guard converts panics raised inside the pdf parsers into errors.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	return fn()
}

// readPages reads the selected pages from src. A page that fails is logged and
// skipped; the document fails only when no selected page could be read.
func readPages(path, backend string, src pageSource, pages PageRange, opts Options) (*Document, error) {
	var numPages int
	if err := guard(func() error { numPages = src.NumPages(); return nil }); err != nil {
		return nil, &ExtractionError{Path: path, Backend: backend, Err: err}
	}

	doc := &Document{Path: path, NumPages: numPages}
	selected := pages.Select(numPages)
	doc.Pages = make([]Page, 0, len(selected))

	var lastErr error
	for i, num := range selected {
		var text string
		err := guard(func() error {
			var err error
			text, err = src.PageText(num)
			return err
		})

		if err != nil {
			opts.Logger.Warn("unable to read page, skipping it",
				"file", filepath.Base(path), "page", num, "err", err.Error())
			doc.Failed = append(doc.Failed, num)
			lastErr = err
		} else {
			doc.Pages = append(doc.Pages, Page{Num: num, Text: text})
		}

		if opts.ProgressInterval > 0 && (i+1)%opts.ProgressInterval == 0 {
			opts.Logger.Info("extracting", "file", filepath.Base(path), "page", i+1, "of", len(selected))
		}
	}

	if len(doc.Pages) == 0 && lastErr != nil {
		return nil, &ExtractionError{Path: path, Backend: backend, Err: lastErr}
	}
	return doc, nil
}

// extract runs the shared open/parse/read sequence for a backend.
func extract(ctx context.Context, path, backend string, pages PageRange, opts Options,
	parse func(f *os.File, size int64) (pageSource, error)) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, size, err := open(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Backend: backend, Err: err}
	}
	defer f.Close()

	var src pageSource
	err = guard(func() error {
		var err error
		src, err = parse(f, size)
		return err
	})
	if err == nil && src == nil {
		err = errors.New("no reader returned")
	}
	if err != nil {
		return nil, &ExtractionError{Path: path, Backend: backend, Err: err}
	}
	return readPages(path, backend, src, pages, opts)
}
