package table

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/abiiranathan/pdfcount/logger"
)

const (
	BackendSimple = "simple"
	BackendFrame  = "frame"
)

// Backends lists the names accepted by NewBackend.
var Backends = []string{BackendSimple, BackendFrame}

var ErrOutput = errors.New("unable to write output")

// OutputError reports a failure to write the exported table.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error {
	return e.Err
}

func (e *OutputError) Is(target error) bool {
	return target == ErrOutput
}

// Exportable is a rendered table that can be printed and saved.
type Exportable interface {
	Print(w io.Writer) error
	Export(path string) error
	// Formats lists the file extensions Export understands. The first is the fallback.
	Formats() []string
}

// Backend renders aggregated tables.
type Backend interface {
	Name() string
	Render(t *Table) (Exportable, error)
}

// NewBackend returns the output backend registered under name.
func NewBackend(name string, log logger.Logger) (Backend, error) {
	if log == nil {
		log = logger.Discard()
	}

	switch name {
	case BackendSimple, "":
		return simpleBackend{log: log}, nil
	case BackendFrame:
		return frameBackend{log: log}, nil
	}
	return nil, fmt.Errorf("unknown output backend %q (expected one of %s)", name, strings.Join(Backends, ", "))
}

// formatFor picks the export format from the path extension.
func formatFor(path string, formats []string, log logger.Logger) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if slices.Contains(formats, ext) {
		return ext
	}
	log.Warn("unsupported output extension, writing "+formats[0], "path", path, "supported", strings.Join(formats, ","))
	return formats[0]
}

// writeFile creates path and hands it to write, reporting failures as OutputError.
func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return &OutputError{Path: path, Err: err}
	}

	if err := write(f); err != nil {
		f.Close()
		return &OutputError{Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &OutputError{Path: path, Err: err}
	}
	return nil
}
