package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/abiiranathan/pdfcount/logger"
)

// simpleBackend prints and saves the table directly.
type simpleBackend struct {
	log logger.Logger
}

// SimpleTable is the simple backend's rendering of a Table.
type SimpleTable struct {
	Table *Table
	log   logger.Logger
}

func (b simpleBackend) Name() string {
	return BackendSimple
}

func (b simpleBackend) Render(t *Table) (Exportable, error) {
	return &SimpleTable{Table: t, log: b.log}, nil
}

func (s *SimpleTable) Formats() []string {
	return []string{"csv", "tsv", "txt"}
}

// Print writes the table as aligned columns.
func (s *SimpleTable) Print(w io.Writer) error {
	return s.writeAligned(w)
}

func (s *SimpleTable) Export(path string) error {
	switch formatFor(path, s.Formats(), s.log) {
	case "tsv":
		return writeFile(path, func(w io.Writer) error { return s.writeDelimited(w, '\t') })
	case "txt":
		return writeFile(path, s.writeAligned)
	default:
		return writeFile(path, func(w io.Writer) error { return s.writeDelimited(w, ',') })
	}
}

func (s *SimpleTable) writeDelimited(w io.Writer, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := cw.Write(s.Table.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(s.Table.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func (s *SimpleTable) writeAligned(w io.Writer) error {
	return writeAligned(w, s.Table.Header(), s.Table.Rows)
}

// writeAligned prints header, a dash rule and every row as padded columns.
func writeAligned(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	rule := make([]string, len(header))
	for i, h := range header {
		rule[i] = strings.Repeat("-", max(len(h), 3))
	}

	lines := append([][]string{header, rule}, rows...)
	for _, line := range lines {
		if _, err := fmt.Fprintln(tw, strings.Join(line, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
