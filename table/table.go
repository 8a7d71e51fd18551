package table

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/abiiranathan/pdfcount/logger"
)

const (
	columnFile  = "file"
	columnPages = "pages"
)

// Record is the result for one file. It becomes exactly one row.
type Record struct {
	Index  int               // Position of the file in the resolved input list.
	File   string            // Base name shown in the file column.
	Pages  int               // Number of pages counted.
	Meta   map[string]string // Filename derived columns.
	Counts map[string]int    // Occurrences per searched word.
}

// Layout fixes the columns of a run.
type Layout struct {
	Meta      []string // Metadata columns, in order.
	Words     []string // One count column per word, in order.
	OmitFile  bool
	OmitPages bool
}

// Order is a multi-column sort specification.
type Order struct {
	Columns    []string
	Descending bool
}

type Column struct {
	Name    string
	Numeric bool
}

// Table is the aggregated result. Cells are kept as text; numeric columns hold
// base 10 integers.
type Table struct {
	Columns []Column
	Rows    [][]string
}

// Header returns the column names.
func (t *Table) Header() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column or -1.
func (t *Table) ColumnIndex(name string) int {
	return slices.IndexFunc(t.Columns, func(c Column) bool { return c.Name == name })
}

// Value returns the cell at row, column name.
func (t *Table) Value(row int, name string) (string, bool) {
	i := t.ColumnIndex(name)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return "", false
	}
	return t.Rows[row][i], true
}

// Columns returns the column list described by l.
func (l Layout) Columns() []Column {
	var cols []Column
	if !l.OmitFile {
		cols = append(cols, Column{Name: columnFile})
	}
	for _, m := range l.Meta {
		cols = append(cols, Column{Name: m})
	}
	if !l.OmitPages {
		cols = append(cols, Column{Name: columnPages, Numeric: true})
	}
	for _, w := range l.Words {
		cols = append(cols, Column{Name: w, Numeric: true})
	}
	return cols
}

// Aggregate builds the table from records received in any order. Without a
// sort the arrival order is kept. With one, rows are put in input order first
// so that ties keep it.
func Aggregate(records []Record, layout Layout, order Order, log logger.Logger) *Table {
	if log == nil {
		log = logger.Discard()
	}

	t := &Table{Columns: layout.Columns()}
	records = slices.Clone(records)

	keys := sortKeys(t, order.Columns, log)
	if len(keys) > 0 {
		slices.SortStableFunc(records, func(a, b Record) int {
			return cmp.Compare(a.Index, b.Index)
		})
	}

	t.Rows = make([][]string, len(records))
	for i, rec := range records {
		t.Rows[i] = layout.row(rec)
	}

	if len(keys) > 0 {
		t.sort(keys, order.Descending)
	}
	return t
}

func (l Layout) row(rec Record) []string {
	row := make([]string, 0, len(l.Meta)+len(l.Words)+2)
	if !l.OmitFile {
		row = append(row, rec.File)
	}
	for _, m := range l.Meta {
		row = append(row, rec.Meta[m])
	}
	if !l.OmitPages {
		row = append(row, strconv.Itoa(rec.Pages))
	}
	for _, w := range l.Words {
		row = append(row, strconv.Itoa(rec.Counts[w]))
	}
	return row
}

// sortKeys resolves sort column names to indices, dropping unknown ones.
func sortKeys(t *Table, names []string, log logger.Logger) []int {
	keys := make([]int, 0, len(names))
	for _, name := range names {
		i := t.ColumnIndex(name)
		if i < 0 {
			log.Warn("ignoring unknown sort column", "column", name)
			continue
		}
		keys = append(keys, i)
	}
	return keys
}

func (t *Table) sort(keys []int, descending bool) {
	slices.SortStableFunc(t.Rows, func(a, b []string) int {
		for _, k := range keys {
			var c int
			if t.Columns[k].Numeric {
				x, _ := strconv.Atoi(a[k])
				y, _ := strconv.Atoi(b[k])
				c = cmp.Compare(x, y)
			} else {
				c = cmp.Compare(a[k], b[k])
			}
			if c != 0 {
				if descending {
					return -c
				}
				return c
			}
		}
		return 0
	})
}
