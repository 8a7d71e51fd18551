package table

import (
	"fmt"
	"io"
	"strconv"

	"github.com/abiiranathan/pdfcount/logger"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// frameBackend renders the table into a typed gota DataFrame.
type frameBackend struct {
	log logger.Logger
}

// FrameTable wraps the DataFrame for callers that want to keep working with it.
type FrameTable struct {
	df  dataframe.DataFrame
	log logger.Logger
}

func (b frameBackend) Name() string {
	return BackendFrame
}

func (b frameBackend) Render(t *Table) (Exportable, error) {
	cols := make([]series.Series, len(t.Columns))
	for j, c := range t.Columns {
		if c.Numeric {
			values := make([]int, len(t.Rows))
			for i, row := range t.Rows {
				n, err := strconv.Atoi(row[j])
				if err != nil {
					return nil, fmt.Errorf("column %s row %d: %w", c.Name, i, err)
				}
				values[i] = n
			}
			cols[j] = series.New(values, series.Int, c.Name)
			continue
		}

		values := make([]string, len(t.Rows))
		for i, row := range t.Rows {
			values[i] = row[j]
		}
		cols[j] = series.New(values, series.String, c.Name)
	}

	df := dataframe.New(cols...)
	if df.Err != nil {
		return nil, df.Err
	}
	return &FrameTable{df: df, log: b.log}, nil
}

// DataFrame returns the rendered frame.
func (f *FrameTable) DataFrame() dataframe.DataFrame {
	return f.df
}

func (f *FrameTable) Formats() []string {
	return []string{"csv", "json"}
}

// Print writes every row of the frame as aligned columns.
func (f *FrameTable) Print(w io.Writer) error {
	records := f.df.Records()
	if len(records) == 0 {
		return nil
	}
	return writeAligned(w, records[0], records[1:])
}

func (f *FrameTable) Export(path string) error {
	if formatFor(path, f.Formats(), f.log) == "json" {
		return writeFile(path, f.df.WriteJSON)
	}
	return writeFile(path, func(w io.Writer) error { return f.df.WriteCSV(w) })
}
