package search_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"testing"

	"github.com/abiiranathan/pdfcount/pdf/pdftest"
	"github.com/abiiranathan/pdfcount/search"
	"github.com/abiiranathan/pdfcount/table"
	"github.com/stretchr/testify/require"
)

// corpus writes a small set of PDFs and returns the directory.
func corpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string][]string{
		"Alpha_2019.pdf": {"rocket science rocket", "rocket launch"},
		"Beta_2021.pdf":  {"nothing to see", "rocket"},
		"Gamma_2020.pdf": {"rocket launch", "launch pad", "rocket rocket"},
		"Delta_1999.pdf": {"no match at all"},
	}
	for name, pages := range files {
		if err := pdftest.Write(filepath.Join(dir, name), pages...); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func counts(t *testing.T, tbl *table.Table, column string) map[string]int {
	t.Helper()
	out := make(map[string]int, tbl.Len())
	for i := range tbl.Rows {
		file, ok := tbl.Value(i, "file")
		require.True(t, ok)
		v, ok := tbl.Value(i, column)
		require.True(t, ok, "missing column %s", column)
		n, err := strconv.Atoi(v)
		require.NoError(t, err)
		out[file] = n
	}
	return out
}

func TestSearchPDFs(t *testing.T) {
	assert := require.New(t)
	dir := corpus(t)

	res, err := search.SearchPDFs(context.Background(), []string{dir}, []string{"rocket", "launch"}, search.Options{})
	assert.NoError(err)
	assert.NotEmpty(res.RunID)
	assert.Len(res.Files, 4)
	assert.Empty(res.Skipped)

	tbl := res.Table
	assert.Equal([]string{"file", "pages", "rocket", "launch"}, tbl.Header())
	assert.Equal(4, tbl.Len())

	// Serial runs keep input order, which is sorted.
	var files []string
	for i := range tbl.Rows {
		f, _ := tbl.Value(i, "file")
		files = append(files, f)
	}
	assert.Equal([]string{"Alpha_2019", "Beta_2021", "Delta_1999", "Gamma_2020"}, files)

	assert.Equal(map[string]int{"Alpha_2019": 3, "Beta_2021": 1, "Delta_1999": 0, "Gamma_2020": 3}, counts(t, tbl, "rocket"))
	assert.Equal(map[string]int{"Alpha_2019": 1, "Beta_2021": 0, "Delta_1999": 0, "Gamma_2020": 2}, counts(t, tbl, "launch"))
	assert.Equal(map[string]int{"Alpha_2019": 2, "Beta_2021": 2, "Delta_1999": 1, "Gamma_2020": 3}, counts(t, tbl, "pages"))
}

func TestSearchPDFsSkipsUnreadableFiles(t *testing.T) {
	assert := require.New(t)
	dir := corpus(t)
	broken := filepath.Join(dir, "Broken.pdf")
	assert.NoError(os.WriteFile(broken, []byte("garbage"), 0644))

	res, err := search.SearchPDFs(context.Background(), []string{filepath.Join(dir, "*.pdf")}, []string{"rocket"}, search.Options{})
	assert.NoError(err)
	assert.Equal(4, res.Table.Len())
	assert.Len(res.Skipped, 1)
	assert.Equal(broken, res.Skipped[0].Path)
}

func TestSearchPDFsParallelMatchesSerial(t *testing.T) {
	assert := require.New(t)
	dir := corpus(t)
	words := []string{"rocket", "launch", "pad"}

	serial, err := search.SearchPDFs(context.Background(), []string{dir}, words, search.Options{})
	assert.NoError(err)

	parallel, err := search.SearchPDFs(context.Background(), []string{dir}, words, search.Options{Workers: 3, FileProgress: 1})
	assert.NoError(err)

	assert.Equal(serial.Table.Header(), parallel.Table.Header())
	assert.ElementsMatch(serial.Table.Rows, parallel.Table.Rows)
}

func TestSearchPDFsSort(t *testing.T) {
	dir := corpus(t)

	for _, workers := range []int{1, 4} {
		t.Run(strconv.Itoa(workers), func(t *testing.T) {
			assert := require.New(t)
			res, err := search.SearchPDFs(context.Background(), []string{dir}, []string{"rocket"},
				search.Options{Sort: []string{"rocket", "missing"}, Workers: workers})
			assert.NoError(err)

			var files []string
			for i := range res.Table.Rows {
				f, _ := res.Table.Value(i, "file")
				files = append(files, f)
			}
			// Alpha and Gamma tie on 3 and keep input order.
			assert.Equal([]string{"Delta_1999", "Beta_2021", "Alpha_2019", "Gamma_2020"}, files)

			res, err = search.SearchPDFs(context.Background(), []string{dir}, []string{"rocket"},
				search.Options{Sort: []string{"rocket"}, Descending: true, Workers: workers})
			assert.NoError(err)

			files = files[:0]
			for i := range res.Table.Rows {
				f, _ := res.Table.Value(i, "file")
				files = append(files, f)
			}
			assert.Equal([]string{"Alpha_2019", "Gamma_2020", "Beta_2021", "Delta_1999"}, files)
		})
	}
}

func TestSearchPDFsPageRange(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "five.pdf")
	assert.NoError(pdftest.Write(path, "one word", "two word", "three word", "four word", "five word"))

	res, err := search.SearchPDFs(context.Background(), []string{path}, []string{"word", "four"}, search.Options{Pages: "1-2"})
	assert.NoError(err)

	pages, _ := res.Table.Value(0, "pages")
	word, _ := res.Table.Value(0, "word")
	four, _ := res.Table.Value(0, "four")
	assert.Equal("2", pages)
	assert.Equal("2", word)
	assert.Equal("0", four)
}

func TestSearchPDFsFilenameColumns(t *testing.T) {
	assert := require.New(t)
	dir := corpus(t)

	res, err := search.SearchPDFs(context.Background(), []string{filepath.Join(dir, "Gamma_2020.pdf")}, []string{"pad"},
		search.Options{Year: true, Separators: `{'_': {'project': 0}}`, KeepExtension: true, OmitPages: true})
	assert.NoError(err)

	assert.Equal([]string{"file", "year", "project", "pad"}, res.Table.Header())
	assert.Equal([][]string{{"Gamma_2020.pdf", "2020", "Gamma", "1"}}, res.Table.Rows)

	res, err = search.SearchPDFs(context.Background(), []string{filepath.Join(dir, "Gamma_2020.pdf")}, []string{"pad"},
		search.Options{OmitFile: true, OmitPages: true})
	assert.NoError(err)
	assert.Equal([][]string{{"1"}}, res.Table.Rows)
}

func TestSearchPDFsCaseSensitive(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "case.pdf")
	assert.NoError(pdftest.Write(path, "Python PYTHON python"))

	res, err := search.SearchPDFs(context.Background(), []string{path}, []string{"Python"}, search.Options{})
	assert.NoError(err)
	v, _ := res.Table.Value(0, "Python")
	assert.Equal("3", v)

	res, err = search.SearchPDFs(context.Background(), []string{path}, []string{"Python"}, search.Options{CaseSensitive: true})
	assert.NoError(err)
	v, _ = res.Table.Value(0, "Python")
	assert.Equal("1", v)
}

func TestSearchPDFsOutfile(t *testing.T) {
	assert := require.New(t)
	dir := corpus(t)
	out := filepath.Join(t.TempDir(), "counts.csv")

	res, err := search.SearchPDFs(context.Background(), []string{dir}, []string{"rocket"}, search.Options{Outfile: out})
	assert.NoError(err)

	f, err := os.Open(out)
	assert.NoError(err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	assert.NoError(err)
	assert.Equal(res.Table.Header(), rows[0])
	assert.Equal(res.Table.Rows, rows[1:])
}

func TestSearchPDFsOutputError(t *testing.T) {
	dir := corpus(t)
	out := filepath.Join(t.TempDir(), "no", "such", "dir", "counts.csv")

	res, err := search.SearchPDFs(context.Background(), []string{dir}, []string{"rocket"}, search.Options{Outfile: out})
	require.Error(t, err)
	require.True(t, errors.Is(err, table.ErrOutput), "expected ErrOutput, got %v", err)
	require.NotNil(t, res)
	require.Equal(t, 4, res.Table.Len())
}

func TestSearchPDFsShow(t *testing.T) {
	assert := require.New(t)
	dir := corpus(t)
	var buf bytes.Buffer

	res, err := search.SearchPDFs(context.Background(), []string{dir}, []string{"rocket"},
		search.Options{Show: true, Stdout: &buf, Top: 2})
	assert.NoError(err)

	out := buf.String()
	assert.Contains(out, "file")
	assert.Contains(out, "Gamma_2020")
	assert.Contains(out, "Top terms:")

	assert.Len(res.TopTerms, 2)
	assert.Equal("rocket", res.TopTerms[0].Text)
	assert.Equal(7, res.TopTerms[0].Count)
	assert.Equal("launch", res.TopTerms[1].Text)
}

func TestSearchPDFsFrameBackend(t *testing.T) {
	assert := require.New(t)
	dir := corpus(t)
	out := filepath.Join(t.TempDir(), "counts.json")

	res, err := search.SearchPDFs(context.Background(), []string{dir}, []string{"rocket"},
		search.Options{Backend: "frame", Outfile: out, Extractor: "layout"})
	assert.NoError(err)

	frame, ok := res.Output.(*table.FrameTable)
	assert.True(ok)
	assert.Equal(4, frame.DataFrame().Nrow())

	data, err := os.ReadFile(out)
	assert.NoError(err)
	assert.Contains(string(data), `"rocket":3`)
}

func TestSearchPDFsCache(t *testing.T) {
	assert := require.New(t)
	dir := corpus(t)
	cache := filepath.Join(t.TempDir(), "pages.db")

	first, err := search.SearchPDFs(context.Background(), []string{dir}, []string{"rocket"}, search.Options{CachePath: cache})
	assert.NoError(err)
	_, err = os.Stat(cache)
	assert.NoError(err)

	// A second run is served by the cache and gives the same table.
	second, err := search.SearchPDFs(context.Background(), []string{dir}, []string{"rocket"}, search.Options{CachePath: cache})
	assert.NoError(err)
	assert.Equal(first.Table.Rows, second.Table.Rows)
}

func TestSearchPDFsErrors(t *testing.T) {
	dir := corpus(t)

	_, err := search.SearchPDFs(context.Background(), []string{dir}, nil, search.Options{})
	require.True(t, errors.Is(err, search.ErrConfig))

	_, err = search.SearchPDFs(context.Background(), []string{dir}, []string{"x"}, search.Options{Pages: "0"})
	require.True(t, errors.Is(err, search.ErrConfig))

	_, err = search.SearchPDFs(context.Background(), []string{filepath.Join(dir, "*.epub")}, []string{"x"}, search.Options{})
	require.True(t, errors.Is(err, search.ErrInputResolution))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 2} {
		_, err = search.SearchPDFs(ctx, []string{dir}, []string{"x"}, search.Options{Workers: workers})
		require.True(t, errors.Is(err, context.Canceled), "workers=%d: %v", workers, err)
	}
}

func TestSearchPDFsSkippedOrder(t *testing.T) {
	assert := require.New(t)
	dir := t.TempDir()
	var want []string
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		p := filepath.Join(dir, name)
		assert.NoError(os.WriteFile(p, []byte("not a pdf"), 0644))
		want = append(want, p)
	}

	res, err := search.SearchPDFs(context.Background(), []string{dir}, []string{"x"}, search.Options{})
	assert.NoError(err)
	assert.Equal(0, res.Table.Len())

	var got []string
	for _, s := range res.Skipped {
		got = append(got, s.Path)
	}
	assert.True(slices.Equal(want, got))
}
