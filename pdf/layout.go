package pdf

import (
	"context"
	"os"
	"strings"

	rpdf "rsc.io/pdf"
)

// Gap between glyphs, relative to the font size, treated as a word break.
const wordGap = 0.15

// layoutExtractor rebuilds lines from positioned glyphs.
type layoutExtractor struct {
	opts Options
}

type layoutSource struct {
	r *rpdf.Reader
}

func (e *layoutExtractor) Name() string {
	return BackendLayout
}

func (e *layoutExtractor) Extract(ctx context.Context, path string, pages PageRange) (*Document, error) {
	return extract(ctx, path, BackendLayout, pages, e.opts, func(f *os.File, size int64) (pageSource, error) {
		r, err := rpdf.NewReader(f, size)
		if err != nil {
			return nil, err
		}
		return layoutSource{r: r}, nil
	})
}

func (s layoutSource) NumPages() int {
	return s.r.NumPage()
}

func (s layoutSource) PageText(num int) (string, error) {
	page := s.r.Page(num)
	if page.V.IsNull() {
		return "", nil
	}
	return joinGlyphs(page.Content().Text), nil
}

// joinGlyphs starts a new line whenever the baseline moves and inserts a
// space where two glyphs on a line are visibly apart.
func joinGlyphs(glyphs []rpdf.Text) string {
	var b strings.Builder
	for i, g := range glyphs {
		if i > 0 {
			prev := glyphs[i-1]
			switch {
			case g.Y != prev.Y:
				b.WriteByte('\n')
			case g.X-(prev.X+prev.W) > wordGap*prev.FontSize && !strings.HasSuffix(prev.S, " ") && g.S != " ":
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
	}
	return b.String()
}
