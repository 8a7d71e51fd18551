package pdf

import (
	"context"
	"os"

	lpdf "github.com/ledongthuc/pdf"
)

// plainExtractor decodes each page's text operators in stream order.
type plainExtractor struct {
	opts Options
}

type plainSource struct {
	r *lpdf.Reader
}

func (e *plainExtractor) Name() string {
	return BackendPlain
}

func (e *plainExtractor) Extract(ctx context.Context, path string, pages PageRange) (*Document, error) {
	return extract(ctx, path, BackendPlain, pages, e.opts, func(f *os.File, size int64) (pageSource, error) {
		r, err := lpdf.NewReader(f, size)
		if err != nil {
			return nil, err
		}
		return plainSource{r: r}, nil
	})
}

func (s plainSource) NumPages() int {
	return s.r.NumPage()
}

func (s plainSource) PageText(num int) (string, error) {
	page := s.r.Page(num)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
