package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/abiiranathan/pdfcount/logger"
	"github.com/abiiranathan/pdfcount/pdf"
	"github.com/stretchr/testify/require"
)

func openCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := Open(filepath.Join(t.TempDir(), "sub", "cache.db"), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCachePutGet(t *testing.T) {
	assert := require.New(t)
	cache := openCache(t)

	mtime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := &Entry{
		Path:     "/data/a.pdf",
		Size:     42,
		ModTime:  mtime,
		NumPages: 3,
		Pages:    []pdf.Page{{Num: 1, Text: "one"}, {Num: 3, Text: "three"}},
		Failed:   []int{2},
	}

	assert.NoError(cache.Put("k", entry))
	got, err := cache.Get("k")
	assert.NoError(err)
	assert.Equal(entry.Path, got.Path)
	assert.Equal(entry.Pages, got.Pages)
	assert.Equal(entry.Failed, got.Failed)
	assert.True(got.Fresh("/data/a.pdf", 42, mtime))
	assert.False(got.Fresh("/data/a.pdf", 43, mtime))
	assert.False(got.Fresh("/data/a.pdf", 42, mtime.Add(time.Second)))
	assert.False(got.Fresh("/data/b.pdf", 42, mtime))

	doc := got.Document("a.pdf")
	assert.Equal("a.pdf", doc.Path)
	assert.Equal(3, doc.NumPages)
	assert.Equal([]string{"one", "three"}, doc.Texts())

	assert.NoError(cache.Delete("k"))
	_, err = cache.Get("k")
	assert.True(errors.Is(err, ErrNotFound))
}

func TestCacheInvalidKey(t *testing.T) {
	cache := openCache(t)

	require.True(t, errors.Is(cache.Put("", &Entry{}), ErrInvalidKey))
	_, err := cache.Get("")
	require.True(t, errors.Is(err, ErrInvalidKey))
	require.True(t, errors.Is(cache.Delete(""), ErrInvalidKey))
}

func TestKey(t *testing.T) {
	pages := pdf.PageRange{{First: 1, Last: 3}, {First: 5, Last: 5}}
	k := Key("plain", "/data/a.pdf", pages)

	require.Equal(t, k, Key("plain", "/data/a.pdf", pages))
	require.NotEqual(t, k, Key("layout", "/data/a.pdf", pages))
	require.NotEqual(t, k, Key("plain", "/data/b.pdf", pages))
	require.NotEqual(t, k, Key("plain", "/data/a.pdf", nil))
	require.Contains(t, k, "1-3,5")
}

// countingExtractor returns a fixed document and counts calls.
type countingExtractor struct {
	calls atomic.Int32
	err   error
}

func (e *countingExtractor) Name() string { return "fake" }

func (e *countingExtractor) Extract(ctx context.Context, path string, pages pdf.PageRange) (*pdf.Document, error) {
	e.calls.Add(1)
	if e.err != nil {
		return nil, e.err
	}
	return &pdf.Document{Path: path, NumPages: 1, Pages: []pdf.Page{{Num: 1, Text: "hello"}}}, nil
}

func TestCachedExtractor(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "doc.pdf")
	assert.NoError(os.WriteFile(path, []byte("contents"), 0644))

	next := &countingExtractor{}
	ex := NewCachedExtractor(next, openCache(t), logger.Discard())
	assert.Equal("fake", ex.Name())

	for range 3 {
		doc, err := ex.Extract(context.Background(), path, nil)
		assert.NoError(err)
		assert.Equal([]string{"hello"}, doc.Texts())
	}
	assert.Equal(int32(1), next.calls.Load())

	// Another page selection is a separate entry.
	_, err := ex.Extract(context.Background(), path, pdf.PageRange{{First: 1, Last: 1}})
	assert.NoError(err)
	assert.Equal(int32(2), next.calls.Load())

	// Changing the file invalidates its entry.
	assert.NoError(os.WriteFile(path, []byte("new and longer contents"), 0644))
	_, err = ex.Extract(context.Background(), path, nil)
	assert.NoError(err)
	assert.Equal(int32(3), next.calls.Load())
}

func TestCachedExtractorErrorsAreNotStored(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "doc.pdf")
	assert.NoError(os.WriteFile(path, []byte("contents"), 0644))

	next := &countingExtractor{err: errors.New("boom")}
	ex := NewCachedExtractor(next, openCache(t), logger.Discard())

	for range 2 {
		_, err := ex.Extract(context.Background(), path, nil)
		assert.Error(err)
	}
	assert.Equal(int32(2), next.calls.Load())
}
