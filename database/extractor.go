package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/abiiranathan/pdfcount/logger"
	"github.com/abiiranathan/pdfcount/pdf"
)

// CachedExtractor serves extractions from a Cache and fills it on a miss.
type CachedExtractor struct {
	next   pdf.Extractor
	cache  *Cache
	logger logger.Logger
}

func NewCachedExtractor(next pdf.Extractor, cache *Cache, logger logger.Logger) *CachedExtractor {
	return &CachedExtractor{next: next, cache: cache, logger: logger}
}

func (c *CachedExtractor) Name() string {
	return c.next.Name()
}

func (c *CachedExtractor) Extract(ctx context.Context, path string, pages pdf.PageRange) (*pdf.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return c.next.Extract(ctx, path, pages)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return c.next.Extract(ctx, path, pages)
	}

	key := Key(c.next.Name(), abs, pages)
	entry, err := c.cache.Get(key)
	switch {
	case err == nil && entry.Fresh(abs, info.Size(), info.ModTime()):
		c.logger.Debug("cache hit", "file", filepath.Base(path), "key", key)
		return entry.Document(path), nil
	case err != nil && !errors.Is(err, ErrNotFound):
		c.logger.Warn("unable to read cache entry", "key", key, "err", err.Error())
	}

	doc, err := c.next.Extract(ctx, path, pages)
	if err != nil {
		return nil, err
	}

	entry = &Entry{
		Path:     abs,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
		NumPages: doc.NumPages,
		Pages:    doc.Pages,
		Failed:   doc.Failed,
	}
	if err := c.cache.Put(key, entry); err != nil {
		c.logger.Warn("unable to store cache entry", "key", key, "err", err.Error())
	}
	return doc, nil
}
