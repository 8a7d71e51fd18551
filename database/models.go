package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/abiiranathan/pdfcount/pdf"
)

var (
	ErrNotFound   = errors.New("key not found")
	ErrInvalidKey = errors.New("invalid key")
)

type InvalidKeyError struct {
	Key    string
	Reason string
}

type NotFoundError struct {
	Key string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %s: %s", e.Key, e.Reason)
}

func (e *InvalidKeyError) Is(target error) bool {
	return target == ErrInvalidKey
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("key not found: %s", e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Entry is the cached extraction of one file for one backend and page selection.
type Entry struct {
	Path     string    // Absolute path of the file.
	Size     int64     // File size when extracted.
	ModTime  time.Time // Modification time when extracted.
	NumPages int
	Pages    []pdf.Page
	Failed   []int
}

// Fresh reports whether the entry still describes a file of this size and mtime.
func (e *Entry) Fresh(path string, size int64, modTime time.Time) bool {
	return e.Path == path && e.Size == size && e.ModTime.Equal(modTime)
}

// Document rebuilds the extraction result for path.
func (e *Entry) Document(path string) *pdf.Document {
	return &pdf.Document{
		Path:     path,
		NumPages: e.NumPages,
		Pages:    e.Pages,
		Failed:   e.Failed,
	}
}
