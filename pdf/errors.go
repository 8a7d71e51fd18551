package pdf

import (
	"errors"
	"fmt"
)

var (
	ErrExtraction = errors.New("pdf extraction failed")
	ErrPageRange  = errors.New("invalid page range")
)

// ExtractionError reports a document that could not be opened or parsed.
type ExtractionError struct {
	Path    string
	Backend string
	Err     error
}

type PageRangeError struct {
	Spec   string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: unable to extract text with %s backend: %v", e.Path, e.Backend, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

func (e *PageRangeError) Error() string {
	return fmt.Sprintf("invalid page range %q: %s", e.Spec, e.Reason)
}

func (e *PageRangeError) Is(target error) bool {
	return target == ErrPageRange
}
