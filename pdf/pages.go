package pdf

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
)

// Span is an inclusive run of 1-based page numbers.
type Span struct {
	First, Last int
}

// PageRange is a sorted list of disjoint, non-adjacent spans.
// The empty range selects every page of a document.
type PageRange []Span

// ParsePageRange parses specs such as "1,3-5". Ranges are inclusive.
func ParsePageRange(spec string) (PageRange, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}

	var spans []Span
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(part, "-")
		start, err := parsePageNumber(spec, lo)
		if err != nil {
			return nil, err
		}

		end := start
		if isRange {
			end, err = parsePageNumber(spec, hi)
			if err != nil {
				return nil, err
			}
			if end < start {
				return nil, &PageRangeError{Spec: spec, Reason: "range " + part + " is reversed"}
			}
		}
		spans = append(spans, Span{First: start, Last: end})
	}

	if len(spans) == 0 {
		return nil, &PageRangeError{Spec: spec, Reason: "no pages given"}
	}
	return merge(spans), nil
}

// merge sorts spans and joins the ones that overlap or touch.
func merge(spans []Span) PageRange {
	slices.SortFunc(spans, func(a, b Span) int {
		return cmp.Compare(a.First, b.First)
	})

	out := PageRange{spans[0]}
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.First <= last.Last+1 {
			last.Last = max(last.Last, s.Last)
			continue
		}
		out = append(out, s)
	}
	return out
}

func parsePageNumber(spec, s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &PageRangeError{Spec: spec, Reason: strconv.Quote(s) + " is not a page number"}
	}
	if n < 1 {
		return 0, &PageRangeError{Spec: spec, Reason: "page numbers start at 1"}
	}
	return n, nil
}

// Select returns the pages to read from a document with numPages pages.
// Pages past the end of the document are dropped.
func (r PageRange) Select(numPages int) []int {
	if len(r) == 0 {
		r = PageRange{{First: 1, Last: numPages}}
	}

	var selected []int
	for _, s := range r {
		for p := s.First; p <= min(s.Last, numPages); p++ {
			selected = append(selected, p)
		}
	}
	if selected == nil {
		selected = []int{}
	}
	return selected
}

// String renders the range in canonical form, e.g. "1-3,7".
func (r PageRange) String() string {
	parts := make([]string, len(r))
	for i, s := range r {
		if s.First == s.Last {
			parts[i] = strconv.Itoa(s.First)
		} else {
			parts[i] = strconv.Itoa(s.First) + "-" + strconv.Itoa(s.Last)
		}
	}
	return strings.Join(parts, ",")
}
