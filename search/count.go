package search

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abiiranathan/pdfcount/alg"
)

// Pages are joined with a newline so that a match never spans two pages.
const pageSeparator = "\n"

// Count returns the number of non-overlapping literal occurrences of each word
// in the concatenated pages. Every word has an entry, zero when absent.
func Count(pages []string, words []string) map[string]int {
	text := strings.Join(pages, pageSeparator)
	counts := make(map[string]int, len(words))
	for _, w := range words {
		if w == "" {
			counts[w] = 0
			continue
		}
		counts[w] = strings.Count(text, w)
	}
	return counts
}

// Counter counts a fixed list of words in normalized page texts. Results are
// keyed by the words as given, while matching uses their normalized form.
type Counter struct {
	words   []string
	targets []string
	tokens  [][]string // nil unless token matching is enabled
}

// NewCounter prepares words for matching. With byToken set a word matches only
// as a whole sequence of tokens, so "cat" does not match inside "concatenate".
func NewCounter(words []string, n Normalizer, byToken bool) (*Counter, error) {
	c := &Counter{
		words:   slices.Clone(words),
		targets: make([]string, len(words)),
	}
	for i, w := range words {
		c.targets[i] = n.Apply(w)
	}

	if byToken {
		c.tokens = make([][]string, len(words))
		for i, target := range c.targets {
			toks, err := alg.Tokenize(target)
			if err != nil {
				return nil, fmt.Errorf("unable to tokenize %q: %w", words[i], err)
			}
			c.tokens[i] = toks
		}
	}
	return c, nil
}

// Words returns the words in column order.
func (c *Counter) Words() []string {
	return slices.Clone(c.words)
}

func (c *Counter) Count(pages []string) (map[string]int, error) {
	if c.tokens == nil {
		byTarget := Count(pages, c.targets)
		counts := make(map[string]int, len(c.words))
		for i, w := range c.words {
			counts[w] = byTarget[c.targets[i]]
		}
		return counts, nil
	}

	counts := make(map[string]int, len(c.words))
	for _, w := range c.words {
		counts[w] = 0
	}

	// Pages are tokenized one at a time so a sequence never spans two pages.
	for _, page := range pages {
		tokens, err := alg.Tokenize(page)
		if err != nil {
			return nil, err
		}
		for i, w := range c.words {
			counts[w] += countSequence(tokens, c.tokens[i])
		}
	}
	return counts, nil
}

// countSequence counts non-overlapping occurrences of seq in tokens.
func countSequence(tokens, seq []string) int {
	if len(seq) == 0 {
		return 0
	}

	n := 0
	for i := 0; i+len(seq) <= len(tokens); {
		if slices.Equal(tokens[i:i+len(seq)], seq) {
			n++
			i += len(seq)
			continue
		}
		i++
	}
	return n
}
