package alg

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bbalet/stopwords"
	"github.com/jdkato/prose/v2"
)

// Term is a vocabulary entry and the number of times it was seen.
type Term struct {
	Text  string
	Count int
}

// Tokenize splits text into word and punctuation tokens.
func Tokenize(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}

	tokens := doc.Tokens()
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Text
	}
	return out, nil
}

// TermFrequencies counts the content words of text. Stop words, punctuation
// and single letters are left out, and terms are lower-cased.
func TermFrequencies(text string) (map[string]int, error) {
	cleaned := strings.ToLower(stopwords.CleanString(text, "en", false))

	tokens, err := Tokenize(cleaned)
	if err != nil {
		return nil, err
	}

	freq := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) < 2 || !strings.ContainsFunc(tok, unicode.IsLetter) {
			continue
		}
		freq[tok]++
	}
	return freq, nil
}

// Merge adds every count in src to dst.
func Merge(dst, src map[string]int) {
	for term, n := range src {
		dst[term] += n
	}
}

// TopTerms returns the n most frequent terms, ties in alphabetical order.
func TopTerms(freq map[string]int, n int) []Term {
	terms := make([]Term, 0, len(freq))
	for text, count := range freq {
		terms = append(terms, Term{Text: text, Count: count})
	}

	slices.SortFunc(terms, func(a, b Term) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Text, b.Text)
	})

	if n >= 0 && len(terms) > n {
		terms = terms[:n]
	}
	return terms
}
