// Package normalize canonicalises raw text into index-eligible tokens.
// The pipeline is accent folding, upper-casing, punctuation stripping and
// whitespace collapsing, followed by optional stopword filtering and
// Porter-family stemming. All functions are pure; the same input and flags
// always produce the same tokens.
package normalize

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// punctuation is the fixed set mapped to spaces during folding.
const punctuation = `.,;:?![]-"'_()%\/+<>=`

// minTokenLen is the shortest token kept when filtering is on.
const minTokenLen = 3

// Normalizer tokenises text with an injected stopword set and an optional
// stemmer. The zero value is not usable; construct with New.
type Normalizer struct {
	stopwords Stopwords
	stem      bool
}

// New creates a Normalizer. A nil stopword set falls back to
// DefaultStopwords.
func New(stopwords Stopwords, useStemmer bool) *Normalizer {
	if stopwords == nil {
		stopwords = DefaultStopwords()
	}
	return &Normalizer{stopwords: stopwords, stem: useStemmer}
}

// Stemming reports whether the normalizer applies the stemmer.
func (n *Normalizer) Stemming() bool {
	return n.stem
}

// Normalize folds text and splits it into tokens. When removeStopwords is
// set, stopwords, non-alphabetic tokens, and tokens shorter than three
// runes are dropped, and the stemmer (if enabled) is applied to the
// survivors. The empty string yields no tokens.
func (n *Normalizer) Normalize(text string, removeStopwords bool) []string {
	folded := Fold(text)
	if folded == "" {
		return nil
	}
	words := strings.Fields(folded)
	if !removeStopwords {
		return words
	}
	tokens := make([]string, 0, len(words))
	for _, word := range words {
		if _, stop := n.stopwords[word]; stop {
			continue
		}
		if !alphabetic(word) {
			continue
		}
		if len([]rune(word)) < minTokenLen {
			continue
		}
		if n.stem {
			word = strings.ToUpper(english.Stem(strings.ToLower(word), true))
			if word == "" {
				continue
			}
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// Fold canonicalises text without filtering: accents stripped, upper-cased,
// punctuation mapped to spaces, whitespace collapsed.
func Fold(s string) string {
	s = strings.ToUpper(Deaccent(s))
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Deaccent removes combining marks, turning accented letters into their
// base form.
func Deaccent(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func alphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
