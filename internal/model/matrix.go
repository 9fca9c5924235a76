// Package model computes the TF-IDF weighted term-document matrix.
package model

import (
	"fmt"
	"math"
	"sort"

	apperrors "vsmsearch/pkg/errors"

	"vsmsearch/internal/postings"
)

// Matrix is the term x document weight table. Rows follow the insertion
// order of the posting entries; columns are the sorted document universe.
// Only nonzero cells are stored; Weight reports zero for the rest.
type Matrix struct {
	terms  []string
	docs   []int
	rows   map[string]map[int]float64
	inDocs map[int]struct{}
}

// TFIDF computes a single cell weight: 0 when the term does not occur,
// otherwise (1 + ln tf) * ln(N/df). df = totalDocs gives 0; df < totalDocs
// gives a positive IDF factor.
func TFIDF(termFreq, totalDocs, docsWithTerm int) float64 {
	if termFreq == 0 {
		return 0
	}
	tf := 1 + math.Log(float64(termFreq))
	idf := math.Log(float64(totalDocs) / float64(docsWithTerm))
	return tf * idf
}

// BuildMatrix derives the document universe from the posting lists and
// weights every (term, document) pair.
func BuildMatrix(entries []postings.TermPostings) (*Matrix, error) {
	return BuildMatrixWithUniverse(entries, postings.Universe(entries))
}

// BuildMatrixWithUniverse weights every pair against an explicit document
// universe. A posting that references a document outside the universe is a
// fatal validation error.
func BuildMatrixWithUniverse(entries []postings.TermPostings, universe []int) (*Matrix, error) {
	m := newMatrix(universe)
	n := len(universe)
	for _, e := range entries {
		if _, dup := m.rows[e.Term]; dup {
			return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4,
				"duplicate term %q in postings", e.Term)
		}
		freq := make(map[int]int, len(e.Docs))
		for _, d := range e.Docs {
			if _, ok := m.inDocs[d]; !ok {
				return nil, apperrors.Newf(apperrors.ErrUnknownDocument, 4,
					"term %q references document %d", e.Term, d)
			}
			freq[d]++
		}
		df := len(freq)
		row := make(map[int]float64, df)
		for d, tf := range freq {
			if w := TFIDF(tf, n, df); w != 0 {
				row[d] = w
			}
		}
		m.terms = append(m.terms, e.Term)
		m.rows[e.Term] = row
	}
	return m, nil
}

// FromRows reconstructs a matrix from a dense table, as loaded from a
// persisted artifact. Each cells row must have one value per document.
func FromRows(terms []string, docs []int, cells [][]float64) (*Matrix, error) {
	if len(cells) != len(terms) {
		return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4,
			"matrix has %d rows for %d terms", len(cells), len(terms))
	}
	if !sort.IntsAreSorted(docs) {
		return nil, apperrors.New(apperrors.ErrMalformedArtifact, 4,
			"document columns are not sorted")
	}
	m := newMatrix(docs)
	for i, term := range terms {
		if _, dup := m.rows[term]; dup {
			return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4,
				"duplicate term %q in matrix", term)
		}
		if len(cells[i]) != len(docs) {
			return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4,
				"row %q has %d cells for %d documents", term, len(cells[i]), len(docs))
		}
		row := make(map[int]float64)
		for j, w := range cells[i] {
			if w != 0 {
				row[docs[j]] = w
			}
		}
		m.terms = append(m.terms, term)
		m.rows[term] = row
	}
	return m, nil
}

func newMatrix(docs []int) *Matrix {
	inDocs := make(map[int]struct{}, len(docs))
	for _, d := range docs {
		inDocs[d] = struct{}{}
	}
	return &Matrix{
		docs:   append([]int(nil), docs...),
		rows:   make(map[string]map[int]float64),
		inDocs: inDocs,
	}
}

// Terms returns the row labels in insertion order.
func (m *Matrix) Terms() []string {
	return m.terms
}

// Docs returns the sorted document universe.
func (m *Matrix) Docs() []int {
	return m.docs
}

// DocCount returns N, the size of the document universe.
func (m *Matrix) DocCount() int {
	return len(m.docs)
}

// Weight looks a cell up. The boolean is false when the term has no row at
// all; a present term with no occurrence in doc reports (0, true).
func (m *Matrix) Weight(term string, doc int) (float64, bool) {
	row, ok := m.rows[term]
	if !ok {
		return 0, false
	}
	return row[doc], true
}

// HasTerm reports whether the matrix has a row for term.
func (m *Matrix) HasTerm(term string) bool {
	_, ok := m.rows[term]
	return ok
}

// String summarises the matrix shape.
func (m *Matrix) String() string {
	return fmt.Sprintf("matrix{terms: %d, docs: %d}", len(m.terms), len(m.docs))
}
