// Package ranker scores documents against a query vector by cosine
// similarity over the TF-IDF model.
package ranker

import (
	"math"
	"sort"

	"vsmsearch/internal/model"
)

// DefaultLimit caps the result list when the caller does not choose one.
const DefaultLimit = 40

// ScoredDoc is one ranked result.
type ScoredDoc struct {
	DocID int     `json:"doc_id"`
	Score float64 `json:"score"`
}

// WeightFunc resolves a query-side term weight. The boolean is false when
// the term is absent from the query vector.
type WeightFunc func(term string) (float64, bool)

// Rank scores every document in the model against the query's token list
// and returns the documents with positive similarity, best first. Terms
// missing from either the query vector or the model contribute nothing.
// Ties are broken by ascending document id; limit <= 0 means unbounded.
//
// queryTerms is iterated as given, so the float summation order is fixed
// and repeated calls produce identical scores.
func Rank(m *model.Matrix, queryTerms []string, queryWeight WeightFunc, limit int) []ScoredDoc {
	if len(queryTerms) == 0 {
		return nil
	}
	result := make([]ScoredDoc, 0, len(m.Docs()))
	for _, doc := range m.Docs() {
		score := similarity(m, queryTerms, queryWeight, doc)
		if score > 0 {
			result = append(result, ScoredDoc{DocID: doc, Score: score})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].DocID < result[j].DocID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

// similarity computes dot(q,d) / (|q| * |d|) restricted to the query's
// terms, or 0 when either norm is zero.
func similarity(m *model.Matrix, queryTerms []string, queryWeight WeightFunc, doc int) float64 {
	var dot, queryNorm, docNorm float64
	for _, term := range queryTerms {
		qw, ok := queryWeight(term)
		if !ok {
			continue
		}
		dw, ok := m.Weight(term, doc)
		if !ok {
			continue
		}
		dot += qw * dw
		queryNorm += qw * qw
		docNorm += dw * dw
	}
	denom := math.Sqrt(queryNorm) * math.Sqrt(docNorm)
	if denom <= 0 {
		return 0
	}
	return dot / denom
}
