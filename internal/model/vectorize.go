package model

import (
	"vsmsearch/internal/normalize"
	"vsmsearch/internal/postings"
)

// VectorizeQueries treats the query collection as its own corpus and runs
// the same postings plus TF-IDF algorithm over it. The resulting matrix has
// one column per query id; a query's column is its term-weight vector for
// ranking.
func VectorizeQueries(queries map[int]string, n *normalize.Normalizer) (*Matrix, error) {
	lists := postings.Build(queries, n)
	entries := postings.SortByFrequency(lists)
	return BuildMatrix(entries)
}
