package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "vsmsearch/pkg/errors"

	"vsmsearch/internal/normalize"
	"vsmsearch/internal/postings"
)

const tolerance = 1e-9

func specEntries() []postings.TermPostings {
	// corpus {1: CAT SAT, 2: DOG SAT}
	return []postings.TermPostings{
		{Term: "SAT", Docs: []int{1, 2}},
		{Term: "CAT", Docs: []int{1}},
		{Term: "DOG", Docs: []int{2}},
	}
}

func TestTFIDF(t *testing.T) {
	assert.Zero(t, TFIDF(0, 10, 3), "absent term weighs zero")
	assert.InDelta(t, math.Log(2), TFIDF(1, 2, 1), tolerance)
	assert.InDelta(t, (1+math.Log(3))*math.Log(10.0/4), TFIDF(3, 10, 4), tolerance)
	assert.Zero(t, TFIDF(1, 5, 5), "term in every document has zero idf")
}

func TestTFIDFZeroLaw(t *testing.T) {
	for tf := 0; tf <= 4; tf++ {
		for df := 1; df <= 4; df++ {
			w := TFIDF(tf, 5, df)
			if tf == 0 {
				assert.Zero(t, w)
			} else {
				// df < N here, so weight is strictly positive
				assert.Greater(t, w, 0.0)
			}
		}
	}
}

func TestTFIDFMonotonicInDF(t *testing.T) {
	for df := 1; df < 9; df++ {
		lower := TFIDF(2, 10, df)
		higher := TFIDF(2, 10, df+1)
		assert.GreaterOrEqual(t, lower, higher,
			"rarer terms must weigh at least as much")
	}
}

func TestBuildMatrix(t *testing.T) {
	m, err := BuildMatrix(specEntries())
	require.NoError(t, err)

	assert.Equal(t, []string{"SAT", "CAT", "DOG"}, m.Terms())
	assert.Equal(t, []int{1, 2}, m.Docs())
	assert.Equal(t, 2, m.DocCount())

	w, ok := m.Weight("CAT", 1)
	require.True(t, ok)
	assert.InDelta(t, math.Log(2), w, tolerance)

	w, ok = m.Weight("CAT", 2)
	require.True(t, ok)
	assert.Zero(t, w)

	for _, d := range m.Docs() {
		w, ok = m.Weight("SAT", d)
		require.True(t, ok)
		assert.Zero(t, w, "df == N zeroes the whole row")
	}

	_, ok = m.Weight("FISH", 1)
	assert.False(t, ok, "unknown term has no row")
	assert.False(t, m.HasTerm("FISH"))
}

func TestBuildMatrixDeterministic(t *testing.T) {
	first, err := BuildMatrix(specEntries())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := BuildMatrix(specEntries())
		require.NoError(t, err)
		require.Equal(t, first.Terms(), again.Terms())
		for _, term := range first.Terms() {
			for _, d := range first.Docs() {
				a, _ := first.Weight(term, d)
				b, _ := again.Weight(term, d)
				assert.Equal(t, a, b)
			}
		}
	}
}

func TestBuildMatrixRejectsOutOfUniverseDoc(t *testing.T) {
	entries := []postings.TermPostings{{Term: "CAT", Docs: []int{1, 99}}}
	_, err := BuildMatrixWithUniverse(entries, []int{1, 2})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnknownDocument)
}

func TestBuildMatrixRejectsDuplicateTerm(t *testing.T) {
	entries := []postings.TermPostings{
		{Term: "CAT", Docs: []int{1}},
		{Term: "CAT", Docs: []int{2}},
	}
	_, err := BuildMatrix(entries)
	assert.ErrorIs(t, err, apperrors.ErrMalformedArtifact)
}

func TestFromRows(t *testing.T) {
	m, err := FromRows(
		[]string{"SALT", "SWEAT"},
		[]int{1, 2, 3},
		[][]float64{
			{0.5, 0, 1.25},
			{0, 0, 0},
		},
	)
	require.NoError(t, err)

	w, ok := m.Weight("SALT", 3)
	require.True(t, ok)
	assert.Equal(t, 1.25, w)
	w, ok = m.Weight("SWEAT", 1)
	require.True(t, ok)
	assert.Zero(t, w)

	_, err = FromRows([]string{"A"}, []int{2, 1}, [][]float64{{0, 0}})
	assert.ErrorIs(t, err, apperrors.ErrMalformedArtifact, "unsorted columns")

	_, err = FromRows([]string{"A"}, []int{1, 2}, [][]float64{{0}})
	assert.ErrorIs(t, err, apperrors.ErrMalformedArtifact, "ragged row")
}

func TestVectorizeQueries(t *testing.T) {
	n := normalize.New(normalize.StopwordsFromLines([]string{"the"}), false)
	queries := map[int]string{
		10: "the cat",
		20: "the dog and the cat",
	}
	m, err := VectorizeQueries(queries, n)
	require.NoError(t, err)

	assert.Equal(t, []int{10, 20}, m.Docs())

	// CAT occurs in both queries: idf = ln(2/2) = 0
	w, ok := m.Weight("CAT", 10)
	require.True(t, ok)
	assert.Zero(t, w)

	// DOG occurs only in query 20
	w, ok = m.Weight("DOG", 20)
	require.True(t, ok)
	assert.InDelta(t, math.Log(2), w, tolerance)
}
