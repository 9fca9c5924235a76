package artifact

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "vsmsearch/pkg/errors"

	"vsmsearch/internal/model"
	"vsmsearch/internal/postings"
	"vsmsearch/internal/queries"
	"vsmsearch/internal/searcher/ranker"
)

func TestPostingsRoundTrip(t *testing.T) {
	entries := []postings.TermPostings{
		{Term: "SAT", Docs: []int{1, 2, 2}},
		{Term: "CAT", Docs: []int{1}},
	}
	var buf bytes.Buffer
	require.NoError(t, WritePostings(&buf, entries))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Word;RecordNumbers", lines[0])
	assert.Equal(t, "SAT;[1, 2, 2]", lines[1])
	assert.Equal(t, "CAT;[1]", lines[2])

	got, err := ReadPostings(&buf)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestReadPostingsMalformed(t *testing.T) {
	cases := map[string]string{
		"bad header":   "Nope;Columns\nA;[1]",
		"unbracketed":  "Word;RecordNumbers\nA;1, 2",
		"not a number": "Word;RecordNumbers\nA;[1, x]",
		"empty list":   "Word;RecordNumbers\nA;[]",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadPostings(strings.NewReader(input))
			assert.ErrorIs(t, err, apperrors.ErrMalformedArtifact)
		})
	}
}

func TestMatrixRoundTrip(t *testing.T) {
	m, err := model.BuildMatrix([]postings.TermPostings{
		{Term: "SAT", Docs: []int{1, 2}},
		{Term: "CAT", Docs: []int{1}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteMatrix(&buf, m))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Term;1;2", lines[0])
	assert.Equal(t, "SAT;0;0", lines[1], "df == N rows persist as zeros")

	got, err := ReadMatrix(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.Terms(), got.Terms())
	assert.Equal(t, m.Docs(), got.Docs())
	for _, term := range m.Terms() {
		for _, d := range m.Docs() {
			want, _ := m.Weight(term, d)
			have, _ := got.Weight(term, d)
			assert.Equal(t, want, have, "cell (%s, %d)", term, d)
		}
	}
}

func TestReadMatrixMalformed(t *testing.T) {
	cases := map[string]string{
		"bad header":     "Nope;1\nA;0.5",
		"bad column":     "Term;one\nA;0.5",
		"bad cell":       "Term;1\nA;zero",
		"column count":   "Term;1;2\nA;0.5",
		"duplicate term": "Term;1\nA;0.5\nA;0.7",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadMatrix(strings.NewReader(input))
			assert.ErrorIs(t, err, apperrors.ErrMalformedArtifact)
		})
	}
}

func TestProcessedQueriesRoundTrip(t *testing.T) {
	qs := []queries.Query{
		{Number: 1, Text: "SALT IN SWEAT"},
		{Number: 9, Text: "PANCREATIC FUNCTION?"},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteProcessedQueries(&buf, qs))

	got, err := ReadProcessedQueries(&buf)
	require.NoError(t, err)
	assert.Equal(t, []ProcessedQuery{
		{Number: 1, Text: "SALT IN SWEAT"},
		{Number: 9, Text: "PANCREATIC FUNCTION?"},
	}, got)
}

func TestWriteExpected(t *testing.T) {
	qs := []queries.Query{
		{Number: 1, Expected: []queries.Judgment{
			{DocNumber: 139, Votes: 3},
			{DocNumber: 151, Votes: 1},
		}},
		{Number: 2},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteExpected(&buf, qs))

	want := "QueryNumber;DocNumber;DocVotes\n1;139;3\n1;151;1\n"
	assert.Equal(t, want, buf.String(), "queries without judgments add no rows")
}

func TestWriteResults(t *testing.T) {
	results := []SearchResult{
		{Number: 1, Ranked: []ranker.ScoredDoc{
			{DocID: 139, Score: 0.5},
			{DocID: 151, Score: 0.25},
		}},
		{Number: 2, Ranked: nil},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "SearchNumber;Results", lines[0])
	assert.Equal(t, "1;[(1, 139, 0.5), (2, 151, 0.25)]", lines[1])
	assert.Equal(t, "2;[]", lines[2])
}
