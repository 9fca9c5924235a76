// Package artifact reads and writes the semicolon-delimited tables the
// pipeline stages exchange: posting lists, the term-document matrix, the
// processed query and expected-results tables, and the search results.
package artifact

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "vsmsearch/pkg/errors"

	"vsmsearch/internal/model"
	"vsmsearch/internal/postings"
	"vsmsearch/internal/queries"
	"vsmsearch/internal/searcher/ranker"
)

// ProcessedQuery is one row of the processed-queries table.
type ProcessedQuery struct {
	Number int
	Text   string
}

// SearchResult is one row of the results table: a query number and its
// ranked documents.
type SearchResult struct {
	Number int
	Ranked []ranker.ScoredDoc
}

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	return cw
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	return cr
}

// WritePostings writes the Word;RecordNumbers table. The record-number
// column is a bracketed occurrence list, e.g. [1, 2, 2, 7].
func WritePostings(w io.Writer, entries []postings.TermPostings) error {
	cw := newWriter(w)
	if err := cw.Write([]string{"Word", "RecordNumbers"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Term, formatIntList(e.Docs)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadPostings loads the Word;RecordNumbers table, preserving row order.
func ReadPostings(r io.Reader) ([]postings.TermPostings, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "reading postings header: %v", err)
	}
	if len(header) != 2 || header[0] != "Word" || header[1] != "RecordNumbers" {
		return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "unexpected postings header %v", header)
	}
	var entries []postings.TermPostings
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return entries, nil
		}
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "reading postings row: %v", err)
		}
		if len(row) != 2 {
			return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "postings row has %d columns", len(row))
		}
		docs, err := parseIntList(row[1])
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "term %q: %v", row[0], err)
		}
		if len(docs) == 0 {
			return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "term %q has an empty posting list", row[0])
		}
		entries = append(entries, postings.TermPostings{Term: row[0], Docs: docs})
	}
}

// WriteMatrix writes the Term;<doc>;... table with one row per term.
// Cells are weights; 0 where the term does not occur.
func WriteMatrix(w io.Writer, m *model.Matrix) error {
	cw := newWriter(w)
	docs := m.Docs()
	header := make([]string, 0, len(docs)+1)
	header = append(header, "Term")
	for _, d := range docs {
		header = append(header, strconv.Itoa(d))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	row := make([]string, len(docs)+1)
	for _, term := range m.Terms() {
		row[0] = term
		for i, d := range docs {
			weight, _ := m.Weight(term, d)
			row[i+1] = formatWeight(weight)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMatrix loads the matrix table back into a model.
func ReadMatrix(r io.Reader) (*model.Matrix, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "reading matrix header: %v", err)
	}
	if len(header) < 2 || header[0] != "Term" {
		return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "unexpected matrix header %v", header)
	}
	docs := make([]int, 0, len(header)-1)
	for _, col := range header[1:] {
		d, err := strconv.Atoi(strings.TrimSpace(col))
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "matrix column %q is not a document id", col)
		}
		docs = append(docs, d)
	}
	var terms []string
	var cells [][]float64
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "reading matrix row: %v", err)
		}
		if len(row) != len(docs)+1 {
			return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4,
				"matrix row %q has %d cells for %d documents", row[0], len(row)-1, len(docs))
		}
		weights := make([]float64, len(docs))
		for i, cell := range row[1:] {
			w, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4,
					"matrix cell (%s, %d): %v", row[0], docs[i], err)
			}
			weights[i] = w
		}
		terms = append(terms, row[0])
		cells = append(cells, weights)
	}
	return model.FromRows(terms, docs, cells)
}

// WriteProcessedQueries writes the QueryNumber;QueryText table.
func WriteProcessedQueries(w io.Writer, qs []queries.Query) error {
	cw := newWriter(w)
	if err := cw.Write([]string{"QueryNumber", "QueryText"}); err != nil {
		return err
	}
	for _, q := range qs {
		if err := cw.Write([]string{strconv.Itoa(q.Number), q.Text}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadProcessedQueries loads the QueryNumber;QueryText table in row order.
func ReadProcessedQueries(r io.Reader) ([]ProcessedQuery, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "reading queries header: %v", err)
	}
	if len(header) != 2 || header[0] != "QueryNumber" || header[1] != "QueryText" {
		return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "unexpected queries header %v", header)
	}
	var out []ProcessedQuery
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "reading queries row: %v", err)
		}
		if len(row) != 2 {
			return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "queries row has %d columns", len(row))
		}
		number, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, apperrors.Newf(apperrors.ErrMalformedArtifact, 4, "query number %q: %v", row[0], err)
		}
		out = append(out, ProcessedQuery{Number: number, Text: row[1]})
	}
}

// WriteExpected writes the QueryNumber;DocNumber;DocVotes table.
func WriteExpected(w io.Writer, qs []queries.Query) error {
	cw := newWriter(w)
	if err := cw.Write([]string{"QueryNumber", "DocNumber", "DocVotes"}); err != nil {
		return err
	}
	for _, q := range qs {
		for _, j := range q.Expected {
			row := []string{
				strconv.Itoa(q.Number),
				strconv.Itoa(j.DocNumber),
				strconv.Itoa(j.Votes),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteResults writes the SearchNumber;Results table. The results column
// is the ranked (rank, document, score) list, rank starting at 1.
func WriteResults(w io.Writer, results []SearchResult) error {
	cw := newWriter(w)
	if err := cw.Write([]string{"SearchNumber", "Results"}); err != nil {
		return err
	}
	for _, res := range results {
		var b strings.Builder
		b.WriteByte('[')
		for i, hit := range res.Ranked {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "(%d, %d, %s)", i+1, hit.DocID, formatWeight(hit.Score))
		}
		b.WriteByte(']')
		if err := cw.Write([]string{strconv.Itoa(res.Number), b.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'g', -1, 64)
}

func formatIntList(xs []int) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, x := range xs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(x))
	}
	b.WriteByte(']')
	return b.String()
}

func parseIntList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("list %q is not bracketed", s)
	}
	s = strings.TrimSpace(s[1 : len(s)-1])
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	xs := make([]int, 0, len(parts))
	for _, p := range parts {
		x, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("list entry %q: %w", p, err)
		}
		xs = append(xs, x)
	}
	return xs, nil
}
