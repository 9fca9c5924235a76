// Package queries extracts the query collection from the query set XML:
// query number, free text, and the relevance judgments used for evaluation.
package queries

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"vsmsearch/internal/normalize"
)

// Judgment is one expected result: a document and the number of judges
// that scored it positively.
type Judgment struct {
	DocNumber int
	Votes     int
}

// Query is one entry of the query collection.
type Query struct {
	Number   int
	Text     string
	Expected []Judgment
}

type item struct {
	Score string `xml:"score,attr"`
	Doc   string `xml:",chardata"`
}

type queryElem struct {
	Number  string `xml:"QueryNumber"`
	Text    string `xml:"QueryText"`
	Records struct {
		Items []item `xml:"Item"`
	} `xml:"Records"`
}

// Parse scans the XML stream for QUERY elements regardless of the
// surrounding document structure.
func Parse(r io.Reader) ([]Query, error) {
	var out []Query
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading query XML: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "QUERY" {
			continue
		}
		var elem queryElem
		if err := dec.DecodeElement(&elem, &start); err != nil {
			return nil, fmt.Errorf("decoding QUERY element: %w", err)
		}
		q, err := fromElem(elem)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
}

func fromElem(elem queryElem) (Query, error) {
	number, err := strconv.Atoi(strings.TrimSpace(elem.Number))
	if err != nil {
		return Query{}, fmt.Errorf("parsing QueryNumber %q: %w", elem.Number, err)
	}
	q := Query{
		Number: number,
		Text:   cleanText(elem.Text),
	}
	for _, it := range elem.Records.Items {
		doc, err := strconv.Atoi(strings.TrimSpace(it.Doc))
		if err != nil {
			return Query{}, fmt.Errorf("parsing judgment document %q: %w", it.Doc, err)
		}
		q.Expected = append(q.Expected, Judgment{
			DocNumber: doc,
			Votes:     countVotes(it.Score),
		})
	}
	return q, nil
}

// countVotes counts the positive digits of a judgment score string. Each
// position is one judge; a nonzero digit is a positive vote.
func countVotes(score string) int {
	votes := 0
	for _, r := range score {
		if r > '0' && r <= '9' {
			votes++
		}
	}
	return votes
}

// cleanText folds query text for the processed-queries table: accents
// stripped, upper-cased, semicolons removed (they delimit the table),
// whitespace collapsed. Punctuation is otherwise preserved; the search
// stage normalises again before ranking.
func cleanText(s string) string {
	s = strings.ReplaceAll(normalize.Deaccent(s), ";", " ")
	s = strings.ToUpper(s)
	return strings.Join(strings.Fields(s), " ")
}

// ToRecords maps the collection to (query number -> text) for the query
// vectorizer.
func ToRecords(qs []Query) map[int]string {
	records := make(map[int]string, len(qs))
	for _, q := range qs {
		records[q.Number] = q.Text
	}
	return records
}
