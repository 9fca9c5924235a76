// Package corpus extracts document records from bibliographic XML files.
// Each RECORD contributes (RECORDNUM, folded abstract text); the ABSTRACT
// field is preferred, EXTRACT is the fallback, and records with neither are
// skipped rather than failing the batch.
package corpus

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"vsmsearch/internal/normalize"
)

type record struct {
	Num      string `xml:"RECORDNUM"`
	Abstract string `xml:"ABSTRACT"`
	Extract  string `xml:"EXTRACT"`
}

// Result is the outcome of parsing one record file.
type Result struct {
	Records map[int]string // record number -> folded abstract text
	Skipped int            // records lacking both abstract fields
}

// Parse scans the XML stream for RECORD elements regardless of the
// surrounding document structure. Record text is folded the same way the
// normalizer folds it, so downstream stages receive canonical text.
func Parse(r io.Reader) (Result, error) {
	res := Result{Records: make(map[int]string)}
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return Result{}, fmt.Errorf("reading record XML: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "RECORD" {
			continue
		}
		var rec record
		if err := dec.DecodeElement(&rec, &start); err != nil {
			return Result{}, fmt.Errorf("decoding RECORD element: %w", err)
		}
		num, err := strconv.Atoi(strings.TrimSpace(rec.Num))
		if err != nil {
			return Result{}, fmt.Errorf("parsing RECORDNUM %q: %w", rec.Num, err)
		}
		text := rec.Abstract
		if strings.TrimSpace(text) == "" {
			text = rec.Extract
		}
		if strings.TrimSpace(text) == "" {
			res.Skipped++
			continue
		}
		res.Records[num] = normalize.Fold(text)
	}
}
