// Package postings builds the inverted index: one posting list per term,
// holding the document ids the term occurs in, one entry per occurrence.
// Term frequency is recovered by counting repeats; document frequency by
// counting distinct ids.
package postings

import (
	"sort"

	"vsmsearch/internal/normalize"
)

// TermPostings pairs a term with its occurrence list.
type TermPostings struct {
	Term string
	Docs []int
}

// Build tokenises each record (stopword filtering on, stemming per the
// normalizer) and appends the document id to the posting list of every
// surviving token. Documents are visited in ascending id order so repeated
// builds produce identical posting lists. Terms with no occurrences are
// absent from the result.
func Build(records map[int]string, n *normalize.Normalizer) map[string][]int {
	ids := make([]int, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	lists := make(map[string][]int)
	for _, id := range ids {
		for _, term := range n.Normalize(records[id], true) {
			lists[term] = append(lists[term], id)
		}
	}
	return lists
}

// Merge appends the posting lists of src onto dst, for corpora split across
// several record files.
func Merge(dst, src map[string][]int) {
	for term, docs := range src {
		dst[term] = append(dst[term], docs...)
	}
}

// SortByFrequency orders terms by descending posting-list length. Ties are
// broken by ascending term so the ordering is deterministic.
func SortByFrequency(lists map[string][]int) []TermPostings {
	entries := make([]TermPostings, 0, len(lists))
	for term, docs := range lists {
		if len(docs) == 0 {
			continue
		}
		entries = append(entries, TermPostings{Term: term, Docs: docs})
	}
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].Docs) != len(entries[j].Docs) {
			return len(entries[i].Docs) > len(entries[j].Docs)
		}
		return entries[i].Term < entries[j].Term
	})
	return entries
}

// DocumentFrequency counts the distinct document ids in a posting list.
func DocumentFrequency(docs []int) int {
	seen := make(map[int]struct{}, len(docs))
	for _, d := range docs {
		seen[d] = struct{}{}
	}
	return len(seen)
}

// TermFrequency counts the occurrences of doc in a posting list.
func TermFrequency(docs []int, doc int) int {
	count := 0
	for _, d := range docs {
		if d == doc {
			count++
		}
	}
	return count
}

// Universe returns the sorted set of distinct document ids across all
// posting lists.
func Universe(entries []TermPostings) []int {
	seen := make(map[int]struct{})
	for _, e := range entries {
		for _, d := range e.Docs {
			seen[d] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for d := range seen {
		ids = append(ids, d)
	}
	sort.Ints(ids)
	return ids
}
