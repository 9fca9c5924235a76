package postings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vsmsearch/internal/normalize"
)

func testNormalizer() *normalize.Normalizer {
	return normalize.New(normalize.StopwordsFromLines([]string{"the"}), false)
}

func TestBuild(t *testing.T) {
	records := map[int]string{
		1: "the cat sat",
		2: "the dog sat",
	}
	lists := Build(records, testNormalizer())
	assert.Equal(t, map[string][]int{
		"CAT": {1},
		"SAT": {1, 2},
		"DOG": {2},
	}, lists)
}

func TestBuildRepeatsEncodeFrequency(t *testing.T) {
	records := map[int]string{
		7: "water water water salt",
	}
	lists := Build(records, testNormalizer())
	assert.Equal(t, []int{7, 7, 7}, lists["WATER"])
	assert.Equal(t, 3, TermFrequency(lists["WATER"], 7))
	assert.Equal(t, 1, DocumentFrequency(lists["WATER"]))
}

func TestBuildVisitsDocumentsInOrder(t *testing.T) {
	records := map[int]string{
		3: "salt",
		1: "salt",
		2: "salt",
	}
	for i := 0; i < 20; i++ {
		lists := Build(records, testNormalizer())
		assert.Equal(t, []int{1, 2, 3}, lists["SALT"])
	}
}

func TestMerge(t *testing.T) {
	dst := map[string][]int{"SALT": {1}}
	Merge(dst, map[string][]int{"SALT": {2}, "SWEAT": {2}})
	assert.Equal(t, map[string][]int{
		"SALT":  {1, 2},
		"SWEAT": {2},
	}, dst)
}

func TestSortByFrequency(t *testing.T) {
	lists := map[string][]int{
		"CAT":   {1},
		"SAT":   {1, 2},
		"DOG":   {2},
		"EMPTY": {},
	}
	entries := SortByFrequency(lists)
	require.Len(t, entries, 3, "empty posting lists are absent")
	assert.Equal(t, "SAT", entries[0].Term)
	// length ties fall back to lexicographic term order
	assert.Equal(t, "CAT", entries[1].Term)
	assert.Equal(t, "DOG", entries[2].Term)
}

func TestUniverse(t *testing.T) {
	entries := []TermPostings{
		{Term: "SAT", Docs: []int{9, 1, 9, 4}},
		{Term: "CAT", Docs: []int{4}},
	}
	assert.Equal(t, []int{1, 4, 9}, Universe(entries))
	assert.Empty(t, Universe(nil))
}
