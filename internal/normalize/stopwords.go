package normalize

import "strings"

// Stopwords is an upper-cased stopword set. Membership is checked against
// already-folded tokens.
type Stopwords map[string]struct{}

// StopwordsFromLines builds a stopword set from a newline-split list, as
// loaded by the host from a stopword file. Entries are folded to match
// normalised tokens; blank lines are ignored.
func StopwordsFromLines(lines []string) Stopwords {
	set := make(Stopwords, len(lines))
	for _, line := range lines {
		word := strings.ToUpper(strings.TrimSpace(line))
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	return set
}

// DefaultStopwords returns a common English stopword set for hosts that do
// not supply their own list.
func DefaultStopwords() Stopwords {
	words := []string{
		"a", "an", "the", "and", "or", "but", "nor",
		"to", "in", "of", "on", "for", "with", "as", "at", "by", "from",
		"is", "are", "was", "were", "be", "been", "being", "am",
		"this", "that", "these", "those", "it", "its", "itself",
		"i", "me", "my", "we", "our", "ours", "you", "your", "yours",
		"he", "him", "his", "she", "her", "hers",
		"they", "them", "their", "theirs",
		"do", "does", "did", "doing",
		"have", "has", "had", "having",
		"not", "no", "only", "very", "too", "also",
		"can", "could", "should", "would", "may", "might", "must", "will",
		"if", "then", "else", "than", "so", "because", "while",
		"when", "where", "which", "who", "whom", "what", "how",
		"about", "above", "below", "under", "over", "into", "out",
		"up", "down", "again", "further", "once", "here", "there",
		"all", "any", "both", "each", "few", "more", "most", "other",
		"some", "such", "own", "same", "between", "during", "after",
		"before", "through", "upon", "within", "without",
	}
	set := make(Stopwords, len(words))
	for _, w := range words {
		set[strings.ToUpper(w)] = struct{}{}
	}
	return set
}
