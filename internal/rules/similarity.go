package rules

import "strings"

// NameSimilarity scores two normalized counterparty names on [0,1]:
// exact equality is 1.0, contiguous-substring containment is 0.8, anything
// else falls back to word-level Jaccard overlap. Word-level only, no
// character edit distance, so transliteration noise inside individual words
// cannot produce partial credit. Empty names never match.
func NameSimilarity(n1, n2 string) float64 {
	if n1 == "" || n2 == "" {
		return 0.0
	}
	if n1 == n2 {
		return 1.0
	}
	if strings.Contains(n1, n2) || strings.Contains(n2, n1) {
		return 0.8
	}

	tokens1 := tokenSet(n1)
	tokens2 := tokenSet(n2)
	common := 0
	for token := range tokens1 {
		if tokens2[token] {
			common++
		}
	}
	union := len(tokens1) + len(tokens2) - common
	if union == 0 {
		return 0.0
	}
	return float64(common) / float64(union)
}

func tokenSet(name string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range strings.Fields(name) {
		set[token] = true
	}
	return set
}
