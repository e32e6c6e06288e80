package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimSpace(name)
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// BestMatch returns the candidate most similar to `input` by Jaro-Winkler
// similarity over normalized names. An exact normalized match always wins.
// The returned similarity is 0 when there are no candidates.
func BestMatch(input string, candidates []string) (string, float64) {
	target := NormalizeName(input)

	var best string
	var bestSimilarity float64
	for _, c := range candidates {
		normalized := NormalizeName(c)
		if normalized == target {
			return c, 1
		}
		similarity := matchr.JaroWinkler(target, normalized, false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = c
		}
	}
	return best, bestSimilarity
}
