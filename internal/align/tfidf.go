package align

import (
	"errors"
	"math"
	"sort"
	"strings"
	"unicode"
)

// errNoTerms means a document has no usable terms after tokenization and
// stop-word removal; the caller degrades the score instead of failing.
var errNoTerms = errors.New("no terms to vectorize")

// stopWords are common English function words excluded from the vector
// space. The set mirrors the usual information-retrieval lists.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a about above after again against all am an and any are as at be
		because been before being below between both but by could did do
		does doing down during each few for from further had has have
		having he her here hers him his how i if in into is it its itself
		just me more most my no nor not now of off on once only or other
		our ours out over own same she should so some such than that the
		their theirs them then there these they this those through to too
		under until up very was we were what when where which while who
		whom why will with you your yours`) {
		stopWords[w] = struct{}{}
	}
}

// tokenize lowercases and splits on non-alphanumeric runes, dropping
// single-character tokens and stop words.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// cosineSimilarity builds a two-document TF-IDF space over exactly
// {a, b} and returns the cosine of their vectors, in [0, 1].
func cosineSimilarity(a, b string) (float64, error) {
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0, errNoTerms
	}

	tfA := termCounts(tokensA)
	tfB := termCounts(tokensB)

	// smoothed IDF over the two-document corpus
	idf := func(term string) float64 {
		df := 0
		if tfA[term] > 0 {
			df++
		}
		if tfB[term] > 0 {
			df++
		}
		return math.Log(float64(1+2)/float64(1+df)) + 1
	}

	// accumulation order must be fixed: float addition is not associative,
	// and equal inputs have to produce bit-equal scores
	vocabulary := make([]string, 0, len(tfA)+len(tfB))
	for term := range tfA {
		vocabulary = append(vocabulary, term)
	}
	for term := range tfB {
		if tfA[term] == 0 {
			vocabulary = append(vocabulary, term)
		}
	}
	sort.Strings(vocabulary)

	var dot, normA, normB float64
	for _, term := range vocabulary {
		w := idf(term)
		wa := float64(tfA[term]) * w
		wb := float64(tfB[term]) * w
		dot += wa * wb
		normA += wa * wa
		normB += wb * wb
	}

	if normA == 0 || normB == 0 {
		return 0, errNoTerms
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return clamp01(score), nil
}

func termCounts(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
