package match

import "sort"

// DefaultMinSimilarity is the similarity a candidate needs to be suggested.
const DefaultMinSimilarity = 0.6

// Suggestion is a candidate name with its similarity to the target.
type Suggestion struct {
	Name  string
	Score float64
}

// Rank scores every candidate against target and returns those reaching
// minScore, best first. Ties keep the candidates' input order.
func Rank(target string, candidates []string, minScore float64) []Suggestion {
	var out []Suggestion

	for _, c := range candidates {
		if c == target {
			continue
		}

		if score := Similarity(target, c); score >= minScore {
			out = append(out, Suggestion{Name: c, Score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	return out
}

// Closest returns the best candidate reaching DefaultMinSimilarity.
func Closest(target string, candidates []string) (string, bool) {
	ranked := Rank(target, candidates, DefaultMinSimilarity)
	if len(ranked) == 0 {
		return "", false
	}

	return ranked[0].Name, true
}
