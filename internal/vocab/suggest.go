package vocab

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Suggestion is a weapon name close to an unrecognized input
type Suggestion struct {
	Name       string
	Similarity float32
}

// Suggest returns up to limit weapon names whose Jaro-Winkler similarity to
// name is at least minSimilarity, best first. It is used to hint at the
// intended weapon when a lookup by exact name fails.
func (v *Vocabulary) Suggest(name string, limit int, minSimilarity float32) []Suggestion {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil
	}

	var out []Suggestion
	for _, w := range v.Weapons {
		candidate := strings.ToLower(w.DisplayName())
		similarity := edlib.JaroWinklerSimilarity(query, candidate)
		if similarity >= minSimilarity {
			out = append(out, Suggestion{Name: w.DisplayName(), Similarity: similarity})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
