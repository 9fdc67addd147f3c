// Package match resolves noisy OCR fragments against the weapon and
// attribute vocabularies.
package match

import (
	"strings"

	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/ppiankov/rivenscan/internal/similarity"
)

// DefaultInclusionRatio is the minimum length ratio for a substring match
const DefaultInclusionRatio = 0.75

// minOverlapScore is the word-overlap score needed to accept a label
const minOverlapScore = 2

// attributeStrategy returns the index of the chosen attribute or -1
type attributeStrategy struct {
	name  string
	match func(raw string, attrs []model.AttributeRef) int
}

// AttributeMatcher resolves stat labels to vocabulary attributes. Strategies
// run in order; the first to produce a result wins.
type AttributeMatcher struct {
	attributes []model.AttributeRef
	strategies []attributeStrategy
}

// NewAttributeMatcher creates a matcher over an ordered attribute vocabulary
func NewAttributeMatcher(attributes []model.AttributeRef, inclusionRatio float64) *AttributeMatcher {
	if inclusionRatio <= 0 {
		inclusionRatio = DefaultInclusionRatio
	}
	return &AttributeMatcher{
		attributes: attributes,
		strategies: []attributeStrategy{
			{name: "exact", match: exactLabel},
			{name: "word_overlap", match: wordOverlap},
			{name: "inclusion", match: inclusion(inclusionRatio)},
			{name: "edit_distance", match: closestLabel},
		},
	}
}

// Match returns the best attribute for raw and the name of the strategy that
// produced it. Only an empty vocabulary yields no match; blank input falls
// through to the closest label.
func (m *AttributeMatcher) Match(raw string) (model.AttributeRef, string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if len(m.attributes) == 0 {
		return model.AttributeRef{}, "", false
	}

	for _, s := range m.strategies {
		if i := s.match(normalized, m.attributes); i >= 0 {
			return m.attributes[i], s.name, true
		}
	}
	return model.AttributeRef{}, "", false
}

// MatchAttribute is a convenience wrapper using the default inclusion ratio
func MatchAttribute(raw string, attributes []model.AttributeRef) *model.AttributeRef {
	attr, _, ok := NewAttributeMatcher(attributes, DefaultInclusionRatio).Match(raw)
	if !ok {
		return nil
	}
	return &attr
}

func label(a model.AttributeRef) string {
	return strings.ToLower(strings.TrimSpace(a.Effect))
}

func exactLabel(raw string, attrs []model.AttributeRef) int {
	for i, a := range attrs {
		if label(a) == raw {
			return i
		}
	}
	return -1
}

// wordOverlap scores 2 points per identical token pair and 1 point per
// contained or near-miss pair. Ties go to the label closest in length to raw.
func wordOverlap(raw string, attrs []model.AttributeRef) int {
	rawTokens := similarity.Tokenize(raw)
	if len(rawTokens) == 0 {
		return -1
	}

	best, bestScore, bestDiff := -1, 0, 0
	for i, a := range attrs {
		lbl := label(a)
		score := overlapScore(rawTokens, similarity.Tokenize(lbl))
		if score < minOverlapScore {
			continue
		}
		diff := absInt(len(lbl) - len(raw))
		if score > bestScore || (score == bestScore && diff < bestDiff) {
			best, bestScore, bestDiff = i, score, diff
		}
	}
	return best
}

func overlapScore(rawTokens, labelTokens []string) int {
	score := 0
	for _, rt := range rawTokens {
		for _, lt := range labelTokens {
			switch {
			case rt == lt:
				score += 2
			case strings.Contains(rt, lt) || strings.Contains(lt, rt) || similarity.NearMiss(rt, lt):
				score++
			}
		}
	}
	return score
}

func inclusion(ratio float64) func(string, []model.AttributeRef) int {
	return func(raw string, attrs []model.AttributeRef) int {
		best, bestDiff := -1, 0
		for i, a := range attrs {
			lbl := label(a)
			if lbl == "" || !(strings.Contains(lbl, raw) || strings.Contains(raw, lbl)) {
				continue
			}
			short, long := len(lbl), len(raw)
			if short > long {
				short, long = long, short
			}
			if float64(short)/float64(long) <= ratio {
				continue
			}
			diff := absInt(len(lbl) - len(raw))
			if best < 0 || diff < bestDiff {
				best, bestDiff = i, diff
			}
		}
		return best
	}
}

func closestLabel(raw string, attrs []model.AttributeRef) int {
	best, bestDist := -1, 0
	for i, a := range attrs {
		d := similarity.EditDistance(raw, label(a))
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
