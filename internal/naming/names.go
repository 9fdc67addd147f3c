// Package naming derives riven names from the prefix/suffix lexicon.
package naming

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/rivenscan/internal/model"
)

// BaseValues maps weapon type -> attribute url_name -> base magnitude
type BaseValues map[model.WeaponType]map[string]float64

// DefaultBaseValues returns the built-in base value table
func DefaultBaseValues() BaseValues {
	out := make(BaseValues, len(baseValues))
	for wt, values := range baseValues {
		out[model.WeaponType(wt)] = values
	}
	return out
}

// Generator builds name suggestions from matched positive stats
type Generator struct {
	baseValues BaseValues
}

// NewGenerator creates a generator ranking by the given base values.
// A nil table ranks by raw magnitude.
func NewGenerator(bv BaseValues) *Generator {
	return &Generator{baseValues: bv}
}

// Prefix returns the name prefix for an attribute
func Prefix(urlName string) (string, bool) {
	p, ok := prefixes[urlName]
	return p, ok
}

// Suffix returns the name suffix for an attribute
func Suffix(urlName string) (string, bool) {
	s, ok := suffixes[urlName]
	return s, ok
}

type ranked struct {
	urlName string
	rank    float64
}

// Generate returns the recommended name and its alternates. weaponType may be
// empty, in which case stats are ranked by raw magnitude.
func (g *Generator) Generate(stats []model.Stat, weaponType model.WeaponType) model.NameSuggestion {
	empty := model.NameSuggestion{Recommended: "", Others: []string{}}

	eligible := g.rank(stats, weaponType)
	if len(eligible) < 2 {
		return empty
	}

	var recommended string
	var candidates []string

	if len(eligible) == 2 {
		hi, lo := eligible[0].urlName, eligible[1].urlName
		recommended, _ = pair(hi, lo)
		if alt, ok := pair(lo, hi); ok {
			candidates = append(candidates, alt)
		}
	} else {
		top := []string{eligible[0].urlName, eligible[1].urlName, eligible[2].urlName}
		recommended, _ = triple(top[0], top[1], top[2])

		for _, perm := range permutations {
			if name, ok := triple(top[perm[0]], top[perm[1]], top[perm[2]]); ok {
				candidates = append(candidates, name)
			}
		}
		for i := range top {
			for j := range top {
				if i == j {
					continue
				}
				if name, ok := pair(top[i], top[j]); ok {
					candidates = append(candidates, name)
				}
			}
		}
	}

	seen := map[string]bool{recommended: true}
	others := []string{}
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		others = append(others, c)
	}

	return model.NameSuggestion{Recommended: recommended, Others: others}
}

var permutations = [][3]int{
	{0, 1, 2}, {0, 2, 1},
	{1, 0, 2}, {1, 2, 0},
	{2, 0, 1}, {2, 1, 0},
}

// rank keeps POSITIVE matched stats and orders them by prominence. Base-value
// normalization applies only when every eligible stat has a base value for
// the weapon type; a partial table would mix scales.
func (g *Generator) rank(stats []model.Stat, weaponType model.WeaponType) []ranked {
	var out []ranked
	for _, s := range stats {
		if s.Type != model.StatPositive || s.MatchedAttribute == nil || s.MatchedAttribute.URLName == "" {
			continue
		}
		out = append(out, ranked{urlName: s.MatchedAttribute.URLName, rank: math.Abs(s.Value)})
	}

	if table := g.baseValues[weaponType]; len(table) > 0 {
		complete := true
		for _, r := range out {
			if table[r.urlName] <= 0 {
				complete = false
				break
			}
		}
		if complete {
			for i := range out {
				out[i].rank /= table[out[i].urlName]
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].rank > out[j].rank
	})
	return out
}

func pair(first, second string) (string, bool) {
	p, ok1 := prefixes[first]
	s, ok2 := suffixes[second]
	if !ok1 || !ok2 {
		return "", false
	}
	return capitalize(p + strings.ToLower(s)), true
}

func triple(first, second, third string) (string, bool) {
	p1, ok1 := prefixes[first]
	p2, ok2 := prefixes[second]
	s, ok3 := suffixes[third]
	if !ok1 || !ok2 || !ok3 {
		return "", false
	}
	return capitalize(p1 + "-" + p2 + strings.ToLower(s)), true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// GenerateNames ranks by the built-in base values when weaponType is known
func GenerateNames(stats []model.Stat, weaponType model.WeaponType) model.NameSuggestion {
	return NewGenerator(DefaultBaseValues()).Generate(stats, weaponType)
}
