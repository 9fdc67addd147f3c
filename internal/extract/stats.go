package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/rivenscan/internal/model"
)

// DefaultMaxNameLength is the longest stat label accepted as a real stat
const DefaultMaxNameLength = 40

var (
	// sign, number with space/comma/dot separators, optional % or /, label
	statPattern = regexp.MustCompile(`([+\-yv])?[ \t]*(\d+(?:[., \t]\d+)*)[ \t]*[%/]?[ \t]*([A-Za-z][^\n]*)`)

	properNounPattern = regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z][a-z]+`)
	leadingFloat      = regexp.MustCompile(`^\d+(?:\.\d+)?`)
)

// StatExtractor pulls signed percentage stat lines out of OCR text
type StatExtractor struct {
	keywords      []string
	maxNameLength int
}

// NewStatExtractor creates a stat extractor with the default label limit
func NewStatExtractor() *StatExtractor {
	return NewStatExtractorWithLimit(DefaultMaxNameLength)
}

// NewStatExtractorWithLimit creates a stat extractor with a custom label limit
func NewStatExtractorWithLimit(maxNameLength int) *StatExtractor {
	if maxNameLength <= 0 {
		maxNameLength = DefaultMaxNameLength
	}
	return &StatExtractor{
		keywords: []string{
			"damage", "critical", "chance", "multishot", "speed", "status",
			"fire", "rate", "reload", "recoil", "punch", "through", "magazine",
			"capacity", "ammo", "maximum", "range", "combo", "slash", "impact",
			"puncture", "heat", "cold", "electric", "toxin", "finisher",
			"channeling", "zoom", "projectile", "duration", "efficiency",
			"slide", "attack", "infested", "corpus", "grineer", "melee",
			"base", "count",
		},
		maxNameLength: maxNameLength,
	}
}

// Extract returns every plausible stat in text order. Lines that look like
// stats but fail the noise rules are dropped silently.
func (e *StatExtractor) Extract(text string) []model.Stat {
	var stats []model.Stat

	for _, m := range statPattern.FindAllStringSubmatch(text, -1) {
		sign := m[1]
		name := strings.TrimSpace(m[3])

		value, hasDecimal, ok := reconstructValue(m[2])
		if !ok {
			continue
		}
		if e.isNoise(name, value, sign != "", hasDecimal) {
			continue
		}

		stats = append(stats, model.Stat{
			Type:  inferType(sign, value),
			Value: value,
			Name:  name,
		})
	}

	return stats
}

func (e *StatExtractor) isNoise(name string, value float64, signed, hasDecimal bool) bool {
	if strings.Contains(name, "-") {
		return true
	}
	if len(name) > e.maxNameLength {
		return true
	}

	keyword := e.hasKeyword(name)
	if properNounPattern.MatchString(name) && !keyword {
		return true
	}
	if value < 10 && !signed && !hasDecimal && !keyword {
		return true
	}
	return false
}

func (e *StatExtractor) hasKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, k := range e.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// inferType maps an explicit sign directly; otherwise values of at least 1
// are assumed positive. This is an approximation: OCR often drops the sign.
func inferType(sign string, value float64) model.StatType {
	switch sign {
	case "+":
		return model.StatPositive
	case "-", "y", "v":
		return model.StatNegative
	}
	if value >= 1 {
		return model.StatPositive
	}
	return model.StatNegative
}

// ReconstructValue turns an OCR number whose decimal point was read as a
// space or comma back into a float.
func ReconstructValue(raw string) (float64, bool) {
	v, _, ok := reconstructValue(raw)
	return v, ok
}

func reconstructValue(raw string) (float64, bool, bool) {
	groups := strings.Fields(strings.ReplaceAll(raw, ",", "."))

	var s string
	switch {
	case len(groups) == 0:
		return 0, false, false
	case len(groups) == 1:
		s = groups[0]
	case len(groups) == 2:
		s = groups[0] + "." + groups[1]
	case len(groups) == 3 && len(groups[0]) == 1 && len(groups[1]) >= 2 && len(groups[1]) <= 3:
		// a stray leading digit from the row icon: "4 107 1" is 107.1
		s = groups[1] + "." + groups[2]
	default:
		s = groups[len(groups)-2] + "." + groups[len(groups)-1]
	}

	num := leadingFloat.FindString(s)
	if num == "" {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false, false
	}
	return v, strings.Contains(num, "."), true
}

// ExtractStats is a convenience wrapper over the default extractor
func ExtractStats(text string) []model.Stat {
	return NewStatExtractor().Extract(text)
}
