package extract

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	minLineLength      = 2
	shortLineLength    = 4
	crampedLineLength  = 15
	maxSpecialRatio    = 0.4
	crampedMinTokens   = 3
	crampedMaxTokenAvg = 2.0
)

// Cleaner drops OCR lines that are almost certainly decoration or noise
// before the text reaches the parser.
type Cleaner struct {
	reHasDigit    *regexp.Regexp
	reHasLetter   *regexp.Regexp
	reSpecialChar *regexp.Regexp
	reSpecialRun  *regexp.Regexp
	reDecoration  *regexp.Regexp
	reWideGap     *regexp.Regexp
	reStatLike    *regexp.Regexp
	reFooterLike  *regexp.Regexp
	charReplacer  *strings.Replacer
}

// NewCleaner creates a cleaner with precompiled patterns
func NewCleaner() *Cleaner {
	return &Cleaner{
		reHasDigit:    regexp.MustCompile(`\d`),
		reHasLetter:   regexp.MustCompile(`[a-zA-Z]`),
		reSpecialChar: regexp.MustCompile(`[^a-zA-Z0-9\s+\-.%]`),
		reSpecialRun:  regexp.MustCompile(`[^a-zA-Z0-9\s]{4,}`),
		reDecoration:  regexp.MustCompile(`^[\s\-_=.]{4,}$`),
		reWideGap:     regexp.MustCompile(`\s{6,}`),
		reStatLike:    regexp.MustCompile(`\d+\s*[%/]\s*[a-zA-Z]`),

		// The mastery/rolls row is laid out with a wide gap between the two
		// numbers; it must survive the spacing filter.
		reFooterLike: regexp.MustCompile(`(?i)\b(MR|Mastery|Rank|Roll(ed|s)?)\b\s*\d`),

		charReplacer: strings.NewReplacer(
			"\r", "",
			"—", "-",
			"–", "-",
			"−", "-",
		),
	}
}

// Clean returns text with noise lines removed, one trimmed line per row
func (c *Cleaner) Clean(input string) string {
	if input == "" {
		return ""
	}

	text := c.charReplacer.Replace(norm.NFKC.String(input))

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if c.keep(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func (c *Cleaner) keep(line string) bool {
	if len(line) < minLineLength {
		return false
	}

	tokens := strings.Fields(line)
	if len(line) <= shortLineLength {
		if len(tokens) == 1 && c.reHasLetter.MatchString(line) && !c.reHasDigit.MatchString(line) {
			return false
		}
		if len(tokens) >= crampedMinTokens && len(line) <= crampedLineLength {
			letters := len(strings.Join(tokens, ""))
			if float64(letters)/float64(len(tokens)) < crampedMaxTokenAvg {
				return false
			}
		}
	}

	special := len(c.reSpecialChar.FindAllString(line, -1))
	if float64(special)/float64(len(line)) > maxSpecialRatio {
		return false
	}
	if c.reSpecialRun.MatchString(line) {
		return false
	}
	if c.reDecoration.MatchString(line) {
		return false
	}
	if c.reWideGap.MatchString(line) && !c.reStatLike.MatchString(line) && !c.reFooterLike.MatchString(line) {
		return false
	}
	return true
}

// CleanOCRText is a convenience wrapper over a fresh Cleaner
func CleanOCRText(text string) string {
	return NewCleaner().Clean(text)
}
