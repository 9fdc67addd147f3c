package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultMaxMastery is the highest mastery rank a riven can require
const DefaultMaxMastery = 18

var (
	masteryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Mastery\s*Rank\s*(\d+)`),
		regexp.MustCompile(`(?i)MR\s*(\d+)`),
		regexp.MustCompile(`(?i)Rank\s*(\d+)`),
	}

	rollsPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Rolled\s*(\d+)\s*times?`),
		regexp.MustCompile(`(?i)(\d+)\s*rolls?`),
		regexp.MustCompile(`(?i)Rolled\s*:\s*(\d+)`),
		regexp.MustCompile(`(?i)Rerolls\s*:\s*(\d+)`),
		regexp.MustCompile(`(?i)Rolled\s*(\d+)`),
	}

	rollLine     = regexp.MustCompile(`(?i)roll[a-z]*`)
	firstNumber  = regexp.MustCompile(`\d+`)
	statLineHint = regexp.MustCompile(`[+\-yv]\s*\d+(?:[., ]\d+)?\s*%`)

	// OCR confusions between letters and digits on the rolls line
	digitFixer = strings.NewReplacer(
		"o", "0", "O", "0",
		"l", "1", "I", "1", "|", "1",
		"s", "5", "S", "5",
		"z", "2", "Z", "2",
		"g", "9",
		"b", "6",
	)

	polarities = []string{"madurai", "vazarin", "naramon", "zenurik", "unairu"}
)

// ExtractMastery finds an explicit mastery label in text
func ExtractMastery(text string) *int {
	return firstGroupInt(masteryPatterns, text)
}

// ExtractRolls finds an explicit reroll count in text, falling back to lines
// mentioning "roll" after undoing common letter/digit confusions.
func ExtractRolls(text string) *int {
	if n := firstGroupInt(rollsPatterns, text); n != nil {
		return n
	}

	for _, line := range strings.Split(text, "\n") {
		loc := rollLine.FindStringIndex(line)
		if loc == nil || strings.Contains(line, "%") {
			continue
		}
		// only the text after the keyword is fixed up, "roll" itself would read as "r011"
		if m := firstNumber.FindString(digitFixer.Replace(line[loc[1]:])); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				return &n
			}
		}
	}
	return nil
}

// ExtractPolarity returns the first known polarity name present in text
func ExtractPolarity(text string) *string {
	lower := strings.ToLower(text)
	for _, p := range polarities {
		if strings.Contains(lower, p) {
			return &p
		}
	}
	return nil
}

// FooterExtractor reads mastery and rolls from the "MR n  rolls" row that
// sits below the last stat line when the labels themselves were lost.
type FooterExtractor struct {
	maxMastery int
}

// NewFooterExtractor creates a footer extractor with a mastery upper bound
func NewFooterExtractor(maxMastery int) *FooterExtractor {
	if maxMastery <= 0 {
		maxMastery = DefaultMaxMastery
	}
	return &FooterExtractor{maxMastery: maxMastery}
}

// Extract scans lines after the last stat-like line (or all lines when none)
// for the first line with two integers whose first is a plausible mastery.
func (f *FooterExtractor) Extract(lines []string) (mastery, rolls *int) {
	last := -1
	for i, line := range lines {
		if statLineHint.MatchString(line) {
			last = i
		}
	}

	for _, line := range lines[last+1:] {
		nums := firstNumber.FindAllString(line, -1)
		if len(nums) < 2 {
			continue
		}
		mr, err1 := strconv.Atoi(nums[0])
		r, err2 := strconv.Atoi(nums[1])
		if err1 != nil || err2 != nil {
			continue
		}
		if mr <= f.maxMastery {
			return &mr, &r
		}
	}
	return nil, nil
}

// ExtractFooter is a convenience wrapper using the default mastery bound
func ExtractFooter(lines []string) (mastery, rolls *int) {
	return NewFooterExtractor(DefaultMaxMastery).Extract(lines)
}

func firstGroupInt(patterns []*regexp.Regexp, text string) *int {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return &n
			}
		}
	}
	return nil
}
