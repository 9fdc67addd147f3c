package extract

import (
	"strings"
	"testing"
)

func intValue(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

func TestExtractMastery(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Mastery Rank 12", 12},
		{"rC MR 11     0", 11},
		{"MR8", 8},
		{"Rank 16", 16},
		{"no footer here", -1},
	}

	for _, tt := range tests {
		if got := intValue(ExtractMastery(tt.text)); got != tt.want {
			t.Errorf("ExtractMastery(%q) = %d, expected %d", tt.text, got, tt.want)
		}
	}
}

func TestExtractRolls(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"Rolled 5 times", 5},
		{"12 rolls", 12},
		{"Rolled: 3", 3},
		{"Rerolls: 7", 7},
		{"Rolled 9", 9},
		{"Rolled lO tImes", 10},
		{"+12% roll speed", -1},
		{"nothing", -1},
	}

	for _, tt := range tests {
		if got := intValue(ExtractRolls(tt.text)); got != tt.want {
			t.Errorf("ExtractRolls(%q) = %d, expected %d", tt.text, got, tt.want)
		}
	}
}

func TestExtractPolarity(t *testing.T) {
	got := ExtractPolarity("Polarity: NARAMON and vazarin")
	if got == nil || *got != "vazarin" {
		t.Errorf("Expected vazarin (first in keyword order), got %v", got)
	}
	if got := ExtractPolarity("none"); got != nil {
		t.Errorf("Expected nil, got %q", *got)
	}
}

func TestFooterExtractor_BelowLastStat(t *testing.T) {
	lines := []string{
		"gr Lenz Visi-ignican",
		"XA 191 5% Multshor",
		"+92 5% Heat",
		"+174 1% Damage",
		"y 37 6% Reload Speed",
		"rC MR 11 0",
		"TAN",
	}

	mastery, rolls := ExtractFooter(lines)
	if intValue(mastery) != 11 || intValue(rolls) != 0 {
		t.Errorf("Expected mastery 11 and rolls 0, got %d and %d", intValue(mastery), intValue(rolls))
	}
}

func TestFooterExtractor_RejectsImplausibleMastery(t *testing.T) {
	lines := []string{"+10% Damage", "VR 40 3", "15 040 A"}

	mastery, rolls := ExtractFooter(lines)
	if intValue(mastery) != 15 || intValue(rolls) != 40 {
		t.Errorf("Expected mastery 15 and rolls 40, got %d and %d", intValue(mastery), intValue(rolls))
	}
}

func TestFooterExtractor_NoStatsScansEverything(t *testing.T) {
	mastery, rolls := NewFooterExtractor(0).Extract([]string{"header", "9 2"})
	if intValue(mastery) != 9 || intValue(rolls) != 2 {
		t.Errorf("Expected 9 and 2, got %d and %d", intValue(mastery), intValue(rolls))
	}

	mastery, rolls = ExtractFooter(nil)
	if mastery != nil || rolls != nil {
		t.Error("Expected nil results for no lines")
	}
}

func TestCleanOCRText(t *testing.T) {
	raw := strings.Join([]string{
		"Ts        LT TT Nam",
		"ps",
		"/            7      1",
		"----",
		"@@@@ decorative",
		"Zrepticor Visi-satipha",
		" 4 107 1% Multishot",
		"+189 8% Damage",
		"8 MR 9                    02",
		"a",
		"",
	}, "\n")

	got := CleanOCRText(raw)
	want := strings.Join([]string{
		"Zrepticor Visi-satipha",
		"4 107 1% Multishot",
		"+189 8% Damage",
		"8 MR 9                    02",
	}, "\n")

	if got != want {
		t.Errorf("Unexpected cleaned text:\n%s\nexpected:\n%s", got, want)
	}
}

func TestCleanOCRText_Normalizes(t *testing.T) {
	got := CleanOCRText("＋１８９ ８％ Damage\r\n")
	if got != "+189 8% Damage" {
		t.Errorf("Expected NFKC-folded line, got %q", got)
	}
	if CleanOCRText("") != "" {
		t.Error("Expected empty output for empty input")
	}
}

func TestCleanOCRText_KeepsWideStatLines(t *testing.T) {
	line := "y           37 6% Reload Speed"
	if got := CleanOCRText(line); got != line {
		t.Errorf("Expected stat-like line to survive, got %q", got)
	}
}
