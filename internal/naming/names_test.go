package naming

import (
	"testing"

	"github.com/ppiankov/rivenscan/internal/model"
)

func stat(urlName string, value float64, typ model.StatType) model.Stat {
	return model.Stat{
		Type:             typ,
		Value:            value,
		Name:             urlName,
		MatchedAttribute: &model.AttributeRef{URLName: urlName},
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestGenerate_FewerThanTwoEligible(t *testing.T) {
	tests := []struct {
		name  string
		stats []model.Stat
	}{
		{"none", nil},
		{"one positive", []model.Stat{stat("multishot", 100, model.StatPositive)}},
		{"negatives ignored", []model.Stat{
			stat("multishot", 100, model.StatPositive),
			stat("zoom", 50, model.StatNegative),
		}},
		{"unmatched ignored", []model.Stat{
			stat("multishot", 100, model.StatPositive),
			{Type: model.StatPositive, Value: 80, Name: "Garbage"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateNames(tt.stats, "")
			if got.Recommended != "" {
				t.Errorf("Expected empty recommendation, got %q", got.Recommended)
			}
			if got.Others == nil || len(got.Others) != 0 {
				t.Errorf("Expected empty non-nil alternates, got %v", got.Others)
			}
		})
	}
}

func TestGenerate_TwoStats(t *testing.T) {
	got := GenerateNames([]model.Stat{
		stat("critical_chance", 90, model.StatPositive),
		stat("critical_damage", 120, model.StatPositive),
	}, "")

	if got.Recommended != "Acricron" {
		t.Errorf("Expected Acricron, got %q", got.Recommended)
	}
	if len(got.Others) != 1 || got.Others[0] != "Critatis" {
		t.Errorf("Expected [Critatis], got %v", got.Others)
	}
}

func TestGenerate_ThreeStatsLenz(t *testing.T) {
	stats := []model.Stat{
		stat("multishot", 191.5, model.StatPositive),
		stat("heat_damage", 92.5, model.StatPositive),
		stat("damage", 174.1, model.StatPositive),
		stat("reload_speed", 37.6, model.StatNegative),
	}

	got := GenerateNames(stats, model.WeaponRifle)
	if got.Recommended != "Sati-Visipha" {
		t.Errorf("Expected Sati-Visipha, got %q", got.Recommended)
	}
	if contains(got.Others, got.Recommended) {
		t.Error("Expected recommended name to be excluded from alternates")
	}
	for _, want := range []string{"Visi-Satipha", "Igni-Satiata", "Satiata", "Igniata"} {
		if !contains(got.Others, want) {
			t.Errorf("Expected alternate %q in %v", want, got.Others)
		}
	}
	// 5 remaining permutations plus 6 pairs
	if len(got.Others) != 11 {
		t.Errorf("Expected 11 alternates, got %d: %v", len(got.Others), got.Others)
	}
}

func TestGenerate_ThreeStatsKeepsSecondPrefixCapitalized(t *testing.T) {
	got := GenerateNames([]model.Stat{
		stat("critical_chance", 150, model.StatPositive),
		stat("damage", 120, model.StatPositive),
		stat("multishot", 90, model.StatPositive),
	}, "")

	if got.Recommended != "Crita-Visican" {
		t.Errorf("Expected Crita-Visican, got %q", got.Recommended)
	}
	for _, want := range []string{"Visi-Critacan", "Crita-Satiata", "Visican"} {
		if !contains(got.Others, want) {
			t.Errorf("Expected alternate %q in %v", want, got.Others)
		}
	}
}

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":              "",
		"crita-Visican": "Crita-Visican",
		"Visican":       "Visican",
		"éclat":         "Éclat",
	}
	for in, want := range tests {
		if got := capitalize(in); got != want {
			t.Errorf("capitalize(%q) = %q, expected %q", in, got, want)
		}
	}
}

func TestGenerate_BaseValuesChangeRanking(t *testing.T) {
	stats := []model.Stat{
		stat("damage", 150, model.StatPositive),
		stat("punch_through", 2.5, model.StatPositive),
	}

	raw := GenerateNames(stats, "")
	if raw.Recommended != "Visinok" {
		t.Errorf("Expected raw ranking to favour damage, got %q", raw.Recommended)
	}

	normalized := GenerateNames(stats, model.WeaponRifle)
	if normalized.Recommended != "Lexiata" {
		t.Errorf("Expected normalized ranking to favour punch through, got %q", normalized.Recommended)
	}
}

func TestGenerate_PartialBaseTableFallsBackToRaw(t *testing.T) {
	g := NewGenerator(BaseValues{
		model.WeaponRifle: {"damage": 1000},
	})
	got := g.Generate([]model.Stat{
		stat("damage", 150, model.StatPositive),
		stat("multishot", 100, model.StatPositive),
	}, model.WeaponRifle)

	if got.Recommended != "Visican" {
		t.Errorf("Expected raw ranking when a base value is missing, got %q", got.Recommended)
	}
}

func TestGenerate_UnmappedSuffix(t *testing.T) {
	got := GenerateNames([]model.Stat{
		stat("multishot", 100, model.StatPositive),
		stat("chance_to_gain_combo_count", 50, model.StatPositive),
	}, "")

	if got.Recommended != "" {
		t.Errorf("Expected no recommendation without a suffix, got %q", got.Recommended)
	}
	if len(got.Others) != 1 || got.Others[0] != "Nuscan" {
		t.Errorf("Expected [Nuscan], got %v", got.Others)
	}
}

func TestPrefixSuffixCoverage(t *testing.T) {
	if p, ok := Prefix("damage_vs_infested"); !ok || p != "Pura" {
		t.Errorf("Expected Pura, got %q", p)
	}
	if s, ok := Suffix("recoil"); !ok || s != "Mag" {
		t.Errorf("Expected Mag, got %q", s)
	}
	if _, ok := Suffix("chance_to_gain_combo_count"); ok {
		t.Error("Expected no suffix for combo count")
	}
	for urlName := range suffixes {
		if _, ok := prefixes[urlName]; !ok {
			t.Errorf("Suffix without prefix: %s", urlName)
		}
	}
}
