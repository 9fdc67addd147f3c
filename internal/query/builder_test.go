package query

import (
	"testing"

	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/ppiankov/rivenscan/internal/vocab"
)

func matched(urlName string, typ model.StatType) model.Stat {
	return model.Stat{Type: typ, Value: 100, Name: urlName, MatchedAttribute: &model.AttributeRef{URLName: urlName}}
}

func lenzRecord() *model.RivenRecord {
	return &model.RivenRecord{
		WeaponName: model.Ptr("Lenz"),
		Stats: []model.Stat{
			matched("multishot", model.StatPositive),
			matched("heat_damage", model.StatPositive),
			matched("damage", model.StatPositive),
			matched("reload_speed", model.StatNegative),
		},
	}
}

func TestBuild_LenzVariants(t *testing.T) {
	queries := NewBuilder(model.MarketConfig{}).Build(lenzRecord(), vocab.Builtin())

	wantLabels := []string{
		"Similar",
		"Similar without negative",
		"Similar without damage",
		"Similar with cold damage instead of heat damage",
		"Similar with electric damage instead of heat damage",
		"Similar with toxin damage instead of heat damage",
	}
	if len(queries) != len(wantLabels) {
		t.Fatalf("Expected %d queries, got %d: %+v", len(wantLabels), len(queries), queries)
	}
	for i, want := range wantLabels {
		if queries[i].Label != want {
			t.Errorf("Query %d: expected label %q, got %q", i, want, queries[i].Label)
		}
	}

	first := queries[0].Params
	if first["weapon_url_name"] != "lenz" {
		t.Errorf("Expected weapon lenz, got %q", first["weapon_url_name"])
	}
	if first["positive_stats"] != "multishot,heat_damage,damage" {
		t.Errorf("Unexpected positive stats %q", first["positive_stats"])
	}
	if first["negative_stats"] != "reload_speed" {
		t.Errorf("Unexpected negative stats %q", first["negative_stats"])
	}
	if first["buyout_policy"] != "direct" || first["sort_by"] != "price_asc" || first["platform"] != "pc" || first["polarity"] != "any" {
		t.Errorf("Unexpected base params %v", first)
	}

	if _, ok := queries[1].Params["negative_stats"]; ok {
		t.Error("Expected negatives dropped in the first relaxation")
	}

	swap := queries[3]
	if swap.Removed != "heat_damage" || swap.Added != "cold_damage" {
		t.Errorf("Expected heat -> cold substitution, got %s -> %s", swap.Removed, swap.Added)
	}
	if swap.Params["positive_stats"] != "multishot,cold_damage,damage" {
		t.Errorf("Expected substitution in place, got %q", swap.Params["positive_stats"])
	}
}

func TestBuild_TwoPositivesNoNegative(t *testing.T) {
	record := &model.RivenRecord{
		WeaponName: model.Ptr("Soma"),
		Stats: []model.Stat{
			matched("multishot", model.StatPositive),
			matched("damage", model.StatPositive),
		},
	}

	queries := NewBuilder(model.MarketConfig{}).Build(record, vocab.Builtin())
	if len(queries) != 3 {
		t.Fatalf("Expected 3 queries, got %d: %+v", len(queries), queries)
	}
	if queries[1].Label != "Similar without multishot" || queries[2].Label != "Similar without damage" {
		t.Errorf("Unexpected relaxations %q, %q", queries[1].Label, queries[2].Label)
	}
}

func TestBuild_SinglePositive(t *testing.T) {
	record := &model.RivenRecord{
		WeaponName: model.Ptr("Soma"),
		Stats:      []model.Stat{matched("critical_chance", model.StatPositive)},
	}

	queries := NewBuilder(model.MarketConfig{}).Build(record, vocab.Builtin())
	if len(queries) != 2 {
		t.Fatalf("Expected Similar plus one substitution, got %+v", queries)
	}
	if queries[1].Added != "critical_damage" {
		t.Errorf("Expected critical damage substitute, got %q", queries[1].Added)
	}
}

func TestBuild_NoQueries(t *testing.T) {
	b := NewBuilder(model.MarketConfig{})

	tests := []struct {
		name   string
		record *model.RivenRecord
	}{
		{"nil record", nil},
		{"no weapon", &model.RivenRecord{Stats: []model.Stat{matched("damage", model.StatPositive)}}},
		{"unknown weapon", &model.RivenRecord{WeaponName: model.Ptr("Nonexistent"), Stats: []model.Stat{matched("damage", model.StatPositive)}}},
		{"no positives", &model.RivenRecord{WeaponName: model.Ptr("Soma"), Stats: []model.Stat{matched("zoom", model.StatNegative)}}},
		{"unmatched positives", &model.RivenRecord{WeaponName: model.Ptr("Soma"), Stats: []model.Stat{{Type: model.StatPositive, Value: 10, Name: "???"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Build(tt.record, vocab.Builtin()); len(got) != 0 {
				t.Errorf("Expected no queries, got %+v", got)
			}
		})
	}
}

func TestNewBuilder_UsesConfig(t *testing.T) {
	b := NewBuilder(model.MarketConfig{Platform: "ps4", BuyoutPolicy: "auction", SortBy: "price_desc"})
	queries := b.Build(&model.RivenRecord{
		WeaponName: model.Ptr("Soma"),
		Stats:      []model.Stat{matched("damage", model.StatPositive)},
	}, vocab.Builtin())

	if len(queries) == 0 {
		t.Fatal("Expected queries")
	}
	p := queries[0].Params
	if p["platform"] != "ps4" || p["buyout_policy"] != "auction" || p["sort_by"] != "price_desc" {
		t.Errorf("Expected configured params, got %v", p)
	}
}
