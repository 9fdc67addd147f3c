// Package query derives relaxed auction searches from a parsed riven.
package query

import (
	"fmt"
	"strings"

	"github.com/ppiankov/rivenscan/internal/model"
)

// WeaponLookup resolves a display name to its vocabulary entry
type WeaponLookup interface {
	FindWeapon(name string) (model.WeaponRef, bool)
}

// SimilarGroups lists attributes interchangeable for price discovery
var SimilarGroups = [][]string{
	{"heat_damage", "cold_damage", "electric_damage", "toxin_damage"},
	{"impact_damage", "puncture_damage", "slash_damage"},
	{"damage_vs_corpus", "damage_vs_grineer", "damage_vs_infested"},
	{"critical_chance", "critical_damage"},
	{"status_chance", "status_duration"},
	{"fire_rate_/_attack_speed", "reload_speed"},
}

// maxRelaxations is how many drop-a-stat variants follow the full query
const maxRelaxations = 2

// Builder produces ranked query variants
type Builder struct {
	platform     string
	buyoutPolicy string
	sortBy       string
}

// NewBuilder creates a builder using the market defaults
func NewBuilder(cfg model.MarketConfig) *Builder {
	b := &Builder{
		platform:     cfg.Platform,
		buyoutPolicy: cfg.BuyoutPolicy,
		sortBy:       cfg.SortBy,
	}
	if b.platform == "" {
		b.platform = "pc"
	}
	if b.buyoutPolicy == "" {
		b.buyoutPolicy = "direct"
	}
	if b.sortBy == "" {
		b.sortBy = "price_asc"
	}
	return b
}

// Build returns the query variants for a record, most specific first.
// An unknown weapon or a record with no matched positive stat yields none.
func (b *Builder) Build(record *model.RivenRecord, weapons WeaponLookup) []model.AuctionQuery {
	if record == nil || record.WeaponName == nil || weapons == nil {
		return nil
	}
	weapon, ok := weapons.FindWeapon(*record.WeaponName)
	if !ok || weapon.URLName == "" {
		return nil
	}

	positives := matchedKeys(record.PositiveStats())
	negatives := matchedKeys(record.NegativeStats())
	if len(positives) == 0 {
		return nil
	}

	base := map[string]string{
		"weapon_url_name": weapon.URLName,
		"buyout_policy":   b.buyoutPolicy,
		"sort_by":         b.sortBy,
		"platform":        b.platform,
		"polarity":        "any",
	}

	queries := []model.AuctionQuery{
		{Label: "Similar", Params: withStats(base, positives, negatives)},
	}

	relaxed := 0
	add := func(q model.AuctionQuery) {
		if relaxed >= maxRelaxations || duplicate(queries, q) {
			return
		}
		queries = append(queries, q)
		relaxed++
	}

	if len(negatives) > 0 {
		add(model.AuctionQuery{
			Label:  "Similar without negative",
			Params: withStats(base, positives, nil),
		})
	}
	if len(positives) == 3 {
		add(dropPositive(base, positives, negatives, len(positives)-1))
	}
	if len(positives) > 1 {
		add(dropPositive(base, positives, negatives, 0))
		add(dropPositive(base, positives, negatives, len(positives)-1))
	}

	for i, attr := range positives {
		for _, alt := range similarTo(attr) {
			if contains(positives, alt) || contains(negatives, alt) {
				continue
			}
			swapped := append([]string(nil), positives...)
			swapped[i] = alt
			q := model.AuctionQuery{
				Label:   fmt.Sprintf("Similar with %s instead of %s", Humanize(alt), Humanize(attr)),
				Params:  withStats(base, swapped, negatives),
				Removed: attr,
				Added:   alt,
			}
			if !duplicate(queries, q) {
				queries = append(queries, q)
			}
		}
	}

	return queries
}

func dropPositive(base map[string]string, positives, negatives []string, idx int) model.AuctionQuery {
	kept := make([]string, 0, len(positives)-1)
	kept = append(kept, positives[:idx]...)
	kept = append(kept, positives[idx+1:]...)
	return model.AuctionQuery{
		Label:  "Similar without " + Humanize(positives[idx]),
		Params: withStats(base, kept, negatives),
	}
}

func withStats(base map[string]string, positives, negatives []string) map[string]string {
	params := make(map[string]string, len(base)+2)
	for k, v := range base {
		params[k] = v
	}
	if len(positives) > 0 {
		params["positive_stats"] = strings.Join(positives, ",")
	}
	if len(negatives) > 0 {
		params["negative_stats"] = strings.Join(negatives, ",")
	}
	return params
}

func matchedKeys(stats []model.Stat) []string {
	var keys []string
	for _, s := range stats {
		if s.MatchedAttribute == nil || s.MatchedAttribute.URLName == "" {
			continue
		}
		if !contains(keys, s.MatchedAttribute.URLName) {
			keys = append(keys, s.MatchedAttribute.URLName)
		}
	}
	return keys
}

func similarTo(attr string) []string {
	for _, group := range SimilarGroups {
		if !contains(group, attr) {
			continue
		}
		var out []string
		for _, g := range group {
			if g != attr {
				out = append(out, g)
			}
		}
		return out
	}
	return nil
}

func duplicate(queries []model.AuctionQuery, q model.AuctionQuery) bool {
	for _, existing := range queries {
		if sameParams(existing.Params, q.Params) {
			return true
		}
	}
	return false
}

func sameParams(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Humanize turns an attribute key into words
func Humanize(urlName string) string {
	return strings.ReplaceAll(urlName, "_", " ")
}
