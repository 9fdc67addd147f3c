package model

import "strings"

// StatType classifies a stat as beneficial or detrimental
type StatType string

const (
	StatPositive StatType = "POSITIVE"
	StatNegative StatType = "NEGATIVE"
)

// RecoilKey is the url_name of the attribute whose sign semantics are inverted:
// a numerically positive recoil value is bad for the player.
const RecoilKey = "recoil"

// AttributeRef is one entry of the attribute vocabulary
type AttributeRef struct {
	URLName            string `json:"url_name" yaml:"url_name"`
	Effect             string `json:"effect" yaml:"effect"`
	Group              string `json:"group,omitempty" yaml:"group,omitempty"`
	PositiveIsNegative bool   `json:"positive_is_negative,omitempty" yaml:"positive_is_negative,omitempty"`
}

// Inverted reports whether a positive magnitude of this attribute is detrimental
func (a AttributeRef) Inverted() bool {
	return a.URLName == RecoilKey || a.PositiveIsNegative
}

// WeaponRef is one entry of the weapon vocabulary
type WeaponRef struct {
	ItemName  string `json:"item_name" yaml:"item_name"`
	URLName   string `json:"url_name,omitempty" yaml:"url_name,omitempty"`
	RivenType string `json:"riven_type,omitempty" yaml:"riven_type,omitempty"`
	Group     string `json:"group,omitempty" yaml:"group,omitempty"`
}

// DisplayName returns the best human-readable name of the weapon
func (w WeaponRef) DisplayName() string {
	if w.ItemName != "" {
		return w.ItemName
	}
	return w.URLName
}

// Stat is one extracted riven attribute line
type Stat struct {
	Type             StatType      `json:"type"`
	Value            float64       `json:"value"`
	Name             string        `json:"name"`
	MatchedAttribute *AttributeRef `json:"matched_attribute,omitempty"`
}

// RivenRecord is the structured result of parsing one OCR text blob
type RivenRecord struct {
	WeaponName *string `json:"weapon_name"`
	Stats      []Stat  `json:"stats"`
	Mastery    *int    `json:"mastery"`
	Rolls      *int    `json:"rolls"`
	Polarity   *string `json:"polarity"`
	RawText    string  `json:"raw_text"`
}

// PositiveStats returns the stats typed POSITIVE, in extraction order
func (r *RivenRecord) PositiveStats() []Stat {
	return r.statsOfType(StatPositive)
}

// NegativeStats returns the stats typed NEGATIVE, in extraction order
func (r *RivenRecord) NegativeStats() []Stat {
	return r.statsOfType(StatNegative)
}

func (r *RivenRecord) statsOfType(t StatType) []Stat {
	var out []Stat
	for _, s := range r.Stats {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// Weapon returns the weapon name or an empty string
func (r *RivenRecord) Weapon() string {
	if r.WeaponName == nil {
		return ""
	}
	return *r.WeaponName
}

// ValidationResult is advisory: a record is always returned alongside it
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// NameSuggestion holds the riven name candidates built from the stats
type NameSuggestion struct {
	Recommended string   `json:"recommended"`
	Others      []string `json:"others"`
}

// WeaponType is the riven disposition class used for base-value lookups
type WeaponType string

const (
	WeaponRifle   WeaponType = "rifle"
	WeaponShotgun WeaponType = "shotgun"
	WeaponPistol  WeaponType = "pistol"
	WeaponMelee   WeaponType = "melee"
	WeaponArchgun WeaponType = "archgun"
	WeaponKitgun  WeaponType = "kitgun"
	WeaponZaw     WeaponType = "zaw"
)

// ParseWeaponType maps a vocabulary riven_type to a WeaponType
func ParseWeaponType(s string) (WeaponType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rifle":
		return WeaponRifle, true
	case "shotgun":
		return WeaponShotgun, true
	case "pistol":
		return WeaponPistol, true
	case "melee":
		return WeaponMelee, true
	case "archgun":
		return WeaponArchgun, true
	case "kitgun":
		return WeaponKitgun, true
	case "zaw":
		return WeaponZaw, true
	}
	return "", false
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
