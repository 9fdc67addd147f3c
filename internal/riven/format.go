package riven

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/rivenscan/internal/model"
)

// Format renders a record as the human-readable block shown to players
func Format(r model.RivenRecord) string {
	var b strings.Builder

	if r.WeaponName != nil {
		fmt.Fprintf(&b, "Weapon: %s\n", *r.WeaponName)
	}

	if len(r.Stats) > 0 {
		b.WriteString("\nStats:\n")
		for _, s := range r.Stats {
			fmt.Fprintf(&b, "  %s%s%% %s\n", DisplaySign(s), strconv.FormatFloat(s.Value, 'f', -1, 64), DisplayName(s))
		}
	}

	if r.Mastery != nil {
		fmt.Fprintf(&b, "\nMastery Rank: %d\n", *r.Mastery)
	}
	if r.Rolls != nil {
		fmt.Fprintf(&b, "Rolls: %d\n", *r.Rolls)
	}
	if r.Polarity != nil {
		fmt.Fprintf(&b, "Polarity: %s\n", *r.Polarity)
	}

	return b.String()
}

// DisplaySign returns the sign a player sees in game. For inverted
// attributes a beneficial stat carries a minus.
func DisplaySign(s model.Stat) string {
	positive := s.Type == model.StatPositive
	if s.MatchedAttribute != nil && s.MatchedAttribute.Inverted() {
		positive = !positive
	}
	if positive {
		return "+"
	}
	return "-"
}

// DisplayName prefers the vocabulary label over the raw OCR label
func DisplayName(s model.Stat) string {
	if s.MatchedAttribute != nil && s.MatchedAttribute.Effect != "" {
		return s.MatchedAttribute.Effect
	}
	return s.Name
}
