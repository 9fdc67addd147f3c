package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/ppiankov/rivenscan/internal/naming"
	"github.com/ppiankov/rivenscan/internal/vocab"
	"github.com/spf13/cobra"
)

var (
	nameStats  []string
	nameType   string
	nameWeapon string
)

// namesCmd represents the names command
var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "Suggest riven names for a set of stats",
	Long: `Names builds the in-game riven name from attribute prefixes and suffixes.
Stats are ranked by value relative to the weapon type's base value, so
the strongest stat contributes the first syllable.

Values use the sign shown in game; negative values are curses.

Example:
  rivenscan names --stat multishot=191.5 --stat heat_damage=92.5 --type rifle
  rivenscan names --stat critical_chance=150 --stat recoil=-60 --weapon Lenz`,
	Args: cobra.NoArgs,
	RunE: runNames,
}

func init() {
	rootCmd.AddCommand(namesCmd)

	namesCmd.Flags().StringArrayVar(&nameStats, "stat", nil, "stat as url_name=value (repeatable)")
	namesCmd.Flags().StringVar(&nameType, "type", "", "weapon type: rifle, shotgun, pistol, melee, archgun, kitgun, zaw")
	namesCmd.Flags().StringVar(&nameWeapon, "weapon", "", "weapon name (derives --type from the vocabulary)")
}

func runNames(cmd *cobra.Command, args []string) error {
	if len(nameStats) == 0 {
		return fmt.Errorf("at least one --stat is required")
	}
	v := vocab.Builtin()

	weaponType, err := resolveWeaponType(v, nameType, nameWeapon)
	if err != nil {
		return err
	}

	stats := make([]model.Stat, 0, len(nameStats))
	for _, spec := range nameStats {
		s, err := parseStatFlag(v, spec)
		if err != nil {
			return err
		}
		stats = append(stats, s)
	}

	names := naming.NewGenerator(naming.DefaultBaseValues()).Generate(stats, weaponType)
	if names.Recommended == "" {
		return fmt.Errorf("no name: none of the stats has a known prefix")
	}

	fmt.Printf("Recommended: %s\n", names.Recommended)
	if len(names.Others) > 0 {
		fmt.Printf("Others:      %s\n", strings.Join(names.Others, ", "))
	}
	return nil
}

func resolveWeaponType(v *vocab.Vocabulary, typ, weapon string) (model.WeaponType, error) {
	if typ != "" {
		wt, ok := model.ParseWeaponType(typ)
		if !ok {
			return "", fmt.Errorf("unknown weapon type: %s", typ)
		}
		return wt, nil
	}
	if weapon == "" {
		return model.WeaponRifle, nil
	}
	if wt, ok := v.WeaponType(weapon); ok {
		return wt, nil
	}
	if s := v.Suggest(weapon, 1, 0.8); len(s) > 0 {
		return "", fmt.Errorf("unknown weapon %q (did you mean %s?)", weapon, s[0].Name)
	}
	return "", fmt.Errorf("unknown weapon %q", weapon)
}

// parseStatFlag turns "url_name=value" into a stat. The sign is the one shown
// in game, so inverted attributes flip back to their semantic type.
func parseStatFlag(v *vocab.Vocabulary, spec string) (model.Stat, error) {
	key, raw, ok := strings.Cut(spec, "=")
	if !ok {
		return model.Stat{}, fmt.Errorf("invalid --stat %q: expected url_name=value", spec)
	}
	key = strings.TrimSpace(key)
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return model.Stat{}, fmt.Errorf("invalid --stat %q: %w", spec, err)
	}
	attr, ok := v.Attribute(key)
	if !ok {
		return model.Stat{}, fmt.Errorf("unknown attribute: %s", key)
	}

	typ := model.StatPositive
	if value < 0 {
		typ = model.StatNegative
	}
	if attr.Inverted() {
		if typ == model.StatPositive {
			typ = model.StatNegative
		} else {
			typ = model.StatPositive
		}
	}
	return model.Stat{
		Type:             typ,
		Value:            math.Abs(value),
		Name:             attr.Effect,
		MatchedAttribute: &attr,
	}, nil
}
