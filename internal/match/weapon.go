package match

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/ppiankov/rivenscan/internal/similarity"
)

// DefaultScanLines is how many leading lines are searched for the weapon name
const DefaultScanLines = 20

const (
	maxShift         = 2
	embeddedDistance = 1
	middleDistance   = 2
	minLineLength    = 2
)

var rivenSuffix = regexp.MustCompile(`(?i)(.+?)\s*Riven`)

// Candidate is one vocabulary weapon accepted for one line
type Candidate struct {
	Weapon   model.WeaponRef
	Line     int
	Distance int
	Length   int
}

// distanceStrategy compares a normalized line with a normalized weapon name
type distanceStrategy func(line, name string) (int, bool)

// WeaponIdentifier finds the weapon name in the top lines of OCR text,
// preferring longer names so short names do not win on noise.
type WeaponIdentifier struct {
	weapons    []model.WeaponRef
	scanLines  int
	strategies []distanceStrategy
}

// NewWeaponIdentifier creates an identifier over an ordered weapon vocabulary
func NewWeaponIdentifier(weapons []model.WeaponRef, scanLines int) *WeaponIdentifier {
	if scanLines <= 0 {
		scanLines = DefaultScanLines
	}
	return &WeaponIdentifier{
		weapons:   weapons,
		scanLines: scanLines,
		strategies: []distanceStrategy{
			exactPrefix,
			fuzzyPrefix,
			shiftedPrefix,
			middleSubstring,
		},
	}
}

// Threshold returns the maximum accepted distance for a normalized name length
func Threshold(length int) int {
	switch {
	case length <= 3:
		return 0
	case length <= 6:
		return 1
	default:
		return length / 3
	}
}

// Candidates returns every accepted (weapon, line) pair in scan order
func (w *WeaponIdentifier) Candidates(lines []string) []Candidate {
	var out []Candidate
	for i, line := range lines {
		if i >= w.scanLines {
			break
		}
		if m := rivenSuffix.FindStringSubmatch(line); m != nil {
			line = strings.TrimSpace(m[1])
		}
		normalized := similarity.Normalize(line)
		if len(normalized) < minLineLength {
			continue
		}

		for _, weapon := range w.weapons {
			name := similarity.Normalize(weapon.DisplayName())
			if name == "" {
				continue
			}
			dist, ok := w.distance(normalized, name)
			if !ok || dist > Threshold(len(name)) {
				continue
			}
			out = append(out, Candidate{
				Weapon:   weapon,
				Line:     i,
				Distance: dist,
				Length:   len(name),
			})
		}
	}
	return out
}

// distance keeps the minimum over all strategies
func (w *WeaponIdentifier) distance(line, name string) (int, bool) {
	best, found := 0, false
	for _, s := range w.strategies {
		d, ok := s(line, name)
		if !ok {
			continue
		}
		if !found || d < best {
			best, found = d, true
		}
		if best == 0 {
			break
		}
	}
	return best, found
}

// Identify returns the display name of the best candidate. With no candidate
// it falls back to the text before the first hyphen of the first line.
func (w *WeaponIdentifier) Identify(lines []string) (string, bool) {
	candidates := w.Candidates(lines)
	if len(candidates) > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].Length != candidates[j].Length {
				return candidates[i].Length > candidates[j].Length
			}
			return candidates[i].Distance < candidates[j].Distance
		})
		return candidates[0].Weapon.DisplayName(), true
	}

	if len(lines) == 0 {
		return "", false
	}
	fallback := strings.TrimSpace(strings.SplitN(lines[0], "-", 2)[0])
	return fallback, fallback != ""
}

// IdentifyWeapon is a convenience wrapper using the default scan depth
func IdentifyWeapon(lines []string, weapons []model.WeaponRef) *string {
	name, ok := NewWeaponIdentifier(weapons, DefaultScanLines).Identify(lines)
	if !ok {
		return nil
	}
	return &name
}

func exactPrefix(line, name string) (int, bool) {
	if strings.HasPrefix(line, name) {
		return 0, true
	}
	return 0, false
}

func fuzzyPrefix(line, name string) (int, bool) {
	end := len(name)
	if end > len(line) {
		end = len(line)
	}
	return similarity.EditDistance(line[:end], name), true
}

// shiftedPrefix skips up to two leading noise characters, charging one per skip
func shiftedPrefix(line, name string) (int, bool) {
	best, found := 0, false
	for k := 1; k <= maxShift && k < len(line); k++ {
		end := k + len(name)
		if end > len(line) {
			end = len(line)
		}
		d := similarity.EditDistance(line[k:end], name) + k
		if !found || d < best {
			best, found = d, true
		}
	}
	return best, found
}

// middleSubstring recovers names whose leading characters were corrupted.
// The whole name inside the line costs one. Its interior alone costs two,
// which only names of seven or more characters accept.
func middleSubstring(line, name string) (int, bool) {
	if len(name) < 3 {
		return 0, false
	}
	if strings.Contains(line, name) {
		return embeddedDistance, true
	}
	if strings.Contains(line, name[1:len(name)-1]) {
		return middleDistance, true
	}
	return 0, false
}
