package riven

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/ppiankov/rivenscan/internal/model"
	"github.com/ppiankov/rivenscan/internal/vocab"
)

const opticorOCR = `Ts        LT TT Nam
 IS           ot
-        4
ps
/            7      1
.            Nr
.     -
Lr uy   ig 4
PE
4    a.            .
  pa               FAS
      -        2
C               .
A        .
     Co
Zrepticor Visi-satipha
 4 107 1% Multishot
+189 8% Damage
+90 8% Heat
0 4 Damage to Infested
8 MR 9                    02
a
WOLF NT`

const lenzOCR = `x             vv ww
IS             Nd
y T-        3
3           .            SRE
/                    .      -    pe
.   po    A          y
ad    E%N            -
- .  pa                     J 2
.     Ls        -        .
Q                       .
        CL
gr Lenz Visi-ignican
XA 191 5% Multshor
+92 5% Heat
+174 1% Damage
y           37 6% Reload Speed
rC MR 11                           0
TAN`

const acceltraOCR = `rr -      -
ro  W       a
JAN
.    BN
oR     .
2
-z  7
oN
I
/        .
 Acceltra Leximag
6 9% Weapon Recoll
+0 2 Punch Through
        MR 11`

type wantStat struct {
	value float64
	attr  string
	typ   model.StatType
}

func checkStats(t *testing.T, got []model.Stat, want []wantStat) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d stats, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		s := got[i]
		if math.Abs(s.Value-w.value) > 1e-9 {
			t.Errorf("Stat %d: expected value %v, got %v", i, w.value, s.Value)
		}
		if s.MatchedAttribute == nil || s.MatchedAttribute.URLName != w.attr {
			t.Errorf("Stat %d: expected attribute %q, got %+v", i, w.attr, s.MatchedAttribute)
		}
		if s.Type != w.typ {
			t.Errorf("Stat %d: expected %s, got %s", i, w.typ, s.Type)
		}
	}
}

func TestParse_CleanOpticor(t *testing.T) {
	text := strings.Join([]string{
		"Opticar Visi-satipha",
		"107.1% Multishot",
		"+189.8% Damage",
		"+90.8% Heat",
		"-0.4 Damage to Infested",
		"Mastery Rank 9",
	}, "\n")

	p := NewParser(vocab.Builtin())
	record, result := p.ParseAndValidate(text)

	if record.Weapon() != "Opticor" {
		t.Errorf("Expected Opticor, got %q", record.Weapon())
	}
	checkStats(t, record.Stats, []wantStat{
		{107.1, "multishot", model.StatPositive},
		{189.8, "damage", model.StatPositive},
		{90.8, "heat_damage", model.StatPositive},
		{0.4, "damage_vs_infested", model.StatNegative},
	})
	if !result.IsValid {
		t.Errorf("Expected valid record, got errors %v", result.Errors)
	}
	if record.Mastery == nil || *record.Mastery != 9 {
		t.Errorf("Expected mastery 9, got %v", record.Mastery)
	}
	if record.RawText != text {
		t.Error("Expected raw text to be preserved")
	}
}

func TestParse_OpticorFixture(t *testing.T) {
	record := NewParser(vocab.Builtin()).Parse(opticorOCR)

	if record.Weapon() != "Opticor" {
		t.Errorf("Expected Opticor, got %q", record.Weapon())
	}
	checkStats(t, record.Stats, []wantStat{
		{107.1, "multishot", model.StatPositive},
		{189.8, "damage", model.StatPositive},
		{90.8, "heat_damage", model.StatPositive},
		{0.4, "damage_vs_infested", model.StatNegative},
	})
	if record.Mastery == nil || *record.Mastery != 9 {
		t.Errorf("Expected mastery 9, got %v", record.Mastery)
	}
}

func TestParse_LenzFixture(t *testing.T) {
	record := NewParser(vocab.Builtin()).Parse(lenzOCR)

	if record.Weapon() != "Lenz" {
		t.Errorf("Expected Lenz, got %q", record.Weapon())
	}
	checkStats(t, record.Stats, []wantStat{
		{191.5, "multishot", model.StatPositive},
		{92.5, "heat_damage", model.StatPositive},
		{174.1, "damage", model.StatPositive},
		{37.6, "reload_speed", model.StatNegative},
	})
	if record.Mastery == nil || *record.Mastery != 11 {
		t.Errorf("Expected mastery 11, got %v", record.Mastery)
	}
	if record.Rolls == nil || *record.Rolls != 0 {
		t.Errorf("Expected rolls 0, got %v", record.Rolls)
	}
}

func TestParse_AcceltraFixture(t *testing.T) {
	record := NewParser(vocab.Builtin()).Parse(acceltraOCR)

	if record.Weapon() != "Acceltra" {
		t.Errorf("Expected Acceltra, got %q", record.Weapon())
	}
	checkStats(t, record.Stats, []wantStat{
		{0.2, "punch_through", model.StatPositive},
	})
	if record.Mastery == nil || *record.Mastery != 11 {
		t.Errorf("Expected mastery 11, got %v", record.Mastery)
	}
}

func TestParse_RecoilInversion(t *testing.T) {
	p := NewParser(vocab.Builtin())

	record := p.Parse("Soma Prime\n+6.9% Recoil\n-12.4% Recoil")
	checkStats(t, record.Stats, []wantStat{
		{6.9, model.RecoilKey, model.StatNegative},
		{12.4, model.RecoilKey, model.StatPositive},
	})

	formatted := Format(record)
	if !strings.Contains(formatted, "+6.9% Recoil") || !strings.Contains(formatted, "-12.4% Recoil") {
		t.Errorf("Expected in-game signs in formatted output, got:\n%s", formatted)
	}
}

func TestParse_TooManyStatsNotTruncated(t *testing.T) {
	text := "Lenz\n+10% Damage\n+20% Multishot\n+30% Heat\n+40% Zoom\n-50% Range"

	record, result := NewParser(vocab.Builtin()).ParseAndValidate(text)
	if len(record.Stats) != 5 {
		t.Fatalf("Expected 5 stats, got %d", len(record.Stats))
	}
	if result.IsValid {
		t.Error("Expected record with 5 stats to be invalid")
	}
	found := false
	for _, e := range result.Errors {
		if e == "Too many stats detected (max 4)" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected too-many-stats error, got %v", result.Errors)
	}
}

func TestParse_Idempotent(t *testing.T) {
	p := NewParser(vocab.Builtin())
	for _, text := range []string{opticorOCR, lenzOCR, acceltraOCR, ""} {
		first := p.Parse(text)
		second := p.Parse(text)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Expected identical results for repeated parse of %q", text[:min(len(text), 20)])
		}
	}
}

func TestParse_EmptyInput(t *testing.T) {
	record, result := NewParser(nil).ParseAndValidate("")

	if record.WeaponName != nil {
		t.Errorf("Expected nil weapon, got %q", *record.WeaponName)
	}
	if record.Stats == nil || len(record.Stats) != 0 {
		t.Errorf("Expected empty non-nil stats, got %v", record.Stats)
	}
	if record.Mastery != nil || record.Rolls != nil || record.Polarity != nil {
		t.Error("Expected nil footer fields")
	}
	if result.IsValid || len(result.Errors) != 2 {
		t.Errorf("Expected two validation errors, got %v", result.Errors)
	}
}

func TestParse_EmptyVocabularies(t *testing.T) {
	record := Parse("Opticor-thing\n+10% Damage", nil, nil)
	if record.Weapon() != "Opticor" {
		t.Errorf("Expected first-line fallback Opticor, got %q", record.Weapon())
	}
	if len(record.Stats) != 1 || record.Stats[0].MatchedAttribute != nil {
		t.Errorf("Expected one unmatched stat, got %+v", record.Stats)
	}
}

func TestParse_Polarity(t *testing.T) {
	record := NewParser(vocab.Builtin()).Parse("Soma\n+10% Damage\nPolarity Madurai")
	if record.Polarity == nil || *record.Polarity != "madurai" {
		t.Errorf("Expected madurai, got %v", record.Polarity)
	}
}

func TestWithConfig(t *testing.T) {
	cfg := model.DefaultParserConfig()
	cfg.MaxStats = 1

	_, result := NewParser(vocab.Builtin(), WithConfig(cfg)).ParseAndValidate("Lenz\n+10% Damage\n+20% Multishot")
	if result.IsValid {
		t.Error("Expected custom stat limit to invalidate the record")
	}
}

func TestStageString(t *testing.T) {
	if StageValidated.String() != "validated" || Stage(99).String() != "unknown" {
		t.Error("Unexpected stage names")
	}
}
