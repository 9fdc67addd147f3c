package vocab

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/rivenscan/internal/model"
)

func TestBuiltin(t *testing.T) {
	v := Builtin()

	if len(v.Weapons) < 100 {
		t.Errorf("Expected at least 100 builtin weapons, got %d", len(v.Weapons))
	}
	if len(v.Attributes) != 35 {
		t.Errorf("Expected 35 builtin attributes, got %d", len(v.Attributes))
	}

	recoil, ok := v.Attribute(model.RecoilKey)
	if !ok {
		t.Fatal("Expected recoil attribute in builtin vocabulary")
	}
	if !recoil.PositiveIsNegative {
		t.Error("Expected recoil to be flagged positive_is_negative")
	}
}

func TestNormalizeWeapons(t *testing.T) {
	entries := []interface{}{
		"Soma",
		map[string]interface{}{"item_name": "Opticor", "url_name": "opticor", "riven_type": "rifle"},
		map[string]interface{}{"name": "Lenz"},
		map[string]interface{}{"url_name": "kuva_ayanga"},
		map[string]interface{}{"riven_type": "rifle"},
		"",
		42,
	}

	got := NormalizeWeapons(entries)
	if len(got) != 4 {
		t.Fatalf("Expected 4 weapons, got %d: %+v", len(got), got)
	}

	names := []string{"Soma", "Opticor", "Lenz", "kuva_ayanga"}
	for i, name := range names {
		if got[i].DisplayName() != name {
			t.Errorf("Weapon %d: expected %q, got %q", i, name, got[i].DisplayName())
		}
	}
	if got[1].RivenType != "rifle" {
		t.Errorf("Expected riven_type rifle, got %q", got[1].RivenType)
	}
}

func TestParseJSONWithStringWeapons(t *testing.T) {
	data := []byte(`{
		"weapons": ["Soma", {"item_name": "Opticor", "url_name": "opticor"}],
		"attributes": [{"effect": "Damage", "url_name": "damage"}]
	}`)

	v, err := Parse(data, "json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(v.Weapons) != 2 || v.Weapons[0].ItemName != "Soma" {
		t.Errorf("Unexpected weapons: %+v", v.Weapons)
	}
	if len(v.Attributes) != 1 || v.Attributes[0].URLName != "damage" {
		t.Errorf("Unexpected attributes: %+v", v.Attributes)
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	if _, err := Parse([]byte("x"), "toml"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.yaml")
	content := "weapons:\n  - Braton\n  - {item_name: Braton Prime, riven_type: rifle}\nattributes:\n  - {effect: Zoom, url_name: zoom}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	v, err := LoadFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(v.Weapons) != 2 {
		t.Errorf("Expected 2 weapons, got %d", len(v.Weapons))
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFindWeapon(t *testing.T) {
	v := Builtin()

	w, ok := v.FindWeapon("opticor")
	if !ok || w.ItemName != "Opticor" {
		t.Errorf("Expected case-insensitive lookup of Opticor, got %+v (%v)", w, ok)
	}

	w, ok = v.FindWeapon("euphona_prime")
	if !ok || w.ItemName != "Euphona Prime" {
		t.Errorf("Expected url_name lookup of Euphona Prime, got %+v (%v)", w, ok)
	}

	if _, ok := v.FindWeapon("Not A Weapon"); ok {
		t.Error("Expected unknown weapon to be missing")
	}

	wt, ok := v.WeaponType("Lenz")
	if !ok || wt != model.WeaponRifle {
		t.Errorf("Expected Lenz to be a rifle, got %q", wt)
	}
}

func TestSuggest(t *testing.T) {
	v := Builtin()

	got := v.Suggest("Opticar", 3, 0.8)
	if len(got) == 0 {
		t.Fatal("Expected at least one suggestion")
	}
	if got[0].Name != "Opticor" {
		t.Errorf("Expected Opticor as best suggestion, got %q", got[0].Name)
	}
	if len(got) > 3 {
		t.Errorf("Expected at most 3 suggestions, got %d", len(got))
	}

	if got := v.Suggest("   ", 3, 0.8); got != nil {
		t.Errorf("Expected no suggestions for blank input, got %v", got)
	}
}
