// Package vocab holds the weapon and attribute vocabularies the parser
// matches OCR text against.
package vocab

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/rivenscan/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

// Vocabulary is the pair of ordered reference lists. Order matters: ties in
// matching are broken by position.
type Vocabulary struct {
	Weapons    []model.WeaponRef    `json:"weapons" yaml:"weapons"`
	Attributes []model.AttributeRef `json:"attributes" yaml:"attributes"`
}

// rawVocabulary accepts weapons either as strings or as records
type rawVocabulary struct {
	Weapons    []interface{}        `json:"weapons" yaml:"weapons"`
	Attributes []model.AttributeRef `json:"attributes" yaml:"attributes"`
}

// Builtin returns the embedded standard vocabulary
func Builtin() *Vocabulary {
	v, err := Parse(builtinYAML, "yaml")
	if err != nil {
		panic(fmt.Sprintf("vocab: invalid builtin vocabulary: %v", err))
	}
	return v
}

// LoadFile reads a vocabulary from a YAML or JSON file
func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}

	v, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse vocabulary %s: %w", path, err)
	}
	return v, nil
}

// Parse decodes a vocabulary document in "yaml" or "json" format
func Parse(data []byte, format string) (*Vocabulary, error) {
	var raw rawVocabulary
	switch format {
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported vocabulary format: %s", format)
	}

	return &Vocabulary{
		Weapons:    NormalizeWeapons(raw.Weapons),
		Attributes: raw.Attributes,
	}, nil
}

// NormalizeWeapons converts duck-typed weapon entries into WeaponRefs.
// An entry may be a plain string or a record carrying item_name, name, or
// url_name. Entries with no usable name are dropped.
func NormalizeWeapons(entries []interface{}) []model.WeaponRef {
	out := make([]model.WeaponRef, 0, len(entries))
	for _, e := range entries {
		if w, ok := NormalizeWeapon(e); ok {
			out = append(out, w)
		}
	}
	return out
}

// NormalizeWeapon converts a single duck-typed entry
func NormalizeWeapon(entry interface{}) (model.WeaponRef, bool) {
	switch v := entry.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return model.WeaponRef{}, false
		}
		return model.WeaponRef{ItemName: v}, true
	case model.WeaponRef:
		return v, v.DisplayName() != ""
	case map[string]interface{}:
		w := model.WeaponRef{
			ItemName:  stringField(v, "item_name"),
			URLName:   stringField(v, "url_name"),
			RivenType: stringField(v, "riven_type"),
			Group:     stringField(v, "group"),
		}
		if w.ItemName == "" {
			w.ItemName = stringField(v, "name")
		}
		return w, w.DisplayName() != ""
	}
	return model.WeaponRef{}, false
}

func stringField(m map[string]interface{}, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

// FindWeapon looks a weapon up by item_name (case-insensitive) or url_name
func (v *Vocabulary) FindWeapon(name string) (model.WeaponRef, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.WeaponRef{}, false
	}
	for _, w := range v.Weapons {
		if strings.EqualFold(w.ItemName, name) || w.URLName == name {
			return w, true
		}
	}
	return model.WeaponRef{}, false
}

// Attribute looks an attribute up by url_name
func (v *Vocabulary) Attribute(urlName string) (model.AttributeRef, bool) {
	for _, a := range v.Attributes {
		if a.URLName == urlName {
			return a, true
		}
	}
	return model.AttributeRef{}, false
}

// WeaponType returns the disposition class of a weapon, if known
func (v *Vocabulary) WeaponType(name string) (model.WeaponType, bool) {
	w, ok := v.FindWeapon(name)
	if !ok {
		return "", false
	}
	return model.ParseWeaponType(w.RivenType)
}
