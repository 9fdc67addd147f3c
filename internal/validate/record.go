package validate

import (
	"fmt"

	"github.com/ppiankov/rivenscan/internal/model"
)

// DefaultMaxStats is the most stats a riven can carry
const DefaultMaxStats = 4

const (
	ErrWeaponNotFound = "Weapon name not found"
	ErrNoStats        = "No stats found"
	ErrTooManyStats   = "Too many stats detected (max 4)"
)

// Record checks a parsed record against the default stat limit
func Record(r *model.RivenRecord) model.ValidationResult {
	return RecordWithLimit(r, DefaultMaxStats)
}

// RecordWithLimit checks a parsed record. The result is advisory: the record
// itself is never modified or truncated.
func RecordWithLimit(r *model.RivenRecord, maxStats int) model.ValidationResult {
	if maxStats <= 0 {
		maxStats = DefaultMaxStats
	}

	errors := []string{}
	if r == nil {
		errors = append(errors, ErrWeaponNotFound, ErrNoStats)
		return model.ValidationResult{IsValid: false, Errors: errors}
	}

	if r.WeaponName == nil || *r.WeaponName == "" {
		errors = append(errors, ErrWeaponNotFound)
	}
	if len(r.Stats) == 0 {
		errors = append(errors, ErrNoStats)
	}
	if len(r.Stats) > maxStats {
		errors = append(errors, fmt.Sprintf("Too many stats detected (max %d)", maxStats))
	}

	return model.ValidationResult{
		IsValid: len(errors) == 0,
		Errors:  errors,
	}
}
