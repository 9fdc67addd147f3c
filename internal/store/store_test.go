package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/rivenscan/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func report(weapon string, valid bool) *model.Report {
	return &model.Report{
		Source: weapon + ".png",
		Record: model.RivenRecord{
			WeaponName: &weapon,
			Stats:      []model.Stat{{Value: 10, Name: "Damage", Type: model.StatPositive}},
		},
		Validation: model.ValidationResult{IsValid: valid},
		Names:      model.NameSuggestion{Recommended: "Visican", Others: []string{}},
	}
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	r := report("Lenz", true)
	id, err := s.Save(ctx, r)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(id) != 26 || r.ID != id {
		t.Errorf("Expected 26-char ULID assigned to report, got %q / %q", id, r.ID)
	}
	if r.ParsedAt.IsZero() {
		t.Error("Expected ParsedAt to be filled")
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Record.Weapon() != "Lenz" || got.ID != id || len(got.Record.Stats) != 1 {
		t.Errorf("Unexpected report: %+v", got)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestList_NewestFirstAndFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for _, r := range []*model.Report{report("Lenz", true), report("Soma", false), report("Lenz", false)} {
		if _, err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	all, err := s.List(ctx, "", 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 reports, got %d", len(all))
	}
	if all[0].Weapon != "Lenz" || all[0].Valid || all[1].Weapon != "Soma" {
		t.Errorf("Expected newest first, got %+v", all)
	}
	if all[2].Name != "Visican" || all[2].StatCount != 1 || !all[2].Valid {
		t.Errorf("Unexpected summary: %+v", all[2])
	}

	lenz, err := s.List(ctx, "lenz", 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(lenz) != 1 || lenz[0].ID != all[0].ID {
		t.Errorf("Expected newest Lenz only, got %+v", lenz)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, report("Lenz", true))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSave_Nil(t *testing.T) {
	if _, err := openTestStore(t).Save(context.Background(), nil); err == nil {
		t.Error("Expected error for nil report")
	}
}
