package estimate

import (
	"errors"
	"testing"

	"github.com/ironsheep/bead-pattern-mcp/internal/palette"
)

func TestSuggested(t *testing.T) {
	s := DefaultSettings()

	tests := []struct {
		count int
		want  int
	}{
		{0, 0},
		{1, 100},
		{90, 100},
		{91, 200},
		{100, 200},
		{455, 600},
		{1000, 1100},
		{1819, 2100},
	}

	for _, tt := range tests {
		if got := s.Suggested(tt.count); got != tt.want {
			t.Errorf("Suggested(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}
}

func TestPackage(t *testing.T) {
	s := DefaultSettings()

	tests := []struct {
		amount int
		want   int
	}{
		{100, 200},
		{200, 200},
		{300, 500},
		{1100, 2000},
		{2000, 2000},
		{5000, 2000},
	}

	for _, tt := range tests {
		if got := s.Package(tt.amount); got != tt.want {
			t.Errorf("Package(%d) = %d, want %d", tt.amount, got, tt.want)
		}
	}
}

func TestSettings_Validate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"negative spare", func(s *Settings) { s.SpareRatio = -0.1 }},
		{"zero round", func(s *Settings) { s.RoundTo = 0 }},
		{"no packs", func(s *Settings) { s.PackSizes = nil }},
		{"descending packs", func(s *Settings) { s.PackSizes = []int{500, 200} }},
		{"zero pack", func(s *Settings) { s.PackSizes = []int{0, 200} }},
		{"negative price", func(s *Settings) { s.UnitPrice = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("expected ErrInvalidSettings, got %v", err)
			}
		})
	}
}

func TestShopping(t *testing.T) {
	view := palette.Default()
	counts := map[string]int{
		"P01": 455,
		"P84": 90,
		"P20": 1000,
		"P02": 90,
		"P18": 0,
	}

	list, err := Shopping(counts, view, DefaultSettings())
	if err != nil {
		t.Fatalf("Shopping failed: %v", err)
	}

	wantOrder := []string{"P20", "P01", "P02", "P84"}
	if len(list.Items) != len(wantOrder) {
		t.Fatalf("items: got %d, want %d", len(list.Items), len(wantOrder))
	}
	for i, id := range wantOrder {
		if list.Items[i].ID != id {
			t.Errorf("item %d: got %s, want %s", i, list.Items[i].ID, id)
		}
	}

	first := list.Items[0]
	if first.Suggested != 1100 || first.Package != 2000 {
		t.Errorf("P20: suggested %d package %d, want 1100/2000", first.Suggested, first.Package)
	}
	if first.Name == "" || first.Hex == "" {
		t.Errorf("P20: missing name or hex: %+v", first)
	}

	if list.TotalNeeded != 1635 {
		t.Errorf("TotalNeeded: got %d, want 1635", list.TotalNeeded)
	}
	if list.TotalSuggested != 1900 {
		t.Errorf("TotalSuggested: got %d, want 1900", list.TotalSuggested)
	}
	if list.EstimatedCost != 95 {
		t.Errorf("EstimatedCost: got %v, want 95", list.EstimatedCost)
	}
}

func TestShopping_Errors(t *testing.T) {
	view := palette.Default()

	if _, err := Shopping(map[string]int{"P999": 3}, view, DefaultSettings()); err == nil {
		t.Error("unknown ID should fail")
	}
	if _, err := Shopping(map[string]int{"P01": -3}, view, DefaultSettings()); err == nil {
		t.Error("negative count should fail")
	}
	if _, err := Shopping(map[string]int{"P01": 3}, view, Settings{}); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("empty settings: expected ErrInvalidSettings, got %v", err)
	}

	filtered, err := view.Filter(palette.Options{ExcludeSpecial: true})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if _, err := Shopping(map[string]int{"P27": 3}, filtered, DefaultSettings()); err == nil {
		t.Error("ID outside the filtered view should fail")
	}
}

func TestColorList(t *testing.T) {
	view := palette.Default()
	counts := map[string]int{
		"P20": 5, // red
		"P01": 3, // neutral
		"P84": 7, // neutral
		"P18": 3, // neutral, ties P01
		"P27": 2, // translucent
		"P74": 0, // skipped
	}

	list, err := ColorList(counts, view)
	if err != nil {
		t.Fatalf("ColorList failed: %v", err)
	}

	if list.TotalBeads != 20 || list.UniqueColors != 5 {
		t.Errorf("totals: got %d beads %d colors, want 20/5", list.TotalBeads, list.UniqueColors)
	}

	wantCats := []palette.Category{palette.CategoryNeutral, palette.CategoryRed, palette.CategoryTranslucent}
	if len(list.Groups) != len(wantCats) {
		t.Fatalf("groups: got %d, want %d", len(list.Groups), len(wantCats))
	}
	for i, cat := range wantCats {
		if list.Groups[i].Category != cat {
			t.Errorf("group %d: got %s, want %s", i, list.Groups[i].Category, cat)
		}
	}

	neutral := list.Groups[0]
	if neutral.Total != 13 {
		t.Errorf("neutral total: got %d, want 13", neutral.Total)
	}
	wantIDs := []string{"P84", "P01", "P18"}
	for i, id := range wantIDs {
		if neutral.Colors[i].ID != id {
			t.Errorf("neutral color %d: got %s, want %s", i, neutral.Colors[i].ID, id)
		}
	}
}

func TestColorList_Empty(t *testing.T) {
	list, err := ColorList(map[string]int{}, palette.Default())
	if err != nil {
		t.Fatalf("ColorList failed: %v", err)
	}
	if list.Groups == nil || len(list.Groups) != 0 || list.TotalBeads != 0 {
		t.Errorf("empty list: got %+v", list)
	}
}
