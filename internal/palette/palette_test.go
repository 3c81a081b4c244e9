package palette

import (
	"errors"
	"testing"

	"github.com/ironsheep/bead-pattern-mcp/internal/colorspace"
)

func TestDefault_Catalog(t *testing.T) {
	p := Default()

	if p.Len() != 76 {
		t.Fatalf("catalog size: got %d, want 76", p.Len())
	}
	if q := Default(); q == p || q.Len() != p.Len() {
		t.Error("Default() should build an independent palette on every call")
	}

	special := 0
	for _, c := range p.Colors() {
		if c.Special {
			special++
		}
		if c.Lab != colorspace.ToLab(c.RGB) {
			t.Errorf("%s: stored Lab %+v does not match conversion of %+v", c.ID, c.Lab, c.RGB)
		}
		if c.Hex != c.RGB.Hex() {
			t.Errorf("%s: Hex %s does not match RGB %+v", c.ID, c.Hex, c.RGB)
		}
	}
	if special != 19 {
		t.Errorf("special entries: got %d, want 19", special)
	}
}

func TestDefault_KnownEntries(t *testing.T) {
	tests := []struct {
		id       string
		rgb      colorspace.RGB
		category Category
		special  bool
	}{
		{"P01", colorspace.RGB{R: 238, G: 238, B: 238}, CategoryNeutral, false},
		{"P84", colorspace.RGB{R: 253, G: 254, B: 254}, CategoryNeutral, false},
		{"P74", colorspace.RGB{R: 252, G: 220, B: 128}, CategoryYellow, false},
		{"P27", colorspace.RGB{R: 255, G: 0, B: 0}, CategoryTranslucent, true},
		{"P32", colorspace.RGB{R: 192, G: 192, B: 192}, CategoryMetallic, true},
		{"P41", colorspace.RGB{R: 221, G: 160, B: 221}, CategoryPearlescent, true},
		{"P73", colorspace.RGB{R: 0, G: 255, B: 127}, CategoryLuminous, true},
	}

	p := Default()
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			c, ok := p.ByID(tt.id)
			if !ok {
				t.Fatalf("ByID(%s) not found", tt.id)
			}
			if c.RGB != tt.rgb {
				t.Errorf("RGB: got %+v, want %+v", c.RGB, tt.rgb)
			}
			if c.Category != tt.category {
				t.Errorf("Category: got %s, want %s", c.Category, tt.category)
			}
			if c.Special != tt.special {
				t.Errorf("Special: got %v, want %v", c.Special, tt.special)
			}
		})
	}
}

func TestDefault_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Default().Colors() {
		if seen[c.ID] {
			t.Errorf("duplicate ID %s", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestFilter(t *testing.T) {
	base := Default()

	tests := []struct {
		name    string
		opts    Options
		wantLen int
	}{
		{"no filter", Options{}, 76},
		{"exclude special", Options{ExcludeSpecial: true}, 57},
		{"exclude translucent", Options{ExcludeTranslucent: true}, 72},
		{"exclude both", Options{ExcludeSpecial: true, ExcludeTranslucent: true}, 57},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := base.Filter(tt.opts)
			if err != nil {
				t.Fatalf("Filter failed: %v", err)
			}
			if view.Len() != tt.wantLen {
				t.Errorf("Len: got %d, want %d", view.Len(), tt.wantLen)
			}
			for _, c := range view.Colors() {
				if tt.opts.ExcludeSpecial && c.Special {
					t.Errorf("special color %s survived filter", c.ID)
				}
				if tt.opts.ExcludeTranslucent && c.Translucent() {
					t.Errorf("translucent color %s survived filter", c.ID)
				}
			}
		})
	}

	if base.Len() != 76 {
		t.Errorf("filtering mutated the base palette: len %d", base.Len())
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	base := Default()
	view, err := base.Filter(Options{ExcludeSpecial: true})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}

	last := -1
	for i := 0; i < view.Len(); i++ {
		pos := base.IndexOf(view.At(i).ID)
		if pos <= last {
			t.Fatalf("view order differs from catalog order at %s", view.At(i).ID)
		}
		last = pos
	}
}

func TestFilter_EmptyView(t *testing.T) {
	p, err := New([]Entry{
		{ID: "G1", Name: "Gold", Category: CategoryMetallic, RGB: colorspace.RGB{R: 255, G: 215}},
		{ID: "T1", Name: "Clear Red", Category: CategoryTranslucent, RGB: colorspace.RGB{R: 255}},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = p.Filter(Options{ExcludeSpecial: true})
	if err == nil {
		t.Fatal("Filter should fail when every entry is excluded")
	}
	if !errors.Is(err, ErrEmptyPalette) {
		t.Errorf("expected ErrEmptyPalette, got %v", err)
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigurationError, got %T", err)
	}
	if cfgErr.Base != 2 {
		t.Errorf("Base: got %d, want 2", cfgErr.Base)
	}

	// Only translucent excluded leaves the metallic entry.
	view, err := p.Filter(Options{ExcludeTranslucent: true})
	if err != nil {
		t.Fatalf("Filter failed: %v", err)
	}
	if view.Len() != 1 || view.At(0).ID != "G1" {
		t.Errorf("unexpected view: %+v", view.Colors())
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
	}{
		{"empty", nil},
		{"blank id", []Entry{{Name: "x"}}},
		{"duplicate id", []Entry{{ID: "A"}, {ID: "A"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.entries); err == nil {
				t.Error("New should fail")
			}
		})
	}
}

func TestColors_ReturnsCopy(t *testing.T) {
	p := Default()
	colors := p.Colors()
	colors[0].Name = "changed"
	if p.At(0).Name == "changed" {
		t.Error("Colors() exposed internal storage")
	}
}

func TestByID_Missing(t *testing.T) {
	if _, ok := Default().ByID("P999"); ok {
		t.Error("ByID should report missing IDs")
	}
	if Default().IndexOf("P999") != -1 {
		t.Error("IndexOf should return -1 for missing IDs")
	}
}

func TestCategories(t *testing.T) {
	cats := Default().Categories()
	want := []Category{
		CategoryNeutral, CategoryRed, CategoryPink, CategoryYellow, CategoryOrange,
		CategoryGreen, CategoryBlue, CategoryPurple, CategoryBrown, CategoryLuminous,
		CategoryTranslucent, CategoryMetallic, CategoryPearlescent,
	}
	if len(cats) != len(want) {
		t.Fatalf("categories: got %v, want %v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("category %d: got %s, want %s", i, cats[i], want[i])
		}
	}
}
