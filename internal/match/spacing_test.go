package match

import (
	"math"
	"testing"

	"github.com/ironsheep/bead-pattern-mcp/internal/colorspace"
	"github.com/ironsheep/bead-pattern-mcp/internal/deltae"
	"github.com/ironsheep/bead-pattern-mcp/internal/palette"
)

func TestClosestPair_Default(t *testing.T) {
	s := ClosestPair(palette.Default())

	if s.Pairs != 76*75/2 {
		t.Errorf("pairs: got %d, want %d", s.Pairs, 76*75/2)
	}
	if len(s.Duplicates) != 1 || s.Duplicates[0].A != "P36" || s.Duplicates[0].B != "P39" {
		t.Errorf("duplicates: got %+v, want P36/P39", s.Duplicates)
	}
	if s.Closest76.A != "P17" || s.Closest76.B != "P32" {
		t.Errorf("closest CIE76 pair: got %s/%s, want P17/P32", s.Closest76.A, s.Closest76.B)
	}
	if math.Abs(s.Closest76.Distance-1.5787) > 1e-3 {
		t.Errorf("closest CIE76 distance: got %v", s.Closest76.Distance)
	}
	if math.Abs(s.Closest2000.Distance-1.2037) > 1e-3 {
		t.Errorf("closest CIEDE2000 distance: got %v", s.Closest2000.Distance)
	}

	// Every pair of distinct neighbors is inside the refinement threshold.
	if s.Closest76.Distance >= deltae.DefaultThreshold {
		t.Errorf("closest pair %v is not below the hybrid threshold", s.Closest76.Distance)
	}
}

func TestClosestPair_Small(t *testing.T) {
	single, err := palette.New([]palette.Entry{{ID: "A", RGB: colorspace.RGB{R: 1}}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s := ClosestPair(single); s.Pairs != 0 || s.Closest76.A != "" {
		t.Errorf("single entry: got %+v", s)
	}

	two, err := palette.New([]palette.Entry{
		{ID: "A", RGB: colorspace.RGB{}},
		{ID: "B", RGB: colorspace.RGB{R: 255, G: 255, B: 255}},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	s := ClosestPair(two)
	if s.Pairs != 1 || s.Closest76.A != "A" || s.Closest76.B != "B" {
		t.Errorf("two entries: got %+v", s)
	}
	if math.Abs(s.Closest76.Distance-100) > 1e-3 {
		t.Errorf("black/white CIE76: got %v, want 100", s.Closest76.Distance)
	}
}
