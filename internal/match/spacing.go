package match

import (
	"github.com/ironsheep/bead-pattern-mcp/internal/deltae"
	"github.com/ironsheep/bead-pattern-mcp/internal/palette"
)

// Pair is two palette entries and the distance between them.
type Pair struct {
	A        string  `json:"a"`
	B        string  `json:"b"`
	Distance float64 `json:"distance"`
}

// Spacing describes how tightly a palette view is packed in Lab space.
type Spacing struct {
	Pairs       int    `json:"pairs"`
	Closest76   Pair   `json:"closest_76"`
	Closest2000 Pair   `json:"closest_2000"`
	Duplicates  []Pair `json:"duplicates,omitempty"` // entries with identical Lab
}

// ClosestPair measures every pair of entries in view. Duplicates are listed
// separately and do not count towards the closest pairs.
//
// A hybrid threshold below Closest76 can still confuse two entries that a
// query sits between; the matcher's screen factor covers that case.
func ClosestPair(view *palette.Palette) Spacing {
	var s Spacing
	first76, first2000 := true, true

	n := view.Len()
	for i := 0; i < n; i++ {
		a := view.At(i)
		for j := i + 1; j < n; j++ {
			b := view.At(j)
			s.Pairs++

			d76 := deltae.CIE76(a.Lab, b.Lab)
			if d76 == 0 {
				s.Duplicates = append(s.Duplicates, Pair{A: a.ID, B: b.ID})
				continue
			}
			if first76 || d76 < s.Closest76.Distance {
				s.Closest76 = Pair{A: a.ID, B: b.ID, Distance: d76}
				first76 = false
			}
			if d00 := deltae.CIEDE2000(a.Lab, b.Lab); first2000 || d00 < s.Closest2000.Distance {
				s.Closest2000 = Pair{A: a.ID, B: b.ID, Distance: d00}
				first2000 = false
			}
		}
	}
	return s
}
