// Package match finds the bead colors closest to a query color.
//
// A Matcher is bound to one palette view and one hybrid distance policy. It
// holds no mutable state and may be shared by any number of goroutines.
package match

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/bead-pattern-mcp/internal/colorspace"
	"github.com/ironsheep/bead-pattern-mcp/internal/deltae"
	"github.com/ironsheep/bead-pattern-mcp/internal/palette"
)

// ErrInvalidK is returned by NearestK for k < 1.
var ErrInvalidK = errors.New("k must be at least 1")

// Result is a matched palette entry.
type Result struct {
	Color    palette.Color `json:"color"`
	Index    int           `json:"index"`    // position within the matcher's view
	Distance float64       `json:"distance"` // CIEDE2000
}

// Matcher performs nearest-color searches over a palette view.
type Matcher struct {
	view   *palette.Palette
	policy deltae.Policy
}

// New creates a matcher for view.
//
// Returns a *palette.ConfigurationError if the view is empty, or the policy
// validation error.
func New(view *palette.Palette, policy deltae.Policy) (*Matcher, error) {
	if view == nil || view.Len() == 0 {
		return nil, &palette.ConfigurationError{}
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid match policy: %w", err)
	}
	return &Matcher{view: view, policy: policy}, nil
}

// Palette returns the view the matcher searches.
func (m *Matcher) Palette() *palette.Palette {
	return m.view
}

// Policy returns the hybrid distance policy.
func (m *Matcher) Policy() deltae.Policy {
	return m.policy
}

// Nearest returns the palette entry closest to c.
func (m *Matcher) Nearest(c colorspace.RGB) Result {
	return m.NearestLab(colorspace.ToLab(c))
}

// NearestLab returns the palette entry closest to a precomputed Lab color.
//
// The first pass finds the smallest CIE76 distance; the second evaluates the
// hybrid distance of every entry against it. Ties go to the entry that comes
// first in catalog order. The reported distance is always CIEDE2000, even when
// the winner was not refined.
func (m *Matcher) NearestLab(q colorspace.Lab) Result {
	n := m.view.Len()

	best76 := math.Inf(1)
	for i := 0; i < n; i++ {
		if d := deltae.CIE76(q, m.view.At(i).Lab); d < best76 {
			best76 = d
		}
	}

	bestIdx := 0
	bestDist := math.Inf(1)
	bestExact := false
	for i := 0; i < n; i++ {
		d, exact := m.policy.Distance(q, m.view.At(i).Lab, best76)
		if d < bestDist {
			bestIdx, bestDist, bestExact = i, d, exact
		}
	}

	winner := m.view.At(bestIdx)
	if !bestExact {
		bestDist = deltae.CIEDE2000(q, winner.Lab)
	}
	return Result{Color: winner, Index: bestIdx, Distance: bestDist}
}

// NearestK returns the k entries closest to c by exact CIEDE2000, ascending.
// k larger than the view is clamped.
func (m *Matcher) NearestK(c colorspace.RGB, k int) ([]Result, error) {
	return m.NearestKLab(colorspace.ToLab(c), k)
}

// NearestKLab is NearestK for a precomputed Lab color.
func (m *Matcher) NearestKLab(q colorspace.Lab, k int) ([]Result, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidK, k)
	}

	n := m.view.Len()
	all := make([]Result, n)
	for i := 0; i < n; i++ {
		entry := m.view.At(i)
		all[i] = Result{Color: entry, Index: i, Distance: deltae.CIEDE2000(q, entry.Lab)}
	}
	sort.SliceStable(all, func(a, b int) bool {
		return all[a].Distance < all[b].Distance
	})

	if k > n {
		k = n
	}
	return all[:k], nil
}

// Exhaustive returns the nearest entry by exact CIEDE2000 over every entry.
// It is the reference the hybrid search is measured against.
func (m *Matcher) Exhaustive(c colorspace.RGB) Result {
	q := colorspace.ToLab(c)
	best := Result{Distance: math.Inf(1)}
	for i := 0; i < m.view.Len(); i++ {
		entry := m.view.At(i)
		if d := deltae.CIEDE2000(q, entry.Lab); d < best.Distance {
			best = Result{Color: entry, Index: i, Distance: d}
		}
	}
	return best
}
