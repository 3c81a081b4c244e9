package deltae

import (
	"fmt"

	"github.com/ironsheep/bead-pattern-mcp/internal/colorspace"
)

// DefaultThreshold is the CIE76 distance below which a candidate is always
// refined with CIEDE2000. CIEDE2000 departs most from CIE76 for small and
// medium differences.
const DefaultThreshold = 5.0

// DefaultScreenFactor refines every candidate whose CIE76 distance is within
// this multiple of the best CIE76 distance for the query. Over the built-in
// bead catalog the result agrees with an exhaustive CIEDE2000 search on more
// than 99.5% of random colors, refining about a quarter of the entries.
const DefaultScreenFactor = 3.0

// Policy decides which candidates of a nearest-color search are scored with
// the exact CIEDE2000 metric and which keep their CIE76 screen distance.
//
// A candidate is refined when its CIE76 distance d76 satisfies either
//
//	d76 < Threshold
//	d76 <= ScreenFactor * best76
//
// where best76 is the smallest CIE76 distance over all candidates for the
// query. A zero ScreenFactor disables the second rule, leaving the plain
// per-candidate threshold.
type Policy struct {
	Threshold    float64 `json:"threshold"`
	ScreenFactor float64 `json:"screen_factor"`
}

// DefaultPolicy returns the policy used by the matcher unless configured
// otherwise.
func DefaultPolicy() Policy {
	return Policy{Threshold: DefaultThreshold, ScreenFactor: DefaultScreenFactor}
}

// Validate rejects negative or non-finite settings.
func (p Policy) Validate() error {
	if !(p.Threshold >= 0) || p.Threshold > 1e6 {
		return fmt.Errorf("hybrid threshold must be >= 0, got %v", p.Threshold)
	}
	if !(p.ScreenFactor >= 0) || p.ScreenFactor > 1e6 {
		return fmt.Errorf("screen factor must be >= 0, got %v", p.ScreenFactor)
	}
	return nil
}

// Refine reports whether a candidate at CIE76 distance d76 needs CIEDE2000.
func (p Policy) Refine(d76, best76 float64) bool {
	return d76 < p.Threshold || d76 <= p.ScreenFactor*best76
}

// Distance returns the hybrid distance between a query and a candidate.
//
// The second return value reports whether the distance is exact CIEDE2000.
func (p Policy) Distance(query, candidate colorspace.Lab, best76 float64) (float64, bool) {
	d76 := CIE76(query, candidate)
	if p.Refine(d76, best76) {
		return CIEDE2000(query, candidate), true
	}
	return d76, false
}
