package quantize

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/ironsheep/bead-pattern-mcp/internal/colorspace"
	"github.com/ironsheep/bead-pattern-mcp/internal/deltae"
)

// ErrDimensionMismatch is matched by every *DimensionMismatchError.
var ErrDimensionMismatch = errors.New("grid dimensions differ")

// DimensionMismatchError reports that the source grid and the quantized grid
// differ in size. The accompanying report covers the overlap only.
type DimensionMismatchError struct {
	SourceWidth, SourceHeight     int
	AssignedWidth, AssignedHeight int
	Scored                        int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("source grid is %dx%d but assigned grid is %dx%d; scored %d overlapping pixels",
		e.SourceWidth, e.SourceHeight, e.AssignedWidth, e.AssignedHeight, e.Scored)
}

// Is lets errors.Is match ErrDimensionMismatch.
func (e *DimensionMismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// Grade buckets the average error.
type Grade string

const (
	GradeGood Grade = "good"
	GradeFair Grade = "fair"
	GradePoor Grade = "poor"
	GradeNone Grade = "none" // nothing was scored
)

// QualityReport summarizes the CIEDE2000 error between source pixels and the
// beads assigned to them.
type QualityReport struct {
	AverageError  float64 `json:"average_error"`
	MaxError      float64 `json:"max_error"`
	MinError      float64 `json:"min_error"`
	MatchedPixels int     `json:"matched_pixels"`
	Score         int     `json:"score"` // 100 - average error, clamped to [0, 100]
	Grade         Grade   `json:"grade"`
}

// GradeFor maps an average error to a grade: good below 10, fair below 20.
func GradeFor(avg float64) Grade {
	switch {
	case avg < 10:
		return GradeGood
	case avg < 20:
		return GradeFair
	default:
		return GradePoor
	}
}

// ScoreFor returns round(100 - avg) clamped to [0, 100].
func ScoreFor(avg float64) int {
	return int(math.Round(math.Max(0, math.Min(100, 100-avg))))
}

type qualityStats struct {
	sum      float64
	max, min float64
	n        int
}

func (s *qualityStats) add(e float64) {
	if s.n == 0 || e > s.max {
		s.max = e
	}
	if s.n == 0 || e < s.min {
		s.min = e
	}
	s.sum += e
	s.n++
}

func (s *qualityStats) merge(o qualityStats) {
	if o.n == 0 {
		return
	}
	if s.n == 0 || o.max > s.max {
		s.max = o.max
	}
	if s.n == 0 || o.min < s.min {
		s.min = o.min
	}
	s.sum += o.sum
	s.n += o.n
}

// Analyze recomputes the exact CIEDE2000 error between every source pixel
// (its color channels, not composited) and its assigned bead.
//
// When the grids differ in size only the overlapping region is scored; the
// report is returned together with a *DimensionMismatchError and its
// MatchedPixels reflects the overlap.
func Analyze(source Grid, assigned *Result) (*QualityReport, error) {
	if err := source.Validate(); err != nil {
		return nil, err
	}
	if assigned == nil || assigned.Palette == nil {
		return nil, fmt.Errorf("%w: no quantized grid to analyze", ErrInvalidGrid)
	}

	width := min(source.Width, assigned.Width)
	height := min(source.Height, len(assigned.Indices))

	shards := (height + DefaultChunkRows - 1) / DefaultChunkRows
	stats := make([]qualityStats, shards)
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup
	for s := 0; s < shards; s++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(s int) {
			defer wg.Done()
			defer func() { <-sem }()

			y1 := min((s+1)*DefaultChunkRows, height)
			for y := s * DefaultChunkRows; y < y1; y++ {
				row := assigned.Indices[y]
				for x := 0; x < width && x < len(row); x++ {
					bead := assigned.Palette.At(row[x])
					src := colorspace.ToLab(source.Source(x, y))
					stats[s].add(deltae.CIEDE2000(src, bead.Lab))
				}
			}
		}(s)
	}
	wg.Wait()

	var total qualityStats
	for _, s := range stats {
		total.merge(s)
	}

	report := &QualityReport{Grade: GradeNone}
	if total.n > 0 {
		avg := total.sum / float64(total.n)
		report = &QualityReport{
			AverageError:  avg,
			MaxError:      total.max,
			MinError:      total.min,
			MatchedPixels: total.n,
			Score:         ScoreFor(avg),
			Grade:         GradeFor(avg),
		}
	}

	if source.Width != assigned.Width || source.Height != assigned.Height {
		return report, &DimensionMismatchError{
			SourceWidth:    source.Width,
			SourceHeight:   source.Height,
			AssignedWidth:  assigned.Width,
			AssignedHeight: assigned.Height,
			Scored:         total.n,
		}
	}
	return report, nil
}
