package quantize

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/ironsheep/bead-pattern-mcp/internal/palette"
)

func TestAnalyze_OpaqueMatchesMeanDistance(t *testing.T) {
	q := newQuantizer(t, palette.Options{})
	rng := rand.New(rand.NewSource(8))
	g := randomGrid(t, rng, 12, 10)
	for i := 3; i < len(g.Pix); i += 4 {
		g.Pix[i] = 255
	}

	res, err := q.Quantize(g)
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}
	report, err := Analyze(g, res)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if report.MatchedPixels != 120 {
		t.Errorf("MatchedPixels: got %d, want 120", report.MatchedPixels)
	}
	if math.Abs(report.AverageError-res.MeanDistance) > 1e-9 {
		t.Errorf("AverageError %v, MeanDistance %v", report.AverageError, res.MeanDistance)
	}
	if report.MinError > report.AverageError || report.AverageError > report.MaxError {
		t.Errorf("min/avg/max out of order: %v %v %v", report.MinError, report.AverageError, report.MaxError)
	}
	if report.Score != ScoreFor(report.AverageError) || report.Grade != GradeFor(report.AverageError) {
		t.Errorf("score/grade inconsistent: %+v", report)
	}
}

func TestAnalyze_UsesUncompositedSource(t *testing.T) {
	q := newQuantizer(t, palette.Options{})
	// Transparent black composites to white, but the source channels are black.
	g := solidGrid(t, 2, 2, 0, 0, 0, 0)

	res, err := q.Quantize(g)
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}
	report, err := Analyze(g, res)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.AverageError < 90 {
		t.Errorf("black source against a white bead should score badly, got %v", report.AverageError)
	}
	if report.Grade != GradePoor {
		t.Errorf("grade: got %s, want poor", report.Grade)
	}
}

func TestAnalyze_DimensionMismatch(t *testing.T) {
	q := newQuantizer(t, palette.Options{})
	rng := rand.New(rand.NewSource(9))

	small := randomGrid(t, rng, 2, 3)
	res, err := q.Quantize(small)
	if err != nil {
		t.Fatalf("Quantize failed: %v", err)
	}

	tests := []struct {
		name        string
		w, h        int
		wantMatched int
	}{
		{"source larger", 4, 4, 6},
		{"source narrower", 1, 3, 3},
		{"source shorter", 2, 1, 2},
		{"crossed", 5, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := randomGrid(t, rng, tt.w, tt.h)
			report, err := Analyze(src, res)
			if !errors.Is(err, ErrDimensionMismatch) {
				t.Fatalf("expected ErrDimensionMismatch, got %v", err)
			}
			var dimErr *DimensionMismatchError
			if !errors.As(err, &dimErr) {
				t.Fatalf("expected *DimensionMismatchError, got %T", err)
			}
			if report == nil {
				t.Fatal("report should be returned with the mismatch error")
			}
			if report.MatchedPixels != tt.wantMatched || dimErr.Scored != tt.wantMatched {
				t.Errorf("matched: report %d, error %d, want %d", report.MatchedPixels, dimErr.Scored, tt.wantMatched)
			}
		})
	}
}

func TestAnalyze_NothingScored(t *testing.T) {
	g := solidGrid(t, 2, 2, 1, 2, 3, 255)
	empty := &Result{Palette: palette.Default()}

	report, err := Analyze(g, empty)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
	if report == nil {
		t.Fatal("expected a zero report")
	}
	if report.MatchedPixels != 0 || report.AverageError != 0 || report.Grade != GradeNone {
		t.Errorf("zero report: got %+v", report)
	}
	if math.IsNaN(report.AverageError) || math.IsInf(report.MinError, 0) {
		t.Errorf("zero report carries non-finite values: %+v", report)
	}
}

func TestAnalyze_InvalidInput(t *testing.T) {
	g := solidGrid(t, 1, 1, 0, 0, 0, 255)
	if _, err := Analyze(g, nil); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("nil result: expected ErrInvalidGrid, got %v", err)
	}
	if _, err := Analyze(Grid{}, &Result{Palette: palette.Default()}); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("empty source: expected ErrInvalidGrid, got %v", err)
	}
}

func TestGradeAndScore(t *testing.T) {
	tests := []struct {
		avg   float64
		score int
		grade Grade
	}{
		{0, 100, GradeGood},
		{4.4, 96, GradeGood},
		{9.99, 90, GradeGood},
		{10, 90, GradeFair},
		{19.5, 81, GradeFair},
		{20, 80, GradePoor},
		{150, 0, GradePoor},
	}

	for _, tt := range tests {
		if got := ScoreFor(tt.avg); got != tt.score {
			t.Errorf("ScoreFor(%v) = %d, want %d", tt.avg, got, tt.score)
		}
		if got := GradeFor(tt.avg); got != tt.grade {
			t.Errorf("GradeFor(%v) = %s, want %s", tt.avg, got, tt.grade)
		}
	}
}
