package quantize

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/ironsheep/bead-pattern-mcp/internal/match"
	"github.com/ironsheep/bead-pattern-mcp/internal/palette"
)

// DefaultChunkRows is the number of grid rows matched per chunk.
const DefaultChunkRows = 8

// Result is a quantized grid.
type Result struct {
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	Indices      [][]int        `json:"indices"` // [y][x] positions in Palette
	Counts       map[string]int `json:"counts"`  // palette ID -> cells
	MeanDistance float64        `json:"mean_distance"`

	Palette *palette.Palette `json:"-"`
}

// ColorAt returns the bead assigned to cell (x, y).
func (r *Result) ColorAt(x, y int) palette.Color {
	return r.Palette.At(r.Indices[y][x])
}

// IDs returns the grid as palette identifiers.
func (r *Result) IDs() [][]string {
	ids := make([][]string, r.Height)
	for y, row := range r.Indices {
		ids[y] = make([]string, len(row))
		for x, idx := range row {
			ids[y][x] = r.Palette.At(idx).ID
		}
	}
	return ids
}

// Total returns the sum of all counts.
func (r *Result) Total() int {
	total := 0
	for _, n := range r.Counts {
		total += n
	}
	return total
}

// Partial is the output of one row range. Partials of disjoint ranges merge
// in any order.
type Partial struct {
	Y0, Y1      int
	Indices     [][]int
	Counts      []int // indexed like the palette view
	DistanceSum float64
}

// Pixels returns the number of cells matched in the partial.
func (p *Partial) Pixels() int {
	n := 0
	for _, c := range p.Counts {
		n += c
	}
	return n
}

// Quantizer matches grids against a palette view.
type Quantizer struct {
	Matcher   *match.Matcher
	Workers   int // <= 0 means runtime.NumCPU()
	ChunkRows int // <= 0 means DefaultChunkRows
}

// New creates a quantizer with default worker and chunk settings.
func New(m *match.Matcher) *Quantizer {
	return &Quantizer{Matcher: m}
}

func (q *Quantizer) workers() int {
	if q.Workers > 0 {
		return q.Workers
	}
	return runtime.NumCPU()
}

func (q *Quantizer) chunkRows() int {
	if q.ChunkRows > 0 {
		return q.ChunkRows
	}
	return DefaultChunkRows
}

// Chunk is a half-open row range.
type Chunk struct {
	Y0, Y1 int
}

// Chunks splits the grid's rows into ranges of at most ChunkRows rows.
func (q *Quantizer) Chunks(g Grid) []Chunk {
	step := q.chunkRows()
	chunks := make([]Chunk, 0, (g.Height+step-1)/step)
	for y := 0; y < g.Height; y += step {
		end := y + step
		if end > g.Height {
			end = g.Height
		}
		chunks = append(chunks, Chunk{Y0: y, Y1: end})
	}
	return chunks
}

// QuantizeRows matches rows [y0, y1) of the grid. Each pixel is composited
// over white before matching; the distance sum uses the composited color.
func (q *Quantizer) QuantizeRows(g Grid, y0, y1 int) (*Partial, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if y0 < 0 || y1 > g.Height || y0 >= y1 {
		return nil, fmt.Errorf("row range [%d,%d) outside grid height %d", y0, y1, g.Height)
	}

	p := &Partial{
		Y0:      y0,
		Y1:      y1,
		Indices: make([][]int, 0, y1-y0),
		Counts:  make([]int, q.Matcher.Palette().Len()),
	}
	for y := y0; y < y1; y++ {
		row := make([]int, g.Width)
		for x := 0; x < g.Width; x++ {
			res := q.Matcher.Nearest(g.Composited(x, y))
			row[x] = res.Index
			p.Counts[res.Index]++
			p.DistanceSum += res.Distance
		}
		p.Indices = append(p.Indices, row)
	}
	return p, nil
}

// Quantize matches every pixel of the grid using the worker pool.
func (q *Quantizer) Quantize(g Grid) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	chunks := q.Chunks(g)
	partials := make([]*Partial, len(chunks))
	errs := make([]error, len(chunks))

	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := q.workers()
	if workers > len(chunks) {
		workers = len(chunks)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				partials[i], errs[i] = q.QuantizeRows(g, chunks[i].Y0, chunks[i].Y1)
			}
		}()
	}
	for i := range chunks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return Assemble(g, q.Matcher.Palette(), partials...)
}

// Assemble merges partials covering every row of g exactly once.
//
// Partials may arrive in any order; they are summed in row order so the mean
// distance does not depend on scheduling.
func Assemble(g Grid, view *palette.Palette, partials ...*Partial) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	sorted := make([]*Partial, 0, len(partials))
	for _, p := range partials {
		if p != nil {
			sorted = append(sorted, p)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Y0 < sorted[j].Y0 })

	res := &Result{
		Width:   g.Width,
		Height:  g.Height,
		Indices: make([][]int, 0, g.Height),
		Counts:  make(map[string]int),
		Palette: view,
	}

	counts := make([]int, view.Len())
	var distSum float64
	next := 0
	for _, p := range sorted {
		if p.Y0 != next {
			return nil, fmt.Errorf("partial starts at row %d, expected %d", p.Y0, next)
		}
		if len(p.Counts) != len(counts) {
			return nil, fmt.Errorf("partial for rows [%d,%d) was built for a different palette", p.Y0, p.Y1)
		}
		for i, c := range p.Counts {
			counts[i] += c
		}
		distSum += p.DistanceSum
		res.Indices = append(res.Indices, p.Indices...)
		next = p.Y1
	}
	if next != g.Height {
		return nil, fmt.Errorf("partials cover %d of %d rows", next, g.Height)
	}

	for i, c := range counts {
		if c > 0 {
			res.Counts[view.At(i).ID] += c
		}
	}
	res.MeanDistance = distSum / float64(g.Cells())
	return res, nil
}
