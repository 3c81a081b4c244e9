package quantize

import (
	"context"
	"errors"
	"sync"
)

// ErrSessionIncomplete is returned by Session.Result before every chunk ran.
var ErrSessionIncomplete = errors.New("quantization session has unprocessed chunks")

// Session quantizes a grid in steps. Each call to Next processes one batch of
// chunks (one chunk per worker) and returns, so the caller decides between
// batches whether to continue.
//
// A Session is not safe for concurrent use.
type Session struct {
	q        *Quantizer
	grid     Grid
	chunks   []Chunk
	partials []*Partial
	next     int
	rows     int
}

// Start validates the grid and prepares a session.
func (q *Quantizer) Start(g Grid) (*Session, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	chunks := q.Chunks(g)
	return &Session{
		q:        q,
		grid:     g,
		chunks:   chunks,
		partials: make([]*Partial, 0, len(chunks)),
	}, nil
}

// Next runs the next batch of chunks in parallel. It reports done once every
// chunk has been processed.
func (s *Session) Next() (done bool, err error) {
	if s.next >= len(s.chunks) {
		return true, nil
	}

	end := s.next + s.q.workers()
	if end > len(s.chunks) {
		end = len(s.chunks)
	}
	batch := s.chunks[s.next:end]

	results := make([]*Partial, len(batch))
	errs := make([]error, len(batch))
	var wg sync.WaitGroup
	for i, c := range batch {
		wg.Add(1)
		go func(i int, c Chunk) {
			defer wg.Done()
			results[i], errs[i] = s.q.QuantizeRows(s.grid, c.Y0, c.Y1)
		}(i, c)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return false, err
	}
	for i, p := range results {
		s.partials = append(s.partials, p)
		s.rows += batch[i].Y1 - batch[i].Y0
	}
	s.next = end
	return s.next >= len(s.chunks), nil
}

// Progress returns the rows processed so far and the grid height.
func (s *Session) Progress() (rows, total int) {
	return s.rows, s.grid.Height
}

// Result assembles the quantized grid once every chunk has run.
func (s *Session) Result() (*Result, error) {
	if s.next < len(s.chunks) {
		return nil, ErrSessionIncomplete
	}
	return Assemble(s.grid, s.q.Matcher.Palette(), s.partials...)
}

// Run drives the session to completion, checking ctx before every batch. If
// onBatch is non-nil it is called after each batch with the current progress.
//
// When ctx ends first, Run returns ctx.Err() and the chunks already processed
// are kept; the session can be resumed with another call.
func (s *Session) Run(ctx context.Context, onBatch func(rows, total int)) (*Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		done, err := s.Next()
		if err != nil {
			return nil, err
		}
		if onBatch != nil {
			onBatch(s.Progress())
		}
		if done {
			return s.Result()
		}
	}
}
