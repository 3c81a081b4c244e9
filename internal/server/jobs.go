package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/bead-pattern-mcp/internal/palette"
	"github.com/ironsheep/bead-pattern-mcp/internal/quantize"
)

// job is a finished conversion kept for follow-up tool calls.
type job struct {
	ID      string
	Path    string
	Options palette.Options
	Result  *quantize.Result
	Quality *quantize.QualityReport
	Created time.Time
}

// jobStore keeps the most recent conversions. When full, the oldest job is
// evicted to make room.
type jobStore struct {
	mu    sync.Mutex
	limit int
	order []string // oldest first
	jobs  map[string]*job
}

func newJobStore(limit int) *jobStore {
	if limit <= 0 {
		limit = 1
	}
	return &jobStore{
		limit: limit,
		jobs:  make(map[string]*job),
	}
}

// put assigns j a new ID and stores it.
func (s *jobStore) put(j *job) string {
	j.ID = uuid.NewString()
	j.Created = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.order) >= s.limit {
		delete(s.jobs, s.order[0])
		s.order = s.order[1:]
	}
	s.jobs[j.ID] = j
	s.order = append(s.order, j.ID)
	return j.ID
}

func (s *jobStore) get(id string) (*job, error) {
	if id == "" {
		return nil, fmt.Errorf("job_id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("unknown or expired job: %s", id)
	}
	return j, nil
}

func (s *jobStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}
