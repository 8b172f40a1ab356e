package testkit

import (
	"context"
	"sort"
	"sync"

	"goclean/domain/cleaning"
	"goclean/domain/core"
	"goclean/internal/errors"
	"goclean/ports"
)

// InMemoryRunRepository implements ports.CleaningRunRepository with
// in-memory storage
type InMemoryRunRepository struct {
	runs  map[core.RunID]cleaning.Run
	order []core.RunID
	mu    sync.RWMutex
}

func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{
		runs: make(map[core.RunID]cleaning.Run),
	}
}

func (s *InMemoryRunRepository) SaveRun(ctx context.Context, run *cleaning.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; !exists {
		s.order = append(s.order, run.ID)
	}
	s.runs[run.ID] = *run
	return nil
}

func (s *InMemoryRunRepository) GetRun(ctx context.Context, id core.RunID) (*cleaning.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, exists := s.runs[id]
	if !exists {
		return nil, errors.NotFound("run " + id.String())
	}
	return &run, nil
}

func (s *InMemoryRunRepository) ListRuns(ctx context.Context, filters ports.RunFilters) ([]*cleaning.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// newest first; insertion order breaks timestamp ties
	idx := make([]int, len(s.order))
	for i := range idx {
		idx[i] = len(s.order) - 1 - i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.runs[s.order[idx[a]]].CreatedAt.After(s.runs[s.order[idx[b]]].CreatedAt)
	})

	limit := filters.Limit
	if limit <= 0 {
		limit = ports.DefaultRunLimit
	}

	results := []*cleaning.Run{}
	skipped := 0
	for _, i := range idx {
		run := s.runs[s.order[i]]
		if filters.Status != nil && run.Status != *filters.Status {
			continue
		}
		if skipped < filters.Offset {
			skipped++
			continue
		}
		results = append(results, &run)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Len returns the number of stored runs
func (s *InMemoryRunRepository) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
