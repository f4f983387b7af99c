// Package memstore keeps deadlines in process memory. It backs local runs
// with DEADLINES_STORE_BACKEND=memory and the HTTP tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"deadline-tracker/models"
)

type DeadlineStore struct {
	mu        sync.RWMutex
	deadlines map[string]models.Deadline
	order     []string
}

var _ models.DeadlineStore = (*DeadlineStore)(nil)

func New() *DeadlineStore {
	return &DeadlineStore{deadlines: make(map[string]models.Deadline)}
}

func (s *DeadlineStore) EnsureCollection(ctx context.Context) error {
	return nil
}

func (s *DeadlineStore) Create(ctx context.Context, d models.Deadline) (*models.Deadline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.deadlines[d.ID]; !exists {
		s.order = append(s.order, d.ID)
	}
	s.deadlines[d.ID] = d
	return &d, nil
}

// List returns deadlines in insertion order.
func (s *DeadlineStore) List(ctx context.Context, status *models.Status) ([]models.Deadline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Deadline, 0, len(s.order))
	for _, id := range s.order {
		d := s.deadlines[id]
		if status != nil && d.Status != *status {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *DeadlineStore) UpdateDueDate(ctx context.Context, id string, dueDate time.Time) (*models.Deadline, error) {
	return s.update(id, func(d *models.Deadline) { d.DueDate = dueDate })
}

func (s *DeadlineStore) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Deadline, error) {
	return s.update(id, func(d *models.Deadline) { d.Status = status })
}

func (s *DeadlineStore) update(id string, apply func(*models.Deadline)) (*models.Deadline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deadlines[id]
	if !ok {
		return nil, models.ErrDeadlineNotFound
	}
	apply(&d)
	s.deadlines[id] = d
	return &d, nil
}
