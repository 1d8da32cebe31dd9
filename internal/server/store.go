package server

import (
	"sync"

	"github.com/piwi3910/LaminateCut/internal/model"
)

// DefaultMaxPlans is how many plans the store keeps when no limit is set.
const DefaultMaxPlans = 50

// PlanStore keeps the most recent plans in memory. When full, the oldest plan
// is evicted.
type PlanStore struct {
	mu    sync.RWMutex
	plans map[string]model.Plan
	order []string // insertion order, oldest first
	limit int
}

func NewPlanStore(limit int) *PlanStore {
	if limit <= 0 {
		limit = DefaultMaxPlans
	}
	return &PlanStore{
		plans: make(map[string]model.Plan),
		limit: limit,
	}
}

// Put stores a plan under its ID.
func (s *PlanStore) Put(plan model.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[plan.ID]; !ok {
		s.order = append(s.order, plan.ID)
	}
	s.plans[plan.ID] = plan

	for len(s.order) > s.limit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.plans, oldest)
	}
}

func (s *PlanStore) Get(id string) (model.Plan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[id]
	return p, ok
}

// List returns the stored plans, newest first.
func (s *PlanStore) List() []model.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Plan, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.plans[s.order[i]])
	}
	return out
}

func (s *PlanStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.plans)
}
