package server

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/piwi3910/LaminateCut/internal/model"
)

func TestPlanStore_PutGet(t *testing.T) {
	s := NewPlanStore(2)
	s.Put(model.Plan{ID: "a"})

	p, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "a", p.ID)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestPlanStore_EvictsOldest(t *testing.T) {
	s := NewPlanStore(2)
	s.Put(model.Plan{ID: "a"})
	s.Put(model.Plan{ID: "b"})
	s.Put(model.Plan{ID: "c"})

	assert.Equal(t, 2, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok, "oldest plan should be evicted")

	list := s.List()
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
}

func TestPlanStore_ReplaceKeepsPosition(t *testing.T) {
	s := NewPlanStore(2)
	s.Put(model.Plan{ID: "a"})
	s.Put(model.Plan{ID: "a", Kerf: 5})

	assert.Equal(t, 1, s.Len())
	p, _ := s.Get("a")
	assert.Equal(t, 5, p.Kerf)
}

func TestPlanStore_DefaultLimit(t *testing.T) {
	s := NewPlanStore(0)
	for i := 0; i < DefaultMaxPlans+3; i++ {
		s.Put(model.Plan{ID: fmt.Sprintf("p%d", i)})
	}
	assert.Equal(t, DefaultMaxPlans, s.Len())
}

func TestPlanStore_Concurrent(t *testing.T) {
	s := NewPlanStore(10)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p%d", i)
			s.Put(model.Plan{ID: id})
			s.Get(id)
			s.List()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 10, s.Len())
}
