package store

import (
	"context"
	"sync"
	"time"

	"github.com/pageza/recipebox/backend/internal/model"
	"github.com/pageza/recipebox/backend/internal/pagination"
)

// Memory keeps recipes in a map. Queries fall back to the scan strategy.
type Memory struct {
	mu      sync.RWMutex
	records map[string]model.Recipe
	now     func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory(opts ...Option) *Memory {
	o := applyOptions(opts)
	return &Memory{
		records: make(map[string]model.Recipe),
		now:     o.now,
	}
}

func (m *Memory) Save(_ context.Context, r *model.Recipe) (*model.Recipe, error) {
	rec := *r

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.records[rec.ID]; ok && rec.ID != "" {
		rec.DateCreated = existing.DateCreated
	}
	rec.Stamp(m.now())
	m.records[rec.ID] = rec
	return &rec, nil
}

func (m *Memory) FindByID(_ context.Context, id string) (*model.Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (m *Memory) DeleteByID(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

func (m *Memory) Scan(_ context.Context) ([]model.Recipe, error) {
	m.mu.RLock()
	records := make([]model.Recipe, 0, len(m.records))
	for _, rec := range m.records {
		records = append(records, rec)
	}
	m.mu.RUnlock()

	return pagination.Sort(records), nil
}
