package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/dbsmedya/recordsdesk/internal/record"
)

// Memory is a process-local Repository with auto-increment ids.
type Memory struct {
	mu      sync.RWMutex
	records map[int64]record.Record
	nextID  int64
}

// NewMemory creates a Memory repository seeded with records. Seeded ids are
// kept and new ids continue after the highest one.
func NewMemory(seed ...record.Record) *Memory {
	m := &Memory{
		records: make(map[int64]record.Record, len(seed)),
		nextID:  1,
	}
	for _, r := range seed {
		m.records[r.ID] = r
		if r.ID >= m.nextID {
			m.nextID = r.ID + 1
		}
	}
	return m
}

func (m *Memory) List(ctx context.Context) ([]record.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]record.Record, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Create(ctx context.Context, d record.Draft) (record.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := d.ToRecord(m.nextID)
	m.nextID++
	m.records[r.ID] = r
	return r, nil
}

func (m *Memory) Update(ctx context.Context, id int64, p record.Patch) (record.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.records[id]
	if !ok {
		return record.Record{}, ErrNotFound
	}
	r = p.Apply(r)
	m.records[id] = r
	return r, nil
}

func (m *Memory) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	return nil
}
