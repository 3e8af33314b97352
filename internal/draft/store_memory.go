package draft

import (
	"context"
	"sort"
	"sync"
)

type memoryStore struct {
	mu     sync.RWMutex
	drafts map[string]Draft
}

func NewMemoryStore() Store {
	return &memoryStore{drafts: map[string]Draft{}}
}

func (m *memoryStore) PutDraft(_ context.Context, d Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// submitted_at only moves through MarkSubmitted
	d.SubmittedAt = m.drafts[d.ID].SubmittedAt
	m.drafts[d.ID] = d
	return nil
}

func (m *memoryStore) GetDraft(_ context.Context, id string) (Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drafts[id]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return d, nil
}

func (m *memoryStore) ListDrafts(_ context.Context, owner string) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Summary{}
	for _, d := range m.drafts {
		if owner != "" && d.Owner != owner {
			continue
		}
		out = append(out, summarize(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt != out[j].UpdatedAt {
			return out[i].UpdatedAt > out[j].UpdatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memoryStore) DeleteDraft(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drafts[id]; !ok {
		return ErrNotFound
	}
	delete(m.drafts, id)
	return nil
}

func (m *memoryStore) MarkSubmitted(_ context.Context, id string, at int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return ErrNotFound
	}
	d.SubmittedAt = at
	m.drafts[id] = d
	return nil
}

func summarize(d Draft) Summary {
	return Summary{ID: d.ID, Owner: d.Owner, Sections: len(d.Form), UpdatedAt: d.UpdatedAt, SubmittedAt: d.SubmittedAt}
}
