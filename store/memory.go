package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	dossiers map[string]*Dossier

	// now is swappable so tests get deterministic timestamps.
	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{dossiers: make(map[string]*Dossier), now: time.Now}
}

func (m *Memory) Save(_ context.Context, d *Dossier) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := cloneDossier(d)
	stored.UpdatedAt = m.now()
	if existing, ok := m.dossiers[d.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = stored.UpdatedAt
	}
	m.dossiers[d.ID] = stored

	d.CreatedAt = stored.CreatedAt
	d.UpdatedAt = stored.UpdatedAt
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*Dossier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.dossiers[id]
	if !ok {
		return nil, ErrDossierNotFound
	}
	return cloneDossier(d), nil
}

func (m *Memory) List(_ context.Context) ([]*Dossier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Dossier, 0, len(m.dossiers))
	for _, d := range m.dossiers {
		out = append(out, cloneDossier(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.dossiers[id]; !ok {
		return ErrDossierNotFound
	}
	delete(m.dossiers, id)
	return nil
}

// cloneDossier copies the dossier so callers cannot mutate stored state.
func cloneDossier(d *Dossier) *Dossier {
	c := *d
	c.Events = append(d.Events[:0:0], d.Events...)
	return &c
}
