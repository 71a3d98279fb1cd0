package store

import (
	"sync"

	"github.com/kittclouds/storyweave/pkg/engineerr"
	"github.com/kittclouds/storyweave/pkg/entity"
	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/sequencer"
)

// MemoryStore is an in-process Storer, useful as the default when no
// durable backing is configured and as the fixture for tests that don't
// need a real SQLite file. Safe for concurrent use.
type MemoryStore struct {
	mu sync.RWMutex

	atoms     map[id.ID][]event.Atom
	compounds map[id.ID][]event.Compound
	entities  map[id.ID]entity.Entity

	resolutions map[resolutionKey]sequencer.Output
}

type resolutionKey struct {
	scene id.ID
	turn  uint32
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		atoms:       make(map[id.ID][]event.Atom),
		compounds:   make(map[id.ID][]event.Compound),
		entities:    make(map[id.ID]entity.Entity),
		resolutions: make(map[resolutionKey]sequencer.Output),
	}
}

func (m *MemoryStore) AppendAtom(scene id.ID, atom event.Atom) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.atoms[scene] = append(m.atoms[scene], atom)
	return nil
}

func (m *MemoryStore) ListAtoms(scene id.ID) ([]event.Atom, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]event.Atom(nil), m.atoms[scene]...), nil
}

func (m *MemoryStore) CountAtoms(scene id.ID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.atoms[scene]), nil
}

func (m *MemoryStore) AppendCompound(scene id.ID, compound event.Compound) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compounds[scene] = append(m.compounds[scene], compound)
	return nil
}

func (m *MemoryStore) ListCompounds(scene id.ID) ([]event.Compound, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]event.Compound(nil), m.compounds[scene]...), nil
}

func (m *MemoryStore) UpsertEntity(e entity.Entity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities[e.ID] = e
	return nil
}

func (m *MemoryStore) GetEntity(entityID id.ID) (*entity.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entities[entityID]
	if !ok {
		return nil, engineerr.New(engineerr.KindEntityNotFound, "entity "+entityID.String()+" not found in store")
	}
	return &e, nil
}

func (m *MemoryStore) ListEntities() ([]entity.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entity.Entity, 0, len(m.entities))
	for _, e := range m.entities {
		out = append(out, e)
	}
	return out, nil
}

func (m *MemoryStore) DeleteEntity(entityID id.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entities, entityID)
	return nil
}

func (m *MemoryStore) CountEntities() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entities), nil
}

func (m *MemoryStore) RecordResolution(scene id.ID, turn uint32, out sequencer.Output) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions[resolutionKey{scene, turn}] = out
	return nil
}

func (m *MemoryStore) GetResolution(scene id.ID, turn uint32) (*sequencer.Output, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out, ok := m.resolutions[resolutionKey{scene, turn}]
	if !ok {
		return nil, engineerr.New(engineerr.KindStore, "no resolution recorded for that scene/turn")
	}
	return &out, nil
}

func (m *MemoryStore) ListResolutions(scene id.ID) ([]sequencer.Output, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []sequencer.Output
	for k, v := range m.resolutions {
		if k.scene == scene {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
