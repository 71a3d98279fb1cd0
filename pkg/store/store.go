// Package store provides durable persistence for the narrative ledger,
// entity tier board, and per-turn resolution records behind a single
// Storer interface. Adapted wholesale from the teacher's
// internal/store.Storer interface + SQLiteStore implementation
// (note/entity/edge/thread domain), generalized to this engine's
// atom/compound/entity/resolution-record domain per spec §1's "in-memory
// with an interface shape suitable for backing by a transactional store"
// requirement. Nothing in pkg/pipeline requires a Storer — the ledger,
// journal, and tier board it owns are already in-memory and sufficient
// on their own; a Storer is an optional write-behind sink a caller can
// attach for durability or cross-process inspection.
package store

import (
	"github.com/kittclouds/storyweave/pkg/entity"
	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/sequencer"
)

// Storer defines the interface for durable persistence of everything the
// turn pipeline produces. It mirrors the teacher's Storer shape (CRUD
// grouped by table, a final Close) with each group renamed to this
// engine's domain: atoms and compounds are append-only (ledger content
// is immutable, spec §4.4), entities are upserted (the promoter mutates
// tier in place), and resolutions are one record per scene/turn.
type Storer interface {
	// Atoms - append-only, per scene.
	AppendAtom(scene id.ID, atom event.Atom) error
	ListAtoms(scene id.ID) ([]event.Atom, error)
	CountAtoms(scene id.ID) (int, error)

	// Compounds - append-only, per scene.
	AppendCompound(scene id.ID, compound event.Compound) error
	ListCompounds(scene id.ID) ([]event.Compound, error)

	// Entities - the promoter's tier board, mutated in place.
	UpsertEntity(e entity.Entity) error
	GetEntity(entityID id.ID) (*entity.Entity, error)
	ListEntities() ([]entity.Entity, error)
	DeleteEntity(entityID id.ID) error
	CountEntities() (int, error)

	// Resolutions - one sequencer output per scene/turn, overwritten if
	// a turn is re-resolved (it is not, in the current pipeline, but the
	// shape allows it).
	RecordResolution(scene id.ID, turn uint32, out sequencer.Output) error
	GetResolution(scene id.ID, turn uint32) (*sequencer.Output, error)
	ListResolutions(scene id.ID) ([]sequencer.Output, error)

	// Close releases any held resources (file handles, connections).
	Close() error
}
