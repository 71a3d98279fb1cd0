// Package ledger implements the append-only, typed, time-ordered record
// of narrative events. Its operation shape is adapted from the teacher
// repo's internal/store.Storer interface (note/entity/edge CRUD with a
// temporal valid_from/valid_to pattern), generalized from mutable notes
// to immutable atoms: there is no update operation, only append and
// scan.
package ledger

import (
	"sort"
	"sync"

	"github.com/kittclouds/storyweave/pkg/engineerr"
	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/id"
)

// Ledger is a per-scene append-only store of atoms and compounds. It is
// owned exclusively by the pipeline (spec §5); nothing else holds a
// long-lived handle to it.
type Ledger struct {
	mu        sync.RWMutex
	closed    map[id.ID]bool
	atoms     []event.Atom
	atomIndex map[id.ID]int
	compounds []event.Compound
}

// New constructs an empty ledger.
func New() *Ledger {
	return &Ledger{
		closed:    make(map[id.ID]bool),
		atomIndex: make(map[id.ID]int),
	}
}

// Append inserts atom in order. Fails with KindLedgerClosed if the
// atom's scene has been finalised.
func (l *Ledger) Append(atom event.Atom) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed[atom.Scene] {
		return engineerr.New(engineerr.KindLedgerClosed, "scene "+atom.Scene.String()+" is finalised")
	}

	l.atomIndex[atom.ID] = len(l.atoms)
	l.atoms = append(l.atoms, atom)
	return nil
}

// AppendCompound records a compound relating atomIDs. Fails with
// KindUnknownAtom if any atom id is not present in the ledger.
func (l *Ledger) AppendCompound(atomIDs []id.ID, kind event.CompositionType) (event.Compound, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, aid := range atomIDs {
		if _, ok := l.atomIndex[aid]; !ok {
			return event.Compound{}, engineerr.New(engineerr.KindUnknownAtom, "atom "+aid.String()+" not found")
		}
	}

	compound := event.Compound{
		ID:          id.New(),
		AtomIDs:     append([]id.ID(nil), atomIDs...),
		Composition: kind,
	}
	l.compounds = append(l.compounds, compound)
	return compound, nil
}

// Close finalises scene, rejecting further appends to it with
// KindLedgerClosed.
func (l *Ledger) Close(scene id.ID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed[scene] = true
}

// Scan returns all atoms for scene in identifier order. Never yields
// duplicates or mutated values: the returned slice is a copy.
func (l *Ledger) Scan(scene id.ID) []event.Atom {
	return l.scan(scene, nil)
}

// ScanTurn returns all atoms for (scene, turn) in identifier order.
func (l *Ledger) ScanTurn(scene id.ID, turn uint32) []event.Atom {
	return l.scan(scene, &turn)
}

func (l *Ledger) scan(scene id.ID, turn *uint32) []event.Atom {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []event.Atom
	for _, a := range l.atoms {
		if a.Scene != scene {
			continue
		}
		if turn != nil && a.Turn != *turn {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Less(out[j].ID) })
	return out
}

// AtomByID looks up a single atom by identifier. Returns false if not
// present.
func (l *Ledger) AtomByID(aid id.ID) (event.Atom, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	idx, ok := l.atomIndex[aid]
	if !ok {
		return event.Atom{}, false
	}
	return l.atoms[idx], true
}

// Compounds returns every recorded compound, in append order.
func (l *Ledger) Compounds() []event.Compound {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]event.Compound, len(l.compounds))
	copy(out, l.compounds)
	return out
}
