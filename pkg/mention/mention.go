// Package mention implements the in-memory normalised-text index of
// unresolved entity mentions (spec §4.4) and retroactive promotion
// (spec §4.5), ported from
// original_source/storyteller-core/src/promotion/mention_index.rs.
package mention

import (
	"strings"
	"sync"

	"github.com/kittclouds/storyweave/pkg/id"
)

var articles = []string{"the ", "a ", "an "}

// Normalize lower-cases, trims, and strips a single leading article
// ("the", "a", "an") only if a non-empty remainder exists after
// stripping. Idempotent (Normalize(Normalize(s)) == Normalize(s)) unless
// s starts with two articles: "the a cup" normalises to "a cup", which
// normalises again to "cup".
func Normalize(s string) string {
	out := strings.ToLower(strings.TrimSpace(s))
	for _, article := range articles {
		if strings.HasPrefix(out, article) {
			remainder := strings.TrimSpace(out[len(article):])
			if remainder != "" {
				return remainder
			}
		}
	}
	return out
}

// Unresolved records one occurrence of an unresolved mention: which
// atom and participant slot it came from, the original (non-normalised)
// text, and the turn it was first seen in.
type Unresolved struct {
	AtomID           id.ID
	ParticipantIndex int
	Text             string
	Turn             uint32
}

// ResolutionRecord carries (atom id, participant index, original
// mention, resolved-to entity, turn) produced when a mention is removed
// from the index by retroactive promotion. Atoms are never mutated;
// records are a side table additive to the ledger.
type ResolutionRecord struct {
	AtomID           id.ID
	ParticipantIndex int
	OriginalMention  string
	ResolvedTo       id.ID
	MentionTurn      uint32
}

// Index is the normalised-text mention index. Every unresolved mention
// is present exactly once until resolved (spec invariant 3).
type Index struct {
	mu      sync.Mutex
	byKey   map[string][]Unresolved
	keyOrder []string
}

// New constructs an empty mention index.
func New() *Index {
	return &Index{byKey: make(map[string][]Unresolved)}
}

// Insert keys mention by its normalised text, preserving insertion order
// within a key.
func (idx *Index) Insert(mention Unresolved) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	key := Normalize(mention.Text)
	if _, ok := idx.byKey[key]; !ok {
		idx.keyOrder = append(idx.keyOrder, key)
	}
	idx.byKey[key] = append(idx.byKey[key], mention)
}

// Lookup returns all mentions sharing text's normalised key.
func (idx *Index) Lookup(text string) []Unresolved {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	key := Normalize(text)
	entries := idx.byKey[key]
	out := make([]Unresolved, len(entries))
	copy(out, entries)
	return out
}

// Remove atomically removes and returns all mentions under text's key.
func (idx *Index) Remove(text string) []Unresolved {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	key := Normalize(text)
	entries := idx.byKey[key]
	delete(idx.byKey, key)
	idx.removeKeyOrder(key)
	return entries
}

func (idx *Index) removeKeyOrder(key string) {
	for i, k := range idx.keyOrder {
		if k == key {
			idx.keyOrder = append(idx.keyOrder[:i], idx.keyOrder[i+1:]...)
			return
		}
	}
}

// Len returns the total number of distinct normalised keys currently
// indexed.
func (idx *Index) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.byKey)
}

// IsEmpty reports whether the index holds no keys.
func (idx *Index) IsEmpty() bool {
	return idx.Len() == 0
}

// RetroactivelyPromote removes every mention under text's normalised key
// from idx and returns one ResolutionRecord per removed mention. It does
// not mutate any ledger atom; the records are additive side-table
// entries.
func RetroactivelyPromote(idx *Index, entityID id.ID, text string) []ResolutionRecord {
	removed := idx.Remove(text)
	records := make([]ResolutionRecord, 0, len(removed))
	for _, m := range removed {
		records = append(records, ResolutionRecord{
			AtomID:           m.AtomID,
			ParticipantIndex: m.ParticipantIndex,
			OriginalMention:  m.Text,
			ResolvedTo:       entityID,
			MentionTurn:      m.Turn,
		})
	}
	return records
}
