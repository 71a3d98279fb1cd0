// Package implication implements the deterministic
// (event kind × roles) -> relational implications inferrer (spec §4.7),
// ported from
// original_source/storyteller-core/src/types/implication.rs.
package implication

import (
	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/reference"
)

type weightEntry struct {
	kind      event.ImplicationType
	base      float64
	valence   float64
	direction float64
}

// table maps an event kind to the implications emitted for each
// Actor->Target pair. RelationalShift's TrustSignal direction is filled
// in from the atom's delta at inference time, not from this table.
var table = map[event.Kind][]weightEntry{
	event.KindSpeechAct: {
		{kind: event.ImplicationAttention, base: 0.3},
		{kind: event.ImplicationInformationSharing, base: 0.5},
	},
	event.KindActionOccurrence: {
		{kind: event.ImplicationAttention, base: 0.3},
		{kind: event.ImplicationPossession, base: 0.5},
		{kind: event.ImplicationProximity, base: 0.2},
	},
	event.KindSpatialChange: {
		{kind: event.ImplicationProximity, base: 0.2},
	},
	event.KindEmotionalExpression: {
		{kind: event.ImplicationEmotionalConnection, base: 0.6, valence: 0},
	},
	event.KindInformationTransfer: {
		{kind: event.ImplicationInformationSharing, base: 0.5},
		{kind: event.ImplicationTrustSignal, base: 0.7, direction: 0.5},
	},
	event.KindRelationalShift: {
		{kind: event.ImplicationTrustSignal, base: 1.0}, // direction filled from delta
	},
	// StateAssertion, EnvironmentalChange, SceneLifecycle, EntityLifecycle: none.
}

// Infer computes the relational implications for an atom's participants.
// relationDelta is only consulted for KindRelationalShift, supplying the
// TrustSignal direction.
func Infer(kind event.Kind, participants []event.Participant, confidence, relationDelta float64) []event.Implication {
	entries, ok := table[kind]
	if !ok || len(entries) == 0 {
		return nil
	}

	pairs := actorTargetPairs(participants)
	if len(pairs) == 0 {
		return nil
	}

	var out []event.Implication
	for _, pair := range pairs {
		for _, e := range entries {
			direction := e.direction
			if kind == event.KindRelationalShift {
				direction = relationDelta
			}
			out = append(out, event.Implication{
				Source:    pair.source.Reference,
				Target:    pair.target.Reference,
				Type:      e.kind,
				Weight:    e.base * confidence,
				Valence:   e.valence,
				Direction: direction,
			})
		}
	}
	return out
}

type actorTargetPair struct {
	source event.Participant
	target event.Participant
}

// actorTargetPairs builds the Actor->Target pairs an atom's implications
// apply to. When no Target exists but at least one Actor does, the
// pairs are self-referential (Actor->Actor), per spec §4.7.
func actorTargetPairs(participants []event.Participant) []actorTargetPair {
	var actors, targets []event.Participant
	for _, p := range participants {
		switch p.Role {
		case event.RoleActor:
			actors = append(actors, p)
		case event.RoleTarget:
			targets = append(targets, p)
		}
	}

	if len(actors) == 0 {
		return nil
	}

	if len(targets) == 0 {
		pairs := make([]actorTargetPair, 0, len(actors))
		for _, a := range actors {
			pairs = append(pairs, actorTargetPair{source: a, target: a})
		}
		return pairs
	}

	pairs := make([]actorTargetPair, 0, len(actors)*len(targets))
	for _, a := range actors {
		for _, tgt := range targets {
			pairs = append(pairs, actorTargetPair{source: a, target: tgt})
		}
	}
	return pairs
}

// AssignRoles assigns participant roles from an unordered list of
// (reference, category) per spec §4.7: first Character -> Actor, second
// Character -> Target, subsequent Characters -> Target; Object ->
// Instrument; Location -> Location; Other -> Witness.
func AssignRoles(refs []CategorizedReference) []event.Participant {
	out := make([]event.Participant, 0, len(refs))
	characterCount := 0
	for _, r := range refs {
		var role event.Role
		switch r.Category {
		case CategoryCharacter:
			characterCount++
			if characterCount == 1 {
				role = event.RoleActor
			} else {
				role = event.RoleTarget
			}
		case CategoryObject:
			role = event.RoleInstrument
		case CategoryLocation:
			role = event.RoleLocation
		default:
			role = event.RoleWitness
		}
		out = append(out, event.Participant{Reference: r.Reference, Role: role})
	}
	return out
}

// Category is the simplified entity category used for role assignment,
// ported from original_source's EntityCategory
// (Character/Object/Location/Other).
type Category int

const (
	CategoryCharacter Category = iota
	CategoryObject
	CategoryLocation
	CategoryOther
)

// CategorizedReference pairs a reference with its entity category, the
// input shape AssignRoles consumes.
type CategorizedReference struct {
	Reference reference.Reference
	Category  Category
}
