// Package promotion implements the entity promoter: weight
// accumulation, tier derivation, demotion, and retroactive promotion
// (spec §4.5), ported from
// original_source/storyteller-core/src/promotion/weight.rs and
// tier.rs.
package promotion

import (
	"github.com/kittclouds/storyweave/pkg/entity"
	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/mention"
	"github.com/kittclouds/storyweave/pkg/reference"
)

// RefKey computes the partner-deduplication key for a reference:
// Resolved -> its entity id string; Unresolved -> "unresolved:" + the
// normalised mention; Implicit -> "implicit:" + the normalised implied
// noun.
func RefKey(r reference.Reference) string {
	switch r.Variant() {
	case reference.VariantResolved:
		eid, _ := r.EntityID()
		return eid.String()
	case reference.VariantUnresolved:
		m, _, _ := r.Mention()
		return "unresolved:" + mention.Normalize(m)
	case reference.VariantImplicit:
		noun, _, _ := r.Implied()
		return "implicit:" + mention.Normalize(noun)
	default:
		return ""
	}
}

// Weight is the accumulated weight and counts computed for a single
// entity across an atom sequence.
type Weight struct {
	TotalWeight       float64
	EventCount        int
	RelationshipCount int
}

// ComputeWeight implements spec §4.5's weight computation. trackedKey
// identifies the entity (via RefKey); playerKey identifies the player
// entity, or "" if there is none to special-case.
func ComputeWeight(trackedKey string, atoms []event.Atom, playerKey string, playerMultiplier float64) Weight {
	eventIDs := make(map[id.ID]struct{})
	partnerKeys := make(map[string]struct{})
	var totalWeight, playerWeight float64

	for _, atom := range atoms {
		participates := entityIsParticipant(trackedKey, atom)

		var eventWeightSum float64
		appearsInImplications := false
		for _, impl := range atom.Implications {
			srcKey := RefKey(impl.Source)
			tgtKey := RefKey(impl.Target)
			if srcKey != trackedKey && tgtKey != trackedKey {
				continue
			}
			appearsInImplications = true
			eventWeightSum += impl.Weight
			if srcKey == trackedKey {
				partnerKeys[tgtKey] = struct{}{}
			} else {
				partnerKeys[srcKey] = struct{}{}
			}
		}

		if !participates && !appearsInImplications {
			continue
		}

		eventIDs[atom.ID] = struct{}{}
		totalWeight += eventWeightSum

		isPlayerEvent := atom.Provenance.Kind == event.ProvenancePlayerInput
		if playerKey != "" && (isPlayerEvent || entityIsParticipant(playerKey, atom)) {
			playerWeight += eventWeightSum * playerMultiplier
		}
	}

	return Weight{
		TotalWeight:       totalWeight + playerWeight,
		EventCount:        len(eventIDs),
		RelationshipCount: len(partnerKeys),
	}
}

func entityIsParticipant(key string, atom event.Atom) bool {
	for _, p := range atom.Participants {
		if RefKey(p.Reference) == key {
			return true
		}
	}
	return false
}

// tierFromWeight derives the tier implied purely by accumulated weight
// and event count, before floor/current clamping.
func tierFromWeight(totalWeight float64, eventCount int) entity.Tier {
	switch {
	case totalWeight >= 2.0 && eventCount >= 3:
		return entity.TierPersistent
	case totalWeight >= 0.5:
		return entity.TierTracked
	case totalWeight > 0.0:
		return entity.TierReferenced
	case eventCount > 0:
		return entity.TierMentioned
	default:
		return entity.TierUnmentioned
	}
}

// DetermineTier computes `max(weight_derived_tier, authored_floor,
// current)`, satisfying spec invariant 2: computed >= current >=
// authored_floor.
func DetermineTier(w Weight, current, authoredFloor entity.Tier) entity.Tier {
	computed := tierFromWeight(w.TotalWeight, w.EventCount)
	return entity.Max(entity.Max(computed, authoredFloor), current)
}
