package promotion

import (
	"testing"

	"github.com/kittclouds/storyweave/pkg/entity"
	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/mention"
	"github.com/kittclouds/storyweave/pkg/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atomWithImplication(scene id.ID, entityRef, partnerRef reference.Reference, weight float64, playerSourced bool) event.Atom {
	prov := event.Provenance{Kind: event.ProvenanceSystem}
	if playerSourced {
		prov = event.Provenance{Kind: event.ProvenancePlayerInput}
	}
	return event.Atom{
		ID:    id.New(),
		Scene: scene,
		Participants: []event.Participant{
			{Reference: entityRef, Role: event.RoleActor},
			{Reference: partnerRef, Role: event.RoleTarget},
		},
		Implications: []event.Implication{
			{Source: entityRef, Target: partnerRef, Type: event.ImplicationAttention, Weight: weight},
		},
		Provenance: prov,
	}
}

func TestComputeWeightBasic(t *testing.T) {
	scene := id.New()
	entityRef := reference.Resolved(id.New())
	partner1 := reference.Resolved(id.New())
	partner2 := reference.Resolved(id.New())

	atoms := []event.Atom{
		atomWithImplication(scene, entityRef, partner1, 0.5, false),
		atomWithImplication(scene, entityRef, partner2, 0.7, false),
	}

	w := ComputeWeight(RefKey(entityRef), atoms, "", 0)
	assert.InDelta(t, 1.2, w.TotalWeight, 1e-9)
	assert.Equal(t, 2, w.EventCount)
	assert.Equal(t, 2, w.RelationshipCount)
}

// Matches the original test suite's player-multiplier assertion:
// base 0.4 + 0.4*2.0 = 0.8 -> total 1.2.
func TestComputeWeightPlayerMultiplier(t *testing.T) {
	scene := id.New()
	entityRef := reference.Resolved(id.New())
	playerRef := reference.Resolved(id.New())

	atom := atomWithImplication(scene, entityRef, playerRef, 0.4, false)
	w := ComputeWeight(RefKey(entityRef), []event.Atom{atom}, RefKey(playerRef), 2.0)

	assert.InDelta(t, 1.2, w.TotalWeight, 1e-9)
}

func TestComputeWeightPlayerSourcedAtomCounts(t *testing.T) {
	scene := id.New()
	entityRef := reference.Resolved(id.New())
	other := reference.Resolved(id.New())
	playerRef := reference.Resolved(id.New())

	atom := atomWithImplication(scene, entityRef, other, 0.4, true)
	w := ComputeWeight(RefKey(entityRef), []event.Atom{atom}, RefKey(playerRef), 2.0)

	// atom's source is PlayerInput even though player isn't a participant.
	assert.InDelta(t, 1.2, w.TotalWeight, 1e-9)
}

// S2 — Tier promotion scenario from spec §8.
func TestTierPromotionScenarioS2(t *testing.T) {
	w := Weight{TotalWeight: 2.2, EventCount: 4, RelationshipCount: 3}
	tier := DetermineTier(w, entity.TierUnmentioned, entity.TierUnmentioned)
	assert.Equal(t, entity.TierPersistent, tier)
}

func TestDetermineTierNeverBelowCurrentOrFloor(t *testing.T) {
	w := Weight{TotalWeight: 0, EventCount: 0}
	tier := DetermineTier(w, entity.TierTracked, entity.TierReferenced)
	assert.Equal(t, entity.TierTracked, tier)
}

func TestDetermineTierThresholds(t *testing.T) {
	assert.Equal(t, entity.TierTracked, DetermineTier(Weight{TotalWeight: 0.5, EventCount: 1}, entity.TierUnmentioned, entity.TierUnmentioned))
	assert.Equal(t, entity.TierReferenced, DetermineTier(Weight{TotalWeight: 0.1, EventCount: 1}, entity.TierUnmentioned, entity.TierUnmentioned))
	assert.Equal(t, entity.TierMentioned, DetermineTier(Weight{TotalWeight: 0, EventCount: 1}, entity.TierUnmentioned, entity.TierUnmentioned))
	assert.Equal(t, entity.TierUnmentioned, DetermineTier(Weight{}, entity.TierUnmentioned, entity.TierUnmentioned))
}

func TestEvaluateDemotionSteps(t *testing.T) {
	thresholds := DemotionThresholds{ScenesWithoutParticipation: 3, TurnsWithoutParticipation: 5}

	tier := EvaluateDemotion(entity.TierPersistent, entity.TierUnmentioned, 3, 0, thresholds)
	assert.Equal(t, entity.TierTracked, tier)

	tier = EvaluateDemotion(entity.TierTracked, entity.TierUnmentioned, 0, 5, thresholds)
	assert.Equal(t, entity.TierReferenced, tier)
}

func TestEvaluateDemotionNeverBelowReferencedOrFloor(t *testing.T) {
	thresholds := DemotionThresholds{ScenesWithoutParticipation: 1, TurnsWithoutParticipation: 1}
	tier := EvaluateDemotion(entity.TierTracked, entity.TierTracked, 10, 10, thresholds)
	assert.Equal(t, entity.TierTracked, tier)
}

func TestPromoteProducesResolutionRecords(t *testing.T) {
	idx := mention.New()
	atomA := id.New()
	idx.Insert(mention.Unresolved{AtomID: atomA, Text: "the cup", Turn: 1})

	eid := id.New()
	records := Promote(idx, eid, "cup")

	require.Len(t, records, 1)
	assert.Equal(t, eid, records[0].ResolvedTo)
	assert.True(t, idx.IsEmpty())
}
