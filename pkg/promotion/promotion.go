package promotion

import (
	"github.com/kittclouds/storyweave/pkg/entity"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/mention"
)

// DemotionThresholds configures how many scene/turn cycles of
// non-participation trigger each demotion step.
type DemotionThresholds struct {
	ScenesWithoutParticipation int // Persistent -> Tracked after N scenes
	TurnsWithoutParticipation  int // Tracked -> Referenced after M turns
}

// EvaluateDemotion applies spec §4.5's demotion rule: Persistent ->
// Tracked after N scenes without participation; Tracked -> Referenced
// after M turns without participation; never below Referenced or below
// the authored floor.
func EvaluateDemotion(current, authoredFloor entity.Tier, scenesSince, turnsSince int, thresholds DemotionThresholds) entity.Tier {
	next := current

	if next == entity.TierPersistent && scenesSince >= thresholds.ScenesWithoutParticipation {
		next = entity.TierTracked
	}
	if next == entity.TierTracked && turnsSince >= thresholds.TurnsWithoutParticipation {
		next = entity.TierReferenced
	}

	floor := entity.Max(entity.TierReferenced, authoredFloor)
	if next < floor {
		next = floor
	}
	return next
}

// Promote removes every mention under text's normalised key from idx
// and returns the resulting resolution records, per spec §4.5's
// retroactive-promotion operation. It is the entry point promoter
// callers use when an Unresolved mention first becomes a tracked
// entity.
func Promote(idx *mention.Index, entityID id.ID, text string) []mention.ResolutionRecord {
	return mention.RetroactivelyPromote(idx, entityID, text)
}
