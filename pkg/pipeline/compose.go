package pipeline

import (
	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/promotion"
)

// causalPatterns names the ordered (cause, effect) event-kind pairs the
// commit-previous composition step treats as causally linked (spec
// §4.11). The source corpus's event_composition.rs documents the
// Causal-vs-Temporal distinction but its concrete pattern table was not
// present in the retrieved excerpt; this table is this implementation's
// own decision (recorded in DESIGN.md), built from the same
// cause-plausibly-precedes-effect reading the spec's prose describes:
// an action or utterance plausibly causing a downstream emotional,
// relational, or state change; movement plausibly preceding the action
// it enables.
var causalPatterns = map[[2]event.Kind]bool{
	{event.KindActionOccurrence, event.KindEmotionalExpression}: true,
	{event.KindActionOccurrence, event.KindStateAssertion}:       true,
	{event.KindActionOccurrence, event.KindRelationalShift}:      true,
	{event.KindSpeechAct, event.KindRelationalShift}:             true,
	{event.KindSpeechAct, event.KindEmotionalExpression}:         true,
	{event.KindInformationTransfer, event.KindRelationalShift}:   true,
	{event.KindInformationTransfer, event.KindEmotionalExpression}: true,
	{event.KindEmotionalExpression, event.KindRelationalShift}:   true,
	{event.KindSpatialChange, event.KindActionOccurrence}:        true,
	{event.KindEnvironmentalChange, event.KindEmotionalExpression}: true,
}

// detectedCompound is one compound the commit step should record.
type detectedCompound struct {
	first, second id.ID
	composition   event.CompositionType
}

// detectCompounds walks every ordered pair (atoms are already in
// classification/append order) and classifies it Causal, Temporal, or
// neither. Causal outranks Temporal when both apply to the same pair.
func detectCompounds(atoms []event.Atom) []detectedCompound {
	var out []detectedCompound
	for i := 0; i < len(atoms); i++ {
		for j := i + 1; j < len(atoms); j++ {
			a, b := atoms[i], atoms[j]
			if !sharesActorOrTarget(a, b) {
				continue
			}
			composition := event.CompositionTemporal
			if causalPatterns[[2]event.Kind{a.Kind, b.Kind}] {
				composition = event.CompositionCausal
			}
			out = append(out, detectedCompound{first: a.ID, second: b.ID, composition: composition})
		}
	}
	return out
}

// sharesActorOrTarget reports whether a and b have at least one
// Actor/Target participant in common, by reference identity key.
func sharesActorOrTarget(a, b event.Atom) bool {
	aKeys := make(map[string]struct{})
	for _, p := range a.Participants {
		if p.Role == event.RoleActor || p.Role == event.RoleTarget {
			aKeys[promotion.RefKey(p.Reference)] = struct{}{}
		}
	}
	for _, p := range b.Participants {
		if p.Role != event.RoleActor && p.Role != event.RoleTarget {
			continue
		}
		if _, ok := aKeys[promotion.RefKey(p.Reference)]; ok {
			return true
		}
	}
	return false
}
