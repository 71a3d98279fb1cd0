// Package sequencer implements the built-in turn resolver: it sequences
// per-character predictions into initiative order, resolves same-target
// conflicts, and produces the ResolverOutput the context assembler and
// narrator prompt consume (spec §4.11 Resolving stage, §6 "Resolver").
// Ported from
// original_source/storyteller-core/src/types/resolver.rs, generalised
// from that file's hidden-RPG-mechanics sketch to a deterministic
// confidence-ordered sequencer — no dice, no attributes/skills table
// ships in the retrieved pack, so outcomes are derived from prediction
// confidence alone rather than invented mechanics.
package sequencer

import (
	"context"
	"sort"

	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/prediction"
)

// SuccessDegree is a graduated outcome for a resolved action.
type SuccessDegree int

const (
	FullSuccess SuccessDegree = iota
	PartialSuccess
	FailureWithConsequence
	FailureWithOpportunity
)

func (d SuccessDegree) String() string {
	switch d {
	case FullSuccess:
		return "full success"
	case PartialSuccess:
		return "partial success"
	case FailureWithConsequence:
		return "failure with consequence"
	case FailureWithOpportunity:
		return "failure with opportunity"
	default:
		return "unknown"
	}
}

// ActionOutcome is one character's resolved action.
type ActionOutcome struct {
	Action       prediction.Action
	Success      SuccessDegree
	Consequences []string
}

// ResolvedCharacterAction is a single character's resolved actions for
// the turn, in sequence.
type ResolvedCharacterAction struct {
	CharacterID   id.ID
	CharacterName string
	Outcomes      []ActionOutcome
}

// ConflictResolution records how a same-target conflict between two
// characters' actions was settled.
type ConflictResolution struct {
	Description string
	Resolution  string
	Winner      id.ID
	HasWinner   bool
}

// Output is the Resolver's complete output for a turn.
type Output struct {
	SequencedActions    []ResolvedCharacterAction
	OriginalPredictions []prediction.EnrichedPrediction
	SceneDynamics       string
	Conflicts           []ConflictResolution
}

// Sequencer is the capability reference the pipeline's Resolving stage
// holds; callers may substitute an external resolver for Default.
type Sequencer interface {
	Sequence(ctx context.Context, predictions []prediction.EnrichedPrediction) (Output, error)
}

// Default is the bundled, deterministic Sequencer.
type Default struct{}

func NewDefault() Default { return Default{} }

// Sequence orders predictions by descending action confidence
// (initiative order), resolves same-target conflicts in that order —
// the earlier (higher-confidence) actor wins, the later one degrades to
// PartialSuccess with a consequence noting the collision — and composes
// a one-line scene-dynamics summary from the number of participants and
// conflicts.
func (Default) Sequence(_ context.Context, predictions []prediction.EnrichedPrediction) (Output, error) {
	ordered := append([]prediction.EnrichedPrediction(nil), predictions...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return highestConfidence(ordered[i]) > highestConfidence(ordered[j])
	})

	claimedTargets := make(map[id.ID]id.ID) // target -> actor who claimed it first
	var sequenced []ResolvedCharacterAction
	var conflicts []ConflictResolution

	for _, p := range ordered {
		var outcomes []ActionOutcome
		for _, action := range p.Actions {
			outcome := ActionOutcome{Action: action, Success: degreeFor(action.Confidence)}

			if action.HasTarget {
				if priorActor, taken := claimedTargets[action.Target]; taken && priorActor != p.CharacterID {
					outcome.Success = PartialSuccess
					outcome.Consequences = append(outcome.Consequences,
						"the moment is already claimed; "+p.CharacterName+" must adapt")
					conflicts = append(conflicts, ConflictResolution{
						Description: p.CharacterName + " and another character converge on the same target",
						Resolution:  priorActor.String() + " acts first; " + p.CharacterName + " yields ground",
						Winner:      priorActor,
						HasWinner:   true,
					})
				} else {
					claimedTargets[action.Target] = p.CharacterID
				}
			}
			outcomes = append(outcomes, outcome)
		}
		sequenced = append(sequenced, ResolvedCharacterAction{
			CharacterID:   p.CharacterID,
			CharacterName: p.CharacterName,
			Outcomes:      outcomes,
		})
	}

	return Output{
		SequencedActions:    sequenced,
		OriginalPredictions: predictions,
		SceneDynamics:       sceneDynamics(len(ordered), len(conflicts)),
		Conflicts:           conflicts,
	}, nil
}

func highestConfidence(p prediction.EnrichedPrediction) float64 {
	best := 0.0
	for _, a := range p.Actions {
		if a.Confidence > best {
			best = a.Confidence
		}
	}
	return best
}

func degreeFor(confidence float64) SuccessDegree {
	switch {
	case confidence >= 0.75:
		return FullSuccess
	case confidence >= 0.5:
		return PartialSuccess
	case confidence >= 0.25:
		return FailureWithOpportunity
	default:
		return FailureWithConsequence
	}
}

func sceneDynamics(participantCount, conflictCount int) string {
	switch {
	case participantCount == 0:
		return "The scene holds still; no one acts."
	case conflictCount > 0:
		return "Several threads of intention collide this turn."
	case participantCount == 1:
		return "A single thread of action moves the scene forward."
	default:
		return "Multiple characters act in quiet parallel."
	}
}
