package sequencer

import (
	"context"
	"testing"

	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/prediction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func characterPrediction(name string, characterID id.ID, confidence float64, target id.ID, hasTarget bool) prediction.EnrichedPrediction {
	return prediction.EnrichedPrediction{
		CharacterID:   characterID,
		CharacterName: name,
		Actions: []prediction.Action{
			{Description: name + " acts", Confidence: confidence, Target: target, HasTarget: hasTarget},
		},
	}
}

func TestSequenceOrdersByDescendingConfidence(t *testing.T) {
	low := characterPrediction("Low", id.New(), 0.3, id.Nil, false)
	high := characterPrediction("High", id.New(), 0.9, id.Nil, false)

	out, err := NewDefault().Sequence(context.Background(), []prediction.EnrichedPrediction{low, high})
	require.NoError(t, err)
	require.Len(t, out.SequencedActions, 2)
	assert.Equal(t, "High", out.SequencedActions[0].CharacterName)
	assert.Equal(t, "Low", out.SequencedActions[1].CharacterName)
}

func TestSequenceDetectsSameTargetConflict(t *testing.T) {
	target := id.New()
	first := characterPrediction("Mara", id.New(), 0.9, target, true)
	second := characterPrediction("Pyotir", id.New(), 0.6, target, true)

	out, err := NewDefault().Sequence(context.Background(), []prediction.EnrichedPrediction{first, second})
	require.NoError(t, err)
	require.Len(t, out.Conflicts, 1)
	assert.True(t, out.Conflicts[0].HasWinner)

	// Pyotir (lower confidence) collides with Mara who already claimed the target.
	require.Len(t, out.SequencedActions, 2)
	assert.Equal(t, "Pyotir", out.SequencedActions[1].CharacterName)
	assert.Equal(t, PartialSuccess, out.SequencedActions[1].Outcomes[0].Success)
}

func TestSequenceNoConflictWhenTargetsDiffer(t *testing.T) {
	a := characterPrediction("A", id.New(), 0.8, id.New(), true)
	b := characterPrediction("B", id.New(), 0.7, id.New(), true)

	out, err := NewDefault().Sequence(context.Background(), []prediction.EnrichedPrediction{a, b})
	require.NoError(t, err)
	assert.Empty(t, out.Conflicts)
}

func TestDegreeForThresholds(t *testing.T) {
	assert.Equal(t, FullSuccess, degreeFor(0.9))
	assert.Equal(t, PartialSuccess, degreeFor(0.6))
	assert.Equal(t, FailureWithOpportunity, degreeFor(0.3))
	assert.Equal(t, FailureWithConsequence, degreeFor(0.1))
}

func TestSceneDynamicsEmptyScene(t *testing.T) {
	out, err := NewDefault().Sequence(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "The scene holds still; no one acts.", out.SceneDynamics)
	assert.Empty(t, out.SequencedActions)
}

func TestOriginalPredictionsPreserved(t *testing.T) {
	p := characterPrediction("Mara", id.New(), 0.5, id.Nil, false)
	out, err := NewDefault().Sequence(context.Background(), []prediction.EnrichedPrediction{p})
	require.NoError(t, err)
	require.Len(t, out.OriginalPredictions, 1)
	assert.Equal(t, "Mara", out.OriginalPredictions[0].CharacterName)
}
