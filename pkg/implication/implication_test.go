package implication

import (
	"testing"

	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actorTargetParticipants() []event.Participant {
	actor := reference.Resolved(id.New())
	target := reference.Resolved(id.New())
	return []event.Participant{
		{Reference: actor, Role: event.RoleActor},
		{Reference: target, Role: event.RoleTarget},
	}
}

func TestSpeechActEmitsAttentionAndInformationSharing(t *testing.T) {
	implications := Infer(event.KindSpeechAct, actorTargetParticipants(), 1.0, 0)
	require.Len(t, implications, 2)
	assert.Equal(t, event.ImplicationAttention, implications[0].Type)
	assert.InDelta(t, 0.3, implications[0].Weight, 1e-9)
	assert.Equal(t, event.ImplicationInformationSharing, implications[1].Type)
	assert.InDelta(t, 0.5, implications[1].Weight, 1e-9)
}

func TestConfidenceScalesWeight(t *testing.T) {
	implications := Infer(event.KindSpeechAct, actorTargetParticipants(), 0.5, 0)
	require.Len(t, implications, 2)
	assert.InDelta(t, 0.15, implications[0].Weight, 1e-9)
}

func TestNoTargetIsSelfReferential(t *testing.T) {
	actor := reference.Resolved(id.New())
	participants := []event.Participant{{Reference: actor, Role: event.RoleActor}}

	implications := Infer(event.KindEmotionalExpression, participants, 1.0, 0)
	require.Len(t, implications, 1)
	assert.True(t, implications[0].Source.Equal(implications[0].Target))
}

func TestRelationalShiftUsesDeltaAsDirection(t *testing.T) {
	implications := Infer(event.KindRelationalShift, actorTargetParticipants(), 1.0, -0.3)
	require.Len(t, implications, 1)
	assert.Equal(t, event.ImplicationTrustSignal, implications[0].Type)
	assert.InDelta(t, -0.3, implications[0].Direction, 1e-9)
	assert.InDelta(t, 1.0, implications[0].Weight, 1e-9)
}

func TestStateAssertionEmitsNone(t *testing.T) {
	implications := Infer(event.KindStateAssertion, actorTargetParticipants(), 1.0, 0)
	assert.Empty(t, implications)
}

func TestActionOccurrenceEmitsThree(t *testing.T) {
	implications := Infer(event.KindActionOccurrence, actorTargetParticipants(), 1.0, 0)
	require.Len(t, implications, 3)
}

func TestAssignRolesFirstCharacterActorSecondTarget(t *testing.T) {
	refs := []CategorizedReference{
		{Reference: reference.Resolved(id.New()), Category: CategoryCharacter},
		{Reference: reference.Resolved(id.New()), Category: CategoryCharacter},
		{Reference: reference.Resolved(id.New()), Category: CategoryCharacter},
		{Reference: reference.Resolved(id.New()), Category: CategoryObject},
		{Reference: reference.Resolved(id.New()), Category: CategoryLocation},
		{Reference: reference.Resolved(id.New()), Category: CategoryOther},
	}

	participants := AssignRoles(refs)
	require.Len(t, participants, 6)
	assert.Equal(t, event.RoleActor, participants[0].Role)
	assert.Equal(t, event.RoleTarget, participants[1].Role)
	assert.Equal(t, event.RoleTarget, participants[2].Role)
	assert.Equal(t, event.RoleInstrument, participants[3].Role)
	assert.Equal(t, event.RoleLocation, participants[4].Role)
	assert.Equal(t, event.RoleWitness, participants[5].Role)
}
