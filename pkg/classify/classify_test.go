package classify

import (
	"context"
	"testing"

	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFindsCastMentions(t *testing.T) {
	mara := id.New()
	cast := []CastMember{{ID: mara, Name: "Mara"}}

	c := NewDefault()
	out, err := c.Classify(context.Background(), "Mara approached the old tower.", id.New(), cast)
	require.NoError(t, err)

	require.Len(t, out.Mentions, 1)
	assert.Equal(t, "Mara", out.Mentions[0].Text)
	assert.Equal(t, mara, out.Mentions[0].EntityID)
}

func TestClassifyAssignsActorRoleForPrecedingMention(t *testing.T) {
	mara := id.New()
	pyotir := id.New()
	cast := []CastMember{{ID: mara, Name: "Mara"}, {ID: pyotir, Name: "Pyotir"}}

	c := NewDefault()
	out, err := c.Classify(context.Background(), "Mara told Pyotir the truth.", id.New(), cast)
	require.NoError(t, err)

	require.NotEmpty(t, out.Events)
	ev := out.Events[0]
	assert.Equal(t, event.KindSpeechAct, ev.Kind)

	var actorFound, targetFound bool
	for _, p := range ev.Participants {
		if p.Role == event.RoleActor && p.EntityID == mara {
			actorFound = true
		}
		if p.Role == event.RoleTarget && p.EntityID == pyotir {
			targetFound = true
		}
	}
	assert.True(t, actorFound, "expected Mara as Actor")
	assert.True(t, targetFound, "expected Pyotir as Target")
}

func TestClassifyWithNoRecognizedVerbReturnsMentionsOnly(t *testing.T) {
	mara := id.New()
	cast := []CastMember{{ID: mara, Name: "Mara"}}

	c := NewDefault()
	out, err := c.Classify(context.Background(), "Mara, quietly, the rain.", id.New(), cast)
	require.NoError(t, err)

	assert.Empty(t, out.Events)
	assert.NotEmpty(t, out.Mentions)
}

func TestClassifyWithEmptyCastFindsNoMentions(t *testing.T) {
	c := NewDefault()
	out, err := c.Classify(context.Background(), "Someone said something.", id.New(), nil)
	require.NoError(t, err)
	assert.Empty(t, out.Mentions)
	assert.Empty(t, out.Events)
}

func TestClassifyEmitsUnresolvedMentionForGenericNounPhrase(t *testing.T) {
	colm := id.New()
	cast := []CastMember{{ID: colm, Name: "Colm"}}

	c := NewDefault()
	out, err := c.Classify(context.Background(), "Mara leaves without looking back at the captain.", id.New(), cast)
	require.NoError(t, err)

	var found bool
	for _, m := range out.Mentions {
		if m.Text == "the captain" {
			found = true
			assert.Equal(t, id.Nil, m.EntityID)
			assert.Equal(t, []string{"captain"}, m.Descriptors)
		}
	}
	assert.True(t, found, "expected an Unresolved generic mention for \"the captain\"")
}

func TestLookupVerbResolvesIrregularPastTense(t *testing.T) {
	k, ok := lookupVerb("said")
	require.True(t, ok)
	assert.Equal(t, event.KindSpeechAct, k)
}

func TestLookupVerbResolvesViaStemming(t *testing.T) {
	k, ok := lookupVerb("discovering")
	require.True(t, ok)
	assert.Equal(t, event.KindInformationTransfer, k)
}

func TestLookupVerbUnknownWordFails(t *testing.T) {
	_, ok := lookupVerb("xyzzy")
	assert.False(t, ok)
}
