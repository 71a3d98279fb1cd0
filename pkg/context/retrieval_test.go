package context

import (
	"testing"

	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBoundaryViolationRevealedNeverViolates(t *testing.T) {
	dnk := []scene.KnowledgeItem{{Content: "ley line corruption"}}
	assert.False(t, IsBoundaryViolation("Systematic ley line corruption across the realm", true, dnk))
}

func TestIsBoundaryViolationUnrevealedOverlapBlocks(t *testing.T) {
	dnk := []scene.KnowledgeItem{{Content: "ley line corruption"}}
	assert.True(t, IsBoundaryViolation("Systematic ley line corruption across the realm", false, dnk))
}

func TestIsBoundaryViolationUnrevealedNoOverlapPasses(t *testing.T) {
	dnk := []scene.KnowledgeItem{{Content: "ley line corruption"}}
	assert.False(t, IsBoundaryViolation("A quiet morning in the market square", false, dnk))
}

func TestIsBoundaryViolationStripsParentheticalBeforeCounting(t *testing.T) {
	dnk := []scene.KnowledgeItem{{Content: "(internal note) ley line corruption"}}
	assert.True(t, IsBoundaryViolation("ley line corruption spreads", false, dnk))
}

func TestRetrieveContextFiltersUnrevealedSelfEdgeAgainstOwnDoesNotKnow(t *testing.T) {
	charID := id.New()
	sceneData := scene.Data{}
	chars := []*scene.CharacterSheet{
		{
			ID:   charID,
			Name: "Mara",
			SelfEdge: []scene.SelfEdgeEntry{
				{Content: "ley line corruption runs through her", Revealed: false, EmotionalContext: "dread"},
			},
			DoesNotKnow: []scene.KnowledgeItem{{Content: "ley line corruption"}},
		},
	}

	items := RetrieveContext([]id.ID{charID}, chars, sceneData, nil)
	assert.Empty(t, items)
}

func TestRetrieveContextKeepsItemsNotMatchingBoundary(t *testing.T) {
	charID := id.New()
	sceneData := scene.Data{}
	chars := []*scene.CharacterSheet{
		{
			ID:        charID,
			Name:      "Mara",
			Backstory: "Raised on the coast, she learned to sail before she could read.",
		},
	}

	items := RetrieveContext([]id.ID{charID}, chars, sceneData, nil)
	require.Len(t, items, 1)
	assert.Equal(t, "Mara", items[0].Subject)
	assert.True(t, items[0].Revealed)
}

func TestRetrieveContextIgnoresUnreferencedCharacters(t *testing.T) {
	wanted := id.New()
	other := id.New()
	sceneData := scene.Data{}
	chars := []*scene.CharacterSheet{
		{ID: other, Name: "Bystander", Backstory: "irrelevant"},
	}

	items := RetrieveContext([]id.ID{wanted}, chars, sceneData, nil)
	assert.Empty(t, items)
}

func TestRetrieveContextIncludesStakeLinesMentioningCharacter(t *testing.T) {
	charID := id.New()
	sceneData := scene.Data{Stakes: []string{"If Mara fails, the bridge collapses."}}
	chars := []*scene.CharacterSheet{{ID: charID, Name: "Mara"}}

	items := RetrieveContext([]id.ID{charID}, chars, sceneData, nil)
	require.Len(t, items, 1)
	assert.Contains(t, items[0].Content, "Mara")
}
