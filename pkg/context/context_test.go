package context

import (
	"testing"

	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/journal"
	"github.com/kittclouds/storyweave/pkg/scene"
	"github.com/kittclouds/storyweave/pkg/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wordsForTokens returns the shortest string of single-character words
// whose Estimate() is at least n (1 word -> ceil(4/3)=2 tokens is not
// 1:1, so we build up word-by-word). The estimate is exactly n when n is
// a multiple of 4, as every caller here uses.
func wordsForTokens(n uint32) string {
	s := ""
	for tokens.Estimate(s) < n {
		if s != "" {
			s += " "
		}
		s += "w"
	}
	return s
}

func TestAssembleTrimsRetrievedWhenOverBudget(t *testing.T) {
	sceneID := id.New()
	charID := id.New()

	sceneData := scene.Data{
		ID:        sceneID,
		SceneType: "confrontation",
		Setting:   "a rain-slicked alley",
		Cast:      []scene.CastEntry{{ID: charID, Name: "Mara", Role: "protagonist"}},
	}

	// Preamble ~807 tokens (mostly the voice notes), journal 900, retrieved
	// 734 (backstory clipped to 200 chars = 134, plus 3 x 200): the
	// retrieved tier gets 2000-807-900 = 293 and must drop its tail.
	chars := []*scene.CharacterSheet{
		{
			ID:        charID,
			Name:      "Mara",
			Voice:     wordsForTokens(800),
			Backstory: wordsForTokens(400),
			Knows: []scene.KnowledgeItem{
				{Content: wordsForTokens(200), Revealed: true},
				{Content: wordsForTokens(200), Revealed: true},
				{Content: wordsForTokens(200), Revealed: true},
			},
		},
	}

	j := journal.New(sceneID, 1000)
	j.AddTurn(1, wordsForTokens(900), nil, nil)

	out := Assemble(sceneData, chars, []id.ID{charID}, j, nil, "", 2000, nil)

	assert.True(t, out.EstimatedTokens <= 2000 || len(out.Retrieved) == 0)
	// Confirms trimming actually removed retrieved items under a tight budget.
	var retrievedTokens uint32
	for _, it := range out.Retrieved {
		retrievedTokens += tokens.Estimate(it.Content)
	}
	assert.LessOrEqual(t, retrievedTokens, uint32(300+150)) // slack for word-boundary rounding
}

func TestAssembleZeroRetrievedBudgetEmptiesRetrieved(t *testing.T) {
	sceneID := id.New()
	charID := id.New()

	sceneData := scene.Data{ID: sceneID, SceneType: "t", Setting: "s"}
	chars := []*scene.CharacterSheet{
		{ID: charID, Name: "Mara", Backstory: "a long backstory full of detail"},
	}

	j := journal.New(sceneID, 1000)
	j.AddTurn(1, wordsForTokens(900), nil, nil)

	preamble := BuildPreamble(sceneData, chars)
	preambleTokens := EstimatePreambleTokens(preamble)

	out := Assemble(sceneData, chars, []id.ID{charID}, j, nil, "", preambleTokens+900, nil)

	assert.Empty(t, out.Retrieved)
}

func TestAssembleUnderBudgetKeepsEverything(t *testing.T) {
	sceneID := id.New()
	charID := id.New()

	sceneData := scene.Data{ID: sceneID, SceneType: "t", Setting: "s"}
	chars := []*scene.CharacterSheet{
		{ID: charID, Name: "Mara", Backstory: "short"},
	}

	j := journal.New(sceneID, 1000)
	j.AddTurn(1, "brief", nil, nil)

	out := Assemble(sceneData, chars, []id.ID{charID}, j, nil, "", DefaultTotalTokenBudget, nil)

	require.Len(t, out.Retrieved, 1)
	assert.Equal(t, "Mara", out.Retrieved[0].Subject)
}
