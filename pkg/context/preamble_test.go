package context

import (
	"testing"

	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPreambleCollectsCastAndHardBoundaries(t *testing.T) {
	c1 := id.New()
	sceneData := scene.Data{
		SceneType:       "confrontation",
		Setting:         "a rain-slicked alley",
		AestheticDetail: "neon reflections",
		Constraints: []scene.Constraint{
			{Kind: scene.ConstraintHard, Text: "no character may die this scene"},
			{Kind: scene.ConstraintSoft, Text: "keep the tone tense"},
		},
	}
	chars := []*scene.CharacterSheet{{ID: c1, Name: "Mara", Voice: "clipped, guarded"}}

	p := BuildPreamble(sceneData, chars)

	require.Len(t, p.CastDescriptions, 1)
	assert.Equal(t, "Mara", p.CastDescriptions[0].Name)
	require.Len(t, p.HardBoundaries, 1)
	assert.Equal(t, "no character may die this scene", p.HardBoundaries[0])
	assert.Equal(t, "confrontation", p.NarratorVoice)
	assert.Contains(t, p.Setting, "rain-slicked alley")
	assert.Contains(t, p.Setting, "neon reflections")
}

func TestEstimatePreambleTokensNonZeroForNonEmptyPreamble(t *testing.T) {
	p := Preamble{NarratorVoice: "tense", Setting: "a dark alley"}
	assert.Greater(t, EstimatePreambleTokens(p), uint32(0))
}

func TestEstimatePreambleTokensGrowsWithCast(t *testing.T) {
	base := Preamble{NarratorVoice: "tense", Setting: "a dark alley"}
	withCast := base
	withCast.CastDescriptions = []CastDescription{{Name: "Mara", VoiceNotes: "clipped and guarded, rarely elaborates"}}

	assert.Greater(t, EstimatePreambleTokens(withCast), EstimatePreambleTokens(base))
}
