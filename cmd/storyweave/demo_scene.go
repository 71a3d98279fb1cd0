package main

import (
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/scene"
)

// demoScene is a two-character confrontation scene used to drive the
// CLI end to end: every turn-cycle stage, from classification through
// rendering, runs against real (if small) scene and cast data rather
// than empty fixtures.
type demoScene struct {
	scene scene.Data
	cast  []*scene.CharacterSheet
	turns []string
}

func newDemoScene() demoScene {
	sceneID := id.New()
	maraID := id.New()
	colmID := id.New()

	sceneData := scene.Data{
		ID:              sceneID,
		Title:           "The Last Ferry",
		SceneType:       "confrontation",
		Setting:         "a rain-slicked ferry dock after the last crossing of the night",
		AestheticDetail: "diesel fumes, a single swinging floodlight, the tide slapping the pylons",
		Cast: []scene.CastEntry{
			{ID: maraID, Name: "Mara", Role: "protagonist"},
			{ID: colmID, Name: "Colm", Role: "antagonist", Descriptors: []string{"captain"}},
		},
		Stakes: []string{"Mara must decide whether to board before Colm stops her"},
		Constraints: []scene.Constraint{
			{Kind: scene.ConstraintHard, Text: "the ferry departs in minutes, it cannot be held"},
			{Kind: scene.ConstraintSoft, Text: "Colm will not draw a weapon on the open dock"},
		},
		EmotionalArcNotes:  "Mara moves from guarded calm toward open defiance",
		EvaluationCriteria: []string{"tension rises each turn", "no character acts against their sheet"},
	}

	mara := &scene.CharacterSheet{
		ID:        maraID,
		Name:      "Mara",
		Voice:     "clipped, guarded, dry under pressure",
		Backstory: "left Colm's crew two years ago after a run that went wrong; has not spoken to him since",
		PersonalityTensor: map[string]scene.TensorAxis{
			"defiance":    {Distribution: []float64{0.2, 0.3, 0.5}, TemporalLayer: "stable", Provenance: "sheet"},
			"loyalty-old": {Distribution: []float64{0.4, 0.4, 0.2}, TemporalLayer: "decaying", Provenance: "sheet"},
		},
		EmotionalGrammarID: "demo-core-four",
		EmotionalState: []scene.EmotionalPrimaryState{
			{PrimaryID: "fear", Intensity: 0.3, Awareness: "Defended"},
		},
		SelfEdge: []scene.SelfEdgeEntry{
			{Content: "she still keeps Colm's old watch", Revealed: false, EmotionalContext: "grief"},
		},
		ContextualTriggers: []string{"the sound of a ferry horn"},
		PerformanceNotes:   "plays calmer than she is; voice flattens when most afraid",
		Knows: []scene.KnowledgeItem{
			{Content: "Colm blames her for the run going wrong", Revealed: true},
		},
		DoesNotKnow: []scene.KnowledgeItem{
			{Content: "Colm has already sold his half of the boat", Revealed: false},
		},
		CapabilityProfile: []string{"can out-talk Colm", "cannot out-run him"},
	}

	colm := &scene.CharacterSheet{
		ID:        colmID,
		Name:      "Colm",
		Voice:     "warm until crossed, then flat and final",
		Backstory: "built the crew Mara left; has spent two years deciding whether to forgive her",
		PersonalityTensor: map[string]scene.TensorAxis{
			"pride":       {Distribution: []float64{0.1, 0.2, 0.7}, TemporalLayer: "stable", Provenance: "sheet"},
			"old-loyalty": {Distribution: []float64{0.3, 0.3, 0.4}, TemporalLayer: "stable", Provenance: "sheet"},
		},
		EmotionalGrammarID: "demo-core-four",
		EmotionalState: []scene.EmotionalPrimaryState{
			{PrimaryID: "anger", Intensity: 0.4, Awareness: "Recognizable"},
		},
		ContextualTriggers: []string{"being reminded of the failed run"},
		PerformanceNotes:   "softens for one beat before hardening again",
		Knows: []scene.KnowledgeItem{
			{Content: "the ferry is Mara's only way off the island tonight", Revealed: true},
		},
		CapabilityProfile: []string{"knows every guard on the dock by name"},
	}

	return demoScene{
		scene: sceneData,
		cast:  []*scene.CharacterSheet{mara, colm},
		turns: []string{
			// "the captain" has no name yet at this point in the scene, so
			// the classifier emits it as an Unresolved mention and the
			// pipeline queues it in the mention index (spec §4.4).
			"Mara leaves the dock without looking back at the captain.",
			"Colm steps into her path and asks her to stay for one more conversation.",
			"Mara tells him the crew was never her home to begin with.",
			// by now Colm has been promoted to Tracked from the direct
			// mentions above, so this repeat of "the captain" resolves via
			// the descriptive strategy and retroactively promotes the
			// first occurrence out of the mention index (spec §4.5).
			"Mara watches the captain disappear into the rain.",
			"The ferry pulls away from the dock.",
		},
	}
}
