package main

import (
	"context"

	"github.com/kittclouds/storyweave/pkg/predictor"
	"github.com/kittclouds/storyweave/pkg/scene"
)

// heuristicPredictor is a deterministic stand-in for the tensor-based ML
// predictor spec §6 leaves external: no model is loaded, every decision
// is a fixed rule over the request's scene/event features, so the demo
// CLI can drive the full pipeline without a model dependency.
type heuristicPredictor struct{}

// Predict implements predictor.Predictor.
func (heuristicPredictor) Predict(_ context.Context, req predictor.Request) (predictor.RawPrediction, error) {
	axisIndex := nextUnactivatedAxis(req)

	charged := req.Event.EmotionalRegister == "charged"
	actionType := predictor.ActionPerform
	actionContext := predictor.ContextCurrentScene
	if charged {
		actionType = predictor.ActionResist
		actionContext = predictor.ContextEmotionalReaction
	}
	if req.Event.TargetCount > 0 {
		actionType = predictor.ActionSpeak
	}

	speechOccurs := req.Event.EventType == "SpeechAct"
	register := predictor.RegisterConversational
	if charged {
		register = predictor.RegisterDeclamatory
	}

	awareness := currentAwareness(req.Character.EmotionalState)
	if charged && awareness < predictor.AwarenessArticulate {
		awareness++
	}

	var deltas []predictor.RawEmotionalDelta
	if len(req.Character.EmotionalState) > 0 {
		change := 0.05
		if charged {
			change = 0.15
		}
		deltas = append(deltas, predictor.RawEmotionalDelta{
			PrimaryIndex:    0,
			IntensityChange: change,
			AwarenessShifts: charged,
		})
	}

	confidence := 0.5 + 0.1*float64(req.Event.TargetCount)
	if confidence > 0.95 {
		confidence = 0.95
	}

	return predictor.RawPrediction{
		CharacterID: req.Character.ID,
		Frame: predictor.RawActivatedFrame{
			ActivatedAxisIndices: axisIndex,
			Confidence:           confidence,
		},
		Action: predictor.RawActionPrediction{
			ActionType:       actionType,
			Confidence:       confidence,
			EmotionalValence: req.Event.Confidence,
			Context:          actionContext,
		},
		Speech: predictor.RawSpeechPrediction{
			Occurs:     speechOccurs,
			Register:   register,
			Confidence: confidence,
		},
		Thought: predictor.RawThoughtPrediction{
			AwarenessLevel:       awareness,
			DominantEmotionIndex: 0,
		},
		EmotionalDeltas: deltas,
	}, nil
}

// nextUnactivatedAxis picks the lowest tensor-axis index not already in
// req.ActivatedAxes, so repeated turns progress through a character's
// axes rather than always firing the first one.
func nextUnactivatedAxis(req predictor.Request) []int {
	if len(req.Character.PersonalityTensor) == 0 {
		return nil
	}

	activated := make(map[int]bool, len(req.ActivatedAxes))
	for _, i := range req.ActivatedAxes {
		activated[i] = true
	}

	for i := 0; i < len(req.Character.PersonalityTensor); i++ {
		if !activated[i] {
			return []int{i}
		}
	}
	return []int{0}
}

// currentAwareness reads the character's first emotional-state entry's
// awareness label, defaulting to Preconscious when none is authored.
func currentAwareness(states []scene.EmotionalPrimaryState) predictor.AwarenessLevel {
	if len(states) == 0 {
		return predictor.AwarenessPreconscious
	}
	switch states[0].Awareness {
	case "Structural":
		return predictor.AwarenessStructural
	case "Defended":
		return predictor.AwarenessDefended
	case "Recognizable":
		return predictor.AwarenessRecognizable
	case "Articulate":
		return predictor.AwarenessArticulate
	default:
		return predictor.AwarenessPreconscious
	}
}
