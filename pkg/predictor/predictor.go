// Package predictor defines the emotional-tensor predictor external
// interface (spec §6). Grounded on the teacher's pkg/batch.Service
// interface-then-impl split, generalized to the raw prediction shape
// spec §6/§4.10 define; ported from
// original_source/storyteller-core/src/types/prediction.rs's raw-type
// family (RawCharacterPrediction and its nested Raw* fields).
package predictor

import (
	"context"

	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/scene"
)

// ActionType is the raw predicted action category.
type ActionType int

const (
	ActionPerform ActionType = iota
	ActionSpeak
	ActionMove
	ActionExamine
	ActionWait
	ActionResist
)

// ActionContext names the narrative driver behind a predicted action.
type ActionContext int

const (
	ContextSharedHistory ActionContext = iota
	ContextCurrentScene
	ContextEmotionalReaction
	ContextRelationalDynamic
	ContextWorldResponse
)

// SpeechRegister is the raw predicted register of speech, if any.
type SpeechRegister int

const (
	RegisterWhisper SpeechRegister = iota
	RegisterConversational
	RegisterDeclamatory
	RegisterInternal
)

// AwarenessLevel mirrors scene.EmotionalPrimaryState.Awareness as an
// ordered enum so the enricher can advance it mechanically.
type AwarenessLevel int

const (
	AwarenessStructural AwarenessLevel = iota
	AwarenessDefended
	AwarenessPreconscious
	AwarenessRecognizable
	AwarenessArticulate
)

// RawActionPrediction is the predictor's unresolved action guess.
type RawActionPrediction struct {
	ActionType       ActionType
	Confidence       float64
	Target           id.ID
	HasTarget        bool
	EmotionalValence float64
	Context          ActionContext
}

// RawSpeechPrediction is the predictor's unresolved speech guess.
type RawSpeechPrediction struct {
	Occurs     bool
	Register   SpeechRegister
	Confidence float64
}

// RawThoughtPrediction is the predictor's unresolved internal-state
// guess.
type RawThoughtPrediction struct {
	AwarenessLevel       AwarenessLevel
	DominantEmotionIndex int
}

// RawEmotionalDelta is one unresolved proposed emotional-primary shift.
type RawEmotionalDelta struct {
	PrimaryIndex    int
	IntensityChange float64
	AwarenessShifts bool
}

// RawActivatedFrame names which tensor axis indices fired and with what
// confidence.
type RawActivatedFrame struct {
	ActivatedAxisIndices []int
	Confidence           float64
}

// RawPrediction is the predictor's unenriched output for one character,
// consumed by pkg/prediction's enrichment step (spec §4.10).
type RawPrediction struct {
	CharacterID     id.ID
	Frame           RawActivatedFrame
	Action          RawActionPrediction
	Speech          RawSpeechPrediction
	Thought         RawThoughtPrediction
	EmotionalDeltas []RawEmotionalDelta
}

// SceneFeatures is the scene-derived input to a prediction request.
type SceneFeatures struct {
	SceneType string
	CastSize  int
	Tension   float64
}

// EventFeatures summarizes the triggering event for a prediction
// request.
type EventFeatures struct {
	EventType          string
	EmotionalRegister  string
	Confidence         float64
	TargetCount        int
}

// Request bundles everything a Predictor needs for one character's
// turn.
type Request struct {
	Character     scene.CharacterSheet
	Scene         SceneFeatures
	Event         EventFeatures
	ActivatedAxes []int
}

// Predictor produces a RawPrediction for a single character given the
// current scene and event features and the set of already-activated
// personality-tensor axis indices.
type Predictor interface {
	Predict(ctx context.Context, req Request) (RawPrediction, error)
}
