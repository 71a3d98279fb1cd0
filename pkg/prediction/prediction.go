// Package prediction implements the prediction enricher (spec §4.10):
// a deterministic, template-only transform from a predictor.RawPrediction
// to a narrator-ready per-character briefing. Ported from
// original_source/storyteller-engine/src/context/prediction.rs's
// enrich_prediction and its template helpers.
package prediction

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kittclouds/storyweave/pkg/grammar"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/predictor"
	"github.com/kittclouds/storyweave/pkg/scene"
)

// ActivatedFrame names which tensor axes fired and why, in narrator
// terms.
type ActivatedFrame struct {
	ActivatedAxes    []string
	ActivationReason string
	Confidence       float64
}

// Action is one enriched action prediction.
type Action struct {
	Description string
	Confidence  float64
	ActionType  predictor.ActionType
	Target      id.ID
	HasTarget   bool
}

// Speech is the enriched speech-direction prediction, present only when
// the raw prediction says speech occurs.
type Speech struct {
	ContentDirection string
	Register         predictor.SpeechRegister
	Confidence       float64
}

// Thought is the enriched internal-state prediction.
type Thought struct {
	EmotionalSubtext string
	AwarenessLevel   predictor.AwarenessLevel
	InternalConflict string
	HasConflict      bool
}

// EmotionalDelta is an enriched proposed emotional-primary shift: the
// raw primary index resolved to its grammar id, with an optional
// advanced awareness level.
type EmotionalDelta struct {
	PrimaryID       string
	IntensityChange float64
	AwarenessChange predictor.AwarenessLevel
	HasAwarenessChange bool
}

// EnrichedPrediction is one character's complete narrator-ready
// briefing.
type EnrichedPrediction struct {
	CharacterID     id.ID
	CharacterName   string
	Frame           ActivatedFrame
	Actions         []Action
	Speech          Speech
	HasSpeech       bool
	Thought         Thought
	EmotionalDeltas []EmotionalDelta
}

// Enrich runs the full deterministic raw-to-briefing transform. Running
// Enrich twice over the same raw input, character, scene, and grammar
// yields an identical result (property 10: no hidden state, no
// randomness).
func Enrich(raw predictor.RawPrediction, character *scene.CharacterSheet, sceneData scene.Data, g grammar.Grammar) EnrichedPrediction {
	axisNames := resolveAxisNames(raw.Frame.ActivatedAxisIndices, character)
	activationReason := generateActivationReason(axisNames, sceneData)

	frame := ActivatedFrame{
		ActivatedAxes:    axisNames,
		ActivationReason: activationReason,
		Confidence:       raw.Frame.Confidence,
	}

	var targetName string
	if raw.Action.HasTarget {
		if n, ok := resolveTargetName(raw.Action.Target, sceneData, character); ok {
			targetName = n
		}
	}
	actionDescription := generateActionDescription(raw.Action.ActionType, targetName, raw.Action.Context, raw.Action.EmotionalValence)
	actions := []Action{{
		Description: actionDescription,
		Confidence:  raw.Action.Confidence,
		ActionType:  raw.Action.ActionType,
		Target:      raw.Action.Target,
		HasTarget:   raw.Action.HasTarget,
	}}

	var speech Speech
	hasSpeech := raw.Speech.Occurs
	if hasSpeech {
		speech = Speech{
			ContentDirection: generateSpeechDirection(raw.Speech.Register, raw.Action.Context, sceneData),
			Register:         raw.Speech.Register,
			Confidence:       raw.Speech.Confidence,
		}
	}

	dominantPrimary := resolvePrimaryName(raw.Thought.DominantEmotionIndex, g)
	emotionalSubtext := generateEmotionalSubtext(dominantPrimary, raw.Thought.AwarenessLevel, character.Name)
	conflict, hasConflict := detectInternalConflict(raw.EmotionalDeltas, g)
	thought := Thought{
		EmotionalSubtext: emotionalSubtext,
		AwarenessLevel:   raw.Thought.AwarenessLevel,
		InternalConflict: conflict,
		HasConflict:      hasConflict,
	}

	deltas := make([]EmotionalDelta, 0, len(raw.EmotionalDeltas))
	for _, d := range raw.EmotionalDeltas {
		ed := EmotionalDelta{
			PrimaryID:       resolvePrimaryName(d.PrimaryIndex, g),
			IntensityChange: d.IntensityChange,
		}
		if d.AwarenessShifts {
			ed.AwarenessChange = nextAwarenessLevel(raw.Thought.AwarenessLevel)
			ed.HasAwarenessChange = true
		}
		deltas = append(deltas, ed)
	}

	return EnrichedPrediction{
		CharacterID:     raw.CharacterID,
		CharacterName:   character.Name,
		Frame:           frame,
		Actions:         actions,
		Speech:          speech,
		HasSpeech:       hasSpeech,
		Thought:         thought,
		EmotionalDeltas: deltas,
	}
}

// Render formats assembled predictions as a markdown section for the
// narrator's context window, following the same structural pattern as
// the preamble renderer.
func Render(predictions []EnrichedPrediction) string {
	if len(predictions) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Character Predictions\n\n")

	for _, p := range predictions {
		fmt.Fprintf(&b, "### %s\n", p.CharacterName)

		axesStr := strings.Join(p.Frame.ActivatedAxes, ", ")
		fmt.Fprintf(&b, "**Frame**: %s (%.2f confidence)\n", axesStr, p.Frame.Confidence)
		b.WriteString(p.Frame.ActivationReason)
		b.WriteString("\n")

		for _, a := range p.Actions {
			fmt.Fprintf(&b, "**Action** (%.2f): %s\n", a.Confidence, a.Description)
		}

		if p.HasSpeech {
			fmt.Fprintf(&b, "**Speech** (%.2f): %s\n", p.Speech.Confidence, p.Speech.ContentDirection)
		}

		fmt.Fprintf(&b, "**Internal**: %s\n", p.Thought.EmotionalSubtext)
		fmt.Fprintf(&b, "  Awareness: %d", int(p.Thought.AwarenessLevel))
		if p.Thought.HasConflict {
			fmt.Fprintf(&b, " | Conflict: %s", p.Thought.InternalConflict)
		}
		b.WriteString("\n")

		if len(p.EmotionalDeltas) > 0 {
			parts := make([]string, 0, len(p.EmotionalDeltas))
			for _, d := range p.EmotionalDeltas {
				sign := ""
				if d.IntensityChange >= 0 {
					sign = "+"
				}
				parts = append(parts, fmt.Sprintf("%s %s%.1f", d.PrimaryID, sign, d.IntensityChange))
			}
			fmt.Fprintf(&b, "**Emotional shifts**: %s\n", strings.Join(parts, ", "))
		}

		b.WriteString("\n")
	}

	return b.String()
}

// resolveAxisNames maps activated tensor-axis indices to axis names via
// the character tensor's sorted key order — the canonical ordering also
// used by feature encoding.
func resolveAxisNames(indices []int, character *scene.CharacterSheet) []string {
	keys := make([]string, 0, len(character.PersonalityTensor))
	for k := range character.PersonalityTensor {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	names := make([]string, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(keys) {
			names = append(names, keys[idx])
		}
	}
	return names
}

// resolveTargetName looks up a target entity's name from the scene cast
// first, then falls back to the acting character itself.
func resolveTargetName(target id.ID, sceneData scene.Data, character *scene.CharacterSheet) (string, bool) {
	for _, c := range sceneData.Cast {
		if c.ID == target {
			return c.Name, true
		}
	}
	if character.ID == target {
		return character.Name, true
	}
	return "", false
}

func generateActivationReason(axisNames []string, sceneData scene.Data) string {
	if len(axisNames) == 0 {
		return fmt.Sprintf("Entering %s", sceneData.Title)
	}
	stakesHint := "the current moment"
	if len(sceneData.Stakes) > 0 {
		stakesHint = sceneData.Stakes[0]
	}
	return fmt.Sprintf("Active in the context of %s", truncateHint(stakesHint, 80))
}

func generateActionDescription(actionType predictor.ActionType, targetName string, actionContext predictor.ActionContext, emotionalValence float64) string {
	verb := map[predictor.ActionType]string{
		predictor.ActionPerform: "Acts",
		predictor.ActionSpeak:   "Speaks",
		predictor.ActionMove:    "Approaches",
		predictor.ActionExamine: "Observes",
		predictor.ActionWait:    "Waits",
		predictor.ActionResist:  "Resists",
	}[actionType]

	targetStr := ""
	if targetName != "" {
		targetStr = " " + targetName
	}

	contextStr := map[predictor.ActionContext]string{
		predictor.ContextSharedHistory:     "driven by shared history",
		predictor.ContextCurrentScene:      "responding to the moment",
		predictor.ContextEmotionalReaction: "driven by emotion",
		predictor.ContextRelationalDynamic: "shaped by the relationship",
		predictor.ContextWorldResponse:     "reacting to the surroundings",
	}[actionContext]

	var valenceStr string
	switch {
	case emotionalValence > 0.3:
		valenceStr = "with warmth"
	case emotionalValence < -0.3:
		valenceStr = "with tension"
	default:
		valenceStr = "with restraint"
	}

	return fmt.Sprintf("%s%s — %s, %s", verb, targetStr, contextStr, valenceStr)
}

func generateSpeechDirection(register predictor.SpeechRegister, actionContext predictor.ActionContext, sceneData scene.Data) string {
	registerHint := map[predictor.SpeechRegister]string{
		predictor.RegisterWhisper:       "Quietly, intimately",
		predictor.RegisterConversational: "In natural conversation",
		predictor.RegisterDeclamatory:   "With raised voice, addressing the space",
		predictor.RegisterInternal:      "Internally, unspoken",
	}[register]

	topic := map[predictor.ActionContext]string{
		predictor.ContextSharedHistory:     "what they share, what has passed",
		predictor.ContextCurrentScene:      "what is happening now",
		predictor.ContextEmotionalReaction: "what they feel",
		predictor.ContextRelationalDynamic: "the connection between them",
		predictor.ContextWorldResponse:     "the world around them",
	}[actionContext]

	stakesHint := "this moment"
	if len(sceneData.Stakes) > 0 {
		stakesHint = truncateHint(sceneData.Stakes[0], 60)
	}

	return fmt.Sprintf("%s — about %s, in the context of %s", registerHint, topic, stakesHint)
}

// resolvePrimaryName resolves an emotion index to its grammar-assigned
// string id, falling back to "unknown_N" for an out-of-range index.
func resolvePrimaryName(index int, g grammar.Grammar) string {
	if g == nil {
		return fmt.Sprintf("unknown_%d", index)
	}
	primaries := g.Primaries()
	if index >= 0 && index < len(primaries) {
		return primaries[index].ID
	}
	return fmt.Sprintf("unknown_%d", index)
}

func generateEmotionalSubtext(dominantPrimary string, awareness predictor.AwarenessLevel, characterName string) string {
	awarenessStr := map[predictor.AwarenessLevel]string{
		predictor.AwarenessArticulate:   "consciously feels",
		predictor.AwarenessRecognizable: "senses",
		predictor.AwarenessPreconscious: "is moved by",
		predictor.AwarenessDefended:     "deflects from",
		predictor.AwarenessStructural:   "is shaped by",
	}[awareness]

	return fmt.Sprintf("%s %s %s", characterName, awarenessStr, dominantPrimary)
}

// detectInternalConflict looks for any two emotional deltas whose
// intensity changes have opposite signs, reporting the first such pair
// found in input order.
func detectInternalConflict(deltas []predictor.RawEmotionalDelta, g grammar.Grammar) (string, bool) {
	for i, a := range deltas {
		for _, b := range deltas[i+1:] {
			opposing := (a.IntensityChange > 0 && b.IntensityChange < 0) ||
				(a.IntensityChange < 0 && b.IntensityChange > 0)
			if !opposing {
				continue
			}

			nameA := resolvePrimaryName(a.PrimaryIndex, g)
			nameB := resolvePrimaryName(b.PrimaryIndex, g)

			var rising, falling string
			if a.IntensityChange > 0 {
				rising, falling = nameA, nameB
			} else {
				rising, falling = nameB, nameA
			}

			return fmt.Sprintf("%s rising while %s recedes", rising, falling), true
		}
	}
	return "", false
}

// nextAwarenessLevel advances one step along
// Structural->Defended->Preconscious->Recognizable->Articulate.
// Articulate is absorbing.
func nextAwarenessLevel(current predictor.AwarenessLevel) predictor.AwarenessLevel {
	switch current {
	case predictor.AwarenessStructural:
		return predictor.AwarenessDefended
	case predictor.AwarenessDefended:
		return predictor.AwarenessPreconscious
	case predictor.AwarenessPreconscious:
		return predictor.AwarenessRecognizable
	case predictor.AwarenessRecognizable:
		return predictor.AwarenessArticulate
	default:
		return predictor.AwarenessArticulate
	}
}

func truncateHint(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen - 3
	if cut < 0 {
		cut = 0
	}
	for cut > 0 && !isRuneBoundary(s, cut) {
		cut--
	}
	return s[:cut] + "..."
}

func isRuneBoundary(s string, i int) bool {
	if i <= 0 || i >= len(s) {
		return true
	}
	return s[i]&0xC0 != 0x80
}
