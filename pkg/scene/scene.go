// Package scene defines the Scene data and Character sheet input
// objects (spec §6): external collaborators' inputs, not components the
// core computes.
package scene

import "github.com/kittclouds/storyweave/pkg/id"

// ConstraintKind classifies a scene constraint's bindingness.
type ConstraintKind int

const (
	ConstraintHard ConstraintKind = iota
	ConstraintSoft
	ConstraintPerceptual
)

// Constraint is a single authored scene constraint.
type Constraint struct {
	Kind ConstraintKind
	Text string
}

// CastEntry names one member of a scene's cast. Descriptors are the
// authored traits/titles (e.g. "captain") the resolver's descriptive
// strategy matches a generic mention's context against once the entity
// is tracked (spec §4.6).
type CastEntry struct {
	ID          id.ID
	Name        string
	Role        string
	Descriptors []string
}

// Data is the Scene input object.
type Data struct {
	ID                id.ID
	Title             string
	SceneType         string
	Setting           string
	AestheticDetail   string
	Cast              []CastEntry
	Stakes            []string
	Constraints       []Constraint
	EmotionalArcNotes string
	EvaluationCriteria []string
}

// TensorAxis is one axis of a character's personality tensor: an
// ordered map axis-name -> (value distribution, temporal layer,
// provenance). The distribution is left as a plain float slice; its
// interpretation belongs to the predictor, not the core.
type TensorAxis struct {
	Distribution []float64
	TemporalLayer string
	Provenance    string
}

// EmotionalPrimaryState is a character's intensity and awareness level
// for one emotional-grammar primary.
type EmotionalPrimaryState struct {
	PrimaryID string
	Intensity float64
	Awareness string // Structural, Defended, Preconscious, Recognizable, Articulate
}

// KnowledgeItem is one entry in a character's knowledge or ignorance
// list.
type KnowledgeItem struct {
	Content  string
	Revealed bool
}

// SelfEdgeEntry is one entry in a character's self-edge history: an
// unrevealed emotionally-charged pattern about themself.
type SelfEdgeEntry struct {
	Content          string
	Revealed         bool
	EmotionalContext string
}

// CharacterSheet is the Character sheet input object.
type CharacterSheet struct {
	ID               id.ID
	Name             string
	Voice            string
	Backstory        string
	PersonalityTensor map[string]TensorAxis
	EmotionalGrammarID string
	EmotionalState    []EmotionalPrimaryState
	SelfEdge          []SelfEdgeEntry
	ContextualTriggers []string
	PerformanceNotes  string
	Knows             []KnowledgeItem
	DoesNotKnow       []KnowledgeItem
	CapabilityProfile []string
}
