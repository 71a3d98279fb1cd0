// Package event defines the immutable event atom and compound-event
// types that make up the append-only narrative ledger.
package event

import (
	"time"

	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/reference"
)

// Kind enumerates the event atom kinds the core recognises.
type Kind int

const (
	KindSpeechAct Kind = iota
	KindActionOccurrence
	KindSpatialChange
	KindEmotionalExpression
	KindInformationTransfer
	KindRelationalShift
	KindStateAssertion
	KindEnvironmentalChange
	KindSceneLifecycle
	KindEntityLifecycle
)

func (k Kind) String() string {
	switch k {
	case KindSpeechAct:
		return "SpeechAct"
	case KindActionOccurrence:
		return "ActionOccurrence"
	case KindSpatialChange:
		return "SpatialChange"
	case KindEmotionalExpression:
		return "EmotionalExpression"
	case KindInformationTransfer:
		return "InformationTransfer"
	case KindRelationalShift:
		return "RelationalShift"
	case KindStateAssertion:
		return "StateAssertion"
	case KindEnvironmentalChange:
		return "EnvironmentalChange"
	case KindSceneLifecycle:
		return "SceneLifecycle"
	case KindEntityLifecycle:
		return "EntityLifecycle"
	default:
		return "Unknown"
	}
}

// Role is the participant's function within an event.
type Role int

const (
	RoleActor Role = iota
	RoleTarget
	RoleInstrument
	RoleLocation
	RoleWitness
	RoleSubject
)

// Participant pairs a reference with its role in an event.
type Participant struct {
	Reference reference.Reference
	Role      Role
}

// ImplicationType enumerates the relational implication kinds the
// inferrer can emit.
type ImplicationType int

const (
	ImplicationAttention ImplicationType = iota
	ImplicationInformationSharing
	ImplicationPossession
	ImplicationProximity
	ImplicationEmotionalConnection
	ImplicationTrustSignal
)

// Implication is a source->target relational implication carrying a
// weight in [-1, 1]. Valence/Direction is only meaningful for
// EmotionalConnection (valence) and TrustSignal (direction); it is 0 for
// every other type.
type Implication struct {
	Source    reference.Reference
	Target    reference.Reference
	Type      ImplicationType
	Weight    float64
	Valence   float64 // used by EmotionalConnection
	Direction float64 // used by TrustSignal
}

// ProvenanceKind distinguishes atoms sourced from the player versus the
// system.
type ProvenanceKind int

const (
	ProvenancePlayerInput ProvenanceKind = iota
	ProvenanceSystem
)

// Provenance records where an atom's content came from.
type Provenance struct {
	Kind             ProvenanceKind
	RawText          string // PlayerInput only
	ClassifierID     string // PlayerInput only
	ComponentName    string // System only
}

// Priority is the urgency the classifier (or commit step) assigns an
// atom.
type Priority int

const (
	PriorityImmediate Priority = iota
	PriorityHigh
	PriorityNormal
	PriorityLow
	PriorityDeferred
)

// Confidence is a classifier's confidence in an atom, paired with an
// evidence marker describing what grounded the call.
type Confidence struct {
	Value    float64 // in [0, 1]
	Evidence string
}

// Atom is an immutable record of a single narrative event. Atoms are
// never mutated once appended to the ledger.
type Atom struct {
	ID            id.ID
	Timestamp     time.Time
	Kind          Kind
	RelationDelta float64 // only meaningful when Kind == KindRelationalShift
	Participants  []Participant
	Implications  []Implication
	Provenance    Provenance
	Confidence    Confidence
	Priority      Priority
	Scene         id.ID
	Turn          uint32
}

// CompositionType classifies how a Compound relates its member atoms.
type CompositionType int

const (
	CompositionCausal CompositionType = iota
	CompositionTemporal
)

// Compound records that a later committed turn observed a relationship
// between atoms. It does not mutate the member atoms.
type Compound struct {
	ID          id.ID
	AtomIDs     []id.ID
	Composition CompositionType
}
