// Package classify defines the classifier external interface (spec §6)
// and ships a bundled default implementation adapted from the teacher's
// scanner sub-packages (pkg/scanner/narrative's verb table,
// pkg/scanner/chunker's POS tagger, pkg/implicit-matcher's
// Aho-Corasick mention scanner).
package classify

import (
	"context"

	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/id"
)

// MentionKind is the coarse NER category assigned to an extracted
// entity mention.
type MentionKind int

const (
	MentionCharacter MentionKind = iota
	MentionPlace
	MentionOther
)

func (k MentionKind) String() string {
	switch k {
	case MentionCharacter:
		return "CHARACTER"
	case MentionPlace:
		return "PLACE"
	default:
		return "OTHER"
	}
}

// Mention is one extracted entity mention with its character offsets
// and NER category.
type Mention struct {
	Text  string
	Start int
	End   int
	Kind  MentionKind
	// EntityID is set when the mention matched a known cast member;
	// left as id.Nil for a mention the classifier could not resolve to
	// a known entity (the reference stays Unresolved downstream).
	EntityID id.ID
	// Descriptors carries the bare noun(s) of a generic mention (e.g.
	// "captain" from "the captain"), unset for cast-dictionary matches.
	// Downstream, this seeds reference.Context.Descriptors for the
	// resolver's descriptive strategy.
	Descriptors []string
}

// ParticipantCategory pairs a cast member with the role the classifier
// inferred for them in one classified event. Text carries the mention's
// surface form for every participant; atom construction uses it (with
// Descriptors) only when EntityID is id.Nil. Descriptors is empty for a
// resolved (cast-dictionary) participant.
type ParticipantCategory struct {
	EntityID    id.ID
	Role        event.Role
	Text        string
	Descriptors []string
}

// ClassifiedEvent is one (EventKind, participants, confidence) triple
// the classifier extracted from the input text.
type ClassifiedEvent struct {
	Kind         event.Kind
	Participants []ParticipantCategory
	Confidence   float64
}

// CastMember is the minimal cast information the classifier needs:
// identity and every surface form (name plus aliases) it should
// recognise in text.
type CastMember struct {
	ID      id.ID
	Name    string
	Aliases []string
}

// Output is the classifier's full result for one input: the events it
// found plus every entity mention it extracted, independent of which
// event (if any) the mention belongs to.
type Output struct {
	Events   []ClassifiedEvent
	Mentions []Mention
}

// Classifier maps free text, in the context of a scene and its cast,
// to classified events and entity mentions (spec §6).
type Classifier interface {
	Classify(ctx context.Context, text string, scene id.ID, cast []CastMember) (Output, error)
}
