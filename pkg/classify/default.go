package classify

import (
	"context"
	"sort"
	"strings"

	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/orsinium-labs/stopwords"
)

// Default is the bundled, rule-based Classifier: a cast-scoped
// Aho-Corasick mention scanner (pkg/implicit-matcher) feeding a
// verb-table event lookup (pkg/scanner/narrative) gated by a POS
// tagger (pkg/scanner/chunker), adapted per DESIGN.md's
// "pkg/classify (bundled default Classifier)" ledger entry.
type Default struct {
	tagger *tagger
	stop   *stopwords.Stopwords
}

// NewDefault constructs the bundled Classifier.
func NewDefault() *Default {
	return &Default{
		tagger: newTagger(),
		stop:   stopwords.MustGet("en"),
	}
}

// Classify implements Classifier.
func (d *Default) Classify(_ context.Context, text string, _ id.ID, cast []CastMember) (Output, error) {
	dict, err := compileCastDictionary(cast)
	if err != nil {
		return Output{}, err
	}

	mentions := dict.scan(text)
	mentions = append(mentions, scanGeneric(text, mentions)...)
	mentions = d.dropStopwordMentions(mentions)
	sort.Slice(mentions, func(i, j int) bool { return mentions[i].Start < mentions[j].Start })

	verbWords := d.tagger.verbs(text)
	if len(verbWords) == 0 || len(mentions) == 0 {
		return Output{Mentions: mentions}, nil
	}

	var events []ClassifiedEvent
	for _, verb := range verbWords {
		kind, ok := lookupVerb(verb)
		if !ok {
			continue
		}

		verbPos := strings.Index(strings.ToLower(text), strings.ToLower(verb))
		events = append(events, ClassifiedEvent{
			Kind:         kind,
			Participants: assignRoles(mentions, verbPos),
			Confidence:   confidenceFor(kind, len(mentions)),
		})
	}

	return Output{Events: events, Mentions: mentions}, nil
}

// dropStopwordMentions discards single-word mentions whose text is a
// common English stopword — guards against an auto-generated alias
// (see pkg/classify/mentions.go's cast dictionary) accidentally
// colliding with ordinary prose, mirroring
// pkg/scanner/discovery.CandidateRegistry's stopwords-library gate.
func (d *Default) dropStopwordMentions(mentions []Mention) []Mention {
	if d.stop == nil {
		return mentions
	}
	out := mentions[:0:0]
	for _, m := range mentions {
		if !strings.Contains(m.Text, " ") && d.stop.Contains(strings.ToLower(m.Text)) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// assignRoles assigns the mention nearest before the verb (the last one
// preceding it) as Actor and every mention at or after the verb as
// Target; any earlier mentions before the verb get no role. When no
// mention precedes the verb and none follows it, the first mention is
// the Actor. A deliberately simple heuristic in the spirit of
// pkg/implication's AssignRoles "one Actor, remaining entities are
// Target" convention (spec §4.7), applied here to the classifier's raw
// text scan rather than to already-built participant references.
func assignRoles(mentions []Mention, verbPos int) []ParticipantCategory {
	var before, after []Mention
	for _, m := range mentions {
		if m.Start < verbPos {
			before = append(before, m)
		} else {
			after = append(after, m)
		}
	}

	var out []ParticipantCategory
	if len(before) > 0 {
		actor := before[len(before)-1]
		out = append(out, categoryFor(actor, event.RoleActor))
	}
	for _, m := range after {
		out = append(out, categoryFor(m, event.RoleTarget))
	}
	if len(out) == 0 && len(mentions) > 0 {
		out = append(out, categoryFor(mentions[0], event.RoleActor))
	}
	return out
}

func categoryFor(m Mention, role event.Role) ParticipantCategory {
	return ParticipantCategory{EntityID: m.EntityID, Role: role, Text: m.Text, Descriptors: m.Descriptors}
}

// confidenceFor derives a fixed base confidence per event kind, nudged
// down slightly when more than two participants compete for the same
// verb (more ambiguity, lower confidence).
func confidenceFor(kind event.Kind, participantCount int) float64 {
	base := 0.75
	switch kind {
	case event.KindSpeechAct, event.KindStateAssertion:
		base = 0.8
	case event.KindActionOccurrence:
		base = 0.7
	}
	if participantCount > 2 {
		base -= 0.1
	}
	return base
}
