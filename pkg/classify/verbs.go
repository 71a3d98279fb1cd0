package classify

import (
	"strings"

	"github.com/kittclouds/storyweave/pkg/event"
)

// verbEntries maps verb stems to the event kind they signal. Ported
// from pkg/scanner/narrative's VERB_ENTRIES table, collapsed from its
// (EventClass, RelationType, Transitivity) triple down to the
// event.Kind taxonomy this module actually ledgers, and backed by a
// plain map rather than an FST — justified in DESIGN.md (pkg/fst is
// absent from the retrieved pack and, at this dictionary's size, an FST
// buys nothing a map doesn't already give).
var verbEntries = map[string]event.Kind{
	// Speech/Dialogue
	"say": event.KindSpeechAct, "said": event.KindSpeechAct, "tell": event.KindSpeechAct,
	"told": event.KindSpeechAct, "ask": event.KindSpeechAct, "speak": event.KindSpeechAct,
	"spoke": event.KindSpeechAct, "shout": event.KindSpeechAct, "whisper": event.KindSpeechAct,
	"yell": event.KindSpeechAct, "call": event.KindSpeechAct, "claim": event.KindSpeechAct,
	"declar": event.KindSpeechAct, "explain": event.KindSpeechAct, "repli": event.KindSpeechAct,
	"state": event.KindSpeechAct, "suggest": event.KindSpeechAct, "mention": event.KindSpeechAct,
	"promis": event.KindSpeechAct, "threaten": event.KindSpeechAct, "accus": event.KindSpeechAct,
	"command": event.KindSpeechAct,

	// Action/Combat/Movement -> ActionOccurrence
	"attack": event.KindActionOccurrence, "battl": event.KindActionOccurrence,
	"defeat": event.KindActionOccurrence, "duel": event.KindActionOccurrence,
	"fight": event.KindActionOccurrence, "fought": event.KindActionOccurrence,
	"kill": event.KindActionOccurrence, "slay": event.KindActionOccurrence,
	"wound": event.KindActionOccurrence, "take": event.KindActionOccurrence,
	"give": event.KindActionOccurrence, "steal": event.KindActionOccurrence,
	"build": event.KindActionOccurrence, "creat": event.KindActionOccurrence,
	"destroy": event.KindActionOccurrence, "make": event.KindActionOccurrence,
	"help": event.KindActionOccurrence, "rescu": event.KindActionOccurrence,
	"sav": event.KindActionOccurrence,

	// Movement -> SpatialChange
	"approach": event.KindSpatialChange, "arriv": event.KindSpatialChange,
	"depart": event.KindSpatialChange, "enter": event.KindSpatialChange,
	"exit": event.KindSpatialChange, "journey": event.KindSpatialChange,
	"leav": event.KindSpatialChange, "sail": event.KindSpatialChange,
	"travel": event.KindSpatialChange, "visit": event.KindSpatialChange,
	"follow": event.KindSpatialChange,

	// Perception/Discovery -> InformationTransfer
	"discov": event.KindInformationTransfer, "find": event.KindInformationTransfer,
	"learn": event.KindInformationTransfer, "uncover": event.KindInformationTransfer,
	"reveal": event.KindInformationTransfer, "conceal": event.KindInformationTransfer,
	"hid": event.KindInformationTransfer, "notic": event.KindInformationTransfer,
	"observ": event.KindInformationTransfer, "see": event.KindInformationTransfer,
	"saw": event.KindInformationTransfer, "watch": event.KindInformationTransfer,
	"witness": event.KindInformationTransfer, "hear": event.KindInformationTransfer,
	"heard": event.KindInformationTransfer, "look": event.KindInformationTransfer,

	// Emotion -> EmotionalExpression
	"fear": event.KindEmotionalExpression, "hat": event.KindEmotionalExpression,
	"lov": event.KindEmotionalExpression, "admir": event.KindEmotionalExpression,

	// Relational -> RelationalShift
	"betray": event.KindEmotionalExpression, "trust": event.KindRelationalShift,
	"alli": event.KindRelationalShift, "friend": event.KindRelationalShift,
	"join": event.KindRelationalShift, "serv": event.KindRelationalShift,
	"support": event.KindRelationalShift, "meet": event.KindRelationalShift,
	"encount": event.KindRelationalShift, "deceiv": event.KindRelationalShift,

	// State/Copula -> StateAssertion
	"is": event.KindStateAssertion, "are": event.KindStateAssertion, "was": event.KindStateAssertion,
	"were": event.KindStateAssertion, "be": event.KindStateAssertion, "been": event.KindStateAssertion,
	"becam": event.KindStateAssertion, "became": event.KindStateAssertion,
	"become": event.KindStateAssertion, "transform": event.KindStateAssertion,
	"turn": event.KindStateAssertion,
}

// commonSuffixes mirrors the teacher's simplistic Porter-like stemmer
// suffix list.
var commonSuffixes = []string{"ing", "ed", "es", "s", "er", "tion", "ness"}

// stem applies the same lightweight suffix-stripping the teacher's
// NarrativeMatcher uses, since the verb table's stems are themselves
// stripped forms ("discov", "becam", "repli").
func stem(word string) string {
	lower := strings.ToLower(word)
	for _, suffix := range commonSuffixes {
		if strings.HasSuffix(lower, suffix) && len(lower) > len(suffix)+2 {
			return lower[:len(lower)-len(suffix)]
		}
	}
	return lower
}

// lookupVerb resolves a surface verb to its event kind, trying the verb
// itself, then its stemmed form, then that stem stemmed once more
// (irregular past tenses like "said" are entered directly; regular forms
// rely on stemming, and "discovering" needs two passes to reach
// "discov").
func lookupVerb(word string) (event.Kind, bool) {
	lower := strings.ToLower(word)
	if k, ok := verbEntries[lower]; ok {
		return k, true
	}
	stemmed := stem(word)
	if k, ok := verbEntries[stemmed]; ok {
		return k, true
	}
	k, ok := verbEntries[stem(stemmed)]
	return k, ok
}
