package classify

import "strings"

// pos is a coarse part-of-speech tag, adapted from
// pkg/scanner/chunker's Tagger lexicon-plus-heuristics design (the
// original's POS type itself was not present in the retrieved pack, so
// the enum here is redefined from its usage sites in tagger.go).
type pos int

const (
	posOther pos = iota
	posVerb
	posNoun
	posDeterminer
	posAuxiliary
	posModal
	posPronoun
)

// tagger performs lightweight dictionary-plus-heuristic POS tagging,
// enough to locate the verb(s) in a sentence of player/narrator text.
type tagger struct {
	lexicon map[string]pos
}

func newTagger() *tagger {
	t := &tagger{lexicon: make(map[string]pos)}
	t.loadDefaultLexicon()
	return t
}

// verbs returns every word in text the tagger classifies as a verb, in
// order of appearance.
func (t *tagger) verbs(text string) []string {
	words := strings.Fields(text)
	var out []string
	for i, w := range words {
		clean := strings.Trim(w, ".,;:!?\"'")
		if clean == "" {
			continue
		}
		tag := t.tag(clean)
		prev := posOther
		if i > 0 {
			prev = t.tag(strings.Trim(words[i-1], ".,;:!?\"'"))
		}
		if prev == posDeterminer && tag == posVerb {
			continue // "the run" — ambiguous word forced to noun by a determiner
		}
		if tag == posVerb {
			out = append(out, clean)
		}
	}
	return out
}

func (t *tagger) tag(word string) pos {
	lower := strings.ToLower(word)
	if p, ok := t.lexicon[lower]; ok {
		return p
	}
	if strings.HasSuffix(lower, "ing") || strings.HasSuffix(lower, "ed") {
		return posVerb
	}
	return posOther
}

func (t *tagger) loadDefaultLexicon() {
	for _, w := range []string{"the", "a", "an", "this", "that", "these", "those", "his", "her", "its"} {
		t.lexicon[w] = posDeterminer
	}
	for _, w := range []string{"is", "are", "was", "were", "be", "been", "being", "am", "have", "has", "had"} {
		t.lexicon[w] = posAuxiliary
	}
	for _, w := range []string{"can", "could", "will", "would", "shall", "should", "may", "might", "must"} {
		t.lexicon[w] = posModal
	}
	for _, w := range []string{"i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them"} {
		t.lexicon[w] = posPronoun
	}
	for v := range verbEntries {
		t.lexicon[v] = posVerb
	}
	for _, w := range []string{"says", "said", "tells", "told", "asks", "asked", "speaks", "spoke",
		"shouts", "shouted", "whispers", "whispered", "yells", "yelled", "calls", "called",
		"attacks", "attacked", "fights", "fought", "kills", "killed", "approaches", "approached",
		"arrives", "arrived", "departs", "departed", "leaves", "left", "discovers", "discovered",
		"finds", "found", "learns", "learned", "sees", "saw", "watches", "watched", "observes", "observed",
		"trusts", "trusted", "betrays", "betrayed", "meets", "met", "becomes", "became"} {
		clean := stem(w)
		if _, ok := verbEntries[clean]; ok {
			t.lexicon[w] = posVerb
		}
	}
}
