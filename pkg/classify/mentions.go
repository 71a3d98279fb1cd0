package classify

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"

	"github.com/kittclouds/storyweave/pkg/id"
)

// isJoiner reports punctuation that commonly appears inside names
// ("Monkey D. Luffy", "O'Brien", "Jean-Luc") and should be preserved
// during canonicalization rather than treated as a token boundary.
func isJoiner(r rune) bool {
	switch r {
	case '\'', '’', '‘', '-', '–', '—', '.', '_':
		return true
	default:
		return false
	}
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !isJoiner(r)
}

// canonicalizeForMatch lowercases, folds curly quotes/dashes to their
// plain forms, and collapses runs of separators to a single space — the
// same normalization used for both pattern compilation and scanning so
// offsets line up.
func canonicalizeForMatch(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	lastWasSpace := true

	for _, ch := range s {
		c := unicode.ToLower(ch)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if c == '–' || c == '—' {
			c = '-'
		}
		if unicode.IsLetter(c) || unicode.IsDigit(c) || isJoiner(c) {
			out.WriteRune(c)
			lastWasSpace = false
		} else if !lastWasSpace {
			out.WriteRune(' ')
			lastWasSpace = true
		}
	}

	result := out.String()
	return strings.TrimRight(result, " ")
}

// buildOffsetMap maps each byte position in the canonicalized string
// back to the corresponding byte position in original.
func buildOffsetMap(original string) []int {
	mapping := make([]int, 0, len(original)+1)
	lastWasSpace := true
	origPos := 0

	for _, ch := range original {
		runeLen := utf8.RuneLen(ch)
		c := unicode.ToLower(ch)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if c == '–' || c == '—' {
			c = '-'
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) || isJoiner(c) {
			canonLen := utf8.RuneLen(c)
			for i := 0; i < canonLen; i++ {
				mapping = append(mapping, origPos)
			}
			lastWasSpace = false
		} else if !lastWasSpace {
			mapping = append(mapping, origPos)
			lastWasSpace = true
		}

		origPos += runeLen
	}

	mapping = append(mapping, origPos)
	return mapping
}

func mapOffset(canonOffset int, mapping []int, originalLen int) int {
	if canonOffset >= len(mapping) {
		return originalLen
	}
	if canonOffset < 0 {
		return 0
	}
	return mapping[canonOffset]
}

// castDictionary is a single Aho-Corasick automaton over every cast
// member's name and aliases, built fresh per classify call since casts
// are small and scene-scoped.
type castDictionary struct {
	ac           *ahocorasick.Automaton
	patternToID  []id.ID
	patterns     []string
}

func compileCastDictionary(cast []CastMember) (*castDictionary, error) {
	d := &castDictionary{}
	seen := make(map[string]int)

	for _, c := range cast {
		surfaces := append([]string{c.Name}, c.Aliases...)
		for _, surface := range surfaces {
			key := canonicalizeForMatch(surface)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = len(d.patterns)
			d.patterns = append(d.patterns, key)
			d.patternToID = append(d.patternToID, c.ID)
		}
	}

	if len(d.patterns) == 0 {
		return d, nil
	}

	automaton, err := ahocorasick.NewBuilder().
		AddStrings(d.patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	d.ac = automaton
	return d, nil
}

// genericNouns is the fixed, bounded set of role/title nouns the
// classifier recognises as a possible reference to an as-yet-unnamed
// cast member, always introduced by a definite article ("the
// captain"). This is deliberately not a general noun-phrase chunker —
// just enough surface vocabulary to let an Unresolved mention ever
// reach the pipeline (spec §4.4) without a full NLP dependency.
var genericNouns = []string{
	"captain", "guard", "stranger", "sailor", "officer", "crew",
	"dockhand", "merchant", "soldier", "innkeeper", "messenger",
}

// scanGeneric finds every "the <genericNoun>" span in text that does
// not overlap an already-matched cast mention, tagging each as
// MentionOther with EntityID left id.Nil and Descriptors set to the
// bare noun.
func scanGeneric(text string, castMentions []Mention) []Mention {
	lower := strings.ToLower(text)
	var out []Mention

	for _, noun := range genericNouns {
		phrase := "the " + noun
		searchFrom := 0
		for {
			idx := strings.Index(lower[searchFrom:], phrase)
			if idx < 0 {
				break
			}
			start := searchFrom + idx
			end := start + len(phrase)
			searchFrom = end

			if overlapsAny(start, end, castMentions) {
				continue
			}
			out = append(out, Mention{
				Text:        text[start:end],
				Start:       start,
				End:         end,
				Kind:        MentionOther,
				EntityID:    id.Nil,
				Descriptors: []string{noun},
			})
		}
	}
	return out
}

func overlapsAny(start, end int, mentions []Mention) bool {
	for _, m := range mentions {
		if start < m.End && end > m.Start {
			return true
		}
	}
	return false
}

// scan finds every cast mention in text, with offsets mapped back to
// the original (non-canonicalized) text.
func (d *castDictionary) scan(text string) []Mention {
	if d.ac == nil {
		return nil
	}

	canonical := canonicalizeForMatch(text)
	offsetMap := buildOffsetMap(text)

	matches := d.ac.FindAllOverlapping([]byte(canonical))
	out := make([]Mention, 0, len(matches))
	for _, m := range matches {
		start := mapOffset(m.Start, offsetMap, len(text))
		end := mapOffset(m.End, offsetMap, len(text))
		if start >= len(text) || end > len(text) || start >= end {
			continue
		}
		out = append(out, Mention{
			Text:     text[start:end],
			Start:    start,
			End:      end,
			Kind:     MentionCharacter,
			EntityID: d.patternToID[m.PatternID],
		})
	}
	return out
}
