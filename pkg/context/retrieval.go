package context

import (
	"regexp"
	"strings"

	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/observer"
	"github.com/kittclouds/storyweave/pkg/scene"
)

// RetrievedItem is one Tier-3 retrieval result.
type RetrievedItem struct {
	Subject             string
	Content             string
	Revealed            bool
	EmotionalAnnotation string
	SourceEntities      []id.ID
}

var parenthetical = regexp.MustCompile(`\([^)]*\)`)

// IsBoundaryViolation reports whether content, revealed as revealed,
// violates any doesNotKnow entry: NOT revealed AND, for some entry
// (stripped of its parenthetical), the count of shared significant
// (len > 3) keywords is >= len(keywords)/2 (integer division) — exactly
// half also counts as a violation.
func IsBoundaryViolation(content string, revealed bool, doesNotKnow []scene.KnowledgeItem) bool {
	if revealed {
		return false
	}
	lowerContent := strings.ToLower(content)
	for _, entry := range doesNotKnow {
		stripped := parenthetical.ReplaceAllString(entry.Content, "")
		keywords := significantKeywords(stripped)
		if len(keywords) == 0 {
			continue
		}
		overlap := 0
		for _, kw := range keywords {
			if strings.Contains(lowerContent, kw) {
				overlap++
			}
		}
		if overlap >= len(keywords)/2 {
			return true
		}
	}
	return false
}

func significantKeywords(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	out := fields[:0:0]
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'")
		if len(f) > 3 {
			out = append(out, f)
		}
	}
	return out
}

func firstParagraphOrChars(s string, maxChars int) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n\n"); idx >= 0 {
		return s[:idx]
	}
	if len(s) > maxChars {
		return s[:maxChars]
	}
	return s
}

// RetrieveContext walks each referenced entity's character sheet,
// extracting backstory, revealed knowledge, a performance-note summary,
// unrevealed self-edge patterns, and stake lines mentioning the
// character, applying that character's own information boundary to the
// unrevealed self-edge entries (spec §4.9 step 3, invariant 6).
func RetrieveContext(referenced []id.ID, characters []*scene.CharacterSheet, sceneData scene.Data, obs observer.Observer) []RetrievedItem {
	wanted := make(map[id.ID]struct{}, len(referenced))
	for _, r := range referenced {
		wanted[r] = struct{}{}
	}

	var out []RetrievedItem
	available, permitted := 0, 0

	for _, c := range characters {
		if _, ok := wanted[c.ID]; !ok {
			continue
		}

		raw := extractRawItems(c, sceneData)
		available += len(raw)
		for _, item := range raw {
			if IsBoundaryViolation(item.Content, item.Revealed, c.DoesNotKnow) {
				continue
			}
			permitted++
			out = append(out, item)
		}
	}

	if obs != nil {
		obs.Emit(observer.Event{
			Stage: observer.StageAssemblingContext,
			Detail: observer.Detail{
				Kind:           observer.DetailContextRetrieved,
				AvailableCount: available,
				PermittedCount: permitted,
			},
		})
		obs.Emit(observer.Event{
			Stage: observer.StageAssemblingContext,
			Detail: observer.Detail{
				Kind:           observer.DetailInformationBoundaryApplied,
				AvailableCount: available,
				PermittedCount: permitted,
			},
		})
	}

	return out
}

func extractRawItems(c *scene.CharacterSheet, sceneData scene.Data) []RetrievedItem {
	var items []RetrievedItem

	if c.Backstory != "" {
		items = append(items, RetrievedItem{
			Subject:        c.Name,
			Content:        firstParagraphOrChars(c.Backstory, 200),
			Revealed:       true,
			SourceEntities: []id.ID{c.ID},
		})
	}

	for _, k := range c.Knows {
		if !k.Revealed {
			continue
		}
		items = append(items, RetrievedItem{
			Subject:        c.Name,
			Content:        k.Content,
			Revealed:       true,
			SourceEntities: []id.ID{c.ID},
		})
	}

	if c.PerformanceNotes != "" {
		items = append(items, RetrievedItem{
			Subject:        c.Name,
			Content:        firstParagraphOrChars(c.PerformanceNotes, 200),
			Revealed:       true,
			SourceEntities: []id.ID{c.ID},
		})
	}

	for _, se := range c.SelfEdge {
		if se.Revealed {
			continue
		}
		items = append(items, RetrievedItem{
			Subject:             c.Name,
			Content:             se.Content,
			Revealed:            false,
			EmotionalAnnotation: se.EmotionalContext,
			SourceEntities:      []id.ID{c.ID},
		})
	}

	for _, line := range sceneData.Stakes {
		if strings.Contains(line, c.Name) {
			items = append(items, RetrievedItem{
				Subject:        c.Name,
				Content:        line,
				Revealed:       true,
				SourceEntities: []id.ID{c.ID},
			})
		}
	}

	return items
}
