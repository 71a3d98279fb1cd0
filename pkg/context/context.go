// Package context implements the three-tier context assembler (spec
// §4.9): preamble (Tier 1, never trimmed), journal (Tier 2, never
// re-compressed here — compression is the journal's own job), and
// retrieved items (Tier 3, trimmed first and only, tail-first) under a
// single total token budget.
package context

import (
	"strings"

	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/journal"
	"github.com/kittclouds/storyweave/pkg/observer"
	"github.com/kittclouds/storyweave/pkg/scene"
	"github.com/kittclouds/storyweave/pkg/tokens"
)

// DefaultTotalTokenBudget is the default ceiling for an assembled
// narrator context when the caller does not override it.
const DefaultTotalTokenBudget = 2500

// NarratorContextInput is the fully assembled context handed to the
// narrator-rendering step.
type NarratorContextInput struct {
	Preamble            Preamble
	Journal             string
	Retrieved           []RetrievedItem
	ResolverOutput      any
	PlayerInputSummary  string
	EstimatedTokens     uint32
}

// Assemble builds the narrator context for the given scene, cast, and
// journal, applying the information boundary during retrieval and then
// trimming Tier-3 retrieved items — tail first — until the total fits
// totalBudget. The preamble and journal renderings are never altered
// here. A totalBudget of zero for the retrieved tier empties Retrieved
// entirely rather than leaving a partial item.
func Assemble(
	sceneData scene.Data,
	characters []*scene.CharacterSheet,
	referenced []id.ID,
	j *journal.Journal,
	resolverOutput any,
	playerInputSummary string,
	totalBudget uint32,
	obs observer.Observer,
) NarratorContextInput {
	preamble := BuildPreamble(sceneData, characters)
	preambleTokens := EstimatePreambleTokens(preamble)
	journalRendered := j.Render()
	journalTokens := j.EstimateTokens()

	retrieved := RetrieveContext(referenced, characters, sceneData, obs)

	budgetForRetrieved := int64(totalBudget) - int64(preambleTokens) - int64(journalTokens)
	trimmed := false

	var retrievedTokens uint32
	for _, item := range retrieved {
		retrievedTokens += tokens.Estimate(item.Content)
	}

	if budgetForRetrieved <= 0 {
		if len(retrieved) > 0 {
			trimmed = true
		}
		retrieved = nil
		retrievedTokens = 0
	} else {
		for int64(retrievedTokens) > budgetForRetrieved && len(retrieved) > 0 {
			trimmed = true
			last := retrieved[len(retrieved)-1]
			retrieved = retrieved[:len(retrieved)-1]
			retrievedTokens -= tokens.Estimate(last.Content)
		}
	}

	total := preambleTokens + journalTokens + retrievedTokens

	if obs != nil {
		obs.Emit(observer.Event{
			Stage: observer.StageAssemblingContext,
			Detail: observer.Detail{
				Kind:            observer.DetailContextAssembled,
				PreambleTokens:  preambleTokens,
				JournalTokens:   journalTokens,
				RetrievedTokens: retrievedTokens,
				TotalTokens:     total,
				Trimmed:         trimmed,
			},
		})
	}

	return NarratorContextInput{
		Preamble:           preamble,
		Journal:            journalRendered,
		Retrieved:          retrieved,
		ResolverOutput:     resolverOutput,
		PlayerInputSummary: playerInputSummary,
		EstimatedTokens:    total,
	}
}

// Render renders the full narrator-facing system prompt: preamble,
// journal, and retrieved items in that tier order.
func (n NarratorContextInput) Render() string {
	var b strings.Builder
	b.WriteString(n.Preamble.Render())
	b.WriteString("\n\n")
	b.WriteString(n.Journal)
	if len(n.Retrieved) > 0 {
		b.WriteString("\n\nRelevant context:\n")
		for _, item := range n.Retrieved {
			b.WriteString("- ")
			b.WriteString(item.Subject)
			b.WriteString(": ")
			b.WriteString(item.Content)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
