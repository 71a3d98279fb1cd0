// Package resolver implements the four-strategy conservative reference
// resolver (spec §4.6), ported from
// original_source/storyteller-core/src/promotion/resolution.rs.
package resolver

import (
	"strings"

	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/mention"
	"github.com/kittclouds/storyweave/pkg/reference"
)

// TrackedEntity is the scene-cast shape the resolver matches Unresolved
// references against.
type TrackedEntity struct {
	ID            id.ID
	CanonicalName string
	Descriptors   []string
	Possessor     *id.ID
}

// SceneContext is the set of tracked entities a turn's references are
// resolved against.
type SceneContext struct {
	Cast []TrackedEntity
}

// outcome is the tri-state a single strategy can return: the strategy
// had nothing to work with and the dispatcher should try the next one;
// the strategy had a hint but it was ambiguous, which halts the whole
// dispatch with no match; or the strategy found exactly one match.
type outcome int

const (
	notApplicable outcome = iota
	ambiguous
	unique
)

// Resolve dispatches ref against ctx. Resolved references pass through
// unchanged. Implicit references never resolve. Unresolved references
// try possessive, spatial, anaphoric, then descriptive strategies in
// order; the first unambiguous match wins; ambiguity at any strategy
// halts resolution and returns false, it does not fall through.
func Resolve(ref reference.Reference, ctx SceneContext) (id.ID, bool) {
	switch ref.Variant() {
	case reference.VariantResolved:
		eid, _ := ref.EntityID()
		return eid, true
	case reference.VariantImplicit:
		return id.Nil, false
	}

	_, refCtx, _ := ref.Mention()

	for _, strategy := range []func(reference.Reference, reference.Context, SceneContext) (id.ID, outcome){
		resolvePossessive,
		resolveSpatial,
		resolveAnaphoric,
		resolveDescriptive,
	} {
		match, result := strategy(ref, refCtx, ctx)
		switch result {
		case unique:
			return match, true
		case ambiguous:
			return id.Nil, false
		case notApplicable:
			continue
		}
	}
	return id.Nil, false
}

// resolvePossessive matches cast entities whose possessor equals the
// reference's Resolved possessor.
func resolvePossessive(_ reference.Reference, ctx reference.Context, scene SceneContext) (id.ID, outcome) {
	if ctx.Possessor == nil {
		return id.Nil, notApplicable
	}
	possessorID, ok := ctx.Possessor.EntityID()
	if !ok {
		return id.Nil, notApplicable
	}

	var matches []id.ID
	for _, c := range scene.Cast {
		if c.Possessor != nil && *c.Possessor == possessorID {
			matches = append(matches, c.ID)
		}
	}
	return resolveByCount(matches)
}

// resolveSpatial matches cast entities by normalised canonical name when
// the reference carries a spatial hint.
func resolveSpatial(ref reference.Reference, ctx reference.Context, scene SceneContext) (id.ID, outcome) {
	if ctx.SpatialHint == "" {
		return id.Nil, notApplicable
	}

	mentionText, _, _ := ref.Mention()
	key := mention.Normalize(mentionText)

	var matches []id.ID
	for _, c := range scene.Cast {
		if mention.Normalize(c.CanonicalName) == key {
			matches = append(matches, c.ID)
		}
	}
	return resolveByCount(matches)
}

// resolveAnaphoric is reserved and always returns None for this version:
// it requires ledger access (corpus-level lookup over prior atoms in the
// scene) that is not exposed to the resolver. Per the engine's recorded
// design decision, this stays an explicit no-op rather than inferring
// intent.
func resolveAnaphoric(reference.Reference, reference.Context, SceneContext) (id.ID, outcome) {
	return id.Nil, notApplicable
}

// resolveDescriptive first tries an exact normalised canonical-name
// match, then falls back to descriptor-overlap scoring: the winner must
// score strictly higher than every other candidate and above zero.
func resolveDescriptive(ref reference.Reference, ctx reference.Context, scene SceneContext) (id.ID, outcome) {
	mentionText, _, _ := ref.Mention()
	key := mention.Normalize(mentionText)

	var nameMatches []id.ID
	for _, c := range scene.Cast {
		if mention.Normalize(c.CanonicalName) == key {
			nameMatches = append(nameMatches, c.ID)
		}
	}
	if len(nameMatches) > 0 {
		return resolveByCount(nameMatches)
	}

	bestScore := -1
	bestCount := 0
	var bestID id.ID
	for _, c := range scene.Cast {
		score := descriptorOverlap(ctx.Descriptors, c.Descriptors)
		switch {
		case score > bestScore:
			bestScore = score
			bestCount = 1
			bestID = c.ID
		case score == bestScore:
			bestCount++
		}
	}

	if bestScore > 0 && bestCount == 1 {
		return bestID, unique
	}
	return id.Nil, ambiguous
}

func descriptorOverlap(want, have []string) int {
	haveSet := make(map[string]struct{}, len(have))
	for _, h := range have {
		haveSet[strings.ToLower(h)] = struct{}{}
	}
	count := 0
	for _, w := range want {
		if _, ok := haveSet[strings.ToLower(w)]; ok {
			count++
		}
	}
	return count
}

func resolveByCount(matches []id.ID) (id.ID, outcome) {
	switch len(matches) {
	case 0:
		return id.Nil, notApplicable
	case 1:
		return matches[0], unique
	default:
		return id.Nil, ambiguous
	}
}
