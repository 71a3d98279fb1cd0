// Package journal implements the scene journal: compression-by-recency
// over an ordered per-turn entry list (spec §4.8), ported from
// original_source/storyteller-engine/src/context/journal.rs.
package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/tokens"
)

// Level is the compression level of a journal entry. The numeric
// ordering tracks compression amount (not recency): Full is least
// compressed, Skeleton most. Compression only ever moves a entry's
// level to a numerically greater value.
type Level int

const (
	LevelFull Level = iota
	LevelSummary
	LevelSkeleton
)

func (l Level) String() string {
	switch l {
	case LevelFull:
		return "full"
	case LevelSummary:
		return "summary"
	case LevelSkeleton:
		return "skeleton"
	default:
		return "unknown"
	}
}

// Entry is a single compressible turn entry. Original holds the
// pristine, never-compressed content so repeated compression passes
// always derive from the source text rather than an already-truncated
// one.
type Entry struct {
	TurnNumber         uint32
	Timestamp          time.Time
	Level              Level
	Content            string
	Original           string
	ReferencedEntities []id.ID
	EmotionalMarkers   []string
}

const emptySentinel = "[Scene just began — no prior turns.]"

// Journal is a scene identifier plus an ordered sequence of entries and
// a Tier-2 token budget.
type Journal struct {
	SceneID     id.ID
	Entries     []Entry
	TokenBudget uint32
}

// New constructs an empty journal for scene with the given Tier-2 token
// budget.
func New(scene id.ID, tokenBudget uint32) *Journal {
	return &Journal{SceneID: scene, TokenBudget: tokenBudget}
}

// AddTurn appends a Full entry for turnNumber then runs compression over
// the whole entry list.
func (j *Journal) AddTurn(turnNumber uint32, content string, referenced []id.ID, markers []string) {
	j.Entries = append(j.Entries, Entry{
		TurnNumber:         turnNumber,
		Timestamp:          time.Now(),
		Level:              LevelFull,
		Content:            content,
		Original:           content,
		ReferencedEntities: referenced,
		EmotionalMarkers:   markers,
	})
	j.compress()
}

// compress applies the recency-based compression target to every entry,
// resisting one level for entries with at least one emotional marker,
// and only ever moving an entry to a more compressed level.
func (j *Journal) compress() {
	last := len(j.Entries) - 1
	for i := range j.Entries {
		distance := last - i
		hasMarker := len(j.Entries[i].EmotionalMarkers) > 0
		target := targetLevel(distance, hasMarker)
		if target > j.Entries[i].Level {
			j.Entries[i].Level = target
			j.Entries[i].Content = compressContent(target, j.Entries[i].Original)
		}
	}
}

// targetLevel computes the recency-based compression target, resisting
// one level (Skeleton->Summary, Summary->Full) when the entry carries an
// emotional marker.
func targetLevel(distance int, hasMarker bool) Level {
	var base Level
	switch {
	case distance == 0:
		base = LevelFull
	case distance <= 2:
		base = LevelSummary
	default:
		base = LevelSkeleton
	}
	if hasMarker && base > LevelFull {
		base--
	}
	return base
}

// compressContent rewrites content for the given target level. Summary
// keeps the first sentence (up to the first ". ", inclusive) or the
// first 100 characters; Skeleton keeps the first clause (up to the
// first ", " or ". ", not inclusive) or the first 50 characters.
func compressContent(target Level, content string) string {
	switch target {
	case LevelSummary:
		if idx := strings.Index(content, ". "); idx >= 0 {
			return content[:idx+2]
		}
		if len(content) > 100 {
			return content[:100]
		}
		return content
	case LevelSkeleton:
		cutAt := -1
		for _, sep := range []string{", ", ". "} {
			if idx := strings.Index(content, sep); idx >= 0 && (cutAt == -1 || idx < cutAt) {
				cutAt = idx
			}
		}
		if cutAt >= 0 {
			return content[:cutAt]
		}
		if len(content) > 50 {
			return content[:50]
		}
		return content
	default:
		return content
	}
}

// EstimateTokens sums the token estimator over every entry's current
// content.
func (j *Journal) EstimateTokens() uint32 {
	var total uint32
	for _, e := range j.Entries {
		total += tokens.Estimate(e.Content)
	}
	return total
}

// TurnCount returns the number of entries currently held.
func (j *Journal) TurnCount() int {
	return len(j.Entries)
}

// Render produces the chronological narrator-facing rendering: `Turn
// N[ [summary]|[skeleton]]: content`. An empty journal renders the fixed
// sentinel string instead.
func (j *Journal) Render() string {
	if len(j.Entries) == 0 {
		return emptySentinel
	}

	lines := make([]string, 0, len(j.Entries))
	for _, e := range j.Entries {
		switch e.Level {
		case LevelSummary:
			lines = append(lines, fmt.Sprintf("Turn %d [summary]: %s", e.TurnNumber, e.Content))
		case LevelSkeleton:
			lines = append(lines, fmt.Sprintf("Turn %d [skeleton]: %s", e.TurnNumber, e.Content))
		default:
			lines = append(lines, fmt.Sprintf("Turn %d: %s", e.TurnNumber, e.Content))
		}
	}
	return strings.Join(lines, "\n")
}
