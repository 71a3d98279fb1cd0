// Package observer implements the phase-event bus: a pluggable,
// non-blocking emission point for structured phase events (spec §4.12,
// §9). No direct teacher equivalent exists (the teacher repo has no
// observability layer of its own); built in the teacher's general
// "interface + no-op + collecting-for-tests" idiom seen in
// internal/store.Storer's interface/implementation split.
package observer

import (
	"time"

	"github.com/kittclouds/storyweave/pkg/journal"
)

// Stage mirrors the pipeline's turn-cycle stage, kept here rather than
// importing pkg/pipeline to avoid a cycle (pipeline depends on
// observer, not the reverse).
type Stage int

const (
	StageAwaitingInput Stage = iota
	StageCommittingPrevious
	StageClassifying
	StagePredicting
	StageResolving
	StageAssemblingContext
	StageRendering
)

// DetailKind tags which variant Detail holds.
type DetailKind int

const (
	DetailPreambleBuilt DetailKind = iota
	DetailJournalEntryAdded
	DetailJournalCompressed
	DetailEntryCompressed
	DetailContextRetrieved
	DetailInformationBoundaryApplied
	DetailContextAssembled
	DetailPredictionsEnriched
	DetailNarratorPromptBuilt
	DetailNarratorRenderingComplete
)

// Detail carries the fields relevant to whichever DetailKind is set.
// Only the fields matching Kind are meaningful; this mirrors the
// teacher's flat-JSON-struct idiom (e.g. extraction.ExtractedEntity)
// rather than a Go-native tagged interface, since phase events are
// primarily meant to be serialised for observability sinks.
type Detail struct {
	Kind DetailKind

	// JournalCompressed / EntryCompressed
	TokensBefore      uint32
	TokensAfter       uint32
	EntriesCompressed int
	EntriesResisted   int
	FromLevel         journal.Level
	ToLevel           journal.Level

	// ContextRetrieved / InformationBoundaryApplied
	AvailableCount int
	PermittedCount int

	// ContextAssembled
	PreambleTokens  uint32
	JournalTokens   uint32
	RetrievedTokens uint32
	TotalTokens     uint32
	Trimmed         bool

	// NarratorRenderingComplete
	TokensUsed uint32
	ElapsedMS  int64

	Message string
}

// Event is a single typed phase event.
type Event struct {
	Timestamp  time.Time
	TurnNumber uint32
	Stage      Stage
	Detail     Detail
}

// Observer is the capability reference the pipeline holds. Emission
// must never block the emitter.
type Observer interface {
	Emit(Event)
}

// Noop drops every event. Used in production when no consumer is
// attached.
type Noop struct{}

func (Noop) Emit(Event) {}

// Collecting buffers every emitted event via a bounded, drop-oldest
// channel so a slow or absent consumer can never block the pipeline
// thread. Used by tests.
type Collecting struct {
	ch chan Event
}

// NewCollecting constructs a Collecting observer with the given buffer
// capacity. Once full, the oldest buffered event is dropped to make room
// for the new one (bounded queue, drop-oldest, per spec §5).
func NewCollecting(capacity int) *Collecting {
	if capacity <= 0 {
		capacity = 64
	}
	return &Collecting{ch: make(chan Event, capacity)}
}

func (c *Collecting) Emit(e Event) {
	select {
	case c.ch <- e:
	default:
		select {
		case <-c.ch:
		default:
		}
		select {
		case c.ch <- e:
		default:
		}
	}
}

// Take drains and returns every event currently buffered, in emission
// order.
func (c *Collecting) Take() []Event {
	var out []Event
	for {
		select {
		case e := <-c.ch:
			out = append(out, e)
		default:
			return out
		}
	}
}
