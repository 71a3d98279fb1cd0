// Package pipeline implements the turn pipeline state machine (spec
// §4.11): the cyclic AwaitingInput → CommittingPrevious → Classifying →
// Predicting → Resolving → AssemblingContext → Rendering →
// AwaitingInput cycle that drives a scene one player turn at a time.
// Ported from
// original_source/storyteller-core/src/types/turn_cycle.rs (stage enum
// and cyclic next()) and
// original_source/storyteller-engine/src/systems/turn_cycle.rs (stage
// gating, commit-before-classify ordering), adapted from a Bevy
// ECS-resource/system design to a single owned Go struct whose stages
// are plain methods, per DESIGN.md's "pkg/pipeline" ledger entry.
package pipeline

import (
	"context"
	"reflect"
	"time"

	"github.com/rs/zerolog"

	storycontext "github.com/kittclouds/storyweave/pkg/context"
	"github.com/kittclouds/storyweave/pkg/classify"
	"github.com/kittclouds/storyweave/pkg/engineerr"
	"github.com/kittclouds/storyweave/pkg/entity"
	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/grammar"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/journal"
	"github.com/kittclouds/storyweave/pkg/ledger"
	"github.com/kittclouds/storyweave/pkg/mention"
	"github.com/kittclouds/storyweave/pkg/observer"
	"github.com/kittclouds/storyweave/pkg/predictor"
	"github.com/kittclouds/storyweave/pkg/prediction"
	"github.com/kittclouds/storyweave/pkg/promotion"
	"github.com/kittclouds/storyweave/pkg/provider"
	"github.com/kittclouds/storyweave/pkg/scene"
	"github.com/kittclouds/storyweave/pkg/sequencer"
	"github.com/kittclouds/storyweave/pkg/workerpool"
)

// Stage is which step of the turn cycle is currently active.
// AwaitingInput is the rest state; no pipeline work runs there.
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

func (s Stage) String() string {
	switch s {
	case StageAwaitingInput:
		return "AwaitingInput"
	case StageCommittingPrevious:
		return "CommittingPrevious"
	case StageClassifying:
		return "Classifying"
	case StagePredicting:
		return "Predicting"
	case StageResolving:
		return "Resolving"
	case StageAssemblingContext:
		return "AssemblingContext"
	case StageRendering:
		return "Rendering"
	default:
		return "Unknown"
	}
}

// next advances to the following stage; Rendering wraps to AwaitingInput.
func (s Stage) next() Stage {
	switch s {
	case StageAwaitingInput:
		return StageCommittingPrevious
	case StageCommittingPrevious:
		return StageClassifying
	case StageClassifying:
		return StagePredicting
	case StagePredicting:
		return StageResolving
	case StageResolving:
		return StageAssemblingContext
	case StageAssemblingContext:
		return StageRendering
	default:
		return StageAwaitingInput
	}
}

func (s Stage) toObserverStage() observer.Stage { return observer.Stage(s) }

// Deps bundles the pipeline's external collaborators (spec §6) and
// construction-time configuration. Sequencer, Grammar, and Pool may be
// left nil; Pipeline substitutes sensible defaults (sequencer.Default,
// a nil grammar — tolerated since pkg/prediction.Enrich degrades
// gracefully — and a single-worker pool).
type Deps struct {
	Classifier classify.Classifier
	Predictor  predictor.Predictor
	Sequencer  sequencer.Sequencer
	Provider   provider.Provider
	Grammar    grammar.Grammar
	Pool       *workerpool.Pool
	Observer   observer.Observer
	Logger     zerolog.Logger

	TotalTokenBudget   uint32
	JournalTokenBudget uint32
	DemotionThresholds promotion.DemotionThresholds
}

// PendingInput is player text accepted by Submit but not yet classified.
type PendingInput struct {
	Text string
	Turn uint32
}

// ProvisionalOutputs are a turn's predictions and rendering, held until
// the following submit commits them to the ledger.
type ProvisionalOutputs struct {
	Turn           uint32
	PlayerInput    string
	Predictions    []prediction.EnrichedPrediction
	ResolverOutput sequencer.Output
	RenderedText   string
	TokensUsed     uint32
}

// CompletedTurn is returned to the caller once Rendering finishes.
type CompletedTurn struct {
	Turn       uint32
	Text       string
	TokensUsed uint32
}

type renderJob struct {
	done chan renderResult
}

type renderResult struct {
	result provider.Result
	err    error
}

// Pipeline owns every piece of state a scene's turn cycle touches:
// ledger, journal, mention index, entity tier board, and the active
// turn's working data. Nothing outside Pipeline holds a long-lived
// handle to these (spec §5, §9).
type Pipeline struct {
	deps  Deps
	scene scene.Data
	cast  []*scene.CharacterSheet

	ledger       *ledger.Ledger
	journal      *journal.Journal
	mentionIndex *mention.Index
	tiers        map[id.ID]entity.Tier

	stage      Stage
	turnNumber uint32
	pending    *PendingInput
	provisional *ProvisionalOutputs

	activeInput           string
	activeClassifyOutput  classify.Output
	activeEnriched        []prediction.EnrichedPrediction
	activeResolverOutput  sequencer.Output
	activeContextInput    storycontext.NarratorContextInput

	render *renderJob
}

// New constructs a Pipeline for a single scene, starting at
// AwaitingInput with an empty ledger, journal, and mention index.
func New(sceneData scene.Data, cast []*scene.CharacterSheet, deps Deps) *Pipeline {
	if deps.Sequencer == nil {
		deps.Sequencer = sequencer.NewDefault()
	}
	if deps.Pool == nil {
		deps.Pool = workerpool.New(1)
		if !reflect.DeepEqual(deps.Logger, zerolog.Logger{}) {
			deps.Pool.WithLogger(deps.Logger)
		}
	}
	if deps.Observer == nil {
		deps.Observer = observer.Noop{}
	}
	if deps.TotalTokenBudget == 0 {
		deps.TotalTokenBudget = storycontext.DefaultTotalTokenBudget
	}
	if reflect.DeepEqual(deps.Logger, zerolog.Logger{}) {
		deps.Logger = zerolog.Nop()
	}

	return &Pipeline{
		deps:         deps,
		scene:        sceneData,
		cast:         cast,
		ledger:       ledger.New(),
		journal:      journal.New(sceneData.ID, deps.JournalTokenBudget),
		mentionIndex: mention.New(),
		tiers:        make(map[id.ID]entity.Tier),
		stage:        StageAwaitingInput,
	}
}

// Stage reports the pipeline's current stage.
func (p *Pipeline) Stage() Stage { return p.stage }

// Ledger exposes the owned ledger for read-only inspection (e.g. by a
// storage adapter flushing committed atoms); callers must not retain it
// past the current call.
func (p *Pipeline) Ledger() *ledger.Ledger { return p.ledger }

// Tier reports the promoter's current tier for an entity, or
// TierUnmentioned if the entity has never appeared as a participant.
func (p *Pipeline) Tier(entityID id.ID) entity.Tier { return p.tiers[entityID] }

// Submit accepts new player input. It is rejected with a Busy error
// unless the pipeline is AwaitingInput. On success it drives every
// synchronous stage (CommittingPrevious through AssemblingContext) and
// spawns the asynchronous Rendering call, returning once that call has
// been dispatched — not once it has completed. Callers obtain the
// finished turn via Await.
func (p *Pipeline) Submit(ctx context.Context, text string) error {
	if p.stage != StageAwaitingInput {
		p.deps.Logger.Debug().Stringer("stage", p.stage).Msg("pipeline: submit rejected, busy")
		return engineerr.New(engineerr.KindBusy, "pipeline is not awaiting input")
	}

	p.pending = &PendingInput{Text: text, Turn: p.turnNumber + 1}

	if err := p.advance(ctx, StageCommittingPrevious, p.runCommittingPrevious); err != nil {
		return err
	}
	if err := p.advance(ctx, StageClassifying, p.runClassifying); err != nil {
		return err
	}
	if err := p.advance(ctx, StagePredicting, p.runPredicting); err != nil {
		return err
	}
	if err := p.advance(ctx, StageResolving, p.runResolving); err != nil {
		return err
	}

	p.stage = StageAssemblingContext
	p.deps.Logger.Debug().Uint32("turn", p.pending.Turn).Stringer("stage", p.stage).Msg("pipeline: stage")
	p.runAssemblingContext()

	p.stage = StageRendering
	p.deps.Logger.Debug().Uint32("turn", p.pending.Turn).Stringer("stage", p.stage).Msg("pipeline: stage")
	p.startRendering(ctx)
	return nil
}

// advance moves to stage, runs it, and on error resets to AwaitingInput.
func (p *Pipeline) advance(ctx context.Context, stage Stage, run func(context.Context) error) error {
	p.stage = stage
	p.deps.Logger.Debug().Uint32("turn", p.pending.Turn).Stringer("stage", stage).Msg("pipeline: stage")
	if err := run(ctx); err != nil {
		p.deps.Logger.Error().Err(err).Stringer("stage", stage).Msg("pipeline: stage failed")
		p.stage = StageAwaitingInput
		return err
	}
	return nil
}

// Await blocks (respecting ctx) until the in-flight Rendering call
// completes, then advances the pipeline back to AwaitingInput. On
// provider error the previous turn's provisional outputs are preserved
// untouched and the caller's error wraps KindProvider; the pipeline is
// left consistent and ready for the next Submit.
func (p *Pipeline) Await(ctx context.Context) (CompletedTurn, error) {
	if p.stage != StageRendering || p.render == nil {
		return CompletedTurn{}, engineerr.New(engineerr.KindConfig, "no rendering is in flight")
	}

	start := time.Now()
	select {
	case res := <-p.render.done:
		p.render = nil
		p.stage = StageAwaitingInput
		if res.err != nil {
			p.deps.Logger.Error().Err(res.err).Msg("pipeline: rendering failed")
			return CompletedTurn{}, engineerr.Wrap(engineerr.KindProvider, "narrator", "rendering failed", res.err)
		}

		p.turnNumber = p.pending.Turn
		p.provisional = &ProvisionalOutputs{
			Turn:           p.turnNumber,
			PlayerInput:    p.pending.Text,
			Predictions:    p.activeEnriched,
			ResolverOutput: p.activeResolverOutput,
			RenderedText:   res.result.Text,
			TokensUsed:     res.result.TokensUsed,
		}

		p.deps.Observer.Emit(observer.Event{
			Timestamp: time.Now(), TurnNumber: p.turnNumber, Stage: observer.StageRendering,
			Detail: observer.Detail{
				Kind:       observer.DetailNarratorRenderingComplete,
				TokensUsed: res.result.TokensUsed,
				ElapsedMS:  time.Since(start).Milliseconds(),
			},
		})

		return CompletedTurn{Turn: p.turnNumber, Text: res.result.Text, TokensUsed: res.result.TokensUsed}, nil
	case <-ctx.Done():
		return CompletedTurn{}, ctx.Err()
	}
}

func (p *Pipeline) emit(stage Stage, detail observer.Detail) {
	p.deps.Observer.Emit(observer.Event{
		Timestamp: time.Now(), TurnNumber: p.pending.Turn, Stage: stage.toObserverStage(), Detail: detail,
	})
}

// emotionalMarkersOf returns a fixed marker slice when evs contains an
// EmotionalExpression or RelationalShift event, signalling the journal
// compressor to resist compressing this entry.
func emotionalMarkersOf(evs []classify.ClassifiedEvent) []string {
	for _, e := range evs {
		if e.Kind == event.KindEmotionalExpression || e.Kind == event.KindRelationalShift {
			return []string{"emotional"}
		}
	}
	return nil
}
