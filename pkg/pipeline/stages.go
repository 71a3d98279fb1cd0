package pipeline

import (
	"context"
	"strings"

	storycontext "github.com/kittclouds/storyweave/pkg/context"
	"github.com/kittclouds/storyweave/pkg/classify"
	"github.com/kittclouds/storyweave/pkg/engineerr"
	"github.com/kittclouds/storyweave/pkg/entity"
	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/implication"
	"github.com/kittclouds/storyweave/pkg/mention"
	"github.com/kittclouds/storyweave/pkg/observer"
	"github.com/kittclouds/storyweave/pkg/predictor"
	"github.com/kittclouds/storyweave/pkg/prediction"
	"github.com/kittclouds/storyweave/pkg/promotion"
	"github.com/kittclouds/storyweave/pkg/provider"
	"github.com/kittclouds/storyweave/pkg/reference"
	"github.com/kittclouds/storyweave/pkg/resolver"
	"github.com/kittclouds/storyweave/pkg/scene"
	"github.com/kittclouds/storyweave/pkg/workerpool"
)

// referenceFor builds the reference a classified participant carries
// forward: Resolved when the classifier matched a known cast member,
// Unresolved (with surface text and descriptors) otherwise.
func referenceFor(pc classify.ParticipantCategory, sceneID id.ID, turn uint32) reference.Reference {
	if pc.EntityID != id.Nil {
		return reference.Resolved(pc.EntityID)
	}
	return reference.Unresolved(pc.Text, reference.Context{
		Descriptors: pc.Descriptors,
		Scene:       sceneID,
		Turn:        turn,
	})
}

// runCommittingPrevious implements spec §4.11's CommittingPrevious
// stage: on the first turn of a scene this is a no-op beyond moving the
// pending input into the active context. Otherwise it classifies the
// just-completed turn (previous rendering plus the player input that
// preceded it), appends the resulting atoms to the ledger, runs the
// promoter over each newly touched entity, detects compound events, and
// appends a journal entry carrying the previous rendering's text.
func (p *Pipeline) runCommittingPrevious(ctx context.Context) error {
	if p.provisional == nil {
		p.activeInput = p.pending.Text
		return nil
	}

	prev := p.provisional
	combinedText := prev.RenderedText
	if prev.PlayerInput != "" {
		combinedText = prev.PlayerInput + "\n" + prev.RenderedText
	}

	out, err := p.deps.Classifier.Classify(ctx, combinedText, p.scene.ID, p.castMembers())
	if err != nil {
		return engineerr.Wrap(engineerr.KindClassifier, "classifier", "commit-previous classification failed", err)
	}

	var atoms []event.Atom
	for _, ev := range out.Events {
		atom := atomFromClassifiedEvent(ev, p.scene.ID, prev.Turn)
		if err := p.ledger.Append(atom); err != nil {
			return err
		}
		atoms = append(atoms, atom)
		p.updateTiers(atom)
		p.reconcileMentions(atom)
	}

	for _, c := range detectCompounds(atoms) {
		if _, err := p.ledger.AppendCompound([]id.ID{c.first, c.second}, c.composition); err != nil {
			return err
		}
	}

	p.journal.AddTurn(prev.Turn, prev.RenderedText, referencedFromMentions(out.Mentions), emotionalMarkersOf(out.Events))
	p.emit(StageCommittingPrevious, observer.Detail{Kind: observer.DetailJournalEntryAdded})

	p.activeInput = p.pending.Text
	return nil
}

// reconcileMentions tries to resolve every Unresolved participant in
// atom against the cast members currently at TierTracked or above
// (spec §4.6). A successful resolution retroactively promotes any
// earlier mention sharing the same normalised text out of the mention
// index (spec §4.5, invariant 3); a failed one inserts this occurrence
// so a later resolution can find it.
func (p *Pipeline) reconcileMentions(atom event.Atom) {
	tracked := p.trackedCast()

	for i, participant := range atom.Participants {
		text, _, ok := participant.Reference.Mention()
		if !ok {
			continue
		}

		entityID, resolved := resolver.Resolve(participant.Reference, resolver.SceneContext{Cast: tracked})
		if resolved {
			for _, rec := range promotion.Promote(p.mentionIndex, entityID, text) {
				p.deps.Logger.Debug().
					Str("mention", rec.OriginalMention).
					Str("resolvedTo", rec.ResolvedTo.String()).
					Uint32("mentionTurn", rec.MentionTurn).
					Msg("pipeline: retroactively promoted mention")
			}
			continue
		}

		p.mentionIndex.Insert(mention.Unresolved{
			AtomID: atom.ID, ParticipantIndex: i, Text: text, Turn: atom.Turn,
		})
	}
}

// trackedCast returns every cast member currently at TierTracked or
// above as a resolver.TrackedEntity, carrying the authored descriptors
// from the scene's cast entry.
func (p *Pipeline) trackedCast() []resolver.TrackedEntity {
	descriptors := make(map[id.ID][]string, len(p.scene.Cast))
	for _, c := range p.scene.Cast {
		descriptors[c.ID] = c.Descriptors
	}

	var out []resolver.TrackedEntity
	for _, c := range p.cast {
		if p.tiers[c.ID] < entity.TierTracked {
			continue
		}
		out = append(out, resolver.TrackedEntity{
			ID: c.ID, CanonicalName: c.Name, Descriptors: descriptors[c.ID],
		})
	}
	return out
}

// updateTiers recomputes and records the promoter's tier for every
// entity participant in atom, scanning the ledger fresh each time since
// atoms are immutable and weight is purely a function of ledger content
// (spec §4.5).
func (p *Pipeline) updateTiers(atom event.Atom) {
	sceneAtoms := p.ledger.Scan(p.scene.ID)
	for _, participant := range atom.Participants {
		eid, ok := participant.Reference.EntityID()
		if !ok {
			continue
		}
		key := promotion.RefKey(participant.Reference)
		w := promotion.ComputeWeight(key, sceneAtoms, "", 0)
		current := p.tiers[eid]
		p.tiers[eid] = promotion.DetermineTier(w, current, entity.TierUnmentioned)
	}
}

// atomFromClassifiedEvent converts one classified event into an
// immutable ledger atom, inferring its relational implications via the
// deterministic (event kind × roles) table. A participant the
// classifier could not match to a known cast member (EntityID ==
// id.Nil) becomes an Unresolved reference carrying its surface text and
// descriptors (spec §4.4), rather than a Resolved reference to the nil
// entity.
func atomFromClassifiedEvent(ev classify.ClassifiedEvent, sceneID id.ID, turn uint32) event.Atom {
	participants := make([]event.Participant, len(ev.Participants))
	for i, pc := range ev.Participants {
		participants[i] = event.Participant{Reference: referenceFor(pc, sceneID, turn), Role: pc.Role}
	}

	return event.Atom{
		ID:           id.New(),
		Kind:         ev.Kind,
		Participants: participants,
		Implications: implication.Infer(ev.Kind, participants, ev.Confidence, 0),
		Provenance:   event.Provenance{Kind: event.ProvenanceSystem, ComponentName: "commit-previous"},
		Confidence:   event.Confidence{Value: ev.Confidence, Evidence: "classifier"},
		Priority:     event.PriorityNormal,
		Scene:        sceneID,
		Turn:         turn,
	}
}

func referencedFromMentions(mentions []classify.Mention) []id.ID {
	seen := make(map[id.ID]struct{})
	var out []id.ID
	for _, m := range mentions {
		if m.EntityID == id.Nil {
			continue
		}
		if _, ok := seen[m.EntityID]; ok {
			continue
		}
		seen[m.EntityID] = struct{}{}
		out = append(out, m.EntityID)
	}
	return out
}

func (p *Pipeline) castMembers() []classify.CastMember {
	out := make([]classify.CastMember, 0, len(p.scene.Cast))
	for _, c := range p.scene.Cast {
		out = append(out, classify.CastMember{ID: c.ID, Name: c.Name})
	}
	return out
}

// runClassifying implements the Classifying stage: the external
// classifier runs once over the active player input.
func (p *Pipeline) runClassifying(ctx context.Context) error {
	out, err := p.deps.Classifier.Classify(ctx, p.activeInput, p.scene.ID, p.castMembers())
	if err != nil {
		return engineerr.Wrap(engineerr.KindClassifier, "classifier", "turn classification failed", err)
	}
	p.activeClassifyOutput = out
	return nil
}

// runPredicting implements the Predicting stage: the predictor runs
// once per cast character, dispatched across the worker pool, then each
// raw prediction is deterministically enriched.
func (p *Pipeline) runPredicting(ctx context.Context) error {
	features := deriveEventFeatures(p.activeClassifyOutput)
	sceneFeatures := predictor.SceneFeatures{SceneType: p.scene.SceneType, CastSize: len(p.scene.Cast), Tension: 0.5}

	raws, err := workerpool.Map(ctx, p.deps.Pool, p.cast, func(ctx context.Context, c *scene.CharacterSheet) (predictor.RawPrediction, error) {
		return p.deps.Predictor.Predict(ctx, predictor.Request{
			Character: *c,
			Scene:     sceneFeatures,
			Event:     features,
		})
	})
	if err != nil {
		return engineerr.Wrap(engineerr.KindPredictor, "predictor", "character prediction failed", err)
	}

	enriched := make([]prediction.EnrichedPrediction, 0, len(raws))
	for i, raw := range raws {
		enriched = append(enriched, prediction.Enrich(raw, p.cast[i], p.scene, p.deps.Grammar))
	}
	p.activeEnriched = enriched

	p.emit(StagePredicting, observer.Detail{Kind: observer.DetailPredictionsEnriched})
	return nil
}

// deriveEventFeatures summarises a classifier output into the coarse
// scene-level signal the predictor consults.
func deriveEventFeatures(out classify.Output) predictor.EventFeatures {
	if len(out.Events) == 0 {
		return predictor.EventFeatures{EventType: "none", EmotionalRegister: "neutral"}
	}

	var confidenceSum float64
	targetCount := 0
	charged := false
	for _, ev := range out.Events {
		confidenceSum += ev.Confidence
		if ev.Kind == event.KindEmotionalExpression || ev.Kind == event.KindRelationalShift {
			charged = true
		}
		for _, pc := range ev.Participants {
			if pc.Role == event.RoleTarget {
				targetCount++
			}
		}
	}

	register := "neutral"
	if charged {
		register = "charged"
	}

	return predictor.EventFeatures{
		EventType:         out.Events[0].Kind.String(),
		EmotionalRegister: register,
		Confidence:        confidenceSum / float64(len(out.Events)),
		TargetCount:       targetCount,
	}
}

// runResolving implements the Resolving stage: the sequencer orders
// this turn's enriched predictions into the ResolverOutput the context
// assembler and narrator prompt consume.
func (p *Pipeline) runResolving(ctx context.Context) error {
	out, err := p.deps.Sequencer.Sequence(ctx, p.activeEnriched)
	if err != nil {
		return engineerr.Wrap(engineerr.KindResolver, "sequencer", "turn resolution failed", err)
	}
	p.activeResolverOutput = out
	return nil
}

// runAssemblingContext implements the AssemblingContext stage: builds
// the three-tier narrator context from the owned journal plus this
// turn's classified mentions.
func (p *Pipeline) runAssemblingContext() {
	referenced := referencedFromMentions(p.activeClassifyOutput.Mentions)
	summary := truncateSummary(p.activeInput, 280)

	p.activeContextInput = storycontext.Assemble(
		p.scene, p.cast, referenced, p.journal, p.activeResolverOutput, summary,
		p.deps.TotalTokenBudget, p.deps.Observer,
	)
}

func truncateSummary(s string, maxChars int) string {
	if len(s) <= maxChars {
		return s
	}
	return strings.TrimSpace(s[:maxChars])
}

// startRendering implements the Rendering stage: the single suspension
// point. The provider call is dispatched onto its own goroutine; the
// pipeline thread never awaits inside this method. Await blocks on the
// result; there is no non-blocking poll.
func (p *Pipeline) startRendering(ctx context.Context) {
	req := provider.Request{
		SystemPrompt: p.activeContextInput.Render(),
		Messages:     []provider.Message{{Role: "user", Content: p.activeInput}},
		MaxTokens:    800,
		Temperature:  0.8,
	}
	p.emit(StageRendering, observer.Detail{Kind: observer.DetailNarratorPromptBuilt})

	job := &renderJob{done: make(chan renderResult, 1)}
	p.render = job
	go func() {
		result, err := p.deps.Provider.Complete(ctx, req)
		job.done <- renderResult{result: result, err: err}
	}()
}
