package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/kittclouds/storyweave/pkg/classify"
	"github.com/kittclouds/storyweave/pkg/entity"
	"github.com/kittclouds/storyweave/pkg/observer"
	"github.com/kittclouds/storyweave/pkg/pipeline"
	"github.com/kittclouds/storyweave/pkg/store"
)

// runDemo drives one scripted scene through every turn-cycle stage,
// printing each rendered turn, then flushes the scene's committed
// ledger and entity tier board to the configured store.
func runDemo(ctx context.Context, logger zerolog.Logger, storeDSN string) error {
	demo := newDemoScene()

	deps := pipeline.Deps{
		Classifier: classify.NewDefault(),
		Predictor:  heuristicPredictor{},
		Provider:   templateProvider{},
		Grammar:    newDemoGrammar(),
		Observer:   observer.Noop{},
		Logger:     logger,
	}

	pl := pipeline.New(demo.scene, demo.cast, deps)

	for _, line := range demo.turns {
		if err := pl.Submit(ctx, line); err != nil {
			return fmt.Errorf("submit turn: %w", err)
		}

		awaitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		turn, err := pl.Await(awaitCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("await turn: %w", err)
		}

		fmt.Printf("\n> %s\n%s\n", line, turn.Text)
	}

	s, err := openStore(storeDSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	return persistScene(pl, demo, s)
}

// openStore resolves the --store DSN: "memory" (the default) selects
// the in-memory Storer, anything else is passed through to
// store.NewSQLiteStoreWithDSN as a sqlite connection string.
func openStore(dsn string) (store.Storer, error) {
	if dsn == "" || dsn == "memory" {
		return store.NewMemoryStore(), nil
	}
	return store.NewSQLiteStoreWithDSN(dsn)
}

// persistScene flushes every atom the scene committed and every
// entity's final tier to s.
func persistScene(pl *pipeline.Pipeline, demo demoScene, s store.Storer) error {
	atoms := pl.Ledger().Scan(demo.scene.ID)
	for _, atom := range atoms {
		if err := s.AppendAtom(demo.scene.ID, atom); err != nil {
			return fmt.Errorf("persist atom: %w", err)
		}
	}

	for _, c := range demo.cast {
		tier := pl.Tier(c.ID)
		if tier == entity.TierUnmentioned {
			continue
		}
		e := entity.Entity{ID: c.ID, CanonicalName: c.Name, Tier: tier}
		if err := s.UpsertEntity(e); err != nil {
			return fmt.Errorf("persist entity: %w", err)
		}
	}

	return nil
}
