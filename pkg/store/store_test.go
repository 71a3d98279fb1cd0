package store

import (
	"testing"

	"github.com/kittclouds/storyweave/pkg/entity"
	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/kittclouds/storyweave/pkg/reference"
	"github.com/kittclouds/storyweave/pkg/sequencer"
	"github.com/stretchr/testify/require"
)

// storerFixtures runs the same contract against any Storer implementation,
// mirroring the teacher's sqlite_store_test.go pattern of exercising one
// store instance through a sequence of operations.
func storerFixtures(t *testing.T, s Storer) {
	t.Helper()

	scene := id.New()
	mara := id.New()

	atom := event.Atom{
		ID:   id.New(),
		Kind: event.KindSpeechAct,
		Participants: []event.Participant{
			{Reference: reference.Resolved(mara), Role: event.RoleActor},
		},
		Confidence: event.Confidence{Value: 0.8, Evidence: "classifier"},
		Scene:      scene,
		Turn:       1,
	}
	require.NoError(t, s.AppendAtom(scene, atom))

	atoms, err := s.ListAtoms(scene)
	require.NoError(t, err)
	require.Len(t, atoms, 1)
	require.Equal(t, event.KindSpeechAct, atoms[0].Kind)
	require.Len(t, atoms[0].Participants, 1)
	resolvedID, ok := atoms[0].Participants[0].Reference.EntityID()
	require.True(t, ok)
	require.Equal(t, mara, resolvedID)

	count, err := s.CountAtoms(scene)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	compound := event.Compound{ID: id.New(), AtomIDs: []id.ID{atom.ID}, Composition: event.CompositionCausal}
	require.NoError(t, s.AppendCompound(scene, compound))
	compounds, err := s.ListCompounds(scene)
	require.NoError(t, err)
	require.Len(t, compounds, 1)
	require.Equal(t, event.CompositionCausal, compounds[0].Composition)

	e := entity.Entity{ID: mara, CanonicalName: "Mara", Tier: entity.TierTracked}
	require.NoError(t, s.UpsertEntity(e))
	got, err := s.GetEntity(mara)
	require.NoError(t, err)
	require.Equal(t, "Mara", got.CanonicalName)
	require.Equal(t, entity.TierTracked, got.Tier)

	e.Tier = entity.TierPersistent
	require.NoError(t, s.UpsertEntity(e))
	got, err = s.GetEntity(mara)
	require.NoError(t, err)
	require.Equal(t, entity.TierPersistent, got.Tier, "upsert must overwrite, not duplicate")

	entities, err := s.ListEntities()
	require.NoError(t, err)
	require.Len(t, entities, 1)

	n, err := s.CountEntities()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	out := sequencer.Output{SceneDynamics: "A single thread of action moves the scene forward."}
	require.NoError(t, s.RecordResolution(scene, 1, out))
	gotOut, err := s.GetResolution(scene, 1)
	require.NoError(t, err)
	require.Equal(t, out.SceneDynamics, gotOut.SceneDynamics)

	resolutions, err := s.ListResolutions(scene)
	require.NoError(t, err)
	require.Len(t, resolutions, 1)

	require.NoError(t, s.DeleteEntity(mara))
	_, err = s.GetEntity(mara)
	require.Error(t, err)

	require.NoError(t, s.Close())
}

func TestMemoryStoreContract(t *testing.T) {
	storerFixtures(t, NewMemoryStore())
}

func TestSQLiteStoreContract(t *testing.T) {
	s, err := NewSQLiteStore()
	require.NoError(t, err)
	storerFixtures(t, s)
}

func TestSQLiteStoreGetResolutionMissingReturnsStoreError(t *testing.T) {
	s, err := NewSQLiteStore()
	require.NoError(t, err)
	defer s.Close()

	_, err = s.GetResolution(id.New(), 1)
	require.Error(t, err)
}
