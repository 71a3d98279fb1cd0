package ledger

import (
	"testing"

	"github.com/kittclouds/storyweave/pkg/engineerr"
	"github.com/kittclouds/storyweave/pkg/event"
	"github.com/kittclouds/storyweave/pkg/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAtom(scene id.ID, turn uint32) event.Atom {
	return event.Atom{ID: id.New(), Scene: scene, Turn: turn, Kind: event.KindSpeechAct}
}

func TestAppendAndScanInOrder(t *testing.T) {
	l := New()
	scene := id.New()

	var appended []event.Atom
	for i := 0; i < 5; i++ {
		a := newAtom(scene, uint32(i))
		require.NoError(t, l.Append(a))
		appended = append(appended, a)
	}

	scanned := l.Scan(scene)
	require.Len(t, scanned, 5)
	for i := range scanned {
		assert.Equal(t, appended[i].ID, scanned[i].ID)
	}
}

func TestScanIsPrefixMonotone(t *testing.T) {
	l := New()
	scene := id.New()

	l.Append(newAtom(scene, 0))
	first := l.Scan(scene)

	l.Append(newAtom(scene, 1))
	second := l.Scan(scene)

	require.Len(t, first, 1)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestAppendAfterCloseFails(t *testing.T) {
	l := New()
	scene := id.New()
	l.Close(scene)

	err := l.Append(newAtom(scene, 0))
	require.Error(t, err)
	assert.True(t, engineerr.Is(err, engineerr.KindLedgerClosed))
}

func TestAppendCompoundUnknownAtomFails(t *testing.T) {
	l := New()
	_, err := l.AppendCompound([]id.ID{id.New()}, event.CompositionCausal)
	require.Error(t, err)
	assert.True(t, engineerr.Is(err, engineerr.KindUnknownAtom))
}

func TestAppendCompoundSucceedsForKnownAtoms(t *testing.T) {
	l := New()
	scene := id.New()
	a1 := newAtom(scene, 0)
	a2 := newAtom(scene, 1)
	require.NoError(t, l.Append(a1))
	require.NoError(t, l.Append(a2))

	compound, err := l.AppendCompound([]id.ID{a1.ID, a2.ID}, event.CompositionTemporal)
	require.NoError(t, err)
	assert.Equal(t, event.CompositionTemporal, compound.Composition)

	compounds := l.Compounds()
	require.Len(t, compounds, 1)
}

func TestScanTurnFiltersByTurn(t *testing.T) {
	l := New()
	scene := id.New()
	l.Append(newAtom(scene, 0))
	l.Append(newAtom(scene, 1))
	l.Append(newAtom(scene, 1))

	assert.Len(t, l.ScanTurn(scene, 1), 2)
	assert.Len(t, l.ScanTurn(scene, 0), 1)
}

func TestScanNeverMutatesUnderlyingAtoms(t *testing.T) {
	l := New()
	scene := id.New()
	a := newAtom(scene, 0)
	require.NoError(t, l.Append(a))

	scanned := l.Scan(scene)
	scanned[0].Turn = 999

	again := l.Scan(scene)
	assert.Equal(t, uint32(0), again[0].Turn)
}
