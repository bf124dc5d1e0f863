package ecs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

type persistentPos struct{ X, Y float64 }

func TestWorldSnapshotRestoreRoundTrip(t *testing.T) {
	w := NewWorld()
	guid := MustParseGuid("11111111-1111-1111-1111-111111111111")
	pos := RegisterComponent[persistentPos](w, Persistent(guid))

	entities, err := w.CreateEntities(3, pos)
	require.NoError(t, err)
	require.NoError(t, pos.Set(w, entities[1], persistentPos{X: 9, Y: 10}))

	snap, err := w.Snapshot()
	require.NoError(t, err)

	w2 := NewWorld()
	pos2 := RegisterComponent[persistentPos](w2, Persistent(guid))
	require.NoError(t, w2.Restore(snap))

	assert2 := func(cond bool, msg string) {
		if !cond {
			t.Fatal(msg)
		}
	}
	assert2(NewQuery().With(pos2).Count(w2) == 3, "expected 3 restored entities")

	got, err := pos2.Get(w2, entities[1])
	require.NoError(t, err)
	if diff := cmp.Diff(persistentPos{X: 9, Y: 10}, *got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("restored component mismatch (-want +got):\n%s", diff)
	}
}

func TestWorldSnapshotRejectsNonPersistentComponent(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w) // not Persistent
	_, err := w.CreateEntities(1, pos)
	require.NoError(t, err)

	_, err = w.Snapshot()
	require.Error(t, err)
}

func TestSchemaMismatchRejected(t *testing.T) {
	guid := MustParseGuid("22222222-2222-2222-2222-222222222222")
	w := NewWorld()
	pos := RegisterComponent[persistentPos](w, Persistent(guid))
	_, err := w.CreateEntities(1, pos)
	require.NoError(t, err)
	snap, err := w.Snapshot()
	require.NoError(t, err)

	type driftedPos struct{ X, Y, Z float64 } // extra field: different layout under the same guid
	w2 := NewWorld()
	RegisterComponent[driftedPos](w2, Persistent(guid))

	err = w2.Restore(snap)
	require.Error(t, err)
}

func TestYAMLSaveLoadRoundTrip(t *testing.T) {
	guid := MustParseGuid("33333333-3333-3333-3333-333333333333")
	w := NewWorld()
	pos := RegisterComponent[persistentPos](w, Persistent(guid))
	entities, err := w.CreateEntities(2, pos)
	require.NoError(t, err)
	require.NoError(t, pos.Set(w, entities[0], persistentPos{X: 1, Y: 2}))

	data, err := SaveYAML(w)
	require.NoError(t, err)

	w2 := NewWorld()
	pos2 := RegisterComponent[persistentPos](w2, Persistent(guid))
	require.NoError(t, LoadYAML(w2, data))

	got, err := pos2.Get(w2, entities[0])
	require.NoError(t, err)
	require.Equal(t, persistentPos{X: 1, Y: 2}, *got)
}
