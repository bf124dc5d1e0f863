package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryWithMatchesOnlySupersets(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w)
	vel := RegisterComponent[velT](w)

	_, err := w.CreateEntities(2, pos)
	require.NoError(t, err)
	_, err = w.CreateEntities(3, pos, vel)
	require.NoError(t, err)

	q := NewQuery().With(pos, vel)
	assert.Equal(t, 3, q.Count(w))

	qPosOnly := NewQuery().With(pos)
	assert.Equal(t, 5, qPosOnly.Count(w))
}

func TestQueryWithoutExcludesArchetype(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w)
	vel := RegisterComponent[velT](w)

	_, err := w.CreateEntities(2, pos)
	require.NoError(t, err)
	_, err = w.CreateEntities(3, pos, vel)
	require.NoError(t, err)

	q := NewQuery().With(pos).Without(vel)
	assert.Equal(t, 2, q.Count(w))
}

func TestQueryEmptyMatchesEverything(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[posT](w)
	_, err := w.CreateEntities(4, pos)
	require.NoError(t, err)

	q := NewQuery()
	assert.Equal(t, 4, q.Count(w))
}
