package goconnection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BuildQuery(t *testing.T) {
	base := NewMemoryStore(newUsers(6), tUserKey, tUserGetters).Find()
	filter := Where(Condition{Column: "id", Operator: OperatorGT, Value: 3})
	desc := Orderings{{Column: "id", Direction: DirectionDESC}}

	q, err := BuildQuery(base, &filter, desc)
	require.NoError(t, err)
	assert.Equal(t, desc, q.Orderings())

	got, err := q.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uint{6, 5, 4}, userIDs(got))

	// The base query is left untouched.
	assert.Empty(t, base.Orderings())
	total, err := base.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(6), total)
}

func Test_BuildQuery_Empty(t *testing.T) {
	base := NewMemoryStore(newUsers(2), tUserKey, tUserGetters).Find()

	q, err := BuildQuery(base, &Filter{}, nil)
	require.NoError(t, err)
	assert.Same(t, base, q)
}

func Test_BuildQuery_Invalid(t *testing.T) {
	base := NewMemoryStore(newUsers(2), tUserKey, tUserGetters).Find()

	bad := Where(Condition{Column: "", Operator: OperatorEQ, Value: 1})
	_, err := BuildQuery(base, &bad, nil)
	assert.ErrorIs(t, err, ErrInvalidFilter)

	_, err = BuildQuery(base, nil, Orderings{{Column: "id", Direction: "asc"}})
	assert.ErrorIs(t, err, ErrInvalidOrdering)
}
