package goconnection

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AssembleConnection(t *testing.T) {
	cursorOf := func(i int) string { return "c" + strconv.Itoa(i) }

	conn := AssembleConnection([]int{3, 1, 2}, NewConnectionMeta().WithConnectionInfo(true, false), cursorOf)

	assert.Equal(t, []int{3, 1, 2}, conn.Nodes())
	assert.Equal(t, []string{"c3", "c1", "c2"}, lo.Map(conn.Edges, func(e Edge[int], _ int) string { return e.Cursor }))
	assert.Equal(t, lo.ToPtr("c3"), conn.PageInfo.StartCursor)
	assert.Equal(t, lo.ToPtr("c2"), conn.PageInfo.EndCursor)
	assert.True(t, conn.PageInfo.HasPreviousPage)
	assert.False(t, conn.PageInfo.HasNextPage)
}

func Test_AssembleConnection_Empty(t *testing.T) {
	conn := AssembleConnection(nil, NewConnectionMeta(), func(int) string { return "x" })

	assert.NotNil(t, conn.Edges)
	assert.Empty(t, conn.Edges)
	assert.Nil(t, conn.PageInfo.StartCursor)
	assert.Nil(t, conn.PageInfo.EndCursor)
}

func Test_AssembleConnection_NoCursors(t *testing.T) {
	conn := AssembleConnection([]int{1}, NewConnectionMeta(), nil)

	assert.Equal(t, "", conn.Edges[0].Cursor)
	assert.Nil(t, conn.PageInfo.StartCursor)
}

func Test_UnpaginatedMeta(t *testing.T) {
	meta := UnpaginatedMeta(7)

	assert.False(t, meta.HasPreviousPage)
	assert.False(t, meta.HasNextPage)
	assert.Equal(t, uint64(1), *meta.Pages)
	assert.Equal(t, uint64(1), *meta.CurrentPage)
	assert.Equal(t, uint64(0), *meta.Offset)
	assert.Equal(t, uint64(7), *meta.Limit)
	assert.Equal(t, uint64(7), *meta.TotalCount)
}

func Test_ConnectionMeta_JSON(t *testing.T) {
	b, err := json.Marshal(NewConnectionMeta().WithConnectionInfo(false, true))
	require.NoError(t, err)
	assert.JSONEq(t, `{"hasPreviousPage": false, "hasNextPage": true}`, string(b))

	b, err = json.Marshal(NewConnectionMeta().WithPageInfo(3, 1).WithOffsetInfo(10, 10, 25))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"hasPreviousPage": false,
		"hasNextPage": false,
		"pages": 3,
		"currentPage": 1,
		"offset": 10,
		"limit": 10,
		"totalCount": 25
	}`, string(b))
}
