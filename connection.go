package goconnection

import "github.com/samber/lo"

// ConnectionMeta is the page info of a Connection. Numeric fields are set only
// by the modes that compute them cheaply.
type ConnectionMeta struct {
	HasPreviousPage bool    `json:"hasPreviousPage"`
	HasNextPage     bool    `json:"hasNextPage"`
	StartCursor     *string `json:"startCursor,omitempty"`
	EndCursor       *string `json:"endCursor,omitempty"`
	Pages           *uint64 `json:"pages,omitempty"`
	CurrentPage     *uint64 `json:"currentPage,omitempty"`
	Offset          *uint64 `json:"offset,omitempty"`
	Limit           *uint64 `json:"limit,omitempty"`
	TotalCount      *uint64 `json:"totalCount,omitempty"`
}

func NewConnectionMeta() ConnectionMeta {
	return ConnectionMeta{}
}

// WithConnectionInfo sets the "has more" flags.
func (m ConnectionMeta) WithConnectionInfo(hasPreviousPage, hasNextPage bool) ConnectionMeta {
	m.HasPreviousPage = hasPreviousPage
	m.HasNextPage = hasNextPage

	return m
}

// WithPageInfo sets the page count and the current page.
func (m ConnectionMeta) WithPageInfo(pages, currentPage uint64) ConnectionMeta {
	m.Pages = lo.ToPtr(pages)
	m.CurrentPage = lo.ToPtr(currentPage)

	return m
}

// WithOffsetInfo sets the offset, the limit and the total count.
func (m ConnectionMeta) WithOffsetInfo(offset, limit, totalCount uint64) ConnectionMeta {
	m.Offset = lo.ToPtr(offset)
	m.Limit = lo.ToPtr(limit)
	m.TotalCount = lo.ToPtr(totalCount)

	return m
}

// Edge is a record with the cursor identifying its position.
type Edge[R any] struct {
	Cursor string `json:"cursor"`
	Node   R      `json:"node"`
}

// Connection is the paginated result envelope.
type Connection[R any] struct {
	Edges    []Edge[R]      `json:"edges"`
	PageInfo ConnectionMeta `json:"pageInfo"`
}

// Nodes returns the records in edge order.
func (c *Connection[R]) Nodes() []R {
	if c == nil {
		return nil
	}

	return lo.Map(c.Edges, func(e Edge[R], _ int) R { return e.Node })
}

// AssembleConnection renders records and meta into a Connection. Record order
// is kept as is. cursorOf may be nil, in which case edges carry no cursor.
// StartCursor and EndCursor are taken from the first and the last edge when
// their cursors are not empty.
func AssembleConnection[R any](records []R, meta ConnectionMeta, cursorOf func(R) string) *Connection[R] {
	edges := make([]Edge[R], 0, len(records))
	for _, record := range records {
		edge := Edge[R]{Node: record}
		if cursorOf != nil {
			edge.Cursor = cursorOf(record)
		}

		edges = append(edges, edge)
	}

	if len(edges) > 0 {
		if first := edges[0].Cursor; first != "" {
			meta.StartCursor = lo.ToPtr(first)
		}
		if last := edges[len(edges)-1].Cursor; last != "" {
			meta.EndCursor = lo.ToPtr(last)
		}
	}

	return &Connection[R]{
		Edges:    edges,
		PageInfo: meta,
	}
}

// UnpaginatedMeta is the meta of a connection holding every matching record.
func UnpaginatedMeta(totalCount uint64) ConnectionMeta {
	return NewConnectionMeta().
		WithConnectionInfo(false, false).
		WithPageInfo(1, 1).
		WithOffsetInfo(0, totalCount, totalCount)
}
