package goconnection

import "context"

// Store is the entity store of one record type R. Implementations own the
// connection and its lifecycle; the engine only reads through them.
type Store[R any] interface {
	// Find returns the base query over every record of R.
	Find() Query[R]
	// PrimaryKey returns the primary key columns of R.
	PrimaryKey() PrimaryKey[R]
}

// Query is an immutable, ordered query over R. Filter and OrderBy return new
// queries and leave the receiver usable, so one query can back several
// independent round trips, concurrently.
type Query[R any] interface {
	Filter(filter Filter) Query[R]
	OrderBy(orderings Orderings) Query[R]
	// Orderings returns the ordering established so far.
	Orderings() Orderings

	// FetchPage returns the records of the 0-based page pageIndex of size pageSize.
	FetchPage(ctx context.Context, pageIndex, pageSize uint64) ([]R, error)
	FetchAll(ctx context.Context) ([]R, error)
	// CountAndPages returns the number of pages of size pageSize and the number
	// of records.
	CountAndPages(ctx context.Context, pageSize uint64) (pages uint64, total uint64, err error)
	Count(ctx context.Context) (uint64, error)

	// CursorSeek returns a keyset query ordered by keys, which must hold 1..3
	// primary key columns. It replaces the established ordering.
	CursorSeek(keys Orderings) (CursorQuery[R], error)
}

// CursorQuery is an immutable keyset query. Key tuples passed to After and
// Before are aligned with the keys given to Query.CursorSeek.
type CursorQuery[R any] interface {
	// After restricts the query to records strictly after key.
	After(key KeyTuple) CursorQuery[R]
	// Before restricts the query to records strictly before key.
	Before(key KeyTuple) CursorQuery[R]
	// First returns up to limit records in key order.
	First(ctx context.Context, limit uint64) ([]R, error)
}
