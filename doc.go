// Package goconnection resolves paginated "connections" over a record store.
//
// Overview
//
// A connection is a page of records wrapped as edges, each with an opaque
// cursor, plus metadata describing the position of the page in the result
// set. Three pagination modes are available:
//   - Pages: 1-based page number and limit, with page count and total count.
//   - Offset: skip/take, rounded down to the enclosing page.
//   - Cursor: keyset pagination over the primary key. The page continues
//     strictly after the cursor, and two bounded probes tell whether records
//     exist past either end of the page. No count is queried.
//
// Key concepts
//   - Resolver: builds the query from a Filter and Orderings, selects the
//     paginator and assembles the Connection.
//   - Store, Query, CursorQuery: the storage contract. GormStore implements it
//     over GORM, MemoryStore over a slice.
//   - PrimaryKey, KeyTuple: the 1 to 3 key columns of a record and their values.
//     EncodeCursor and DecodeCursor convert tuples to URL-safe tokens.
//   - Filter: a predicate in disjunctive normal form.
package goconnection
