package goconnection

import (
	"context"
	"fmt"
	"slices"
)

// MemoryStore is a Store over an in-memory slice. Columns are resolved through
// getters, so every column used in filters, orderings and keys needs one.
//
// The slice is not copied; do not modify it while the store is in use.
type MemoryStore[R any] struct {
	records []R
	key     PrimaryKey[R]
	getters Getters[R]
}

func NewMemoryStore[R any](records []R, key PrimaryKey[R], getters Getters[R]) *MemoryStore[R] {
	g := make(Getters[R], len(getters)+len(key))
	for column, getter := range getters {
		g[column] = getter
	}
	for _, kc := range key {
		if _, ok := g[kc.Column]; !ok {
			g[kc.Column] = kc.Get
		}
	}

	return &MemoryStore[R]{
		records: records,
		key:     key,
		getters: g,
	}
}

// Find - implements Store.
func (s *MemoryStore[R]) Find() Query[R] {
	return &memoryQuery[R]{store: s}
}

// PrimaryKey - implements Store.
func (s *MemoryStore[R]) PrimaryKey() PrimaryKey[R] {
	return s.key
}

var _ Store[struct{}] = (*MemoryStore[struct{}])(nil)

func (s *MemoryStore[R]) lookup(record R) func(column string) (any, error) {
	return func(column string) (any, error) {
		getter, ok := s.getters[column]
		if !ok {
			return nil, fmt.Errorf("unknown column '%s'", column)
		}

		return getter(record), nil
	}
}

// selectRecords returns the records matching filter in the order given by orderings.
func (s *MemoryStore[R]) selectRecords(ctx context.Context, filter Filter, orderings Orderings) ([]R, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ret := make([]R, 0, len(s.records))
	for _, record := range s.records {
		ok, err := filter.evaluate(s.lookup(record))
		if err != nil {
			return nil, err
		}
		if ok {
			ret = append(ret, record)
		}
	}

	if len(orderings) == 0 {
		return ret, nil
	}

	var sortErr error
	slices.SortStableFunc(ret, func(a, b R) int {
		for _, ob := range orderings {
			va, err := s.lookup(a)(ob.Column)
			if err == nil {
				var vb any
				vb, err = s.lookup(b)(ob.Column)
				if err == nil {
					var c int
					c, err = compareKeyValues(va, vb)
					if err == nil && c != 0 {
						if ob.Direction == DirectionDESC {
							return -c
						}
						return c
					}
				}
			}
			if err != nil && sortErr == nil {
				sortErr = fmt.Errorf("cannot order by '%s': %w", ob.Column, err)
			}
		}

		return 0
	})
	if sortErr != nil {
		return nil, sortErr
	}

	return ret, nil
}

type memoryQuery[R any] struct {
	store  *MemoryStore[R]
	filter Filter
	order  Orderings
}

// Filter - implements Query.
func (q *memoryQuery[R]) Filter(filter Filter) Query[R] {
	return &memoryQuery[R]{
		store:  q.store,
		filter: q.filter.And(filter),
		order:  q.order,
	}
}

// OrderBy - implements Query.
func (q *memoryQuery[R]) OrderBy(orderings Orderings) Query[R] {
	return &memoryQuery[R]{
		store:  q.store,
		filter: q.filter,
		order:  q.order.Then(orderings...),
	}
}

// Orderings - implements Query.
func (q *memoryQuery[R]) Orderings() Orderings {
	return q.order
}

// FetchPage - implements Query.
func (q *memoryQuery[R]) FetchPage(ctx context.Context, pageIndex, pageSize uint64) ([]R, error) {
	records, err := q.store.selectRecords(ctx, q.filter, q.order)
	if err != nil {
		return nil, err
	}

	n := uint64(len(records))
	if pageSize == 0 || pageIndex >= ceilDiv(n, pageSize) {
		return []R{}, nil
	}

	from := pageIndex * pageSize
	return records[from:min(from+pageSize, n)], nil
}

// FetchAll - implements Query.
func (q *memoryQuery[R]) FetchAll(ctx context.Context) ([]R, error) {
	return q.store.selectRecords(ctx, q.filter, q.order)
}

// CountAndPages - implements Query.
func (q *memoryQuery[R]) CountAndPages(ctx context.Context, pageSize uint64) (uint64, uint64, error) {
	if pageSize == 0 {
		return 0, 0, fmt.Errorf("zero page size")
	}

	total, err := q.Count(ctx)
	if err != nil {
		return 0, 0, err
	}

	return ceilDiv(total, pageSize), total, nil
}

// Count - implements Query.
func (q *memoryQuery[R]) Count(ctx context.Context) (uint64, error) {
	records, err := q.store.selectRecords(ctx, q.filter, nil)
	if err != nil {
		return 0, err
	}

	return uint64(len(records)), nil
}

// CursorSeek - implements Query.
func (q *memoryQuery[R]) CursorSeek(keys Orderings) (CursorQuery[R], error) {
	if len(keys) == 0 || len(keys) > MaxKeyArity {
		return nil, fmt.Errorf("%w: %d key columns", ErrUnsupportedKeyArity, len(keys))
	}

	if err := keys.validate(); err != nil {
		return nil, err
	}

	return &memoryCursorQuery[R]{
		store:  q.store,
		filter: q.filter,
		keys:   keys,
	}, nil
}

type memoryCursorQuery[R any] struct {
	store  *MemoryStore[R]
	filter Filter
	keys   Orderings
	err    error
}

// After - implements CursorQuery.
func (c *memoryCursorQuery[R]) After(key KeyTuple) CursorQuery[R] {
	return c.withSeek(key, false)
}

// Before - implements CursorQuery.
func (c *memoryCursorQuery[R]) Before(key KeyTuple) CursorQuery[R] {
	return c.withSeek(key, true)
}

func (c *memoryCursorQuery[R]) withSeek(key KeyTuple, backward bool) CursorQuery[R] {
	seek, err := seekFilter(c.keys, key, backward)
	if c.err != nil {
		err = c.err
	}

	return &memoryCursorQuery[R]{
		store:  c.store,
		filter: c.filter.And(seek),
		keys:   c.keys,
		err:    err,
	}
}

// First - implements CursorQuery.
func (c *memoryCursorQuery[R]) First(ctx context.Context, limit uint64) ([]R, error) {
	if c.err != nil {
		return nil, c.err
	}

	records, err := c.store.selectRecords(ctx, c.filter, c.keys)
	if err != nil {
		return nil, err
	}

	return records[:min(limit, uint64(len(records)))], nil
}
