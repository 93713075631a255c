package goconnection

import (
	"context"
	"fmt"
	"math"

	"gorm.io/gorm"
)

// GormStore is a Store over a GORM model R.
//
// Usage:
//
//	store := goconnection.NewGormStore(db, goconnection.PrimaryKey[User]{
//		{Column: "id", Get: func(u User) any { return u.ID }},
//	})
//	conn, err := goconnection.NewResolver(store).Resolve(ctx, nil, goconnection.Pages{Page: 1, Limit: 10}, nil)
type GormStore[R any] struct {
	db  *gorm.DB
	key PrimaryKey[R]
}

func NewGormStore[R any](db *gorm.DB, key PrimaryKey[R]) *GormStore[R] {
	return &GormStore[R]{
		db:  db,
		key: key,
	}
}

// Find - implements Store.
func (s *GormStore[R]) Find() Query[R] {
	return &gormQuery[R]{
		db: s.db.Model(new(R)).Session(&gorm.Session{}),
	}
}

// FindFrom - the base query is built on a prepared scope, e.g. with joins or
// a custom table. The scope must target rows of R.
func (s *GormStore[R]) FindFrom(scope *gorm.DB) Query[R] {
	return &gormQuery[R]{
		db: scope.Session(&gorm.Session{}),
	}
}

// PrimaryKey - implements Store.
func (s *GormStore[R]) PrimaryKey() PrimaryKey[R] {
	return s.key
}

var _ Store[struct{}] = (*GormStore[struct{}])(nil)

// gormQuery keeps the ordering aside and applies it to fetches only, so that
// counting skips ORDER BY and cursor seeks can replace it. db is always a
// fresh session, which makes the query safe to reuse.
type gormQuery[R any] struct {
	db    *gorm.DB
	order Orderings
}

// Filter - implements Query.
func (q *gormQuery[R]) Filter(filter Filter) Query[R] {
	exp := filter.toGORMExpression()
	if exp == nil {
		return q
	}

	return &gormQuery[R]{
		db:    q.db.Clauses(exp).Session(&gorm.Session{}),
		order: q.order,
	}
}

// OrderBy - implements Query.
func (q *gormQuery[R]) OrderBy(orderings Orderings) Query[R] {
	return &gormQuery[R]{
		db:    q.db,
		order: q.order.Then(orderings...),
	}
}

// Orderings - implements Query.
func (q *gormQuery[R]) Orderings() Orderings {
	return q.order
}

// FetchPage - implements Query.
func (q *gormQuery[R]) FetchPage(ctx context.Context, pageIndex, pageSize uint64) ([]R, error) {
	limit, err := toSQLInt(pageSize)
	if err != nil {
		return nil, err
	}

	if pageIndex != 0 && pageSize > math.MaxInt/pageIndex {
		return nil, fmt.Errorf("page offset overflows: page %d of size %d", pageIndex, pageSize)
	}
	offset, err := toSQLInt(pageIndex * pageSize)
	if err != nil {
		return nil, err
	}

	var ret []R
	err = q.order.Apply(q.db.WithContext(ctx)).
		Offset(offset).
		Limit(limit).
		Find(&ret).Error
	if err != nil {
		return nil, err
	}

	return ret, nil
}

// FetchAll - implements Query.
func (q *gormQuery[R]) FetchAll(ctx context.Context) ([]R, error) {
	var ret []R
	if err := q.order.Apply(q.db.WithContext(ctx)).Find(&ret).Error; err != nil {
		return nil, err
	}

	return ret, nil
}

// CountAndPages - implements Query.
func (q *gormQuery[R]) CountAndPages(ctx context.Context, pageSize uint64) (uint64, uint64, error) {
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
func (q *gormQuery[R]) Count(ctx context.Context) (uint64, error) {
	var count int64
	if err := q.db.WithContext(ctx).Count(&count).Error; err != nil {
		return 0, err
	}

	return uint64(count), nil
}

// CursorSeek - implements Query.
func (q *gormQuery[R]) CursorSeek(keys Orderings) (CursorQuery[R], error) {
	if len(keys) == 0 || len(keys) > MaxKeyArity {
		return nil, fmt.Errorf("%w: %d key columns", ErrUnsupportedKeyArity, len(keys))
	}

	if err := keys.validate(); err != nil {
		return nil, err
	}

	return &gormCursorQuery[R]{
		db:   q.db,
		keys: keys,
	}, nil
}

// gormCursorQuery is a keyset query. Seek conditions are rendered through
// seekFilter, for example for keys (id ASC, created_at ASC):
//
//	WHERE (id > ? OR (id = ? AND created_at > ?)) ORDER BY id ASC, created_at ASC
type gormCursorQuery[R any] struct {
	db   *gorm.DB
	keys Orderings
	seek Filter
	err  error
}

// After - implements CursorQuery.
func (c *gormCursorQuery[R]) After(key KeyTuple) CursorQuery[R] {
	return c.withSeek(key, false)
}

// Before - implements CursorQuery.
func (c *gormCursorQuery[R]) Before(key KeyTuple) CursorQuery[R] {
	return c.withSeek(key, true)
}

func (c *gormCursorQuery[R]) withSeek(key KeyTuple, backward bool) CursorQuery[R] {
	seek, err := seekFilter(c.keys, key, backward)
	if c.err != nil {
		err = c.err
	}

	return &gormCursorQuery[R]{
		db:   c.db,
		keys: c.keys,
		seek: c.seek.And(seek),
		err:  err,
	}
}

// First - implements CursorQuery.
func (c *gormCursorQuery[R]) First(ctx context.Context, limit uint64) ([]R, error) {
	if c.err != nil {
		return nil, c.err
	}

	sqlLimit, err := toSQLInt(limit)
	if err != nil {
		return nil, err
	}

	db := c.db.WithContext(ctx)
	if exp := c.seek.toGORMExpression(); exp != nil {
		db = db.Clauses(exp)
	}

	var ret []R
	if err := c.keys.Apply(db).Limit(sqlLimit).Find(&ret).Error; err != nil {
		return nil, err
	}

	return ret, nil
}

func toSQLInt(v uint64) (int, error) {
	if v > math.MaxInt {
		return 0, fmt.Errorf("value %d overflows int", v)
	}

	return int(v), nil
}
