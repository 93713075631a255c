package goconnection

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// PaginateCursor returns up to c.Limit records strictly after c.Cursor in key
// order, with the forward and backward probes issued concurrently.
//
// The ordering of q may use primary key columns only; the remaining key
// columns are appended ascending. No count is queried in this mode.
func PaginateCursor[R any](ctx context.Context, q Query[R], key PrimaryKey[R], c Cursor) ([]R, ConnectionMeta, error) {
	return paginateCursor(ctx, q, key, c, defaultInstrument(), false)
}

func paginateCursor[R any](
	ctx context.Context,
	q Query[R],
	key PrimaryKey[R],
	c Cursor,
	in instrument,
	sequentialProbes bool,
) ([]R, ConnectionMeta, error) {
	if err := c.validate(); err != nil {
		return nil, ConnectionMeta{}, err
	}

	if err := key.validate(); err != nil {
		return nil, ConnectionMeta{}, err
	}

	keys, order, err := keyOrderings(q.Orderings(), key.Columns())
	if err != nil {
		return nil, ConnectionMeta{}, err
	}

	seek, err := q.CursorSeek(keys)
	if err != nil {
		return nil, ConnectionMeta{}, fmt.Errorf("cannot seek by %v: %w", keys.Columns(), err)
	}

	stmt := seek
	if c.Cursor != nil && *c.Cursor != "" {
		after, err := DecodeCursor(*c.Cursor)
		if err != nil {
			return nil, ConnectionMeta{}, err
		}
		if err := key.conforms(after); err != nil {
			return nil, ConnectionMeta{}, err
		}

		stmt = seek.After(after.permute(order))
	}

	var data []R
	err = in.roundTrip(ctx, ModeCursor, opCursorFetch, func(ctx context.Context) (err error) {
		data, err = stmt.First(ctx, c.Limit)
		return err
	})
	if err != nil {
		return nil, ConnectionMeta{}, err
	}

	if len(data) == 0 {
		return data, NewConnectionMeta().WithConnectionInfo(false, false), nil
	}

	first, err := key.Tuple(data[0])
	if err != nil {
		return nil, ConnectionMeta{}, err
	}

	last, err := key.Tuple(data[len(data)-1])
	if err != nil {
		return nil, ConnectionMeta{}, err
	}

	var hasPreviousPage, hasNextPage bool
	err = runIndependent(ctx, sequentialProbes,
		func(ctx context.Context) error {
			return in.roundTrip(ctx, ModeCursor, opForwardProbe, func(ctx context.Context) error {
				next, err := seek.After(last.permute(order)).First(ctx, c.Limit)
				hasNextPage = len(next) != 0
				return err
			})
		},
		func(ctx context.Context) error {
			return in.roundTrip(ctx, ModeCursor, opBackwardProbe, func(ctx context.Context) error {
				previous, err := seek.Before(first.permute(order)).First(ctx, c.Limit)
				hasPreviousPage = len(previous) != 0
				return err
			})
		},
	)
	if err != nil {
		return nil, ConnectionMeta{}, err
	}

	return data, NewConnectionMeta().WithConnectionInfo(hasPreviousPage, hasNextPage), nil
}

// runIndependent runs fns without data dependencies between them. Concurrent
// runs share a context that is cancelled on the first failure.
func runIndependent(ctx context.Context, sequential bool, fns ...func(context.Context) error) error {
	if sequential {
		for _, fn := range fns {
			if err := fn(ctx); err != nil {
				return err
			}
		}

		return nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, fn := range fns {
		fn := fn
		eg.Go(func() error {
			return fn(egCtx)
		})
	}

	return eg.Wait()
}
