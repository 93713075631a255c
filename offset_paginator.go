package goconnection

import "context"

// PaginateOffset returns the page of size o.Take enclosing o.Skip, that is the
// 0-based page floor(skip / take). Skip values inside a page are rounded down
// to the page boundary.
//
// hasPreviousPage is skip > 0. hasNextPage is take < totalCount and does not
// look at skip, so it stays true on the last page of a collection larger than
// take.
func PaginateOffset[R any](ctx context.Context, q Query[R], o Offset) ([]R, ConnectionMeta, error) {
	return paginateOffset(ctx, q, o, defaultInstrument())
}

func paginateOffset[R any](ctx context.Context, q Query[R], o Offset, in instrument) ([]R, ConnectionMeta, error) {
	if err := o.validate(); err != nil {
		return nil, ConnectionMeta{}, err
	}

	page := o.Skip / o.Take

	var data []R
	err := in.roundTrip(ctx, ModeOffset, opFetchPage, func(ctx context.Context) (err error) {
		data, err = q.FetchPage(ctx, page, o.Take)
		return err
	})
	if err != nil {
		return nil, ConnectionMeta{}, err
	}

	var totalCount uint64
	err = in.roundTrip(ctx, ModeOffset, opCount, func(ctx context.Context) (err error) {
		totalCount, err = q.Count(ctx)
		return err
	})
	if err != nil {
		return nil, ConnectionMeta{}, err
	}

	meta := NewConnectionMeta().
		WithConnectionInfo(o.Skip > 0, o.Take < totalCount).
		WithPageInfo(ceilDiv(totalCount, o.Take), page).
		WithOffsetInfo(o.Skip, o.Take, totalCount)

	return data, meta, nil
}
