package goconnection

import "context"

// PaginatePages returns the 1-based page p.Page of size p.Limit.
//
// The returned meta carries:
//   - hasPreviousPage = page != 1;
//   - hasNextPage = page < pages, where pages = ceil(totalCount / limit);
//   - offset = limit * page, the index after the last row of the page;
//   - limit, totalCount, pages and currentPage = page.
//
// An empty collection yields pages = 0 and both flags false.
func PaginatePages[R any](ctx context.Context, q Query[R], p Pages) ([]R, ConnectionMeta, error) {
	return paginatePages(ctx, q, p, defaultInstrument())
}

func paginatePages[R any](ctx context.Context, q Query[R], p Pages, in instrument) ([]R, ConnectionMeta, error) {
	if err := p.validate(); err != nil {
		return nil, ConnectionMeta{}, err
	}

	var data []R
	err := in.roundTrip(ctx, ModePages, opFetchPage, func(ctx context.Context) (err error) {
		data, err = q.FetchPage(ctx, p.Page-1, p.Limit)
		return err
	})
	if err != nil {
		return nil, ConnectionMeta{}, err
	}

	var pages, totalCount uint64
	err = in.roundTrip(ctx, ModePages, opCountAndPages, func(ctx context.Context) (err error) {
		pages, totalCount, err = q.CountAndPages(ctx, p.Limit)
		return err
	})
	if err != nil {
		return nil, ConnectionMeta{}, err
	}

	meta := NewConnectionMeta().
		WithConnectionInfo(p.Page != 1, p.Page < pages).
		WithPageInfo(pages, p.Page).
		WithOffsetInfo(p.Limit*p.Page, p.Limit, totalCount)

	return data, meta, nil
}
