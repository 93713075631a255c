package goconnection

// BuildQuery applies an optional filter and an optional ordering to the base
// query. The base query is not modified.
//
// IMPORTANT:
// Cursor pagination needs a deterministic ordering, which is why it accepts
// primary key columns only. Page and offset pagination return unstable pages
// unless the ordering ends with a tiebreak on the primary key.
func BuildQuery[R any](base Query[R], filter *Filter, orderBy Orderings) (Query[R], error) {
	q := base

	if filter != nil {
		if err := filter.validate(); err != nil {
			return nil, err
		}

		if len(*filter) > 0 {
			q = q.Filter(*filter)
		}
	}

	if len(orderBy) > 0 {
		if err := orderBy.validate(); err != nil {
			return nil, err
		}

		q = q.OrderBy(orderBy)
	}

	return q, nil
}
