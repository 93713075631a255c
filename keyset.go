package goconnection

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// keyOrderings derives the orderings a cursor walks from the established
// ordering of a query and the primary key columns.
//
// Every ordering column must be a key column. Key columns absent from the
// ordering are appended ascending as the tiebreak. The returned order slice
// maps each seek position to the index of its column in the primary key, so
// that a key tuple in primary key order can be aligned with the orderings.
func keyOrderings(established Orderings, keyColumns []string) (Orderings, []int, error) {
	if len(keyColumns) == 0 || len(keyColumns) > MaxKeyArity {
		return nil, nil, fmt.Errorf("%w: primary key has %d columns, want 1..%d", ErrUnsupportedKeyArity, len(keyColumns), MaxKeyArity)
	}

	ret := make(Orderings, 0, len(keyColumns))
	order := make([]int, 0, len(keyColumns))
	for _, ob := range established {
		idx := slices.Index(keyColumns, ob.Column)
		if idx == -1 {
			return nil, nil, fmt.Errorf("%w: ordering column '%s' is not part of the primary key %v", ErrInconsistentOrdering, ob.Column, keyColumns)
		}
		if slices.Contains(order, idx) {
			return nil, nil, fmt.Errorf("%w: ordering column '%s' appears twice", ErrInconsistentOrdering, ob.Column)
		}

		ret = append(ret, ob)
		order = append(order, idx)
	}

	for idx, column := range keyColumns {
		if slices.Contains(order, idx) {
			continue
		}

		ret = append(ret, OrderBy{Column: column, Direction: DirectionASC})
		order = append(order, idx)
	}

	return ret, order, nil
}

// seekFilter builds the keyset condition selecting records strictly after
// (or, when backward is set, strictly before) the key tuple in the order
// defined by keys. The tuple must be aligned with keys.
//
// For keys [(C1, D1), (C2, D2)... (Cn, Dn)] and values [V1, V2... Vn] the
// result is:
//
//	(C1 O1 V1) OR (C1 = V1 AND C2 O2 V2) OR ... OR (C1 = V1 AND ... AND Cn On Vn)
//
// where Oi is '>' for ascending and '<' for descending columns, swapped when
// seeking backward. This determines the position to continue from uniquely.
func seekFilter(keys Orderings, tuple KeyTuple, backward bool) (Filter, error) {
	if tuple.Arity() != len(keys) {
		return nil, fmt.Errorf("%w: key tuple has %d values, seek needs %d", ErrUnsupportedKeyArity, tuple.Arity(), len(keys))
	}

	ret := make(Filter, 0, len(keys))
	for i, ob := range keys {
		direction := lo.Ternary(backward, ob.Direction.Reverse(), ob.Direction)
		operator, err := direction.ForOperator()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOrdering, err)
		}

		conj := make(Conjunction, 0, i+1)
		for j := 0; j < i; j++ {
			conj = append(conj, Condition{Column: keys[j].Column, Operator: OperatorEQ, Value: tuple.Value(j)})
		}
		conj = append(conj, Condition{Column: ob.Column, Operator: operator, Value: tuple.Value(i)})

		ret = append(ret, conj)
	}

	return ret, nil
}
