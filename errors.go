package goconnection

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreFailure wraps every error returned by the entity store. The store
	// error itself stays reachable through errors.Is and errors.As.
	ErrStoreFailure = errors.New("store failure")

	// ErrUnsupportedKeyArity is returned when cursor pagination is requested for
	// a record type whose primary key has 0 or more than 3 columns.
	ErrUnsupportedKeyArity = errors.New("unsupported key arity")

	// ErrUnsupportedKeyValue is returned when a key value is not an orderable scalar.
	ErrUnsupportedKeyValue = errors.New("unsupported key value")

	// ErrCursorDecode is returned for malformed or tampered cursor tokens.
	ErrCursorDecode = errors.New("cannot decode cursor")

	// ErrInconsistentOrdering is returned when cursor pagination is requested
	// with an ordering that is not fully determined by the primary key.
	ErrInconsistentOrdering = errors.New("inconsistent ordering")

	// ErrInvalidPagination is returned for a zero page, limit or take, an
	// overflowing page offset, or a raw payload naming more than one mode.
	ErrInvalidPagination = errors.New("invalid pagination")

	// ErrInvalidOrdering is returned for an unknown column or direction in an ordering.
	ErrInvalidOrdering = errors.New("invalid ordering")

	// ErrInvalidFilter is returned for a malformed column, operator or value in a filter.
	ErrInvalidFilter = errors.New("invalid filter")
)

func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreFailure, op, err)
}
