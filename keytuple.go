package goconnection

import (
	"bytes"
	"cmp"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// MaxKeyArity is the largest number of primary key columns a cursor can carry.
const MaxKeyArity = 3

// KeyTuple is an ordered sequence of 1 to 3 scalar values identifying a record.
// The zero value is an empty tuple and is never produced by NewKeyTuple.
//
// Values are normalized on construction:
//   - signed integers become int64;
//   - unsigned integers become uint64;
//   - float32 becomes float64;
//   - []byte is copied, nil becomes empty.
//
// string, bool, time.Time and uuid.UUID are kept as is.
type KeyTuple struct {
	values [MaxKeyArity]any
	arity  int
}

// NewKeyTuple builds a KeyTuple. It fails with ErrUnsupportedKeyArity when the
// number of values is not in 1..3 and with ErrUnsupportedKeyValue when a value
// is not an orderable scalar.
func NewKeyTuple(values ...any) (KeyTuple, error) {
	if len(values) == 0 || len(values) > MaxKeyArity {
		return KeyTuple{}, fmt.Errorf("%w: got %d columns, want 1..%d", ErrUnsupportedKeyArity, len(values), MaxKeyArity)
	}

	var t KeyTuple
	for i, v := range values {
		normalized, err := normalizeKeyValue(v)
		if err != nil {
			return KeyTuple{}, fmt.Errorf("key column %d: %w", i, err)
		}

		t.values[i] = normalized
	}
	t.arity = len(values)

	return t, nil
}

// Arity returns the number of values in the tuple.
func (t KeyTuple) Arity() int {
	return t.arity
}

// IsEmpty reports whether the tuple holds no values.
func (t KeyTuple) IsEmpty() bool {
	return t.arity == 0
}

// Values returns a copy of the tuple values.
func (t KeyTuple) Values() []any {
	return append([]any(nil), t.values[:t.arity]...)
}

// Value returns the i-th value.
func (t KeyTuple) Value(i int) any {
	return t.values[i]
}

// Equal reports whether both tuples have the same arity and pairwise equal values.
func (t KeyTuple) Equal(other KeyTuple) bool {
	if t.arity != other.arity {
		return false
	}

	for i := 0; i < t.arity; i++ {
		c, err := compareKeyValues(t.values[i], other.values[i])
		if err != nil || c != 0 {
			return false
		}
	}

	return true
}

// String - implements fmt.Stringer.
func (t KeyTuple) String() string {
	parts := lo.Map(t.Values(), func(v any, _ int) string {
		return fmt.Sprintf("%v", v)
	})

	return "(" + strings.Join(parts, ", ") + ")"
}

// permute returns a tuple whose i-th value is t.Value(order[i]).
func (t KeyTuple) permute(order []int) KeyTuple {
	var ret KeyTuple
	for i, idx := range order {
		ret.values[i] = t.values[idx]
	}
	ret.arity = len(order)

	return ret
}

var _ fmt.Stringer = KeyTuple{}

func normalizeKeyValue(v any) (any, error) {
	switch vt := v.(type) {
	case int:
		return int64(vt), nil
	case int8:
		return int64(vt), nil
	case int16:
		return int64(vt), nil
	case int32:
		return int64(vt), nil
	case int64:
		return vt, nil
	case uint:
		return uint64(vt), nil
	case uint8:
		return uint64(vt), nil
	case uint16:
		return uint64(vt), nil
	case uint32:
		return uint64(vt), nil
	case uint64:
		return vt, nil
	case float32:
		return float64(vt), nil
	case float64:
		return vt, nil
	case string, bool, time.Time, uuid.UUID:
		return vt, nil
	case []byte:
		return append([]byte{}, vt...), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKeyValue, v)
	}
}

// compareKeyValues compares two values of the same kind. Values are normalized
// first, so keys read from records compare against decoded cursor values.
func compareKeyValues(a, b any) (int, error) {
	na, err := normalizeKeyValue(a)
	if err != nil {
		return 0, err
	}

	nb, err := normalizeKeyValue(b)
	if err != nil {
		return 0, err
	}

	switch va := na.(type) {
	case int64:
		switch vb := nb.(type) {
		case int64:
			return cmp.Compare(va, vb), nil
		case uint64:
			if va < 0 {
				return -1, nil
			}
			return cmp.Compare(uint64(va), vb), nil
		}
	case uint64:
		switch vb := nb.(type) {
		case uint64:
			return cmp.Compare(va, vb), nil
		case int64:
			if vb < 0 {
				return 1, nil
			}
			return cmp.Compare(va, uint64(vb)), nil
		}
	case float64:
		if vb, ok := nb.(float64); ok {
			return cmp.Compare(va, vb), nil
		}
	case string:
		if vb, ok := nb.(string); ok {
			return strings.Compare(va, vb), nil
		}
	case bool:
		if vb, ok := nb.(bool); ok {
			return cmp.Compare(lo.Ternary(va, 1, 0), lo.Ternary(vb, 1, 0)), nil
		}
	case time.Time:
		if vb, ok := nb.(time.Time); ok {
			return va.Compare(vb), nil
		}
	case []byte:
		if vb, ok := nb.([]byte); ok {
			return bytes.Compare(va, vb), nil
		}
	case uuid.UUID:
		if vb, ok := nb.(uuid.UUID); ok {
			return bytes.Compare(va[:], vb[:]), nil
		}
	}

	return 0, fmt.Errorf("%w: cannot compare %T with %T", ErrUnsupportedKeyValue, a, b)
}

// KeyColumn maps a primary key column to its value getter.
type KeyColumn[R any] struct {
	Column string
	Get    func(R) any
}

// PrimaryKey lists the primary key columns of R in declaration order.
type PrimaryKey[R any] []KeyColumn[R]

// NewPrimaryKey builds a PrimaryKey from getters. Every column must have a getter.
//
//	key, err := goconnection.NewPrimaryKey(goconnection.Getters[User]{
//		"id": func(u User) any { return u.ID },
//	}, "id")
func NewPrimaryKey[R any](getters Getters[R], columns ...string) (PrimaryKey[R], error) {
	ret := make(PrimaryKey[R], 0, len(columns))
	for _, column := range columns {
		getter, ok := getters[column]
		if !ok {
			return nil, fmt.Errorf("cannot find getter for key column '%s'", column)
		}

		ret = append(ret, KeyColumn[R]{Column: column, Get: getter})
	}

	return ret, nil
}

// Columns returns the key column names.
func (k PrimaryKey[R]) Columns() []string {
	return lo.Map(k, func(c KeyColumn[R], _ int) string { return c.Column })
}

// Arity returns the number of key columns.
func (k PrimaryKey[R]) Arity() int {
	return len(k)
}

// Tuple extracts the key tuple of a record.
func (k PrimaryKey[R]) Tuple(record R) (KeyTuple, error) {
	return NewKeyTuple(lo.Map(k, func(c KeyColumn[R], _ int) any { return c.Get(record) })...)
}

// Cursor returns the encoded cursor of a record.
func (k PrimaryKey[R]) Cursor(record R) (string, error) {
	t, err := k.Tuple(record)
	if err != nil {
		return "", err
	}

	return EncodeCursor(t)
}

// conforms checks that t holds one value per key column, each of the type the
// key getters produce. Types are read from the zero record; when it yields no
// key, for example a nil pointer record, only the arity is checked.
func (k PrimaryKey[R]) conforms(t KeyTuple) error {
	if t.Arity() != k.Arity() {
		return fmt.Errorf("%w: cursor holds %d values, primary key has %d columns", ErrCursorDecode, t.Arity(), k.Arity())
	}

	want, ok := k.zeroTuple()
	if !ok {
		return nil
	}

	for i, c := range k {
		if reflect.TypeOf(t.Value(i)) != reflect.TypeOf(want.Value(i)) {
			return fmt.Errorf("%w: column '%s' holds %T, want %T", ErrCursorDecode, c.Column, t.Value(i), want.Value(i))
		}
	}

	return nil
}

func (k PrimaryKey[R]) zeroTuple() (t KeyTuple, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = KeyTuple{}, false
		}
	}()

	t, err := k.Tuple(*new(R))

	return t, err == nil
}

func (k PrimaryKey[R]) validate() error {
	if len(k) == 0 || len(k) > MaxKeyArity {
		return fmt.Errorf("%w: primary key has %d columns, want 1..%d", ErrUnsupportedKeyArity, len(k), MaxKeyArity)
	}

	return nil
}

// Getters maps column names to value getters of a record. List the columns used
// for filtering, ordering and keys.
//
//	goconnection.Getters[User]{
//		"id":   func(u User) any { return u.ID },
//		"name": func(u User) any { return u.Name },
//	}
type Getters[T any] map[string]func(T) any
