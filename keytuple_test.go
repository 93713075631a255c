package goconnection

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewKeyTuple(t *testing.T) {
	tests := []struct {
		name    string
		values  []any
		want    []any
		wantErr error
	}{
		{"int normalized", []any{int32(5)}, []any{int64(5)}, nil},
		{"uint normalized", []any{uint8(5)}, []any{uint64(5)}, nil},
		{"float32 widened", []any{float32(0.5)}, []any{float64(0.5)}, nil},
		{"nil bytes become empty", []any{[]byte(nil)}, []any{[]byte{}}, nil},
		{"three columns", []any{1, "a", true}, []any{int64(1), "a", true}, nil},
		{"no columns", nil, nil, ErrUnsupportedKeyArity},
		{"four columns", []any{1, 2, 3, 4}, nil, ErrUnsupportedKeyArity},
		{"unsupported value", []any{struct{}{}}, nil, ErrUnsupportedKeyValue},
		{"nil value", []any{nil}, nil, ErrUnsupportedKeyValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewKeyTuple(tt.values...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, len(tt.want), got.Arity())
			assert.Equal(t, tt.want, got.Values())
		})
	}
}

func Test_KeyTuple_copiesBytes(t *testing.T) {
	b := []byte{1, 2}
	kt, err := NewKeyTuple(b)
	require.NoError(t, err)

	b[0] = 9
	assert.Equal(t, []byte{1, 2}, kt.Value(0))
}

func Test_KeyTuple_Equal(t *testing.T) {
	a, _ := NewKeyTuple(1, "x")
	b, _ := NewKeyTuple(int64(1), "x")
	c, _ := NewKeyTuple(1, "y")
	d, _ := NewKeyTuple(1)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
	assert.True(t, KeyTuple{}.IsEmpty())
	assert.Equal(t, "(1, x)", a.String())
}

func Test_KeyTuple_permute(t *testing.T) {
	kt, _ := NewKeyTuple(1, "b", true)

	got := kt.permute([]int{2, 0, 1})
	assert.Equal(t, []any{true, int64(1), "b"}, got.Values())
}

func Test_compareKeyValues(t *testing.T) {
	now := time.Now()
	u1 := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	u2 := uuid.MustParse("00000000-0000-0000-0000-000000000002")

	tests := []struct {
		name    string
		a, b    any
		want    int
		wantErr bool
	}{
		{"ints", 1, 2, -1, false},
		{"int vs uint", int64(-1), uint64(0), -1, false},
		{"uint vs int", uint(3), 3, 0, false},
		{"floats", 2.5, 1.5, 1, false},
		{"strings", "b", "a", 1, false},
		{"bools", false, true, -1, false},
		{"times", now, now.Add(time.Second), -1, false},
		{"bytes", []byte{1}, []byte{1, 0}, -1, false},
		{"uuids", u2, u1, 1, false},
		{"mismatched kinds", "1", 1, 0, true},
		{"unsupported", struct{}{}, 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compareKeyValues(tt.a, tt.b)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedKeyValue)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_NewPrimaryKey(t *testing.T) {
	key, err := NewPrimaryKey(tUserGetters, "created_at", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"created_at", "id"}, key.Columns())
	assert.Equal(t, 2, key.Arity())

	user := newUsers(1)[0]
	kt, err := key.Tuple(user)
	require.NoError(t, err)
	assert.Equal(t, []any{user.CreatedAt, uint64(1)}, kt.Values())

	_, err = NewPrimaryKey(tUserGetters, "id", "email")
	assert.Error(t, err)
}

func Test_PrimaryKey_conforms(t *testing.T) {
	composite := PrimaryKey[tUser]{
		{Column: "created_at", Get: func(u tUser) any { return u.CreatedAt }},
		{Column: "id", Get: func(u tUser) any { return u.ID }},
	}
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		key   PrimaryKey[tUser]
		tuple KeyTuple
		ok    bool
	}{
		{"same type", tUserKey, mustKeyTuple(t, uint(7)), true},
		{"any unsigned width", tUserKey, mustKeyTuple(t, uint8(7)), true},
		{"signed for unsigned", tUserKey, mustKeyTuple(t, 7), false},
		{"string for unsigned", tUserKey, mustKeyTuple(t, "7"), false},
		{"arity", tUserKey, mustKeyTuple(t, uint(7), uint(8)), false},
		{"composite", composite, mustKeyTuple(t, at, uint(7)), true},
		{"composite swapped", composite, mustKeyTuple(t, uint(7), at), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.key.conforms(tt.tuple)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrCursorDecode)
			}
		})
	}

	t.Run("pointer records check arity only", func(t *testing.T) {
		key := PrimaryKey[*tUser]{{Column: "id", Get: func(u *tUser) any { return u.ID }}}

		assert.NoError(t, key.conforms(mustKeyTuple(t, "7")))
		assert.ErrorIs(t, key.conforms(mustKeyTuple(t, 1, 2)), ErrCursorDecode)
	})
}

func Test_PrimaryKey_validate(t *testing.T) {
	get := func(tUser) any { return 1 }

	assert.ErrorIs(t, PrimaryKey[tUser]{}.validate(), ErrUnsupportedKeyArity)
	assert.NoError(t, PrimaryKey[tUser]{{"a", get}, {"b", get}, {"c", get}}.validate())
	assert.ErrorIs(t, PrimaryKey[tUser]{{"a", get}, {"b", get}, {"c", get}, {"d", get}}.validate(), ErrUnsupportedKeyArity)
}
