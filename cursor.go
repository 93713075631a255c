package goconnection

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var _encoder = base64.RawURLEncoding

// keyKind tags the type of a cursor element so that decoding restores the
// exact Go type that was encoded.
type keyKind string

const (
	kindInt    keyKind = "i"
	kindUint   keyKind = "u"
	kindFloat  keyKind = "f"
	kindString keyKind = "s"
	kindBool   keyKind = "b"
	kindTime   keyKind = "t"
	kindBytes  keyKind = "x"
	kindUUID   keyKind = "g"
)

// cursorElement is the wire form of a single key value: {"t": kind, "v": value}.
// Integers are carried as decimal strings so they survive JSON number precision.
type cursorElement struct {
	Kind  keyKind         `json:"t"`
	Value json.RawMessage `json:"v"`
}

// EncodeCursor encodes a key tuple into an opaque token. The token is the
// base64 (URL alphabet, no padding) form of a compact JSON array:
//
//	[{"t":"i","v":"42"},{"t":"s","v":"abc"}]
func EncodeCursor(t KeyTuple) (string, error) {
	if t.Arity() == 0 || t.Arity() > MaxKeyArity {
		return "", fmt.Errorf("%w: cannot encode %d values", ErrUnsupportedKeyArity, t.Arity())
	}

	elements := make([]cursorElement, 0, t.Arity())
	for i := 0; i < t.Arity(); i++ {
		el, err := encodeElement(t.Value(i))
		if err != nil {
			return "", fmt.Errorf("cannot encode cursor value %d: %w", i, err)
		}

		elements = append(elements, el)
	}

	jTok, err := json.Marshal(elements)
	if err != nil {
		return "", fmt.Errorf("cannot marshal cursor value: %w", err)
	}

	return _encoder.EncodeToString(jTok), nil
}

// DecodeCursor parses a token produced by EncodeCursor. Any other input fails
// with ErrCursorDecode.
func DecodeCursor(token string) (KeyTuple, error) {
	if len(token) == 0 {
		return KeyTuple{}, fmt.Errorf("%w: empty token", ErrCursorDecode)
	}

	jsonData, err := _encoder.DecodeString(token)
	if err != nil {
		return KeyTuple{}, fmt.Errorf("%w: failed to decode base64 encoded cursor: %w", ErrCursorDecode, err)
	}

	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.DisallowUnknownFields()

	var elements []cursorElement
	if err = dec.Decode(&elements); err != nil {
		return KeyTuple{}, fmt.Errorf("%w: failed to unmarshal json encoded cursor: %w", ErrCursorDecode, err)
	}
	if dec.More() {
		return KeyTuple{}, fmt.Errorf("%w: trailing data after cursor", ErrCursorDecode)
	}
	if len(elements) == 0 || len(elements) > MaxKeyArity {
		return KeyTuple{}, fmt.Errorf("%w: cursor holds %d values, want 1..%d", ErrCursorDecode, len(elements), MaxKeyArity)
	}

	values := make([]any, 0, len(elements))
	for i, el := range elements {
		v, err := decodeElement(el)
		if err != nil {
			return KeyTuple{}, fmt.Errorf("%w: value %d: %w", ErrCursorDecode, i, err)
		}

		values = append(values, v)
	}

	t, err := NewKeyTuple(values...)
	if err != nil {
		return KeyTuple{}, fmt.Errorf("%w: %w", ErrCursorDecode, err)
	}

	return t, nil
}

func encodeElement(v any) (cursorElement, error) {
	var (
		kind    keyKind
		payload any
	)

	switch vt := v.(type) {
	case int64:
		kind, payload = kindInt, strconv.FormatInt(vt, 10)
	case uint64:
		kind, payload = kindUint, strconv.FormatUint(vt, 10)
	case float64:
		if math.IsNaN(vt) || math.IsInf(vt, 0) {
			return cursorElement{}, fmt.Errorf("%w: non-finite float", ErrUnsupportedKeyValue)
		}
		kind, payload = kindFloat, vt
	case string:
		kind, payload = kindString, vt
	case bool:
		kind, payload = kindBool, vt
	case time.Time:
		kind, payload = kindTime, vt.Format(time.RFC3339Nano)
	case []byte:
		kind, payload = kindBytes, vt
	case uuid.UUID:
		kind, payload = kindUUID, vt.String()
	default:
		return cursorElement{}, fmt.Errorf("%w: %T", ErrUnsupportedKeyValue, v)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return cursorElement{}, err
	}

	return cursorElement{Kind: kind, Value: raw}, nil
}

func decodeElement(el cursorElement) (any, error) {
	switch el.Kind {
	case kindInt:
		s, err := unmarshalAs[string](el.Value)
		if err != nil {
			return nil, err
		}
		return strconv.ParseInt(s, 10, 64)
	case kindUint:
		s, err := unmarshalAs[string](el.Value)
		if err != nil {
			return nil, err
		}
		return strconv.ParseUint(s, 10, 64)
	case kindFloat:
		return unmarshalAs[float64](el.Value)
	case kindString:
		return unmarshalAs[string](el.Value)
	case kindBool:
		return unmarshalAs[bool](el.Value)
	case kindTime:
		s, err := unmarshalAs[string](el.Value)
		if err != nil {
			return nil, err
		}
		return time.Parse(time.RFC3339Nano, s)
	case kindBytes:
		b, err := unmarshalAs[[]byte](el.Value)
		if err != nil {
			return nil, err
		}
		if b == nil {
			b = []byte{}
		}
		return b, nil
	case kindUUID:
		s, err := unmarshalAs[string](el.Value)
		if err != nil {
			return nil, err
		}
		return uuid.Parse(s)
	default:
		return nil, fmt.Errorf("unknown value kind '%s'", el.Kind)
	}
}

func unmarshalAs[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 || string(raw) == "null" {
		return v, fmt.Errorf("missing value")
	}

	err := json.Unmarshal(raw, &v)

	return v, err
}
