package goconnection

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

// Pagination selects one pagination strategy. It is implemented only by Pages,
// Offset and Cursor; a nil Pagination returns every matching record.
type Pagination interface {
	mode() Mode
}

// Mode names a pagination strategy.
type Mode string

const (
	ModeNone   Mode = "none"
	ModePages  Mode = "pages"
	ModeOffset Mode = "offset"
	ModeCursor Mode = "cursor"
)

// Pages requests the 1-based page Page of size Limit.
type Pages struct {
	Page  uint64
	Limit uint64
}

// Offset requests Take records starting at the page that encloses Skip.
type Offset struct {
	Skip uint64
	Take uint64
}

// Cursor requests Limit records strictly after Cursor. A nil Cursor starts at
// the beginning of the collection.
type Cursor struct {
	Cursor *string
	Limit  uint64
}

func (Pages) mode() Mode  { return ModePages }
func (Offset) mode() Mode { return ModeOffset }
func (Cursor) mode() Mode { return ModeCursor }

var (
	_ Pagination = Pages{}
	_ Pagination = Offset{}
	_ Pagination = Cursor{}
)

func (p Pages) validate() error {
	if p.Page == 0 {
		return fmt.Errorf("%w: page is 1-based, got 0", ErrInvalidPagination)
	}
	if p.Limit == 0 {
		return fmt.Errorf("%w: zero page limit", ErrInvalidPagination)
	}
	if p.Page > math.MaxUint64/p.Limit {
		return fmt.Errorf("%w: page %d of size %d overflows the offset", ErrInvalidPagination, p.Page, p.Limit)
	}

	return nil
}

func (o Offset) validate() error {
	if o.Take == 0 {
		return fmt.Errorf("%w: zero take", ErrInvalidPagination)
	}

	return nil
}

func (c Cursor) validate() error {
	if c.Limit == 0 {
		return fmt.Errorf("%w: zero cursor limit", ErrInvalidPagination)
	}

	return nil
}

func modeOf(p Pagination) Mode {
	if p == nil {
		return ModeNone
	}

	return p.mode()
}

// RawPagination is intended for API payloads. At most one member may be set:
//
//	{"pages": {"page": 2, "limit": 10}}
//	{"offset": {"skip": 20, "take": 10}}
//	{"cursor": {"cursor": "W3sidCI6...", "limit": 10}}
type RawPagination struct {
	Pages  *RawPages  `json:"pages,omitempty"`
	Offset *RawOffset `json:"offset,omitempty"`
	Cursor *RawCursor `json:"cursor,omitempty"`
}

type RawPages struct {
	Page  uint64 `json:"page"`
	Limit uint64 `json:"limit"`
}

type RawOffset struct {
	Skip uint64 `json:"skip"`
	Take uint64 `json:"take"`
}

type RawCursor struct {
	// Cursor - token taken from Edge.Cursor. If empty, the first page is returned.
	Cursor string `json:"cursor"`
	Limit  uint64 `json:"limit"`
}

// Decode converts RawPagination into a Pagination. Returns nil when no member is set.
func (p RawPagination) Decode() (Pagination, error) {
	set := lo.Count([]bool{p.Pages != nil, p.Offset != nil, p.Cursor != nil}, true)
	if set > 1 {
		return nil, fmt.Errorf("%w: exactly one of pages, offset, cursor expected, got %d", ErrInvalidPagination, set)
	}

	switch {
	case p.Pages != nil:
		return Pages{Page: p.Pages.Page, Limit: p.Pages.Limit}, nil
	case p.Offset != nil:
		return Offset{Skip: p.Offset.Skip, Take: p.Offset.Take}, nil
	case p.Cursor != nil:
		return Cursor{
			Cursor: lo.Ternary(p.Cursor.Cursor == "", nil, lo.ToPtr(p.Cursor.Cursor)),
			Limit:  p.Cursor.Limit,
		}, nil
	default:
		return nil, nil
	}
}
