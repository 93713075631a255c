package goconnection

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// Resolver resolves connections over the records of one store. It holds no
// per-request state and is safe for concurrent use.
type Resolver[R any] struct {
	store            Store[R]
	logger           logrus.FieldLogger
	limitCap         uint64
	sequentialProbes bool
	metrics          *Metrics
	instrument       instrument
}

// Option configures a Resolver.
type Option func(*options)

type options struct {
	logger           logrus.FieldLogger
	limitCap         uint64
	sequentialProbes bool
	metrics          *Metrics
	tracerProvider   trace.TracerProvider
}

// WithLogger sets the logger for debug traces of successful resolutions.
// Failures are returned to the caller and never logged.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLimitCap normalizes requested limits: zero becomes DefaultLimit and
// values above maxLimit are clamped, as NormalizeLimitMax does. The default
// never exceeds maxLimit. Without it a zero limit fails with ErrInvalidPagination.
func WithLimitCap(maxLimit uint64) Option {
	return func(o *options) {
		o.limitCap = maxLimit
	}
}

// WithSequentialProbes issues the cursor probes one after the other. Use it
// with stores that cannot serve concurrent queries, e.g. one bound to a
// single transaction.
func WithSequentialProbes() Option {
	return func(o *options) {
		o.sequentialProbes = true
	}
}

// WithMetrics records resolutions and store round trips.
func WithMetrics(metrics *Metrics) Option {
	return func(o *options) {
		o.metrics = metrics
	}
}

// WithTracerProvider sets the tracer provider. Defaults to the global one.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

func NewResolver[R any](store Store[R], opts ...Option) *Resolver[R] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	if o.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		o.logger = discard
	}

	return &Resolver[R]{
		store:            store,
		logger:           o.logger,
		limitCap:         o.limitCap,
		sequentialProbes: o.sequentialProbes,
		metrics:          o.metrics,
		instrument:       newInstrument(o.tracerProvider, o.metrics),
	}
}

// Resolve builds the query from filter and orderBy, runs the paginator
// selected by pagination and assembles the connection. A nil pagination
// returns every matching record. Errors are returned as is, no partial
// connection is produced.
func (r *Resolver[R]) Resolve(
	ctx context.Context,
	filter *Filter,
	pagination Pagination,
	orderBy Orderings,
) (*Connection[R], error) {
	start := time.Now()
	mode := modeOf(pagination)

	conn, err := r.resolve(ctx, filter, r.normalize(pagination), orderBy)
	r.metrics.recordResolution(mode, err)
	if err != nil {
		return nil, err
	}

	r.logger.WithFields(logrus.Fields{
		"mode":        mode,
		"edges":       len(conn.Edges),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("connection resolved")

	return conn, nil
}

func (r *Resolver[R]) resolve(
	ctx context.Context,
	filter *Filter,
	pagination Pagination,
	orderBy Orderings,
) (*Connection[R], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q, err := BuildQuery(r.store.Find(), filter, orderBy)
	if err != nil {
		return nil, err
	}

	key := r.store.PrimaryKey()

	var (
		data []R
		meta ConnectionMeta
	)

	switch p := pagination.(type) {
	case nil:
		err = r.instrument.roundTrip(ctx, ModeNone, opFetchAll, func(ctx context.Context) (err error) {
			data, err = q.FetchAll(ctx)
			return err
		})
		meta = UnpaginatedMeta(uint64(len(data)))
	case Pages:
		data, meta, err = paginatePages(ctx, q, p, r.instrument)
	case Offset:
		data, meta, err = paginateOffset(ctx, q, p, r.instrument)
	case Cursor:
		data, meta, err = paginateCursor(ctx, q, key, p, r.instrument, r.sequentialProbes)
	default:
		err = fmt.Errorf("%w: unknown pagination %T", ErrInvalidPagination, pagination)
	}
	if err != nil {
		return nil, err
	}

	return AssembleConnection(data, meta, edgeCursor(key)), nil
}

// normalize applies the limit cap, if any.
func (r *Resolver[R]) normalize(pagination Pagination) Pagination {
	if r.limitCap == 0 {
		return pagination
	}

	capped := func(limit uint64) uint64 {
		return min(NormalizeLimitMax(limit, r.limitCap), r.limitCap)
	}

	switch p := pagination.(type) {
	case Pages:
		p.Limit = capped(p.Limit)
		return p
	case Offset:
		p.Take = capped(p.Take)
		return p
	case Cursor:
		p.Limit = capped(p.Limit)
		return p
	default:
		return pagination
	}
}

// edgeCursor encodes the key of a record. Records whose key cannot be encoded
// get an empty cursor; cursor pagination rejects such keys before this point.
func edgeCursor[R any](key PrimaryKey[R]) func(R) string {
	if key.validate() != nil {
		return nil
	}

	return func(record R) string {
		c, err := key.Cursor(record)
		if err != nil {
			return ""
		}

		return c
	}
}
