package goconnection

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Alp4ka/goconnection"

// Store round trip names, used as span names and metric labels.
const (
	opFetchPage     = "fetch_page"
	opFetchAll      = "fetch_all"
	opCountAndPages = "count_and_pages"
	opCount         = "count"
	opCursorFetch   = "cursor_fetch"
	opForwardProbe  = "forward_probe"
	opBackwardProbe = "backward_probe"
)

// Metrics holds the Prometheus collectors of a Resolver.
type Metrics struct {
	// ResolutionsTotal counts resolutions.
	// Labels: mode (none, pages, offset, cursor), outcome (success, error)
	ResolutionsTotal *prometheus.CounterVec

	// RoundTripDuration tracks store round trip duration in seconds.
	// Labels: mode, operation (fetch_page, count, forward_probe, ...)
	RoundTripDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "connection_resolutions_total",
				Help: "Total number of connection resolutions",
			},
			[]string{"mode", "outcome"},
		),
		RoundTripDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "connection_store_round_trip_duration_seconds",
				Help:    "Store round trip duration distribution",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
			},
			[]string{"mode", "operation"},
		),
	}
}

func (m *Metrics) recordResolution(mode Mode, err error) {
	if m == nil {
		return
	}

	m.ResolutionsTotal.WithLabelValues(string(mode), lo.Ternary(err == nil, "success", "error")).Inc()
}

func (m *Metrics) recordRoundTrip(mode Mode, op string, duration time.Duration) {
	if m == nil {
		return
	}

	m.RoundTripDuration.WithLabelValues(string(mode), op).Observe(duration.Seconds())
}

// instrument wraps every store round trip with a span and a duration sample.
type instrument struct {
	tracer  trace.Tracer
	metrics *Metrics
}

func newInstrument(tp trace.TracerProvider, metrics *Metrics) instrument {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return instrument{
		tracer:  tp.Tracer(instrumentationName),
		metrics: metrics,
	}
}

func defaultInstrument() instrument {
	return newInstrument(nil, nil)
}

// roundTrip runs a single store call. Store errors come back wrapped with
// ErrStoreFailure.
func (in instrument) roundTrip(ctx context.Context, mode Mode, op string, fn func(context.Context) error) error {
	ctx, span := in.tracer.Start(ctx, "goconnection."+op,
		trace.WithAttributes(attribute.String("pagination.mode", string(mode))),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	in.metrics.recordRoundTrip(mode, op, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return storeFailure(op, err)
	}

	return nil
}
