// Package observability decorates the favorites store with tracing, logging,
// and metrics.
package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/micromarket/storefront/internal/domains/favorites/ports"
)

const tracerName = "github.com/micromarket/storefront/internal/domains/favorites/adapters/observability/store"

// Store wraps a favorites store port with instrumentation.
type Store struct {
	inner   ports.Store
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics storeMetrics
}

type Option func(*Store)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Store) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create the store's instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Store) {
		s.metrics = newStoreMetrics(m)
	}
}

// New wires a decorator around the core store.
func New(inner ports.Store, opts ...Option) ports.Store {
	s := &Store{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newStoreMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Reload resynchronizes the mirror with instrumentation.
func (s *Store) Reload(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Store.Reload")
	defer span.End()

	if err := s.inner.Reload(ctx); err != nil {
		return s.handleError(ctx, span, err, "failed to reload favorites")
	}
	count := len(s.inner.IDs())
	span.SetAttributes(attribute.Int("favorites.count", count))
	s.metrics.recordReload(ctx)
	s.logInfo(ctx, "favorites reloaded", slog.Int("count", count))
	return nil
}

// Toggle flips membership with instrumentation. A locally rejected toggle
// (no session) is logged at info level, not as an error.
func (s *Store) Toggle(ctx context.Context, productID string) (bool, error) {
	ctx, span := s.startSpan(ctx, "Store.Toggle", attribute.String("product.id", productID))
	defer span.End()

	isFavorite, err := s.inner.Toggle(ctx, productID)
	if errors.Is(err, ports.ErrAuthRequired) {
		span.SetAttributes(attribute.Bool("favorites.auth_rejected", true))
		s.logInfo(ctx, "favorite toggle rejected, no session", slog.String("product.id", productID))
		return false, err
	}
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to toggle favorite", slog.String("product.id", productID))
	}
	span.SetAttributes(attribute.Bool("favorites.is_favorite", isFavorite))
	s.metrics.recordToggle(ctx, isFavorite)
	s.logInfo(ctx, "favorite toggled", slog.String("product.id", productID), slog.Bool("is_favorite", isFavorite))
	return isFavorite, nil
}

// IsFavorite delegates the pure local lookup without instrumentation noise.
func (s *Store) IsFavorite(productID string) bool {
	return s.inner.IsFavorite(productID)
}

// IDs delegates the snapshot.
func (s *Store) IDs() []string {
	return s.inner.IDs()
}

func (s *Store) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Store) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Store) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type storeMetrics struct {
	reloads metric.Int64Counter
	toggles metric.Int64Counter
}

func newStoreMetrics(m metric.Meter) storeMetrics {
	if m == nil {
		return storeMetrics{}
	}
	reloads, _ := m.Int64Counter("favorites.store.reloads", metric.WithDescription("Number of favorites reloads"))
	toggles, _ := m.Int64Counter("favorites.store.toggles", metric.WithDescription("Number of favorite toggles"))
	return storeMetrics{reloads: reloads, toggles: toggles}
}

func (m storeMetrics) recordReload(ctx context.Context) {
	addCounter(ctx, m.reloads, 1)
}

func (m storeMetrics) recordToggle(ctx context.Context, isFavorite bool) {
	addCounter(ctx, m.toggles, 1, attribute.Bool("favorites.is_favorite", isFavorite))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Store = (*Store)(nil)
