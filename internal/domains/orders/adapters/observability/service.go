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

	"github.com/Apurer/storefront-console/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-console/internal/domains/orders/domain"
	"github.com/Apurer/storefront-console/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/storefront-console/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) ListOrders(ctx context.Context) ([]*types.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	diverging := 0
	for _, view := range result {
		if view.TotalDiverges {
			diverging++
		}
	}
	span.SetAttributes(attribute.Int("orders.count", len(result)), attribute.Int("orders.diverging", diverging))
	s.logInfo(ctx, "orders listed", slog.Int("orders.count", len(result)), slog.Int("orders.diverging", diverging))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (*types.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) UpdateOrder(ctx context.Context, input types.UpdateOrderInput) (*types.OrderView, error) {
	attrs := []attribute.KeyValue{attribute.Int64("order.id", input.ID), attribute.Bool("order.idempotent", input.IdempotencyKey != "")}
	if input.Patch.Status != nil {
		attrs = append(attrs, attribute.String("order.status.requested", string(*input.Patch.Status)))
	}
	ctx, span := s.tracer.Start(ctx, "OrdersService.UpdateOrder", trace.WithAttributes(attrs...))
	defer span.End()

	s.logInfo(ctx, "updating order", slog.Int64("order.id", input.ID))
	result, err := s.inner.UpdateOrder(ctx, input)
	if err != nil {
		var transitionErr *domain.TransitionError
		if errors.As(err, &transitionErr) {
			s.metrics.recordTransitionRejected(ctx, transitionErr.From, transitionErr.To)
		}
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.Int64("order.id", input.ID))
	}
	s.metrics.recordUpdated(ctx, result.Order.Status)
	s.logInfo(ctx, "order updated",
		slog.Int64("order.id", input.ID),
		slog.String("order.status", string(result.Order.Status)),
		slog.Bool("order.total_diverges", result.TotalDiverges))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "OrdersService.DeleteOrder", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if err := s.inner.DeleteOrder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.Int64("order.id", id))
	return nil
}

func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*types.OrderView, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder",
		trace.WithAttributes(attribute.String("customer.ref", input.CustomerRef), attribute.Int("order.lines", len(input.Lines))))
	defer span.End()

	result, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order", slog.String("customer.ref", input.CustomerRef))
	}
	s.metrics.recordPlaced(ctx)
	span.SetAttributes(attribute.Int64("order.id", result.Order.ID))
	s.logInfo(ctx, "order placed",
		slog.Int64("order.id", result.Order.ID),
		slog.String("order.invoice_number", result.Order.InvoiceNumber))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced        metric.Int64Counter
	ordersUpdated       metric.Int64Counter
	ordersDeleted       metric.Int64Counter
	transitionsRejected metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	placed, _ := m.Int64Counter("orders.service.orders_placed", metric.WithDescription("Number of orders placed"))
	updated, _ := m.Int64Counter("orders.service.orders_updated", metric.WithDescription("Number of order edits applied"))
	deleted, _ := m.Int64Counter("orders.service.orders_deleted", metric.WithDescription("Number of orders deleted"))
	rejected, _ := m.Int64Counter("orders.service.transitions_rejected", metric.WithDescription("Number of refused status transitions"))
	return serviceMetrics{
		ordersPlaced:        placed,
		ordersUpdated:       updated,
		ordersDeleted:       deleted,
		transitionsRejected: rejected,
	}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context, status domain.Status) {
	if m.ordersUpdated != nil {
		m.ordersUpdated.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordTransitionRejected(ctx context.Context, from, to domain.Status) {
	if m.transitionsRejected != nil {
		m.transitionsRejected.Add(ctx, 1, metric.WithAttributes(
			attribute.String("from", string(from)),
			attribute.String("to", string(to)),
		))
	}
}

var _ ports.Service = (*Service)(nil)
