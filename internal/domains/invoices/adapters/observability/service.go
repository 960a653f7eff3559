package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/storefront-console/internal/domains/invoices/domain"
	"github.com/Apurer/storefront-console/internal/domains/invoices/ports"
)

const tracerName = "github.com/Apurer/storefront-console/internal/domains/invoices/adapters/observability/service"

// Service decorates the invoice service with tracing, logging, and metrics.
type Service struct {
	inner    ports.Service
	tracer   trace.Tracer
	logger   *slog.Logger
	rendered metric.Int64Counter
	diverged metric.Int64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.rendered, _ = m.Int64Counter("invoices.service.rendered", metric.WithDescription("Number of invoice documents rendered"))
		s.diverged, _ = m.Int64Counter("invoices.service.diverging_totals", metric.WithDescription("Invoices whose stored order total differs from the computed one"))
	}
}

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
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

func (s *Service) GenerateInvoice(ctx context.Context, orderID int64) (*domain.Invoice, error) {
	ctx, span := s.tracer.Start(ctx, "InvoicesService.GenerateInvoice", trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	inv, err := s.inner.GenerateInvoice(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to generate invoice", slog.Int64("order.id", orderID))
	}
	if inv.Diverges() {
		if s.diverged != nil {
			s.diverged.Add(ctx, 1)
		}
		s.logger.LogAttrs(ctx, slog.LevelWarn, "stored order total diverges from computed total",
			slog.Int64("order.id", orderID),
			slog.String("invoice.number", inv.InvoiceNumber),
			slog.String("invoice.divergence", inv.Divergence.StringFixed(2)))
	}
	return inv, nil
}

func (s *Service) RenderInvoice(ctx context.Context, orderID int64, format string) (*ports.RenderedInvoice, error) {
	ctx, span := s.tracer.Start(ctx, "InvoicesService.RenderInvoice",
		trace.WithAttributes(attribute.Int64("order.id", orderID), attribute.String("invoice.format", format)))
	defer span.End()

	out, err := s.inner.RenderInvoice(ctx, orderID, format)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to render invoice",
			slog.Int64("order.id", orderID), slog.String("invoice.format", format))
	}
	if s.rendered != nil {
		s.rendered.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "invoice rendered",
		slog.Int64("order.id", orderID), slog.String("invoice.file", out.Filename), slog.Int("invoice.bytes", len(out.Data)))
	return out, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, msg, append(attrs, slog.String("error", err.Error()))...)
	}
	return err
}

var _ ports.Service = (*Service)(nil)
