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

	"github.com/Apurer/storefront-console/internal/domains/customers/application/types"
	"github.com/Apurer/storefront-console/internal/domains/customers/domain"
	"github.com/Apurer/storefront-console/internal/domains/customers/ports"
)

const tracerName = "github.com/Apurer/storefront-console/internal/domains/customers/adapters/observability/service"

// Service decorates the customers service with tracing, logging, and metrics.
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

// New wraps the core customers service.
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

func (s *Service) Login(ctx context.Context, email, password string) (*types.LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.Login")
	defer span.End()

	result, err := s.inner.Login(ctx, email, password)
	if err != nil {
		s.metrics.recordLogin(ctx, false)
		// Refused credentials are not span errors.
		if errors.Is(err, ports.ErrInvalidCredentials) {
			s.logInfo(ctx, "login refused")
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "login failed")
	}
	s.metrics.recordLogin(ctx, true)
	span.SetAttributes(attribute.String("customer.id", result.Customer.ID))
	s.logInfo(ctx, "session opened", slog.String("customer.id", result.Customer.ID))
	return result, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "CustomersService.Logout")
	defer span.End()

	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "logout failed")
	}
	s.logInfo(ctx, "session closed")
	return nil
}

func (s *Service) CurrentCaller(ctx context.Context, token string) (*types.Caller, error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.CurrentCaller")
	defer span.End()

	caller, err := s.inner.CurrentCaller(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrUnauthenticated) {
			return nil, err
		}
		return nil, s.handleError(ctx, span, err, "failed to resolve session")
	}
	span.SetAttributes(attribute.String("customer.id", caller.CustomerID))
	return caller, nil
}

func (s *Service) RoleOf(ctx context.Context, customerID string) (domain.Role, error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.RoleOf", trace.WithAttributes(attribute.String("customer.id", customerID)))
	defer span.End()

	role, err := s.inner.RoleOf(ctx, customerID)
	if err != nil {
		return "", s.handleError(ctx, span, err, "failed to look up role", slog.String("customer.id", customerID))
	}
	return role, nil
}

func (s *Service) RegisterCustomer(ctx context.Context, input types.RegisterInput) (*domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.RegisterCustomer", trace.WithAttributes(attribute.String("customer.role", string(input.Role))))
	defer span.End()

	c, err := s.inner.RegisterCustomer(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register customer")
	}
	s.logInfo(ctx, "customer registered", slog.String("customer.id", c.ID), slog.String("customer.number", c.CustomerNumber))
	return c, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.ListCustomers")
	defer span.End()

	list, err := s.inner.ListCustomers(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list customers")
	}
	span.SetAttributes(attribute.Int("customers.count", len(list)))
	return list, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.GetCustomer", trace.WithAttributes(attribute.String("customer.id", id)))
	defer span.End()

	c, err := s.inner.GetCustomer(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to get customer", slog.String("customer.id", id))
	}
	return c, nil
}

func (s *Service) LookupCustomers(ctx context.Context, ids []string) ([]*domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.LookupCustomers", trace.WithAttributes(attribute.Int("customers.requested", len(ids))))
	defer span.End()

	list, err := s.inner.LookupCustomers(ctx, ids)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to look up customers")
	}
	return list, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id string, patch types.CustomerPatch) (*domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.UpdateCustomer", trace.WithAttributes(attribute.String("customer.id", id)))
	defer span.End()

	c, err := s.inner.UpdateCustomer(ctx, id, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update customer", slog.String("customer.id", id))
	}
	s.logInfo(ctx, "customer updated", slog.String("customer.id", id), slog.String("customer.role", string(c.Role)))
	return c, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CustomersService.DeleteCustomer", trace.WithAttributes(attribute.String("customer.id", id)))
	defer span.End()

	if err := s.inner.DeleteCustomer(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete customer", slog.String("customer.id", id))
	}
	s.logInfo(ctx, "customer deleted", slog.String("customer.id", id))
	return nil
}

func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "CustomersService.PurgeExpiredSessions")
	defer span.End()

	purged, err := s.inner.PurgeExpiredSessions(ctx)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to purge sessions")
	}
	s.metrics.recordPurged(ctx, purged)
	s.logInfo(ctx, "expired sessions purged", slog.Int64("sessions.purged", purged))
	return purged, nil
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
	logins         metric.Int64Counter
	sessionsPurged metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	logins, _ := m.Int64Counter("customers.service.logins", metric.WithDescription("Number of login attempts"))
	purged, _ := m.Int64Counter("customers.service.sessions_purged", metric.WithDescription("Number of expired sessions removed"))
	return serviceMetrics{logins: logins, sessionsPurged: purged}
}

func (m serviceMetrics) recordLogin(ctx context.Context, ok bool) {
	if m.logins != nil {
		m.logins.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", ok)))
	}
}

func (m serviceMetrics) recordPurged(ctx context.Context, n int64) {
	if m.sessionsPurged != nil && n > 0 {
		m.sessionsPurged.Add(ctx, n)
	}
}

var _ ports.Service = (*Service)(nil)
