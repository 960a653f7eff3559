package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Apurer/storefront-console/internal/domains/invoices/domain"
	"github.com/Apurer/storefront-console/internal/domains/invoices/ports"
	orderdomain "github.com/Apurer/storefront-console/internal/domains/orders/domain"
)

// Service generates invoices from stored orders.
type Service struct {
	orders    ports.OrderSource
	branding  domain.Branding
	renderers map[string]ports.Renderer
}

// NewService wires the invoice service. Renderers are keyed by their Format.
func NewService(orders ports.OrderSource, branding domain.Branding, renderers ...ports.Renderer) *Service {
	s := &Service{orders: orders, branding: branding, renderers: map[string]ports.Renderer{}}
	for _, r := range renderers {
		s.renderers[strings.ToLower(r.Format())] = r
	}
	return s
}

// GenerateInvoice builds the invoice of a stored order. An order without line items fails with ErrEmptyOrder.
func (s *Service) GenerateInvoice(ctx context.Context, orderID int64) (*domain.Invoice, error) {
	view, err := s.orders.GetOrder(ctx, orderID)
	if errors.Is(err, orderdomain.ErrEmptyLineItems) {
		return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrEmptyOrder)
	}
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, fmt.Errorf("order %d: %w", orderID, domain.ErrEmptyOrder)
	}
	return domain.Generate(view.Order, domain.Customer{
		Name:           view.Customer.FullName(),
		CustomerNumber: view.Customer.CustomerNumber,
		Email:          view.Customer.Email,
	})
}

// RenderInvoice produces the invoice file in the requested format ("pdf", "txt").
func (s *Service) RenderInvoice(ctx context.Context, orderID int64, format string) (*ports.RenderedInvoice, error) {
	renderer, ok := s.renderers[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ports.ErrUnsupportedFormat, format)
	}
	invoice, err := s.GenerateInvoice(ctx, orderID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := renderer.Render(domain.Compose(invoice, s.branding), &buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", invoice.InvoiceNumber, err)
	}
	return &ports.RenderedInvoice{
		Filename:    invoice.InvoiceNumber + "." + renderer.Format(),
		ContentType: renderer.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}

var _ ports.Service = (*Service)(nil)
