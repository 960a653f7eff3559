package ports

import (
	"context"
	"errors"
	"io"

	"github.com/Apurer/storefront-console/internal/domains/invoices/domain"
	ordertypes "github.com/Apurer/storefront-console/internal/domains/orders/application/types"
)

// ErrUnsupportedFormat is returned when no renderer is registered for the requested format.
var ErrUnsupportedFormat = errors.New("unsupported invoice format")

// OrderSource loads the order view an invoice is generated from.
type OrderSource interface {
	GetOrder(ctx context.Context, id int64) (*ordertypes.OrderView, error)
}

// Renderer turns a composed document into a downloadable file.
type Renderer interface {
	Format() string
	ContentType() string
	Render(doc domain.Document, w io.Writer) error
}

// RenderedInvoice is a finished document ready to be served.
type RenderedInvoice struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service exposes invoice use cases to adapters.
type Service interface {
	GenerateInvoice(ctx context.Context, orderID int64) (*domain.Invoice, error)
	RenderInvoice(ctx context.Context, orderID int64, format string) (*RenderedInvoice, error)
}
