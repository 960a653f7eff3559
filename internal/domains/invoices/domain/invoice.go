package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	orderdomain "github.com/Apurer/storefront-console/internal/domains/orders/domain"
	"github.com/Apurer/storefront-console/internal/shared/tax"
)

// ErrEmptyOrder means the order carries no line items. Orders are never created that way, so this
// is a data-integrity violation rather than a normal empty state.
var ErrEmptyOrder = errors.New("order has no line items")

// Customer is the billing party printed on the invoice.
type Customer struct {
	Name           string
	CustomerNumber string
	Email          string
}

// Line is one row of the invoice table.
type Line struct {
	Name      string
	UnitPrice decimal.Decimal
	TaxClass  tax.Class
	Quantity  int
	LineTotal decimal.Decimal
	Tax       decimal.Decimal
}

// Invoice is derived from an order snapshot on demand and never stored.
type Invoice struct {
	InvoiceNumber   string
	OrderID         int64
	IssuedAt        time.Time
	Customer        Customer
	ShippingAddress string
	ShippingMethod  string
	Lines           []Line
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	Shipping        decimal.Decimal
	GrandTotal      decimal.Decimal
	// StoredTotal is the operator-editable total of the order; Divergence is StoredTotal - GrandTotal.
	StoredTotal decimal.Decimal
	Divergence  decimal.Decimal
}

// Generate computes the invoice for order. The order is only read.
func Generate(order *orderdomain.Order, customer Customer) (*Invoice, error) {
	if order == nil || len(order.LineItems) == 0 {
		return nil, ErrEmptyOrder
	}
	inv := &Invoice{
		InvoiceNumber:   order.InvoiceNumber,
		OrderID:         order.ID,
		IssuedAt:        order.CreatedAt,
		Customer:        customer,
		ShippingAddress: order.ShippingAddress,
		ShippingMethod:  order.ShippingMethod,
		Lines:           make([]Line, 0, len(order.LineItems)),
		Subtotal:        decimal.Zero,
		TaxAmount:       decimal.Zero,
		Shipping:        order.ShippingCost,
		StoredTotal:     order.TotalPrice,
	}
	for _, item := range order.LineItems {
		line := Line{
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			TaxClass:  item.TaxClass,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
			Tax:       item.Tax(),
		}
		inv.Subtotal = inv.Subtotal.Add(line.LineTotal)
		inv.TaxAmount = inv.TaxAmount.Add(line.Tax)
		inv.Lines = append(inv.Lines, line)
	}
	inv.GrandTotal = inv.Subtotal.Add(inv.TaxAmount).Add(inv.Shipping)
	inv.Divergence = inv.StoredTotal.Sub(inv.GrandTotal)
	return inv, nil
}

// Diverges reports whether the stored total differs from the computed one at cent precision.
func (i *Invoice) Diverges() bool {
	return !i.Divergence.Round(2).IsZero()
}
