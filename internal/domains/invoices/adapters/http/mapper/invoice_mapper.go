package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-console/internal/domains/invoices/domain"
)

// Invoice is the JSON shape of a generated invoice.
type Invoice struct {
	InvoiceNumber   string          `json:"invoiceNumber"`
	OrderID         int64           `json:"orderId"`
	IssuedAt        time.Time       `json:"issuedAt"`
	Customer        Customer        `json:"customer"`
	ShippingAddress string          `json:"shippingAddress"`
	ShippingMethod  string          `json:"shippingMethod"`
	Lines           []Line          `json:"lines"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Tax             decimal.Decimal `json:"tax"`
	Shipping        decimal.Decimal `json:"shipping"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
	StoredTotal     decimal.Decimal `json:"storedTotal"`
	TotalDiverges   bool            `json:"totalDiverges"`
}

type Customer struct {
	Name           string `json:"name"`
	CustomerNumber string `json:"customerNumber"`
	Email          string `json:"email"`
}

type Line struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	TaxRate   string          `json:"taxRate"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// FromDomainInvoice converts an invoice to its transport representation.
func FromDomainInvoice(inv *domain.Invoice) Invoice {
	if inv == nil {
		return Invoice{}
	}
	out := Invoice{
		InvoiceNumber: inv.InvoiceNumber,
		OrderID:       inv.OrderID,
		IssuedAt:      inv.IssuedAt,
		Customer: Customer{
			Name:           inv.Customer.Name,
			CustomerNumber: inv.Customer.CustomerNumber,
			Email:          inv.Customer.Email,
		},
		ShippingAddress: inv.ShippingAddress,
		ShippingMethod:  inv.ShippingMethod,
		Lines:           make([]Line, 0, len(inv.Lines)),
		Subtotal:        inv.Subtotal,
		Tax:             inv.TaxAmount,
		Shipping:        inv.Shipping,
		GrandTotal:      inv.GrandTotal,
		StoredTotal:     inv.StoredTotal,
		TotalDiverges:   inv.Diverges(),
	}
	for _, line := range inv.Lines {
		out.Lines = append(out.Lines, Line{
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			TaxRate:   line.TaxClass.String(),
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		})
	}
	return out
}
