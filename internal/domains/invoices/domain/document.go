package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is printed after every amount unless branding overrides it.
const DefaultCurrency = "SEK"

// Branding is the store identity printed in the invoice header.
type Branding struct {
	StoreName string
	Currency  string
}

// Field is a labelled value in a document block.
type Field struct {
	Label string
	Value string
}

// Columns of the line-item table, in print order.
var Columns = []string{"Item", "Unit price", "Tax rate", "Qty", "Line total"}

// Document is the renderer-neutral content of an invoice. Sections are rendered in field order.
type Document struct {
	Title    string
	Store    string
	IssuedAt time.Time
	Header   []Field
	Customer []Field
	Columns  []string
	Rows     [][]string
	Summary  []Field
}

// Compose lays out the invoice. The result depends only on the invoice and branding.
func Compose(inv *Invoice, branding Branding) Document {
	currency := strings.TrimSpace(branding.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	money := func(d decimal.Decimal) string {
		return d.StringFixed(2) + " " + currency
	}

	doc := Document{
		Title:    "Invoice " + inv.InvoiceNumber,
		Store:    strings.TrimSpace(branding.StoreName),
		IssuedAt: inv.IssuedAt,
		Header: []Field{
			{Label: "Invoice number", Value: inv.InvoiceNumber},
			{Label: "Invoice date", Value: inv.IssuedAt.UTC().Format("2006-01-02")},
			{Label: "Order", Value: strconv.FormatInt(inv.OrderID, 10)},
		},
		Customer: []Field{
			{Label: "Customer", Value: inv.Customer.Name},
			{Label: "Customer number", Value: inv.Customer.CustomerNumber},
			{Label: "Email", Value: inv.Customer.Email},
			{Label: "Ship to", Value: inv.ShippingAddress},
			{Label: "Shipping method", Value: inv.ShippingMethod},
		},
		Columns: append([]string(nil), Columns...),
		Rows:    make([][]string, 0, len(inv.Lines)),
		Summary: []Field{
			{Label: "Subtotal", Value: money(inv.Subtotal)},
			{Label: "Tax", Value: money(inv.TaxAmount)},
			{Label: "Shipping", Value: money(inv.Shipping)},
			{Label: "Total", Value: money(inv.GrandTotal)},
		},
	}
	for _, line := range inv.Lines {
		doc.Rows = append(doc.Rows, []string{
			line.Name,
			money(line.UnitPrice),
			line.TaxClass.String(),
			strconv.Itoa(line.Quantity),
			money(line.LineTotal),
		})
	}
	return doc
}
