package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	orderdomain "github.com/Apurer/storefront-console/internal/domains/orders/domain"
	"github.com/Apurer/storefront-console/internal/shared/tax"
)

var orderDate = time.Date(2024, 3, 14, 9, 30, 0, 0, time.UTC)

func sampleOrder(t *testing.T) *orderdomain.Order {
	t.Helper()
	soap, err := orderdomain.FreezeLineItem(orderdomain.ProductSnapshot{
		ID: 1, Name: "A1 soap", Price: decimal.RequireFromString("100.00"), TaxClass: tax.Standard,
	}, 2)
	require.NoError(t, err)
	book, err := orderdomain.FreezeLineItem(orderdomain.ProductSnapshot{
		ID: 2, Name: "Recipe book", Price: decimal.RequireFromString("50.00"), TaxClass: tax.Reduced6,
	}, 1)
	require.NoError(t, err)
	order, err := orderdomain.NewOrder("INV-20240314-0000AB12", "cust-1", orderDate,
		[]orderdomain.LineItem{soap, book},
		orderdomain.Shipping{Address: "Storgatan 1, Umeå", Method: "postnord", Cost: decimal.RequireFromString("49.00")})
	require.NoError(t, err)
	order.ID = 12
	return order
}

func TestGenerate_PerLineTaxAndShipping(t *testing.T) {
	inv, err := Generate(sampleOrder(t), Customer{Name: "Alex Berg"})
	require.NoError(t, err)

	require.Len(t, inv.Lines, 2)
	require.Equal(t, "200.00", inv.Lines[0].LineTotal.StringFixed(2))
	require.Equal(t, "50.00", inv.Lines[0].Tax.StringFixed(2))
	require.Equal(t, "3.00", inv.Lines[1].Tax.StringFixed(2))
	require.Equal(t, "250.00", inv.Subtotal.StringFixed(2))
	require.Equal(t, "53.00", inv.TaxAmount.StringFixed(2))
	require.Equal(t, "352.00", inv.GrandTotal.StringFixed(2))
	require.True(t, inv.Divergence.IsZero())
	require.False(t, inv.Diverges())
	require.Equal(t, orderDate, inv.IssuedAt)
}

func TestGenerate_SumsRoundedLines(t *testing.T) {
	order := sampleOrder(t)
	order.LineItems = nil
	for ref := int64(1); ref <= 3; ref++ {
		order.LineItems = append(order.LineItems, orderdomain.LineItem{
			ProductRef: ref, Name: "Sample sachet", UnitPrice: decimal.RequireFromString("0.335"), TaxClass: tax.Standard, Quantity: 1,
		})
	}
	order.ShippingCost = decimal.Zero

	inv, err := Generate(order, Customer{})
	require.NoError(t, err)

	printed := decimal.Zero
	printedTax := decimal.Zero
	for _, line := range inv.Lines {
		require.Equal(t, "0.34", line.LineTotal.String())
		require.Equal(t, "0.09", line.Tax.String())
		printed = printed.Add(line.LineTotal)
		printedTax = printedTax.Add(line.Tax)
	}
	require.True(t, inv.Subtotal.Equal(printed))
	require.Equal(t, "1.02", inv.Subtotal.StringFixed(2))
	require.True(t, inv.TaxAmount.Equal(printedTax))
	require.Equal(t, "0.27", inv.TaxAmount.StringFixed(2))
	require.Equal(t, "1.29", inv.GrandTotal.StringFixed(2))
	require.True(t, order.Breakdown().GrandTotal.Equal(inv.GrandTotal))

	summary := Compose(inv, Branding{}).Summary
	require.Equal(t, Field{Label: "Subtotal", Value: "1.02 SEK"}, summary[0])
}

func TestGenerate_EmptyOrder(t *testing.T) {
	order := sampleOrder(t)
	order.LineItems = nil
	_, err := Generate(order, Customer{})
	require.ErrorIs(t, err, ErrEmptyOrder)

	_, err = Generate(nil, Customer{})
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestGenerate_DoesNotMutateOrder(t *testing.T) {
	order := sampleOrder(t)
	before := order.Clone()

	_, err := Generate(order, Customer{})
	require.NoError(t, err)
	require.Equal(t, before, order)
}

func TestGenerate_ReportsStoredTotalDivergence(t *testing.T) {
	order := sampleOrder(t)
	require.NoError(t, order.SetTotalPrice(decimal.RequireFromString("300")))

	inv, err := Generate(order, Customer{})
	require.NoError(t, err)
	require.Equal(t, "300.00", inv.StoredTotal.StringFixed(2))
	require.Equal(t, "-52.00", inv.Divergence.StringFixed(2))
	require.True(t, inv.Diverges())
}

func TestGenerate_Deterministic(t *testing.T) {
	order := sampleOrder(t)
	first, err := Generate(order, Customer{Name: "Alex Berg"})
	require.NoError(t, err)
	second, err := Generate(order, Customer{Name: "Alex Berg"})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, Compose(first, Branding{StoreName: "Hayoon"}), Compose(second, Branding{StoreName: "Hayoon"}))
}

func TestCompose_Layout(t *testing.T) {
	inv, err := Generate(sampleOrder(t), Customer{Name: "Alex Berg", CustomerNumber: "C-1001", Email: "alex@example.com"})
	require.NoError(t, err)

	doc := Compose(inv, Branding{StoreName: "Soap & Co"})
	require.Equal(t, "Invoice INV-20240314-0000AB12", doc.Title)
	require.Equal(t, "Soap & Co", doc.Store)
	require.Equal(t, Field{Label: "Invoice date", Value: "2024-03-14"}, doc.Header[1])
	require.Equal(t, Columns, doc.Columns)
	require.Equal(t, []string{"A1 soap", "100.00 SEK", "25%", "2", "200.00 SEK"}, doc.Rows[0])
	require.Equal(t, []string{"Recipe book", "50.00 SEK", "6%", "1", "50.00 SEK"}, doc.Rows[1])
	require.Equal(t, []Field{
		{Label: "Subtotal", Value: "250.00 SEK"},
		{Label: "Tax", Value: "53.00 SEK"},
		{Label: "Shipping", Value: "49.00 SEK"},
		{Label: "Total", Value: "352.00 SEK"},
	}, doc.Summary)

	eur := Compose(inv, Branding{Currency: "EUR"})
	require.Equal(t, "352.00 EUR", eur.Summary[3].Value)
}
