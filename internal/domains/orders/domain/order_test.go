package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-console/internal/shared/tax"
)

var placedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestOrder(t *testing.T, items ...LineItem) *Order {
	t.Helper()
	order, err := NewOrder("INV-1", "cust-1", placedAt, items, Shipping{Address: "Storgatan 1, Lund", Method: "postal", Cost: decimal.Zero})
	require.NoError(t, err)
	return order
}

func TestFreezeLineItem_IsIndependentOfLaterPriceChanges(t *testing.T) {
	snapshot := ProductSnapshot{ID: 1, Name: "Soap", Price: dec("100.00"), TaxClass: tax.Standard}
	item, err := FreezeLineItem(snapshot, 2)
	require.NoError(t, err)

	order := newTestOrder(t, item)
	snapshot.Price = dec("150.00")
	snapshot.Name = "Renamed"

	require.True(t, order.LineItems[0].UnitPrice.Equal(dec("100.00")))
	require.Equal(t, "Soap", order.LineItems[0].Name)
	require.True(t, order.Breakdown().Subtotal.Equal(dec("200.00")))
}

func TestBreakdown_PerLineTaxAndUntaxedShipping(t *testing.T) {
	soap, err := FreezeLineItem(ProductSnapshot{ID: 1, Name: "Soap", Price: dec("100.00"), TaxClass: tax.Standard}, 2)
	require.NoError(t, err)
	book, err := FreezeLineItem(ProductSnapshot{ID: 2, Name: "Book", Price: dec("50.00"), TaxClass: tax.Reduced6}, 1)
	require.NoError(t, err)

	order, err := NewOrder("INV-2", "cust-1", placedAt, []LineItem{soap, book}, Shipping{Address: "a", Method: "courier", Cost: dec("49.00")})
	require.NoError(t, err)

	b := order.Breakdown()
	require.True(t, b.Subtotal.Equal(dec("250.00")))
	require.True(t, b.Tax.Equal(dec("53.00")))
	require.True(t, b.GrandTotal.Equal(dec("352.00")))
	require.True(t, order.TotalPrice.Equal(b.GrandTotal))
	require.False(t, order.TotalDiverges())
}

func TestNewOrder_Validates(t *testing.T) {
	_, err := NewOrder("INV-1", "cust-1", placedAt, nil, Shipping{Address: "a"})
	require.ErrorIs(t, err, ErrEmptyLineItems)

	item := LineItem{ProductRef: 1, Name: "Soap", UnitPrice: dec("1"), TaxClass: tax.Standard, Quantity: 1}
	_, err = NewOrder("", "cust-1", placedAt, []LineItem{item}, Shipping{Address: "a"})
	require.ErrorIs(t, err, ErrEmptyInvoiceNumber)

	_, err = NewOrder("INV-1", "cust-1", placedAt, []LineItem{item}, Shipping{Address: "a", Cost: dec("-1")})
	require.ErrorIs(t, err, ErrNegativeShipping)

	item.Quantity = 0
	_, err = NewOrder("INV-1", "cust-1", placedAt, []LineItem{item}, Shipping{Address: "a"})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestSetTotalPrice_DivergesWithoutClamping(t *testing.T) {
	item := LineItem{ProductRef: 1, Name: "Soap", UnitPrice: dec("100"), TaxClass: tax.Standard, Quantity: 1}
	order := newTestOrder(t, item)

	require.ErrorIs(t, order.SetTotalPrice(dec("-0.01")), ErrNegativeTotal)
	require.NoError(t, order.SetTotalPrice(dec("99.00")))
	require.True(t, order.TotalDiverges())
	require.True(t, order.Breakdown().GrandTotal.Equal(dec("125")))
}

func TestCorrectQuantity(t *testing.T) {
	item := LineItem{ProductRef: 1, Name: "Soap", UnitPrice: dec("10"), TaxClass: tax.Exempt, Quantity: 1}
	order := newTestOrder(t, item)

	require.NoError(t, order.CorrectQuantity(0, 3))
	require.Equal(t, 3, order.LineItems[0].Quantity)
	require.ErrorIs(t, order.CorrectQuantity(1, 3), ErrLineItemIndex)
	require.ErrorIs(t, order.CorrectQuantity(0, 0), ErrInvalidQuantity)
}

func TestClone_DoesNotAliasLineItems(t *testing.T) {
	item := LineItem{ProductRef: 1, Name: "Soap", UnitPrice: dec("10"), TaxClass: tax.Exempt, Quantity: 1}
	order := newTestOrder(t, item)
	clone := order.Clone()
	clone.LineItems[0].Quantity = 9
	require.Equal(t, 1, order.LineItems[0].Quantity)
}
