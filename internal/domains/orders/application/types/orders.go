package types

import (
	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-console/internal/domains/orders/domain"
)

// CustomerSummary is the customer block shown next to an order. It is empty when the
// referenced customer no longer exists.
type CustomerSummary struct {
	Ref            string
	CustomerNumber string
	FirstName      string
	LastName       string
	Email          string
}

// FullName joins first and last name.
func (c CustomerSummary) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// OrderView is an order joined with its customer and computed totals.
type OrderView struct {
	Order         *domain.Order
	Customer      CustomerSummary
	Breakdown     domain.Breakdown
	TotalDiverges bool
}

// NewOrderView computes the derived fields for order.
func NewOrderView(order *domain.Order, customer CustomerSummary) *OrderView {
	return &OrderView{
		Order:         order,
		Customer:      customer,
		Breakdown:     order.Breakdown(),
		TotalDiverges: order.TotalDiverges(),
	}
}

// QuantityCorrection changes the quantity of the line item at Index.
type QuantityCorrection struct {
	Index    int
	Quantity int
}

// OrderPatch applies only the supplied fields.
type OrderPatch struct {
	TotalPrice      *decimal.Decimal
	Status          *domain.Status
	ShippingAddress *string
	Quantities      []QuantityCorrection
}

// Empty reports whether the patch carries no changes.
func (p OrderPatch) Empty() bool {
	return p.TotalPrice == nil && p.Status == nil && p.ShippingAddress == nil && len(p.Quantities) == 0
}

// UpdateOrderInput is an operator edit of one order.
type UpdateOrderInput struct {
	ID    int64
	Patch OrderPatch
	// IdempotencyKey makes retried edits replay instead of re-applying.
	IdempotencyKey string
}

// OrderLine requests a quantity of a catalog product.
type OrderLine struct {
	ProductID int64
	Quantity  int
}

// PlaceOrderInput creates an order from catalog products.
type PlaceOrderInput struct {
	CustomerRef string
	Lines       []OrderLine
	Shipping    domain.Shipping
}
