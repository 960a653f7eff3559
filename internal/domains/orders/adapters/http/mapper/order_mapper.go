package mapper

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-console/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-console/internal/domains/orders/domain"
)

// Order is the JSON shape of an order view.
type Order struct {
	ID              int64           `json:"id"`
	InvoiceNumber   string          `json:"invoiceNumber"`
	Status          string          `json:"status"`
	AllowedNext     []string        `json:"allowedNext"`
	CreatedAt       time.Time       `json:"createdAt"`
	Customer        Customer        `json:"customer"`
	LineItems       []LineItem      `json:"lineItems"`
	ShippingAddress string          `json:"shippingAddress"`
	ShippingMethod  string          `json:"shippingMethod"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Computed        Breakdown       `json:"computed"`
	TotalDiverges   bool            `json:"totalDiverges"`
}

// Customer is empty when the referenced customer no longer exists.
type Customer struct {
	Ref            string `json:"ref"`
	CustomerNumber string `json:"customerNumber,omitempty"`
	Name           string `json:"name,omitempty"`
	Email          string `json:"email,omitempty"`
}

type LineItem struct {
	ProductRef int64           `json:"productRef"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TaxRate    decimal.Decimal `json:"taxRate"`
	Quantity   int             `json:"quantity"`
	LineTotal  decimal.Decimal `json:"lineTotal"`
}

type Breakdown struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Shipping   decimal.Decimal `json:"shipping"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// OrderPatch is the body of a partial update; absent fields are left untouched.
type OrderPatch struct {
	TotalPrice      *decimal.Decimal     `json:"totalPrice"`
	Status          *string              `json:"status"`
	ShippingAddress *string              `json:"shippingAddress"`
	Quantities      []QuantityCorrection `json:"quantities"`
}

type QuantityCorrection struct {
	Index    int `json:"index"`
	Quantity int `json:"quantity"`
}

// PlaceOrder is the body of an order creation request.
type PlaceOrder struct {
	CustomerRef     string          `json:"customerRef"`
	Lines           []OrderLine     `json:"lines"`
	ShippingAddress string          `json:"shippingAddress"`
	ShippingMethod  string          `json:"shippingMethod"`
	ShippingCost    decimal.Decimal `json:"shippingCost"`
}

type OrderLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// FromView converts an order view to its transport representation.
func FromView(view *types.OrderView) Order {
	if view == nil || view.Order == nil {
		return Order{}
	}
	o := view.Order
	out := Order{
		ID:              o.ID,
		InvoiceNumber:   o.InvoiceNumber,
		Status:          string(o.Status),
		AllowedNext:     StatusNames(o.Status.AllowedNext()),
		CreatedAt:       o.CreatedAt,
		Customer:        fromCustomer(o.CustomerRef, view.Customer),
		LineItems:       make([]LineItem, 0, len(o.LineItems)),
		ShippingAddress: o.ShippingAddress,
		ShippingMethod:  o.ShippingMethod,
		ShippingCost:    o.ShippingCost,
		TotalPrice:      o.TotalPrice,
		Computed: Breakdown{
			Subtotal:   view.Breakdown.Subtotal,
			Tax:        view.Breakdown.Tax,
			Shipping:   view.Breakdown.Shipping,
			GrandTotal: view.Breakdown.GrandTotal,
		},
		TotalDiverges: view.TotalDiverges,
	}
	for _, item := range o.LineItems {
		out.LineItems = append(out.LineItems, LineItem{
			ProductRef: item.ProductRef,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			TaxRate:    item.TaxClass.Rate(),
			Quantity:   item.Quantity,
			LineTotal:  item.LineTotal(),
		})
	}
	return out
}

// FromViews converts a list of order views.
func FromViews(views []*types.OrderView) []Order {
	out := make([]Order, 0, len(views))
	for _, view := range views {
		out = append(out, FromView(view))
	}
	return out
}

func fromCustomer(ref string, c types.CustomerSummary) Customer {
	return Customer{
		Ref:            ref,
		CustomerNumber: c.CustomerNumber,
		Name:           c.FullName(),
		Email:          c.Email,
	}
}

// StatusNames renders statuses as plain strings.
func StatusNames(statuses []domain.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

// ToPatch converts a transport patch into the application patch.
func ToPatch(p OrderPatch) (types.OrderPatch, error) {
	patch := types.OrderPatch{
		TotalPrice:      p.TotalPrice,
		ShippingAddress: p.ShippingAddress,
	}
	if p.Status != nil {
		status, err := domain.ParseStatus(*p.Status)
		if err != nil {
			return types.OrderPatch{}, fmt.Errorf("status %q: %w", *p.Status, err)
		}
		patch.Status = &status
	}
	for _, q := range p.Quantities {
		patch.Quantities = append(patch.Quantities, types.QuantityCorrection{Index: q.Index, Quantity: q.Quantity})
	}
	return patch, nil
}

// ToPlaceOrderInput converts the creation body.
func ToPlaceOrderInput(p PlaceOrder) types.PlaceOrderInput {
	input := types.PlaceOrderInput{
		CustomerRef: p.CustomerRef,
		Shipping: domain.Shipping{
			Address: p.ShippingAddress,
			Method:  p.ShippingMethod,
			Cost:    p.ShippingCost,
		},
	}
	for _, line := range p.Lines {
		input.Lines = append(input.Lines, types.OrderLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return input
}
