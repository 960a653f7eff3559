package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyLineItems      = errors.New("order must contain at least one line item")
	ErrEmptyInvoiceNumber  = errors.New("invoice number is required")
	ErrEmptyCustomer       = errors.New("order must reference a customer")
	ErrEmptyShippingAddr   = errors.New("shipping address is required")
	ErrNegativeTotal       = errors.New("total price must be greater or equal to zero")
	ErrNegativeShipping    = errors.New("shipping cost must be greater or equal to zero")
	ErrMissingCreationTime = errors.New("order creation time is required")
)

// Shipping groups the delivery details captured at checkout.
type Shipping struct {
	Address string
	Method  string
	Cost    decimal.Decimal
}

// Order models a customer purchase. InvoiceNumber, CustomerRef and CreatedAt never change.
type Order struct {
	ID              int64
	InvoiceNumber   string
	CustomerRef     string
	Status          Status
	CreatedAt       time.Time
	LineItems       []LineItem
	ShippingAddress string
	ShippingMethod  string
	ShippingCost    decimal.Decimal
	TotalPrice      decimal.Decimal
}

// Breakdown is the computed money summary of an order.
type Breakdown struct {
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Shipping   decimal.Decimal
	GrandTotal decimal.Decimal
}

// NewOrder builds a pending order whose stored total equals the computed grand total.
func NewOrder(invoiceNumber, customerRef string, createdAt time.Time, items []LineItem, shipping Shipping) (*Order, error) {
	order := &Order{
		InvoiceNumber:   strings.TrimSpace(invoiceNumber),
		CustomerRef:     strings.TrimSpace(customerRef),
		Status:          StatusPending,
		CreatedAt:       createdAt.UTC(),
		LineItems:       append([]LineItem(nil), items...),
		ShippingAddress: strings.TrimSpace(shipping.Address),
		ShippingMethod:  strings.TrimSpace(shipping.Method),
		ShippingCost:    shipping.Cost,
	}
	order.TotalPrice = order.Breakdown().GrandTotal
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate before it is written.
func (o *Order) Validate() error {
	if err := o.ValidateStored(); err != nil {
		return err
	}
	if len(o.LineItems) == 0 {
		return ErrEmptyLineItems
	}
	return nil
}

// ValidateStored checks a loaded order. An empty line list is left for invoicing to report.
func (o *Order) ValidateStored() error {
	if o.InvoiceNumber == "" {
		return ErrEmptyInvoiceNumber
	}
	if o.CustomerRef == "" {
		return ErrEmptyCustomer
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	if o.CreatedAt.IsZero() {
		return ErrMissingCreationTime
	}
	for _, item := range o.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if strings.TrimSpace(o.ShippingAddress) == "" {
		return ErrEmptyShippingAddr
	}
	if o.ShippingCost.IsNegative() {
		return ErrNegativeShipping
	}
	if o.TotalPrice.IsNegative() {
		return ErrNegativeTotal
	}
	return nil
}

// TransitionTo moves the order along the lifecycle. Re-entering the current status is a transition error.
func (o *Order) TransitionTo(next Status) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	if !o.Status.CanTransitionTo(next) {
		return &TransitionError{From: o.Status, To: next, Allowed: o.Status.AllowedNext()}
	}
	o.Status = next
	return nil
}

// SetTotalPrice overrides the stored total. It may diverge from the computed breakdown.
func (o *Order) SetTotalPrice(total decimal.Decimal) error {
	if total.IsNegative() {
		return ErrNegativeTotal
	}
	o.TotalPrice = total
	return nil
}

func (o *Order) SetShippingAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrEmptyShippingAddr
	}
	o.ShippingAddress = address
	return nil
}

// CorrectQuantity is the only edit a frozen line item accepts.
func (o *Order) CorrectQuantity(index, quantity int) error {
	if index < 0 || index >= len(o.LineItems) {
		return ErrLineItemIndex
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	o.LineItems[index].Quantity = quantity
	return nil
}

// Breakdown recomputes the totals from the line item snapshots.
func (o *Order) Breakdown() Breakdown {
	subtotal := decimal.Zero
	taxAmount := decimal.Zero
	for _, item := range o.LineItems {
		subtotal = subtotal.Add(item.LineTotal())
		taxAmount = taxAmount.Add(item.Tax())
	}
	return Breakdown{
		Subtotal:   subtotal,
		Tax:        taxAmount,
		Shipping:   o.ShippingCost,
		GrandTotal: subtotal.Add(taxAmount).Add(o.ShippingCost),
	}
}

// TotalDiverges reports whether the stored total differs from the computed one at cent precision.
func (o *Order) TotalDiverges() bool {
	return !o.TotalPrice.Round(2).Equal(o.Breakdown().GrandTotal.Round(2))
}

// Clone returns a deep copy so callers cannot alias stored line items.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	copy := *o
	copy.LineItems = append([]LineItem(nil), o.LineItems...)
	return &copy
}
