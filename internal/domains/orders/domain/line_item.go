package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-console/internal/shared/tax"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrInvalidUnitPrice = errors.New("unit price must be greater or equal to zero")
	ErrInvalidProduct   = errors.New("line item must reference a product")
	ErrEmptyItemName    = errors.New("line item name is required")
	ErrLineItemIndex    = errors.New("line item index out of range")
)

// ProductSnapshot is the catalog data an order copies at placement time.
type ProductSnapshot struct {
	ID       int64
	Name     string
	Price    decimal.Decimal
	TaxClass tax.Class
}

// LineItem is a frozen copy of product data. Later catalog edits never reach it.
type LineItem struct {
	ProductRef int64
	Name       string
	UnitPrice  decimal.Decimal
	TaxClass   tax.Class
	Quantity   int
}

// FreezeLineItem copies the snapshot into a new line item.
func FreezeLineItem(product ProductSnapshot, quantity int) (LineItem, error) {
	item := LineItem{
		ProductRef: product.ID,
		Name:       product.Name,
		UnitPrice:  product.Price,
		TaxClass:   product.TaxClass,
		Quantity:   quantity,
	}
	if err := item.Validate(); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

func (l LineItem) Validate() error {
	if l.ProductRef <= 0 {
		return ErrInvalidProduct
	}
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyItemName
	}
	if l.UnitPrice.IsNegative() {
		return ErrInvalidUnitPrice
	}
	if !l.TaxClass.Valid() {
		return tax.ErrUnknownClass
	}
	if l.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return nil
}

// LineTotal is UnitPrice times Quantity, rounded to cents.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))).Round(2)
}

// Tax applies the line's own rate to its total, rounded to cents. Order sums add these rounded amounts.
func (l LineItem) Tax() decimal.Decimal {
	return l.LineTotal().Mul(l.TaxClass.Rate()).Round(2)
}
