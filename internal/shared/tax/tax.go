// Package tax defines the fixed VAT classes a product can be sold under.
package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Class is a VAT class expressed in whole percentage points.
type Class int

const (
	Exempt    Class = 0
	Reduced6  Class = 6
	Reduced12 Class = 12
	Standard  Class = 25
)

// ErrUnknownClass is returned for rates outside the supported classes.
var ErrUnknownClass = errors.New("tax class must be one of 0, 0.06, 0.12 or 0.25")

// Classes lists the supported classes in ascending order.
func Classes() []Class {
	return []Class{Exempt, Reduced6, Reduced12, Standard}
}

// Valid reports whether c is a supported class.
func (c Class) Valid() bool {
	switch c {
	case Exempt, Reduced6, Reduced12, Standard:
		return true
	default:
		return false
	}
}

// Rate returns the class as a fraction, e.g. 0.25.
func (c Class) Rate() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

func (c Class) String() string {
	return fmt.Sprintf("%d%%", int(c))
}

// FromRate converts a fractional rate (0.25) into a Class.
func FromRate(rate decimal.Decimal) (Class, error) {
	pct := rate.Shift(2)
	if !pct.IsInteger() {
		return 0, ErrUnknownClass
	}
	class := Class(pct.IntPart())
	if !class.Valid() {
		return 0, ErrUnknownClass
	}
	return class, nil
}
