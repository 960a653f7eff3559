package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront-console/internal/domains/catalog/domain"
	"github.com/Apurer/storefront-console/internal/shared/tax"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid product input")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptySKU) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrPricePrecision) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrEmptyIngredients) ||
		errors.Is(err, domain.ErrEmptyCategories) ||
		errors.Is(err, domain.ErrEmptyDescription) ||
		errors.Is(err, domain.ErrEmptyImages) ||
		errors.Is(err, domain.ErrEmptyTag) ||
		errors.Is(err, domain.ErrEmptyFilename) ||
		errors.Is(err, domain.ErrDuplicateImage) ||
		errors.Is(err, tax.ErrUnknownClass) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
