package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-console/internal/shared/tax"
)

// Product is the catalog aggregate operators edit and orders snapshot from.
type Product struct {
	ID          int64
	SKU         string
	Name        string
	Price       decimal.Decimal
	Stock       int
	TaxClass    tax.Class
	Ingredients []string
	Categories  []string
	Description string
	Images      []ImageRef
}

var (
	ErrEmptyName         = errors.New("product name is required")
	ErrEmptySKU          = errors.New("product sku is required")
	ErrInvalidPrice      = errors.New("product price must be greater than zero")
	ErrPricePrecision    = errors.New("product price must be in whole cents")
	ErrNegativeStock     = errors.New("product stock must be greater or equal to zero")
	ErrEmptyIngredients  = errors.New("at least one ingredient is required")
	ErrEmptyCategories   = errors.New("at least one category is required")
	ErrEmptyDescription  = errors.New("product description is required")
	ErrEmptyImages       = errors.New("at least one image is required")
	ErrEmptyTag          = errors.New("tag value must not be blank")
	ErrDuplicateCategory = errors.New("product already has this category")
	ErrIngredientIndex   = errors.New("ingredient index out of range")
)

// NewProduct validates the scalar fields and builds a product without tags or images.
func NewProduct(id int64, sku, name string, price decimal.Decimal, stock int, class tax.Class) (*Product, error) {
	p := &Product{ID: id}
	if err := p.ChangeSKU(sku); err != nil {
		return nil, err
	}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.Reprice(price); err != nil {
		return nil, err
	}
	if err := p.Restock(stock); err != nil {
		return nil, err
	}
	if err := p.ChangeTaxClass(class); err != nil {
		return nil, err
	}
	return p, nil
}

// ChangeSKU replaces the stock keeping unit. Uniqueness is enforced by the repository.
func (p *Product) ChangeSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return ErrEmptySKU
	}
	p.SKU = sku
	return nil
}

// Rename mutates the product name ensuring the invariant.
func (p *Product) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	p.Name = strings.TrimSpace(name)
	return nil
}

// Reprice sets the tax-exclusive unit price. Fractions of a cent are rejected.
func (p *Product) Reprice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return ErrInvalidPrice
	}
	if !price.Equal(price.Truncate(2)) {
		return ErrPricePrecision
	}
	p.Price = price
	return nil
}

func (p *Product) Restock(stock int) error {
	if stock < 0 {
		return ErrNegativeStock
	}
	p.Stock = stock
	return nil
}

func (p *Product) ChangeTaxClass(class tax.Class) error {
	if !class.Valid() {
		return tax.ErrUnknownClass
	}
	p.TaxClass = class
	return nil
}

// Describe stores the rich-text description verbatim.
func (p *Product) Describe(description string) error {
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	p.Description = description
	return nil
}

// ReplaceIngredients swaps the ordered ingredient list.
func (p *Product) ReplaceIngredients(ingredients []string) error {
	cleaned := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		ingredient = strings.TrimSpace(ingredient)
		if ingredient == "" {
			return ErrEmptyTag
		}
		cleaned = append(cleaned, ingredient)
	}
	p.Ingredients = cleaned
	return nil
}

// AddIngredient appends to the end of the ingredient list.
func (p *Product) AddIngredient(ingredient string) error {
	ingredient = strings.TrimSpace(ingredient)
	if ingredient == "" {
		return ErrEmptyTag
	}
	p.Ingredients = append(p.Ingredients, ingredient)
	return nil
}

// RemoveIngredient drops the ingredient at index, keeping the remaining order.
func (p *Product) RemoveIngredient(index int) error {
	if index < 0 || index >= len(p.Ingredients) {
		return ErrIngredientIndex
	}
	p.Ingredients = append(p.Ingredients[:index:index], p.Ingredients[index+1:]...)
	return nil
}

// ReplaceCategories swaps the category set, rejecting duplicates.
func (p *Product) ReplaceCategories(categories []string) error {
	next := &Product{}
	for _, category := range categories {
		if err := next.AddCategory(category); err != nil {
			return err
		}
	}
	p.Categories = next.Categories
	return nil
}

// AddCategory inserts a category; inserting one that is already present fails.
func (p *Product) AddCategory(category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return ErrEmptyTag
	}
	if p.HasCategory(category) {
		return ErrDuplicateCategory
	}
	p.Categories = append(p.Categories, category)
	return nil
}

// RemoveCategory drops a category and reports whether it was present.
func (p *Product) RemoveCategory(category string) bool {
	category = strings.TrimSpace(category)
	for i, existing := range p.Categories {
		if existing == category {
			p.Categories = append(p.Categories[:i:i], p.Categories[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Product) HasCategory(category string) bool {
	for _, existing := range p.Categories {
		if existing == category {
			return true
		}
	}
	return false
}

// Validate enforces the invariants that hold for every stored product.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.SKU) == "" {
		return ErrEmptySKU
	}
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	if !p.TaxClass.Valid() {
		return tax.ErrUnknownClass
	}
	if len(p.Images) > MaxImages {
		return ErrTooManyImages
	}
	seen := make(map[string]struct{}, len(p.Categories))
	for _, category := range p.Categories {
		if _, ok := seen[category]; ok {
			return ErrDuplicateCategory
		}
		seen[category] = struct{}{}
	}
	return nil
}

// ValidateForCreation adds the completeness rules a new listing must satisfy.
func (p *Product) ValidateForCreation() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !p.Price.IsPositive() {
		return ErrInvalidPrice
	}
	if len(p.Ingredients) == 0 {
		return ErrEmptyIngredients
	}
	if len(p.Categories) == 0 {
		return ErrEmptyCategories
	}
	if strings.TrimSpace(p.Description) == "" {
		return ErrEmptyDescription
	}
	if len(p.Images) == 0 {
		return ErrEmptyImages
	}
	return nil
}

// Clone returns a deep copy so callers cannot alias stored slices.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	copy := *p
	copy.Ingredients = append([]string(nil), p.Ingredients...)
	copy.Categories = append([]string(nil), p.Categories...)
	copy.Images = append([]ImageRef(nil), p.Images...)
	return &copy
}
