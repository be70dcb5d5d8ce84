package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storefront/backoffice/internal/domain/shared"
)

// DefaultCurrency is the currency of imported prices (Iranian toman)
const DefaultCurrency = "IRT"

// MaxSlugLength caps generated slugs
const MaxSlugLength = 50

// Product is a storefront catalog item as maintained by bulk imports
type Product struct {
	shared.BaseAggregateRoot
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Currency    string
	Stock       int
	Category    string
	ImageURL    string
	SKU         string
	IsActive    bool
}

// ProductAttributes are the importable fields of a product
type ProductAttributes struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	ImageURL    string
	SKU         string
	IsActive    bool
}

// NewProduct creates a product from imported attributes
func NewProduct(attrs ProductAttributes, slug string) (*Product, error) {
	if err := validateProductName(attrs.Name); err != nil {
		return nil, err
	}
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Product slug cannot be empty")
	}
	if attrs.Price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Slug:              slug,
		Currency:          DefaultCurrency,
	}
	p.assign(attrs)

	return p, nil
}

// Update overwrites the importable fields. An empty category or image URL
// keeps the current value.
func (p *Product) Update(attrs ProductAttributes) error {
	if err := validateProductName(attrs.Name); err != nil {
		return err
	}
	if attrs.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	category, image := p.Category, p.ImageURL
	p.assign(attrs)
	if attrs.Category == "" {
		p.Category = category
	}
	if attrs.ImageURL == "" {
		p.ImageURL = image
	}

	p.Bump(time.Now())
	return nil
}

// Rename moves the product to a new slug
func (p *Product) Rename(slug string) {
	if slug == "" || slug == p.Slug {
		return
	}
	p.Slug = slug
	p.UpdatedAt = time.Now()
}

func (p *Product) assign(attrs ProductAttributes) {
	p.Name = strings.TrimSpace(attrs.Name)
	p.Description = attrs.Description
	p.Price = attrs.Price.Truncate(0)
	p.Stock = attrs.Stock
	p.Category = attrs.Category
	p.ImageURL = attrs.ImageURL
	p.SKU = attrs.SKU
	p.IsActive = attrs.IsActive
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len([]rune(name)) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
