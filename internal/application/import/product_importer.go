package importapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/storefront/backoffice/internal/domain/bulk"
	"github.com/storefront/backoffice/internal/domain/catalog"
	"github.com/storefront/backoffice/internal/domain/shared"
	"golang.org/x/text/language"
)

// fallbackSlug is used for names that contain no slug characters at all
const fallbackSlug = "product"

// maxSlugSuffix bounds the search for a free slug
const maxSlugSuffix = 10000

// ImportOutcome tells whether a row created or updated a product
type ImportOutcome int

const (
	OutcomeCreated ImportOutcome = iota + 1
	OutcomeUpdated
)

// ProductImporter upserts one validated row into the catalog. A product is
// matched by name first, then by slug.
type ProductImporter struct {
	products catalog.ProductRepository
	lang     language.Tag
}

// NewProductImporter creates a new ProductImporter
func NewProductImporter(products catalog.ProductRepository, lang language.Tag) *ProductImporter {
	return &ProductImporter{products: products, lang: lang}
}

// Import creates or updates the product described by attrs
func (i *ProductImporter) Import(ctx context.Context, attrs catalog.ProductAttributes) (ImportOutcome, error) {
	attrs.Name = strings.TrimSpace(attrs.Name)
	slug := catalog.GenerateSlug(attrs.Name)

	existing, err := i.products.FindByName(ctx, attrs.Name)
	if errors.Is(err, shared.ErrNotFound) && slug != "" {
		existing, err = i.products.FindBySlug(ctx, slug)
	}
	switch {
	case err == nil:
		return OutcomeUpdated, i.update(ctx, existing, attrs, slug)
	case errors.Is(err, shared.ErrNotFound):
		return OutcomeCreated, i.create(ctx, attrs, slug)
	default:
		return 0, fmt.Errorf("failed to look up product: %w", err)
	}
}

func (i *ProductImporter) create(ctx context.Context, attrs catalog.ProductAttributes, slug string) error {
	unique, err := i.uniqueSlug(ctx, slug, uuid.Nil)
	if err != nil {
		return err
	}

	product, err := catalog.NewProduct(attrs, unique)
	if err != nil {
		return errors.New(bulk.Localize(i.lang, bulk.MsgCreateFailed, err.Error()))
	}
	if err := i.products.Save(ctx, product); err != nil {
		return errors.New(bulk.Localize(i.lang, bulk.MsgCreateFailed, err.Error()))
	}
	return nil
}

// update overwrites the product and moves it to the new slug only when no
// other product holds it.
func (i *ProductImporter) update(ctx context.Context, product *catalog.Product, attrs catalog.ProductAttributes, slug string) error {
	if err := product.Update(attrs); err != nil {
		return errors.New(bulk.Localize(i.lang, bulk.MsgUpdateFailed, err.Error()))
	}

	if slug != "" && slug != product.Slug {
		taken, err := i.products.ExistsBySlug(ctx, slug, product.ID)
		if err != nil {
			return fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			product.Rename(slug)
		}
	}

	if err := i.products.Save(ctx, product); err != nil {
		return errors.New(bulk.Localize(i.lang, bulk.MsgUpdateFailed, err.Error()))
	}
	return nil
}

// uniqueSlug returns base, or base-1, base-2, ... for the first free value
func (i *ProductImporter) uniqueSlug(ctx context.Context, base string, excludeID uuid.UUID) (string, error) {
	if base == "" {
		base = fallbackSlug
	}

	candidate := base
	for n := 1; n <= maxSlugSuffix; n++ {
		taken, err := i.products.ExistsBySlug(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("no free slug for %q", base)
}
