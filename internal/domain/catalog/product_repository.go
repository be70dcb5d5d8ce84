package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProductRepository defines the product persistence needed by imports
type ProductRepository interface {
	// FindByName returns shared.ErrNotFound when no product has the name
	FindByName(ctx context.Context, name string) (*Product, error)

	// FindBySlug returns shared.ErrNotFound when no product has the slug
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// ExistsBySlug checks slug usage, ignoring the product excludeID
	ExistsBySlug(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Count returns the number of products
	Count(ctx context.Context) (int64, error)

	// CountCreatedSince returns the number of products created at or after since
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
