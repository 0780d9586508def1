package memory

import (
	"context"

	"github.com/posterman/orderbot/pkg/domain"
)

// Catalog is a fixed product list.
type Catalog struct {
	products []domain.ProductCard
}

// NewCatalog creates a catalog over the given products.
func NewCatalog(products ...domain.ProductCard) *Catalog {
	return &Catalog{products: append([]domain.ProductCard(nil), products...)}
}

// Products returns a copy of the product list.
func (c *Catalog) Products(ctx context.Context) ([]domain.ProductCard, error) {
	return append([]domain.ProductCard(nil), c.products...), nil
}
