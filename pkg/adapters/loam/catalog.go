// Package loam serves the product catalog from a Loam document repository
// and journals confirmed orders into one.
package loam

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/loam"
	"github.com/posterman/orderbot/pkg/domain"
)

// Catalog implements ports.Catalog over Markdown/JSON product documents.
type Catalog struct {
	Repo *loam.TypedRepository[ProductMetadata]
}

// NewCatalog creates a catalog over an existing typed repository.
func NewCatalog(repo *loam.TypedRepository[ProductMetadata]) *Catalog {
	return &Catalog{Repo: repo}
}

// OpenCatalog opens dir read-only as a product catalog.
func OpenCatalog(dir string) (*Catalog, error) {
	repo, err := loam.Init(dir,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return NewCatalog(loam.NewTypedRepository[ProductMetadata](repo)), nil
}

// Products lists visible products ordered by ID.
// Documents without a title fall back to their ID.
func (c *Catalog) Products(ctx context.Context) ([]domain.ProductCard, error) {
	docs, err := c.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	products := make([]domain.ProductCard, 0, len(docs))
	for _, doc := range docs {
		meta := doc.Data
		if meta.Hidden {
			continue
		}
		id := meta.ID
		if id == "" {
			id = doc.ID
		}
		id = trimExtension(id)

		title := meta.Title
		if title == "" {
			title = id
		}
		products = append(products, domain.ProductCard{
			ID:       id,
			Title:    title,
			Image:    meta.Image,
			Price:    formatPrice(meta.Price),
			Category: meta.Category,
		})
	}

	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

// Product returns a single product by ID.
func (c *Catalog) Product(ctx context.Context, id string) (domain.ProductCard, error) {
	doc, err := c.Repo.Get(ctx, id)
	if err != nil {
		return domain.ProductCard{}, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	title := doc.Data.Title
	if title == "" {
		title = id
	}
	return domain.ProductCard{
		ID:       id,
		Title:    title,
		Image:    doc.Data.Image,
		Price:    formatPrice(doc.Data.Price),
		Category: doc.Data.Category,
	}, nil
}
