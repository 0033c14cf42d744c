package services

import (
	"context"
	"fmt"

	"github.com/mindexhq/mindex/internal/core/domain"
	"github.com/mindexhq/mindex/internal/core/ports/driven"
	"github.com/mindexhq/mindex/internal/core/ports/driving"
)

// Ensure Catalog implements the interface.
var _ driving.CatalogService = (*Catalog)(nil)

// Catalog exposes read-only views over the stored corpus.
type Catalog struct {
	store driven.KnowledgeStore
}

// NewCatalog creates the catalog service.
func NewCatalog(store driven.KnowledgeStore) *Catalog {
	return &Catalog{store: store}
}

// Sources lists the information resources in a namespace.
func (c *Catalog) Sources(ctx context.Context, namespace string) ([]domain.InformationResource, error) {
	return c.store.ListResources(ctx, namespace)
}

// SegmentsForSource returns one source's segments in document order.
func (c *Catalog) SegmentsForSource(ctx context.Context, sourceURI, namespace string) ([]domain.ResourceSegment, error) {
	res, err := c.store.GetResourceByURI(ctx, namespace, sourceURI)
	if err != nil {
		return nil, fmt.Errorf("resolving source %s: %w", sourceURI, err)
	}
	return c.store.GetSegmentsForResource(ctx, res.ID)
}

// Stats summarises a namespace.
func (c *Catalog) Stats(ctx context.Context, namespace string) (domain.Stats, error) {
	return c.store.Stats(ctx, namespace)
}
