package driving

import (
	"context"

	"github.com/mindexhq/mindex/internal/core/domain"
)

// CatalogService exposes read-only views over the stored corpus.
type CatalogService interface {
	// Sources lists the information resources in a namespace.
	Sources(ctx context.Context, namespace string) ([]domain.InformationResource, error)

	// SegmentsForSource returns the ordered segments of one source.
	SegmentsForSource(ctx context.Context, sourceURI, namespace string) ([]domain.ResourceSegment, error)

	// Stats summarises a namespace.
	Stats(ctx context.Context, namespace string) (domain.Stats, error)
}
