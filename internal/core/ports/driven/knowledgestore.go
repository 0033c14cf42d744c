package driven

import (
	"context"

	"github.com/mindexhq/mindex/internal/core/domain"
)

// SegmentEmbedding joins one stored embedding with the segment and
// resource context needed to rank and present it.
type SegmentEmbedding struct {
	SegmentID  string
	Vector     []float32
	Text       string
	Provenance domain.Provenance
	SourceURI  string
	Namespace  string
}

// KnowledgeStore persists resources, segments, entities, links and
// embeddings. All writes are upserts keyed by natural identity, so every
// operation is safe to repeat. Implementations translate their own
// missing-row conditions to domain.ErrNotFound.
type KnowledgeStore interface {
	// UpsertResource inserts the resource or, if (namespace, source URI)
	// already exists, updates it in place preserving ID and CreatedAt.
	// It returns the stored record.
	UpsertResource(ctx context.Context, res domain.InformationResource) (domain.InformationResource, error)

	// GetResource fetches a resource by ID.
	GetResource(ctx context.Context, id string) (domain.InformationResource, error)

	// GetResourceByURI fetches a resource by (namespace, source URI).
	GetResourceByURI(ctx context.Context, namespace, sourceURI string) (domain.InformationResource, error)

	// ListResources returns all resources in a namespace, ordered by
	// source URI.
	ListResources(ctx context.Context, namespace string) ([]domain.InformationResource, error)

	// UpsertSegment stores one segment; an existing row keeps its
	// CreatedAt.
	UpsertSegment(ctx context.Context, seg domain.ResourceSegment) error

	// UpsertSegments stores a batch of segments in one transaction.
	UpsertSegments(ctx context.Context, segs []domain.ResourceSegment) error

	// GetSegment fetches a segment by ID.
	GetSegment(ctx context.Context, id string) (domain.ResourceSegment, error)

	// GetSegmentsForResource returns a resource's segments ordered by
	// segment index.
	GetSegmentsForResource(ctx context.Context, resourceID string) ([]domain.ResourceSegment, error)

	// CountSegmentsForResource reports how many segments a resource has.
	CountSegmentsForResource(ctx context.Context, resourceID string) (int, error)

	// UpsertEntity inserts the entity or, if (namespace, type, name)
	// already exists, merges aliases and metadata into the stored record
	// preserving ID and CreatedAt. It returns the stored record.
	UpsertEntity(ctx context.Context, ent domain.Entity) (domain.Entity, error)

	// GetEntity fetches an entity by ID.
	GetEntity(ctx context.Context, id string) (domain.Entity, error)

	// GetEntityByName fetches an entity by exact (namespace, type, name).
	GetEntityByName(ctx context.Context, namespace, entityType, name string) (domain.Entity, error)

	// ListEntities returns entities in a namespace, optionally filtered
	// by type ("" means all), in insertion order.
	ListEntities(ctx context.Context, namespace, entityType string) ([]domain.Entity, error)

	// AddEntityLink stores one link; repeating the same
	// (segment, entity, link type) updates confidence in place.
	AddEntityLink(ctx context.Context, link domain.EntityLink) error

	// AddEntityLinks stores a batch of links in one transaction.
	AddEntityLinks(ctx context.Context, links []domain.EntityLink) error

	// GetSegmentsForEntity returns every segment linked to the entity,
	// with link metadata, in segment creation order.
	GetSegmentsForEntity(ctx context.Context, entityID string) ([]domain.EntityMatch, error)

	// GetEntitiesForSegment returns every (entity, link) pair attached
	// to the segment.
	GetEntitiesForSegment(ctx context.Context, segmentID string) ([]domain.LinkedEntity, error)

	// CountMentions reports how many segments link to the entity.
	CountMentions(ctx context.Context, entityID string) (int, error)

	// AddEmbedding stores a segment's embedding, replacing any existing
	// one for that segment.
	AddEmbedding(ctx context.Context, emb domain.Embedding) error

	// GetEmbedding fetches the embedding for a segment.
	GetEmbedding(ctx context.Context, segmentID string) (domain.Embedding, error)

	// ListSegmentEmbeddings returns every embedding in a namespace joined
	// with segment and resource context, for linear-scan ranking.
	ListSegmentEmbeddings(ctx context.Context, namespace string) ([]SegmentEmbedding, error)

	// Stats summarises one namespace.
	Stats(ctx context.Context, namespace string) (domain.Stats, error)

	// Close releases underlying store resources.
	Close() error
}
