package driving

import (
	"context"

	"github.com/mindexhq/mindex/internal/core/domain"
)

// EntityService provides exact entity recall: precise, complete lookup
// of entities and every segment that mentions them.
type EntityService interface {
	// GetEntity resolves a name to an entity. With entityType set the
	// lookup is exact on (namespace, type, name); with it empty, all
	// types are scanned and names are checked before aliases.
	GetEntity(ctx context.Context, name, entityType, namespace string) (domain.Entity, error)

	// SearchEntity returns every segment mentioning the named entity.
	// An unknown entity yields an empty result, not an error.
	SearchEntity(ctx context.Context, name, entityType, namespace string) ([]domain.EntityMatch, error)

	// EntitiesForSegment returns every (entity, link) pair attached to
	// a segment.
	EntitiesForSegment(ctx context.Context, segmentID string) ([]domain.LinkedEntity, error)

	// ListEntities returns entities with their mention counts, most
	// mentioned first. entityType and minMentions filter the result.
	ListEntities(ctx context.Context, namespace, entityType string, minMentions int) ([]domain.EntityMention, error)
}
