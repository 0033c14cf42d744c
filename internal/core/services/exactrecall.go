package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mindexhq/mindex/internal/core/domain"
	"github.com/mindexhq/mindex/internal/core/ports/driven"
	"github.com/mindexhq/mindex/internal/core/ports/driving"
	"github.com/mindexhq/mindex/internal/logger"
)

// Ensure ExactRecall implements the interface.
var _ driving.EntityService = (*ExactRecall)(nil)

// ExactRecall retrieves entities and every segment linked to them.
// Unlike semantic search, which is fuzzy and truncated, exact recall is
// complete: if a link exists, the segment is in the result.
type ExactRecall struct {
	store driven.KnowledgeStore
}

// NewExactRecall creates the exact recall service.
func NewExactRecall(store driven.KnowledgeStore) *ExactRecall {
	return &ExactRecall{store: store}
}

// GetEntity resolves a name to an entity. With entityType set the
// lookup is exact; otherwise all types are scanned, matching the
// canonical name first and aliases second per entity.
func (r *ExactRecall) GetEntity(ctx context.Context, name, entityType, namespace string) (domain.Entity, error) {
	if entityType != "" {
		return r.store.GetEntityByName(ctx, namespace, entityType, name)
	}

	entities, err := r.store.ListEntities(ctx, namespace, "")
	if err != nil {
		return domain.Entity{}, fmt.Errorf("listing entities: %w", err)
	}
	for _, entity := range entities {
		if entity.Name == name {
			return entity, nil
		}
		for _, alias := range entity.Aliases {
			if alias == name {
				return entity, nil
			}
		}
	}
	return domain.Entity{}, fmt.Errorf("entity %q in namespace %q: %w", name, namespace, domain.ErrNotFound)
}

// SearchEntity returns every segment mentioning the named entity. An
// unknown entity yields an empty result, not an error.
func (r *ExactRecall) SearchEntity(ctx context.Context, name, entityType, namespace string) ([]domain.EntityMatch, error) {
	entity, err := r.GetEntity(ctx, name, entityType, namespace)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Warn("entity not found: %s (namespace=%s, type=%s)", name, namespace, entityType)
		return []domain.EntityMatch{}, nil
	}
	if err != nil {
		return nil, err
	}

	matches, err := r.store.GetSegmentsForEntity(ctx, entity.ID)
	if err != nil {
		return nil, fmt.Errorf("recalling segments for %q: %w", name, err)
	}
	logger.Info("exact recall found %d segments for entity %s", len(matches), entity.ID)
	return matches, nil
}

// EntitiesForSegment returns every (entity, link) pair attached to a
// segment, so callers see how each entity is connected.
func (r *ExactRecall) EntitiesForSegment(ctx context.Context, segmentID string) ([]domain.LinkedEntity, error) {
	return r.store.GetEntitiesForSegment(ctx, segmentID)
}

// ListEntities returns entities with mention counts, most mentioned
// first. Ties keep the store's listing order.
func (r *ExactRecall) ListEntities(ctx context.Context, namespace, entityType string, minMentions int) ([]domain.EntityMention, error) {
	if minMentions < 1 {
		minMentions = 1
	}

	entities, err := r.store.ListEntities(ctx, namespace, entityType)
	if err != nil {
		return nil, fmt.Errorf("listing entities: %w", err)
	}

	mentions := make([]domain.EntityMention, 0, len(entities))
	for _, entity := range entities {
		count, err := r.store.CountMentions(ctx, entity.ID)
		if err != nil {
			return nil, fmt.Errorf("counting mentions for %s: %w", entity.ID, err)
		}
		if count < minMentions {
			continue
		}
		mentions = append(mentions, domain.EntityMention{Entity: entity, MentionCount: count})
	}

	sort.SliceStable(mentions, func(i, j int) bool {
		return mentions[i].MentionCount > mentions[j].MentionCount
	})
	return mentions, nil
}
