package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mindexhq/mindex/internal/core/domain"
	"github.com/mindexhq/mindex/internal/core/ports/driven"
	"github.com/mindexhq/mindex/internal/logger"
)

// EntityLinker resolves extracted mentions to canonical entities and
// records segment-entity links. Linking is idempotent: repeating it for
// the same segments converges on the same entities and links.
type EntityLinker struct {
	store driven.KnowledgeStore
}

// NewEntityLinker creates an entity linker.
func NewEntityLinker(store driven.KnowledgeStore) *EntityLinker {
	return &EntityLinker{store: store}
}

// Link runs the extractor over each segment, canonicalises the
// candidates and persists "mentions" links in bulk. Invalid candidates
// are skipped with a warning. It returns the number of links recorded.
func (l *EntityLinker) Link(ctx context.Context, namespace string, segments []domain.ResourceSegment, extractor driven.EntityExtractor) (int, error) {
	var links []domain.EntityLink

	for _, seg := range segments {
		for _, candidate := range extractor.Extract(seg.Text) {
			if err := candidate.Validate(); err != nil {
				logger.Warn("skipping entity candidate: %v", err)
				continue
			}

			entity, err := l.resolve(ctx, namespace, candidate)
			if err != nil {
				return 0, err
			}

			link, err := domain.NewEntityLink(seg.ID, entity.ID, "mentions", candidate.Confidence)
			if err != nil {
				logger.Warn("skipping link for %q: %v", candidate.Name, err)
				continue
			}
			links = append(links, link)
		}
	}

	if len(links) == 0 {
		return 0, nil
	}
	if err := l.store.AddEntityLinks(ctx, links); err != nil {
		return 0, fmt.Errorf("adding entity links: %w", err)
	}
	logger.Info("recorded %d entity links", len(links))
	return len(links), nil
}

// resolve returns the stored entity for a candidate, creating it if
// (namespace, type, name) is not yet known.
func (l *EntityLinker) resolve(ctx context.Context, namespace string, candidate domain.ExtractedEntity) (domain.Entity, error) {
	entity, err := l.store.GetEntityByName(ctx, namespace, candidate.Type, candidate.Name)
	if err == nil {
		return entity, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Entity{}, fmt.Errorf("looking up entity %q: %w", candidate.Name, err)
	}

	entity = domain.Entity{
		ID:        domain.NewEntityID(),
		Namespace: namespace,
		Type:      candidate.Type,
		Name:      candidate.Name,
		Aliases:   candidate.Aliases,
		Metadata:  candidate.Metadata,
	}
	stored, err := l.store.UpsertEntity(ctx, entity)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("creating entity %q: %w", candidate.Name, err)
	}
	return stored, nil
}
