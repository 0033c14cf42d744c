// Package memory implements an in-memory KnowledgeStore. It mirrors the
// SQLite store's upsert and ordering semantics and backs service tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mindexhq/mindex/internal/core/domain"
	"github.com/mindexhq/mindex/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.KnowledgeStore = (*Store)(nil)

// Store is an in-memory KnowledgeStore. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	resources     map[string]domain.InformationResource // by ID
	resourceOrder []string

	segments     map[string]domain.ResourceSegment // by ID
	segmentOrder []string

	entities    map[string]domain.Entity // by ID
	entityOrder []string

	links     map[[3]string]domain.EntityLink // by (segment, entity, link type)
	linkOrder [][3]string

	embeddings map[string]domain.Embedding // by segment ID
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		resources:  make(map[string]domain.InformationResource),
		segments:   make(map[string]domain.ResourceSegment),
		entities:   make(map[string]domain.Entity),
		links:      make(map[[3]string]domain.EntityLink),
		embeddings: make(map[string]domain.Embedding),
	}
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// ==================== Resources ====================

func (s *Store) UpsertResource(_ context.Context, res domain.InformationResource) (domain.InformationResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, id := range s.resourceOrder {
		existing := s.resources[id]
		if existing.Namespace == res.Namespace && existing.SourceURI == res.SourceURI {
			res.ID = existing.ID
			res.CreatedAt = existing.CreatedAt
			res.UpdatedAt = now
			s.resources[res.ID] = res
			return res, nil
		}
	}

	res.CreatedAt = now
	res.UpdatedAt = now
	s.resources[res.ID] = res
	s.resourceOrder = append(s.resourceOrder, res.ID)
	return res, nil
}

func (s *Store) GetResource(_ context.Context, id string) (domain.InformationResource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.resources[id]
	if !ok {
		return domain.InformationResource{}, domain.ErrNotFound
	}
	return res, nil
}

func (s *Store) GetResourceByURI(_ context.Context, namespace, sourceURI string) (domain.InformationResource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.resourceOrder {
		res := s.resources[id]
		if res.Namespace == namespace && res.SourceURI == sourceURI {
			return res, nil
		}
	}
	return domain.InformationResource{}, domain.ErrNotFound
}

func (s *Store) ListResources(_ context.Context, namespace string) ([]domain.InformationResource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var resources []domain.InformationResource
	for _, id := range s.resourceOrder {
		if res := s.resources[id]; res.Namespace == namespace {
			resources = append(resources, res)
		}
	}
	sort.Slice(resources, func(i, j int) bool {
		return resources[i].SourceURI < resources[j].SourceURI
	})
	return resources, nil
}

// ==================== Segments ====================

func (s *Store) UpsertSegment(ctx context.Context, seg domain.ResourceSegment) error {
	return s.UpsertSegments(ctx, []domain.ResourceSegment{seg})
}

func (s *Store) UpsertSegments(_ context.Context, segs []domain.ResourceSegment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, seg := range segs {
		if existing, ok := s.segments[seg.ID]; ok {
			seg.CreatedAt = existing.CreatedAt
			s.segments[seg.ID] = seg
			continue
		}
		if seg.CreatedAt.IsZero() {
			seg.CreatedAt = now
		}
		s.segments[seg.ID] = seg
		s.segmentOrder = append(s.segmentOrder, seg.ID)
	}
	return nil
}

func (s *Store) GetSegment(_ context.Context, id string) (domain.ResourceSegment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seg, ok := s.segments[id]
	if !ok {
		return domain.ResourceSegment{}, domain.ErrNotFound
	}
	return seg, nil
}

func (s *Store) GetSegmentsForResource(_ context.Context, resourceID string) ([]domain.ResourceSegment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var segs []domain.ResourceSegment
	for _, id := range s.segmentOrder {
		if seg := s.segments[id]; seg.ResourceID == resourceID {
			segs = append(segs, seg)
		}
	}
	sort.Slice(segs, func(i, j int) bool {
		return segs[i].SegmentIndex < segs[j].SegmentIndex
	})
	return segs, nil
}

func (s *Store) CountSegmentsForResource(ctx context.Context, resourceID string) (int, error) {
	segs, err := s.GetSegmentsForResource(ctx, resourceID)
	if err != nil {
		return 0, err
	}
	return len(segs), nil
}

// ==================== Entities ====================

func (s *Store) UpsertEntity(_ context.Context, ent domain.Entity) (domain.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, id := range s.entityOrder {
		existing := s.entities[id]
		if existing.Namespace == ent.Namespace && existing.Type == ent.Type && existing.Name == ent.Name {
			merged := existing
			merged.MergeAliases(ent.Aliases)
			merged.MergeMetadata(ent.Metadata)
			merged.UpdatedAt = now
			s.entities[merged.ID] = merged
			return merged, nil
		}
	}

	ent.CreatedAt = now
	ent.UpdatedAt = now
	s.entities[ent.ID] = ent
	s.entityOrder = append(s.entityOrder, ent.ID)
	return ent, nil
}

func (s *Store) GetEntity(_ context.Context, id string) (domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ent, ok := s.entities[id]
	if !ok {
		return domain.Entity{}, domain.ErrNotFound
	}
	return ent, nil
}

func (s *Store) GetEntityByName(_ context.Context, namespace, entityType, name string) (domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.entityOrder {
		ent := s.entities[id]
		if ent.Namespace == namespace && ent.Type == entityType && ent.Name == name {
			return ent, nil
		}
	}
	return domain.Entity{}, domain.ErrNotFound
}

func (s *Store) ListEntities(_ context.Context, namespace, entityType string) ([]domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entities []domain.Entity
	for _, id := range s.entityOrder {
		ent := s.entities[id]
		if ent.Namespace != namespace {
			continue
		}
		if entityType != "" && ent.Type != entityType {
			continue
		}
		entities = append(entities, ent)
	}
	return entities, nil
}

// ==================== Links ====================

func (s *Store) AddEntityLink(ctx context.Context, link domain.EntityLink) error {
	return s.AddEntityLinks(ctx, []domain.EntityLink{link})
}

func (s *Store) AddEntityLinks(_ context.Context, links []domain.EntityLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	for _, link := range links {
		key := [3]string{link.SegmentID, link.EntityID, link.LinkType}
		if existing, ok := s.links[key]; ok {
			existing.Confidence = link.Confidence
			s.links[key] = existing
			continue
		}
		if link.CreatedAt.IsZero() {
			link.CreatedAt = now
		}
		s.links[key] = link
		s.linkOrder = append(s.linkOrder, key)
	}
	return nil
}

func (s *Store) GetSegmentsForEntity(_ context.Context, entityID string) ([]domain.EntityMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type joined struct {
		match        domain.EntityMatch
		createdAt    time.Time
		segmentIndex int
	}
	var rows []joined
	for _, key := range s.linkOrder {
		link := s.links[key]
		if link.EntityID != entityID {
			continue
		}
		seg, ok := s.segments[link.SegmentID]
		if !ok {
			continue
		}
		res := s.resources[seg.ResourceID]
		rows = append(rows, joined{
			match: domain.EntityMatch{
				SegmentID:  seg.ID,
				Text:       seg.Text,
				Provenance: seg.Provenance,
				SourceURI:  res.SourceURI,
				Namespace:  res.Namespace,
				LinkType:   link.LinkType,
				Confidence: link.Confidence,
			},
			createdAt:    seg.CreatedAt,
			segmentIndex: seg.SegmentIndex,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].createdAt.Equal(rows[j].createdAt) {
			return rows[i].createdAt.Before(rows[j].createdAt)
		}
		return rows[i].segmentIndex < rows[j].segmentIndex
	})

	matches := make([]domain.EntityMatch, len(rows))
	for i, r := range rows {
		matches[i] = r.match
	}
	return matches, nil
}

func (s *Store) GetEntitiesForSegment(_ context.Context, segmentID string) ([]domain.LinkedEntity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var linked []domain.LinkedEntity
	for _, id := range s.entityOrder {
		for _, key := range s.linkOrder {
			link := s.links[key]
			if link.SegmentID == segmentID && link.EntityID == id {
				linked = append(linked, domain.LinkedEntity{
					Entity:     s.entities[id],
					LinkType:   link.LinkType,
					Confidence: link.Confidence,
				})
			}
		}
	}
	return linked, nil
}

func (s *Store) CountMentions(_ context.Context, entityID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, link := range s.links {
		if link.EntityID == entityID {
			count++
		}
	}
	return count, nil
}

// ==================== Embeddings ====================

func (s *Store) AddEmbedding(_ context.Context, emb domain.Embedding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if emb.CreatedAt.IsZero() {
		emb.CreatedAt = time.Now().UTC()
	}
	s.embeddings[emb.SegmentID] = emb
	return nil
}

func (s *Store) GetEmbedding(_ context.Context, segmentID string) (domain.Embedding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emb, ok := s.embeddings[segmentID]
	if !ok {
		return domain.Embedding{}, domain.ErrNotFound
	}
	return emb, nil
}

func (s *Store) ListSegmentEmbeddings(_ context.Context, namespace string) ([]driven.SegmentEmbedding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type joined struct {
		se           driven.SegmentEmbedding
		segmentIndex int
	}
	var rows []joined
	for _, segID := range s.segmentOrder {
		emb, ok := s.embeddings[segID]
		if !ok {
			continue
		}
		seg := s.segments[segID]
		res, ok := s.resources[seg.ResourceID]
		if !ok || res.Namespace != namespace {
			continue
		}
		rows = append(rows, joined{
			se: driven.SegmentEmbedding{
				SegmentID:  seg.ID,
				Vector:     emb.Vector,
				Text:       seg.Text,
				Provenance: seg.Provenance,
				SourceURI:  res.SourceURI,
				Namespace:  res.Namespace,
			},
			segmentIndex: seg.SegmentIndex,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].se.SourceURI != rows[j].se.SourceURI {
			return rows[i].se.SourceURI < rows[j].se.SourceURI
		}
		return rows[i].segmentIndex < rows[j].segmentIndex
	})

	embeddings := make([]driven.SegmentEmbedding, len(rows))
	for i, r := range rows {
		embeddings[i] = r.se
	}
	return embeddings, nil
}

// ==================== Stats ====================

func (s *Store) Stats(_ context.Context, namespace string) (domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.Stats{Namespace: namespace}
	resourceIDs := make(map[string]bool)
	for _, res := range s.resources {
		if res.Namespace == namespace {
			stats.ResourceCount++
			resourceIDs[res.ID] = true
		}
	}
	for _, seg := range s.segments {
		if resourceIDs[seg.ResourceID] {
			stats.SegmentCount++
		}
	}
	types := make(map[string]bool)
	for _, ent := range s.entities {
		if ent.Namespace == namespace {
			stats.EntityCount++
			types[ent.Type] = true
		}
	}
	stats.EntityTypeCount = len(types)
	return stats, nil
}

// String describes the store for debugging.
func (s *Store) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("memory.Store{resources:%d segments:%d entities:%d links:%d embeddings:%d}",
		len(s.resources), len(s.segments), len(s.entities), len(s.links), len(s.embeddings))
}
