package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindexhq/mindex/internal/adapters/driven/storage/memory"
	"github.com/mindexhq/mindex/internal/core/domain"
	"github.com/mindexhq/mindex/internal/extractors/regex"
)

func linkerSegments(namespace string, texts ...string) []domain.ResourceSegment {
	segs := make([]domain.ResourceSegment, len(texts))
	for i, text := range texts {
		prov := domain.Provenance{Sentence: i}
		segs[i] = domain.ResourceSegment{
			ID:           domain.SegmentID(namespace, "file:///a.txt", prov.Key(), text),
			ResourceID:   "ir-1",
			SegmentIndex: i,
			Text:         text,
			Provenance:   prov,
			TextHash:     domain.TextHash(text),
		}
	}
	return segs
}

func TestLink_CreatesEntitiesAndLinks(t *testing.T) {
	store := memory.NewStore()
	linker := NewEntityLinker(store)
	extractor, err := regex.New()
	require.NoError(t, err)
	ctx := context.Background()

	segs := linkerSegments("lab_a",
		"The CCNA001 strain showed increased resistance.",
		"BRCA1 expression changed in the CCNA001 background.")

	count, err := linker.Link(ctx, "lab_a", segs, extractor)
	require.NoError(t, err)
	assert.Positive(t, count)

	ent, err := store.GetEntityByName(ctx, "lab_a", "strain", "CCNA001")
	require.NoError(t, err)

	mentions, err := store.CountMentions(ctx, ent.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, mentions, "one link per mentioning segment")
}

func TestLink_Idempotent(t *testing.T) {
	store := memory.NewStore()
	linker := NewEntityLinker(store)
	extractor, err := regex.New()
	require.NoError(t, err)
	ctx := context.Background()

	segs := linkerSegments("lab_a", "The CCNA001 strain showed increased resistance.")

	first, err := linker.Link(ctx, "lab_a", segs, extractor)
	require.NoError(t, err)
	second, err := linker.Link(ctx, "lab_a", segs, extractor)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// One canonical entity, no duplicates.
	entities, err := store.ListEntities(ctx, "lab_a", "strain")
	require.NoError(t, err)
	assert.Len(t, entities, 1)

	ent := entities[0]
	mentions, err := store.CountMentions(ctx, ent.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, mentions)
}

func TestLink_NoCandidates(t *testing.T) {
	store := memory.NewStore()
	linker := NewEntityLinker(store)
	extractor, err := regex.New()
	require.NoError(t, err)

	segs := linkerSegments("lab_a", "plain lowercase words without identifiers at all")

	count, err := linker.Link(context.Background(), "lab_a", segs, extractor)
	require.NoError(t, err)
	assert.Zero(t, count)

	entities, err := store.ListEntities(context.Background(), "lab_a", "")
	require.NoError(t, err)
	assert.Empty(t, entities)
}
