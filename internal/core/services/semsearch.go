package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mindexhq/mindex/internal/core/domain"
	"github.com/mindexhq/mindex/internal/core/ports/driven"
	"github.com/mindexhq/mindex/internal/core/ports/driving"
	"github.com/mindexhq/mindex/internal/logger"
)

// Ensure SemanticSearch implements the interface.
var _ driving.SearchService = (*SemanticSearch)(nil)

// defaultTopK is the result count when the caller passes none.
const defaultTopK = 5

// SemanticSearch ranks segments by cosine similarity between the query
// embedding and stored segment embeddings. Ranking is a deliberate
// linear scan over the namespace: corpora are small enough that an ANN
// index would buy nothing and cost determinism.
type SemanticSearch struct {
	store    driven.KnowledgeStore
	embedder driven.EmbeddingService
}

// NewSemanticSearch creates the search service. The embedder may be nil,
// in which case Search reports the feature unavailable.
func NewSemanticSearch(store driven.KnowledgeStore, embedder driven.EmbeddingService) *SemanticSearch {
	return &SemanticSearch{store: store, embedder: embedder}
}

// Search embeds the query and returns the topK most similar segments in
// the namespace, best first.
func (s *SemanticSearch) Search(ctx context.Context, query string, topK int, namespace string) ([]domain.SearchResult, error) {
	logger.Section("Semantic Search")
	logger.Debug("query=%q namespace=%s topK=%d", query, namespace, topK)

	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	candidates, err := s.store.ListSegmentEmbeddings(ctx, namespace)
	if err != nil {
		return nil, fmt.Errorf("listing embeddings: %w", err)
	}
	logger.Debug("scanning %d candidate embeddings", len(candidates))

	results := make([]domain.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		results = append(results, domain.SearchResult{
			SegmentID:  c.SegmentID,
			Text:       c.Text,
			Provenance: c.Provenance,
			SourceURI:  c.SourceURI,
			Namespace:  c.Namespace,
			Score:      CosineSimilarity(queryVec, c.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// CosineSimilarity computes the cosine of the angle between two
// vectors. Mismatched lengths or a zero-norm vector score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
