package driving

import (
	"context"

	"github.com/mindexhq/mindex/internal/core/domain"
)

// SearchService provides semantic similarity search to external actors.
type SearchService interface {
	// Search embeds the query and returns the topK most similar segments
	// in the namespace, best first. topK <= 0 uses a default.
	Search(ctx context.Context, query string, topK int, namespace string) ([]domain.SearchResult, error)
}
