package driven

import "github.com/mindexhq/mindex/internal/core/domain"

// EntityExtractor finds candidate entity mentions in segment text.
// Extraction must be deterministic: the same text always yields the same
// candidates in the same order.
type EntityExtractor interface {
	// Extract returns the candidates found in text. An empty result is a
	// normal outcome, not an error.
	Extract(text string) []domain.ExtractedEntity

	// Name identifies the extractor for logging.
	Name() string
}
