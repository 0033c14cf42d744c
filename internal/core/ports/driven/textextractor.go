package driven

import (
	"context"

	"github.com/mindexhq/mindex/internal/core/domain"
)

// TextExtractor pulls page-ordered plain text out of a binary source
// format. Adapters decide which pages count as empty and skip them.
type TextExtractor interface {
	Extract(ctx context.Context, path string) ([]domain.PageText, error)
}
