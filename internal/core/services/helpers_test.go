package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mindexhq/mindex/internal/adapters/driven/storage/memory"
	"github.com/mindexhq/mindex/internal/core/ports/driven"
	"github.com/mindexhq/mindex/internal/extractors/regex"
	"github.com/mindexhq/mindex/internal/segmenter"
)

// fakeEmbedder is a deterministic EmbeddingService for tests.
type fakeEmbedder struct {
	embedFn func(text string) []float32
	calls   int
}

var _ driven.EmbeddingService = (*fakeEmbedder)(nil)

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{
		embedFn: func(text string) []float32 {
			// Cheap deterministic vector derived from the text.
			var sum float32
			for _, r := range text {
				sum += float32(r)
			}
			return []float32{sum, float32(len(text)), 1}
		},
	}
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	return f.embedFn(text), nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int              { return 3 }
func (f *fakeEmbedder) ModelName() string            { return "fake-embedder" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

// newTestPipeline wires a pipeline onto an in-memory store with the
// default segmenter and regex extractor.
func newTestPipeline(t *testing.T, store *memory.Store, embedder driven.EmbeddingService) *IngestionPipeline {
	t.Helper()
	extractor, err := regex.New()
	require.NoError(t, err)
	return NewIngestionPipeline(store, segmenter.New(), extractor, nil, embedder)
}

// writeFile creates a file under dir with the given name and content.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// sampleText mentions the CCNA001 strain across multiple sentences.
const sampleText = "The CCNA001 strain showed increased resistance in trials. " +
	"Growth rates of the CCNA001 cultures were measured daily here. " +
	"The control group used the BY4741 strain for comparison runs. " +
	"Final measurements confirmed the resistance phenotype overall."
