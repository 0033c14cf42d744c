package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mindexhq/mindex/internal/core/domain"
	"github.com/mindexhq/mindex/internal/core/ports/driven"
	"github.com/mindexhq/mindex/internal/core/ports/driving"
	"github.com/mindexhq/mindex/internal/logger"
	"github.com/mindexhq/mindex/internal/segmenter"
)

// Ensure IngestionPipeline implements the interface.
var _ driving.IngestionService = (*IngestionPipeline)(nil)

// embedBatchSize bounds how many segment texts go to the embedding
// service in one request.
const embedBatchSize = 32

// IngestionPipeline orchestrates one document's journey from bytes to
// linked, embedded segments: register resource, segment, persist, link
// entities, embed. Every step is idempotent, so re-ingesting identical
// bytes leaves the store unchanged.
type IngestionPipeline struct {
	store         driven.KnowledgeStore
	segmenter     *segmenter.Segmenter
	extractor     driven.EntityExtractor
	textExtractor driven.TextExtractor
	embedder      driven.EmbeddingService
	linker        *EntityLinker
}

// NewIngestionPipeline creates the pipeline. The textExtractor handles
// binary formats (PDF); the embedder is optional (nil disables
// embedding generation, exact recall still works).
func NewIngestionPipeline(
	store driven.KnowledgeStore,
	seg *segmenter.Segmenter,
	extractor driven.EntityExtractor,
	textExtractor driven.TextExtractor,
	embedder driven.EmbeddingService,
) *IngestionPipeline {
	return &IngestionPipeline{
		store:         store,
		segmenter:     seg,
		extractor:     extractor,
		textExtractor: textExtractor,
		embedder:      embedder,
		linker:        NewEntityLinker(store),
	}
}

// IngestFile ingests one file and returns the number of segments stored
// for it. Unchanged content is detected by hash and skipped early; the
// return is then the resource's existing segment count.
func (p *IngestionPipeline) IngestFile(ctx context.Context, path, namespace string, metadata map[string]string) (int, error) {
	logger.Section("Ingest")
	logger.Debug("path=%s namespace=%s", path, namespace)

	absPath, err := filepath.Abs(path)
	if err != nil {
		return 0, fmt.Errorf("resolving path %s: %w", path, err)
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", absPath, err)
	}

	sourceType, err := sourceTypeFor(absPath)
	if err != nil {
		return 0, err
	}

	res, changed, err := p.registerResource(ctx, absPath, namespace, sourceType, content, metadata)
	if err != nil {
		return 0, err
	}
	if !changed {
		count, err := p.store.CountSegmentsForResource(ctx, res.ID)
		if err != nil {
			return 0, fmt.Errorf("counting segments: %w", err)
		}
		logger.Info("content unchanged for %s (%d segments)", res.SourceURI, count)
		return count, nil
	}

	segments, err := p.segment(ctx, res, absPath, content)
	if err != nil {
		return 0, err
	}
	if len(segments) == 0 {
		logger.Warn("no segments created from %s", absPath)
		return 0, nil
	}

	if err := p.store.UpsertSegments(ctx, segments); err != nil {
		return 0, fmt.Errorf("storing segments: %w", err)
	}

	if _, err := p.linker.Link(ctx, namespace, segments, p.extractor); err != nil {
		return 0, fmt.Errorf("linking entities: %w", err)
	}

	p.embedMissing(ctx, segments)

	logger.Info("ingested %s: %d segments", absPath, len(segments))
	return len(segments), nil
}

// IngestDirectory ingests every regular file under dir whose base name
// matches the glob pattern ("" means all). Per-file failures are logged
// and skipped so one bad file does not abort the batch.
func (p *IngestionPipeline) IngestDirectory(ctx context.Context, dir, pattern, namespace string, recursive bool) (int, error) {
	if pattern == "" {
		pattern = "*"
	}

	total := 0
	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return fs.SkipDir
			}
			return nil
		}
		matched, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if !matched {
			return nil
		}
		if _, err := sourceTypeFor(path); err != nil {
			logger.Debug("skipping %s: unsupported type", path)
			return nil
		}

		count, err := p.IngestFile(ctx, path, namespace, nil)
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			return nil
		}
		total += count
		return nil
	}

	if err := filepath.WalkDir(dir, walk); err != nil {
		return total, fmt.Errorf("walking %s: %w", dir, err)
	}
	return total, nil
}

// ReingestChanged re-ingests every resource in the namespace whose file
// content no longer matches its stored hash. Missing files are skipped
// with a warning.
func (p *IngestionPipeline) ReingestChanged(ctx context.Context, namespace string) (int, error) {
	resources, err := p.store.ListResources(ctx, namespace)
	if err != nil {
		return 0, fmt.Errorf("listing resources: %w", err)
	}

	reingested := 0
	for _, res := range resources {
		path, ok := strings.CutPrefix(res.SourceURI, "file://")
		if !ok {
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("file not found, skipping: %s", path)
			continue
		}
		if domain.ContentHash(content) == res.ContentHash {
			continue
		}

		logger.Info("content changed, re-ingesting: %s", path)
		if _, err := p.IngestFile(ctx, path, namespace, res.Metadata); err != nil {
			logger.Warn("re-ingesting %s: %v", path, err)
			continue
		}
		reingested++
	}

	logger.Info("re-ingested %d changed resources", reingested)
	return reingested, nil
}

// registerResource upserts the information resource for a file and
// reports whether its content is new or changed.
func (p *IngestionPipeline) registerResource(ctx context.Context, absPath, namespace, sourceType string, content []byte, metadata map[string]string) (domain.InformationResource, bool, error) {
	sourceURI := "file://" + absPath
	contentHash := domain.ContentHash(content)

	existing, err := p.store.GetResourceByURI(ctx, namespace, sourceURI)
	switch {
	case err == nil:
		if existing.ContentHash == contentHash {
			return existing, false, nil
		}
		existing.ContentHash = contentHash
		if existing.Metadata == nil {
			existing.Metadata = make(map[string]string)
		}
		for k, v := range metadata {
			existing.Metadata[k] = v
		}
		updated, err := p.store.UpsertResource(ctx, existing)
		if err != nil {
			return domain.InformationResource{}, false, fmt.Errorf("updating resource: %w", err)
		}
		return updated, true, nil

	case errors.Is(err, domain.ErrNotFound):
		res := domain.InformationResource{
			ID:          domain.NewResourceID(),
			Namespace:   namespace,
			SourceType:  sourceType,
			SourceURI:   sourceURI,
			ContentHash: contentHash,
			Metadata:    metadata,
		}
		stored, err := p.store.UpsertResource(ctx, res)
		if err != nil {
			return domain.InformationResource{}, false, fmt.Errorf("registering resource: %w", err)
		}
		return stored, true, nil

	default:
		return domain.InformationResource{}, false, fmt.Errorf("looking up resource: %w", err)
	}
}

// segment dispatches to the format-specific segmentation path.
func (p *IngestionPipeline) segment(ctx context.Context, res domain.InformationResource, absPath string, content []byte) ([]domain.ResourceSegment, error) {
	switch res.SourceType {
	case "pdf":
		pages, err := p.textExtractor.Extract(ctx, absPath)
		if err != nil {
			logger.Warn("no content extracted from %s: %v", absPath, err)
			return nil, nil
		}
		return p.segmenter.SegmentPages(pages, res.ID, res.Namespace, res.SourceURI), nil
	case "md":
		return p.segmenter.SegmentMarkdown(string(content), res.ID, res.Namespace, res.SourceURI), nil
	case "txt":
		return p.segmenter.SegmentText(string(content), res.ID, res.Namespace, res.SourceURI), nil
	}
	return nil, fmt.Errorf("%s: %w", res.SourceType, domain.ErrUnsupportedType)
}

// embedMissing generates embeddings for segments that lack one.
// Embedding is best effort: failures leave segments unembedded and are
// retried on the next ingestion.
func (p *IngestionPipeline) embedMissing(ctx context.Context, segments []domain.ResourceSegment) {
	if p.embedder == nil {
		logger.Debug("no embedding service configured, skipping embedding")
		return
	}

	var pending []domain.ResourceSegment
	for _, seg := range segments {
		_, err := p.store.GetEmbedding(ctx, seg.ID)
		if errors.Is(err, domain.ErrNotFound) {
			pending = append(pending, seg)
		} else if err != nil {
			logger.Warn("checking embedding for %s: %v", seg.ID, err)
		}
	}
	if len(pending) == 0 {
		return
	}
	logger.Debug("embedding %d segments", len(pending))

	model := p.embedder.ModelName()
	for start := 0; start < len(pending); start += embedBatchSize {
		batch := pending[start:min(start+embedBatchSize, len(pending))]
		texts := make([]string, len(batch))
		for i, seg := range batch {
			texts[i] = seg.Text
		}

		vectors, err := p.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			logger.Warn("embedding batch failed, segments left unembedded: %v", err)
			continue
		}
		for i, seg := range batch {
			emb := domain.Embedding{SegmentID: seg.ID, Model: model, Vector: vectors[i]}
			if err := p.store.AddEmbedding(ctx, emb); err != nil {
				logger.Warn("storing embedding for %s: %v", seg.ID, err)
			}
		}
	}
}

// sourceTypeFor maps a file extension to a source type.
func sourceTypeFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "pdf", nil
	case ".md", ".markdown":
		return "md", nil
	case ".txt":
		return "txt", nil
	}
	return "", fmt.Errorf("%s: %w", filepath.Ext(path), domain.ErrUnsupportedType)
}
