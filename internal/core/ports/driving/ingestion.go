package driving

import "context"

// IngestionService turns source files into stored segments, entities,
// links and embeddings. Every operation is idempotent: ingesting the
// same bytes twice leaves the store unchanged.
type IngestionService interface {
	// IngestFile ingests a single file into the namespace and returns
	// the number of segments stored for it. Metadata is attached to the
	// information resource.
	IngestFile(ctx context.Context, path, namespace string, metadata map[string]string) (int, error)

	// IngestDirectory ingests every file in dir matching the glob
	// pattern, optionally recursing. Per-file failures are logged and
	// skipped; the return is the total segment count across ingested
	// files.
	IngestDirectory(ctx context.Context, dir, pattern, namespace string, recursive bool) (int, error)

	// ReingestChanged re-ingests every known resource in the namespace
	// whose content hash no longer matches the file on disk. Missing
	// files are skipped with a warning. It returns the number of
	// resources re-ingested.
	ReingestChanged(ctx context.Context, namespace string) (int, error)
}
